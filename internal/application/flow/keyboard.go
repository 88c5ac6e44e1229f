package flow

import (
	"github.com/google/uuid"

	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/domain/entity"
)

// Callback payloads. Parameterized actions append an entity id after the
// trailing colon.
const (
	actionMenu   = "menu"
	actionCancel = "cancel"
	actionBack   = "back"
	actionSkip   = "skip"

	actionNewExpense = "new_expense"
	actionNewIncome  = "new_income"
	actionDeposit    = "deposit"
	actionWithdraw   = "withdraw"
	actionImpulse    = "impulse"
	actionCategory   = "cat:"
	actionUndo       = "undo:"

	actionGoals        = "goals"
	actionGoalNew      = "goal_new"
	actionGoalFund     = "goal_fund"
	actionGoalActivate = "goal_activate:"

	actionDebts          = "debts"
	actionDebtNewIOwe    = "debt_new_iowe"
	actionDebtNewTheyOwe = "debt_new_theyowe"
	actionDebtPay        = "pay_debt:"

	actionRegular       = "regular"
	actionPaymentNew    = "payment_new"
	actionPayRegular    = "pay_regular:"
	actionPaymentPause  = "payment_pause:"
	actionPaymentResume = "payment_resume:"
	actionFrequency     = "freq:"

	actionLimitNew = "limit_new"
	actionTop      = "top"
	actionReport   = "report"
	actionFeedback = "feedback"
)

func menuKeyboard() *adapter.Keyboard {
	return adapter.NewKeyboard(
		[]adapter.Button{{Label: "Expense", Data: actionNewExpense}, {Label: "Income", Data: actionNewIncome}},
		[]adapter.Button{{Label: "Deposit", Data: actionDeposit}, {Label: "Withdraw", Data: actionWithdraw}},
		[]adapter.Button{{Label: "Goals", Data: actionGoals}, {Label: "Debts", Data: actionDebts}},
		[]adapter.Button{{Label: "Regular payments", Data: actionRegular}, {Label: "Set limit", Data: actionLimitNew}},
		[]adapter.Button{{Label: "Top expenses", Data: actionTop}, {Label: "Report", Data: actionReport}},
		[]adapter.Button{{Label: "Feedback", Data: actionFeedback}},
	)
}

func cancelKeyboard() *adapter.Keyboard {
	return adapter.NewKeyboard(
		[]adapter.Button{{Label: "Cancel", Data: actionCancel}},
	)
}

func skipCancelKeyboard() *adapter.Keyboard {
	return adapter.NewKeyboard(
		[]adapter.Button{{Label: "Skip", Data: actionSkip}},
		[]adapter.Button{{Label: "Cancel", Data: actionCancel}},
	)
}

func descriptionKeyboard() *adapter.Keyboard {
	return adapter.NewKeyboard(
		[]adapter.Button{{Label: "Skip", Data: actionSkip}, {Label: "Impulse buy", Data: actionImpulse}},
		[]adapter.Button{{Label: "Cancel", Data: actionCancel}},
	)
}

// receiptKeyboard is attached to a freshly recorded transaction so the user
// can reverse a slip of the finger in one press.
func receiptKeyboard(transactionID uuid.UUID) *adapter.Keyboard {
	return adapter.NewKeyboard(
		[]adapter.Button{{Label: "Undo", Data: actionUndo + transactionID.String()}},
		[]adapter.Button{{Label: "Menu", Data: actionMenu}},
	)
}

func categoryKeyboard(categories []*entity.Category, withBack bool) *adapter.Keyboard {
	kb := &adapter.Keyboard{}
	row := []adapter.Button{}
	for _, c := range categories {
		row = append(row, adapter.Button{Label: c.Name, Data: actionCategory + c.ID.String()})
		if len(row) == 2 {
			kb.Rows = append(kb.Rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb.Rows = append(kb.Rows, row)
	}

	last := []adapter.Button{}
	if withBack {
		last = append(last, adapter.Button{Label: "Back", Data: actionBack})
	}
	last = append(last, adapter.Button{Label: "Cancel", Data: actionCancel})
	kb.Rows = append(kb.Rows, last)
	return kb
}

func frequencyKeyboard() *adapter.Keyboard {
	return adapter.NewKeyboard(
		[]adapter.Button{
			{Label: "Daily", Data: actionFrequency + string(entity.FrequencyDaily)},
			{Label: "Weekly", Data: actionFrequency + string(entity.FrequencyWeekly)},
		},
		[]adapter.Button{
			{Label: "Monthly", Data: actionFrequency + string(entity.FrequencyMonthly)},
			{Label: "Yearly", Data: actionFrequency + string(entity.FrequencyYearly)},
		},
		[]adapter.Button{{Label: "Cancel", Data: actionCancel}},
	)
}

func amountPrompt(direction entity.Direction) string {
	if direction == entity.DirectionExpense {
		return "Enter the expense amount. You can add a description on the same line, e.g. \"250 taxi home\"."
	}
	return "Enter the income amount. You can add a description on the same line."
}
