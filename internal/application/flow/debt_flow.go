package flow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/finance-assistant/bot/internal/application/usecase/debt"
	"github.com/finance-assistant/bot/internal/application/usecase/transaction"
	"github.com/finance-assistant/bot/internal/domain/entity"
)

func (e *Engine) startDebt(ctx context.Context, user *entity.User, direction entity.DebtDirection, viaButton bool) {
	sess := e.beginFlow(user, AwaitingDebtPerson{Direction: direction})
	prompt := "Who do you owe?"
	if direction == entity.DebtDirectionTheyOwe {
		prompt = "Who owes you?"
	}
	e.reply(ctx, sess, viaButton, prompt, cancelKeyboard())
}

func (e *Engine) debtPersonEntered(ctx context.Context, user *entity.User, sess *Session, step AwaitingDebtPerson, text string) {
	person := strings.TrimSpace(text)
	if person == "" {
		e.reply(ctx, sess, false, "I need a name, try again.", cancelKeyboard())
		return
	}

	sess.Step = AwaitingDebtAmount{Direction: step.Direction, Person: person}
	e.sessions.Save(sess)
	e.reply(ctx, sess, false, "How much?", cancelKeyboard())
}

func (e *Engine) debtAmountEntered(ctx context.Context, user *entity.User, sess *Session, step AwaitingDebtAmount, text string) {
	amount, _, err := parseAmount(text)
	if err != nil {
		e.reply(ctx, sess, false, "That doesn't look like an amount, try again.", cancelKeyboard())
		return
	}

	sess.Step = AwaitingDebtDueDate{Direction: step.Direction, Person: step.Person, Amount: amount}
	e.sessions.Save(sess)
	e.reply(ctx, sess, false, "When is it due? Send a date (2025-12-31) or skip.", skipCancelKeyboard())
}

func (e *Engine) debtDueDateEntered(ctx context.Context, user *entity.User, sess *Session, step AwaitingDebtDueDate, text string) {
	dueDate, err := parseDate(text)
	if err != nil {
		e.reply(ctx, sess, false, "I couldn't read that date. Use 2025-12-31, or skip.", skipCancelKeyboard())
		return
	}
	e.finishDebt(ctx, user, sess, step, dueDate, false)
}

func (e *Engine) finishDebt(ctx context.Context, user *entity.User, sess *Session, step AwaitingDebtDueDate, dueDate *time.Time, viaButton bool) {
	out, err := e.uc.CreateDebt.Execute(ctx, debt.CreateDebtInput{
		UserID:     user.ID,
		PersonName: step.Person,
		Direction:  step.Direction,
		Amount:     step.Amount,
		DueDate:    dueDate,
	})
	if err != nil {
		e.finish(ctx, user, sess, viaButton, e.failureText(err))
		return
	}

	text := fmt.Sprintf("Noted: you owe %s %s.", out.Debt.PersonName, money(out.Debt.Amount))
	if out.Debt.Direction == entity.DebtDirectionTheyOwe {
		text = fmt.Sprintf("Noted: %s owes you %s.", out.Debt.PersonName, money(out.Debt.Amount))
	}
	if out.Debt.DueDate != nil {
		text += " Due " + out.Debt.DueDate.Format("2006-01-02") + "."
	}
	e.finish(ctx, user, sess, viaButton, text)
}

func (e *Engine) startDebtPayment(ctx context.Context, user *entity.User, rawID string, viaButton bool) {
	id, ok := parseID(rawID)
	if !ok {
		e.send(ctx, user.ChatID, "That record no longer exists.", menuKeyboard())
		return
	}

	sess := e.beginFlow(user, AwaitingDebtPayment{DebtID: id})
	e.reply(ctx, sess, viaButton, "How much was paid?", cancelKeyboard())
}

// debtPaymentEntered settles (part of) a debt and mirrors the payment into
// the ledger: paying off what I owe is an expense, receiving what they owe
// is income. The mirrored amount is the clamped Applied value, never the
// raw input.
func (e *Engine) debtPaymentEntered(ctx context.Context, user *entity.User, sess *Session, step AwaitingDebtPayment, text string) {
	amount, _, err := parseAmount(text)
	if err != nil {
		e.reply(ctx, sess, false, "That doesn't look like an amount, try again.", cancelKeyboard())
		return
	}

	out, err := e.uc.RecordDebtPayment.Execute(ctx, debt.RecordPaymentInput{
		UserID: user.ID,
		DebtID: step.DebtID,
		Amount: amount,
	})
	if err != nil {
		e.finish(ctx, user, sess, false, e.failureText(err))
		return
	}

	direction := entity.DirectionExpense
	description := "Debt payment to " + out.Debt.PersonName
	if out.Debt.Direction == entity.DebtDirectionTheyOwe {
		direction = entity.DirectionIncome
		description = "Debt repayment from " + out.Debt.PersonName
	}

	text = fmt.Sprintf("Payment of %s recorded.", money(out.Applied))
	if out.Settled {
		text = fmt.Sprintf("Payment of %s recorded. The debt with %s is settled.", money(out.Applied), out.Debt.PersonName)
	} else {
		text += fmt.Sprintf(" Remaining: %s.", money(out.Debt.RemainingAmount))
	}

	if out.Applied.IsPositive() {
		txn, err := e.uc.ProcessTransaction.Execute(ctx, transaction.ProcessTransactionInput{
			UserID:      user.ID,
			Amount:      out.Applied,
			Direction:   direction,
			Description: description,
		})
		if err != nil {
			// The debt is already updated; surface the ledger failure but do
			// not roll the payment back.
			e.log.Error("debt payment ledger write failed", "user_id", user.ID, "error", err)
			text += " The balance update failed: " + e.failureText(err)
		} else {
			text += fmt.Sprintf(" Balance: %s %s.", money(txn.Balance), txn.Currency)
		}
	}

	e.finish(ctx, user, sess, false, text)
}
