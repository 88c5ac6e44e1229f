package flow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/application/usecase/debt"
	"github.com/finance-assistant/bot/internal/application/usecase/goal"
	"github.com/finance-assistant/bot/internal/application/usecase/regularpayment"
	"github.com/finance-assistant/bot/internal/application/usecase/transaction"
	"github.com/finance-assistant/bot/internal/domain/entity"
)

const menuText = "What would you like to do?"

func (e *Engine) sendMenu(ctx context.Context, user *entity.User) {
	e.send(ctx, user.ChatID, menuText, menuKeyboard())
}

func (e *Engine) editToMenu(ctx context.Context, user *entity.User, messageID int64) {
	if messageID != 0 {
		if err := e.transport.EditMessage(ctx, user.ChatID, messageID, menuText, menuKeyboard()); err == nil {
			return
		}
	}
	e.sendMenu(ctx, user)
}

func (e *Engine) sendGoals(ctx context.Context, user *entity.User) {
	out, err := e.uc.ListGoals.Execute(ctx, goal.ListGoalsInput{UserID: user.ID})
	if err != nil {
		e.log.Error("list goals failed", "user_id", user.ID, "error", err)
		e.send(ctx, user.ChatID, e.failureText(err), menuKeyboard())
		return
	}

	var b strings.Builder
	kb := &adapter.Keyboard{}
	if len(out.Goals) == 0 {
		b.WriteString("You have no goals yet.")
	} else {
		b.WriteString("Your goals:\n")
		for _, g := range out.Goals {
			switch {
			case g.IsCompleted:
				fmt.Fprintf(&b, "\n[done] %s — %s saved", g.Name, money(g.TargetAmount))
			case g.IsActive:
				fmt.Fprintf(&b, "\n[active] %s — %s of %s", g.Name, money(g.CurrentAmount), money(g.TargetAmount))
			default:
				fmt.Fprintf(&b, "\n[queued] %s — %s of %s", g.Name, money(g.CurrentAmount), money(g.TargetAmount))
				kb.Rows = append(kb.Rows, []adapter.Button{{
					Label: "Activate " + g.Name,
					Data:  actionGoalActivate + g.ID.String(),
				}})
			}
		}
	}

	kb.Rows = append(kb.Rows,
		[]adapter.Button{{Label: "New goal", Data: actionGoalNew}, {Label: "Add funds", Data: actionGoalFund}},
		[]adapter.Button{{Label: "Menu", Data: actionMenu}},
	)
	e.send(ctx, user.ChatID, b.String(), kb)
}

func (e *Engine) sendDebts(ctx context.Context, user *entity.User) {
	out, err := e.uc.ListDebts.Execute(ctx, debt.ListDebtsInput{UserID: user.ID})
	if err != nil {
		e.log.Error("list debts failed", "user_id", user.ID, "error", err)
		e.send(ctx, user.ChatID, e.failureText(err), menuKeyboard())
		return
	}

	var b strings.Builder
	kb := &adapter.Keyboard{}
	if len(out.Debts) == 0 {
		b.WriteString("No open debts.")
	} else {
		b.WriteString("Open debts:\n")
		for _, d := range out.Debts {
			who := "you owe " + d.PersonName
			if d.Direction == entity.DebtDirectionTheyOwe {
				who = d.PersonName + " owes you"
			}
			fmt.Fprintf(&b, "\n%s — %s left of %s", who, money(d.RemainingAmount), money(d.Amount))
			if d.DueDate != nil {
				fmt.Fprintf(&b, ", due %s", d.DueDate.Format("2006-01-02"))
			}
			kb.Rows = append(kb.Rows, []adapter.Button{{
				Label: "Pay " + d.PersonName,
				Data:  actionDebtPay + d.ID.String(),
			}})
		}
	}

	kb.Rows = append(kb.Rows,
		[]adapter.Button{{Label: "I owe", Data: actionDebtNewIOwe}, {Label: "Owed to me", Data: actionDebtNewTheyOwe}},
		[]adapter.Button{{Label: "Menu", Data: actionMenu}},
	)
	e.send(ctx, user.ChatID, b.String(), kb)
}

func (e *Engine) sendRegularPayments(ctx context.Context, user *entity.User) {
	out, err := e.uc.ListPayments.Execute(ctx, regularpayment.ListPaymentsInput{UserID: user.ID})
	if err != nil {
		e.log.Error("list regular payments failed", "user_id", user.ID, "error", err)
		e.send(ctx, user.ChatID, e.failureText(err), menuKeyboard())
		return
	}

	var b strings.Builder
	kb := &adapter.Keyboard{}
	if len(out.Payments) == 0 {
		b.WriteString("No regular payments yet.")
	} else {
		b.WriteString("Regular payments:\n")
		for _, p := range out.Payments {
			state := ""
			if p.IsPaused {
				state = " (paused)"
			}
			fmt.Fprintf(&b, "\n%s — %s %s, next due %s%s",
				p.Name, money(p.Amount), p.Frequency, p.NextDueDate.Format("2006-01-02"), state)

			row := []adapter.Button{{Label: "Paid " + p.Name, Data: actionPayRegular + p.ID.String()}}
			if p.IsPaused {
				row = append(row, adapter.Button{Label: "Resume", Data: actionPaymentResume + p.ID.String()})
			} else {
				row = append(row, adapter.Button{Label: "Pause", Data: actionPaymentPause + p.ID.String()})
			}
			kb.Rows = append(kb.Rows, row)
		}
	}

	kb.Rows = append(kb.Rows,
		[]adapter.Button{{Label: "New regular payment", Data: actionPaymentNew}},
		[]adapter.Button{{Label: "Menu", Data: actionMenu}},
	)
	e.send(ctx, user.ChatID, b.String(), kb)
}

func (e *Engine) sendTopExpenses(ctx context.Context, user *entity.User) {
	from := entity.MonthStart(time.Now().UTC())
	out, err := e.uc.TopExpenses.Execute(ctx, transaction.GetTopExpensesInput{UserID: user.ID, From: from})
	if err != nil {
		e.log.Error("top expenses failed", "user_id", user.ID, "error", err)
		e.send(ctx, user.ChatID, e.failureText(err), menuKeyboard())
		return
	}

	if len(out.Categories) == 0 {
		e.send(ctx, user.ChatID, "No expenses recorded this month.", menuKeyboard())
		return
	}

	var b strings.Builder
	b.WriteString("Top expenses this month:\n")
	for i, c := range out.Categories {
		fmt.Fprintf(&b, "\n%d. %s — %s", i+1, c.CategoryName, money(c.Total))
	}
	e.send(ctx, user.ChatID, b.String(), menuKeyboard())
}

func (e *Engine) sendReport(ctx context.Context, user *entity.User) {
	now := time.Now().UTC()
	from := entity.MonthStart(now)

	out, err := e.uc.PeriodReport.Execute(ctx, transaction.BuildPeriodReportInput{
		UserID: user.ID,
		From:   from,
		To:     now,
	})
	if err != nil {
		e.log.Error("build report failed", "user_id", user.ID, "error", err)
		e.send(ctx, user.ChatID, e.failureText(err), menuKeyboard())
		return
	}
	if len(out.Rows) == 0 {
		e.send(ctx, user.ChatID, "Nothing to report for this month yet.", menuKeyboard())
		return
	}

	title := "Report " + from.Format("2006-01")
	ref, err := e.exporter.Export(ctx, user.ID, title, out.Rows)
	if err != nil {
		e.log.Error("export report failed", "user_id", user.ID, "error", err)
		e.send(ctx, user.ChatID, "Could not prepare the report, please try again.", menuKeyboard())
		return
	}

	e.send(ctx, user.ChatID, "Your report is ready: "+ref, menuKeyboard())
}

func money(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
