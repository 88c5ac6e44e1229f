package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finance-assistant/bot/internal/application/usecase/regularpayment"
	"github.com/finance-assistant/bot/internal/application/usecase/transaction"
	"github.com/finance-assistant/bot/internal/domain/entity"
)

func (e *Engine) startRegularPayment(ctx context.Context, user *entity.User, viaButton bool) {
	sess := e.beginFlow(user, AwaitingPaymentName{})
	e.reply(ctx, sess, viaButton, "What is the payment for? Name it (rent, gym, internet).", cancelKeyboard())
}

func (e *Engine) paymentNameEntered(ctx context.Context, user *entity.User, sess *Session, text string) {
	name := strings.TrimSpace(text)
	if name == "" {
		e.reply(ctx, sess, false, "The payment needs a name, try again.", cancelKeyboard())
		return
	}

	sess.Step = AwaitingPaymentAmount{Name: name}
	e.sessions.Save(sess)
	e.reply(ctx, sess, false, fmt.Sprintf("How much is %q each time?", name), cancelKeyboard())
}

func (e *Engine) paymentAmountEntered(ctx context.Context, user *entity.User, sess *Session, step AwaitingPaymentAmount, text string) {
	amount, _, err := parseAmount(text)
	if err != nil {
		e.reply(ctx, sess, false, "That doesn't look like an amount, try again.", cancelKeyboard())
		return
	}

	sess.Step = ChoosingPaymentFrequency{Name: step.Name, Amount: amount}
	e.sessions.Save(sess)
	e.reply(ctx, sess, false, "How often is it due?", frequencyKeyboard())
}

// paymentFrequencyChosen routes monthly payments through the day-of-month
// step; every other frequency has nothing left to ask.
func (e *Engine) paymentFrequencyChosen(ctx context.Context, user *entity.User, sess *Session, step ChoosingPaymentFrequency, raw string) {
	frequency := entity.Frequency(raw)
	switch frequency {
	case entity.FrequencyDaily, entity.FrequencyWeekly, entity.FrequencyYearly:
		e.createPayment(ctx, user, sess, step.Name, step.Amount, frequency, nil, true)
	case entity.FrequencyMonthly:
		sess.Step = AwaitingPaymentDay{Name: step.Name, Amount: step.Amount}
		e.sessions.Save(sess)
		e.reply(ctx, sess, true, "Which day of the month is it due (1-31)? Skip to use today's day.", skipCancelKeyboard())
	default:
		e.reply(ctx, sess, true, "Pick a frequency with the buttons below.", frequencyKeyboard())
	}
}

func (e *Engine) paymentDayEntered(ctx context.Context, user *entity.User, sess *Session, step AwaitingPaymentDay, text string) {
	day, err := parseDayOfMonth(text)
	if err != nil {
		e.reply(ctx, sess, false, "Give me a day from 1 to 31, or skip.", skipCancelKeyboard())
		return
	}
	e.finishRegularPayment(ctx, user, sess, step, day, false)
}

// finishRegularPayment terminates the monthly branch. Other frequencies
// finish straight from the frequency step.
func (e *Engine) finishRegularPayment(ctx context.Context, user *entity.User, sess *Session, step AwaitingPaymentDay, day *int, viaButton bool) {
	e.createPayment(ctx, user, sess, step.Name, step.Amount, entity.FrequencyMonthly, day, viaButton)
}

func (e *Engine) createPayment(ctx context.Context, user *entity.User, sess *Session, name string, amount decimal.Decimal, frequency entity.Frequency, day *int, viaButton bool) {
	out, err := e.uc.CreatePayment.Execute(ctx, regularpayment.CreatePaymentInput{
		UserID:     user.ID,
		Name:       name,
		Amount:     amount,
		Frequency:  frequency,
		DayOfMonth: day,
	})
	if err != nil {
		e.finish(ctx, user, sess, viaButton, e.failureText(err))
		return
	}

	e.finish(ctx, user, sess, viaButton,
		fmt.Sprintf("Got it. %q (%s, %s) is due %s. I will remind you the day before.",
			out.Payment.Name, money(out.Payment.Amount), frequencyLabel(out.Payment.Frequency),
			out.Payment.NextDueDate.Format("2006-01-02")))
}

// payRegular settles one occurrence and mirrors it into the ledger as an
// expense. No wizard: the button and the deep link carry everything needed.
func (e *Engine) payRegular(ctx context.Context, user *entity.User, rawID string, viaButton bool) {
	id, ok := parseID(rawID)
	if !ok {
		e.send(ctx, user.ChatID, "That record no longer exists.", menuKeyboard())
		return
	}

	out, err := e.uc.MarkPaymentPaid.Execute(ctx, regularpayment.MarkPaidInput{
		UserID:    user.ID,
		PaymentID: id,
	})
	if err != nil {
		e.send(ctx, user.ChatID, e.failureText(err), menuKeyboard())
		return
	}

	text := fmt.Sprintf("%q marked paid. Next due %s.",
		out.Payment.Name, out.Payment.NextDueDate.Format("2006-01-02"))

	txn, err := e.uc.ProcessTransaction.Execute(ctx, transaction.ProcessTransactionInput{
		UserID:      user.ID,
		Amount:      out.Payment.Amount,
		Direction:   entity.DirectionExpense,
		Description: "Regular payment: " + out.Payment.Name,
	})
	if err != nil {
		e.log.Error("regular payment ledger write failed", "user_id", user.ID, "error", err)
		text += " The balance update failed: " + e.failureText(err)
	} else {
		text += fmt.Sprintf(" Balance: %s %s.", money(txn.Balance), txn.Currency)
	}

	e.send(ctx, user.ChatID, text, menuKeyboard())
}

func (e *Engine) setPaymentPaused(ctx context.Context, user *entity.User, rawID string, paused bool) {
	id, ok := parseID(rawID)
	if !ok {
		e.send(ctx, user.ChatID, "That record no longer exists.", menuKeyboard())
		return
	}

	out, err := e.uc.SetPaused.Execute(ctx, regularpayment.SetPausedInput{
		UserID:    user.ID,
		PaymentID: id,
		Paused:    paused,
	})
	if err != nil {
		e.send(ctx, user.ChatID, e.failureText(err), menuKeyboard())
		return
	}

	if paused {
		e.send(ctx, user.ChatID, fmt.Sprintf("%q is paused. No reminders until you resume it.", out.Payment.Name), nil)
	} else {
		e.send(ctx, user.ChatID, fmt.Sprintf("%q is back on. Next due %s.",
			out.Payment.Name, out.Payment.NextDueDate.Format("2006-01-02")), nil)
	}
	e.sendRegularPayments(ctx, user)
}

func frequencyLabel(f entity.Frequency) string {
	switch f {
	case entity.FrequencyDaily:
		return "daily"
	case entity.FrequencyWeekly:
		return "weekly"
	case entity.FrequencyMonthly:
		return "monthly"
	case entity.FrequencyYearly:
		return "yearly"
	}
	return string(f)
}
