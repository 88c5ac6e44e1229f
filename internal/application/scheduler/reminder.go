// Package scheduler runs the hourly background pass: limit period rollover
// for every user, and due-payment and overdue-debt reminders once a day at
// the configured hour.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/application/usecase/debt"
	"github.com/finance-assistant/bot/internal/application/usecase/limit"
	"github.com/finance-assistant/bot/internal/application/usecase/regularpayment"
	"github.com/finance-assistant/bot/internal/domain/entity"
)

// hourlySpec fires at the top of every hour.
const hourlySpec = "0 * * * *"

// Reminder owns the cron loop. One user's failure never stops the pass for
// the others.
type Reminder struct {
	cron      *cron.Cron
	users     adapter.UserRepository
	transport adapter.Transport

	resetLimits  *limit.ResetMonthlyLimitsUseCase
	duePayments  *regularpayment.GetDuePaymentsUseCase
	overdueDebts *debt.GetOverdueDebtsUseCase

	reminderHour int
	now          func() time.Time
	log          *slog.Logger
}

// NewReminder creates the scheduler. reminderHour is the local hour (0-23)
// at which reminder messages go out; the rollover runs every tick.
func NewReminder(
	users adapter.UserRepository,
	transport adapter.Transport,
	resetLimits *limit.ResetMonthlyLimitsUseCase,
	duePayments *regularpayment.GetDuePaymentsUseCase,
	overdueDebts *debt.GetOverdueDebtsUseCase,
	reminderHour int,
	log *slog.Logger,
) *Reminder {
	if log == nil {
		log = slog.Default()
	}
	return &Reminder{
		cron:         cron.New(),
		users:        users,
		transport:    transport,
		resetLimits:  resetLimits,
		duePayments:  duePayments,
		overdueDebts: overdueDebts,
		reminderHour: reminderHour,
		now:          time.Now,
		log:          log.With("component", "scheduler"),
	}
}

// Start registers the hourly job and launches the cron loop.
func (r *Reminder) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(hourlySpec, func() {
		r.runTick(ctx, r.now())
	})
	if err != nil {
		return fmt.Errorf("register hourly job: %w", err)
	}

	r.cron.Start()
	r.log.Info("scheduler started", "reminder_hour", r.reminderHour)
	return nil
}

// Stop halts the cron loop and waits for a running tick to finish.
func (r *Reminder) Stop() {
	<-r.cron.Stop().Done()
	r.log.Info("scheduler stopped")
}

// runTick processes every user once. Errors are logged per user and the
// scan continues.
func (r *Reminder) runTick(ctx context.Context, now time.Time) {
	users, err := r.users.FindAll(ctx)
	if err != nil {
		r.log.Error("user scan failed", "error", err)
		return
	}

	remind := now.Hour() == r.reminderHour
	for _, user := range users {
		if err := r.processUser(ctx, user, now, remind); err != nil {
			r.log.Error("tick failed for user", "user_id", user.ID, "error", err)
		}
	}
	r.log.Debug("tick finished", "users", len(users), "reminders_sent", remind)
}

func (r *Reminder) processUser(ctx context.Context, user *entity.User, now time.Time, remind bool) error {
	// Rollover is idempotent; running it every hour keeps limits fresh even
	// for users who never open the chat.
	if _, err := r.resetLimits.Execute(ctx, limit.ResetMonthlyLimitsInput{UserID: user.ID}); err != nil {
		return fmt.Errorf("reset limits: %w", err)
	}

	if !remind {
		return nil
	}
	if err := r.remindPayments(ctx, user, now); err != nil {
		return err
	}
	return r.remindDebts(ctx, user, now)
}

func (r *Reminder) remindPayments(ctx context.Context, user *entity.User, now time.Time) error {
	out, err := r.duePayments.Execute(ctx, regularpayment.GetDuePaymentsInput{
		UserID: user.ID,
		Now:    now,
	})
	if err != nil {
		return fmt.Errorf("due payments: %w", err)
	}

	for _, payment := range out.Payments {
		text := fmt.Sprintf("Reminder: %q (%s) is due %s.",
			payment.Name, payment.Amount.StringFixed(2), payment.NextDueDate.Format("2006-01-02"))
		keyboard := adapter.NewKeyboard(
			[]adapter.Button{{Label: "Paid", Data: "pay_regular:" + payment.ID.String()}},
		)
		if _, err := r.transport.SendMessage(ctx, user.ChatID, text, keyboard); err != nil {
			return fmt.Errorf("send payment reminder: %w", err)
		}
	}
	return nil
}

func (r *Reminder) remindDebts(ctx context.Context, user *entity.User, now time.Time) error {
	out, err := r.overdueDebts.Execute(ctx, debt.GetOverdueDebtsInput{
		UserID: user.ID,
		Now:    now,
	})
	if err != nil {
		return fmt.Errorf("overdue debts: %w", err)
	}

	for _, d := range out.Debts {
		text := fmt.Sprintf("Debt overdue: you owe %s %s (due %s).",
			d.PersonName, d.RemainingAmount.StringFixed(2), d.DueDate.Format("2006-01-02"))
		if d.Direction == entity.DebtDirectionTheyOwe {
			text = fmt.Sprintf("Debt overdue: %s owes you %s (due %s).",
				d.PersonName, d.RemainingAmount.StringFixed(2), d.DueDate.Format("2006-01-02"))
		}
		keyboard := adapter.NewKeyboard(
			[]adapter.Button{{Label: "Record payment", Data: "pay_debt:" + d.ID.String()}},
		)
		if _, err := r.transport.SendMessage(ctx, user.ChatID, text, keyboard); err != nil {
			return fmt.Errorf("send debt reminder: %w", err)
		}
	}
	return nil
}
