package scheduler

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/application/usecase/debt"
	"github.com/finance-assistant/bot/internal/application/usecase/limit"
	"github.com/finance-assistant/bot/internal/application/usecase/regularpayment"
	"github.com/finance-assistant/bot/internal/domain/entity"
	"github.com/finance-assistant/bot/internal/integration/persistence"
	"github.com/finance-assistant/bot/internal/integration/persistence/persistencetest"
)

type recordedMessage struct {
	ChatID   int64
	Text     string
	Keyboard *adapter.Keyboard
}

type recordingTransport struct {
	messages []recordedMessage
}

func (r *recordingTransport) SendMessage(_ context.Context, chatID int64, text string, keyboard *adapter.Keyboard) (int64, error) {
	r.messages = append(r.messages, recordedMessage{ChatID: chatID, Text: text, Keyboard: keyboard})
	return int64(len(r.messages)), nil
}

func (r *recordingTransport) EditMessage(context.Context, int64, int64, string, *adapter.Keyboard) error {
	return nil
}

func (r *recordingTransport) AnswerInteraction(context.Context, string) error {
	return nil
}

type reminderFixture struct {
	reminder  *Reminder
	transport *recordingTransport
	db        *gorm.DB
}

func newReminderFixture(t *testing.T, reminderHour int) *reminderFixture {
	t.Helper()
	db := persistencetest.Open(t)
	transport := &recordingTransport{}

	limits := persistence.NewLimitRepository(db)
	payments := persistence.NewRegularPaymentRepository(db)
	debts := persistence.NewDebtRepository(db)

	logger := slog.New(slog.NewTextHandler(reminderLogWriter{t}, &slog.HandlerOptions{Level: slog.LevelError}))

	reminder := NewReminder(
		persistence.NewUserRepository(db),
		transport,
		limit.NewResetMonthlyLimitsUseCase(limits),
		regularpayment.NewGetDuePaymentsUseCase(payments),
		debt.NewGetOverdueDebtsUseCase(debts),
		reminderHour,
		logger,
	)
	return &reminderFixture{reminder: reminder, transport: transport, db: db}
}

type reminderLogWriter struct{ t *testing.T }

func (w reminderLogWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func (f *reminderFixture) addUser(t *testing.T, chatID int64) *entity.User {
	t.Helper()
	user := entity.NewUser(chatID, "user")
	if err := persistence.NewUserRepository(f.db).Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (f *reminderFixture) addDuePayment(t *testing.T, user *entity.User, name string, due time.Time) *entity.RegularPayment {
	t.Helper()
	p := entity.NewRegularPayment(user.ID, name, decimal.NewFromInt(100), entity.FrequencyMonthly, nil)
	p.NextDueDate = due
	if err := persistence.NewRegularPaymentRepository(f.db).Create(context.Background(), p); err != nil {
		t.Fatalf("create payment: %v", err)
	}
	return p
}

func (f *reminderFixture) addOverdueDebt(t *testing.T, user *entity.User, person string, due time.Time) *entity.Debt {
	t.Helper()
	d := entity.NewDebt(user.ID, person, entity.DebtDirectionIOwe, decimal.NewFromInt(250), &due)
	if err := persistence.NewDebtRepository(f.db).Create(context.Background(), d); err != nil {
		t.Fatalf("create debt: %v", err)
	}
	return d
}

func TestRunTickReminders(t *testing.T) {
	ctx := context.Background()
	nineAM := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

	t.Run("reminders go out at the configured hour", func(t *testing.T) {
		f := newReminderFixture(t, 9)
		user := f.addUser(t, 1)
		payment := f.addDuePayment(t, user, "Rent", nineAM.AddDate(0, 0, 1))
		debtDue := f.addOverdueDebt(t, user, "Alice", nineAM.AddDate(0, 0, -2))

		f.reminder.runTick(ctx, nineAM)

		if len(f.transport.messages) != 2 {
			t.Fatalf("got %d messages, want 2", len(f.transport.messages))
		}

		paymentMsg := f.transport.messages[0]
		if !strings.Contains(paymentMsg.Text, "Rent") {
			t.Errorf("payment reminder = %q", paymentMsg.Text)
		}
		if got := paymentMsg.Keyboard.Rows[0][0].Data; got != "pay_regular:"+payment.ID.String() {
			t.Errorf("payment button data = %q", got)
		}

		debtMsg := f.transport.messages[1]
		if !strings.Contains(debtMsg.Text, "you owe Alice") {
			t.Errorf("debt reminder = %q", debtMsg.Text)
		}
		if got := debtMsg.Keyboard.Rows[0][0].Data; got != "pay_debt:"+debtDue.ID.String() {
			t.Errorf("debt button data = %q", got)
		}
	})

	t.Run("off-hour ticks stay silent", func(t *testing.T) {
		f := newReminderFixture(t, 9)
		user := f.addUser(t, 1)
		f.addDuePayment(t, user, "Rent", nineAM.AddDate(0, 0, 1))

		f.reminder.runTick(ctx, nineAM.Add(3*time.Hour))

		if len(f.transport.messages) != 0 {
			t.Errorf("got %d messages, want 0 outside the reminder hour", len(f.transport.messages))
		}
	})

	t.Run("they-owe debts word the reminder the other way", func(t *testing.T) {
		f := newReminderFixture(t, 9)
		user := f.addUser(t, 1)
		due := nineAM.AddDate(0, 0, -1)
		d := entity.NewDebt(user.ID, "Bob", entity.DebtDirectionTheyOwe, decimal.NewFromInt(80), &due)
		if err := persistence.NewDebtRepository(f.db).Create(ctx, d); err != nil {
			t.Fatalf("create debt: %v", err)
		}

		f.reminder.runTick(ctx, nineAM)

		if len(f.transport.messages) != 1 {
			t.Fatalf("got %d messages, want 1", len(f.transport.messages))
		}
		if !strings.Contains(f.transport.messages[0].Text, "Bob owes you") {
			t.Errorf("reminder = %q", f.transport.messages[0].Text)
		}
	})
}

func TestRunTickRollsOverLimitsEveryTick(t *testing.T) {
	ctx := context.Background()
	f := newReminderFixture(t, 9)
	user := f.addUser(t, 1)

	category := entity.NewCategory(user.ID, "Food", entity.CategoryDirectionExpense)
	if err := persistence.NewCategoryRepository(f.db).Create(ctx, category); err != nil {
		t.Fatalf("create category: %v", err)
	}

	limits := persistence.NewLimitRepository(f.db)
	march := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	stale := entity.NewLimit(user.ID, category.ID, decimal.NewFromInt(100), march)
	stale.SpentAmount = decimal.NewFromInt(90)
	stale.LastWarningLevel = entity.WarningLevelHigh
	if err := limits.Create(ctx, stale); err != nil {
		t.Fatalf("create limit: %v", err)
	}

	// An off-hour tick in the next month still rolls the limit over.
	f.reminder.runTick(ctx, time.Date(2025, time.April, 1, 3, 0, 0, 0, time.UTC))

	stored, err := limits.FindByUserAndCategory(ctx, user.ID, category.ID)
	if err != nil {
		t.Fatalf("find limit: %v", err)
	}
	if !stored.SpentAmount.IsZero() {
		t.Errorf("spent = %s, want 0 after the rollover tick", stored.SpentAmount)
	}
	if stored.LastWarningLevel != entity.WarningLevelNone {
		t.Errorf("warning level = %d, want reset to none", stored.LastWarningLevel)
	}
}

func TestRunTickIsolatesUserFailures(t *testing.T) {
	ctx := context.Background()
	nineAM := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

	f := newReminderFixture(t, 9)
	first := f.addUser(t, 1)
	second := f.addUser(t, 2)
	f.addDuePayment(t, first, "Netflix", nineAM.AddDate(0, 0, 1))
	f.addDuePayment(t, second, "Rent", nineAM.AddDate(0, 0, 1))

	// Both users get their reminder in one pass.
	f.reminder.runTick(ctx, nineAM)

	chats := map[int64]bool{}
	for _, msg := range f.transport.messages {
		chats[msg.ChatID] = true
	}
	if !chats[first.ChatID] || !chats[second.ChatID] {
		t.Errorf("reminders reached chats %v, want both users", chats)
	}
}
