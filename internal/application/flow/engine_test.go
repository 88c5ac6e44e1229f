package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/application/usecase/debt"
	"github.com/finance-assistant/bot/internal/application/usecase/goal"
	"github.com/finance-assistant/bot/internal/application/usecase/limit"
	"github.com/finance-assistant/bot/internal/application/usecase/regularpayment"
	"github.com/finance-assistant/bot/internal/application/usecase/transaction"
	"github.com/finance-assistant/bot/internal/domain/entity"
	"github.com/finance-assistant/bot/internal/integration/persistence"
	"github.com/finance-assistant/bot/internal/integration/persistence/persistencetest"
)

type sentMessage struct {
	ChatID   int64
	Text     string
	Keyboard *adapter.Keyboard
}

type editedMessage struct {
	ChatID    int64
	MessageID int64
	Text      string
	Keyboard  *adapter.Keyboard
}

// fakeTransport records every outbound call and hands out sequential
// message ids.
type fakeTransport struct {
	nextID   int64
	sent     []sentMessage
	edits    []editedMessage
	answered []string
}

func (f *fakeTransport) SendMessage(_ context.Context, chatID int64, text string, keyboard *adapter.Keyboard) (int64, error) {
	f.nextID++
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text, Keyboard: keyboard})
	return f.nextID, nil
}

func (f *fakeTransport) EditMessage(_ context.Context, chatID, messageID int64, text string, keyboard *adapter.Keyboard) error {
	f.edits = append(f.edits, editedMessage{ChatID: chatID, MessageID: messageID, Text: text, Keyboard: keyboard})
	return nil
}

func (f *fakeTransport) AnswerInteraction(_ context.Context, interactionID string) error {
	f.answered = append(f.answered, interactionID)
	return nil
}

func (f *fakeTransport) lastSent(t *testing.T) sentMessage {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("no message was sent")
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeTransport) lastEdit(t *testing.T) editedMessage {
	t.Helper()
	if len(f.edits) == 0 {
		t.Fatal("no message was edited")
	}
	return f.edits[len(f.edits)-1]
}

type fakeExporter struct {
	exports int
}

func (f *fakeExporter) Export(_ context.Context, userID uuid.UUID, _ string, _ []entity.ReportRow) (string, error) {
	f.exports++
	return fmt.Sprintf("/tmp/report_%s.xlsx", userID), nil
}

type engineFixture struct {
	engine    *Engine
	transport *fakeTransport
	exporter  *fakeExporter
	sessions  *InMemorySessionStore
	db        *gorm.DB
	accounts  adapter.AccountRepository
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	db := persistencetest.Open(t)

	userRepo := persistence.NewUserRepository(db)
	accountRepo := persistence.NewAccountRepository(db)
	categoryRepo := persistence.NewCategoryRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	limitRepo := persistence.NewLimitRepository(db)
	debtRepo := persistence.NewDebtRepository(db)
	goalRepo := persistence.NewGoalRepository(db)
	paymentRepo := persistence.NewRegularPaymentRepository(db)
	uow := persistence.NewUnitOfWork(db)

	uc := UseCases{
		ProcessTransaction: transaction.NewProcessTransactionUseCase(uow),
		CancelTransaction:  transaction.NewCancelTransactionUseCase(uow),
		TopExpenses:        transaction.NewGetTopExpensesUseCase(transactionRepo),
		PeriodReport:       transaction.NewBuildPeriodReportUseCase(transactionRepo),

		SetLimit:           limit.NewSetLimitUseCase(limitRepo),
		AddSpending:        limit.NewAddSpendingUseCase(limitRepo),
		IsCategoryBlocked:  limit.NewIsCategoryBlockedUseCase(limitRepo),
		ResetMonthlyLimits: limit.NewResetMonthlyLimitsUseCase(limitRepo),

		CreateDebt:        debt.NewCreateDebtUseCase(debtRepo),
		RecordDebtPayment: debt.NewRecordPaymentUseCase(debtRepo),
		ListDebts:         debt.NewListDebtsUseCase(debtRepo),

		CreateGoal:    goal.NewCreateGoalUseCase(goalRepo),
		AddGoalFunds:  goal.NewAddFundsUseCase(uow),
		SetActiveGoal: goal.NewSetActiveUseCase(uow),
		ListGoals:     goal.NewListGoalsUseCase(goalRepo),
		ActiveGoal:    goal.NewGetActiveGoalUseCase(goalRepo),

		CreatePayment:   regularpayment.NewCreatePaymentUseCase(paymentRepo),
		MarkPaymentPaid: regularpayment.NewMarkPaidUseCase(paymentRepo),
		ListPayments:    regularpayment.NewListPaymentsUseCase(paymentRepo),
		SetPaused:       regularpayment.NewSetPausedUseCase(paymentRepo),
	}

	transport := &fakeTransport{}
	exporter := &fakeExporter{}
	sessions := NewInMemorySessionStore(time.Hour)
	logger := slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelError}))

	engine := NewEngine(sessions, transport, userRepo, categoryRepo, exporter, uc, logger)
	return &engineFixture{
		engine:    engine,
		transport: transport,
		exporter:  exporter,
		sessions:  sessions,
		db:        db,
		accounts:  accountRepo,
	}
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

const testChatID int64 = 100500

func (f *engineFixture) text(text string) {
	f.engine.Handle(context.Background(), Update{ChatID: testChatID, Username: "tester", Text: text})
}

func (f *engineFixture) press(messageID int64, data string) {
	f.engine.Handle(context.Background(), Update{
		ChatID:        testChatID,
		Username:      "tester",
		MessageID:     messageID,
		InteractionID: "cb-1",
		Data:          data,
	})
}

func (f *engineFixture) user(t *testing.T) *entity.User {
	t.Helper()
	user, err := persistence.NewUserRepository(f.db).FindByChatID(context.Background(), testChatID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if user == nil {
		t.Fatal("user was not registered")
	}
	return user
}

func (f *engineFixture) balance(t *testing.T) decimal.Decimal {
	t.Helper()
	account, err := f.accounts.FindByUser(context.Background(), f.user(t).ID)
	if err != nil {
		t.Fatalf("find account: %v", err)
	}
	return account.Balance
}

func (f *engineFixture) category(t *testing.T, name string) *entity.Category {
	t.Helper()
	c := entity.NewCategory(f.user(t).ID, name, entity.CategoryDirectionExpense)
	if err := persistence.NewCategoryRepository(f.db).Create(context.Background(), c); err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

func (f *engineFixture) deposit(t *testing.T, amount string) {
	t.Helper()
	f.text("/deposit")
	f.text(amount)
}

func TestEngineRegistersUnknownUsers(t *testing.T) {
	f := newEngineFixture(t)

	f.text("/start")

	f.user(t)
	msg := f.transport.lastSent(t)
	if msg.Keyboard == nil {
		t.Error("menu should carry a keyboard")
	}
}

func TestEngineTextWithoutSession(t *testing.T) {
	f := newEngineFixture(t)

	f.text("hello there")

	msg := f.transport.lastSent(t)
	if !strings.Contains(msg.Text, "/start") {
		t.Errorf("expected a menu hint, got %q", msg.Text)
	}
}

func TestExpenseWizard(t *testing.T) {
	f := newEngineFixture(t)
	f.text("/start")
	f.deposit(t, "1000")
	cat := f.category(t, "Food")

	f.text("/expense")
	prompt := f.transport.lastSent(t)
	promptID := f.transport.nextID
	if !strings.Contains(prompt.Text, "spend") && !strings.Contains(prompt.Text, "amount") && !strings.Contains(strings.ToLower(prompt.Text), "much") {
		t.Logf("amount prompt: %q", prompt.Text)
	}

	f.text("450")
	f.press(promptID, "cat:"+cat.ID.String())

	// The button press edits the outstanding prompt in place.
	edit := f.transport.lastEdit(t)
	if !strings.Contains(edit.Text, "description") {
		t.Errorf("expected the description prompt, got %q", edit.Text)
	}

	f.press(edit.MessageID, "skip")

	final := f.transport.lastEdit(t)
	if !strings.Contains(final.Text, "Recorded expense of 450") || !strings.Contains(final.Text, "Food") {
		t.Errorf("final text = %q", final.Text)
	}
	if !f.balance(t).Equal(decimal.NewFromInt(550)) {
		t.Errorf("balance = %s, want 550", f.balance(t))
	}

	if _, open := f.sessions.Get(f.user(t).ID); open {
		t.Error("session should be closed after the terminal step")
	}
}

func TestExpenseWizardInlineDescription(t *testing.T) {
	f := newEngineFixture(t)
	f.text("/start")
	f.deposit(t, "1000")
	cat := f.category(t, "Food")

	f.text("/expense")
	f.text("120 lunch with team")
	f.press(0, "cat:"+cat.ID.String())

	// The description arrived with the amount, so choosing a category is
	// the terminal step.
	if !f.balance(t).Equal(decimal.NewFromInt(880)) {
		t.Errorf("balance = %s, want 880", f.balance(t))
	}

	var stored []struct{ Description string }
	if err := f.db.Table("transactions").Select("description").
		Where("direction = ?", "expense").Scan(&stored).Error; err != nil {
		t.Fatalf("scan transactions: %v", err)
	}
	found := false
	for _, row := range stored {
		if row.Description == "lunch with team" {
			found = true
		}
	}
	if !found {
		t.Errorf("inline description was not stored, got %v", stored)
	}
}

func TestExpenseWizardQuickCategory(t *testing.T) {
	f := newEngineFixture(t)
	f.text("/start")
	f.deposit(t, "500")

	f.text("/expense")
	f.text("90")
	f.text("Coffee")
	f.press(0, "skip")

	if !f.balance(t).Equal(decimal.NewFromInt(410)) {
		t.Errorf("balance = %s, want 410", f.balance(t))
	}

	category, err := persistence.NewCategoryRepository(f.db).
		FindByName(context.Background(), f.user(t).ID, "coffee")
	if err != nil {
		t.Fatalf("find category: %v", err)
	}
	if category == nil {
		t.Fatal("quick category should have been created")
	}
}

func TestExpenseWizardInvalidAmountKeepsStep(t *testing.T) {
	f := newEngineFixture(t)
	f.text("/start")
	f.deposit(t, "500")
	cat := f.category(t, "Food")

	f.text("/expense")
	f.text("not a number")

	msg := f.transport.lastSent(t)
	if !strings.Contains(msg.Text, "doesn't look like an amount") {
		t.Errorf("expected a re-prompt, got %q", msg.Text)
	}

	// The wizard is still at the amount step and accepts a retry.
	f.text("60")
	f.press(0, "cat:"+cat.ID.String())
	f.press(0, "skip")

	if !f.balance(t).Equal(decimal.NewFromInt(440)) {
		t.Errorf("balance = %s, want 440", f.balance(t))
	}
}

func TestUndoButtonReversesTransaction(t *testing.T) {
	f := newEngineFixture(t)
	f.text("/start")
	f.deposit(t, "1000")
	cat := f.category(t, "Food")

	f.text("/expense")
	f.text("450")
	f.press(0, "cat:"+cat.ID.String())
	f.press(0, "skip")

	receipt := f.transport.lastEdit(t)
	undo := receipt.Keyboard.Rows[0][0]
	if undo.Label != "Undo" || !strings.HasPrefix(undo.Data, "undo:") {
		t.Fatalf("receipt button = %+v, want an undo button", undo)
	}

	f.press(receipt.MessageID, undo.Data)

	reversed := f.transport.lastEdit(t)
	if !strings.Contains(reversed.Text, "Reversed expense of 450") {
		t.Errorf("undo text = %q", reversed.Text)
	}
	if !f.balance(t).Equal(decimal.NewFromInt(1000)) {
		t.Errorf("balance = %s, want 1000 after the reversal", f.balance(t))
	}

	// A second press finds the transaction already reversed.
	f.press(receipt.MessageID, undo.Data)
	msg := f.transport.lastSent(t)
	if !strings.Contains(msg.Text, "already undone") {
		t.Errorf("second undo text = %q", msg.Text)
	}
	if !f.balance(t).Equal(decimal.NewFromInt(1000)) {
		t.Errorf("balance = %s, want unchanged 1000", f.balance(t))
	}
}

func TestBackFromCategoryKeepsCollectedFields(t *testing.T) {
	f := newEngineFixture(t)
	f.text("/start")
	f.deposit(t, "1000")
	cat := f.category(t, "Food")

	f.text("/expense")
	f.text("450 birthday gift")
	f.press(0, "back")

	prompt := f.transport.lastEdit(t)
	if !strings.Contains(prompt.Text, "Current amount is 450") {
		t.Errorf("back prompt = %q", prompt.Text)
	}

	// Retyping only the amount keeps the description collected earlier.
	f.text("500")
	f.press(0, "cat:"+cat.ID.String())

	if !f.balance(t).Equal(decimal.NewFromInt(500)) {
		t.Errorf("balance = %s, want 500", f.balance(t))
	}

	var stored []struct{ Description string }
	if err := f.db.Table("transactions").Select("description").
		Where("direction = ?", "expense").Scan(&stored).Error; err != nil {
		t.Fatalf("scan transactions: %v", err)
	}
	found := false
	for _, row := range stored {
		if row.Description == "birthday gift" {
			found = true
		}
	}
	if !found {
		t.Errorf("description typed before back was dropped, got %v", stored)
	}
}

func TestCancelMidWizardRecordsNothing(t *testing.T) {
	f := newEngineFixture(t)
	f.text("/start")
	f.deposit(t, "500")

	f.text("/expense")
	f.text("450")
	f.text("/cancel")

	msg := f.transport.lastSent(t)
	if !strings.Contains(msg.Text, "Nothing was recorded") {
		t.Errorf("cancel text = %q", msg.Text)
	}
	if !f.balance(t).Equal(decimal.NewFromInt(500)) {
		t.Errorf("balance = %s, want untouched 500", f.balance(t))
	}

	var count int64
	if err := f.db.Table("transactions").Where("direction = ?", "expense").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expense rows = %d, want 0", count)
	}
}

func TestBlockedCategoryShortCircuits(t *testing.T) {
	f := newEngineFixture(t)
	f.text("/start")
	f.deposit(t, "1000")
	cat := f.category(t, "Food")
	user := f.user(t)

	// Exhaust the limit so the category blocks.
	ctx := context.Background()
	limits := persistence.NewLimitRepository(f.db)
	setLimit := limit.NewSetLimitUseCase(limits)
	addSpend := limit.NewAddSpendingUseCase(limits)
	if _, err := setLimit.Execute(ctx, limit.SetLimitInput{
		UserID: user.ID, CategoryID: cat.ID, Amount: decimal.NewFromInt(100),
	}); err != nil {
		t.Fatalf("set limit: %v", err)
	}
	if _, err := addSpend.Execute(ctx, limit.AddSpendingInput{
		UserID: user.ID, CategoryID: cat.ID, Amount: decimal.NewFromInt(100),
	}); err != nil {
		t.Fatalf("add spending: %v", err)
	}

	f.text("/expense")
	f.text("50")
	f.press(0, "cat:"+cat.ID.String())

	edit := f.transport.lastEdit(t)
	if !strings.Contains(edit.Text, "blocked") {
		t.Errorf("expected the block notice, got %q", edit.Text)
	}
	if !f.balance(t).Equal(decimal.NewFromInt(1000)) {
		t.Errorf("balance = %s, want untouched 1000", f.balance(t))
	}
	if _, open := f.sessions.Get(user.ID); open {
		t.Error("session should be closed after the block notice")
	}
}

func TestLimitWarningAppendedToReceipt(t *testing.T) {
	f := newEngineFixture(t)
	f.text("/start")
	f.deposit(t, "1000")
	cat := f.category(t, "Food")
	user := f.user(t)

	limits := persistence.NewLimitRepository(f.db)
	if _, err := limit.NewSetLimitUseCase(limits).Execute(context.Background(), limit.SetLimitInput{
		UserID: user.ID, CategoryID: cat.ID, Amount: decimal.NewFromInt(100),
	}); err != nil {
		t.Fatalf("set limit: %v", err)
	}

	f.text("/expense")
	f.text("60")
	f.press(0, "cat:"+cat.ID.String())
	f.press(0, "skip")

	final := f.transport.lastEdit(t)
	if !strings.Contains(final.Text, "Recorded expense of 60") {
		t.Errorf("final text = %q", final.Text)
	}
	if !strings.Contains(final.Text, "Half of the") {
		t.Errorf("expected the 50%% warning appended, got %q", final.Text)
	}
}

func TestInsufficientFundsSurfacesAsText(t *testing.T) {
	f := newEngineFixture(t)
	f.text("/start")
	f.deposit(t, "100")
	cat := f.category(t, "Food")

	f.text("/expense")
	f.text("150")
	f.press(0, "cat:"+cat.ID.String())
	f.press(0, "skip")

	final := f.transport.lastEdit(t)
	if !strings.Contains(final.Text, "Not enough funds") {
		t.Errorf("final text = %q", final.Text)
	}
	if !f.balance(t).Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance = %s, want 100", f.balance(t))
	}
}

func TestEditableMessageRule(t *testing.T) {
	f := newEngineFixture(t)
	f.text("/start")

	// A button-driven start edits nothing yet: the new flow has no
	// outstanding prompt, so the first prompt is a fresh message.
	f.press(1, "new_expense")
	sends := len(f.transport.sent)
	if sends == 0 {
		t.Fatal("starting a flow should send a prompt")
	}
	promptID := f.transport.nextID

	// Free text advances by sending another fresh message.
	f.text("70")
	if len(f.transport.sent) != sends+1 {
		t.Errorf("text turn should send a fresh message, sends = %d", len(f.transport.sent))
	}

	// A button press edits the latest prompt rather than sending.
	cat := f.category(t, "Food")
	f.deposit(t, "500")
	f.text("/expense")
	f.text("70")
	sendsBefore := len(f.transport.sent)
	f.press(promptID, "cat:"+cat.ID.String())
	if len(f.transport.sent) != sendsBefore {
		t.Errorf("button turn should edit, not send: sends %d -> %d", sendsBefore, len(f.transport.sent))
	}
	if len(f.transport.edits) == 0 {
		t.Error("button turn should have edited the prompt")
	}
}

func TestStaleActionRecovery(t *testing.T) {
	f := newEngineFixture(t)
	f.text("/start")

	f.press(42, "skip")

	edit := f.transport.lastEdit(t)
	if edit.MessageID != 42 || !strings.Contains(edit.Text, "expired") {
		t.Errorf("stale action edit = %+v", edit)
	}
}

func TestGoalWizardAndFunding(t *testing.T) {
	f := newEngineFixture(t)
	f.text("/start")

	f.press(1, "goal_new")
	f.text("Vacation")
	f.text("900")
	f.press(0, "skip")

	final := f.transport.lastEdit(t)
	if !strings.Contains(final.Text, "Vacation") {
		t.Errorf("goal creation text = %q", final.Text)
	}

	f.press(0, "goal_fund")
	f.text("900")

	funded := f.transport.lastSent(t)
	if !strings.Contains(funded.Text, "complete") {
		t.Errorf("expected a completion message, got %q", funded.Text)
	}
}

func TestDebtWizardMirrorsPaymentIntoLedger(t *testing.T) {
	f := newEngineFixture(t)
	f.text("/start")
	f.deposit(t, "1000")

	f.press(1, "debt_new_iowe")
	f.text("Alice")
	f.text("300")
	f.press(0, "skip")

	debts, err := persistence.NewDebtRepository(f.db).FindUnpaidByUser(context.Background(), f.user(t).ID)
	if err != nil {
		t.Fatalf("find debts: %v", err)
	}
	if len(debts) != 1 {
		t.Fatalf("got %d debts, want 1", len(debts))
	}

	f.press(0, "pay_debt:"+debts[0].ID.String())
	f.text("300")

	final := f.transport.lastSent(t)
	if !strings.Contains(strings.ToLower(final.Text), "settled") && !strings.Contains(final.Text, "300") {
		t.Errorf("debt payment text = %q", final.Text)
	}

	// The repayment money leaves the account as an expense.
	if !f.balance(t).Equal(decimal.NewFromInt(700)) {
		t.Errorf("balance = %s, want 700", f.balance(t))
	}
}

func TestRegularPaymentWizard(t *testing.T) {
	f := newEngineFixture(t)
	f.text("/start")

	f.press(1, "payment_new")
	f.text("Rent")
	f.text("1200")
	f.press(0, "freq:monthly")
	f.text("25")

	payments, err := persistence.NewRegularPaymentRepository(f.db).
		FindByUser(context.Background(), f.user(t).ID)
	if err != nil {
		t.Fatalf("find payments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("got %d payments, want 1", len(payments))
	}
	p := payments[0]
	if p.Frequency != entity.FrequencyMonthly || p.DayOfMonth == nil || *p.DayOfMonth != 25 {
		t.Errorf("payment = freq %s day %v", p.Frequency, p.DayOfMonth)
	}
}

func TestReportCommandExports(t *testing.T) {
	f := newEngineFixture(t)
	f.text("/start")
	f.deposit(t, "100")

	f.text("/report")

	if f.exporter.exports != 1 {
		t.Errorf("exports = %d, want 1", f.exporter.exports)
	}
	msg := f.transport.lastSent(t)
	if !strings.Contains(msg.Text, ".xlsx") {
		t.Errorf("report text = %q", msg.Text)
	}
}
