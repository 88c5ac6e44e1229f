package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/application/usecase/debt"
	"github.com/finance-assistant/bot/internal/application/usecase/goal"
	"github.com/finance-assistant/bot/internal/application/usecase/limit"
	"github.com/finance-assistant/bot/internal/application/usecase/regularpayment"
	"github.com/finance-assistant/bot/internal/application/usecase/transaction"
	"github.com/finance-assistant/bot/internal/domain/entity"
	domainerror "github.com/finance-assistant/bot/internal/domain/error"
)

// Update is one normalized inbound chat event: either a typed message or a
// button press (InteractionID set).
type Update struct {
	ChatID        int64
	Username      string
	MessageID     int64
	Text          string
	InteractionID string
	Data          string
}

// UseCases bundles the ledger operations the engine invokes at terminal steps.
type UseCases struct {
	ProcessTransaction *transaction.ProcessTransactionUseCase
	CancelTransaction  *transaction.CancelTransactionUseCase
	TopExpenses        *transaction.GetTopExpensesUseCase
	PeriodReport       *transaction.BuildPeriodReportUseCase

	SetLimit           *limit.SetLimitUseCase
	AddSpending        *limit.AddSpendingUseCase
	IsCategoryBlocked  *limit.IsCategoryBlockedUseCase
	ResetMonthlyLimits *limit.ResetMonthlyLimitsUseCase

	CreateDebt        *debt.CreateDebtUseCase
	RecordDebtPayment *debt.RecordPaymentUseCase
	ListDebts         *debt.ListDebtsUseCase

	CreateGoal    *goal.CreateGoalUseCase
	AddGoalFunds  *goal.AddFundsUseCase
	SetActiveGoal *goal.SetActiveUseCase
	ListGoals     *goal.ListGoalsUseCase
	ActiveGoal    *goal.GetActiveGoalUseCase

	CreatePayment   *regularpayment.CreatePaymentUseCase
	MarkPaymentPaid *regularpayment.MarkPaidUseCase
	ListPayments    *regularpayment.ListPaymentsUseCase
	SetPaused       *regularpayment.SetPausedUseCase
}

// Engine is the per-user interaction state machine. One turn runs under the
// user's session lock, so a user's operations are processed one at a time in
// arrival order; no cross-user coordination exists.
type Engine struct {
	sessions   SessionStore
	transport  adapter.Transport
	users      adapter.UserRepository
	categories adapter.CategoryRepository
	exporter   adapter.ReportExporter
	uc         UseCases
	log        *slog.Logger
}

// NewEngine creates a flow engine.
func NewEngine(
	sessions SessionStore,
	transport adapter.Transport,
	users adapter.UserRepository,
	categories adapter.CategoryRepository,
	exporter adapter.ReportExporter,
	uc UseCases,
	log *slog.Logger,
) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		sessions:   sessions,
		transport:  transport,
		users:      users,
		categories: categories,
		exporter:   exporter,
		uc:         uc,
		log:        log.With("component", "flow"),
	}
}

// Handle processes one inbound update end to end. Ledger failures never
// escape: they are converted to user-facing messages here.
func (e *Engine) Handle(ctx context.Context, upd Update) {
	user, err := e.ensureUser(ctx, upd.ChatID, upd.Username)
	if err != nil {
		e.log.Error("resolve user failed", "chat_id", upd.ChatID, "error", err)
		e.send(ctx, upd.ChatID, "Something went wrong, please try again.", nil)
		return
	}

	lock := e.sessions.UserLock(user.ID)
	lock.Lock()
	defer lock.Unlock()

	if upd.InteractionID != "" {
		if err := e.transport.AnswerInteraction(ctx, upd.InteractionID); err != nil {
			e.log.Debug("answer interaction failed", "error", err)
		}
		e.handleAction(ctx, user, upd)
		return
	}
	e.handleText(ctx, user, strings.TrimSpace(upd.Text))
}

func (e *Engine) ensureUser(ctx context.Context, chatID int64, username string) (*entity.User, error) {
	user, err := e.users.FindByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = entity.NewUser(chatID, username)
	if err := e.users.Create(ctx, user); err != nil {
		return nil, err
	}
	e.log.Info("new user registered", "chat_id", chatID)
	return user, nil
}

func (e *Engine) handleText(ctx context.Context, user *entity.User, text string) {
	if strings.HasPrefix(text, "/") {
		e.handleCommand(ctx, user, text)
		return
	}

	sess, ok := e.sessions.Get(user.ID)
	if !ok {
		e.send(ctx, user.ChatID, "Pick an action from the menu, or /start to see it.", nil)
		return
	}
	e.advanceText(ctx, user, sess, text)
}

func (e *Engine) handleCommand(ctx context.Context, user *entity.User, text string) {
	command := text
	if i := strings.IndexByte(command, ' '); i >= 0 {
		command = command[:i]
	}

	// Deep links carry an entity id and jump straight into a wizard step.
	if id, ok := strings.CutPrefix(command, "/pay_debt_"); ok {
		e.startDebtPayment(ctx, user, id, false)
		return
	}
	if id, ok := strings.CutPrefix(command, "/pay_regular_"); ok {
		e.payRegular(ctx, user, id, false)
		return
	}

	switch command {
	case "/start":
		e.sessions.Delete(user.ID)
		e.sendMenu(ctx, user)
	case "/cancel":
		e.cancelFlow(ctx, user, false)
	case "/expense":
		e.startTransaction(ctx, user, entity.DirectionExpense, false)
	case "/income":
		e.startTransaction(ctx, user, entity.DirectionIncome, false)
	case "/deposit":
		e.startAdjustment(ctx, user, entity.DirectionIncome, false)
	case "/withdraw":
		e.startAdjustment(ctx, user, entity.DirectionExpense, false)
	case "/goals":
		e.sendGoals(ctx, user)
	case "/debts":
		e.sendDebts(ctx, user)
	case "/regular":
		e.sendRegularPayments(ctx, user)
	case "/limit":
		e.startLimit(ctx, user, false)
	case "/top":
		e.sendTopExpenses(ctx, user)
	case "/report":
		e.sendReport(ctx, user)
	case "/feedback":
		e.startFeedback(ctx, user, false)
	default:
		e.send(ctx, user.ChatID, "Unknown command. /start shows the menu.", nil)
	}
}

// handleAction routes a button press. Actions that start something are valid
// with or without an open session; step-bound actions require the matching
// step and otherwise fall through to stale-action recovery.
func (e *Engine) handleAction(ctx context.Context, user *entity.User, upd Update) {
	data := upd.Data

	switch data {
	case actionMenu:
		e.sessions.Delete(user.ID)
		e.editToMenu(ctx, user, upd.MessageID)
		return
	case actionCancel:
		e.cancelFlow(ctx, user, true)
		return
	case actionNewExpense:
		e.startTransaction(ctx, user, entity.DirectionExpense, true)
		return
	case actionNewIncome:
		e.startTransaction(ctx, user, entity.DirectionIncome, true)
		return
	case actionDeposit:
		e.startAdjustment(ctx, user, entity.DirectionIncome, true)
		return
	case actionWithdraw:
		e.startAdjustment(ctx, user, entity.DirectionExpense, true)
		return
	case actionGoals:
		e.sendGoals(ctx, user)
		return
	case actionGoalNew:
		e.startGoal(ctx, user, true)
		return
	case actionGoalFund:
		e.startGoalFunding(ctx, user, true)
		return
	case actionDebts:
		e.sendDebts(ctx, user)
		return
	case actionDebtNewIOwe:
		e.startDebt(ctx, user, entity.DebtDirectionIOwe, true)
		return
	case actionDebtNewTheyOwe:
		e.startDebt(ctx, user, entity.DebtDirectionTheyOwe, true)
		return
	case actionRegular:
		e.sendRegularPayments(ctx, user)
		return
	case actionPaymentNew:
		e.startRegularPayment(ctx, user, true)
		return
	case actionLimitNew:
		e.startLimit(ctx, user, true)
		return
	case actionTop:
		e.sendTopExpenses(ctx, user)
		return
	case actionReport:
		e.sendReport(ctx, user)
		return
	case actionFeedback:
		e.startFeedback(ctx, user, true)
		return
	}

	if id, ok := strings.CutPrefix(data, actionUndo); ok {
		e.undoTransaction(ctx, user, id, upd.MessageID)
		return
	}
	if id, ok := strings.CutPrefix(data, actionGoalActivate); ok {
		e.activateGoal(ctx, user, id)
		return
	}
	if id, ok := strings.CutPrefix(data, actionDebtPay); ok {
		e.startDebtPayment(ctx, user, id, true)
		return
	}
	if id, ok := strings.CutPrefix(data, actionPayRegular); ok {
		e.payRegular(ctx, user, id, true)
		return
	}
	if id, ok := strings.CutPrefix(data, actionPaymentPause); ok {
		e.setPaymentPaused(ctx, user, id, true)
		return
	}
	if id, ok := strings.CutPrefix(data, actionPaymentResume); ok {
		e.setPaymentPaused(ctx, user, id, false)
		return
	}

	sess, ok := e.sessions.Get(user.ID)
	if !ok {
		e.staleAction(ctx, user, upd.MessageID)
		return
	}
	e.advanceAction(ctx, user, sess, data)
}

// advanceText feeds free text into the open wizard.
func (e *Engine) advanceText(ctx context.Context, user *entity.User, sess *Session, text string) {
	switch step := sess.Step.(type) {
	case AwaitingAmount:
		e.transactionAmountEntered(ctx, user, sess, step, text)
	case ChoosingCategory:
		e.quickCategoryEntered(ctx, user, sess, step, text)
	case AwaitingDescription:
		e.finishTransaction(ctx, user, sess, step, text, false, false)
	case AwaitingAdjustmentAmount:
		e.adjustmentAmountEntered(ctx, user, sess, step, text)
	case AwaitingGoalName:
		e.goalNameEntered(ctx, user, sess, text)
	case AwaitingGoalTarget:
		e.goalTargetEntered(ctx, user, sess, step, text)
	case AwaitingGoalDeadline:
		e.goalDeadlineEntered(ctx, user, sess, step, text)
	case AwaitingGoalFunds:
		e.goalFundsEntered(ctx, user, sess, step, text)
	case AwaitingDebtPerson:
		e.debtPersonEntered(ctx, user, sess, step, text)
	case AwaitingDebtAmount:
		e.debtAmountEntered(ctx, user, sess, step, text)
	case AwaitingDebtDueDate:
		e.debtDueDateEntered(ctx, user, sess, step, text)
	case AwaitingDebtPayment:
		e.debtPaymentEntered(ctx, user, sess, step, text)
	case AwaitingPaymentName:
		e.paymentNameEntered(ctx, user, sess, text)
	case AwaitingPaymentAmount:
		e.paymentAmountEntered(ctx, user, sess, step, text)
	case ChoosingPaymentFrequency:
		e.reply(ctx, sess, false, "Pick a frequency with the buttons below.", frequencyKeyboard())
	case AwaitingPaymentDay:
		e.paymentDayEntered(ctx, user, sess, step, text)
	case ChoosingLimitCategory:
		e.quickLimitCategoryEntered(ctx, user, sess, text)
	case AwaitingLimitAmount:
		e.limitAmountEntered(ctx, user, sess, step, text)
	case AwaitingFeedback:
		e.feedbackEntered(ctx, user, sess, text)
	default:
		e.log.Warn("text for unknown step", "user_id", user.ID)
		e.sessions.Delete(user.ID)
		e.sendMenu(ctx, user)
	}
}

// advanceAction feeds a step-bound button press into the open wizard.
func (e *Engine) advanceAction(ctx context.Context, user *entity.User, sess *Session, data string) {
	switch step := sess.Step.(type) {
	case ChoosingCategory:
		if id, ok := strings.CutPrefix(data, actionCategory); ok {
			e.categoryChosen(ctx, user, sess, step, id)
			return
		}
		if data == actionBack {
			// Back to the amount step; the collected values ride along so
			// only what the user retypes is replaced.
			sess.Step = AwaitingAmount{
				Direction:   step.Direction,
				Amount:      step.Amount,
				Description: step.Description,
			}
			e.sessions.Save(sess)
			prompt := amountPrompt(step.Direction)
			if !step.Amount.IsZero() {
				prompt = fmt.Sprintf("Current amount is %s. %s", money(step.Amount), prompt)
			}
			e.reply(ctx, sess, true, prompt, cancelKeyboard())
			return
		}
	case AwaitingDescription:
		switch data {
		case actionSkip:
			e.finishTransaction(ctx, user, sess, step, "", true, false)
			return
		case actionImpulse:
			e.finishTransaction(ctx, user, sess, step, "", true, true)
			return
		}
	case ChoosingPaymentFrequency:
		if raw, ok := strings.CutPrefix(data, actionFrequency); ok {
			e.paymentFrequencyChosen(ctx, user, sess, step, raw)
			return
		}
	case AwaitingPaymentDay:
		if data == actionSkip {
			e.finishRegularPayment(ctx, user, sess, step, nil, true)
			return
		}
	case ChoosingLimitCategory:
		if id, ok := strings.CutPrefix(data, actionCategory); ok {
			e.limitCategoryChosen(ctx, user, sess, id)
			return
		}
	case AwaitingGoalDeadline:
		if data == actionSkip {
			e.finishGoal(ctx, user, sess, step, nil, true)
			return
		}
	case AwaitingDebtDueDate:
		if data == actionSkip {
			e.finishDebt(ctx, user, sess, step, nil, true)
			return
		}
	}

	e.log.Debug("action does not match step", "user_id", user.ID, "data", data)
	e.reply(ctx, sess, true, "That button is no longer valid here.", cancelKeyboard())
}

// cancelFlow destroys the session unconditionally. Nothing has been written
// to the ledger before a terminal step, so there is nothing to undo.
func (e *Engine) cancelFlow(ctx context.Context, user *entity.User, viaButton bool) {
	sess, ok := e.sessions.Get(user.ID)
	e.sessions.Delete(user.ID)

	if !ok {
		e.send(ctx, user.ChatID, "Nothing to cancel.", menuKeyboard())
		return
	}
	e.reply(ctx, sess, viaButton, "Cancelled. Nothing was recorded.", menuKeyboard())
}

// staleAction recovers from a button that references an expired session.
func (e *Engine) staleAction(ctx context.Context, user *entity.User, messageID int64) {
	if messageID != 0 {
		if err := e.transport.EditMessage(ctx, user.ChatID, messageID, "This action has expired.", menuKeyboard()); err == nil {
			return
		}
	}
	e.send(ctx, user.ChatID, "This action has expired.", menuKeyboard())
}

// reply renders the next prompt according to the editable-message rule:
// button-driven turns edit the outstanding message, free-text turns send a
// fresh one and adopt it as the new editable message.
func (e *Engine) reply(ctx context.Context, sess *Session, viaButton bool, text string, keyboard *adapter.Keyboard) {
	if viaButton && sess.PromptMessageID != 0 {
		if err := e.transport.EditMessage(ctx, sess.ChatID, sess.PromptMessageID, text, keyboard); err == nil {
			return
		} else {
			e.log.Warn("edit message failed", "chat_id", sess.ChatID, "error", err)
		}
	}

	id, err := e.transport.SendMessage(ctx, sess.ChatID, text, keyboard)
	if err != nil {
		e.log.Warn("send message failed", "chat_id", sess.ChatID, "error", err)
		return
	}
	sess.PromptMessageID = id
}

// finish renders a terminal message and destroys the session.
func (e *Engine) finish(ctx context.Context, user *entity.User, sess *Session, viaButton bool, text string) {
	e.reply(ctx, sess, viaButton, text, menuKeyboard())
	e.sessions.Delete(user.ID)
}

// send delivers a message outside of any session, fire-and-log.
func (e *Engine) send(ctx context.Context, chatID int64, text string, keyboard *adapter.Keyboard) int64 {
	id, err := e.transport.SendMessage(ctx, chatID, text, keyboard)
	if err != nil {
		e.log.Warn("send message failed", "chat_id", chatID, "error", err)
		return 0
	}
	return id
}

// failureText converts a ledger error into the user-facing line shown in
// place of a result. Validation errors are handled at the step that parsed
// the input and never reach here.
func (e *Engine) failureText(err error) string {
	switch {
	case errors.Is(err, domainerror.ErrInsufficientFunds):
		return "Not enough funds on the account for this expense."
	case errors.Is(err, domainerror.ErrCategoryBlocked):
		return "This category is blocked until the limit cools down."
	case errors.Is(err, domainerror.ErrDebtAlreadyPaid):
		return "This debt is already settled."
	case errors.Is(err, domainerror.ErrTransactionAlreadyCancelled):
		return "This record was already undone."
	case errors.Is(err, domainerror.ErrTransactionNotFound),
		errors.Is(err, domainerror.ErrDebtNotFound),
		errors.Is(err, domainerror.ErrGoalNotFound),
		errors.Is(err, domainerror.ErrPaymentNotFound),
		errors.Is(err, domainerror.ErrCategoryNotFound):
		return "That record no longer exists."
	default:
		return "Something went wrong, please try again."
	}
}

func parseID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	return id, err == nil
}
