// Package dependency provides dependency injection for the application.
package dependency

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/finance-assistant/bot/config"
	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/application/flow"
	"github.com/finance-assistant/bot/internal/application/scheduler"
	"github.com/finance-assistant/bot/internal/application/usecase/debt"
	"github.com/finance-assistant/bot/internal/application/usecase/goal"
	"github.com/finance-assistant/bot/internal/application/usecase/limit"
	"github.com/finance-assistant/bot/internal/application/usecase/regularpayment"
	"github.com/finance-assistant/bot/internal/application/usecase/transaction"
	"github.com/finance-assistant/bot/internal/infra/server/router"
	"github.com/finance-assistant/bot/internal/integration/chat"
	"github.com/finance-assistant/bot/internal/integration/entrypoint/controller"
	"github.com/finance-assistant/bot/internal/integration/export"
	"github.com/finance-assistant/bot/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config    *config.Config
	DB        *gorm.DB
	Router    *router.Router
	Engine    *flow.Engine
	Sessions  *flow.InMemorySessionStore
	Scheduler *scheduler.Reminder
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, dbHealthChecker func() bool, log *slog.Logger) *Injector {
	// Repositories
	userRepo := persistence.NewUserRepository(db)
	categoryRepo := persistence.NewCategoryRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	limitRepo := persistence.NewLimitRepository(db)
	debtRepo := persistence.NewDebtRepository(db)
	goalRepo := persistence.NewGoalRepository(db)
	paymentRepo := persistence.NewRegularPaymentRepository(db)
	uow := persistence.NewUnitOfWork(db)

	// Ledger use cases
	useCases := flow.UseCases{
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

	// Outbound integrations
	var transport adapter.Transport = chat.NewClient(cfg.Chat.APIBaseURL, cfg.Chat.Timeout)
	exporter := export.NewExcelExporter(cfg.Export.Dir)

	// Flow engine
	sessions := flow.NewInMemorySessionStore(cfg.Session.IdleTimeout)
	engine := flow.NewEngine(sessions, transport, userRepo, categoryRepo, exporter, useCases, log)

	// Background scheduler
	reminder := scheduler.NewReminder(
		userRepo,
		transport,
		useCases.ResetMonthlyLimits,
		regularpayment.NewGetDuePaymentsUseCase(paymentRepo),
		debt.NewGetOverdueDebtsUseCase(debtRepo),
		cfg.Scheduler.ReminderHour,
		log,
	)

	// HTTP entrypoint
	healthController := controller.NewHealthController(dbHealthChecker)
	webhookController := controller.NewWebhookController(engine, log)
	rtr := router.NewRouter(healthController, webhookController)

	return &Injector{
		Config:    cfg,
		DB:        db,
		Router:    rtr,
		Engine:    engine,
		Sessions:  sessions,
		Scheduler: reminder,
	}
}
