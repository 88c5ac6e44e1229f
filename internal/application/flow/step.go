// Package flow implements the per-user interaction state machine that
// collects multi-step input and invokes ledger operations at terminal steps.
package flow

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-assistant/bot/internal/domain/entity"
)

// Step is the state of one wizard. Each variant carries exactly the fields
// that are valid at that step, so handlers never probe for optional values
// that cannot exist yet.
type Step interface {
	isFlowStep()
}

// Transaction entry wizard.

// AwaitingAmount waits for a positive decimal, optionally followed by a
// free-text description on the same line. Amount and Description are carried
// over when the user steps back from the category choice, so a corrected
// amount keeps the description typed the first time around.
type AwaitingAmount struct {
	Direction   entity.Direction
	Amount      decimal.Decimal
	Description string
}

// ChoosingCategory waits for a category button or free text naming a new
// quick category.
type ChoosingCategory struct {
	Direction   entity.Direction
	Amount      decimal.Decimal
	Description string
}

// AwaitingDescription waits for a description, a skip, or an impulse marker.
type AwaitingDescription struct {
	Direction    entity.Direction
	Amount       decimal.Decimal
	CategoryID   uuid.UUID
	CategoryName string
}

// AwaitingAdjustmentAmount is the single step of the deposit/withdraw wizard.
type AwaitingAdjustmentAmount struct {
	Direction entity.Direction
}

// Goal wizards.

// AwaitingGoalName waits for the goal name.
type AwaitingGoalName struct{}

// AwaitingGoalTarget waits for the target amount.
type AwaitingGoalTarget struct {
	Name string
}

// AwaitingGoalDeadline waits for a deadline date or "none".
type AwaitingGoalDeadline struct {
	Name   string
	Target decimal.Decimal
}

// AwaitingGoalFunds waits for an amount to put toward the active goal.
type AwaitingGoalFunds struct {
	GoalID uuid.UUID
}

// Debt wizards.

// AwaitingDebtPerson waits for the counterparty name.
type AwaitingDebtPerson struct {
	Direction entity.DebtDirection
}

// AwaitingDebtAmount waits for the agreed amount.
type AwaitingDebtAmount struct {
	Direction entity.DebtDirection
	Person    string
}

// AwaitingDebtDueDate waits for a due date or "none".
type AwaitingDebtDueDate struct {
	Direction entity.DebtDirection
	Person    string
	Amount    decimal.Decimal
}

// AwaitingDebtPayment waits for a repayment amount against a known debt.
type AwaitingDebtPayment struct {
	DebtID uuid.UUID
}

// Regular payment wizard.

// AwaitingPaymentName waits for the obligation name.
type AwaitingPaymentName struct{}

// AwaitingPaymentAmount waits for the payment amount.
type AwaitingPaymentAmount struct {
	Name string
}

// ChoosingPaymentFrequency waits for a frequency button.
type ChoosingPaymentFrequency struct {
	Name   string
	Amount decimal.Decimal
}

// AwaitingPaymentDay waits for a day-of-month anchor or "skip"
// (monthly frequency only).
type AwaitingPaymentDay struct {
	Name   string
	Amount decimal.Decimal
}

// Limit wizard.

// ChoosingLimitCategory waits for an expense category button or free text.
type ChoosingLimitCategory struct{}

// AwaitingLimitAmount waits for the monthly ceiling.
type AwaitingLimitAmount struct {
	CategoryID   uuid.UUID
	CategoryName string
}

// AwaitingFeedback waits for free-text feedback.
type AwaitingFeedback struct{}

func (AwaitingAmount) isFlowStep()           {}
func (ChoosingCategory) isFlowStep()         {}
func (AwaitingDescription) isFlowStep()      {}
func (AwaitingAdjustmentAmount) isFlowStep() {}
func (AwaitingGoalName) isFlowStep()         {}
func (AwaitingGoalTarget) isFlowStep()       {}
func (AwaitingGoalDeadline) isFlowStep()     {}
func (AwaitingGoalFunds) isFlowStep()        {}
func (AwaitingDebtPerson) isFlowStep()       {}
func (AwaitingDebtAmount) isFlowStep()       {}
func (AwaitingDebtDueDate) isFlowStep()      {}
func (AwaitingDebtPayment) isFlowStep()      {}
func (AwaitingPaymentName) isFlowStep()      {}
func (AwaitingPaymentAmount) isFlowStep()    {}
func (ChoosingPaymentFrequency) isFlowStep() {}
func (AwaitingPaymentDay) isFlowStep()       {}
func (ChoosingLimitCategory) isFlowStep()    {}
func (AwaitingLimitAmount) isFlowStep()      {}
func (AwaitingFeedback) isFlowStep()         {}
