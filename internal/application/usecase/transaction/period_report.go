// Package transaction contains ledger transaction use cases.
package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/domain/entity"
)

// BuildPeriodReportInput represents the input for the report projection.
type BuildPeriodReportInput struct {
	UserID uuid.UUID
	From   time.Time
	To     time.Time
}

// BuildPeriodReportOutput represents the output of the report projection.
type BuildPeriodReportOutput struct {
	Rows []entity.ReportRow
}

// BuildPeriodReportUseCase produces the ordered read-only projection an
// external formatter renders into a document.
type BuildPeriodReportUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewBuildPeriodReportUseCase creates a new BuildPeriodReportUseCase instance.
func NewBuildPeriodReportUseCase(transactionRepo adapter.TransactionRepository) *BuildPeriodReportUseCase {
	return &BuildPeriodReportUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute performs the projection.
func (uc *BuildPeriodReportUseCase) Execute(ctx context.Context, input BuildPeriodReportInput) (*BuildPeriodReportOutput, error) {
	records, err := uc.transactionRepo.FindByPeriod(ctx, input.UserID, input.From, input.To)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}

	rows := make([]entity.ReportRow, 0, len(records))
	for _, record := range records {
		categoryName := ""
		if record.Category != nil {
			categoryName = record.Category.Name
		}
		rows = append(rows, entity.ReportRow{
			Date:        record.Transaction.Date,
			Direction:   record.Transaction.Direction,
			Category:    categoryName,
			Amount:      record.Transaction.Amount,
			Description: record.Transaction.Description,
			IsImpulsive: record.Transaction.IsImpulsive,
		})
	}

	return &BuildPeriodReportOutput{Rows: rows}, nil
}
