// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-assistant/bot/internal/domain/entity"
)

// ReportExporter renders a period report projection into a document and
// returns a reference the transport can hand to the user. The core produces
// rows only; formatting lives entirely behind this interface.
type ReportExporter interface {
	Export(ctx context.Context, userID uuid.UUID, title string, rows []entity.ReportRow) (string, error)
}
