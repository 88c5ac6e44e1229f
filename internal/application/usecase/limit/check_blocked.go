// Package limit contains spend limit use cases.
package limit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-assistant/bot/internal/application/adapter"
)

// IsCategoryBlockedInput represents the input for the block pre-check.
type IsCategoryBlockedInput struct {
	UserID     uuid.UUID
	CategoryID uuid.UUID
}

// IsCategoryBlockedOutput represents the output of the block pre-check.
type IsCategoryBlockedOutput struct {
	Blocked      bool
	BlockedUntil *time.Time
}

// IsCategoryBlockedUseCase answers whether expenses in a category must be
// rejected before they reach the transaction processor. An elapsed block is
// cleared on the way through.
type IsCategoryBlockedUseCase struct {
	limitRepo adapter.LimitRepository
	now       func() time.Time
}

// NewIsCategoryBlockedUseCase creates a new IsCategoryBlockedUseCase instance.
func NewIsCategoryBlockedUseCase(limitRepo adapter.LimitRepository) *IsCategoryBlockedUseCase {
	return &IsCategoryBlockedUseCase{
		limitRepo: limitRepo,
		now:       time.Now,
	}
}

// Execute performs the pre-check.
func (uc *IsCategoryBlockedUseCase) Execute(ctx context.Context, input IsCategoryBlockedInput) (*IsCategoryBlockedOutput, error) {
	lim, err := uc.limitRepo.FindByUserAndCategory(ctx, input.UserID, input.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("find limit: %w", err)
	}
	if lim == nil || !lim.IsBlocked {
		return &IsCategoryBlockedOutput{}, nil
	}

	now := uc.now().UTC()
	if lim.BlockedUntil != nil && !lim.BlockedUntil.After(now) {
		lim.IsBlocked = false
		lim.BlockedUntil = nil
		lim.UpdatedAt = now
		if err := uc.limitRepo.Update(ctx, lim); err != nil {
			return nil, fmt.Errorf("clear elapsed block: %w", err)
		}
		return &IsCategoryBlockedOutput{}, nil
	}

	return &IsCategoryBlockedOutput{Blocked: true, BlockedUntil: lim.BlockedUntil}, nil
}
