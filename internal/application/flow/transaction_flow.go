package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/finance-assistant/bot/internal/application/usecase/limit"
	"github.com/finance-assistant/bot/internal/application/usecase/transaction"
	"github.com/finance-assistant/bot/internal/domain/entity"
)

// beginFlow opens a fresh session, replacing any wizard already open. The
// outstanding prompt of the dropped wizard is forgotten with it, so the
// first prompt of the new flow is always a fresh message.
func (e *Engine) beginFlow(user *entity.User, step Step) *Session {
	sess := &Session{
		UserID: user.ID,
		ChatID: user.ChatID,
		Step:   step,
	}
	e.sessions.Save(sess)
	return sess
}

func (e *Engine) startTransaction(ctx context.Context, user *entity.User, direction entity.Direction, viaButton bool) {
	sess := e.beginFlow(user, AwaitingAmount{Direction: direction})
	e.reply(ctx, sess, viaButton, amountPrompt(direction), cancelKeyboard())
}

// transactionAmountEntered handles the amount step. A trailing description
// on the same line is kept so the description step can be skipped straight
// into the ledger call once a category is picked.
func (e *Engine) transactionAmountEntered(ctx context.Context, user *entity.User, sess *Session, step AwaitingAmount, text string) {
	amount, description, err := parseAmount(text)
	if err != nil {
		e.reply(ctx, sess, false, "That doesn't look like an amount. "+amountPrompt(step.Direction), cancelKeyboard())
		return
	}
	if description == "" {
		description = step.Description
	}

	sess.Step = ChoosingCategory{
		Direction:   step.Direction,
		Amount:      amount,
		Description: description,
	}
	e.sessions.Save(sess)
	e.promptCategory(ctx, user, sess, step.Direction, false)
}

func (e *Engine) promptCategory(ctx context.Context, user *entity.User, sess *Session, direction entity.Direction, viaButton bool) {
	categories, err := e.categories.FindActiveByUser(ctx, user.ID, direction)
	if err != nil {
		e.log.Error("load categories failed", "user_id", user.ID, "error", err)
		e.finish(ctx, user, sess, viaButton, e.failureText(err))
		return
	}

	text := "Pick a category, or type a new one."
	if len(categories) == 0 {
		text = "Type a category name to create your first one."
	}
	e.reply(ctx, sess, viaButton, text, categoryKeyboard(categories, true))
}

// categoryChosen handles a category button at the category step.
func (e *Engine) categoryChosen(ctx context.Context, user *entity.User, sess *Session, step ChoosingCategory, rawID string) {
	id, ok := parseID(rawID)
	if !ok {
		e.finish(ctx, user, sess, true, "That record no longer exists.")
		return
	}

	category, err := e.categories.FindByID(ctx, id)
	if err != nil {
		e.log.Warn("category lookup failed", "user_id", user.ID, "error", err)
		e.finish(ctx, user, sess, true, e.failureText(err))
		return
	}

	e.categoryResolved(ctx, user, sess, step, category, true)
}

// quickCategoryEntered creates a category from free text typed at the
// category step.
func (e *Engine) quickCategoryEntered(ctx context.Context, user *entity.User, sess *Session, step ChoosingCategory, text string) {
	name := strings.TrimSpace(text)
	if name == "" {
		e.promptCategory(ctx, user, sess, step.Direction, false)
		return
	}

	category, err := e.categories.FindByName(ctx, user.ID, name)
	if err != nil {
		e.log.Error("category lookup failed", "user_id", user.ID, "error", err)
		e.finish(ctx, user, sess, false, e.failureText(err))
		return
	}
	if category == nil {
		category = entity.NewQuickCategory(user.ID, name, categoryDirectionFor(step.Direction))
		if err := e.categories.Create(ctx, category); err != nil {
			e.log.Error("create quick category failed", "user_id", user.ID, "error", err)
			e.finish(ctx, user, sess, false, e.failureText(err))
			return
		}
	}

	e.categoryResolved(ctx, user, sess, step, category, false)
}

// categoryResolved applies the block pre-check and either finishes (when a
// description was already captured with the amount) or advances to the
// description step.
func (e *Engine) categoryResolved(ctx context.Context, user *entity.User, sess *Session, step ChoosingCategory, category *entity.Category, viaButton bool) {
	if step.Direction == entity.DirectionExpense {
		blocked, err := e.uc.IsCategoryBlocked.Execute(ctx, limit.IsCategoryBlockedInput{
			UserID:     user.ID,
			CategoryID: category.ID,
		})
		if err != nil {
			e.log.Error("block check failed", "user_id", user.ID, "error", err)
			e.finish(ctx, user, sess, viaButton, e.failureText(err))
			return
		}
		if blocked.Blocked {
			text := fmt.Sprintf("Spending in %q is blocked by your limit.", category.Name)
			if blocked.BlockedUntil != nil {
				text += " It unblocks " + blocked.BlockedUntil.Format("2006-01-02 15:04") + " UTC."
			}
			e.finish(ctx, user, sess, viaButton, text)
			return
		}
	}

	next := AwaitingDescription{
		Direction:    step.Direction,
		Amount:       step.Amount,
		CategoryID:   category.ID,
		CategoryName: category.Name,
	}
	if step.Description != "" {
		// Description came with the amount; no reason to ask again.
		e.finishTransaction(ctx, user, sess, next, step.Description, viaButton, false)
		return
	}

	sess.Step = next
	e.sessions.Save(sess)
	e.reply(ctx, sess, viaButton, "Add a description, or skip.", descriptionKeyboard())
}

// finishTransaction is the terminal step of the entry wizard: the one place
// this wizard touches the ledger.
func (e *Engine) finishTransaction(ctx context.Context, user *entity.User, sess *Session, step AwaitingDescription, description string, viaButton, impulsive bool) {
	if step.Direction == entity.DirectionExpense {
		// Roll stale limits into the current month before recording spend.
		if _, err := e.uc.ResetMonthlyLimits.Execute(ctx, limit.ResetMonthlyLimitsInput{UserID: user.ID}); err != nil {
			e.log.Warn("monthly limit reset failed", "user_id", user.ID, "error", err)
		}
	}

	categoryID := step.CategoryID
	out, err := e.uc.ProcessTransaction.Execute(ctx, transaction.ProcessTransactionInput{
		UserID:      user.ID,
		CategoryID:  &categoryID,
		Amount:      step.Amount,
		Direction:   step.Direction,
		Description: strings.TrimSpace(description),
		IsImpulsive: impulsive,
	})
	if err != nil {
		e.finish(ctx, user, sess, viaButton, e.failureText(err))
		return
	}

	text := fmt.Sprintf("Recorded %s %s in %q. Balance: %s %s.",
		directionLabel(step.Direction), money(step.Amount), step.CategoryName, money(out.Balance), out.Currency)

	if step.Direction == entity.DirectionExpense {
		spent, err := e.uc.AddSpending.Execute(ctx, limit.AddSpendingInput{
			UserID:     user.ID,
			CategoryID: step.CategoryID,
			Amount:     step.Amount,
		})
		if err != nil {
			e.log.Error("limit accounting failed", "user_id", user.ID, "error", err)
		} else if spent.CrossedLevel != entity.WarningLevelNone {
			text += "\n" + warningText(spent.CrossedLevel, step.CategoryName)
		}
	}

	e.reply(ctx, sess, viaButton, text, receiptKeyboard(out.Transaction.ID))
	e.sessions.Delete(user.ID)
}

// undoTransaction reverses a recorded transaction from its receipt button.
// The receipt can outlive the session, so no open wizard is required.
func (e *Engine) undoTransaction(ctx context.Context, user *entity.User, rawID string, messageID int64) {
	id, ok := parseID(rawID)
	if !ok {
		e.staleAction(ctx, user, messageID)
		return
	}

	out, err := e.uc.CancelTransaction.Execute(ctx, transaction.CancelTransactionInput{
		UserID:        user.ID,
		TransactionID: id,
	})
	if err != nil {
		e.send(ctx, user.ChatID, e.failureText(err), menuKeyboard())
		return
	}

	text := fmt.Sprintf("Reversed %s %s. Balance: %s %s.",
		directionLabel(out.Transaction.Direction), money(out.Transaction.Amount), money(out.Balance), out.Currency)

	// Rewrite the receipt in place so the spent Undo button disappears.
	if messageID != 0 {
		if err := e.transport.EditMessage(ctx, user.ChatID, messageID, text, menuKeyboard()); err == nil {
			return
		}
	}
	e.send(ctx, user.ChatID, text, menuKeyboard())
}

func (e *Engine) startAdjustment(ctx context.Context, user *entity.User, direction entity.Direction, viaButton bool) {
	sess := e.beginFlow(user, AwaitingAdjustmentAmount{Direction: direction})
	prompt := "How much would you like to deposit?"
	if direction == entity.DirectionExpense {
		prompt = "How much would you like to withdraw?"
	}
	e.reply(ctx, sess, viaButton, prompt, cancelKeyboard())
}

func (e *Engine) adjustmentAmountEntered(ctx context.Context, user *entity.User, sess *Session, step AwaitingAdjustmentAmount, text string) {
	amount, _, err := parseAmount(text)
	if err != nil {
		e.reply(ctx, sess, false, "That doesn't look like an amount, try again.", cancelKeyboard())
		return
	}

	description := "Balance deposit"
	if step.Direction == entity.DirectionExpense {
		description = "Balance withdrawal"
	}

	out, err := e.uc.ProcessTransaction.Execute(ctx, transaction.ProcessTransactionInput{
		UserID:      user.ID,
		Amount:      amount,
		Direction:   step.Direction,
		Description: description,
	})
	if err != nil {
		e.finish(ctx, user, sess, false, e.failureText(err))
		return
	}

	e.reply(ctx, sess, false,
		fmt.Sprintf("Done. Balance: %s %s.", money(out.Balance), out.Currency),
		receiptKeyboard(out.Transaction.ID))
	e.sessions.Delete(user.ID)
}

func categoryDirectionFor(direction entity.Direction) entity.CategoryDirection {
	if direction == entity.DirectionIncome {
		return entity.CategoryDirectionIncome
	}
	return entity.CategoryDirectionExpense
}

func directionLabel(direction entity.Direction) string {
	if direction == entity.DirectionIncome {
		return "income of"
	}
	return "expense of"
}

func warningText(level int, category string) string {
	switch level {
	case entity.WarningLevelReached:
		return fmt.Sprintf("Limit for %q is fully spent. The category is blocked for 24 hours.", category)
	case entity.WarningLevelHigh:
		return fmt.Sprintf("Heads up: 80%% of the %q limit is spent.", category)
	case entity.WarningLevelHalf:
		return fmt.Sprintf("Half of the %q limit is spent.", category)
	}
	return ""
}
