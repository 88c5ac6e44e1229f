package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/finance-assistant/bot/internal/application/usecase/limit"
	"github.com/finance-assistant/bot/internal/domain/entity"
)

func (e *Engine) startLimit(ctx context.Context, user *entity.User, viaButton bool) {
	sess := e.beginFlow(user, ChoosingLimitCategory{})

	categories, err := e.categories.FindActiveByUser(ctx, user.ID, entity.DirectionExpense)
	if err != nil {
		e.log.Error("load categories failed", "user_id", user.ID, "error", err)
		e.finish(ctx, user, sess, viaButton, e.failureText(err))
		return
	}

	text := "Which category should the monthly limit cover?"
	if len(categories) == 0 {
		text = "Type an expense category name to create it and set its limit."
	}
	e.reply(ctx, sess, viaButton, text, categoryKeyboard(categories, false))
}

func (e *Engine) limitCategoryChosen(ctx context.Context, user *entity.User, sess *Session, rawID string) {
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

	sess.Step = AwaitingLimitAmount{CategoryID: category.ID, CategoryName: category.Name}
	e.sessions.Save(sess)
	e.reply(ctx, sess, true, fmt.Sprintf("Monthly ceiling for %q?", category.Name), cancelKeyboard())
}

func (e *Engine) quickLimitCategoryEntered(ctx context.Context, user *entity.User, sess *Session, text string) {
	name := strings.TrimSpace(text)
	if name == "" {
		e.reply(ctx, sess, false, "Type a category name, or pick one below.", cancelKeyboard())
		return
	}

	category, err := e.categories.FindByName(ctx, user.ID, name)
	if err != nil {
		e.log.Error("category lookup failed", "user_id", user.ID, "error", err)
		e.finish(ctx, user, sess, false, e.failureText(err))
		return
	}
	if category == nil {
		category = entity.NewQuickCategory(user.ID, name, entity.CategoryDirectionExpense)
		if err := e.categories.Create(ctx, category); err != nil {
			e.log.Error("create quick category failed", "user_id", user.ID, "error", err)
			e.finish(ctx, user, sess, false, e.failureText(err))
			return
		}
	}

	sess.Step = AwaitingLimitAmount{CategoryID: category.ID, CategoryName: category.Name}
	e.sessions.Save(sess)
	e.reply(ctx, sess, false, fmt.Sprintf("Monthly ceiling for %q?", category.Name), cancelKeyboard())
}

func (e *Engine) limitAmountEntered(ctx context.Context, user *entity.User, sess *Session, step AwaitingLimitAmount, text string) {
	amount, _, err := parseAmount(text)
	if err != nil {
		e.reply(ctx, sess, false, "That doesn't look like an amount, try again.", cancelKeyboard())
		return
	}

	out, err := e.uc.SetLimit.Execute(ctx, limit.SetLimitInput{
		UserID:     user.ID,
		CategoryID: step.CategoryID,
		Amount:     amount,
	})
	if err != nil {
		e.finish(ctx, user, sess, false, e.failureText(err))
		return
	}

	e.finish(ctx, user, sess, false,
		fmt.Sprintf("Limit set: %s per month on %q. Spent so far this month: %s.",
			money(out.Limit.Amount), step.CategoryName, money(out.Limit.SpentAmount)))
}

func (e *Engine) startFeedback(ctx context.Context, user *entity.User, viaButton bool) {
	sess := e.beginFlow(user, AwaitingFeedback{})
	e.reply(ctx, sess, viaButton, "What should we improve? Write it in one message.", cancelKeyboard())
}

// feedbackEntered stores nothing in the ledger; feedback goes to the
// operators through the structured log.
func (e *Engine) feedbackEntered(ctx context.Context, user *entity.User, sess *Session, text string) {
	message := strings.TrimSpace(text)
	if message == "" {
		e.reply(ctx, sess, false, "The message came through empty, try again.", cancelKeyboard())
		return
	}

	e.log.Info("user feedback",
		"user_id", user.ID,
		"chat_id", user.ChatID,
		"feedback", message,
	)
	e.finish(ctx, user, sess, false, "Thank you! Your feedback reached us.")
}
