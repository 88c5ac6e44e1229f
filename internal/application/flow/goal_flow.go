package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finance-assistant/bot/internal/application/usecase/goal"
	"github.com/finance-assistant/bot/internal/domain/entity"
	domainerror "github.com/finance-assistant/bot/internal/domain/error"
)

func (e *Engine) startGoal(ctx context.Context, user *entity.User, viaButton bool) {
	sess := e.beginFlow(user, AwaitingGoalName{})
	e.reply(ctx, sess, viaButton, "What are you saving for? Give the goal a name.", cancelKeyboard())
}

func (e *Engine) goalNameEntered(ctx context.Context, user *entity.User, sess *Session, text string) {
	name := strings.TrimSpace(text)
	if name == "" {
		e.reply(ctx, sess, false, "The goal needs a name, try again.", cancelKeyboard())
		return
	}

	sess.Step = AwaitingGoalTarget{Name: name}
	e.sessions.Save(sess)
	e.reply(ctx, sess, false, fmt.Sprintf("How much do you want to save for %q?", name), cancelKeyboard())
}

func (e *Engine) goalTargetEntered(ctx context.Context, user *entity.User, sess *Session, step AwaitingGoalTarget, text string) {
	target, _, err := parseAmount(text)
	if err != nil {
		e.reply(ctx, sess, false, "That doesn't look like an amount, try again.", cancelKeyboard())
		return
	}

	sess.Step = AwaitingGoalDeadline{Name: step.Name, Target: target}
	e.sessions.Save(sess)
	e.reply(ctx, sess, false, "When do you want to reach it? Send a date (2025-12-31) or skip.", skipCancelKeyboard())
}

func (e *Engine) goalDeadlineEntered(ctx context.Context, user *entity.User, sess *Session, step AwaitingGoalDeadline, text string) {
	deadline, err := parseDate(text)
	if err != nil {
		e.reply(ctx, sess, false, "I couldn't read that date. Use 2025-12-31, or skip.", skipCancelKeyboard())
		return
	}
	e.finishGoal(ctx, user, sess, step, deadline, false)
}

func (e *Engine) finishGoal(ctx context.Context, user *entity.User, sess *Session, step AwaitingGoalDeadline, deadline *time.Time, viaButton bool) {
	out, err := e.uc.CreateGoal.Execute(ctx, goal.CreateGoalInput{
		UserID:   user.ID,
		Name:     step.Name,
		Target:   step.Target,
		Deadline: deadline,
	})
	if err != nil {
		e.finish(ctx, user, sess, viaButton, e.failureText(err))
		return
	}

	text := fmt.Sprintf("Goal %q created: %s to save.", out.Goal.Name, money(out.Goal.TargetAmount))
	if out.Goal.IsActive {
		text += " It is now your active goal."
	} else {
		text += " It is queued behind your current active goal."
	}
	e.finish(ctx, user, sess, viaButton, text)
}

// startGoalFunding opens the funding step against the active goal. Without an
// active goal there is nothing to fund and the wizard never opens.
func (e *Engine) startGoalFunding(ctx context.Context, user *entity.User, viaButton bool) {
	active, err := e.uc.ActiveGoal.Execute(ctx, goal.GetActiveGoalInput{UserID: user.ID})
	if err != nil {
		e.log.Error("active goal lookup failed", "user_id", user.ID, "error", err)
		e.send(ctx, user.ChatID, e.failureText(err), menuKeyboard())
		return
	}
	if active.Goal == nil {
		e.send(ctx, user.ChatID, "You have no active goal. Create one first.", menuKeyboard())
		return
	}

	sess := e.beginFlow(user, AwaitingGoalFunds{GoalID: active.Goal.ID})
	e.reply(ctx, sess, viaButton,
		fmt.Sprintf("How much to put toward %q? Saved so far: %s of %s.",
			active.Goal.Name, money(active.Goal.CurrentAmount), money(active.Goal.TargetAmount)),
		cancelKeyboard())
}

func (e *Engine) goalFundsEntered(ctx context.Context, user *entity.User, sess *Session, step AwaitingGoalFunds, text string) {
	amount, _, err := parseAmount(text)
	if err != nil {
		e.reply(ctx, sess, false, "That doesn't look like an amount, try again.", cancelKeyboard())
		return
	}

	out, err := e.uc.AddGoalFunds.Execute(ctx, goal.AddFundsInput{
		UserID: user.ID,
		GoalID: step.GoalID,
		Amount: amount,
	})
	if err != nil {
		if errors.Is(err, domainerror.ErrGoalCompleted) {
			e.finish(ctx, user, sess, false, "That goal is already completed.")
			return
		}
		e.finish(ctx, user, sess, false, e.failureText(err))
		return
	}

	if out.Completed {
		e.finish(ctx, user, sess, false,
			fmt.Sprintf("Goal %q is complete! You saved %s.", out.Goal.Name, money(out.Goal.CurrentAmount)))
		return
	}
	e.finish(ctx, user, sess, false,
		fmt.Sprintf("Added. %q now holds %s of %s.",
			out.Goal.Name, money(out.Goal.CurrentAmount), money(out.Goal.TargetAmount)))
}

// activateGoal is an immediate action from the goals screen, not a wizard.
func (e *Engine) activateGoal(ctx context.Context, user *entity.User, rawID string) {
	id, ok := parseID(rawID)
	if !ok {
		e.send(ctx, user.ChatID, "That record no longer exists.", menuKeyboard())
		return
	}

	out, err := e.uc.SetActiveGoal.Execute(ctx, goal.SetActiveInput{UserID: user.ID, GoalID: id})
	if err != nil {
		e.send(ctx, user.ChatID, e.failureText(err), menuKeyboard())
		return
	}

	e.send(ctx, user.ChatID, fmt.Sprintf("%q is now your active goal.", out.Goal.Name), nil)
	e.sendGoals(ctx, user)
}
