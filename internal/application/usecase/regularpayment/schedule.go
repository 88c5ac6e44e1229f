// Package regularpayment contains recurring payment use cases.
package regularpayment

import (
	"time"

	"github.com/finance-assistant/bot/internal/domain/entity"
	domainerror "github.com/finance-assistant/bot/internal/domain/error"
)

// ComputeNextDueDate returns the next occurrence after from under the given
// frequency. Monthly recurrence targets dayOfMonth (defaulting to from's
// day) clamped to the length of the target month, so a payment anchored to
// day 31 lands on 28/29/30 in short months without losing the anchor.
func ComputeNextDueDate(from time.Time, frequency entity.Frequency, dayOfMonth *int) (time.Time, error) {
	from = from.UTC()
	date := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)

	switch frequency {
	case entity.FrequencyDaily:
		return date.AddDate(0, 0, 1), nil
	case entity.FrequencyWeekly:
		return date.AddDate(0, 0, 7), nil
	case entity.FrequencyYearly:
		return date.AddDate(1, 0, 0), nil
	case entity.FrequencyMonthly:
		anchor := date.Day()
		if dayOfMonth != nil {
			anchor = *dayOfMonth
		}
		// First of the next month, then clamp the anchor to its length.
		first := time.Date(date.Year(), date.Month()+1, 1, 0, 0, 0, 0, time.UTC)
		days := first.AddDate(0, 1, -1).Day()
		day := anchor
		if day > days {
			day = days
		}
		return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC), nil
	default:
		return time.Time{}, domainerror.ErrInvalidFrequency
	}
}
