package flow

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainerror "github.com/finance-assistant/bot/internal/domain/error"
)

// parseAmount parses a positive decimal from the start of the text and
// returns whatever follows it as a trailing description ("250 taxi home").
// Comma decimal separators are accepted.
func parseAmount(text string) (decimal.Decimal, string, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return decimal.Zero, "", domainerror.ErrInvalidAmount
	}

	raw := strings.ReplaceAll(fields[0], ",", ".")
	amount, err := decimal.NewFromString(raw)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, "", domainerror.ErrInvalidAmount
	}

	return amount, strings.Join(fields[1:], " "), nil
}

var dateLayouts = []string{"2006-01-02", "02.01.2006", "02/01/2006"}

// parseDate parses a calendar date. "none", "skip" and "-" mean no date.
func parseDate(text string) (*time.Time, error) {
	text = strings.TrimSpace(strings.ToLower(text))
	switch text {
	case "none", "skip", "-":
		return nil, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			return &t, nil
		}
	}
	return nil, domainerror.ErrInvalidDate
}

// parseDayOfMonth parses a 1..31 day anchor. "skip" and "-" mean no anchor.
func parseDayOfMonth(text string) (*int, error) {
	text = strings.TrimSpace(strings.ToLower(text))
	switch text {
	case "none", "skip", "-":
		return nil, nil
	}

	day, err := strconv.Atoi(text)
	if err != nil || day < 1 || day > 31 {
		return nil, domainerror.ErrInvalidAmount
	}
	return &day, nil
}
