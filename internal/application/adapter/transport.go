// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "context"

// Button is one inline keyboard button. Data is the opaque callback payload
// delivered back through the webhook when the button is pressed.
type Button struct {
	Label string
	Data  string
}

// Keyboard is an inline keyboard layout, row-major.
type Keyboard struct {
	Rows [][]Button
}

// NewKeyboard builds a keyboard from rows of buttons.
func NewKeyboard(rows ...[]Button) *Keyboard {
	return &Keyboard{Rows: rows}
}

// Transport delivers messages to the chat. Calls are fire-and-log: the flow
// engine never assumes success beyond receiving a message id to edit later.
type Transport interface {
	// SendMessage sends a fresh message and returns its id.
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *Keyboard) (int64, error)

	// EditMessage rewrites an existing message in place.
	EditMessage(ctx context.Context, chatID, messageID int64, text string, keyboard *Keyboard) error

	// AnswerInteraction acknowledges a button press so the client stops
	// showing a spinner.
	AnswerInteraction(ctx context.Context, interactionID string) error
}
