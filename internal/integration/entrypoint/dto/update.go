// Package dto defines the wire payloads accepted by the webhook endpoint.
package dto

import "github.com/finance-assistant/bot/internal/application/flow"

// Chat identifies the conversation an update belongs to.
type Chat struct {
	ID int64 `json:"id"`
}

// From identifies the sender of a message or button press.
type From struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Message is one typed chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *From  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

// CallbackQuery is one inline button press. Message is the message carrying
// the keyboard that was pressed.
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    *From    `json:"from"`
	Data    string   `json:"data"`
	Message *Message `json:"message"`
}

// UpdateRequest is the webhook body delivered by the chat platform. Exactly
// one of Message or CallbackQuery is set per update.
type UpdateRequest struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

// ToFlowUpdate normalizes the wire payload into the engine's update shape.
// Returns false when the update carries nothing the engine can act on.
func (r *UpdateRequest) ToFlowUpdate() (flow.Update, bool) {
	if r.CallbackQuery != nil && r.CallbackQuery.Message != nil {
		upd := flow.Update{
			ChatID:        r.CallbackQuery.Message.Chat.ID,
			MessageID:     r.CallbackQuery.Message.MessageID,
			InteractionID: r.CallbackQuery.ID,
			Data:          r.CallbackQuery.Data,
		}
		if r.CallbackQuery.From != nil {
			upd.Username = r.CallbackQuery.From.Username
		}
		return upd, true
	}

	if r.Message != nil && r.Message.Text != "" {
		upd := flow.Update{
			ChatID:    r.Message.Chat.ID,
			MessageID: r.Message.MessageID,
			Text:      r.Message.Text,
		}
		if r.Message.From != nil {
			upd.Username = r.Message.From.Username
		}
		return upd, true
	}

	return flow.Update{}, false
}
