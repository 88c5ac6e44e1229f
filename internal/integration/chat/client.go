// Package chat implements the adapter.Transport interface against a
// Telegram-style bot HTTP API.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/finance-assistant/bot/internal/application/adapter"
)

// Client talks to the chat platform over JSON HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a chat client. baseURL already carries the bot token,
// e.g. https://api.telegram.org/bot<token>.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type replyMarkup struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type sendMessageRequest struct {
	ChatID      int64        `json:"chat_id"`
	Text        string       `json:"text"`
	ReplyMarkup *replyMarkup `json:"reply_markup,omitempty"`
}

type editMessageRequest struct {
	ChatID      int64        `json:"chat_id"`
	MessageID   int64        `json:"message_id"`
	Text        string       `json:"text"`
	ReplyMarkup *replyMarkup `json:"reply_markup,omitempty"`
}

type answerCallbackRequest struct {
	CallbackQueryID string `json:"callback_query_id"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

type messageResult struct {
	MessageID int64 `json:"message_id"`
}

func markupFrom(keyboard *adapter.Keyboard) *replyMarkup {
	if keyboard == nil || len(keyboard.Rows) == 0 {
		return nil
	}

	rows := make([][]inlineButton, len(keyboard.Rows))
	for i, row := range keyboard.Rows {
		rows[i] = make([]inlineButton, len(row))
		for j, button := range row {
			rows[i][j] = inlineButton{Text: button.Label, CallbackData: button.Data}
		}
	}
	return &replyMarkup{InlineKeyboard: rows}
}

// SendMessage sends a fresh message and returns its id.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard *adapter.Keyboard) (int64, error) {
	body := sendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markupFrom(keyboard),
	}

	raw, err := c.call(ctx, "sendMessage", body)
	if err != nil {
		return 0, err
	}

	var result messageResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return 0, fmt.Errorf("decode sendMessage result: %w", err)
	}
	return result.MessageID, nil
}

// EditMessage rewrites an existing message in place.
func (c *Client) EditMessage(ctx context.Context, chatID, messageID int64, text string, keyboard *adapter.Keyboard) error {
	body := editMessageRequest{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ReplyMarkup: markupFrom(keyboard),
	}

	_, err := c.call(ctx, "editMessageText", body)
	return err
}

// AnswerInteraction acknowledges a button press.
func (c *Client) AnswerInteraction(ctx context.Context, interactionID string) error {
	_, err := c.call(ctx, "answerCallbackQuery", answerCallbackRequest{CallbackQueryID: interactionID})
	return err
}

func (c *Client) call(ctx context.Context, method string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", method, err)
	}

	url := c.baseURL + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}

	var api apiResponse
	if err := json.Unmarshal(raw, &api); err != nil {
		return nil, fmt.Errorf("decode %s response (status %d): %w", method, resp.StatusCode, err)
	}
	if !api.OK {
		return nil, fmt.Errorf("%s rejected (status %d): %s", method, resp.StatusCode, api.Description)
	}
	return api.Result, nil
}
