package dto

import (
	"encoding/json"
	"testing"
)

func TestToFlowUpdate(t *testing.T) {
	t.Run("text message", func(t *testing.T) {
		body := `{
			"update_id": 7,
			"message": {
				"message_id": 12,
				"from": {"id": 55, "username": "tester"},
				"chat": {"id": 100},
				"text": "/start"
			}
		}`
		var req UpdateRequest
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}

		upd, ok := req.ToFlowUpdate()
		if !ok {
			t.Fatal("expected an actionable update")
		}
		if upd.ChatID != 100 || upd.Text != "/start" || upd.Username != "tester" {
			t.Errorf("update = %+v", upd)
		}
		if upd.InteractionID != "" {
			t.Errorf("text update should carry no interaction id, got %q", upd.InteractionID)
		}
	})

	t.Run("button press", func(t *testing.T) {
		body := `{
			"update_id": 8,
			"callback_query": {
				"id": "cb-99",
				"from": {"id": 55, "username": "tester"},
				"data": "new_expense",
				"message": {"message_id": 12, "chat": {"id": 100}}
			}
		}`
		var req UpdateRequest
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}

		upd, ok := req.ToFlowUpdate()
		if !ok {
			t.Fatal("expected an actionable update")
		}
		if upd.InteractionID != "cb-99" || upd.Data != "new_expense" {
			t.Errorf("update = %+v", upd)
		}
		if upd.ChatID != 100 || upd.MessageID != 12 {
			t.Errorf("chat routing = chat %d message %d", upd.ChatID, upd.MessageID)
		}
	})

	t.Run("empty updates are dropped", func(t *testing.T) {
		cases := map[string]UpdateRequest{
			"nothing set":              {},
			"message without text":     {Message: &Message{Chat: Chat{ID: 1}}},
			"callback without message": {CallbackQuery: &CallbackQuery{ID: "x", Data: "y"}},
		}
		for name, req := range cases {
			if _, ok := req.ToFlowUpdate(); ok {
				t.Errorf("%s: should not be actionable", name)
			}
		}
	})
}
