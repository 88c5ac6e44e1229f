package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finance-assistant/bot/internal/application/adapter"
)

func TestClientSendMessage(t *testing.T) {
	var gotPath string
	var gotBody sendMessageRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true, "result": {"message_id": 42}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	keyboard := adapter.NewKeyboard([]adapter.Button{{Label: "Expense", Data: "new_expense"}})

	id, err := client.SendMessage(context.Background(), 100, "hello", keyboard)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if id != 42 {
		t.Errorf("message id = %d, want 42", id)
	}
	if gotPath != "/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody.ChatID != 100 || gotBody.Text != "hello" {
		t.Errorf("body = %+v", gotBody)
	}
	if gotBody.ReplyMarkup == nil || gotBody.ReplyMarkup.InlineKeyboard[0][0].CallbackData != "new_expense" {
		t.Errorf("markup = %+v", gotBody.ReplyMarkup)
	}
}

func TestClientSendMessageWithoutKeyboard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if _, present := raw["reply_markup"]; present {
			t.Error("empty keyboard should be omitted from the payload")
		}
		w.Write([]byte(`{"ok": true, "result": {"message_id": 1}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	if _, err := client.SendMessage(context.Background(), 100, "hello", nil); err != nil {
		t.Fatalf("send: %v", err)
	}
}

func TestClientEditAndAnswer(t *testing.T) {
	paths := []string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"ok": true, "result": true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	if err := client.EditMessage(context.Background(), 100, 42, "edited", nil); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := client.AnswerInteraction(context.Background(), "cb-1"); err != nil {
		t.Fatalf("answer: %v", err)
	}

	if len(paths) != 2 || paths[0] != "/editMessageText" || paths[1] != "/answerCallbackQuery" {
		t.Errorf("paths = %v", paths)
	}
}

func TestClientSurfacesAPIRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok": false, "description": "chat not found"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	if _, err := client.SendMessage(context.Background(), 100, "hello", nil); err == nil {
		t.Fatal("rejected call should return an error")
	}
}
