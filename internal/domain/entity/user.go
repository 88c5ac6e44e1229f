// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents a chat user known to the assistant.
// The chat id is the identity delivered by the transport; everything else
// in the system hangs off the internal uuid.
type User struct {
	ID        uuid.UUID
	ChatID    int64
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser creates a new User entity for a chat id seen for the first time.
func NewUser(chatID int64, username string) *User {
	now := time.Now().UTC()

	return &User{
		ID:        uuid.New(),
		ChatID:    chatID,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
