package flow

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestInMemorySessionStore(t *testing.T) {
	base := time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)

	newStore := func(idle time.Duration, now *time.Time) *InMemorySessionStore {
		s := NewInMemorySessionStore(idle)
		s.now = func() time.Time { return *now }
		return s
	}

	t.Run("save and get round-trip", func(t *testing.T) {
		now := base
		s := newStore(30*time.Minute, &now)
		userID := uuid.New()

		s.Save(&Session{UserID: userID, ChatID: 1, Step: AwaitingGoalName{}})

		sess, ok := s.Get(userID)
		if !ok {
			t.Fatal("session should exist")
		}
		if _, isStep := sess.Step.(AwaitingGoalName); !isStep {
			t.Errorf("step = %T, want AwaitingGoalName", sess.Step)
		}
	})

	t.Run("idle session expires on access", func(t *testing.T) {
		now := base
		s := newStore(30*time.Minute, &now)
		userID := uuid.New()

		s.Save(&Session{UserID: userID, ChatID: 1, Step: AwaitingGoalName{}})
		now = base.Add(31 * time.Minute)

		if _, ok := s.Get(userID); ok {
			t.Error("expired session should be treated as absent")
		}
	})

	t.Run("saving refreshes the idle clock", func(t *testing.T) {
		now := base
		s := newStore(30*time.Minute, &now)
		userID := uuid.New()

		s.Save(&Session{UserID: userID, ChatID: 1, Step: AwaitingGoalName{}})
		now = base.Add(20 * time.Minute)
		sess, ok := s.Get(userID)
		if !ok {
			t.Fatal("session should still be alive")
		}
		s.Save(sess)

		now = base.Add(45 * time.Minute)
		if _, ok := s.Get(userID); !ok {
			t.Error("refreshed session should survive past the original deadline")
		}
	})

	t.Run("zero idle timeout disables expiry", func(t *testing.T) {
		now := base
		s := newStore(0, &now)
		userID := uuid.New()

		s.Save(&Session{UserID: userID, ChatID: 1, Step: AwaitingFeedback{}})
		now = base.Add(1000 * time.Hour)

		if _, ok := s.Get(userID); !ok {
			t.Error("session should never expire with a zero timeout")
		}
	})

	t.Run("delete is a no-op for missing sessions", func(t *testing.T) {
		now := base
		s := newStore(time.Hour, &now)
		s.Delete(uuid.New())
	})

	t.Run("sweep drops only idle sessions", func(t *testing.T) {
		now := base
		s := newStore(time.Hour, &now)
		stale := uuid.New()
		fresh := uuid.New()

		s.Save(&Session{UserID: stale, ChatID: 1, Step: AwaitingGoalName{}})
		now = base.Add(40 * time.Minute)
		s.Save(&Session{UserID: fresh, ChatID: 2, Step: AwaitingGoalName{}})

		dropped := s.Sweep(base.Add(30 * time.Minute))
		if dropped != 1 {
			t.Errorf("dropped = %d, want 1", dropped)
		}
		if _, ok := s.Get(stale); ok {
			t.Error("stale session should be gone")
		}
		if _, ok := s.Get(fresh); !ok {
			t.Error("fresh session should survive the sweep")
		}
	})

	t.Run("user lock is stable per user", func(t *testing.T) {
		now := base
		s := newStore(time.Hour, &now)
		userID := uuid.New()

		if s.UserLock(userID) != s.UserLock(userID) {
			t.Error("the same user should always get the same lock")
		}
		if s.UserLock(userID) == s.UserLock(uuid.New()) {
			t.Error("different users should get different locks")
		}
	})
}

func TestParseHelpers(t *testing.T) {
	t.Run("amount with trailing description", func(t *testing.T) {
		amount, description, err := parseAmount("450,50 lunch with team")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if amount.String() != "450.5" {
			t.Errorf("amount = %s, want 450.5", amount)
		}
		if description != "lunch with team" {
			t.Errorf("description = %q", description)
		}
	})

	t.Run("bare amount", func(t *testing.T) {
		amount, description, err := parseAmount("100")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if amount.String() != "100" || description != "" {
			t.Errorf("got %s %q", amount, description)
		}
	})

	t.Run("rejects non-positive and garbage", func(t *testing.T) {
		for _, raw := range []string{"0", "-5", "abc", "", "lunch 450"} {
			if _, _, err := parseAmount(raw); err == nil {
				t.Errorf("parseAmount(%q) should fail", raw)
			}
		}
	})

	t.Run("date parsing", func(t *testing.T) {
		d, err := parseDate("2025-12-31")
		if err != nil || d == nil {
			t.Fatalf("parse: %v", err)
		}
		want := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
		if !d.Equal(want) {
			t.Errorf("date = %v, want %v", d, want)
		}

		if _, err := parseDate("31.12.2025 extra"); err == nil {
			t.Error("trailing garbage should fail")
		}
	})

	t.Run("day of month bounds", func(t *testing.T) {
		d, err := parseDayOfMonth("31")
		if err != nil || d == nil || *d != 31 {
			t.Fatalf("got %v, %v", d, err)
		}
		for _, raw := range []string{"0", "32", "x"} {
			if _, err := parseDayOfMonth(raw); err == nil {
				t.Errorf("parseDayOfMonth(%q) should fail", raw)
			}
		}
	})
}
