package data

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewWarning(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	w := NewWarning("7", "alice", "spam", "9", now, 90*24*time.Hour)

	if _, err := uuid.Parse(w.ID); err != nil {
		t.Fatalf("ID %q is not a uuid: %v", w.ID, err)
	}
	if w.GivenAt.Location() != time.UTC {
		t.Fatalf("given at %v is not UTC", w.GivenAt)
	}
	if want := time.Date(2026, 4, 1, 11, 0, 0, 0, time.UTC); !w.ExpiresAt.Equal(want) {
		t.Fatalf("expires at %v, want %v", w.ExpiresAt, want)
	}
	if other := NewWarning("7", "alice", "spam", "9", now, time.Hour); other.ID == w.ID {
		t.Fatal("warning IDs repeat")
	}
}
