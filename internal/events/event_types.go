package events

import (
	"time"

	"github.com/spec-kit/mood-tracker/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEntryCreated EventType = "entry_created"
	EventEntryUpdated EventType = "entry_updated"
	EventEntryDeleted EventType = "entry_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntryID   string      `json:"entry_id"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// EntryCreatedPayload payload.
type EntryCreatedPayload struct {
	Mood      domain.Mood `json:"mood"`
	EntryDate string      `json:"entry_date"`
}

// EntryUpdatedPayload payload.
type EntryUpdatedPayload struct {
	OldMood domain.Mood `json:"old_mood"`
	NewMood domain.Mood `json:"new_mood"`
}

// EntryDeletedPayload payload.
type EntryDeletedPayload struct {
	Mood      domain.Mood `json:"mood"`
	EntryDate string      `json:"entry_date"`
}
