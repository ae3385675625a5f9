package domain

import "time"

// Mood enumerates the categories a user can log.
type Mood string

const (
	MoodHappy Mood = "Happy"
	MoodSad   Mood = "Sad"
	MoodAngry Mood = "Angry"
	MoodOkay  Mood = "Okay"
)

// MaxNoteLength bounds the optional note attached to an entry.
const MaxNoteLength = 150

// AllMoods lists every mood in its canonical order. Consumers that need a
// deterministic ordering (analytics tie-breaking, display) iterate this slice
// rather than a map.
func AllMoods() []Mood {
	return []Mood{MoodHappy, MoodSad, MoodAngry, MoodOkay}
}

// IsValid reports whether the mood is one of the four known categories.
func (m Mood) IsValid() bool {
	switch m {
	case MoodHappy, MoodSad, MoodAngry, MoodOkay:
		return true
	}
	return false
}

// MoodEntry is a single logged mood, owned by exactly one user. At most one
// entry exists per (user, calendar day); EntryDate carries the calendar day
// computed in the server's reference timezone.
type MoodEntry struct {
	ID        string
	UserID    string
	Mood      Mood
	Note      string
	EntryDate string
	CreatedAt time.Time
	UpdatedAt time.Time
}
