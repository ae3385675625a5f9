package dto

import (
	"time"

	"github.com/spec-kit/mood-tracker/internal/domain"
)

// EntryRequest payload for create and update.
type EntryRequest struct {
	Mood domain.Mood `json:"mood"`
	Note string      `json:"note"`
}

// EntryResponse is the public view of a mood entry.
type EntryResponse struct {
	ID        string      `json:"id"`
	Mood      domain.Mood `json:"mood"`
	Note      string      `json:"note"`
	EntryDate string      `json:"entry_date"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// EntryListResponse is the paginated history view. Today is the calendar day
// in the server's reference timezone so clients never re-derive it locally.
type EntryListResponse struct {
	Entries     []EntryResponse `json:"entries"`
	TotalCount  int             `json:"totalCount"`
	CurrentPage int             `json:"currentPage"`
	TotalPages  int             `json:"totalPages"`
	Today       string          `json:"today"`
}

// EntryMutationResponse wraps a mutated entry with a confirmation message.
type EntryMutationResponse struct {
	Message string        `json:"message"`
	Entry   EntryResponse `json:"entry"`
}

// AnalyticsResponse reports per-mood counts for the trailing 7 days. All four
// mood keys are always present.
type AnalyticsResponse struct {
	MoodCounts map[domain.Mood]int `json:"moodCounts"`
	Today      string              `json:"today"`
}

// NewEntryResponse maps a domain entry.
func NewEntryResponse(entry *domain.MoodEntry) EntryResponse {
	return EntryResponse{
		ID:        entry.ID,
		Mood:      entry.Mood,
		Note:      entry.Note,
		EntryDate: entry.EntryDate,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
}
