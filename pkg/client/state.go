package client

import (
	"time"

	"github.com/spec-kit/mood-tracker/internal/domain"
)

// DashboardState tracks the mood form on the dashboard: whether today's
// entry already exists (submit becomes an update instead of a create), the
// pending mood and note, and the in-flight flag.
type DashboardState struct {
	TodayEntry *Entry
	Mood       domain.Mood
	Note       string
	InFlight   bool
}

// NewDashboardState inspects the first page of recent entries for one logged
// today. The server-provided Today value is authoritative; the entry's
// created_at converted to location is only a fallback for older servers that
// do not send it, and can disagree with the server near midnight.
func NewDashboardState(list *EntryList, location *time.Location) DashboardState {
	state := DashboardState{}
	if list == nil {
		return state
	}

	today := list.Today
	if today == "" && location != nil {
		today = time.Now().In(location).Format("2006-01-02")
	}

	for i := range list.Entries {
		entry := &list.Entries[i]
		if entryDay(entry, location) == today {
			state.TodayEntry = entry
			state.Mood = entry.Mood
			state.Note = entry.Note
			break
		}
	}
	return state
}

func entryDay(entry *Entry, location *time.Location) string {
	if entry.EntryDate != "" {
		return entry.EntryDate
	}
	if location == nil {
		location = time.Local
	}
	return entry.CreatedAt.In(location).Format("2006-01-02")
}

// Paginator derives navigation availability for the history view.
type Paginator struct {
	CurrentPage int
	TotalPages  int
}

// NewPaginator builds a paginator from a listing response.
func NewPaginator(list *EntryList) Paginator {
	if list == nil {
		return Paginator{CurrentPage: 1}
	}
	return Paginator{CurrentPage: list.CurrentPage, TotalPages: list.TotalPages}
}

// HasPrevious reports whether the previous-page control is enabled.
func (p Paginator) HasPrevious() bool {
	return p.CurrentPage > 1
}

// HasNext reports whether the next-page control is enabled.
func (p Paginator) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// AnalyticsSummary presents the trailing 7-day counts for display. HasData is
// false when every count is zero so the view can render a placeholder.
type AnalyticsSummary struct {
	Counts     map[domain.Mood]int
	CommonMood domain.Mood
	HasData    bool
}

// NewAnalyticsSummary derives the display summary from an analytics response.
func NewAnalyticsSummary(analytics *Analytics) AnalyticsSummary {
	summary := AnalyticsSummary{Counts: map[domain.Mood]int{}}
	for _, mood := range domain.AllMoods() {
		if analytics != nil {
			summary.Counts[mood] = analytics.MoodCounts[mood]
		} else {
			summary.Counts[mood] = 0
		}
	}
	summary.CommonMood, summary.HasData = MostCommonMood(summary.Counts)
	return summary
}

// MostCommonMood returns the mood with the maximum count. Ties break by the
// canonical mood order; an all-zero result reports no common mood so the
// view can render a placeholder.
func MostCommonMood(counts map[domain.Mood]int) (domain.Mood, bool) {
	var best domain.Mood
	bestCount := 0
	for _, mood := range domain.AllMoods() {
		if counts[mood] > bestCount {
			best = mood
			bestCount = counts[mood]
		}
	}
	if bestCount == 0 {
		return "", false
	}
	return best, true
}
