package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/mood-tracker/internal/domain"
	"github.com/spec-kit/mood-tracker/internal/events"
	"github.com/spec-kit/mood-tracker/internal/repository"
	apperrors "github.com/spec-kit/mood-tracker/pkg/util/errorutil"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	entryDateFormat = "2006-01-02"
)

// EntryService coordinates the mood entry lifecycle: one entry per calendar
// day, paginated history and the trailing 7-day analytics window.
type EntryService struct {
	entries    repository.MoodEntryRepository
	dispatcher events.Dispatcher
	location   *time.Location
	now        func() time.Time
}

// EntryDependencies bundles requirements for the entry service.
type EntryDependencies struct {
	EntryRepo  repository.MoodEntryRepository
	Dispatcher events.Dispatcher
	Location   *time.Location
}

// EntryPage is the paginated listing result. Today carries the server-derived
// calendar day so clients never re-derive it from timestamps in their own
// timezone.
type EntryPage struct {
	Entries     []domain.MoodEntry
	TotalCount  int
	CurrentPage int
	TotalPages  int
	Today       string
}

// WeeklyAnalytics holds per-mood counts over the trailing 7 days. MoodCounts
// always contains all four mood keys.
type WeeklyAnalytics struct {
	MoodCounts map[domain.Mood]int
	Today      string
}

// NewEntryService constructs the service. Location is the reference timezone
// for computing calendar days; nil falls back to UTC.
func NewEntryService(deps EntryDependencies) *EntryService {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &EntryService{
		entries:    deps.EntryRepo,
		dispatcher: deps.Dispatcher,
		location:   loc,
		now:        time.Now,
	}
}

// Create records a mood entry for today. A second create on the same calendar
// day fails; the existence pre-check gives the friendly message while the
// unique constraint on (user_id, entry_date) closes the check-then-insert race.
func (s *EntryService) Create(ctx context.Context, userID string, mood domain.Mood, note string) (*domain.MoodEntry, error) {
	if err := validateEntryInput(mood, note); err != nil {
		return nil, err
	}

	today := s.todayString()
	exists, err := s.entries.ExistsOnDate(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewDuplicateEntry("you have already logged your mood for today; edit your existing entry instead")
	}

	entry := &domain.MoodEntry{
		UserID:    userID,
		Mood:      mood,
		Note:      note,
		EntryDate: today,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewDuplicateEntry("you have already logged your mood for today; edit your existing entry instead")
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventEntryCreated,
		EntryID: entry.ID,
		UserID:  userID,
		Payload: events.EntryCreatedPayload{
			Mood:      entry.Mood,
			EntryDate: entry.EntryDate,
		},
	})
	return entry, nil
}

// List returns a page of the user's entries, most recent first. Out-of-range
// pages yield an empty slice, not an error.
func (s *EntryService) List(ctx context.Context, userID string, page, pageSize int) (*EntryPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	offset := (page - 1) * pageSize
	entries, err := s.entries.ListByUser(ctx, userID, pageSize, offset)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.MoodEntry{}
	}

	total, err := s.entries.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &EntryPage{
		Entries:     entries,
		TotalCount:  total,
		CurrentPage: page,
		TotalPages:  (total + pageSize - 1) / pageSize,
		Today:       s.todayString(),
	}, nil
}

// Update overwrites mood and note of an owned entry, refreshing updated_at.
// A missing entry and one owned by another user are reported identically.
func (s *EntryService) Update(ctx context.Context, userID, id string, mood domain.Mood, note string) (*domain.MoodEntry, error) {
	if err := validateEntryInput(mood, note); err != nil {
		return nil, err
	}

	entry, err := s.entries.GetOwned(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("mood entry", nil)
		}
		return nil, err
	}

	oldMood := entry.Mood
	entry.Mood = mood
	entry.Note = note
	if err := s.entries.Update(ctx, entry); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("mood entry", nil)
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventEntryUpdated,
		EntryID: entry.ID,
		UserID:  userID,
		Payload: events.EntryUpdatedPayload{
			OldMood: oldMood,
			NewMood: entry.Mood,
		},
	})
	return entry, nil
}

// Delete permanently removes an owned entry.
func (s *EntryService) Delete(ctx context.Context, userID, id string) error {
	entry, err := s.entries.GetOwned(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("mood entry", nil)
		}
		return err
	}

	if err := s.entries.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("mood entry", nil)
		}
		return err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventEntryDeleted,
		EntryID: entry.ID,
		UserID:  userID,
		Payload: events.EntryDeletedPayload{
			Mood:      entry.Mood,
			EntryDate: entry.EntryDate,
		},
	})
	return nil
}

// Analytics counts the user's entries per mood for created_at >= now-7d.
// Every mood key is present; absent moods count zero.
func (s *EntryService) Analytics(ctx context.Context, userID string) (*WeeklyAnalytics, error) {
	since := s.now().Add(-7 * 24 * time.Hour)
	counts, err := s.entries.CountByMoodSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	result := make(map[domain.Mood]int, len(domain.AllMoods()))
	for _, mood := range domain.AllMoods() {
		result[mood] = counts[mood]
	}
	return &WeeklyAnalytics{MoodCounts: result, Today: s.todayString()}, nil
}

func (s *EntryService) todayString() string {
	return s.now().In(s.location).Format(entryDateFormat)
}

func validateEntryInput(mood domain.Mood, note string) error {
	details := map[string]any{}
	if !mood.IsValid() {
		details["mood"] = "invalid mood selection"
	}
	// character count, not bytes; multibyte notes must not be penalized
	if utf8.RuneCountInString(note) > domain.MaxNoteLength {
		details["note"] = "note must be 150 characters or less"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid mood entry", details)
	}
	return nil
}

func (s *EntryService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
