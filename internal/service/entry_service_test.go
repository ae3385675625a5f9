package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/mood-tracker/internal/domain"
	"github.com/spec-kit/mood-tracker/internal/events"
	apperrors "github.com/spec-kit/mood-tracker/pkg/util/errorutil"
)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time {
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestEntryService(loc *time.Location) (*EntryService, *fakeEntryRepo, *testClock) {
	clock := &testClock{t: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
	repo := newFakeEntryRepo(clock.Now)
	svc := NewEntryService(EntryDependencies{
		EntryRepo:  repo,
		Dispatcher: events.NewInMemoryDispatcher(),
		Location:   loc,
	})
	svc.now = clock.Now
	return svc, repo, clock
}

func domainErrCode(t *testing.T, err error) string {
	t.Helper()
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	return domainErr.Code
}

func TestCreateEntry(t *testing.T) {
	svc, _, _ := newTestEntryService(time.UTC)

	entry, err := svc.Create(context.Background(), "user-1", domain.MoodHappy, "good day")
	require.NoError(t, err)

	assert.Equal(t, domain.MoodHappy, entry.Mood)
	assert.Equal(t, "good day", entry.Note)
	assert.Equal(t, "2026-01-15", entry.EntryDate)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.Equal(t, entry.CreatedAt, entry.UpdatedAt)
}

func TestCreateEntryDuplicateSameDay(t *testing.T) {
	svc, _, _ := newTestEntryService(time.UTC)

	_, err := svc.Create(context.Background(), "user-1", domain.MoodHappy, "")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "user-1", domain.MoodSad, "")
	require.Error(t, err)
	assert.Equal(t, "DUPLICATE_ENTRY", domainErrCode(t, err))
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestCreateEntryNextDaySucceeds(t *testing.T) {
	svc, _, clock := newTestEntryService(time.UTC)

	_, err := svc.Create(context.Background(), "user-1", domain.MoodHappy, "")
	require.NoError(t, err)

	clock.Advance(24 * time.Hour)
	entry, err := svc.Create(context.Background(), "user-1", domain.MoodOkay, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-16", entry.EntryDate)
}

func TestCreateEntryValidation(t *testing.T) {
	longNote := make([]byte, domain.MaxNoteLength+1)
	for i := range longNote {
		longNote[i] = 'x'
	}

	tests := []struct {
		name string
		mood domain.Mood
		note string
	}{
		{"invalid mood", domain.Mood("Euphoric"), ""},
		{"empty mood", domain.Mood(""), ""},
		{"note too long", domain.MoodHappy, string(longNote)},
		{"multibyte note too long", domain.MoodHappy, strings.Repeat("é", domain.MaxNoteLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestEntryService(time.UTC)

			_, err := svc.Create(context.Background(), "user-1", tt.mood, tt.note)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))

			count, _ := repo.CountByUser(context.Background(), "user-1")
			assert.Zero(t, count, "no row must be written on validation failure")
		})
	}
}

func TestCreateEntryMultibyteNoteAtLimit(t *testing.T) {
	svc, _, _ := newTestEntryService(time.UTC)

	// 150 runes but 300 bytes; the limit counts characters
	note := strings.Repeat("é", domain.MaxNoteLength)
	entry, err := svc.Create(context.Background(), "user-1", domain.MoodHappy, note)
	require.NoError(t, err)
	assert.Equal(t, note, entry.Note)
}

func TestCreateEntryReferenceTimezone(t *testing.T) {
	// 23:30 UTC is already the next day in UTC+10; the calendar day must come
	// from the configured reference timezone.
	loc := time.FixedZone("UTC+10", 10*3600)
	svc, _, clock := newTestEntryService(loc)
	clock.t = time.Date(2026, 1, 15, 23, 30, 0, 0, time.UTC)

	entry, err := svc.Create(context.Background(), "user-1", domain.MoodOkay, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-16", entry.EntryDate)
}

func TestCreateEntryLosesRaceToUniqueConstraint(t *testing.T) {
	svc, repo, clock := newTestEntryService(time.UTC)

	// Simulate a concurrent create committing between the existence check and
	// the insert: the row exists but the pre-check did not see it.
	race := &raceEntryRepo{fakeEntryRepo: repo}
	svc.entries = race

	_, err := svc.Create(context.Background(), "user-1", domain.MoodHappy, "")
	require.NoError(t, err)

	clock.Advance(time.Second)
	_, err = svc.Create(context.Background(), "user-1", domain.MoodSad, "")
	require.Error(t, err)
	assert.Equal(t, "DUPLICATE_ENTRY", domainErrCode(t, err))
}

type raceEntryRepo struct {
	*fakeEntryRepo
}

func (r *raceEntryRepo) ExistsOnDate(context.Context, string, string) (bool, error) {
	return false, nil
}

func TestUpdateEntry(t *testing.T) {
	svc, _, clock := newTestEntryService(time.UTC)

	created, err := svc.Create(context.Background(), "user-1", domain.MoodHappy, "good day")
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	updated, err := svc.Update(context.Background(), "user-1", created.ID, domain.MoodSad, "")
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, domain.MoodSad, updated.Mood)
	assert.Empty(t, updated.Note)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.CreatedAt))
}

func TestUpdateEntryValidation(t *testing.T) {
	svc, _, _ := newTestEntryService(time.UTC)

	created, err := svc.Create(context.Background(), "user-1", domain.MoodHappy, "")
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "user-1", created.ID, domain.Mood("Grumpy"), "")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))

	unchanged, err := svc.entries.GetOwned(context.Background(), "user-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MoodHappy, unchanged.Mood)
}

func TestUpdateAndDeleteNotOwnedIndistinguishableFromMissing(t *testing.T) {
	svc, _, _ := newTestEntryService(time.UTC)

	created, err := svc.Create(context.Background(), "user-1", domain.MoodHappy, "")
	require.NoError(t, err)

	_, notOwnedErr := svc.Update(context.Background(), "user-2", created.ID, domain.MoodSad, "")
	_, missingErr := svc.Update(context.Background(), "user-2", "no-such-id", domain.MoodSad, "")
	require.Error(t, notOwnedErr)
	require.Error(t, missingErr)
	assert.Equal(t, domainErrCode(t, missingErr), domainErrCode(t, notOwnedErr))
	assert.Equal(t, "NOT_FOUND", domainErrCode(t, notOwnedErr))

	notOwnedDelete := svc.Delete(context.Background(), "user-2", created.ID)
	missingDelete := svc.Delete(context.Background(), "user-2", "no-such-id")
	assert.Equal(t, domainErrCode(t, missingDelete), domainErrCode(t, notOwnedDelete))
}

func TestDeleteEntry(t *testing.T) {
	svc, repo, _ := newTestEntryService(time.UTC)

	created, err := svc.Create(context.Background(), "user-1", domain.MoodHappy, "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "user-1", created.ID))

	count, _ := repo.CountByUser(context.Background(), "user-1")
	assert.Zero(t, count)
}

func seedEntries(t *testing.T, svc *EntryService, clock *testClock, userID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := svc.Create(context.Background(), userID, domain.MoodOkay, "")
		require.NoError(t, err)
		clock.Advance(24 * time.Hour)
	}
}

func TestListEntriesPagination(t *testing.T) {
	svc, _, clock := newTestEntryService(time.UTC)
	seedEntries(t, svc, clock, "user-1", 15)

	page, err := svc.List(context.Background(), "user-1", 2, 10)
	require.NoError(t, err)

	assert.Len(t, page.Entries, 5)
	assert.Equal(t, 15, page.TotalCount)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 2, page.TotalPages)
}

func TestListEntriesOrderAndDefaults(t *testing.T) {
	svc, _, clock := newTestEntryService(time.UTC)
	seedEntries(t, svc, clock, "user-1", 12)

	page, err := svc.List(context.Background(), "user-1", 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Entries, 10)
	for i := 1; i < len(page.Entries); i++ {
		assert.True(t, page.Entries[i-1].CreatedAt.After(page.Entries[i].CreatedAt),
			"entries must be ordered most recent first")
	}
}

func TestListEntriesOutOfRangePage(t *testing.T) {
	svc, _, clock := newTestEntryService(time.UTC)
	seedEntries(t, svc, clock, "user-1", 3)

	page, err := svc.List(context.Background(), "user-1", 9, 10)
	require.NoError(t, err)
	assert.NotNil(t, page.Entries)
	assert.Empty(t, page.Entries)
	assert.Equal(t, 3, page.TotalCount)
}

func TestListEntriesScopedToOwner(t *testing.T) {
	svc, _, clock := newTestEntryService(time.UTC)
	seedEntries(t, svc, clock, "user-1", 4)
	seedEntries(t, svc, clock, "user-2", 2)

	page, err := svc.List(context.Background(), "user-1", 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Entries, 4)
	for _, entry := range page.Entries {
		assert.Equal(t, "user-1", entry.UserID)
	}
}

func TestListEntriesReturnsServerToday(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	svc, _, clock := newTestEntryService(loc)
	clock.t = time.Date(2026, 1, 15, 23, 30, 0, 0, time.UTC)

	page, err := svc.List(context.Background(), "user-1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-16", page.Today)
}

func TestAnalyticsCountsTrailingWeek(t *testing.T) {
	svc, _, clock := newTestEntryService(time.UTC)

	// 2 entries inside the window, 1 outside.
	_, err := svc.Create(context.Background(), "user-1", domain.MoodHappy, "")
	require.NoError(t, err)
	clock.Advance(3 * 24 * time.Hour)
	_, err = svc.Create(context.Background(), "user-1", domain.MoodHappy, "")
	require.NoError(t, err)
	clock.Advance(5 * 24 * time.Hour)
	_, err = svc.Create(context.Background(), "user-1", domain.MoodSad, "")
	require.NoError(t, err)

	analytics, err := svc.Analytics(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Len(t, analytics.MoodCounts, 4)
	assert.Equal(t, 1, analytics.MoodCounts[domain.MoodHappy])
	assert.Equal(t, 1, analytics.MoodCounts[domain.MoodSad])
	assert.Equal(t, 0, analytics.MoodCounts[domain.MoodAngry])
	assert.Equal(t, 0, analytics.MoodCounts[domain.MoodOkay])

	sum := 0
	for _, count := range analytics.MoodCounts {
		sum += count
	}
	assert.Equal(t, 2, sum, "sum equals entries within the trailing 7 days")
}

func TestAnalyticsEmpty(t *testing.T) {
	svc, _, _ := newTestEntryService(time.UTC)

	analytics, err := svc.Analytics(context.Background(), "user-1")
	require.NoError(t, err)

	for _, mood := range domain.AllMoods() {
		count, ok := analytics.MoodCounts[mood]
		assert.True(t, ok, "every mood key must be present")
		assert.Zero(t, count)
	}
}

func TestEntryEventsPublished(t *testing.T) {
	svc, _, _ := newTestEntryService(time.UTC)

	var seen []events.EventType
	dispatcher := events.NewInMemoryDispatcher()
	handler := func(_ context.Context, event events.Event) error {
		seen = append(seen, event.Type)
		return nil
	}
	dispatcher.Subscribe(events.EventEntryCreated, handler)
	dispatcher.Subscribe(events.EventEntryUpdated, handler)
	dispatcher.Subscribe(events.EventEntryDeleted, handler)
	svc.dispatcher = dispatcher

	entry, err := svc.Create(context.Background(), "user-1", domain.MoodHappy, "")
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), "user-1", entry.ID, domain.MoodSad, "")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), "user-1", entry.ID))

	assert.Equal(t, []events.EventType{
		events.EventEntryCreated,
		events.EventEntryUpdated,
		events.EventEntryDeleted,
	}, seen)
}
