package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/mood-tracker/internal/domain"
)

// fakeEntryRepo is an in-memory MoodEntryRepository mirroring the Postgres
// behavior the service relies on, including the unique (user, day) constraint.
type fakeEntryRepo struct {
	entries []*domain.MoodEntry
	now     func() time.Time
}

func newFakeEntryRepo(now func() time.Time) *fakeEntryRepo {
	return &fakeEntryRepo{now: now}
}

func (f *fakeEntryRepo) Create(_ context.Context, entry *domain.MoodEntry) error {
	for _, existing := range f.entries {
		if existing.UserID == entry.UserID && existing.EntryDate == entry.EntryDate {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		}
	}
	entry.ID = uuid.NewString()
	entry.CreatedAt = f.now()
	entry.UpdatedAt = entry.CreatedAt
	stored := *entry
	f.entries = append(f.entries, &stored)
	return nil
}

func (f *fakeEntryRepo) Update(_ context.Context, entry *domain.MoodEntry) error {
	for _, existing := range f.entries {
		if existing.ID == entry.ID && existing.UserID == entry.UserID {
			existing.Mood = entry.Mood
			existing.Note = entry.Note
			existing.UpdatedAt = f.now()
			entry.UpdatedAt = existing.UpdatedAt
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeEntryRepo) Delete(_ context.Context, userID, id string) error {
	for i, existing := range f.entries {
		if existing.ID == id && existing.UserID == userID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeEntryRepo) GetOwned(_ context.Context, userID, id string) (*domain.MoodEntry, error) {
	for _, existing := range f.entries {
		if existing.ID == id && existing.UserID == userID {
			copied := *existing
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeEntryRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]domain.MoodEntry, error) {
	var owned []domain.MoodEntry
	for _, existing := range f.entries {
		if existing.UserID == userID {
			owned = append(owned, *existing)
		}
	}
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	if offset >= len(owned) {
		return nil, nil
	}
	owned = owned[offset:]
	if limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

func (f *fakeEntryRepo) CountByUser(_ context.Context, userID string) (int, error) {
	count := 0
	for _, existing := range f.entries {
		if existing.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeEntryRepo) ExistsOnDate(_ context.Context, userID, entryDate string) (bool, error) {
	for _, existing := range f.entries {
		if existing.UserID == userID && existing.EntryDate == entryDate {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEntryRepo) CountByMoodSince(_ context.Context, userID string, since time.Time) (map[domain.Mood]int, error) {
	counts := make(map[domain.Mood]int)
	for _, existing := range f.entries {
		if existing.UserID == userID && !existing.CreatedAt.Before(since) {
			counts[existing.Mood]++
		}
	}
	return counts, nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users []*domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.users = append(f.users, &stored)
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	for _, existing := range f.users {
		if existing.ID == user.ID {
			existing.Email = user.Email
			existing.PasswordHash = user.PasswordHash
			existing.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, existing := range f.users {
		if existing.ID == id {
			copied := *existing
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, email) {
			copied := *existing
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}
