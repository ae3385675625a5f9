package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/mood-tracker/internal/domain"
)

// MoodEntryRepository encapsulates mood entry persistence. Every query is
// scoped by owner; an entry belonging to another user behaves exactly like a
// missing one.
type MoodEntryRepository interface {
	Create(ctx context.Context, entry *domain.MoodEntry) error
	Update(ctx context.Context, entry *domain.MoodEntry) error
	Delete(ctx context.Context, userID, id string) error
	GetOwned(ctx context.Context, userID, id string) (*domain.MoodEntry, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.MoodEntry, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	ExistsOnDate(ctx context.Context, userID, entryDate string) (bool, error)
	CountByMoodSince(ctx context.Context, userID string, since time.Time) (map[domain.Mood]int, error)
}

type moodEntryRepository struct {
	pool *pgxpool.Pool
}

// NewMoodEntryRepository returns a Postgres-backed implementation.
func NewMoodEntryRepository(pool *pgxpool.Pool) MoodEntryRepository {
	return &moodEntryRepository{pool: pool}
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation, e.g. the one-entry-per-day constraint on mood_entries.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *moodEntryRepository) Create(ctx context.Context, entry *domain.MoodEntry) error {
	const query = `
        INSERT INTO mood_entries (user_id, mood, note, entry_date)
        VALUES ($1, $2, NULLIF($3, ''), $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		entry.UserID,
		entry.Mood,
		entry.Note,
		entry.EntryDate,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
}

func (r *moodEntryRepository) Update(ctx context.Context, entry *domain.MoodEntry) error {
	const query = `
        UPDATE mood_entries SET mood=$1, note=NULLIF($2, ''), updated_at=NOW()
        WHERE id=$3 AND user_id=$4
        RETURNING updated_at`

	if err := r.pool.QueryRow(ctx, query,
		entry.Mood,
		entry.Note,
		entry.ID,
		entry.UserID,
	).Scan(&entry.UpdatedAt); err != nil {
		return err
	}
	return nil
}

func (r *moodEntryRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM mood_entries WHERE id=$1 AND user_id=$2`

	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *moodEntryRepository) GetOwned(ctx context.Context, userID, id string) (*domain.MoodEntry, error) {
	const query = `
        SELECT id, user_id, mood, COALESCE(note, ''), entry_date::text, created_at, updated_at
        FROM mood_entries WHERE id=$1 AND user_id=$2`

	var entry domain.MoodEntry
	if err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Mood,
		&entry.Note,
		&entry.EntryDate,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *moodEntryRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.MoodEntry, error) {
	const query = `
        SELECT id, user_id, mood, COALESCE(note, ''), entry_date::text, created_at, updated_at
        FROM mood_entries WHERE user_id=$1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *moodEntryRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM mood_entries WHERE user_id=$1`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *moodEntryRepository) ExistsOnDate(ctx context.Context, userID, entryDate string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM mood_entries WHERE user_id=$1 AND entry_date=$2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, entryDate).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *moodEntryRepository) CountByMoodSince(ctx context.Context, userID string, since time.Time) (map[domain.Mood]int, error) {
	const query = `
        SELECT mood, COUNT(*)
        FROM mood_entries
        WHERE user_id=$1 AND created_at >= $2
        GROUP BY mood`

	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Mood]int)
	for rows.Next() {
		var mood domain.Mood
		var count int
		if err := rows.Scan(&mood, &count); err != nil {
			return nil, err
		}
		counts[mood] = count
	}
	return counts, rows.Err()
}

func scanEntries(rows pgx.Rows) ([]domain.MoodEntry, error) {
	var result []domain.MoodEntry
	for rows.Next() {
		var entry domain.MoodEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Mood,
			&entry.Note,
			&entry.EntryDate,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
