package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/memodeck/backend/internal/domain/review"
)

// ============================================================================
// Review stats
//
// The scheduler's concurrency contract lives here: outcome recording is one
// UPDATE with in-place increments, and record creation is an upsert, so
// concurrent requests for the same (user, card) never lose an increment and
// racing picks converge on a single row.
// ============================================================================

// FindStats returns the existing stats rows for userID over cardIDs in a
// single batched query. Cards without a row are simply absent from the
// result.
func (s *SQLiteStore) FindStats(ctx context.Context, userID string, cardIDs []string) ([]review.Stats, error) {
	if len(cardIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		"SELECT * FROM review_stats WHERE user_id = ? AND card_id IN (?)", userID, cardIDs)
	if err != nil {
		return nil, err
	}

	var stats []review.Stats
	if err := s.db.SelectContext(ctx, &stats, query, args...); err != nil {
		return nil, err
	}
	return stats, nil
}

// CreateStatsIfAbsent inserts a zeroed stats row for (userID, cardID) unless
// one exists, then returns the current row. LastSeen stays unset until the
// first outcome is recorded.
func (s *SQLiteStore) CreateStatsIfAbsent(ctx context.Context, userID, cardID string) (review.Stats, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_stats (user_id, card_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, card_id) DO NOTHING`,
		userID, cardID, time.Now(),
	)
	if err != nil {
		return review.Stats{}, err
	}

	var st review.Stats
	err = s.db.GetContext(ctx, &st,
		"SELECT * FROM review_stats WHERE user_id = ? AND card_id = ?", userID, cardID)
	if err != nil {
		return review.Stats{}, err
	}
	return st, nil
}

// RecordOutcome applies one review result as a single atomic statement.
// Returns ErrNotFound when no stats row exists; the row is created by the
// pick path, never here.
func (s *SQLiteStore) RecordOutcome(ctx context.Context, userID, cardID string, outcome review.Outcome) error {
	var result sql.Result
	var err error

	switch outcome {
	case review.OutcomeSuccess:
		result, err = s.db.ExecContext(ctx, `
			UPDATE review_stats
			SET success_count = success_count + 1,
			    consecutive_fails = 0,
			    last_seen = ?
			WHERE user_id = ? AND card_id = ?`,
			time.Now(), userID, cardID,
		)
	case review.OutcomeFailure:
		result, err = s.db.ExecContext(ctx, `
			UPDATE review_stats
			SET fail_count = fail_count + 1,
			    consecutive_fails = consecutive_fails + 1,
			    last_seen = ?
			WHERE user_id = ? AND card_id = ?`,
			time.Now(), userID, cardID,
		)
	default:
		return fmt.Errorf("unknown outcome %q", outcome)
	}
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetStats returns the stats row for one (user, card) pair.
func (s *SQLiteStore) GetStats(ctx context.Context, userID, cardID string) (review.Stats, error) {
	var st review.Stats
	err := s.db.GetContext(ctx, &st,
		"SELECT * FROM review_stats WHERE user_id = ? AND card_id = ?", userID, cardID)
	if errors.Is(err, sql.ErrNoRows) {
		return review.Stats{}, ErrNotFound
	}
	if err != nil {
		return review.Stats{}, err
	}
	return st, nil
}

// PruneOrphanStats deletes stats rows whose card or user is gone. The
// scheduler never deletes stats itself; this is the janitor's cleanup for
// anything cascade deletion missed.
func (s *SQLiteStore) PruneOrphanStats(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM review_stats
		WHERE card_id NOT IN (SELECT id FROM cards)
		   OR user_id NOT IN (SELECT id FROM users)`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
