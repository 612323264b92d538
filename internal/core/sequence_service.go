package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SequenceService allocates human-readable order numbers from a per-day
// counter. Uniqueness is enforced by the store, not by a random suffix: the
// upsert below is concurrency-safe because the conflicting row is locked for
// the duration of the caller's transaction.
type SequenceService interface {
	// NextOrderNumberTx allocates the next order number for the day of `at`
	// within the caller's TX, formatted as <prefix>-<YYMMDD>-<NNN>.
	NextOrderNumberTx(ctx context.Context, tx pgx.Tx, prefix string, at time.Time) (string, error)
}

type sequenceService struct {
	pool *pgxpool.Pool
}

func NewSequenceService(pool *pgxpool.Pool) SequenceService {
	return &sequenceService{pool: pool}
}

func (s *sequenceService) NextOrderNumberTx(ctx context.Context, tx pgx.Tx, prefix string, at time.Time) (string, error) {
	dayKey := at.Format("060102")

	var lastNumber int64
	err := tx.QueryRow(ctx, `
		INSERT INTO order_sequences (day_key, last_number)
		VALUES ($1, 1)
		ON CONFLICT (day_key)
		DO UPDATE SET last_number = order_sequences.last_number + 1
		RETURNING last_number
	`, dayKey).Scan(&lastNumber)
	if err != nil {
		return "", fmt.Errorf("failed to allocate order sequence for %s: %w", dayKey, err)
	}

	return fmt.Sprintf("%s-%s-%03d", prefix, dayKey, lastNumber), nil
}
