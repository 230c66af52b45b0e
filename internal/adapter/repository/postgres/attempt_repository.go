package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/activegames/reservation/internal/core/domain"
)

// AttemptRepository persists the submission saga cursor. An attempt stays
// open (closed_at NULL) until the submission finishes, so a retry after a
// capture failure can resume against the order it already created.
type AttemptRepository struct {
	db *sql.DB
}

func NewAttemptRepository(db *sql.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

func (r *AttemptRepository) Create(ctx context.Context, attempt *domain.SubmissionAttempt) error {
	query := `
	INSERT INTO submission_attempts (id, session_id, stage, order_id, reference, order_status, order_message, deposit_amount, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		attempt.ID,
		attempt.SessionID,
		attempt.Stage,
		attempt.OrderID,
		attempt.Reference,
		attempt.OrderStatus,
		attempt.OrderMessage,
		attempt.DepositAmount,
		attempt.CreatedAt,
		attempt.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert submission attempt: %w", err)
	}

	return nil
}

func (r *AttemptRepository) OpenBySession(ctx context.Context, sessionID uuid.UUID) (*domain.SubmissionAttempt, error) {
	query := `
	SELECT id, session_id, stage, order_id, reference, order_status, order_message, deposit_amount, created_at, updated_at, closed_at
	FROM submission_attempts
	WHERE session_id = $1 AND closed_at IS NULL
	ORDER BY created_at DESC
	LIMIT 1
	`

	var attempt domain.SubmissionAttempt
	var closedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&attempt.ID,
		&attempt.SessionID,
		&attempt.Stage,
		&attempt.OrderID,
		&attempt.Reference,
		&attempt.OrderStatus,
		&attempt.OrderMessage,
		&attempt.DepositAmount,
		&attempt.CreatedAt,
		&attempt.UpdatedAt,
		&closedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if closedAt.Valid {
		attempt.ClosedAt = &closedAt.Time
	}

	return &attempt, nil
}

func (r *AttemptRepository) SetStage(ctx context.Context, id uuid.UUID, stage domain.AttemptStage) error {
	query := `
	UPDATE submission_attempts
	SET stage = $1, updated_at = $2
	WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, stage, time.Now(), id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("submission attempt %s not found", id)
	}

	return nil
}

func (r *AttemptRepository) Close(ctx context.Context, id uuid.UUID) error {
	query := `
	UPDATE submission_attempts
	SET closed_at = $1, updated_at = $1
	WHERE id = $2 AND closed_at IS NULL
	`

	_, err := r.db.ExecContext(ctx, query, time.Now(), id)

	return err
}
