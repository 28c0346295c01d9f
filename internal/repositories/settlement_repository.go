package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/utils"
	"github.com/google/uuid"
)

// ErrWarningNotFound is returned when no journal entry has the given id.
var ErrWarningNotFound = errors.New("settlement warning not found")

// SettlementRepository is the journal of loyalty operations that failed after a sale was recorded.
type SettlementRepository interface {
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, warning *models.SettlementWarning) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SettlementWarning, error)
	ListOpen(ctx context.Context, limit int) ([]*models.SettlementWarning, int, error)
	// MarkResolved flips an open entry to resolved. It returns ErrWarningNotFound
	// when no open entry matched, so only one caller can win it.
	MarkResolved(ctx context.Context, id uuid.UUID) error
	Reopen(ctx context.Context, id uuid.UUID) error
}

type settlementRepository struct {
	DB *sql.DB
}

func NewSettlementRepo(db *sql.DB) SettlementRepository {
	return &settlementRepository{DB: db}
}

const settlementSchema = `
	CREATE TABLE IF NOT EXISTS settlement_warnings (
		id UUID PRIMARY KEY,
		sale_number TEXT NOT NULL,
		card_number TEXT NOT NULL,
		operation TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		reason TEXT NOT NULL,
		resolved BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		resolved_at TIMESTAMPTZ
	)
`

func (r *settlementRepository) EnsureSchema(ctx context.Context) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if _, err := r.DB.ExecContext(dbCtx, settlementSchema); err != nil {
		return fmt.Errorf("failed to create settlement_warnings table: %w", err)
	}

	return nil
}

func (r *settlementRepository) Create(ctx context.Context, warning *models.SettlementWarning) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if warning.ID == uuid.Nil {
		warning.ID = uuid.New()
	}

	query := `
		INSERT INTO settlement_warnings (id, sale_number, card_number, operation, amount, reason, resolved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, NOW())
		RETURNING created_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, warning.ID, warning.SaleNumber, warning.CardNumber, warning.Operation, warning.Amount, warning.Reason).Scan(&warning.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record settlement warning: %w", err)
	}

	return nil
}

func (r *settlementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SettlementWarning, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, sale_number, card_number, operation, amount, reason, resolved, created_at, resolved_at
		FROM settlement_warnings
		WHERE id = $1
	`

	warning, err := scanWarning(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWarningNotFound
		}

		return nil, fmt.Errorf("failed to get settlement warning: %w", err)
	}

	return warning, nil
}

func (r *settlementRepository) ListOpen(ctx context.Context, limit int) ([]*models.SettlementWarning, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM settlement_warnings WHERE resolved = FALSE`
	if err := r.DB.QueryRowContext(dbCtx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count settlement warnings: %w", err)
	}

	query := `
		SELECT id, sale_number, card_number, operation, amount, reason, resolved, created_at, resolved_at
		FROM settlement_warnings
		WHERE resolved = FALSE
		ORDER BY created_at ASC
		LIMIT $1
	`

	rows, err := r.DB.QueryContext(dbCtx, query, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list settlement warnings: %w", err)
	}
	defer rows.Close()

	warnings := make([]*models.SettlementWarning, 0, limit)

	for rows.Next() {
		warning, err := scanWarning(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan settlement warning: %w", err)
		}

		warnings = append(warnings, warning)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate settlement warnings: %w", err)
	}

	return warnings, total, nil
}

func (r *settlementRepository) MarkResolved(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE settlement_warnings
		SET resolved = TRUE, resolved_at = $1
		WHERE id = $2 AND resolved = FALSE
	`

	result, err := r.DB.ExecContext(dbCtx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to resolve settlement warning: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return ErrWarningNotFound
	}

	return nil
}

func (r *settlementRepository) Reopen(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE settlement_warnings
		SET resolved = FALSE, resolved_at = NULL
		WHERE id = $1 AND resolved = TRUE
	`

	result, err := r.DB.ExecContext(dbCtx, query, id)
	if err != nil {
		return fmt.Errorf("failed to reopen settlement warning: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return ErrWarningNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWarning(row rowScanner) (*models.SettlementWarning, error) {
	warning := &models.SettlementWarning{}

	var resolvedAt sql.NullTime

	err := row.Scan(&warning.ID, &warning.SaleNumber, &warning.CardNumber, &warning.Operation, &warning.Amount, &warning.Reason, &warning.Resolved, &warning.CreatedAt, &resolvedAt)
	if err != nil {
		return nil, err
	}

	if resolvedAt.Valid {
		warning.ResolvedAt = &resolvedAt.Time
	}

	return warning, nil
}
