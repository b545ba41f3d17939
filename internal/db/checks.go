package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"clicksafe/internal/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DefaultHistoryLimit caps ListChecks when the filter sets no limit.
const DefaultHistoryLimit = 50

// RecordCheck stores one evaluation and bumps its outcome counter in the
// same transaction.
func (d *DB) RecordCheck(ctx context.Context, c models.Check) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO checks (id, detector, input, verdict, kind, score, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.Detector, c.Input, c.Verdict, c.Kind, c.Score, c.Error, c.CreatedAt); err != nil {
		return fmt.Errorf("insert check: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO check_outcomes (detector, verdict, count, last_seen_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (detector, verdict) DO UPDATE
		SET count = check_outcomes.count + 1, last_seen_at = NOW()
	`, c.Detector, c.Verdict); err != nil {
		return fmt.Errorf("increment outcome: %w", err)
	}

	return tx.Commit(ctx)
}

// GetCheck returns one stored check.
func (d *DB) GetCheck(ctx context.Context, id uuid.UUID) (*models.Check, error) {
	var c models.Check
	err := d.Pool.QueryRow(ctx, `
		SELECT id, detector, input, verdict, kind, score, error, created_at
		FROM checks WHERE id = $1
	`, id).Scan(&c.ID, &c.Detector, &c.Input, &c.Verdict, &c.Kind, &c.Score, &c.Error, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCheckNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListChecks returns the newest checks matching filter.
func (d *DB) ListChecks(ctx context.Context, filter models.CheckFilter) ([]models.Check, error) {
	query, args, err := historyQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}

	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checks []models.Check
	for rows.Next() {
		var c models.Check
		if err := rows.Scan(&c.ID, &c.Detector, &c.Input, &c.Verdict, &c.Kind, &c.Score, &c.Error, &c.CreatedAt); err != nil {
			return nil, err
		}
		checks = append(checks, c)
	}
	return checks, rows.Err()
}

func historyQuery(filter models.CheckFilter) (string, []any, error) {
	q := psql.
		Select("id", "detector", "input", "verdict", "kind", "score", "error", "created_at").
		From("checks").
		OrderBy("created_at DESC")

	if filter.Detector != "" {
		q = q.Where(sq.Eq{"detector": filter.Detector})
	}
	if filter.Verdict != "" {
		q = q.Where(sq.Eq{"verdict": filter.Verdict})
	}
	if !filter.Since.IsZero() {
		q = q.Where(sq.GtOrEq{"created_at": filter.Since})
	}

	limit := filter.Limit
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	return q.Limit(limit).ToSql()
}

// GetAllCheckOutcomes returns all outcome counters for metrics export.
func (d *DB) GetAllCheckOutcomes(ctx context.Context) ([]models.CheckOutcome, error) {
	rows, err := d.Pool.Query(ctx, `SELECT detector, verdict, count, last_seen_at FROM check_outcomes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []models.CheckOutcome
	for rows.Next() {
		var o models.CheckOutcome
		if err := rows.Scan(&o.Detector, &o.Verdict, &o.Count, &o.LastSeenAt); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// DeleteChecksBefore removes history older than cutoff. Outcome counters
// are kept.
func (d *DB) DeleteChecksBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM checks WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
