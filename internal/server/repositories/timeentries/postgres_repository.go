// Package timeentries stores punches in PostgreSQL.
package timeentries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/common"
	"github.com/dmitrijs2005/punchkeeper/internal/dbx"
	"github.com/dmitrijs2005/punchkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const columns = `id, tenant_id, user_id, type, ts, latitude, longitude, accuracy, photo_url, verification_skipped, created_at`

func (r *PostgresRepository) Insert(ctx context.Context, e *models.TimeEntry) (bool, error) {
	query := `
		INSERT INTO time_entries (id, tenant_id, user_id, type, ts, latitude, longitude, accuracy, photo_url, verification_skipped)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		e.ID, e.TenantID, e.UserID, string(e.Type), e.Timestamp.UTC(),
		e.Latitude, e.Longitude, e.Accuracy, e.PhotoURL, e.VerificationSkipped)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) Get(ctx context.Context, tenantID, id string) (*models.TimeEntry, error) {
	query := `SELECT ` + columns + ` FROM time_entries WHERE tenant_id = $1 AND id = $2`

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, tenantID, userID string, from, to time.Time) ([]*models.TimeEntry, error) {
	query := `SELECT ` + columns + ` FROM time_entries
		WHERE tenant_id = $1 AND user_id = $2
		AND ($3::timestamptz IS NULL OR ts >= $3)
		AND ($4::timestamptz IS NULL OR ts < $4)
		ORDER BY ts, created_at
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID, userID, bound(from), bound(to))
	if err != nil {
		return nil, fmt.Errorf("failed to select time entries: %w", err)
	}
	defer rows.Close()

	var result []*models.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.TimeEntry, error) {
	var (
		e     models.TimeEntry
		typ   string
		photo sql.NullString
	)
	if err := s.Scan(&e.ID, &e.TenantID, &e.UserID, &typ, &e.Timestamp,
		&e.Latitude, &e.Longitude, &e.Accuracy, &photo, &e.VerificationSkipped, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Type = models.PunchType(typ)
	e.PhotoURL = photo.String
	return &e, nil
}

func bound(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
