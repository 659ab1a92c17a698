package punches

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const columns = `id, tenant_id, user_id, type, ts, latitude, longitude, accuracy, photo_url, verification_skipped, synced`

func (r *SQLiteRepository) Save(ctx context.Context, e *models.TimeEntry) error {
	var lat, lon, acc sql.NullFloat64
	if e.Location != nil {
		lat = sql.NullFloat64{Float64: e.Location.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: e.Location.Longitude, Valid: true}
		acc = sql.NullFloat64{Float64: e.Location.Accuracy, Valid: true}
	}

	query := `INSERT INTO punches (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET tenant_id = excluded.tenant_id,
			user_id = excluded.user_id,
			type = excluded.type,
			ts = excluded.ts,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			accuracy = excluded.accuracy,
			photo_url = excluded.photo_url,
			verification_skipped = excluded.verification_skipped,
			synced = excluded.synced`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.TenantID, e.UserID, string(e.Type), dbx.FormatTime(e.Timestamp),
		lat, lon, acc, e.PhotoURL, e.VerificationSkipped, e.Synced)
	if err != nil {
		return fmt.Errorf("failed to save punch: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListUnsynced(ctx context.Context, tenantID string) ([]models.TimeEntry, error) {
	query := `SELECT ` + columns + ` FROM punches WHERE tenant_id = ? AND synced = 0 ORDER BY seq`
	return r.list(ctx, query, tenantID)
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, scope models.Scope) ([]models.TimeEntry, error) {
	query := `SELECT ` + columns + ` FROM punches WHERE tenant_id = ? AND user_id = ? ORDER BY ts, seq`
	return r.list(ctx, query, scope.TenantID, scope.UserID)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if err := dbx.ExecOne(ctx, r.db, `UPDATE punches SET synced = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to mark punch %s synced: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if err := dbx.ExecOne(ctx, r.db, `DELETE FROM punches WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete punch %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select punches: %w", err)
	}
	defer rows.Close()

	var result []models.TimeEntry
	for rows.Next() {
		var (
			e             models.TimeEntry
			typ, ts       string
			lat, lon, acc sql.NullFloat64
		)
		if err := rows.Scan(&e.ID, &e.TenantID, &e.UserID, &typ, &ts, &lat, &lon, &acc,
			&e.PhotoURL, &e.VerificationSkipped, &e.Synced); err != nil {
			return nil, err
		}
		e.Type = models.PunchType(typ)
		if e.Timestamp, err = dbx.ParseTime(ts); err != nil {
			return nil, err
		}
		if lat.Valid && lon.Valid {
			e.Location = &models.Location{Latitude: lat.Float64, Longitude: lon.Float64, Accuracy: acc.Float64}
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
