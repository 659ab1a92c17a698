package leaves

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/common"
	"github.com/dmitrijs2005/punchkeeper/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const columns = `id, tenant_id, user_id, leave_type, start_date, end_date, days, reason, status, created_at, synced`

func (r *SQLiteRepository) Save(ctx context.Context, l *models.LeaveRequest) error {
	query := `INSERT INTO leave_requests (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET leave_type = excluded.leave_type,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			days = excluded.days,
			reason = excluded.reason,
			status = excluded.status,
			synced = excluded.synced`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.TenantID, l.UserID, string(l.Type), l.StartDate, l.EndDate, l.Days,
		l.Reason, string(l.Status), dbx.FormatTime(l.CreatedAt), l.Synced)
	if err != nil {
		return fmt.Errorf("failed to save leave request: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.LeaveRequest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM leave_requests WHERE id = ?`, id)
	l, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get leave request %s: %w", id, err)
	}
	return l, nil
}

func (r *SQLiteRepository) ListUnsynced(ctx context.Context, tenantID string) ([]models.LeaveRequest, error) {
	return r.list(ctx, `SELECT `+columns+` FROM leave_requests WHERE tenant_id = ? AND synced = 0 ORDER BY seq`, tenantID)
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, scope models.Scope) ([]models.LeaveRequest, error) {
	return r.list(ctx, `SELECT `+columns+` FROM leave_requests WHERE tenant_id = ? AND user_id = ? ORDER BY seq`,
		scope.TenantID, scope.UserID)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if err := dbx.ExecOne(ctx, r.db, `UPDATE leave_requests SET synced = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to mark leave request %s synced: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) ReplaceID(ctx context.Context, oldID, newID string) error {
	if err := dbx.ExecOne(ctx, r.db, `UPDATE leave_requests SET id = ? WHERE id = ?`, newID, oldID); err != nil {
		return fmt.Errorf("failed to confirm leave request %s: %w", oldID, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if err := dbx.ExecOne(ctx, r.db, `DELETE FROM leave_requests WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete leave request %s: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.LeaveRequest, error) {
	var (
		l                  models.LeaveRequest
		typ, status, creat string
	)
	if err := s.Scan(&l.ID, &l.TenantID, &l.UserID, &typ, &l.StartDate, &l.EndDate, &l.Days,
		&l.Reason, &status, &creat, &l.Synced); err != nil {
		return nil, err
	}
	l.Type = models.LeaveType(typ)
	l.Status = models.RequestStatus(status)
	created, err := dbx.ParseTime(creat)
	if err != nil {
		return nil, err
	}
	l.CreatedAt = created
	return &l, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.LeaveRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select leave requests: %w", err)
	}
	defer rows.Close()

	var result []models.LeaveRequest
	for rows.Next() {
		l, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
