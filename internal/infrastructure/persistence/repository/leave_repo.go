package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
	"github.com/EmmaDeil/steps-ops-backend/pkg/database"
)

// LeaveRequestRepository implements port.LeaveRequestRepository over SQLite.
type LeaveRequestRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewLeaveRequestRepository creates a new leave request repository.
func NewLeaveRequestRepository(db *database.DB, logger *zap.Logger) port.LeaveRequestRepository {
	return &LeaveRequestRepository{db: db, logger: logger}
}

const leaveColumns = `
	id, employee_id, manager_id, leave_type, from_date, to_date, days, reason,
	status, manager_comments, manager_approved_at, manager_rejected_at,
	hr_comments, hr_approved_at, hr_rejected_at, created_at, updated_at
`

// Create inserts a new leave request.
func (r *LeaveRequestRepository) Create(ctx context.Context, req *entity.LeaveRequest) error {
	query := `
		INSERT INTO leave_requests (
			id, employee_id, manager_id, leave_type, from_date, to_date, days,
			reason, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		req.ID, req.EmployeeID, req.ManagerID, req.LeaveType,
		req.FromDate, req.ToDate, req.Days, req.Reason,
		req.Status, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create leave request", zap.String("id", req.ID), zap.Error(err))
		return fmt.Errorf("failed to create leave request: %w", err)
	}
	return nil
}

// GetByID retrieves a leave request by id.
func (r *LeaveRequestRepository) GetByID(ctx context.Context, id string) (*entity.LeaveRequest, error) {
	query := `SELECT ` + leaveColumns + ` FROM leave_requests WHERE id = ?`
	req, err := scanLeaveRequest(r.db.Executor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, port.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get leave request", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get leave request: %w", err)
	}
	return req, nil
}

// ListByStatus lists leave requests, newest first. Empty status lists all.
func (r *LeaveRequestRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.LeaveRequest, error) {
	query := `SELECT ` + leaveColumns + ` FROM leave_requests`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var reqs []*entity.LeaveRequest
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// ApplyDecision stamps one stage's comment and timestamp and flips the
// status, conditional on the expected prior status. Zero matched rows means
// the record moved on concurrently and yields port.ErrConflict.
func (r *LeaveRequestRepository) ApplyDecision(ctx context.Context, id, fromStatus, toStatus string, d port.StageDecision) error {
	var query string
	switch {
	case d.Stage == "manager" && d.Approved:
		query = `UPDATE leave_requests SET status = ?, manager_comments = ?, manager_approved_at = ?, updated_at = ? WHERE id = ? AND status = ?`
	case d.Stage == "manager":
		query = `UPDATE leave_requests SET status = ?, manager_comments = ?, manager_rejected_at = ?, updated_at = ? WHERE id = ? AND status = ?`
	case d.Stage == "hr" && d.Approved:
		query = `UPDATE leave_requests SET status = ?, hr_comments = ?, hr_approved_at = ?, updated_at = ? WHERE id = ? AND status = ?`
	case d.Stage == "hr":
		query = `UPDATE leave_requests SET status = ?, hr_comments = ?, hr_rejected_at = ?, updated_at = ? WHERE id = ? AND status = ?`
	default:
		return fmt.Errorf("unknown approval stage %q", d.Stage)
	}

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		toStatus, d.Comments, d.At, d.At, id, fromStatus)
	if err != nil {
		r.logger.Error("Failed to apply leave decision", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to apply leave decision: %w", err)
	}
	return requireRowMatch(result)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLeaveRequest(row rowScanner) (*entity.LeaveRequest, error) {
	var req entity.LeaveRequest
	var managerComments, hrComments sql.NullString
	var managerApprovedAt, managerRejectedAt, hrApprovedAt, hrRejectedAt sql.NullTime

	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.ManagerID, &req.LeaveType,
		&req.FromDate, &req.ToDate, &req.Days, &req.Reason,
		&req.Status, &managerComments, &managerApprovedAt, &managerRejectedAt,
		&hrComments, &hrApprovedAt, &hrRejectedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.ManagerComments = managerComments.String
	req.HRComments = hrComments.String
	req.ManagerApprovedAt = nullableTime(managerApprovedAt)
	req.ManagerRejectedAt = nullableTime(managerRejectedAt)
	req.HRApprovedAt = nullableTime(hrApprovedAt)
	req.HRRejectedAt = nullableTime(hrRejectedAt)
	return &req, nil
}

// requireRowMatch converts a zero-row conditional update into ErrConflict.
func requireRowMatch(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return port.ErrConflict
	}
	return nil
}

func nullableTime(t sql.NullTime) *time.Time {
	if t.Valid {
		return &t.Time
	}
	return nil
}

var _ port.LeaveRequestRepository = (*LeaveRequestRepository)(nil)
