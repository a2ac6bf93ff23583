package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
	"github.com/EmmaDeil/steps-ops-backend/pkg/database"
)

// LeaveAllocationRepository implements port.LeaveAllocationRepository over
// SQLite. One row per (employee, year).
type LeaveAllocationRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewLeaveAllocationRepository creates a new leave allocation repository.
func NewLeaveAllocationRepository(db *database.DB, logger *zap.Logger) port.LeaveAllocationRepository {
	return &LeaveAllocationRepository{db: db, logger: logger}
}

// Get retrieves the allocation row for an employee and year.
func (r *LeaveAllocationRepository) Get(ctx context.Context, employeeID string, year int) (*entity.LeaveAllocation, error) {
	query := `
		SELECT employee_id, year,
			annual_leave, annual_leave_used,
			sick_leave, sick_leave_used,
			personal_leave, personal_leave_used,
			created_at, updated_at
		FROM leave_allocations
		WHERE employee_id = ? AND year = ?
	`
	var alloc entity.LeaveAllocation
	err := r.db.Executor(ctx).QueryRowContext(ctx, query, employeeID, year).Scan(
		&alloc.EmployeeID, &alloc.Year,
		&alloc.AnnualLeave, &alloc.AnnualLeaveUsed,
		&alloc.SickLeave, &alloc.SickLeaveUsed,
		&alloc.PersonalLeave, &alloc.PersonalLeaveUsed,
		&alloc.CreatedAt, &alloc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, port.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get leave allocation",
			zap.String("employee_id", employeeID), zap.Int("year", year), zap.Error(err))
		return nil, fmt.Errorf("failed to get leave allocation: %w", err)
	}
	return &alloc, nil
}

// Upsert writes the granted counters for an (employee, year) row, leaving
// used counters untouched when the row already exists.
func (r *LeaveAllocationRepository) Upsert(ctx context.Context, alloc *entity.LeaveAllocation) error {
	query := `
		INSERT INTO leave_allocations (
			employee_id, year, annual_leave, sick_leave, personal_leave,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, year) DO UPDATE SET
			annual_leave = excluded.annual_leave,
			sick_leave = excluded.sick_leave,
			personal_leave = excluded.personal_leave,
			updated_at = excluded.updated_at
	`
	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		alloc.EmployeeID, alloc.Year, alloc.AnnualLeave, alloc.SickLeave,
		alloc.PersonalLeave, alloc.CreatedAt, alloc.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to upsert leave allocation",
			zap.String("employee_id", alloc.EmployeeID), zap.Int("year", alloc.Year), zap.Error(err))
		return fmt.Errorf("failed to upsert leave allocation: %w", err)
	}
	return nil
}

// AddUsage atomically adds days to the used counter for the leave type. The
// column name is derived from a fixed mapping, never from input.
func (r *LeaveAllocationRepository) AddUsage(ctx context.Context, employeeID string, year int, leaveType string, days int) error {
	var column string
	switch leaveType {
	case entity.LeaveTypeAnnual:
		column = "annual_leave_used"
	case entity.LeaveTypeSick:
		column = "sick_leave_used"
	case entity.LeaveTypePersonal:
		column = "personal_leave_used"
	default:
		return fmt.Errorf("leave type %q has no allocation counter", leaveType)
	}

	query := fmt.Sprintf(
		`UPDATE leave_allocations SET %s = %s + ?, updated_at = CURRENT_TIMESTAMP WHERE employee_id = ? AND year = ?`,
		column, column)
	result, err := r.db.Executor(ctx).ExecContext(ctx, query, days, employeeID, year)
	if err != nil {
		r.logger.Error("Failed to add leave usage",
			zap.String("employee_id", employeeID), zap.Int("year", year), zap.Error(err))
		return fmt.Errorf("failed to add leave usage: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return port.ErrNotFound
	}
	return nil
}

var _ port.LeaveAllocationRepository = (*LeaveAllocationRepository)(nil)
