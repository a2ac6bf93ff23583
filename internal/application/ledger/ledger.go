// Package ledger tracks leave allocation versus usage per employee per year.
// Usage is applied exactly once, on HR final approval of a non-unpaid leave
// request; the year is taken from the request's fromDate.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
)

// ErrAllocationNotFound is returned when no allocation row exists for the
// (employee, year) pair a deduction targets.
var ErrAllocationNotFound = errors.New("leave allocation not found")

// Ledger applies leave usage to allocation records.
type Ledger struct {
	allocations port.LeaveAllocationRepository
	logger      *zap.Logger
}

// New creates a leave-balance ledger.
func New(allocations port.LeaveAllocationRepository, logger *zap.Logger) *Ledger {
	return &Ledger{allocations: allocations, logger: logger}
}

// ApplyUsage adds days to the used counter of the matching leave type.
// Unpaid leave is a no-op: it never touches the ledger.
//
// The underlying update is a single atomic increment; there is no
// read-modify-write window. Usage exceeding the granted amount is not
// rejected here — that matches the long-standing behavior of the system and
// is reported by Balance for callers that care.
func (l *Ledger) ApplyUsage(ctx context.Context, employeeID string, year int, leaveType string, days int) error {
	if leaveType == entity.LeaveTypeUnpaid {
		return nil
	}
	if days <= 0 {
		return fmt.Errorf("ledger: days must be positive, got %d", days)
	}

	err := l.allocations.AddUsage(ctx, employeeID, year, leaveType, days)
	if errors.Is(err, port.ErrNotFound) {
		return fmt.Errorf("%w: employee %s year %d", ErrAllocationNotFound, employeeID, year)
	}
	if err != nil {
		return fmt.Errorf("ledger: apply usage: %w", err)
	}

	l.logger.Info("Leave usage applied",
		zap.String("employee_id", employeeID),
		zap.Int("year", year),
		zap.String("leave_type", leaveType),
		zap.Int("days", days))
	return nil
}

// Grant provisions (or replaces) the allocation row for an employee/year.
// Used counters are preserved when the row already exists.
func (l *Ledger) Grant(ctx context.Context, employeeID string, year, annual, sick, personal int) (*entity.LeaveAllocation, error) {
	now := time.Now()
	alloc := &entity.LeaveAllocation{
		EmployeeID:    employeeID,
		Year:          year,
		AnnualLeave:   annual,
		SickLeave:     sick,
		PersonalLeave: personal,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := l.allocations.Upsert(ctx, alloc); err != nil {
		return nil, fmt.Errorf("ledger: grant: %w", err)
	}
	return l.Balance(ctx, employeeID, year)
}

// Balance returns the allocation row for an employee/year.
func (l *Ledger) Balance(ctx context.Context, employeeID string, year int) (*entity.LeaveAllocation, error) {
	alloc, err := l.allocations.Get(ctx, employeeID, year)
	if errors.Is(err, port.ErrNotFound) {
		return nil, fmt.Errorf("%w: employee %s year %d", ErrAllocationNotFound, employeeID, year)
	}
	if err != nil {
		return nil, err
	}
	return alloc, nil
}
