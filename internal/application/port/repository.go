package port

import (
	"context"
	"errors"
	"time"

	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a conditional write matched zero rows,
	// meaning the record's status changed since it was loaded.
	ErrConflict = errors.New("conditional update matched no rows")
)

// TransactionManager runs a function within a database transaction. The
// transaction is carried on the context; repositories pick it up
// transparently.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// StageDecision describes which approval stage acted and how, for the
// repositories that stamp per-stage comment and timestamp columns.
type StageDecision struct {
	Stage    string // "manager" or "hr"
	Approved bool
	Comments string
	At       time.Time
}

// LeaveRequestRepository persists leave requests. All status-changing writes
// are conditional on the expected prior status and return ErrConflict when
// zero rows match.
type LeaveRequestRepository interface {
	Create(ctx context.Context, req *entity.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*entity.LeaveRequest, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.LeaveRequest, error)
	ApplyDecision(ctx context.Context, id, fromStatus, toStatus string, decision StageDecision) error
}

// TravelRequestRepository persists travel requests.
type TravelRequestRepository interface {
	Create(ctx context.Context, req *entity.TravelRequest) error
	GetByID(ctx context.Context, id string) (*entity.TravelRequest, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.TravelRequest, error)
	ApplyDecision(ctx context.Context, id, fromStatus, toStatus string, decision StageDecision) error
	SetBooked(ctx context.Context, id, fromStatus, toStatus string, details entity.BookingDetails) error
	SetStatus(ctx context.Context, id, fromStatus, toStatus string, at time.Time) error
}

// MaterialRequestRepository persists material requests.
type MaterialRequestRepository interface {
	Create(ctx context.Context, req *entity.MaterialRequest) error
	GetByID(ctx context.Context, id string) (*entity.MaterialRequest, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.MaterialRequest, error)
	Approve(ctx context.Context, id, fromStatus, toStatus, comments string, at time.Time) error
	Reject(ctx context.Context, id, fromStatus, toStatus, reason string, at time.Time) error
}

// PurchaseOrderRepository persists purchase orders.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, poNumber string) (*entity.PurchaseOrder, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error)
	Review(ctx context.Context, poNumber, fromStatus, toStatus string, lineItems []entity.POLineItem, totalAmount float64, vendor string, deliveryDate *time.Time, at time.Time) error
	MarkPaid(ctx context.Context, poNumber, fromStatus, toStatus string, paidDate time.Time) error
	SetStatus(ctx context.Context, poNumber, fromStatus, toStatus string, at time.Time) error
}

// PolicyRepository persists policies and their append-only version history.
type PolicyRepository interface {
	Create(ctx context.Context, p *entity.Policy) error
	GetByID(ctx context.Context, id string) (*entity.Policy, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Policy, error)
	SetStatus(ctx context.Context, id, fromStatus, toStatus string, at time.Time) error
	SetApproved(ctx context.Context, id, fromStatus, toStatus, approvedBy string, at time.Time) error

	// Version ledger operations. Callers compose these inside a transaction
	// to preserve the single-Current invariant. UpdateDocumentPointer is
	// conditional on the expected current version, like every status write:
	// zero matched rows means a concurrent rotation won and yields
	// ErrConflict.
	GetVersion(ctx context.Context, policyID, version string) (*entity.PolicyVersion, error)
	ArchiveVersions(ctx context.Context, policyID string) error
	InsertVersion(ctx context.Context, v *entity.PolicyVersion) error
	UpdateDocumentPointer(ctx context.Context, policyID, fromVersion, toVersion, documentURL, documentName string, at time.Time) error
}

// LeaveAllocationRepository persists per-employee, per-year leave balances.
type LeaveAllocationRepository interface {
	Get(ctx context.Context, employeeID string, year int) (*entity.LeaveAllocation, error)
	Upsert(ctx context.Context, alloc *entity.LeaveAllocation) error

	// AddUsage atomically adds days to the used counter for the leave type.
	// Returns ErrNotFound when no allocation row exists for (employee, year).
	AddUsage(ctx context.Context, employeeID string, year int, leaveType string, days int) error
}

// SequenceRepository hands out monotonically increasing values for formatted
// identifiers. Next is atomic: concurrent callers never observe the same
// value.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

// AuditRepository persists the audit trail.
type AuditRepository interface {
	Record(ctx context.Context, rec *entity.AuditRecord) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditRecord, error)
}

// EmployeeRepository reads employee reference data.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
	ListByRole(ctx context.Context, role string) ([]*entity.Employee, error)
}
