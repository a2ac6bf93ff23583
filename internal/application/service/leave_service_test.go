package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/ledger"
	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/internal/application/workflow"
	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
	domainwf "github.com/EmmaDeil/steps-ops-backend/internal/domain/workflow"
)

func pendingHRLeave() *entity.LeaveRequest {
	return &entity.LeaveRequest{
		ID:         "lr-1",
		EmployeeID: "emp-1",
		ManagerID:  "mgr-1",
		LeaveType:  entity.LeaveTypeAnnual,
		FromDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		ToDate:     time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		Days:       3,
		Status:     entity.LeaveStatusPendingHR,
	}
}

func newLeaveService(leaves *mockLeaveRepo, allocs *mockAllocationRepo, audits *mockAuditRepo, strict bool) (*LeaveService, *mockNotifier) {
	notifier := &mockNotifier{}
	hooks := newTestHooks(audits, &mockEmployeeRepo{}, notifier)
	ldg := ledger.New(allocs, zap.NewNop())
	svc := NewLeaveService(leaves, ldg, hooks, mockTx{}, strict, zap.NewNop())
	return svc, notifier
}

func TestLeaveService_Create(t *testing.T) {
	var created *entity.LeaveRequest
	leaves := &mockLeaveRepo{
		createFunc: func(ctx context.Context, req *entity.LeaveRequest) error {
			created = req
			return nil
		},
	}
	audits := &mockAuditRepo{}
	svc, _ := newLeaveService(leaves, &mockAllocationRepo{}, audits, true)

	in := CreateLeaveInput{
		EmployeeID: "emp-1",
		ManagerID:  "mgr-1",
		LeaveType:  entity.LeaveTypeAnnual,
		FromDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		ToDate:     time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		Days:       3,
		Reason:     "family visit",
	}
	req, err := svc.Create(context.Background(), in, entity.Actor{ID: "emp-1", Role: entity.RoleEmployee})
	require.NoError(t, err)

	assert.Equal(t, entity.LeaveStatusPendingManager, req.Status)
	assert.NotEmpty(t, req.ID)
	require.NotNil(t, created)
	assert.Equal(t, req.ID, created.ID)

	rec := audits.last()
	require.NotNil(t, rec)
	assert.Equal(t, "create", rec.Action)
	assert.Equal(t, entity.EntityTypeLeaveRequest, rec.EntityType)
}

func TestLeaveService_CreateValidation(t *testing.T) {
	svc, _ := newLeaveService(&mockLeaveRepo{}, &mockAllocationRepo{}, &mockAuditRepo{}, true)
	actor := entity.Actor{ID: "emp-1", Role: entity.RoleEmployee}
	base := CreateLeaveInput{
		EmployeeID: "emp-1",
		ManagerID:  "mgr-1",
		LeaveType:  entity.LeaveTypeAnnual,
		FromDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		ToDate:     time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		Days:       3,
	}

	tests := []struct {
		name   string
		mutate func(in *CreateLeaveInput)
	}{
		{"missing employee", func(in *CreateLeaveInput) { in.EmployeeID = "" }},
		{"missing manager", func(in *CreateLeaveInput) { in.ManagerID = "" }},
		{"unknown leave type", func(in *CreateLeaveInput) { in.LeaveType = "sabbatical" }},
		{"non-positive days", func(in *CreateLeaveInput) { in.Days = 0 }},
		{"dates reversed", func(in *CreateLeaveInput) { in.ToDate = in.FromDate.AddDate(0, 0, -1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), in, actor)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestLeaveService_ManagerApprove(t *testing.T) {
	var applied port.StageDecision
	var from, to string
	leaves := &mockLeaveRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.LeaveRequest, error) {
			req := pendingHRLeave()
			req.Status = entity.LeaveStatusPendingManager
			return req, nil
		},
		applyDecisionFunc: func(ctx context.Context, id, fromStatus, toStatus string, d port.StageDecision) error {
			from, to, applied = fromStatus, toStatus, d
			return nil
		},
	}
	audits := &mockAuditRepo{}
	svc, _ := newLeaveService(leaves, &mockAllocationRepo{}, audits, true)

	_, err := svc.ManagerDecision(context.Background(), "lr-1",
		entity.Actor{ID: "mgr-1", Role: entity.RoleManager}, true, "ok")
	require.NoError(t, err)

	assert.Equal(t, entity.LeaveStatusPendingManager, from)
	assert.Equal(t, entity.LeaveStatusPendingHR, to)
	assert.Equal(t, "manager", applied.Stage)
	assert.True(t, applied.Approved)

	rec := audits.last()
	require.NotNil(t, rec)
	assert.Equal(t, workflow.ActionManagerApprove.String(), rec.Action)
	assert.Equal(t, entity.AuditOutcomeSuccess, rec.Outcome)
}

func TestLeaveService_HRApprovePostsLedger(t *testing.T) {
	leaves := &mockLeaveRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.LeaveRequest, error) {
			return pendingHRLeave(), nil
		},
	}
	var usage struct {
		employeeID string
		year       int
		leaveType  string
		days       int
	}
	allocs := &mockAllocationRepo{
		addUsageFunc: func(ctx context.Context, employeeID string, year int, leaveType string, days int) error {
			usage.employeeID, usage.year, usage.leaveType, usage.days = employeeID, year, leaveType, days
			return nil
		},
	}
	svc, notifier := newLeaveService(leaves, allocs, &mockAuditRepo{}, true)

	_, err := svc.HRDecision(context.Background(), "lr-1",
		entity.Actor{ID: "hr-1", Role: entity.RoleHR}, true, "")
	require.NoError(t, err)

	assert.Equal(t, "emp-1", usage.employeeID)
	assert.Equal(t, 2026, usage.year)
	assert.Equal(t, entity.LeaveTypeAnnual, usage.leaveType)
	assert.Equal(t, 3, usage.days)
	assert.Len(t, notifier.sent, 1)
}

func TestLeaveService_HRApproveUnpaidSkipsLedger(t *testing.T) {
	leaves := &mockLeaveRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.LeaveRequest, error) {
			req := pendingHRLeave()
			req.LeaveType = entity.LeaveTypeUnpaid
			return req, nil
		},
	}
	ledgerTouched := false
	allocs := &mockAllocationRepo{
		addUsageFunc: func(ctx context.Context, employeeID string, year int, leaveType string, days int) error {
			ledgerTouched = true
			return nil
		},
	}
	svc, _ := newLeaveService(leaves, allocs, &mockAuditRepo{}, true)

	_, err := svc.HRDecision(context.Background(), "lr-1",
		entity.Actor{ID: "hr-1", Role: entity.RoleHR}, true, "")
	require.NoError(t, err)
	assert.False(t, ledgerTouched, "unpaid leave must not touch the ledger")
}

func TestLeaveService_HRRejectSkipsLedger(t *testing.T) {
	leaves := &mockLeaveRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.LeaveRequest, error) {
			return pendingHRLeave(), nil
		},
	}
	ledgerTouched := false
	allocs := &mockAllocationRepo{
		addUsageFunc: func(ctx context.Context, employeeID string, year int, leaveType string, days int) error {
			ledgerTouched = true
			return nil
		},
	}
	svc, _ := newLeaveService(leaves, allocs, &mockAuditRepo{}, true)

	_, err := svc.HRDecision(context.Background(), "lr-1",
		entity.Actor{ID: "hr-1", Role: entity.RoleHR}, false, "headcount freeze")
	require.NoError(t, err)
	assert.False(t, ledgerTouched, "rejection must not touch the ledger")
}

// Strict mode: a missing allocation row fails the whole approval.
func TestLeaveService_HRApproveStrictLedgerFailure(t *testing.T) {
	leaves := &mockLeaveRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.LeaveRequest, error) {
			return pendingHRLeave(), nil
		},
	}
	allocs := &mockAllocationRepo{
		addUsageFunc: func(ctx context.Context, employeeID string, year int, leaveType string, days int) error {
			return port.ErrNotFound
		},
	}
	svc, _ := newLeaveService(leaves, allocs, &mockAuditRepo{}, true)

	_, err := svc.HRDecision(context.Background(), "lr-1",
		entity.Actor{ID: "hr-1", Role: entity.RoleHR}, true, "")
	assert.ErrorIs(t, err, ErrDependencyFailure)
}

// Legacy mode: the approval stands, the miss lands in the audit trail.
func TestLeaveService_HRApproveLegacyLedgerFailure(t *testing.T) {
	decisionApplied := false
	leaves := &mockLeaveRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.LeaveRequest, error) {
			return pendingHRLeave(), nil
		},
		applyDecisionFunc: func(ctx context.Context, id, fromStatus, toStatus string, d port.StageDecision) error {
			decisionApplied = true
			return nil
		},
	}
	allocs := &mockAllocationRepo{
		addUsageFunc: func(ctx context.Context, employeeID string, year int, leaveType string, days int) error {
			return port.ErrNotFound
		},
	}
	audits := &mockAuditRepo{}
	svc, _ := newLeaveService(leaves, allocs, audits, false)

	_, err := svc.HRDecision(context.Background(), "lr-1",
		entity.Actor{ID: "hr-1", Role: entity.RoleHR}, true, "")
	require.NoError(t, err)
	assert.True(t, decisionApplied)

	failures, err := audits.ListByEntity(context.Background(), entity.EntityTypeLeaveRequest, "lr-1")
	require.NoError(t, err)
	var sawFailure bool
	for _, rec := range failures {
		if rec.Outcome == entity.AuditOutcomeFailure {
			sawFailure = true
		}
	}
	assert.True(t, sawFailure, "ledger miss must leave a failure audit record")
}

// A concurrent decision makes the conditional update match zero rows; the
// caller sees an invalid transition, not a conflict leak.
func TestLeaveService_ConcurrentDecisionConflict(t *testing.T) {
	leaves := &mockLeaveRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.LeaveRequest, error) {
			req := pendingHRLeave()
			req.Status = entity.LeaveStatusPendingManager
			return req, nil
		},
		applyDecisionFunc: func(ctx context.Context, id, fromStatus, toStatus string, d port.StageDecision) error {
			return port.ErrConflict
		},
	}
	svc, _ := newLeaveService(leaves, &mockAllocationRepo{}, &mockAuditRepo{}, true)

	_, err := svc.ManagerDecision(context.Background(), "lr-1",
		entity.Actor{ID: "mgr-1", Role: entity.RoleManager}, true, "")
	assert.ErrorIs(t, err, domainwf.ErrInvalidTransition)
}

func TestLeaveService_UnauthorizedRole(t *testing.T) {
	leaves := &mockLeaveRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.LeaveRequest, error) {
			req := pendingHRLeave()
			req.Status = entity.LeaveStatusPendingManager
			return req, nil
		},
	}
	svc, _ := newLeaveService(leaves, &mockAllocationRepo{}, &mockAuditRepo{}, true)

	_, err := svc.ManagerDecision(context.Background(), "lr-1",
		entity.Actor{ID: "emp-1", Role: entity.RoleEmployee}, true, "")
	assert.ErrorIs(t, err, workflow.ErrUnauthorized)
}

func TestLeaveService_GetNotFound(t *testing.T) {
	svc, _ := newLeaveService(&mockLeaveRepo{}, &mockAllocationRepo{}, &mockAuditRepo{}, true)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
