package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/ledger"
	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/internal/application/workflow"
	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
	domainwf "github.com/EmmaDeil/steps-ops-backend/internal/domain/workflow"
)

// CreateLeaveInput carries the fields for a new leave request. Days is
// precomputed by the caller; the service validates but never re-derives it.
type CreateLeaveInput struct {
	EmployeeID string    `json:"employeeId"`
	ManagerID  string    `json:"managerId"`
	LeaveType  string    `json:"leaveType"`
	FromDate   time.Time `json:"fromDate"`
	ToDate     time.Time `json:"toDate"`
	Days       int       `json:"days"`
	Reason     string    `json:"reason"`
}

// LeaveService drives the two-stage leave approval workflow and the leave
// balance ledger.
type LeaveService struct {
	leaves port.LeaveRequestRepository
	ledger *ledger.Ledger
	rules  *workflow.Ruleset
	hooks  *Hooks
	tx     port.TransactionManager
	logger *zap.Logger

	// strictLedger controls what happens when HR approval finds no
	// allocation row: true rolls the whole transition back, false keeps the
	// approval committed and logs the miss (the legacy behavior).
	strictLedger bool
}

// NewLeaveService creates the leave workflow service.
func NewLeaveService(
	leaves port.LeaveRequestRepository,
	ldg *ledger.Ledger,
	hooks *Hooks,
	tx port.TransactionManager,
	strictLedger bool,
	logger *zap.Logger,
) *LeaveService {
	return &LeaveService{
		leaves:       leaves,
		ledger:       ldg,
		rules:        workflow.LeaveRules(),
		hooks:        hooks,
		tx:           tx,
		strictLedger: strictLedger,
		logger:       logger,
	}
}

// Create validates and stores a new leave request in pending_manager.
func (s *LeaveService) Create(ctx context.Context, in CreateLeaveInput, actor entity.Actor) (*entity.LeaveRequest, error) {
	if in.EmployeeID == "" {
		return nil, validationf("employeeId is required")
	}
	if in.ManagerID == "" {
		return nil, validationf("managerId is required")
	}
	if !entity.IsValidLeaveType(in.LeaveType) {
		return nil, validationf("unknown leave type %q", in.LeaveType)
	}
	if in.Days <= 0 {
		return nil, validationf("days must be positive")
	}
	if in.ToDate.Before(in.FromDate) {
		return nil, validationf("toDate must not precede fromDate")
	}

	now := time.Now()
	req := &entity.LeaveRequest{
		ID:         uuid.NewString(),
		EmployeeID: in.EmployeeID,
		ManagerID:  in.ManagerID,
		LeaveType:  in.LeaveType,
		FromDate:   in.FromDate,
		ToDate:     in.ToDate,
		Days:       in.Days,
		Reason:     in.Reason,
		Status:     entity.LeaveStatusPendingManager,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.leaves.Create(txCtx, req); err != nil {
			return fmt.Errorf("create leave request: %w", err)
		}
		return s.hooks.RecordCreation(txCtx, entity.EntityTypeLeaveRequest, req.ID, req.Status, actor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Leave request created",
		zap.String("id", req.ID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveType),
		zap.Int("days", req.Days))
	return req, nil
}

// Get returns a leave request by id.
func (s *LeaveService) Get(ctx context.Context, id string) (*entity.LeaveRequest, error) {
	req, err := s.leaves.GetByID(ctx, id)
	if errors.Is(err, port.ErrNotFound) {
		return nil, fmt.Errorf("%w: leave request %s", ErrNotFound, id)
	}
	return req, err
}

// List returns leave requests, optionally filtered by status.
func (s *LeaveService) List(ctx context.Context, status string, limit, offset int) ([]*entity.LeaveRequest, error) {
	return s.leaves.ListByStatus(ctx, status, limit, offset)
}

// ManagerDecision applies the manager stage: approve moves the request to
// pending_hr, reject is terminal.
func (s *LeaveService) ManagerDecision(ctx context.Context, id string, actor entity.Actor, approve bool, comments string) (*entity.LeaveRequest, error) {
	action := workflow.ActionManagerReject
	if approve {
		action = workflow.ActionManagerApprove
	}
	return s.decide(ctx, id, actor, action, "manager", approve, comments)
}

// HRDecision applies the HR final stage. Approval of a non-unpaid request
// posts the ledger deduction for the year of the request's fromDate.
func (s *LeaveService) HRDecision(ctx context.Context, id string, actor entity.Actor, approve bool, comments string) (*entity.LeaveRequest, error) {
	action := workflow.ActionHRReject
	if approve {
		action = workflow.ActionHRApprove
	}
	return s.decide(ctx, id, actor, action, "hr", approve, comments)
}

func (s *LeaveService) decide(ctx context.Context, id string, actor entity.Actor, action domainwf.Trigger, stage string, approve bool, comments string) (*entity.LeaveRequest, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	tr, err := s.rules.Apply(domainwf.State(req.Status), action, actor.Role)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	decision := port.StageDecision{Stage: stage, Approved: approve, Comments: comments, At: now}
	wantsLedger := hasEffect(tr.Effects, workflow.EffectLedgerUpdate) && req.LeaveType != entity.LeaveTypeUnpaid

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.leaves.ApplyDecision(txCtx, id, tr.From.String(), tr.To.String(), decision); err != nil {
			return asTransitionError(err, tr.From, tr.Action)
		}
		if wantsLedger && s.strictLedger {
			if err := s.ledger.ApplyUsage(txCtx, req.EmployeeID, req.FromDate.Year(), req.LeaveType, req.Days); err != nil {
				return fmt.Errorf("%w: %v", ErrDependencyFailure, err)
			}
		}
		return s.hooks.RecordTransition(txCtx, tr, actor, id, comments)
	})
	if err != nil {
		return nil, err
	}

	// Legacy mode: the approval stands even when the deduction cannot post.
	// The miss is logged and left in the audit trail for reconciliation.
	if wantsLedger && !s.strictLedger {
		if err := s.ledger.ApplyUsage(ctx, req.EmployeeID, req.FromDate.Year(), req.LeaveType, req.Days); err != nil {
			s.logger.Error("Leave approved but ledger deduction failed",
				zap.String("id", id),
				zap.String("employee_id", req.EmployeeID),
				zap.Error(err))
			s.hooks.RecordFailure(ctx, entity.EntityTypeLeaveRequest, id,
				workflow.EffectLedgerUpdate.String(), err.Error())
		}
	}

	if hasEffect(tr.Effects, workflow.EffectNotify) {
		verb := "rejected"
		if approve {
			verb = "approved"
		}
		subject := fmt.Sprintf("Leave request %s by %s", verb, stage)
		body := fmt.Sprintf("Your %s leave request (%s, %d day(s)) has been %s.", req.LeaveType, id, req.Days, verb)
		if comments != "" {
			body += " Comments: " + comments
		}
		s.hooks.NotifyEmployee(ctx, req.EmployeeID, subject, body)
	}

	return s.Get(ctx, id)
}

func hasEffect(effects []workflow.Effect, want workflow.Effect) bool {
	for _, e := range effects {
		if e == want {
			return true
		}
	}
	return false
}
