package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/internal/application/workflow"
	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
)

// Hooks executes the audit and notification effects declared by workflow
// transitions. Audit records are essential and run inside the caller's
// transaction; notifications are fire-and-forget and run after commit.
type Hooks struct {
	audits    port.AuditRepository
	employees port.EmployeeRepository
	notifier  port.Notifier
	logger    *zap.Logger
}

// NewHooks creates the audit/notification hook executor.
func NewHooks(audits port.AuditRepository, employees port.EmployeeRepository, notifier port.Notifier, logger *zap.Logger) *Hooks {
	return &Hooks{audits: audits, employees: employees, notifier: notifier, logger: logger}
}

// RecordTransition writes the audit record for an applied transition.
func (h *Hooks) RecordTransition(ctx context.Context, tr workflow.Transition, actor entity.Actor, entityID, description string) error {
	return h.audits.Record(ctx, &entity.AuditRecord{
		ID:          uuid.NewString(),
		Action:      tr.Action.String(),
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		EntityType:  tr.Family,
		EntityID:    entityID,
		FromStatus:  tr.From.String(),
		ToStatus:    tr.To.String(),
		Description: description,
		Outcome:     entity.AuditOutcomeSuccess,
		CreatedAt:   time.Now(),
	})
}

// RecordCreation writes the audit record for a newly created entity.
func (h *Hooks) RecordCreation(ctx context.Context, entityType, entityID, status string, actor entity.Actor) error {
	return h.audits.Record(ctx, &entity.AuditRecord{
		ID:         uuid.NewString(),
		Action:     "create",
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		EntityType: entityType,
		EntityID:   entityID,
		ToStatus:   status,
		Outcome:    entity.AuditOutcomeSuccess,
		CreatedAt:  time.Now(),
	})
}

// RecordFailure writes an audit record for a side effect that failed after
// the transition itself committed. Best effort: its own failure is only
// logged.
func (h *Hooks) RecordFailure(ctx context.Context, entityType, entityID, action, description string) {
	err := h.audits.Record(ctx, &entity.AuditRecord{
		ID:          uuid.NewString(),
		Action:      action,
		ActorID:     "system",
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		Outcome:     entity.AuditOutcomeFailure,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		h.logger.Error("Failed to record audit failure entry",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}

// NotifyEmployee looks up the employee's email and sends a message. Failures
// are logged and swallowed: delivery never blocks or reverts a transition.
func (h *Hooks) NotifyEmployee(ctx context.Context, employeeID, subject, body string) {
	if employeeID == "" {
		return
	}
	emp, err := h.employees.GetByID(ctx, employeeID)
	if err != nil {
		h.logger.Warn("Notification recipient lookup failed",
			zap.String("employee_id", employeeID),
			zap.Error(err))
		return
	}
	if err := h.notifier.Send(ctx, emp.Email, subject, body); err != nil {
		h.logger.Warn("Notification delivery failed",
			zap.String("employee_id", employeeID),
			zap.String("email", emp.Email),
			zap.Error(err))
		return
	}
	h.logger.Info("Notification sent",
		zap.String("employee_id", employeeID),
		zap.String("subject", subject))
}
