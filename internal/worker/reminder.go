package worker

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
)

const reminderBatchSize = 200

// Reminder periodically nudges approvers about requests sitting in their
// queue. Each run sends at most one summary message per approver.
type Reminder struct {
	cron      *cron.Cron
	schedule  string
	leaves    port.LeaveRequestRepository
	travels   port.TravelRequestRepository
	materials port.MaterialRequestRepository
	orders    port.PurchaseOrderRepository
	employees port.EmployeeRepository
	notifier  port.Notifier
	logger    *zap.Logger
}

// NewReminder creates the pending-approval reminder.
func NewReminder(
	schedule string,
	leaves port.LeaveRequestRepository,
	travels port.TravelRequestRepository,
	materials port.MaterialRequestRepository,
	orders port.PurchaseOrderRepository,
	employees port.EmployeeRepository,
	notifier port.Notifier,
	logger *zap.Logger,
) *Reminder {
	return &Reminder{
		cron:      cron.New(),
		schedule:  schedule,
		leaves:    leaves,
		travels:   travels,
		materials: materials,
		orders:    orders,
		employees: employees,
		notifier:  notifier,
		logger:    logger,
	}
}

// Start registers the schedule and begins running. Returns an error for an
// invalid cron expression.
func (r *Reminder) Start() error {
	_, err := r.cron.AddFunc(r.schedule, func() {
		r.Run(context.Background())
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", r.schedule, err)
	}
	r.cron.Start()
	r.logger.Info("Pending-approval reminder started", zap.String("schedule", r.schedule))
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (r *Reminder) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("Pending-approval reminder stopped")
}

// Run executes one reminder sweep. Exposed for manual triggering.
func (r *Reminder) Run(ctx context.Context) {
	r.remindManagers(ctx)
	r.remindRole(ctx, entity.RoleHR, r.countLeaves(ctx, entity.LeaveStatusPendingHR), "leave requests awaiting HR approval")
	r.remindRole(ctx, entity.RoleProcurement, r.countMaterials(ctx, entity.MaterialStatusPending), "material requests awaiting approval")
	r.remindRole(ctx, entity.RoleProcurement, r.countTravels(ctx, entity.TravelStatusPendingBooking), "approved trips awaiting booking")
	r.remindRole(ctx, entity.RoleFinance, r.countOrders(ctx, entity.POStatusPaymentPending), "purchase orders awaiting payment")
}

// remindManagers groups manager-stage items by the manager they are assigned
// to, so each manager only hears about their own queue.
func (r *Reminder) remindManagers(ctx context.Context) {
	pending := make(map[string]int)

	leaves, err := r.leaves.ListByStatus(ctx, entity.LeaveStatusPendingManager, reminderBatchSize, 0)
	if err != nil {
		r.logger.Warn("Reminder sweep failed to list leave requests", zap.Error(err))
	}
	for _, req := range leaves {
		pending[req.ManagerID]++
	}

	travels, err := r.travels.ListByStatus(ctx, entity.TravelStatusPendingManager, reminderBatchSize, 0)
	if err != nil {
		r.logger.Warn("Reminder sweep failed to list travel requests", zap.Error(err))
	}
	for _, req := range travels {
		pending[req.ManagerID]++
	}

	for managerID, count := range pending {
		if managerID == "" {
			continue
		}
		emp, err := r.employees.GetByID(ctx, managerID)
		if err != nil {
			r.logger.Warn("Reminder recipient lookup failed",
				zap.String("employee_id", managerID), zap.Error(err))
			continue
		}
		r.send(ctx, emp.Email, count, "requests awaiting your approval")
	}
}

func (r *Reminder) remindRole(ctx context.Context, role string, count int, what string) {
	if count == 0 {
		return
	}
	recipients, err := r.employees.ListByRole(ctx, role)
	if err != nil {
		r.logger.Warn("Reminder role lookup failed", zap.String("role", role), zap.Error(err))
		return
	}
	for _, emp := range recipients {
		r.send(ctx, emp.Email, count, what)
	}
}

func (r *Reminder) send(ctx context.Context, email string, count int, what string) {
	subject := "Pending approvals reminder"
	body := fmt.Sprintf("You have %d %s.", count, what)
	if err := r.notifier.Send(ctx, email, subject, body); err != nil {
		r.logger.Warn("Reminder delivery failed", zap.String("email", email), zap.Error(err))
	}
}

func (r *Reminder) countLeaves(ctx context.Context, status string) int {
	reqs, err := r.leaves.ListByStatus(ctx, status, reminderBatchSize, 0)
	if err != nil {
		r.logger.Warn("Reminder sweep failed to list leave requests", zap.Error(err))
		return 0
	}
	return len(reqs)
}

func (r *Reminder) countTravels(ctx context.Context, status string) int {
	reqs, err := r.travels.ListByStatus(ctx, status, reminderBatchSize, 0)
	if err != nil {
		r.logger.Warn("Reminder sweep failed to list travel requests", zap.Error(err))
		return 0
	}
	return len(reqs)
}

func (r *Reminder) countMaterials(ctx context.Context, status string) int {
	reqs, err := r.materials.ListByStatus(ctx, status, reminderBatchSize, 0)
	if err != nil {
		r.logger.Warn("Reminder sweep failed to list material requests", zap.Error(err))
		return 0
	}
	return len(reqs)
}

func (r *Reminder) countOrders(ctx context.Context, status string) int {
	orders, err := r.orders.List(ctx, status, reminderBatchSize, 0)
	if err != nil {
		r.logger.Warn("Reminder sweep failed to list purchase orders", zap.Error(err))
		return 0
	}
	return len(orders)
}
