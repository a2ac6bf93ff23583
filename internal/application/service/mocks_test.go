package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
)

// mockTx runs the function directly; there is no real transaction to join.
type mockTx struct{}

func (mockTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockLeaveRepo struct {
	createFunc        func(ctx context.Context, req *entity.LeaveRequest) error
	getByIDFunc       func(ctx context.Context, id string) (*entity.LeaveRequest, error)
	listByStatusFunc  func(ctx context.Context, status string, limit, offset int) ([]*entity.LeaveRequest, error)
	applyDecisionFunc func(ctx context.Context, id, fromStatus, toStatus string, d port.StageDecision) error
}

func (m *mockLeaveRepo) Create(ctx context.Context, req *entity.LeaveRequest) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil
}

func (m *mockLeaveRepo) GetByID(ctx context.Context, id string) (*entity.LeaveRequest, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, port.ErrNotFound
}

func (m *mockLeaveRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.LeaveRequest, error) {
	if m.listByStatusFunc != nil {
		return m.listByStatusFunc(ctx, status, limit, offset)
	}
	return nil, nil
}

func (m *mockLeaveRepo) ApplyDecision(ctx context.Context, id, fromStatus, toStatus string, d port.StageDecision) error {
	if m.applyDecisionFunc != nil {
		return m.applyDecisionFunc(ctx, id, fromStatus, toStatus, d)
	}
	return nil
}

type mockAllocationRepo struct {
	getFunc      func(ctx context.Context, employeeID string, year int) (*entity.LeaveAllocation, error)
	upsertFunc   func(ctx context.Context, alloc *entity.LeaveAllocation) error
	addUsageFunc func(ctx context.Context, employeeID string, year int, leaveType string, days int) error
}

func (m *mockAllocationRepo) Get(ctx context.Context, employeeID string, year int) (*entity.LeaveAllocation, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, employeeID, year)
	}
	return &entity.LeaveAllocation{EmployeeID: employeeID, Year: year}, nil
}

func (m *mockAllocationRepo) Upsert(ctx context.Context, alloc *entity.LeaveAllocation) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, alloc)
	}
	return nil
}

func (m *mockAllocationRepo) AddUsage(ctx context.Context, employeeID string, year int, leaveType string, days int) error {
	if m.addUsageFunc != nil {
		return m.addUsageFunc(ctx, employeeID, year, leaveType, days)
	}
	return nil
}

type mockTravelRepo struct {
	createFunc        func(ctx context.Context, req *entity.TravelRequest) error
	getByIDFunc       func(ctx context.Context, id string) (*entity.TravelRequest, error)
	listByStatusFunc  func(ctx context.Context, status string, limit, offset int) ([]*entity.TravelRequest, error)
	applyDecisionFunc func(ctx context.Context, id, fromStatus, toStatus string, d port.StageDecision) error
	setBookedFunc     func(ctx context.Context, id, fromStatus, toStatus string, details entity.BookingDetails) error
	setStatusFunc     func(ctx context.Context, id, fromStatus, toStatus string, at time.Time) error
}

func (m *mockTravelRepo) Create(ctx context.Context, req *entity.TravelRequest) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil
}

func (m *mockTravelRepo) GetByID(ctx context.Context, id string) (*entity.TravelRequest, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, port.ErrNotFound
}

func (m *mockTravelRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.TravelRequest, error) {
	if m.listByStatusFunc != nil {
		return m.listByStatusFunc(ctx, status, limit, offset)
	}
	return nil, nil
}

func (m *mockTravelRepo) ApplyDecision(ctx context.Context, id, fromStatus, toStatus string, d port.StageDecision) error {
	if m.applyDecisionFunc != nil {
		return m.applyDecisionFunc(ctx, id, fromStatus, toStatus, d)
	}
	return nil
}

func (m *mockTravelRepo) SetBooked(ctx context.Context, id, fromStatus, toStatus string, details entity.BookingDetails) error {
	if m.setBookedFunc != nil {
		return m.setBookedFunc(ctx, id, fromStatus, toStatus, details)
	}
	return nil
}

func (m *mockTravelRepo) SetStatus(ctx context.Context, id, fromStatus, toStatus string, at time.Time) error {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, id, fromStatus, toStatus, at)
	}
	return nil
}

type mockMaterialRepo struct {
	createFunc       func(ctx context.Context, req *entity.MaterialRequest) error
	getByIDFunc      func(ctx context.Context, id string) (*entity.MaterialRequest, error)
	listByStatusFunc func(ctx context.Context, status string, limit, offset int) ([]*entity.MaterialRequest, error)
	approveFunc      func(ctx context.Context, id, fromStatus, toStatus, comments string, at time.Time) error
	rejectFunc       func(ctx context.Context, id, fromStatus, toStatus, reason string, at time.Time) error
}

func (m *mockMaterialRepo) Create(ctx context.Context, req *entity.MaterialRequest) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil
}

func (m *mockMaterialRepo) GetByID(ctx context.Context, id string) (*entity.MaterialRequest, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, port.ErrNotFound
}

func (m *mockMaterialRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.MaterialRequest, error) {
	if m.listByStatusFunc != nil {
		return m.listByStatusFunc(ctx, status, limit, offset)
	}
	return nil, nil
}

func (m *mockMaterialRepo) Approve(ctx context.Context, id, fromStatus, toStatus, comments string, at time.Time) error {
	if m.approveFunc != nil {
		return m.approveFunc(ctx, id, fromStatus, toStatus, comments, at)
	}
	return nil
}

func (m *mockMaterialRepo) Reject(ctx context.Context, id, fromStatus, toStatus, reason string, at time.Time) error {
	if m.rejectFunc != nil {
		return m.rejectFunc(ctx, id, fromStatus, toStatus, reason, at)
	}
	return nil
}

type mockPORepo struct {
	createFunc   func(ctx context.Context, po *entity.PurchaseOrder) error
	getByIDFunc  func(ctx context.Context, poNumber string) (*entity.PurchaseOrder, error)
	listFunc     func(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error)
	reviewFunc   func(ctx context.Context, poNumber, fromStatus, toStatus string, lineItems []entity.POLineItem, totalAmount float64, vendor string, deliveryDate *time.Time, at time.Time) error
	markPaidFunc func(ctx context.Context, poNumber, fromStatus, toStatus string, paidDate time.Time) error
	setStatus    func(ctx context.Context, poNumber, fromStatus, toStatus string, at time.Time) error
}

func (m *mockPORepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, po)
	}
	return nil
}

func (m *mockPORepo) GetByID(ctx context.Context, poNumber string) (*entity.PurchaseOrder, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, poNumber)
	}
	return nil, port.ErrNotFound
}

func (m *mockPORepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, status, limit, offset)
	}
	return nil, nil
}

func (m *mockPORepo) Review(ctx context.Context, poNumber, fromStatus, toStatus string, lineItems []entity.POLineItem, totalAmount float64, vendor string, deliveryDate *time.Time, at time.Time) error {
	if m.reviewFunc != nil {
		return m.reviewFunc(ctx, poNumber, fromStatus, toStatus, lineItems, totalAmount, vendor, deliveryDate, at)
	}
	return nil
}

func (m *mockPORepo) MarkPaid(ctx context.Context, poNumber, fromStatus, toStatus string, paidDate time.Time) error {
	if m.markPaidFunc != nil {
		return m.markPaidFunc(ctx, poNumber, fromStatus, toStatus, paidDate)
	}
	return nil
}

func (m *mockPORepo) SetStatus(ctx context.Context, poNumber, fromStatus, toStatus string, at time.Time) error {
	if m.setStatus != nil {
		return m.setStatus(ctx, poNumber, fromStatus, toStatus, at)
	}
	return nil
}

type mockPolicyRepo struct {
	createFunc         func(ctx context.Context, p *entity.Policy) error
	getByIDFunc        func(ctx context.Context, id string) (*entity.Policy, error)
	listFunc           func(ctx context.Context, status string, limit, offset int) ([]*entity.Policy, error)
	setStatusFunc      func(ctx context.Context, id, fromStatus, toStatus string, at time.Time) error
	setApprovedFunc    func(ctx context.Context, id, fromStatus, toStatus, approvedBy string, at time.Time) error
	getVersionFunc     func(ctx context.Context, policyID, version string) (*entity.PolicyVersion, error)
	archiveFunc        func(ctx context.Context, policyID string) error
	insertVersionFunc  func(ctx context.Context, v *entity.PolicyVersion) error
	updatePointerFunc  func(ctx context.Context, policyID, fromVersion, toVersion, documentURL, documentName string, at time.Time) error
}

func (m *mockPolicyRepo) Create(ctx context.Context, p *entity.Policy) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, p)
	}
	return nil
}

func (m *mockPolicyRepo) GetByID(ctx context.Context, id string) (*entity.Policy, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, port.ErrNotFound
}

func (m *mockPolicyRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Policy, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, status, limit, offset)
	}
	return nil, nil
}

func (m *mockPolicyRepo) SetStatus(ctx context.Context, id, fromStatus, toStatus string, at time.Time) error {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, id, fromStatus, toStatus, at)
	}
	return nil
}

func (m *mockPolicyRepo) SetApproved(ctx context.Context, id, fromStatus, toStatus, approvedBy string, at time.Time) error {
	if m.setApprovedFunc != nil {
		return m.setApprovedFunc(ctx, id, fromStatus, toStatus, approvedBy, at)
	}
	return nil
}

func (m *mockPolicyRepo) GetVersion(ctx context.Context, policyID, version string) (*entity.PolicyVersion, error) {
	if m.getVersionFunc != nil {
		return m.getVersionFunc(ctx, policyID, version)
	}
	return nil, port.ErrNotFound
}

func (m *mockPolicyRepo) ArchiveVersions(ctx context.Context, policyID string) error {
	if m.archiveFunc != nil {
		return m.archiveFunc(ctx, policyID)
	}
	return nil
}

func (m *mockPolicyRepo) InsertVersion(ctx context.Context, v *entity.PolicyVersion) error {
	if m.insertVersionFunc != nil {
		return m.insertVersionFunc(ctx, v)
	}
	return nil
}

func (m *mockPolicyRepo) UpdateDocumentPointer(ctx context.Context, policyID, fromVersion, toVersion, documentURL, documentName string, at time.Time) error {
	if m.updatePointerFunc != nil {
		return m.updatePointerFunc(ctx, policyID, fromVersion, toVersion, documentURL, documentName, at)
	}
	return nil
}

type mockSequenceRepo struct {
	mu   sync.Mutex
	next int64
}

func (m *mockSequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return m.next, nil
}

type mockAuditRepo struct {
	mu      sync.Mutex
	records []*entity.AuditRecord
}

func (m *mockAuditRepo) Record(ctx context.Context, rec *entity.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *mockAuditRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.AuditRecord
	for _, rec := range m.records {
		if rec.EntityType == entityType && rec.EntityID == entityID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockAuditRepo) last() *entity.AuditRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.records) == 0 {
		return nil
	}
	return m.records[len(m.records)-1]
}

type mockEmployeeRepo struct {
	getByIDFunc    func(ctx context.Context, id string) (*entity.Employee, error)
	listByRoleFunc func(ctx context.Context, role string) ([]*entity.Employee, error)
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Employee{ID: id, Email: id + "@example.com"}, nil
}

func (m *mockEmployeeRepo) ListByRole(ctx context.Context, role string) ([]*entity.Employee, error) {
	if m.listByRoleFunc != nil {
		return m.listByRoleFunc(ctx, role)
	}
	return nil, nil
}

type mockNotifier struct {
	mu       sync.Mutex
	sent     []string
	sendFunc func(ctx context.Context, recipientEmail, subject, body string) error
}

func (m *mockNotifier) Send(ctx context.Context, recipientEmail, subject, body string) error {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, recipientEmail, subject, body)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, recipientEmail+": "+subject)
	return nil
}

func newTestHooks(audits *mockAuditRepo, employees *mockEmployeeRepo, notifier *mockNotifier) *Hooks {
	return NewHooks(audits, employees, notifier, zap.NewNop())
}
