package workflow

import (
	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
	domainwf "github.com/EmmaDeil/steps-ops-backend/internal/domain/workflow"
)

// Actions shared across the workflow families.
const (
	ActionManagerApprove domainwf.Trigger = "manager_approve"
	ActionManagerReject  domainwf.Trigger = "manager_reject"
	ActionHRApprove      domainwf.Trigger = "hr_approve"
	ActionHRReject       domainwf.Trigger = "hr_reject"
	ActionBook           domainwf.Trigger = "book"
	ActionComplete       domainwf.Trigger = "complete"
	ActionCancel         domainwf.Trigger = "cancel"
	ActionApprove        domainwf.Trigger = "approve"
	ActionReject         domainwf.Trigger = "reject"
	ActionReview         domainwf.Trigger = "review"
	ActionMarkPaid       domainwf.Trigger = "mark_paid"
	ActionMarkReceived   domainwf.Trigger = "mark_received"
	ActionSubmit         domainwf.Trigger = "submit"
)

// LeaveRules builds the leave request transition table: manager stage, then
// HR stage. HR final approval carries the ledger update.
func LeaveRules() *Ruleset {
	r := newRuleset(entity.EntityTypeLeaveRequest)

	r.add(domainwf.State(entity.LeaveStatusPendingManager), ActionManagerApprove,
		domainwf.State(entity.LeaveStatusPendingHR),
		[]string{entity.RoleManager}, EffectAudit, EffectNotify)
	r.add(domainwf.State(entity.LeaveStatusPendingManager), ActionManagerReject,
		domainwf.State(entity.LeaveStatusRejected),
		[]string{entity.RoleManager}, EffectAudit, EffectNotify)
	r.add(domainwf.State(entity.LeaveStatusPendingHR), ActionHRApprove,
		domainwf.State(entity.LeaveStatusApproved),
		[]string{entity.RoleHR}, EffectLedgerUpdate, EffectAudit, EffectNotify)
	r.add(domainwf.State(entity.LeaveStatusPendingHR), ActionHRReject,
		domainwf.State(entity.LeaveStatusRejected),
		[]string{entity.RoleHR}, EffectAudit, EffectNotify)

	return r
}

// TravelRules builds the travel request transition table. Booking is handled
// by the travel desk (HR); requester and manager can cancel before completion.
func TravelRules() *Ruleset {
	r := newRuleset(entity.EntityTypeTravelRequest)

	r.add(domainwf.State(entity.TravelStatusPendingManager), ActionManagerApprove,
		domainwf.State(entity.TravelStatusPendingBooking),
		[]string{entity.RoleManager}, EffectAudit, EffectNotify)
	r.add(domainwf.State(entity.TravelStatusPendingManager), ActionManagerReject,
		domainwf.State(entity.TravelStatusRejectedManager),
		[]string{entity.RoleManager}, EffectAudit, EffectNotify)
	r.add(domainwf.State(entity.TravelStatusPendingBooking), ActionBook,
		domainwf.State(entity.TravelStatusBooked),
		[]string{entity.RoleHR}, EffectAudit, EffectNotify)
	r.add(domainwf.State(entity.TravelStatusBooked), ActionComplete,
		domainwf.State(entity.TravelStatusCompleted),
		[]string{entity.RoleHR}, EffectAudit)
	r.add(domainwf.State(entity.TravelStatusPendingManager), ActionCancel,
		domainwf.State(entity.TravelStatusCancelled),
		[]string{entity.RoleEmployee, entity.RoleManager}, EffectAudit)
	r.add(domainwf.State(entity.TravelStatusPendingBooking), ActionCancel,
		domainwf.State(entity.TravelStatusCancelled),
		[]string{entity.RoleEmployee, entity.RoleManager}, EffectAudit)

	return r
}

// MaterialRules builds the material request transition table. Approval spawns
// the derived purchase order.
func MaterialRules() *Ruleset {
	r := newRuleset(entity.EntityTypeMaterialRequest)

	r.add(domainwf.State(entity.MaterialStatusPending), ActionApprove,
		domainwf.State(entity.MaterialStatusApproved),
		[]string{entity.RoleProcurement}, EffectSpawnPurchaseOrder, EffectAudit, EffectNotify)
	r.add(domainwf.State(entity.MaterialStatusPending), ActionReject,
		domainwf.State(entity.MaterialStatusRejected),
		[]string{entity.RoleProcurement}, EffectAudit, EffectNotify)

	return r
}

// PurchaseOrderRules builds the purchase order transition table. Review is
// accepted from both draft and pending_review; line item totals are
// recomputed by the procurement service on every review.
func PurchaseOrderRules() *Ruleset {
	r := newRuleset(entity.EntityTypePurchaseOrder)

	reviewRoles := []string{entity.RoleProcurement, entity.RoleFinance}
	r.add(domainwf.State(entity.POStatusDraft), ActionReview,
		domainwf.State(entity.POStatusPaymentPending), reviewRoles, EffectAudit)
	r.add(domainwf.State(entity.POStatusPendingReview), ActionReview,
		domainwf.State(entity.POStatusPaymentPending), reviewRoles, EffectAudit)
	r.add(domainwf.State(entity.POStatusPaymentPending), ActionMarkPaid,
		domainwf.State(entity.POStatusPaid),
		[]string{entity.RoleFinance}, EffectAudit, EffectNotify)
	r.add(domainwf.State(entity.POStatusPaid), ActionMarkReceived,
		domainwf.State(entity.POStatusReceived),
		[]string{entity.RoleProcurement}, EffectAudit)
	r.add(domainwf.State(entity.POStatusDraft), ActionCancel,
		domainwf.State(entity.POStatusCancelled),
		[]string{entity.RoleProcurement}, EffectAudit)
	r.add(domainwf.State(entity.POStatusPendingReview), ActionCancel,
		domainwf.State(entity.POStatusCancelled),
		[]string{entity.RoleProcurement}, EffectAudit)

	return r
}

// PolicyRules builds the policy publishing transition table. Version
// increments (document update, restore) are not status transitions and are
// handled by the policy service's version ledger.
func PolicyRules() *Ruleset {
	r := newRuleset(entity.EntityTypePolicy)

	r.add(domainwf.State(entity.PolicyStatusDraft), ActionSubmit,
		domainwf.State(entity.PolicyStatusPendingApproval),
		[]string{entity.RoleHR}, EffectAudit)
	r.add(domainwf.State(entity.PolicyStatusPendingApproval), ActionApprove,
		domainwf.State(entity.PolicyStatusPublished),
		[]string{entity.RoleAdmin}, EffectAudit, EffectNotify)
	r.add(domainwf.State(entity.PolicyStatusPendingApproval), ActionReject,
		domainwf.State(entity.PolicyStatusDraft),
		[]string{entity.RoleAdmin}, EffectAudit, EffectNotify)

	return r
}
