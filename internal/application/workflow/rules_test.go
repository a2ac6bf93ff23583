package workflow

import (
	"errors"
	"testing"

	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
	domainwf "github.com/EmmaDeil/steps-ops-backend/internal/domain/workflow"
)

func TestLeaveRules_Transitions(t *testing.T) {
	rules := LeaveRules()

	tests := []struct {
		name    string
		from    string
		action  domainwf.Trigger
		role    string
		wantTo  string
		wantErr error
	}{
		{"manager approves", entity.LeaveStatusPendingManager, ActionManagerApprove, entity.RoleManager, entity.LeaveStatusPendingHR, nil},
		{"manager rejects", entity.LeaveStatusPendingManager, ActionManagerReject, entity.RoleManager, entity.LeaveStatusRejected, nil},
		{"hr approves", entity.LeaveStatusPendingHR, ActionHRApprove, entity.RoleHR, entity.LeaveStatusApproved, nil},
		{"hr rejects", entity.LeaveStatusPendingHR, ActionHRReject, entity.RoleHR, entity.LeaveStatusRejected, nil},
		{"admin can act for manager", entity.LeaveStatusPendingManager, ActionManagerApprove, entity.RoleAdmin, entity.LeaveStatusPendingHR, nil},
		{"employee cannot approve", entity.LeaveStatusPendingManager, ActionManagerApprove, entity.RoleEmployee, "", ErrUnauthorized},
		{"hr cannot act at manager stage", entity.LeaveStatusPendingManager, ActionHRApprove, entity.RoleHR, "", ErrInvalidTransition},
		{"manager approve out of order", entity.LeaveStatusPendingHR, ActionManagerApprove, entity.RoleManager, "", ErrInvalidTransition},
		{"approve terminal", entity.LeaveStatusApproved, ActionHRApprove, entity.RoleHR, "", ErrInvalidTransition},
		{"reject already rejected", entity.LeaveStatusRejected, ActionManagerReject, entity.RoleManager, "", ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := rules.Apply(domainwf.State(tt.from), tt.action, tt.role)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Apply() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply() unexpected error: %v", err)
			}
			if tr.To.String() != tt.wantTo {
				t.Errorf("Apply() To = %s, want %s", tr.To, tt.wantTo)
			}
		})
	}
}

// Legality is checked before authorization: replaying an already-applied
// action reports the stale state, not the actor's role.
func TestRuleset_LegalityBeforeRole(t *testing.T) {
	rules := LeaveRules()

	_, err := rules.Apply(domainwf.State(entity.LeaveStatusRejected), ActionManagerApprove, entity.RoleEmployee)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Apply() on terminal state error = %v, want ErrInvalidTransition", err)
	}
}

func TestLeaveRules_Effects(t *testing.T) {
	rules := LeaveRules()

	tr, err := rules.Apply(domainwf.State(entity.LeaveStatusPendingHR), ActionHRApprove, entity.RoleHR)
	if err != nil {
		t.Fatalf("Apply() unexpected error: %v", err)
	}

	if !containsEffect(tr.Effects, EffectLedgerUpdate) {
		t.Error("hr_approve missing ledger update effect")
	}
	if !containsEffect(tr.Effects, EffectAudit) {
		t.Error("hr_approve missing audit effect")
	}

	tr, err = rules.Apply(domainwf.State(entity.LeaveStatusPendingHR), ActionHRReject, entity.RoleHR)
	if err != nil {
		t.Fatalf("Apply() unexpected error: %v", err)
	}
	if containsEffect(tr.Effects, EffectLedgerUpdate) {
		t.Error("hr_reject must not carry the ledger update effect")
	}
}

func TestTravelRules_Transitions(t *testing.T) {
	rules := TravelRules()

	tests := []struct {
		name    string
		from    string
		action  domainwf.Trigger
		role    string
		wantTo  string
		wantErr error
	}{
		{"manager approves to booking", entity.TravelStatusPendingManager, ActionManagerApprove, entity.RoleManager, entity.TravelStatusPendingBooking, nil},
		{"manager rejects", entity.TravelStatusPendingManager, ActionManagerReject, entity.RoleManager, entity.TravelStatusRejectedManager, nil},
		{"desk books", entity.TravelStatusPendingBooking, ActionBook, entity.RoleHR, entity.TravelStatusBooked, nil},
		{"complete booked trip", entity.TravelStatusBooked, ActionComplete, entity.RoleHR, entity.TravelStatusCompleted, nil},
		{"employee cancels before booking", entity.TravelStatusPendingBooking, ActionCancel, entity.RoleEmployee, entity.TravelStatusCancelled, nil},
		{"cannot cancel after booked", entity.TravelStatusBooked, ActionCancel, entity.RoleEmployee, "", ErrInvalidTransition},
		{"book before approval", entity.TravelStatusPendingManager, ActionBook, entity.RoleHR, "", ErrInvalidTransition},
		{"employee cannot book", entity.TravelStatusPendingBooking, ActionBook, entity.RoleEmployee, "", ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := rules.Apply(domainwf.State(tt.from), tt.action, tt.role)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Apply() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply() unexpected error: %v", err)
			}
			if tr.To.String() != tt.wantTo {
				t.Errorf("Apply() To = %s, want %s", tr.To, tt.wantTo)
			}
		})
	}
}

func TestMaterialRules_Transitions(t *testing.T) {
	rules := MaterialRules()

	tr, err := rules.Apply(domainwf.State(entity.MaterialStatusPending), ActionApprove, entity.RoleProcurement)
	if err != nil {
		t.Fatalf("Apply(approve) unexpected error: %v", err)
	}
	if tr.To.String() != entity.MaterialStatusApproved {
		t.Errorf("approve To = %s, want %s", tr.To, entity.MaterialStatusApproved)
	}
	if !containsEffect(tr.Effects, EffectSpawnPurchaseOrder) {
		t.Error("approve missing spawn purchase order effect")
	}

	if _, err := rules.Apply(domainwf.State(entity.MaterialStatusApproved), ActionApprove, entity.RoleProcurement); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("double approve error = %v, want ErrInvalidTransition", err)
	}

	if _, err := rules.Apply(domainwf.State(entity.MaterialStatusPending), ActionApprove, entity.RoleEmployee); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("employee approve error = %v, want ErrUnauthorized", err)
	}
}

func TestPurchaseOrderRules_Transitions(t *testing.T) {
	rules := PurchaseOrderRules()

	tests := []struct {
		name    string
		from    string
		action  domainwf.Trigger
		role    string
		wantTo  string
		wantErr error
	}{
		{"review from draft", entity.POStatusDraft, ActionReview, entity.RoleProcurement, entity.POStatusPaymentPending, nil},
		{"review from pending_review", entity.POStatusPendingReview, ActionReview, entity.RoleFinance, entity.POStatusPaymentPending, nil},
		{"finance pays", entity.POStatusPaymentPending, ActionMarkPaid, entity.RoleFinance, entity.POStatusPaid, nil},
		{"receive paid order", entity.POStatusPaid, ActionMarkReceived, entity.RoleProcurement, entity.POStatusReceived, nil},
		{"cancel draft", entity.POStatusDraft, ActionCancel, entity.RoleProcurement, entity.POStatusCancelled, nil},
		{"pay before review", entity.POStatusDraft, ActionMarkPaid, entity.RoleFinance, "", ErrInvalidTransition},
		{"double pay", entity.POStatusPaid, ActionMarkPaid, entity.RoleFinance, "", ErrInvalidTransition},
		{"procurement cannot pay", entity.POStatusPaymentPending, ActionMarkPaid, entity.RoleProcurement, "", ErrUnauthorized},
		{"cancel after payment", entity.POStatusPaid, ActionCancel, entity.RoleProcurement, "", ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := rules.Apply(domainwf.State(tt.from), tt.action, tt.role)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Apply() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply() unexpected error: %v", err)
			}
			if tr.To.String() != tt.wantTo {
				t.Errorf("Apply() To = %s, want %s", tr.To, tt.wantTo)
			}
		})
	}
}

func TestPolicyRules_Transitions(t *testing.T) {
	rules := PolicyRules()

	tests := []struct {
		name    string
		from    string
		action  domainwf.Trigger
		role    string
		wantTo  string
		wantErr error
	}{
		{"submit draft", entity.PolicyStatusDraft, ActionSubmit, entity.RoleHR, entity.PolicyStatusPendingApproval, nil},
		{"approve pending", entity.PolicyStatusPendingApproval, ActionApprove, entity.RoleAdmin, entity.PolicyStatusPublished, nil},
		{"reject back to draft", entity.PolicyStatusPendingApproval, ActionReject, entity.RoleAdmin, entity.PolicyStatusDraft, nil},
		{"approve a draft", entity.PolicyStatusDraft, ActionApprove, entity.RoleAdmin, "", ErrInvalidTransition},
		{"submit published", entity.PolicyStatusPublished, ActionSubmit, entity.RoleHR, "", ErrInvalidTransition},
		{"hr cannot approve", entity.PolicyStatusPendingApproval, ActionApprove, entity.RoleHR, "", ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := rules.Apply(domainwf.State(tt.from), tt.action, tt.role)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Apply() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply() unexpected error: %v", err)
			}
			if tr.To.String() != tt.wantTo {
				t.Errorf("Apply() To = %s, want %s", tr.To, tt.wantTo)
			}
		})
	}
}

func TestRuleset_IsTerminal(t *testing.T) {
	rules := LeaveRules()

	if rules.IsTerminal(domainwf.State(entity.LeaveStatusPendingManager)) {
		t.Error("pending_manager reported terminal")
	}
	if !rules.IsTerminal(domainwf.State(entity.LeaveStatusApproved)) {
		t.Error("approved not reported terminal")
	}
	if !rules.IsTerminal(domainwf.State(entity.LeaveStatusRejected)) {
		t.Error("rejected not reported terminal")
	}
}

func TestRuleset_PermittedActions(t *testing.T) {
	rules := TravelRules()

	actions := rules.PermittedActions(domainwf.State(entity.TravelStatusPendingBooking))
	seen := make(map[domainwf.Trigger]bool)
	for _, a := range actions {
		seen[a] = true
	}
	if !seen[ActionBook] || !seen[ActionCancel] {
		t.Errorf("PermittedActions(pending_booking) = %v, want book and cancel", actions)
	}
	if len(actions) != 2 {
		t.Errorf("PermittedActions(pending_booking) returned %d actions, want 2", len(actions))
	}
}

func containsEffect(effects []Effect, want Effect) bool {
	for _, e := range effects {
		if e == want {
			return true
		}
	}
	return false
}
