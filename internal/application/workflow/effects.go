package workflow

// Effect is a side effect declared by a transition. Effects are returned to
// the calling service rather than executed inline so persistence can be
// sequenced before irreversible actions such as notifications.
type Effect string

const (
	// EffectAudit records the transition in the audit trail.
	EffectAudit Effect = "audit"

	// EffectNotify sends an approval/rejection notification to the party
	// affected by the transition. Non-essential: failures are logged and
	// swallowed.
	EffectNotify Effect = "notify"

	// EffectLedgerUpdate applies the request's days to the employee's leave
	// allocation for the year. Declared only on HR final approval.
	EffectLedgerUpdate Effect = "ledger_update"

	// EffectSpawnPurchaseOrder creates the purchase order derived from an
	// approved material request.
	EffectSpawnPurchaseOrder Effect = "spawn_purchase_order"
)

// String returns the string representation of the effect.
func (e Effect) String() string {
	return string(e)
}
