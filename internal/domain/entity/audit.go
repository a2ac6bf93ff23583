package entity

import "time"

// AuditRecord is the immutable trail entry written for every applied
// workflow transition.
type AuditRecord struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	ActorID     string    `json:"actorId"`
	ActorRole   string    `json:"actorRole"`
	EntityType  string    `json:"entityType"`
	EntityID    string    `json:"entityId"`
	FromStatus  string    `json:"fromStatus"`
	ToStatus    string    `json:"toStatus"`
	Description string    `json:"description,omitempty"`
	Outcome     string    `json:"outcome"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Actor identifies who is performing a workflow action. Session issuance is
// external; the HTTP layer materializes this from request headers.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}
