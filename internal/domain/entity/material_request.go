package entity

import "time"

// MaterialLineItem is one requested item on a material request. Amount is the
// expected unit price; it becomes the purchase order's unitPrice on approval.
type MaterialLineItem struct {
	ItemName     string  `json:"itemName"`
	Quantity     float64 `json:"quantity"`
	QuantityType string  `json:"quantityType,omitempty"`
	Amount       float64 `json:"amount,omitempty"`
	Description  string  `json:"description,omitempty"`
}

// MaterialRequest is a single-stage procurement request. Approval spawns
// exactly one PurchaseOrder.
type MaterialRequest struct {
	RequestID   string             `json:"requestId"`
	RequestedBy string             `json:"requestedBy"`
	Department  string             `json:"department,omitempty"`
	LineItems   []MaterialLineItem `json:"lineItems"`
	Message     string             `json:"message,omitempty"`
	Attachments []string           `json:"attachments,omitempty"`
	Status      string             `json:"status"`

	ApproverComments string     `json:"approverComments,omitempty"`
	RejectionReason  string     `json:"rejectionReason,omitempty"`
	ApprovedAt       *time.Time `json:"approvedAt,omitempty"`
	RejectedAt       *time.Time `json:"rejectedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
