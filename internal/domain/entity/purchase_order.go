package entity

import "time"

// POLineItem is one line on a purchase order. Total is always
// Quantity * UnitPrice; the procurement service recomputes it on review.
type POLineItem struct {
	ItemName    string  `json:"itemName"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
	Description string  `json:"description,omitempty"`
}

// PurchaseOrder is the derived entity spawned from an approved material
// request. It carries a back-reference to its source request.
type PurchaseOrder struct {
	PONumber          string       `json:"poNumber"`
	MaterialRequestID string       `json:"materialRequestId,omitempty"`
	Vendor            string       `json:"vendor,omitempty"`
	LineItems         []POLineItem `json:"lineItems"`
	TotalAmount       float64      `json:"totalAmount"`
	Status            string       `json:"status"`
	DeliveryDate      *time.Time   `json:"deliveryDate,omitempty"`
	PaidDate          *time.Time   `json:"paidDate,omitempty"`
	Message           string       `json:"message,omitempty"`
	Attachments       []string     `json:"attachments,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// SumLineItems returns the sum of the line item totals.
func SumLineItems(items []POLineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Total
	}
	return total
}
