package service

import (
	"fmt"
	"math"
	"time"

	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
)

// defaultUnit is used when a material line item carries no quantity type.
const defaultUnit = "pcs"

// FormatPONumber renders a sequence value as a purchase order number.
func FormatPONumber(seq int64) string {
	return fmt.Sprintf("PO-%06d", seq)
}

// FormatRequestID renders a sequence value as a material request identifier.
func FormatRequestID(seq int64) string {
	return fmt.Sprintf("%06d", seq)
}

// BuildPurchaseOrder derives a draft purchase order from an approved
// material request: each line's unit comes from the quantity type, the unit
// price from the requested amount, and totals are quantity times unit price
// with non-finite inputs collapsing to zero.
func BuildPurchaseOrder(mr *entity.MaterialRequest, poNumber, vendor string, now time.Time) *entity.PurchaseOrder {
	items := make([]entity.POLineItem, 0, len(mr.LineItems))
	for _, src := range mr.LineItems {
		items = append(items, transformLineItem(src))
	}

	return &entity.PurchaseOrder{
		PONumber:          poNumber,
		MaterialRequestID: mr.RequestID,
		Vendor:            vendor,
		LineItems:         items,
		TotalAmount:       entity.SumLineItems(items),
		Status:            entity.POStatusDraft,
		Message:           mr.Message,
		Attachments:       append([]string(nil), mr.Attachments...),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func transformLineItem(src entity.MaterialLineItem) entity.POLineItem {
	unit := src.QuantityType
	if unit == "" {
		unit = defaultUnit
	}
	return entity.POLineItem{
		ItemName:    src.ItemName,
		Quantity:    finiteOrZero(src.Quantity),
		Unit:        unit,
		UnitPrice:   finiteOrZero(src.Amount),
		Total:       finiteOrZero(src.Quantity) * finiteOrZero(src.Amount),
		Description: src.Description,
	}
}

// NormalizeLineItems recomputes every line total and returns the recomputed
// slice. Applied on every purchase order review so edited quantities and
// prices can never disagree with their totals.
func NormalizeLineItems(items []entity.POLineItem) []entity.POLineItem {
	out := make([]entity.POLineItem, len(items))
	for i, item := range items {
		item.Quantity = finiteOrZero(item.Quantity)
		item.UnitPrice = finiteOrZero(item.UnitPrice)
		if item.Unit == "" {
			item.Unit = defaultUnit
		}
		item.Total = item.Quantity * item.UnitPrice
		out[i] = item
	}
	return out
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
