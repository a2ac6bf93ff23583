package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
	"github.com/EmmaDeil/steps-ops-backend/pkg/database"
)

// PurchaseOrderRepository implements port.PurchaseOrderRepository over SQLite.
type PurchaseOrderRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewPurchaseOrderRepository creates a new purchase order repository.
func NewPurchaseOrderRepository(db *database.DB, logger *zap.Logger) port.PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db, logger: logger}
}

const poColumns = `
	po_number, material_request_id, vendor, line_items, total_amount, status,
	delivery_date, paid_date, message, attachments, created_at, updated_at
`

// Create inserts a new purchase order.
func (r *PurchaseOrderRepository) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	lineItems, err := json.Marshal(po.LineItems)
	if err != nil {
		return fmt.Errorf("failed to marshal line items: %w", err)
	}
	attachments, err := json.Marshal(po.Attachments)
	if err != nil {
		return fmt.Errorf("failed to marshal attachments: %w", err)
	}

	query := `
		INSERT INTO purchase_orders (
			po_number, material_request_id, vendor, line_items, total_amount,
			status, delivery_date, message, attachments, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Executor(ctx).ExecContext(ctx, query,
		po.PONumber, po.MaterialRequestID, po.Vendor, string(lineItems),
		po.TotalAmount, po.Status, po.DeliveryDate, po.Message,
		string(attachments), po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create purchase order", zap.String("po_number", po.PONumber), zap.Error(err))
		return fmt.Errorf("failed to create purchase order: %w", err)
	}
	return nil
}

// GetByID retrieves a purchase order by number.
func (r *PurchaseOrderRepository) GetByID(ctx context.Context, poNumber string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE po_number = ?`
	po, err := scanPurchaseOrder(r.db.Executor(ctx).QueryRowContext(ctx, query, poNumber))
	if err == sql.ErrNoRows {
		return nil, port.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get purchase order", zap.String("po_number", poNumber), zap.Error(err))
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}
	return po, nil
}

// List lists purchase orders, newest first. Empty status lists all.
func (r *PurchaseOrderRepository) List(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	defer rows.Close()

	var pos []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase order: %w", err)
		}
		pos = append(pos, po)
	}
	return pos, rows.Err()
}

// Review replaces line items, total, vendor and delivery date and flips the
// status, conditional on the expected prior status.
func (r *PurchaseOrderRepository) Review(ctx context.Context, poNumber, fromStatus, toStatus string, lineItems []entity.POLineItem, totalAmount float64, vendor string, deliveryDate *time.Time, at time.Time) error {
	items, err := json.Marshal(lineItems)
	if err != nil {
		return fmt.Errorf("failed to marshal line items: %w", err)
	}

	query := `
		UPDATE purchase_orders
		SET status = ?, line_items = ?, total_amount = ?, vendor = ?,
			delivery_date = ?, updated_at = ?
		WHERE po_number = ? AND status = ?
	`
	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		toStatus, string(items), totalAmount, vendor, deliveryDate, at,
		poNumber, fromStatus)
	if err != nil {
		r.logger.Error("Failed to review purchase order", zap.String("po_number", poNumber), zap.Error(err))
		return fmt.Errorf("failed to review purchase order: %w", err)
	}
	return requireRowMatch(result)
}

// MarkPaid stamps the paid date and flips the status, conditional on the
// expected prior status.
func (r *PurchaseOrderRepository) MarkPaid(ctx context.Context, poNumber, fromStatus, toStatus string, paidDate time.Time) error {
	query := `UPDATE purchase_orders SET status = ?, paid_date = ?, updated_at = ? WHERE po_number = ? AND status = ?`
	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		toStatus, paidDate, paidDate, poNumber, fromStatus)
	if err != nil {
		r.logger.Error("Failed to mark purchase order paid", zap.String("po_number", poNumber), zap.Error(err))
		return fmt.Errorf("failed to mark purchase order paid: %w", err)
	}
	return requireRowMatch(result)
}

// SetStatus flips the status, conditional on the expected prior status.
func (r *PurchaseOrderRepository) SetStatus(ctx context.Context, poNumber, fromStatus, toStatus string, at time.Time) error {
	query := `UPDATE purchase_orders SET status = ?, updated_at = ? WHERE po_number = ? AND status = ?`
	result, err := r.db.Executor(ctx).ExecContext(ctx, query, toStatus, at, poNumber, fromStatus)
	if err != nil {
		r.logger.Error("Failed to set purchase order status", zap.String("po_number", poNumber), zap.Error(err))
		return fmt.Errorf("failed to set purchase order status: %w", err)
	}
	return requireRowMatch(result)
}

func scanPurchaseOrder(row rowScanner) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	var lineItems, attachments string
	var materialRequestID, vendor, message sql.NullString
	var deliveryDate, paidDate sql.NullTime

	err := row.Scan(
		&po.PONumber, &materialRequestID, &vendor, &lineItems, &po.TotalAmount,
		&po.Status, &deliveryDate, &paidDate, &message, &attachments,
		&po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(lineItems), &po.LineItems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal line items: %w", err)
	}
	if err := json.Unmarshal([]byte(attachments), &po.Attachments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attachments: %w", err)
	}

	po.MaterialRequestID = materialRequestID.String
	po.Vendor = vendor.String
	po.Message = message.String
	po.DeliveryDate = nullableTime(deliveryDate)
	po.PaidDate = nullableTime(paidDate)
	return &po, nil
}

var _ port.PurchaseOrderRepository = (*PurchaseOrderRepository)(nil)
