package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/internal/application/workflow"
	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
	domainwf "github.com/EmmaDeil/steps-ops-backend/internal/domain/workflow"
)

// CreateMaterialInput carries the fields for a new material request.
type CreateMaterialInput struct {
	RequestedBy string                    `json:"requestedBy"`
	Department  string                    `json:"department"`
	LineItems   []entity.MaterialLineItem `json:"lineItems"`
	Message     string                    `json:"message"`
	Attachments []string                  `json:"attachments"`
}

// ReviewPOInput carries the optional revisions submitted with a purchase
// order review. A nil LineItems leaves the stored lines untouched (totals
// are still recomputed); an empty non-nil slice is a validation error.
type ReviewPOInput struct {
	LineItems    []entity.POLineItem `json:"lineItems"`
	Vendor       string              `json:"vendor"`
	DeliveryDate *time.Time          `json:"deliveryDate"`
}

// ProcurementService drives the material request workflow and the purchase
// orders derived from it.
type ProcurementService struct {
	materials port.MaterialRequestRepository
	orders    port.PurchaseOrderRepository
	sequences port.SequenceRepository
	mrRules   *workflow.Ruleset
	poRules   *workflow.Ruleset
	hooks     *Hooks
	tx        port.TransactionManager
	logger    *zap.Logger
}

// NewProcurementService creates the procurement workflow service.
func NewProcurementService(
	materials port.MaterialRequestRepository,
	orders port.PurchaseOrderRepository,
	sequences port.SequenceRepository,
	hooks *Hooks,
	tx port.TransactionManager,
	logger *zap.Logger,
) *ProcurementService {
	return &ProcurementService{
		materials: materials,
		orders:    orders,
		sequences: sequences,
		mrRules:   workflow.MaterialRules(),
		poRules:   workflow.PurchaseOrderRules(),
		hooks:     hooks,
		tx:        tx,
		logger:    logger,
	}
}

// CreateMaterialRequest validates and stores a new request in pending. The
// request identifier is drawn from an atomic sequence inside the same
// transaction as the insert.
func (s *ProcurementService) CreateMaterialRequest(ctx context.Context, in CreateMaterialInput, actor entity.Actor) (*entity.MaterialRequest, error) {
	if in.RequestedBy == "" {
		return nil, validationf("requestedBy is required")
	}
	if len(in.LineItems) == 0 {
		return nil, validationf("at least one line item is required")
	}
	for i, item := range in.LineItems {
		if item.ItemName == "" {
			return nil, validationf("lineItems[%d].itemName is required", i)
		}
		if item.Quantity <= 0 {
			return nil, validationf("lineItems[%d].quantity must be positive", i)
		}
	}

	now := time.Now()
	req := &entity.MaterialRequest{
		RequestedBy: in.RequestedBy,
		Department:  in.Department,
		LineItems:   in.LineItems,
		Message:     in.Message,
		Attachments: in.Attachments,
		Status:      entity.MaterialStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		seq, err := s.sequences.Next(txCtx, entity.SequenceMaterialRequest)
		if err != nil {
			return fmt.Errorf("next request id: %w", err)
		}
		req.RequestID = FormatRequestID(seq)
		if err := s.materials.Create(txCtx, req); err != nil {
			return fmt.Errorf("create material request: %w", err)
		}
		return s.hooks.RecordCreation(txCtx, entity.EntityTypeMaterialRequest, req.RequestID, req.Status, actor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Material request created",
		zap.String("request_id", req.RequestID),
		zap.String("requested_by", req.RequestedBy),
		zap.Int("line_items", len(req.LineItems)))
	return req, nil
}

// GetMaterialRequest returns a material request by id.
func (s *ProcurementService) GetMaterialRequest(ctx context.Context, id string) (*entity.MaterialRequest, error) {
	req, err := s.materials.GetByID(ctx, id)
	if errors.Is(err, port.ErrNotFound) {
		return nil, fmt.Errorf("%w: material request %s", ErrNotFound, id)
	}
	return req, err
}

// ListMaterialRequests returns material requests, optionally filtered by status.
func (s *ProcurementService) ListMaterialRequests(ctx context.Context, status string, limit, offset int) ([]*entity.MaterialRequest, error) {
	return s.materials.ListByStatus(ctx, status, limit, offset)
}

// ApproveMaterialRequest approves the request and spawns its purchase order.
// The status flip and the derived order are written in one transaction, so
// neither an orphan order nor an approved request without one can persist.
func (s *ProcurementService) ApproveMaterialRequest(ctx context.Context, id string, actor entity.Actor, vendorHint, comments string) (*entity.MaterialRequest, *entity.PurchaseOrder, error) {
	req, err := s.GetMaterialRequest(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	tr, err := s.mrRules.Apply(domainwf.State(req.Status), workflow.ActionApprove, actor.Role)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	var po *entity.PurchaseOrder

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.materials.Approve(txCtx, id, tr.From.String(), tr.To.String(), comments, now); err != nil {
			return asTransitionError(err, tr.From, tr.Action)
		}

		seq, err := s.sequences.Next(txCtx, entity.SequencePurchaseOrder)
		if err != nil {
			return fmt.Errorf("%w: next po number: %v", ErrDependencyFailure, err)
		}
		po = BuildPurchaseOrder(req, FormatPONumber(seq), vendorHint, now)
		if err := s.orders.Create(txCtx, po); err != nil {
			return fmt.Errorf("%w: create purchase order: %v", ErrDependencyFailure, err)
		}

		return s.hooks.RecordTransition(txCtx, tr, actor, id,
			fmt.Sprintf("purchase order %s spawned", po.PONumber))
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Material request approved",
		zap.String("request_id", id),
		zap.String("po_number", po.PONumber),
		zap.Float64("total_amount", po.TotalAmount))

	s.hooks.NotifyEmployee(ctx, req.RequestedBy,
		"Material request approved",
		fmt.Sprintf("Material request %s was approved; purchase order %s has been raised.", id, po.PONumber))

	updated, err := s.GetMaterialRequest(ctx, id)
	return updated, po, err
}

// RejectMaterialRequest rejects the request. A reason is required.
func (s *ProcurementService) RejectMaterialRequest(ctx context.Context, id string, actor entity.Actor, reason string) (*entity.MaterialRequest, error) {
	if reason == "" {
		return nil, validationf("rejection reason is required")
	}

	req, err := s.GetMaterialRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	tr, err := s.mrRules.Apply(domainwf.State(req.Status), workflow.ActionReject, actor.Role)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.materials.Reject(txCtx, id, tr.From.String(), tr.To.String(), reason, time.Now()); err != nil {
			return asTransitionError(err, tr.From, tr.Action)
		}
		return s.hooks.RecordTransition(txCtx, tr, actor, id, reason)
	})
	if err != nil {
		return nil, err
	}

	s.hooks.NotifyEmployee(ctx, req.RequestedBy,
		"Material request rejected",
		fmt.Sprintf("Material request %s was rejected: %s", id, reason))

	return s.GetMaterialRequest(ctx, id)
}

// GetPurchaseOrder returns a purchase order by number.
func (s *ProcurementService) GetPurchaseOrder(ctx context.Context, poNumber string) (*entity.PurchaseOrder, error) {
	po, err := s.orders.GetByID(ctx, poNumber)
	if errors.Is(err, port.ErrNotFound) {
		return nil, fmt.Errorf("%w: purchase order %s", ErrNotFound, poNumber)
	}
	return po, err
}

// ListPurchaseOrders returns purchase orders, optionally filtered by status.
func (s *ProcurementService) ListPurchaseOrders(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	return s.orders.List(ctx, status, limit, offset)
}

// exportPageSize is how many orders AllPurchaseOrders pulls per page.
const exportPageSize = 200

// AllPurchaseOrders pages through every purchase order matching the status
// filter. Used by the export, which must not truncate.
func (s *ProcurementService) AllPurchaseOrders(ctx context.Context, status string) ([]*entity.PurchaseOrder, error) {
	var all []*entity.PurchaseOrder
	for offset := 0; ; offset += exportPageSize {
		page, err := s.orders.List(ctx, status, exportPageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < exportPageSize {
			return all, nil
		}
	}
}

// ReviewPurchaseOrder applies the review transition, recomputing all line
// totals and the order total from the possibly edited line items.
func (s *ProcurementService) ReviewPurchaseOrder(ctx context.Context, poNumber string, actor entity.Actor, in ReviewPOInput) (*entity.PurchaseOrder, error) {
	po, err := s.GetPurchaseOrder(ctx, poNumber)
	if err != nil {
		return nil, err
	}

	tr, err := s.poRules.Apply(domainwf.State(po.Status), workflow.ActionReview, actor.Role)
	if err != nil {
		return nil, err
	}

	items := po.LineItems
	if in.LineItems != nil {
		if len(in.LineItems) == 0 {
			return nil, validationf("revised line items must not be empty")
		}
		items = in.LineItems
	}
	items = NormalizeLineItems(items)
	total := entity.SumLineItems(items)

	vendor := po.Vendor
	if in.Vendor != "" {
		vendor = in.Vendor
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.orders.Review(txCtx, poNumber, tr.From.String(), tr.To.String(), items, total, vendor, in.DeliveryDate, time.Now()); err != nil {
			return asTransitionError(err, tr.From, tr.Action)
		}
		return s.hooks.RecordTransition(txCtx, tr, actor, poNumber,
			fmt.Sprintf("reviewed, total %.2f", total))
	})
	if err != nil {
		return nil, err
	}

	return s.GetPurchaseOrder(ctx, poNumber)
}

// MarkPurchaseOrderPaid stamps the paid date and moves the order to paid.
func (s *ProcurementService) MarkPurchaseOrderPaid(ctx context.Context, poNumber string, actor entity.Actor) (*entity.PurchaseOrder, error) {
	po, err := s.GetPurchaseOrder(ctx, poNumber)
	if err != nil {
		return nil, err
	}

	tr, err := s.poRules.Apply(domainwf.State(po.Status), workflow.ActionMarkPaid, actor.Role)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.orders.MarkPaid(txCtx, poNumber, tr.From.String(), tr.To.String(), now); err != nil {
			return asTransitionError(err, tr.From, tr.Action)
		}
		return s.hooks.RecordTransition(txCtx, tr, actor, poNumber, "payment issued")
	})
	if err != nil {
		return nil, err
	}

	if mr := po.MaterialRequestID; mr != "" {
		if src, err := s.materials.GetByID(ctx, mr); err == nil {
			s.hooks.NotifyEmployee(ctx, src.RequestedBy,
				"Purchase order paid",
				fmt.Sprintf("Purchase order %s (total %.2f) has been paid.", poNumber, po.TotalAmount))
		}
	}

	return s.GetPurchaseOrder(ctx, poNumber)
}

// MarkPurchaseOrderReceived records goods receipt on a paid order.
func (s *ProcurementService) MarkPurchaseOrderReceived(ctx context.Context, poNumber string, actor entity.Actor) (*entity.PurchaseOrder, error) {
	return s.setPOStatus(ctx, poNumber, actor, workflow.ActionMarkReceived, "goods received")
}

// CancelPurchaseOrder cancels an order before review completes.
func (s *ProcurementService) CancelPurchaseOrder(ctx context.Context, poNumber string, actor entity.Actor) (*entity.PurchaseOrder, error) {
	return s.setPOStatus(ctx, poNumber, actor, workflow.ActionCancel, "order cancelled")
}

func (s *ProcurementService) setPOStatus(ctx context.Context, poNumber string, actor entity.Actor, action domainwf.Trigger, description string) (*entity.PurchaseOrder, error) {
	po, err := s.GetPurchaseOrder(ctx, poNumber)
	if err != nil {
		return nil, err
	}

	tr, err := s.poRules.Apply(domainwf.State(po.Status), action, actor.Role)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.orders.SetStatus(txCtx, poNumber, tr.From.String(), tr.To.String(), time.Now()); err != nil {
			return asTransitionError(err, tr.From, tr.Action)
		}
		return s.hooks.RecordTransition(txCtx, tr, actor, poNumber, description)
	})
	if err != nil {
		return nil, err
	}

	return s.GetPurchaseOrder(ctx, poNumber)
}
