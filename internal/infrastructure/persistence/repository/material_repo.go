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

// MaterialRequestRepository implements port.MaterialRequestRepository over
// SQLite. Line items and attachments are stored as JSON columns.
type MaterialRequestRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewMaterialRequestRepository creates a new material request repository.
func NewMaterialRequestRepository(db *database.DB, logger *zap.Logger) port.MaterialRequestRepository {
	return &MaterialRequestRepository{db: db, logger: logger}
}

const materialColumns = `
	request_id, requested_by, department, line_items, message, attachments,
	status, approver_comments, rejection_reason, approved_at, rejected_at,
	created_at, updated_at
`

// Create inserts a new material request.
func (r *MaterialRequestRepository) Create(ctx context.Context, req *entity.MaterialRequest) error {
	lineItems, err := json.Marshal(req.LineItems)
	if err != nil {
		return fmt.Errorf("failed to marshal line items: %w", err)
	}
	attachments, err := json.Marshal(req.Attachments)
	if err != nil {
		return fmt.Errorf("failed to marshal attachments: %w", err)
	}

	query := `
		INSERT INTO material_requests (
			request_id, requested_by, department, line_items, message,
			attachments, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Executor(ctx).ExecContext(ctx, query,
		req.RequestID, req.RequestedBy, req.Department, string(lineItems),
		req.Message, string(attachments), req.Status, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create material request", zap.String("request_id", req.RequestID), zap.Error(err))
		return fmt.Errorf("failed to create material request: %w", err)
	}
	return nil
}

// GetByID retrieves a material request by request id.
func (r *MaterialRequestRepository) GetByID(ctx context.Context, id string) (*entity.MaterialRequest, error) {
	query := `SELECT ` + materialColumns + ` FROM material_requests WHERE request_id = ?`
	req, err := scanMaterialRequest(r.db.Executor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, port.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get material request", zap.String("request_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get material request: %w", err)
	}
	return req, nil
}

// ListByStatus lists material requests, newest first. Empty status lists all.
func (r *MaterialRequestRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.MaterialRequest, error) {
	query := `SELECT ` + materialColumns + ` FROM material_requests`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list material requests: %w", err)
	}
	defer rows.Close()

	var reqs []*entity.MaterialRequest
	for rows.Next() {
		req, err := scanMaterialRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan material request: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// Approve flips the status and stamps approval, conditional on the expected
// prior status.
func (r *MaterialRequestRepository) Approve(ctx context.Context, id, fromStatus, toStatus, comments string, at time.Time) error {
	query := `
		UPDATE material_requests
		SET status = ?, approver_comments = ?, approved_at = ?, updated_at = ?
		WHERE request_id = ? AND status = ?
	`
	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		toStatus, comments, at, at, id, fromStatus)
	if err != nil {
		r.logger.Error("Failed to approve material request", zap.String("request_id", id), zap.Error(err))
		return fmt.Errorf("failed to approve material request: %w", err)
	}
	return requireRowMatch(result)
}

// Reject flips the status and stamps the rejection reason, conditional on
// the expected prior status.
func (r *MaterialRequestRepository) Reject(ctx context.Context, id, fromStatus, toStatus, reason string, at time.Time) error {
	query := `
		UPDATE material_requests
		SET status = ?, rejection_reason = ?, rejected_at = ?, updated_at = ?
		WHERE request_id = ? AND status = ?
	`
	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		toStatus, reason, at, at, id, fromStatus)
	if err != nil {
		r.logger.Error("Failed to reject material request", zap.String("request_id", id), zap.Error(err))
		return fmt.Errorf("failed to reject material request: %w", err)
	}
	return requireRowMatch(result)
}

func scanMaterialRequest(row rowScanner) (*entity.MaterialRequest, error) {
	var req entity.MaterialRequest
	var lineItems, attachments string
	var comments, reason sql.NullString
	var approvedAt, rejectedAt sql.NullTime

	err := row.Scan(
		&req.RequestID, &req.RequestedBy, &req.Department, &lineItems,
		&req.Message, &attachments, &req.Status, &comments, &reason,
		&approvedAt, &rejectedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(lineItems), &req.LineItems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal line items: %w", err)
	}
	if err := json.Unmarshal([]byte(attachments), &req.Attachments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attachments: %w", err)
	}

	req.ApproverComments = comments.String
	req.RejectionReason = reason.String
	req.ApprovedAt = nullableTime(approvedAt)
	req.RejectedAt = nullableTime(rejectedAt)
	return &req, nil
}

var _ port.MaterialRequestRepository = (*MaterialRequestRepository)(nil)
