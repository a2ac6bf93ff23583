package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
	"github.com/EmmaDeil/steps-ops-backend/pkg/database"
)

// TravelRequestRepository implements port.TravelRequestRepository over SQLite.
type TravelRequestRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewTravelRequestRepository creates a new travel request repository.
func NewTravelRequestRepository(db *database.DB, logger *zap.Logger) port.TravelRequestRepository {
	return &TravelRequestRepository{db: db, logger: logger}
}

const travelColumns = `
	id, employee_id, manager_id, destination, purpose, from_date, to_date,
	number_of_days, number_of_nights, budget, status,
	manager_comments, manager_approved_at, manager_rejected_at,
	ticket_booked, hotel_booked, ticket_reference, hotel_reference, booked_at,
	created_at, updated_at
`

// Create inserts a new travel request.
func (r *TravelRequestRepository) Create(ctx context.Context, req *entity.TravelRequest) error {
	query := `
		INSERT INTO travel_requests (
			id, employee_id, manager_id, destination, purpose, from_date,
			to_date, number_of_days, number_of_nights, budget, status,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		req.ID, req.EmployeeID, req.ManagerID, req.Destination, req.Purpose,
		req.FromDate, req.ToDate, req.NumberOfDays, req.NumberOfNights,
		req.Budget, req.Status, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create travel request", zap.String("id", req.ID), zap.Error(err))
		return fmt.Errorf("failed to create travel request: %w", err)
	}
	return nil
}

// GetByID retrieves a travel request by id.
func (r *TravelRequestRepository) GetByID(ctx context.Context, id string) (*entity.TravelRequest, error) {
	query := `SELECT ` + travelColumns + ` FROM travel_requests WHERE id = ?`
	req, err := scanTravelRequest(r.db.Executor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, port.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get travel request", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get travel request: %w", err)
	}
	return req, nil
}

// ListByStatus lists travel requests, newest first. Empty status lists all.
func (r *TravelRequestRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.TravelRequest, error) {
	query := `SELECT ` + travelColumns + ` FROM travel_requests`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list travel requests: %w", err)
	}
	defer rows.Close()

	var reqs []*entity.TravelRequest
	for rows.Next() {
		req, err := scanTravelRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan travel request: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// ApplyDecision stamps the manager stage and flips the status, conditional
// on the expected prior status.
func (r *TravelRequestRepository) ApplyDecision(ctx context.Context, id, fromStatus, toStatus string, d port.StageDecision) error {
	var query string
	if d.Approved {
		query = `UPDATE travel_requests SET status = ?, manager_comments = ?, manager_approved_at = ?, updated_at = ? WHERE id = ? AND status = ?`
	} else {
		query = `UPDATE travel_requests SET status = ?, manager_comments = ?, manager_rejected_at = ?, updated_at = ? WHERE id = ? AND status = ?`
	}

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		toStatus, d.Comments, d.At, d.At, id, fromStatus)
	if err != nil {
		r.logger.Error("Failed to apply travel decision", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to apply travel decision: %w", err)
	}
	return requireRowMatch(result)
}

// SetBooked stamps booking details, conditional on the expected prior status.
func (r *TravelRequestRepository) SetBooked(ctx context.Context, id, fromStatus, toStatus string, details entity.BookingDetails) error {
	query := `
		UPDATE travel_requests
		SET status = ?, ticket_booked = ?, hotel_booked = ?,
			ticket_reference = ?, hotel_reference = ?, booked_at = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`
	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		toStatus, details.TicketBooked, details.HotelBooked,
		details.TicketReference, details.HotelReference, details.BookedAt, details.BookedAt,
		id, fromStatus)
	if err != nil {
		r.logger.Error("Failed to set travel booked", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to set travel booked: %w", err)
	}
	return requireRowMatch(result)
}

// SetStatus flips the status, conditional on the expected prior status.
func (r *TravelRequestRepository) SetStatus(ctx context.Context, id, fromStatus, toStatus string, at time.Time) error {
	query := `UPDATE travel_requests SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	result, err := r.db.Executor(ctx).ExecContext(ctx, query, toStatus, at, id, fromStatus)
	if err != nil {
		r.logger.Error("Failed to set travel status", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to set travel status: %w", err)
	}
	return requireRowMatch(result)
}

func scanTravelRequest(row rowScanner) (*entity.TravelRequest, error) {
	var req entity.TravelRequest
	var managerComments, ticketRef, hotelRef sql.NullString
	var managerApprovedAt, managerRejectedAt, bookedAt sql.NullTime

	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.ManagerID, &req.Destination, &req.Purpose,
		&req.FromDate, &req.ToDate, &req.NumberOfDays, &req.NumberOfNights,
		&req.Budget, &req.Status,
		&managerComments, &managerApprovedAt, &managerRejectedAt,
		&req.BookingDetails.TicketBooked, &req.BookingDetails.HotelBooked,
		&ticketRef, &hotelRef, &bookedAt,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.ManagerComments = managerComments.String
	req.ManagerApprovedAt = nullableTime(managerApprovedAt)
	req.ManagerRejectedAt = nullableTime(managerRejectedAt)
	req.BookingDetails.TicketReference = ticketRef.String
	req.BookingDetails.HotelReference = hotelRef.String
	req.BookingDetails.BookedAt = nullableTime(bookedAt)
	return &req, nil
}

var _ port.TravelRequestRepository = (*TravelRequestRepository)(nil)
