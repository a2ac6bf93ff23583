package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/internal/application/workflow"
	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
	domainwf "github.com/EmmaDeil/steps-ops-backend/internal/domain/workflow"
)

// CreateTravelInput carries the fields for a new travel request.
type CreateTravelInput struct {
	EmployeeID     string    `json:"employeeId"`
	ManagerID      string    `json:"managerId"`
	Destination    string    `json:"destination"`
	Purpose        string    `json:"purpose"`
	FromDate       time.Time `json:"fromDate"`
	ToDate         time.Time `json:"toDate"`
	NumberOfDays   int       `json:"numberOfDays"`
	NumberOfNights int       `json:"numberOfNights"`
	Budget         float64   `json:"budget"`
}

// BookTravelInput carries the booking references recorded by the travel desk.
type BookTravelInput struct {
	TicketBooked    bool   `json:"ticketBooked"`
	HotelBooked     bool   `json:"hotelBooked"`
	TicketReference string `json:"ticketReference"`
	HotelReference  string `json:"hotelReference"`
}

// TravelService drives the travel approval and booking workflow.
type TravelService struct {
	travels port.TravelRequestRepository
	rules   *workflow.Ruleset
	hooks   *Hooks
	tx      port.TransactionManager
	logger  *zap.Logger
}

// NewTravelService creates the travel workflow service.
func NewTravelService(travels port.TravelRequestRepository, hooks *Hooks, tx port.TransactionManager, logger *zap.Logger) *TravelService {
	return &TravelService{
		travels: travels,
		rules:   workflow.TravelRules(),
		hooks:   hooks,
		tx:      tx,
		logger:  logger,
	}
}

// Create validates and stores a new travel request in pending_manager.
func (s *TravelService) Create(ctx context.Context, in CreateTravelInput, actor entity.Actor) (*entity.TravelRequest, error) {
	if in.EmployeeID == "" {
		return nil, validationf("employeeId is required")
	}
	if in.ManagerID == "" {
		return nil, validationf("managerId is required")
	}
	if in.Destination == "" {
		return nil, validationf("destination is required")
	}
	if in.ToDate.Before(in.FromDate) {
		return nil, validationf("toDate must not precede fromDate")
	}

	now := time.Now()
	req := &entity.TravelRequest{
		ID:             uuid.NewString(),
		EmployeeID:     in.EmployeeID,
		ManagerID:      in.ManagerID,
		Destination:    in.Destination,
		Purpose:        in.Purpose,
		FromDate:       in.FromDate,
		ToDate:         in.ToDate,
		NumberOfDays:   in.NumberOfDays,
		NumberOfNights: in.NumberOfNights,
		Budget:         in.Budget,
		Status:         entity.TravelStatusPendingManager,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.travels.Create(txCtx, req); err != nil {
			return fmt.Errorf("create travel request: %w", err)
		}
		return s.hooks.RecordCreation(txCtx, entity.EntityTypeTravelRequest, req.ID, req.Status, actor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Travel request created",
		zap.String("id", req.ID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("destination", req.Destination))
	return req, nil
}

// Get returns a travel request by id.
func (s *TravelService) Get(ctx context.Context, id string) (*entity.TravelRequest, error) {
	req, err := s.travels.GetByID(ctx, id)
	if errors.Is(err, port.ErrNotFound) {
		return nil, fmt.Errorf("%w: travel request %s", ErrNotFound, id)
	}
	return req, err
}

// List returns travel requests, optionally filtered by status.
func (s *TravelService) List(ctx context.Context, status string, limit, offset int) ([]*entity.TravelRequest, error) {
	return s.travels.ListByStatus(ctx, status, limit, offset)
}

// ManagerDecision applies the manager stage: approve moves the request to
// pending_booking, reject is terminal.
func (s *TravelService) ManagerDecision(ctx context.Context, id string, actor entity.Actor, approve bool, comments string) (*entity.TravelRequest, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	action := workflow.ActionManagerReject
	if approve {
		action = workflow.ActionManagerApprove
	}
	tr, err := s.rules.Apply(domainwf.State(req.Status), action, actor.Role)
	if err != nil {
		return nil, err
	}

	decision := port.StageDecision{Stage: "manager", Approved: approve, Comments: comments, At: time.Now()}
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.travels.ApplyDecision(txCtx, id, tr.From.String(), tr.To.String(), decision); err != nil {
			return asTransitionError(err, tr.From, tr.Action)
		}
		return s.hooks.RecordTransition(txCtx, tr, actor, id, comments)
	})
	if err != nil {
		return nil, err
	}

	verb := "rejected"
	if approve {
		verb = "approved"
	}
	s.hooks.NotifyEmployee(ctx, req.EmployeeID,
		fmt.Sprintf("Travel request %s", verb),
		fmt.Sprintf("Your travel request to %s (%s) has been %s by your manager.", req.Destination, id, verb))

	return s.Get(ctx, id)
}

// Book stamps booking details onto an approved request. Only legal from
// pending_booking.
func (s *TravelService) Book(ctx context.Context, id string, actor entity.Actor, in BookTravelInput) (*entity.TravelRequest, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	tr, err := s.rules.Apply(domainwf.State(req.Status), workflow.ActionBook, actor.Role)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	details := entity.BookingDetails{
		TicketBooked:    in.TicketBooked,
		HotelBooked:     in.HotelBooked,
		TicketReference: in.TicketReference,
		HotelReference:  in.HotelReference,
		BookedAt:        &now,
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.travels.SetBooked(txCtx, id, tr.From.String(), tr.To.String(), details); err != nil {
			return asTransitionError(err, tr.From, tr.Action)
		}
		return s.hooks.RecordTransition(txCtx, tr, actor, id, "travel booked")
	})
	if err != nil {
		return nil, err
	}

	s.hooks.NotifyEmployee(ctx, req.EmployeeID,
		"Travel booked",
		fmt.Sprintf("Your travel to %s has been booked (ticket: %s, hotel: %s).", req.Destination, in.TicketReference, in.HotelReference))

	return s.Get(ctx, id)
}

// Complete marks a booked trip as completed.
func (s *TravelService) Complete(ctx context.Context, id string, actor entity.Actor) (*entity.TravelRequest, error) {
	return s.setStatus(ctx, id, actor, workflow.ActionComplete, "travel completed")
}

// Cancel cancels a request before booking is finalized.
func (s *TravelService) Cancel(ctx context.Context, id string, actor entity.Actor) (*entity.TravelRequest, error) {
	return s.setStatus(ctx, id, actor, workflow.ActionCancel, "travel cancelled")
}

func (s *TravelService) setStatus(ctx context.Context, id string, actor entity.Actor, action domainwf.Trigger, description string) (*entity.TravelRequest, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	tr, err := s.rules.Apply(domainwf.State(req.Status), action, actor.Role)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.travels.SetStatus(txCtx, id, tr.From.String(), tr.To.String(), time.Now()); err != nil {
			return asTransitionError(err, tr.From, tr.Action)
		}
		return s.hooks.RecordTransition(txCtx, tr, actor, id, description)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}
