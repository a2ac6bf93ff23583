package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
	domainwf "github.com/EmmaDeil/steps-ops-backend/internal/domain/workflow"
)

func pendingBookingTravel() *entity.TravelRequest {
	return &entity.TravelRequest{
		ID:          "tr-1",
		EmployeeID:  "emp-1",
		ManagerID:   "mgr-1",
		Destination: "Berlin",
		FromDate:    time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		ToDate:      time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC),
		Status:      entity.TravelStatusPendingBooking,
	}
}

func newTravelService(travels *mockTravelRepo, audits *mockAuditRepo) (*TravelService, *mockNotifier) {
	notifier := &mockNotifier{}
	hooks := newTestHooks(audits, &mockEmployeeRepo{}, notifier)
	svc := NewTravelService(travels, hooks, mockTx{}, zap.NewNop())
	return svc, notifier
}

func TestTravelService_Create(t *testing.T) {
	var created *entity.TravelRequest
	travels := &mockTravelRepo{
		createFunc: func(ctx context.Context, req *entity.TravelRequest) error {
			created = req
			return nil
		},
	}
	svc, _ := newTravelService(travels, &mockAuditRepo{})

	in := CreateTravelInput{
		EmployeeID:  "emp-1",
		ManagerID:   "mgr-1",
		Destination: "Berlin",
		FromDate:    time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		ToDate:      time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC),
		Budget:      1200,
	}
	req, err := svc.Create(context.Background(), in, entity.Actor{ID: "emp-1", Role: entity.RoleEmployee})
	require.NoError(t, err)

	assert.Equal(t, entity.TravelStatusPendingManager, req.Status)
	require.NotNil(t, created)
	assert.Equal(t, "Berlin", created.Destination)
}

func TestTravelService_CreateValidation(t *testing.T) {
	svc, _ := newTravelService(&mockTravelRepo{}, &mockAuditRepo{})
	actor := entity.Actor{ID: "emp-1", Role: entity.RoleEmployee}

	_, err := svc.Create(context.Background(), CreateTravelInput{ManagerID: "m", Destination: "x"}, actor)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), CreateTravelInput{EmployeeID: "e", ManagerID: "m"}, actor)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTravelService_ManagerApprove(t *testing.T) {
	var to string
	travels := &mockTravelRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.TravelRequest, error) {
			req := pendingBookingTravel()
			req.Status = entity.TravelStatusPendingManager
			return req, nil
		},
		applyDecisionFunc: func(ctx context.Context, id, fromStatus, toStatus string, d port.StageDecision) error {
			to = toStatus
			return nil
		},
	}
	svc, notifier := newTravelService(travels, &mockAuditRepo{})

	_, err := svc.ManagerDecision(context.Background(), "tr-1",
		entity.Actor{ID: "mgr-1", Role: entity.RoleManager}, true, "fine")
	require.NoError(t, err)
	assert.Equal(t, entity.TravelStatusPendingBooking, to)
	assert.Len(t, notifier.sent, 1)
}

func TestTravelService_BookStampsReferences(t *testing.T) {
	var booked entity.BookingDetails
	travels := &mockTravelRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.TravelRequest, error) {
			return pendingBookingTravel(), nil
		},
		setBookedFunc: func(ctx context.Context, id, fromStatus, toStatus string, details entity.BookingDetails) error {
			booked = details
			assert.Equal(t, entity.TravelStatusBooked, toStatus)
			return nil
		},
	}
	svc, _ := newTravelService(travels, &mockAuditRepo{})

	in := BookTravelInput{
		TicketBooked:    true,
		HotelBooked:     true,
		TicketReference: "TK-9912",
		HotelReference:  "HB-3341",
	}
	_, err := svc.Book(context.Background(), "tr-1",
		entity.Actor{ID: "hr-1", Role: entity.RoleHR}, in)
	require.NoError(t, err)

	assert.True(t, booked.TicketBooked)
	assert.Equal(t, "TK-9912", booked.TicketReference)
	assert.Equal(t, "HB-3341", booked.HotelReference)
	require.NotNil(t, booked.BookedAt)
}

func TestTravelService_BookBeforeApproval(t *testing.T) {
	travels := &mockTravelRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.TravelRequest, error) {
			req := pendingBookingTravel()
			req.Status = entity.TravelStatusPendingManager
			return req, nil
		},
	}
	svc, _ := newTravelService(travels, &mockAuditRepo{})

	_, err := svc.Book(context.Background(), "tr-1",
		entity.Actor{ID: "hr-1", Role: entity.RoleHR}, BookTravelInput{})
	assert.ErrorIs(t, err, domainwf.ErrInvalidTransition)
}

func TestTravelService_CancelAfterBooked(t *testing.T) {
	travels := &mockTravelRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.TravelRequest, error) {
			req := pendingBookingTravel()
			req.Status = entity.TravelStatusBooked
			return req, nil
		},
	}
	svc, _ := newTravelService(travels, &mockAuditRepo{})

	_, err := svc.Cancel(context.Background(), "tr-1",
		entity.Actor{ID: "emp-1", Role: entity.RoleEmployee})
	assert.ErrorIs(t, err, domainwf.ErrInvalidTransition)
}

func TestTravelService_CompleteBookedTrip(t *testing.T) {
	var to string
	travels := &mockTravelRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.TravelRequest, error) {
			req := pendingBookingTravel()
			req.Status = entity.TravelStatusBooked
			return req, nil
		},
		setStatusFunc: func(ctx context.Context, id, fromStatus, toStatus string, at time.Time) error {
			to = toStatus
			return nil
		},
	}
	svc, _ := newTravelService(travels, &mockAuditRepo{})

	_, err := svc.Complete(context.Background(), "tr-1",
		entity.Actor{ID: "hr-1", Role: entity.RoleHR})
	require.NoError(t, err)
	assert.Equal(t, entity.TravelStatusCompleted, to)
}

func TestTravelService_ConcurrentBookingConflict(t *testing.T) {
	travels := &mockTravelRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.TravelRequest, error) {
			return pendingBookingTravel(), nil
		},
		setBookedFunc: func(ctx context.Context, id, fromStatus, toStatus string, details entity.BookingDetails) error {
			return port.ErrConflict
		},
	}
	svc, _ := newTravelService(travels, &mockAuditRepo{})

	_, err := svc.Book(context.Background(), "tr-1",
		entity.Actor{ID: "hr-1", Role: entity.RoleHR}, BookTravelInput{})
	assert.ErrorIs(t, err, domainwf.ErrInvalidTransition)
}
