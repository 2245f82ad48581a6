package service_test

import (
	"context"
	"time"

	"github.com/gokulprasathd90/event-ticketing/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, id uuid.UUID, params model.UpdateUserParams) (*model.User, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

type mockEventRepository struct {
	mock.Mock
}

func (m *mockEventRepository) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *mockEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *mockEventRepository) ListPublished(ctx context.Context, filter model.EventFilter, page, limit int) ([]*model.Event, int, error) {
	args := m.Called(ctx, filter, page, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.Event), args.Int(1), args.Error(2)
}

func (m *mockEventRepository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.Event, error) {
	args := m.Called(ctx, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *mockEventRepository) Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *mockEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockEventRepository) Stats(ctx context.Context, eventID uuid.UUID) (*model.EventStats, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventStats), args.Error(1)
}

func (m *mockEventRepository) FindForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *mockEventRepository) FindTicketType(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, name string) (*model.TicketType, error) {
	args := m.Called(ctx, tx, eventID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketType), args.Error(1)
}

func (m *mockEventRepository) IncrementSold(ctx context.Context, tx pgx.Tx, ticketTypeID uuid.UUID, quantity int) error {
	args := m.Called(ctx, tx, ticketTypeID, quantity)
	return args.Error(0)
}

func (m *mockEventRepository) ReleaseSold(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, name string, quantity int) error {
	args := m.Called(ctx, tx, eventID, name, quantity)
	return args.Error(0)
}

type mockRegistrationRepository struct {
	mock.Mock
}

func (m *mockRegistrationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Registration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *mockRegistrationRepository) ListForUser(ctx context.Context, userID uuid.UUID, status model.RegistrationStatus, page, limit int) ([]*model.Registration, int, error) {
	args := m.Called(ctx, userID, status, page, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.Registration), args.Int(1), args.Error(2)
}

func (m *mockRegistrationRepository) CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *mockRegistrationRepository) UpdateSpecialRequests(ctx context.Context, id uuid.UUID, text *string) (*model.Registration, error) {
	args := m.Called(ctx, id, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *mockRegistrationRepository) UpdateCheckIn(ctx context.Context, id uuid.UUID, status model.CheckInStatus, at time.Time) (*model.Registration, error) {
	args := m.Called(ctx, id, status, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *mockRegistrationRepository) Create(ctx context.Context, tx pgx.Tx, reg *model.Registration) (*model.Registration, error) {
	args := m.Called(ctx, tx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *mockRegistrationRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Registration, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *mockRegistrationRepository) HasActivePair(ctx context.Context, tx pgx.Tx, userID, eventID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tx, userID, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRegistrationRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.RegistrationStatus, paymentStatus model.PaymentStatus) (*model.Registration, error) {
	args := m.Called(ctx, tx, id, status, paymentStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *mockRegistrationRepository) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

type mockEventCache struct {
	mock.Mock
}

func (m *mockEventCache) Get(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *mockEventCache) Set(ctx context.Context, event *model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockEventCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// noopEventCache always misses. Used where caching is irrelevant to the test.
type noopEventCache struct{}

func (noopEventCache) Get(ctx context.Context, id uuid.UUID) (*model.Event, error) { return nil, nil }
func (noopEventCache) Set(ctx context.Context, event *model.Event) error           { return nil }
func (noopEventCache) Invalidate(ctx context.Context, id uuid.UUID) error          { return nil }
