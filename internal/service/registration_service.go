package service

import (
	"context"
	"errors"
	"time"

	"github.com/gokulprasathd90/event-ticketing/internal/cache"
	"github.com/gokulprasathd90/event-ticketing/internal/model"
	"github.com/gokulprasathd90/event-ticketing/internal/repository"
	apperrors "github.com/gokulprasathd90/event-ticketing/pkg/app_errors"
	"github.com/gokulprasathd90/event-ticketing/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// RegistrationService is the reservation engine: the only writer to the
// ticket-type sold counters, and the only place the Event Catalog and the
// Registration Ledger are mutated together. Every mutation here runs in a
// single transaction, so the two writes are never observed partially applied.
type RegistrationService interface {
	Reserve(ctx context.Context, userID uuid.UUID, req model.CreateRegistrationRequest) (*model.Registration, error)
	Cancel(ctx context.Context, id, userID uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	Confirm(ctx context.Context, id, userID uuid.UUID) (*model.Registration, error)
	UpdateSpecialRequests(ctx context.Context, id, userID uuid.UUID, text *string) (*model.Registration, error)
	CheckIn(ctx context.Context, id, organizerID uuid.UUID) (*model.Registration, error)
	ListForUser(ctx context.Context, userID uuid.UUID, status model.RegistrationStatus, page, limit int) ([]*model.Registration, model.Pagination, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*model.Registration, error)
}

type RegistrationServiceImpl struct {
	pool       *pgxpool.Pool
	repository repository.RegistrationRepository
	events     repository.EventRepository
	eventCache cache.EventCache
}

func NewRegistrationService(
	pool *pgxpool.Pool,
	registrationRepository repository.RegistrationRepository,
	eventRepository repository.EventRepository,
	eventCache cache.EventCache,
) RegistrationService {
	return &RegistrationServiceImpl{
		pool:       pool,
		repository: registrationRepository,
		events:     eventRepository,
		eventCache: eventCache,
	}
}

// Reserve admits a registration against the event's ticket-type capacity.
// Validation order: event exists, event published, no active registration for
// the (user, event) pair, ticket type exists, capacity suffices. The capacity
// check and the decision are one conditional UPDATE; the partial unique index
// on the pair backstops the duplicate check under concurrency.
func (s *RegistrationServiceImpl) Reserve(ctx context.Context, userID uuid.UUID, req model.CreateRegistrationRequest) (*model.Registration, error) {
	if !req.PaymentMethod.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}
	if req.Quantity < 1 {
		return nil, apperrors.ErrInvalidInput
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	event, err := s.events.FindForUpdate(ctx, tx, req.EventID)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventStatusPublished {
		return nil, apperrors.ErrEventNotPublished
	}

	exists, err := s.repository.HasActivePair(ctx, tx, userID, req.EventID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrAlreadyRegistered
	}

	ticketType, err := s.events.FindTicketType(ctx, tx, req.EventID, req.TicketTypeName)
	if err != nil {
		if errors.Is(err, apperrors.ErrTicketTypeNotFound) {
			return nil, apperrors.ErrInvalidInput
		}
		return nil, err
	}

	if err := s.events.IncrementSold(ctx, tx, ticketType.ID, req.Quantity); err != nil {
		return nil, err
	}

	// Snapshot name and price from the locked row, not from the client.
	reg := &model.Registration{
		UserID:  userID,
		EventID: req.EventID,
		Ticket: model.TicketSnapshot{
			Name:     ticketType.Name,
			Price:    ticketType.Price,
			Quantity: req.Quantity,
		},
		TotalAmount:     ticketType.Price * float64(req.Quantity),
		Status:          model.RegistrationStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		PaymentMethod:   req.PaymentMethod,
		SpecialRequests: req.SpecialRequests,
	}

	created, err := s.repository.Create(ctx, tx, reg)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.invalidateEvent(ctx, req.EventID)
	return created, nil
}

// Cancel releases the registration's inventory and marks it cancelled.
func (s *RegistrationServiceImpl) Cancel(ctx context.Context, id, userID uuid.UUID) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	reg, err := s.repository.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}
	if reg.UserID != userID {
		return apperrors.ErrForbidden
	}
	switch reg.Status {
	case model.RegistrationStatusCancelled:
		return apperrors.ErrAlreadyCancelled
	case model.RegistrationStatusRefunded:
		return apperrors.ErrAlreadyRefunded
	}

	if err := s.releaseInventory(ctx, tx, reg); err != nil {
		return err
	}

	if _, err := s.repository.UpdateStatus(ctx, tx, id, model.RegistrationStatusCancelled, reg.PaymentStatus); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.invalidateEvent(ctx, reg.EventID)
	return nil
}

// Delete hard-removes a pending registration after releasing its inventory.
func (s *RegistrationServiceImpl) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	reg, err := s.repository.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}
	if reg.UserID != userID {
		return apperrors.ErrForbidden
	}
	if reg.Status != model.RegistrationStatusPending {
		return apperrors.ErrRegistrationNotPending
	}

	if err := s.releaseInventory(ctx, tx, reg); err != nil {
		return err
	}

	if err := s.repository.Delete(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.invalidateEvent(ctx, reg.EventID)
	return nil
}

// releaseInventory gives the registration's snapshot quantity back to the
// parent event's ticket type, floored at zero. A missing event or ticket type
// is a data-integrity anomaly: it is logged and the registration mutation
// still proceeds.
func (s *RegistrationServiceImpl) releaseInventory(ctx context.Context, tx pgx.Tx, reg *model.Registration) error {
	err := s.events.ReleaseSold(ctx, tx, reg.EventID, reg.Ticket.Name, reg.Ticket.Quantity)
	if err != nil {
		if errors.Is(err, apperrors.ErrTicketTypeNotFound) {
			logger.WithComponent("reservation").Warn("inventory rollback skipped: ticket type missing",
				zap.String("registration_id", reg.ID.String()),
				zap.String("event_id", reg.EventID.String()),
				zap.String("ticket_name", reg.Ticket.Name),
			)
			return nil
		}
		return err
	}
	return nil
}

func (s *RegistrationServiceImpl) Confirm(ctx context.Context, id, userID uuid.UUID) (*model.Registration, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	reg, err := s.repository.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if reg.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	if !reg.Status.CanTransitionTo(model.RegistrationStatusConfirmed) {
		return nil, apperrors.ErrInvalidStatusChange
	}

	// Payment is simulated: confirming marks the payment completed.
	updated, err := s.repository.UpdateStatus(ctx, tx, id, model.RegistrationStatusConfirmed, model.PaymentStatusCompleted)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateSpecialRequests is the only field edit allowed on a registration.
// Quantity, ticket type and status changes go through Cancel/Delete plus a new
// Reserve.
func (s *RegistrationServiceImpl) UpdateSpecialRequests(ctx context.Context, id, userID uuid.UUID, text *string) (*model.Registration, error) {
	reg, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	if reg.Status != model.RegistrationStatusPending {
		return nil, apperrors.ErrRegistrationNotPending
	}

	return s.repository.UpdateSpecialRequests(ctx, id, text)
}

// CheckIn marks a confirmed registration checked in. Only the organizer of
// the parent event may do this.
func (s *RegistrationServiceImpl) CheckIn(ctx context.Context, id, organizerID uuid.UUID) (*model.Registration, error) {
	reg, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event, err := s.events.FindByID(ctx, reg.EventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, apperrors.ErrForbidden
	}

	if reg.Status != model.RegistrationStatusConfirmed || reg.CheckInStatus == model.CheckInStatusCheckedIn {
		return nil, apperrors.ErrNotCheckInEligible
	}

	return s.repository.UpdateCheckIn(ctx, id, model.CheckInStatusCheckedIn, time.Now().UTC())
}

func (s *RegistrationServiceImpl) ListForUser(ctx context.Context, userID uuid.UUID, status model.RegistrationStatus, page, limit int) ([]*model.Registration, model.Pagination, error) {
	if status != "" && !status.IsValid() {
		return nil, model.Pagination{}, apperrors.ErrInvalidInput
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	regs, total, err := s.repository.ListForUser(ctx, userID, status, page, limit)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return regs, model.NewPagination(page, limit, total), nil
}

func (s *RegistrationServiceImpl) Get(ctx context.Context, id, userID uuid.UUID) (*model.Registration, error) {
	reg, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return reg, nil
}

func (s *RegistrationServiceImpl) invalidateEvent(ctx context.Context, eventID uuid.UUID) {
	if err := s.eventCache.Invalidate(ctx, eventID); err != nil {
		logger.WithComponent("reservation").Warn("event cache invalidate failed",
			zap.String("event_id", eventID.String()), zap.Error(err))
	}
}
