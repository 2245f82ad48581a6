package service

import (
	"context"
	"strings"
	"time"

	"github.com/gokulprasathd90/event-ticketing/internal/cache"
	"github.com/gokulprasathd90/event-ticketing/internal/model"
	"github.com/gokulprasathd90/event-ticketing/internal/repository"
	apperrors "github.com/gokulprasathd90/event-ticketing/pkg/app_errors"
	"github.com/gokulprasathd90/event-ticketing/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TicketTypeParams struct {
	Name     string
	Price    float64
	Quantity int
}

type CreateEventParams struct {
	Title        string
	Description  string
	Category     model.Category
	VenueName    string
	VenueAddress *string
	StartTime    time.Time
	EndTime      time.Time
	Status       model.EventStatus
	Tags         []string
	TicketTypes  []TicketTypeParams
}

type EventService interface {
	Create(ctx context.Context, organizerID uuid.UUID, params CreateEventParams) (*model.Event, error)
	// Get returns the event regardless of status; callers enforce visibility.
	Get(ctx context.Context, id uuid.UUID) (*model.Event, error)
	// GetPublished hides non-published events behind NotFound for the public
	// surface.
	GetPublished(ctx context.Context, id uuid.UUID) (*model.Event, error)
	ListPublished(ctx context.Context, filter model.EventFilter, page, limit int) ([]*model.Event, model.Pagination, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.Event, error)
	Update(ctx context.Context, id, organizerID uuid.UUID, params model.UpdateEventParams) (*model.Event, error)
	Delete(ctx context.Context, id, organizerID uuid.UUID) error
	Stats(ctx context.Context, id, organizerID uuid.UUID) (*model.EventStats, error)
}

type EventServiceImpl struct {
	repo          repository.EventRepository
	registrations repository.RegistrationRepository
	cache         cache.EventCache
}

func NewEventService(repo repository.EventRepository, registrations repository.RegistrationRepository, eventCache cache.EventCache) EventService {
	return &EventServiceImpl{repo: repo, registrations: registrations, cache: eventCache}
}

func (s *EventServiceImpl) Create(ctx context.Context, organizerID uuid.UUID, params CreateEventParams) (*model.Event, error) {
	if err := validateEventParams(&params); err != nil {
		return nil, err
	}

	status := params.Status
	if status == "" {
		status = model.EventStatusDraft
	}

	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}

	event := &model.Event{
		OrganizerID: organizerID,
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		Category:    params.Category,
		Venue: model.Venue{
			Name:    strings.TrimSpace(params.VenueName),
			Address: params.VenueAddress,
		},
		StartTime: params.StartTime,
		EndTime:   params.EndTime,
		Status:    status,
		Tags:      tags,
	}
	for _, tt := range params.TicketTypes {
		event.TicketTypes = append(event.TicketTypes, model.TicketType{
			Name:     strings.TrimSpace(tt.Name),
			Price:    tt.Price,
			Quantity: tt.Quantity,
		})
	}

	return s.repo.Create(ctx, event)
}

func validateEventParams(params *CreateEventParams) error {
	title := strings.TrimSpace(params.Title)
	if len(title) < 2 || len(title) > 100 {
		return apperrors.ErrInvalidInput
	}
	desc := strings.TrimSpace(params.Description)
	if len(desc) < 1 || len(desc) > 1000 {
		return apperrors.ErrInvalidInput
	}
	if !params.Category.IsValid() {
		return apperrors.ErrInvalidInput
	}
	if strings.TrimSpace(params.VenueName) == "" {
		return apperrors.ErrInvalidInput
	}
	if !params.StartTime.After(time.Now()) {
		return apperrors.ErrInvalidInput
	}
	if !params.EndTime.After(params.StartTime) {
		return apperrors.ErrInvalidInput
	}
	if params.Status != "" && !params.Status.IsValid() {
		return apperrors.ErrInvalidInput
	}
	if len(params.TicketTypes) == 0 {
		return apperrors.ErrInvalidInput
	}

	seen := make(map[string]bool, len(params.TicketTypes))
	for _, tt := range params.TicketTypes {
		name := strings.TrimSpace(tt.Name)
		if name == "" || seen[name] {
			return apperrors.ErrInvalidInput
		}
		seen[name] = true
		if tt.Price < 0 || tt.Quantity < 1 {
			return apperrors.ErrInvalidInput
		}
	}
	return nil
}

func (s *EventServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	if cached, err := s.cache.Get(ctx, id); err != nil {
		logger.WithComponent("event_service").Warn("event cache read failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, event); err != nil {
		logger.WithComponent("event_service").Warn("event cache write failed", zap.Error(err))
	}
	return event, nil
}

func (s *EventServiceImpl) GetPublished(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventStatusPublished {
		return nil, apperrors.ErrEventNotFound
	}
	return event, nil
}

func (s *EventServiceImpl) ListPublished(ctx context.Context, filter model.EventFilter, page, limit int) ([]*model.Event, model.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	events, total, err := s.repo.ListPublished(ctx, filter, page, limit)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return events, model.NewPagination(page, limit, total), nil
}

func (s *EventServiceImpl) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.Event, error) {
	return s.repo.ListByOrganizer(ctx, organizerID)
}

func (s *EventServiceImpl) Update(ctx context.Context, id, organizerID uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, apperrors.ErrForbidden
	}

	if params.Category != nil && !params.Category.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}
	if params.Status != nil && !params.Status.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}

	updated, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		logger.WithComponent("event_service").Warn("event cache invalidate failed", zap.Error(err))
	}
	return updated, nil
}

func (s *EventServiceImpl) Delete(ctx context.Context, id, organizerID uuid.UUID) error {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if event.OrganizerID != organizerID {
		return apperrors.ErrForbidden
	}

	count, err := s.registrations.CountByEvent(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.ErrEventHasRegistrations
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		logger.WithComponent("event_service").Warn("event cache invalidate failed", zap.Error(err))
	}
	return nil
}

func (s *EventServiceImpl) Stats(ctx context.Context, id, organizerID uuid.UUID) (*model.EventStats, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, apperrors.ErrForbidden
	}

	return s.repo.Stats(ctx, id)
}
