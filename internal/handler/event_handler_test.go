package handler_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gokulprasathd90/event-ticketing/internal/handler"
	"github.com/gokulprasathd90/event-ticketing/internal/model"
	"github.com/gokulprasathd90/event-ticketing/internal/service"
	apperrors "github.com/gokulprasathd90/event-ticketing/pkg/app_errors"
	"github.com/gokulprasathd90/event-ticketing/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupEventRouter(eventService *mockEventService, tokens *auth.TokenManager) *gin.Engine {
	router := gin.New()
	handler.NewEventHandler(eventService, tokens).RegisterRoutes(router)
	return router
}

func TestEventHandler_List(t *testing.T) {
	t.Run("PublicWithoutToken", func(t *testing.T) {
		eventService := new(mockEventService)
		router := setupEventRouter(eventService, testTokens())

		eventService.On("ListPublished", mock.Anything, model.EventFilter{}, 1, 10).
			Return([]*model.Event{{ID: uuid.New()}}, model.NewPagination(1, 10, 1), nil).Once()

		w := doJSON(t, router, http.MethodGet, "/api/v1/events", nil, "")

		assertStatus(t, w, http.StatusOK)
		body := decodeBody(t, w)
		assert.NotNil(t, body["events"])
		assert.NotNil(t, body["pagination"])
	})

	t.Run("PassesFilters", func(t *testing.T) {
		eventService := new(mockEventService)
		router := setupEventRouter(eventService, testTokens())

		eventService.On("ListPublished", mock.Anything, mock.MatchedBy(func(f model.EventFilter) bool {
			return f.Category == model.CategoryMusic &&
				f.Search == "jazz" &&
				f.PriceMax != nil && *f.PriceMax == 80
		}), 2, 5).Return([]*model.Event{}, model.NewPagination(2, 5, 0), nil).Once()

		w := doJSON(t, router, http.MethodGet,
			"/api/v1/events?category=Music&search=jazz&price_max=80&page=2&limit=5", nil, "")

		assertStatus(t, w, http.StatusOK)
		eventService.AssertExpectations(t)
	})

	t.Run("RejectsBadDateFrom", func(t *testing.T) {
		eventService := new(mockEventService)
		router := setupEventRouter(eventService, testTokens())

		w := doJSON(t, router, http.MethodGet, "/api/v1/events?date_from=tomorrow", nil, "")

		assertStatus(t, w, http.StatusBadRequest)
		eventService.AssertNotCalled(t, "ListPublished")
	})
}

func TestEventHandler_Get(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		eventService := new(mockEventService)
		router := setupEventRouter(eventService, testTokens())

		eventID := uuid.New()
		eventService.On("GetPublished", mock.Anything, eventID).
			Return(&model.Event{
				ID:     eventID,
				Status: model.EventStatusPublished,
				TicketTypes: []model.TicketType{
					{Name: "General", Price: 50, Quantity: 100, Sold: 30},
				},
			}, nil).Once()

		w := doJSON(t, router, http.MethodGet, "/api/v1/events/"+eventID.String(), nil, "")

		assertStatus(t, w, http.StatusOK)
		body := decodeBody(t, w)
		assert.Equal(t, float64(30), body["total_sold"])
		assert.Equal(t, float64(70), body["available_tickets"])
		assert.Equal(t, float64(1500), body["total_revenue"])
	})

	t.Run("InvalidID", func(t *testing.T) {
		eventService := new(mockEventService)
		router := setupEventRouter(eventService, testTokens())

		w := doJSON(t, router, http.MethodGet, "/api/v1/events/not-a-uuid", nil, "")

		assertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("UnexpectedErrorHidden", func(t *testing.T) {
		eventService := new(mockEventService)
		router := setupEventRouter(eventService, testTokens())

		eventID := uuid.New()
		eventService.On("GetPublished", mock.Anything, eventID).
			Return(nil, errors.New("connection reset by peer")).Once()

		w := doJSON(t, router, http.MethodGet, "/api/v1/events/"+eventID.String(), nil, "")

		assertStatus(t, w, http.StatusInternalServerError)
		// The raw error stays out of the response body.
		assert.Equal(t, apperrors.ErrInternalServerError.Error(), decodeBody(t, w)["error"])
	})

	t.Run("NotFound", func(t *testing.T) {
		eventService := new(mockEventService)
		router := setupEventRouter(eventService, testTokens())

		eventID := uuid.New()
		eventService.On("GetPublished", mock.Anything, eventID).
			Return(nil, apperrors.ErrEventNotFound).Once()

		w := doJSON(t, router, http.MethodGet, "/api/v1/events/"+eventID.String(), nil, "")

		assertStatus(t, w, http.StatusNotFound)
	})
}

func createEventBody() gin.H {
	start := time.Now().Add(24 * time.Hour).Format(time.RFC3339)
	end := time.Now().Add(30 * time.Hour).Format(time.RFC3339)
	return gin.H{
		"title":       "Go Conference",
		"description": "A conference about Go",
		"category":    "Technology",
		"venue":       gin.H{"name": "Convention Center"},
		"dateTime":    gin.H{"start": start, "end": end},
		"ticketTypes": []gin.H{
			{"name": "General", "price": 50, "quantity": 100},
		},
	}
}

func TestEventHandler_Create(t *testing.T) {
	t.Run("RequiresOrganizerRole", func(t *testing.T) {
		eventService := new(mockEventService)
		tokens := testTokens()
		router := setupEventRouter(eventService, tokens)

		w := doJSON(t, router, http.MethodPost, "/api/v1/events", createEventBody(),
			bearerToken(t, tokens, uuid.New(), model.RoleAttendee))

		assertStatus(t, w, http.StatusForbidden)
		eventService.AssertNotCalled(t, "Create")
	})

	t.Run("RequiresToken", func(t *testing.T) {
		eventService := new(mockEventService)
		router := setupEventRouter(eventService, testTokens())

		w := doJSON(t, router, http.MethodPost, "/api/v1/events", createEventBody(), "")

		assertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("Success", func(t *testing.T) {
		eventService := new(mockEventService)
		tokens := testTokens()
		router := setupEventRouter(eventService, tokens)

		organizerID := uuid.New()
		eventService.On("Create", mock.Anything, organizerID, mock.MatchedBy(func(p service.CreateEventParams) bool {
			return p.Title == "Go Conference" && len(p.TicketTypes) == 1
		})).Return(&model.Event{ID: uuid.New(), OrganizerID: organizerID}, nil).Once()

		w := doJSON(t, router, http.MethodPost, "/api/v1/events", createEventBody(),
			bearerToken(t, tokens, organizerID, model.RoleOrganizer))

		assertStatus(t, w, http.StatusCreated)
		eventService.AssertExpectations(t)
	})

	t.Run("MissingTicketTypes", func(t *testing.T) {
		eventService := new(mockEventService)
		tokens := testTokens()
		router := setupEventRouter(eventService, tokens)

		body := createEventBody()
		body["ticketTypes"] = []gin.H{}

		w := doJSON(t, router, http.MethodPost, "/api/v1/events", body,
			bearerToken(t, tokens, uuid.New(), model.RoleOrganizer))

		assertStatus(t, w, http.StatusBadRequest)
		eventService.AssertNotCalled(t, "Create")
	})
}

func TestEventHandler_Delete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		eventService := new(mockEventService)
		tokens := testTokens()
		router := setupEventRouter(eventService, tokens)

		organizerID := uuid.New()
		eventID := uuid.New()
		eventService.On("Delete", mock.Anything, eventID, organizerID).Return(nil).Once()

		w := doJSON(t, router, http.MethodDelete, "/api/v1/events/"+eventID.String(), nil,
			bearerToken(t, tokens, organizerID, model.RoleOrganizer))

		assertStatus(t, w, http.StatusNoContent)
	})

	t.Run("BlockedWithRegistrations", func(t *testing.T) {
		eventService := new(mockEventService)
		tokens := testTokens()
		router := setupEventRouter(eventService, tokens)

		organizerID := uuid.New()
		eventID := uuid.New()
		eventService.On("Delete", mock.Anything, eventID, organizerID).
			Return(apperrors.ErrEventHasRegistrations).Once()

		w := doJSON(t, router, http.MethodDelete, "/api/v1/events/"+eventID.String(), nil,
			bearerToken(t, tokens, organizerID, model.RoleOrganizer))

		assertStatus(t, w, http.StatusConflict)
	})
}

func TestEventHandler_Stats(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		eventService := new(mockEventService)
		tokens := testTokens()
		router := setupEventRouter(eventService, tokens)

		organizerID := uuid.New()
		eventID := uuid.New()
		eventService.On("Stats", mock.Anything, eventID, organizerID).
			Return(&model.EventStats{TotalRegistrations: 4}, nil).Once()

		w := doJSON(t, router, http.MethodGet, "/api/v1/events/"+eventID.String()+"/stats", nil,
			bearerToken(t, tokens, organizerID, model.RoleOrganizer))

		assertStatus(t, w, http.StatusOK)
		body := decodeBody(t, w)
		assert.NotNil(t, body["stats"])
	})

	t.Run("ForbiddenForNonOwner", func(t *testing.T) {
		eventService := new(mockEventService)
		tokens := testTokens()
		router := setupEventRouter(eventService, tokens)

		organizerID := uuid.New()
		eventID := uuid.New()
		eventService.On("Stats", mock.Anything, eventID, organizerID).
			Return(nil, apperrors.ErrForbidden).Once()

		w := doJSON(t, router, http.MethodGet, "/api/v1/events/"+eventID.String()+"/stats", nil,
			bearerToken(t, tokens, organizerID, model.RoleOrganizer))

		assertStatus(t, w, http.StatusForbidden)
	})
}

func TestEventHandler_ListMine(t *testing.T) {
	eventService := new(mockEventService)
	tokens := testTokens()
	router := setupEventRouter(eventService, tokens)

	organizerID := uuid.New()
	eventService.On("ListByOrganizer", mock.Anything, organizerID).
		Return([]*model.Event{{ID: uuid.New()}, {ID: uuid.New()}}, nil).Once()

	w := doJSON(t, router, http.MethodGet, "/api/v1/events/organizer/my-events", nil,
		bearerToken(t, tokens, organizerID, model.RoleOrganizer))

	assertStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	assert.Len(t, body["events"], 2)
}
