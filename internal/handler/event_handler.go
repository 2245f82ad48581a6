package handler

import (
	"net/http"
	"time"

	"github.com/gokulprasathd90/event-ticketing/internal/model"
	"github.com/gokulprasathd90/event-ticketing/internal/service"
	"github.com/gokulprasathd90/event-ticketing/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EventHandler struct {
	service service.EventService
	tokens  *auth.TokenManager
}

func NewEventHandler(service service.EventService, tokens *auth.TokenManager) *EventHandler {
	return &EventHandler{service: service, tokens: tokens}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	public := r.Group("/api/v1/events")
	{
		public.GET("", h.List)
		public.GET(":id", h.Get)
	}

	organizer := r.Group("/api/v1/events", AuthRequired(h.tokens), RequireRole(model.RoleOrganizer))
	{
		organizer.POST("", h.Create)
		organizer.PUT(":id", h.Update)
		organizer.DELETE(":id", h.Delete)
		organizer.GET("organizer/my-events", h.ListMine)
		organizer.GET(":id/stats", h.Stats)
	}
}

type VenuePayload struct {
	Name    string  `json:"name" binding:"required"`
	Address *string `json:"address"`
}

type DateTimePayload struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

type TicketTypePayload struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"gte=0"`
	Quantity int     `json:"quantity" binding:"required,gte=1"`
}

type CreateEventRequest struct {
	Title       string              `json:"title" binding:"required,min=2,max=100"`
	Description string              `json:"description" binding:"required,max=1000"`
	Category    model.Category      `json:"category" binding:"required"`
	Venue       VenuePayload        `json:"venue" binding:"required"`
	DateTime    DateTimePayload     `json:"dateTime" binding:"required"`
	TicketTypes []TicketTypePayload `json:"ticketTypes" binding:"required,min=1,dive"`
	Tags        []string            `json:"tags"`
	Status      model.EventStatus   `json:"status"`
}

type UpdateEventRequest struct {
	Title        *string            `json:"title" binding:"omitempty,min=2,max=100"`
	Description  *string            `json:"description" binding:"omitempty,max=1000"`
	Category     *model.Category    `json:"category"`
	Status       *model.EventStatus `json:"status"`
	VenueName    *string            `json:"venueName"`
	VenueAddress *string            `json:"venueAddress"`
	StartTime    *time.Time         `json:"startTime"`
	EndTime      *time.Time         `json:"endTime"`
	Tags         []string           `json:"tags"`
}

type ListEventsQuery struct {
	Category string   `form:"category"`
	Search   string   `form:"search"`
	DateFrom string   `form:"date_from"`
	PriceMin *float64 `form:"price_min"`
	PriceMax *float64 `form:"price_max"`
	Page     int      `form:"page,default=1"`
	Limit    int      `form:"limit,default=10"`
}

func (h *EventHandler) List(c *gin.Context) {
	var q ListEventsQuery
	if err := BindQuery(c, &q); err != nil {
		return
	}

	filter := model.EventFilter{
		Category: model.Category(q.Category),
		Search:   q.Search,
		PriceMin: q.PriceMin,
		PriceMax: q.PriceMax,
	}
	if q.DateFrom != "" {
		from, err := time.Parse(time.RFC3339, q.DateFrom)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_from, expected RFC 3339"})
			return
		}
		filter.DateFrom = &from
	}

	events, pagination, err := h.service.ListPublished(c, filter, q.Page, q.Limit)
	if err != nil {
		HandleDomainError(c, err, "ListEvents")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":     events,
		"pagination": pagination,
	})
}

func (h *EventHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	event, err := h.service.GetPublished(c, id)
	if err != nil {
		HandleDomainError(c, err, "GetEvent")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	params := service.CreateEventParams{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		VenueName:    req.Venue.Name,
		VenueAddress: req.Venue.Address,
		StartTime:    req.DateTime.Start,
		EndTime:      req.DateTime.End,
		Status:       req.Status,
		Tags:         req.Tags,
	}
	for _, tt := range req.TicketTypes {
		params.TicketTypes = append(params.TicketTypes, service.TicketTypeParams{
			Name:     tt.Name,
			Price:    tt.Price,
			Quantity: tt.Quantity,
		})
	}

	event, err := h.service.Create(c, CurrentUserID(c), params)
	if err != nil {
		HandleDomainError(c, err, "CreateEvent")
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var req UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	event, err := h.service.Update(c, id, CurrentUserID(c), model.UpdateEventParams{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Status:       req.Status,
		VenueName:    req.VenueName,
		VenueAddress: req.VenueAddress,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Tags:         req.Tags,
	})
	if err != nil {
		HandleDomainError(c, err, "UpdateEvent")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	if err := h.service.Delete(c, id, CurrentUserID(c)); err != nil {
		HandleDomainError(c, err, "DeleteEvent")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) ListMine(c *gin.Context) {
	events, err := h.service.ListByOrganizer(c, CurrentUserID(c))
	if err != nil {
		HandleDomainError(c, err, "ListMyEvents")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *EventHandler) Stats(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	stats, err := h.service.Stats(c, id, CurrentUserID(c))
	if err != nil {
		HandleDomainError(c, err, "EventStats")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
