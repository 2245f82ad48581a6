package handler

import (
	"net/http"

	"github.com/gokulprasathd90/event-ticketing/internal/model"
	"github.com/gokulprasathd90/event-ticketing/internal/service"
	"github.com/gokulprasathd90/event-ticketing/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RegistrationHandler struct {
	service service.RegistrationService
	tokens  *auth.TokenManager
}

func NewRegistrationHandler(service service.RegistrationService, tokens *auth.TokenManager) *RegistrationHandler {
	return &RegistrationHandler{service: service, tokens: tokens}
}

func (h *RegistrationHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/registrations", AuthRequired(h.tokens))
	{
		router.POST("", h.Create)
		router.GET("", h.ListMine)
		router.GET(":id", h.Get)
		router.PUT(":id", h.Update)
		router.PUT(":id/confirm", h.Confirm)
		router.PUT(":id/cancel", h.Cancel)
		router.PUT(":id/checkin", h.CheckIn)
		router.DELETE(":id", h.Delete)
	}
}

type UpdateRegistrationRequest struct {
	SpecialRequests *string `json:"special_requests"`
}

type ListRegistrationsQuery struct {
	Status string `form:"status"`
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=10"`
}

func (h *RegistrationHandler) Create(c *gin.Context) {
	var req model.CreateRegistrationRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.Reserve(c, CurrentUserID(c), req)
	if err != nil {
		HandleDomainError(c, err, "CreateRegistration")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *RegistrationHandler) ListMine(c *gin.Context) {
	var q ListRegistrationsQuery
	if err := BindQuery(c, &q); err != nil {
		return
	}

	regs, pagination, err := h.service.ListForUser(c, CurrentUserID(c), model.RegistrationStatus(q.Status), q.Page, q.Limit)
	if err != nil {
		HandleDomainError(c, err, "ListRegistrations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"registrations": regs,
		"pagination":    pagination,
	})
}

func (h *RegistrationHandler) Get(c *gin.Context) {
	id, ok := h.registrationID(c)
	if !ok {
		return
	}

	reg, err := h.service.Get(c, id, CurrentUserID(c))
	if err != nil {
		HandleDomainError(c, err, "GetRegistration")
		return
	}
	c.JSON(http.StatusOK, reg)
}

func (h *RegistrationHandler) Update(c *gin.Context) {
	id, ok := h.registrationID(c)
	if !ok {
		return
	}

	var req UpdateRegistrationRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	reg, err := h.service.UpdateSpecialRequests(c, id, CurrentUserID(c), req.SpecialRequests)
	if err != nil {
		HandleDomainError(c, err, "UpdateRegistration")
		return
	}
	c.JSON(http.StatusOK, reg)
}

func (h *RegistrationHandler) Confirm(c *gin.Context) {
	id, ok := h.registrationID(c)
	if !ok {
		return
	}

	reg, err := h.service.Confirm(c, id, CurrentUserID(c))
	if err != nil {
		HandleDomainError(c, err, "ConfirmRegistration")
		return
	}
	c.JSON(http.StatusOK, reg)
}

func (h *RegistrationHandler) Cancel(c *gin.Context) {
	id, ok := h.registrationID(c)
	if !ok {
		return
	}

	if err := h.service.Cancel(c, id, CurrentUserID(c)); err != nil {
		HandleDomainError(c, err, "CancelRegistration")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Registration cancelled"})
}

func (h *RegistrationHandler) CheckIn(c *gin.Context) {
	id, ok := h.registrationID(c)
	if !ok {
		return
	}

	reg, err := h.service.CheckIn(c, id, CurrentUserID(c))
	if err != nil {
		HandleDomainError(c, err, "CheckInRegistration")
		return
	}
	c.JSON(http.StatusOK, reg)
}

func (h *RegistrationHandler) Delete(c *gin.Context) {
	id, ok := h.registrationID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c, id, CurrentUserID(c)); err != nil {
		HandleDomainError(c, err, "DeleteRegistration")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RegistrationHandler) registrationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration id"})
		return uuid.Nil, false
	}
	return id, true
}
