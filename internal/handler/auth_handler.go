package handler

import (
	"net/http"

	"github.com/gokulprasathd90/event-ticketing/internal/model"
	"github.com/gokulprasathd90/event-ticketing/internal/service"
	"github.com/gokulprasathd90/event-ticketing/pkg/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service service.AuthService
	tokens  *auth.TokenManager
}

func NewAuthHandler(service service.AuthService, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens}
}

func (h *AuthHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("auth/register", h.Register)
		router.POST("auth/login", h.Login)
	}

	secured := r.Group("/api/v1/auth", AuthRequired(h.tokens))
	{
		secured.PUT("change-password", h.ChangePassword)
	}

	users := r.Group("/api/v1/users", AuthRequired(h.tokens))
	{
		users.GET("profile", h.Profile)
		users.PUT("profile", h.UpdateProfile)
	}
}

type RegisterRequest struct {
	Name     string     `json:"name" binding:"required,min=2,max=50"`
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required,min=6"`
	Role     model.Role `json:"role" binding:"required"`
	Phone    *string    `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=50"`
	Phone *string `json:"phone"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	user, token, err := h.service.Register(c, service.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
	})
	if err != nil {
		HandleDomainError(c, err, "Register")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	user, token, err := h.service.Login(c, req.Email, req.Password)
	if err != nil {
		HandleDomainError(c, err, "Login")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.service.Profile(c, CurrentUserID(c))
	if err != nil {
		HandleDomainError(c, err, "Profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.service.ChangePassword(c, CurrentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		HandleDomainError(c, err, "ChangePassword")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	user, err := h.service.UpdateProfile(c, CurrentUserID(c), model.UpdateUserParams{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		HandleDomainError(c, err, "UpdateProfile")
		return
	}
	c.JSON(http.StatusOK, user)
}
