package handler

import (
	"errors"
	"net/http"

	apperrors "github.com/gokulprasathd90/event-ticketing/pkg/app_errors"
	"github.com/gokulprasathd90/event-ticketing/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// BindJson binds the request body and, on failure, reports per-field detail
// for validator errors and a generic message for malformed JSON.
func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]fieldError, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, fieldError{
					Field:   fe.Field(),
					Message: fe.Tag(),
				})
			}
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Validation failed",
				"details": details,
			})
			return err
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

// HandleDomainError maps sentinel errors to transport responses. Unexpected
// errors are logged and hidden behind a generic body.
func HandleDomainError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound),
		errors.Is(err, apperrors.ErrRegistrationNotFound),
		errors.Is(err, apperrors.ErrUserNotFound):
		log.Warn("Not found")
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, apperrors.ErrAlreadyRegistered),
		errors.Is(err, apperrors.ErrInsufficientInventory),
		errors.Is(err, apperrors.ErrEventHasRegistrations),
		errors.Is(err, apperrors.ErrEmailTaken):
		log.Warn("Conflict")
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, apperrors.ErrEventNotPublished),
		errors.Is(err, apperrors.ErrRegistrationNotPending),
		errors.Is(err, apperrors.ErrInvalidStatusChange),
		errors.Is(err, apperrors.ErrNotCheckInEligible),
		errors.Is(err, apperrors.ErrAlreadyCancelled),
		errors.Is(err, apperrors.ErrAlreadyRefunded):
		log.Warn("Invalid state")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrAccountDisabled),
		errors.Is(err, apperrors.ErrInvalidToken):
		log.Warn("Unauthorized")
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	case errors.Is(err, apperrors.ErrForbidden):
		log.Warn("Forbidden")
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.ErrInternalServerError.Error()})
	}
}
