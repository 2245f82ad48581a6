package apperrors

import "errors"

var (
	// Not found
	ErrUserNotFound         = errors.New("user not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrTicketTypeNotFound   = errors.New("ticket type not found")
	ErrRegistrationNotFound = errors.New("registration not found")

	// Auth
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("access denied")

	// Conflict
	ErrAlreadyRegistered     = errors.New("already registered for this event")
	ErrInsufficientInventory = errors.New("insufficient ticket inventory")
	ErrEventHasRegistrations = errors.New("event has existing registrations")
	ErrAlreadyCancelled      = errors.New("registration is already cancelled")
	ErrAlreadyRefunded       = errors.New("registration has been refunded")

	// Invalid state
	ErrEventNotPublished      = errors.New("event is not open for registration")
	ErrRegistrationNotPending = errors.New("registration is no longer pending")
	ErrInvalidStatusChange    = errors.New("invalid registration status transition")
	ErrNotCheckInEligible     = errors.New("registration is not eligible for check-in")

	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalServerError = errors.New("internal server error")
)
