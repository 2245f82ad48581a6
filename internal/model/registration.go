package model

import (
	"time"

	"github.com/google/uuid"
)

// RegistrationStatus is the registration lifecycle state.
type RegistrationStatus string

const (
	RegistrationStatusPending   RegistrationStatus = "pending"
	RegistrationStatusConfirmed RegistrationStatus = "confirmed"
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
	RegistrationStatusRefunded  RegistrationStatus = "refunded"
)

func (s RegistrationStatus) IsValid() bool {
	switch s {
	case RegistrationStatusPending, RegistrationStatusConfirmed,
		RegistrationStatusCancelled, RegistrationStatusRefunded:
		return true
	}
	return false
}

// IsActive reports whether the registration still holds inventory and blocks
// the (user, event) pair.
func (s RegistrationStatus) IsActive() bool {
	return s == RegistrationStatusPending || s == RegistrationStatusConfirmed
}

// CanTransitionTo checks the lifecycle transition table. Cancelled and
// refunded are terminal.
func (s RegistrationStatus) CanTransitionTo(target RegistrationStatus) bool {
	transitions := map[RegistrationStatus][]RegistrationStatus{
		RegistrationStatusPending:   {RegistrationStatusConfirmed, RegistrationStatusCancelled},
		RegistrationStatusConfirmed: {RegistrationStatusCancelled, RegistrationStatusRefunded},
		RegistrationStatusCancelled: {},
		RegistrationStatusRefunded:  {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodPaypal       PaymentMethod = "paypal"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodPaypal,
		PaymentMethodBankTransfer, PaymentMethodCash:
		return true
	}
	return false
}

type CheckInStatus string

const (
	CheckInStatusNotCheckedIn CheckInStatus = "not_checked_in"
	CheckInStatusCheckedIn    CheckInStatus = "checked_in"
	CheckInStatusNoShow       CheckInStatus = "no_show"
)

// TicketSnapshot is the ticket-type value captured at reservation time.
// Later edits to the event's ticket types never touch it.
type TicketSnapshot struct {
	Name     string  `json:"name" db:"ticket_name"`
	Price    float64 `json:"price" db:"ticket_price"`
	Quantity int     `json:"quantity" db:"ticket_quantity"`
}

type Registration struct {
	ID              uuid.UUID          `json:"id" db:"id"`
	UserID          uuid.UUID          `json:"user_id" db:"user_id"`
	EventID         uuid.UUID          `json:"event_id" db:"event_id"`
	Ticket          TicketSnapshot     `json:"ticket_type"`
	TotalAmount     float64            `json:"total_amount" db:"total_amount"`
	Status          RegistrationStatus `json:"status" db:"status"`
	PaymentStatus   PaymentStatus      `json:"payment_status" db:"payment_status"`
	PaymentMethod   PaymentMethod      `json:"payment_method" db:"payment_method"`
	CheckInStatus   CheckInStatus      `json:"check_in_status" db:"check_in_status"`
	CheckInTime     *time.Time         `json:"check_in_time,omitempty" db:"check_in_time"`
	SpecialRequests *string            `json:"special_requests,omitempty" db:"special_requests"`
	CreatedAt       time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" db:"updated_at"`
}

// CreateRegistrationRequest is the reservation input. The unit price is not
// taken from the client; the engine snapshots it from the event's own
// ticket-type record.
type CreateRegistrationRequest struct {
	EventID         uuid.UUID     `json:"event_id" binding:"required"`
	TicketTypeName  string        `json:"ticket_type_name" binding:"required"`
	Quantity        int           `json:"quantity" binding:"required,min=1"`
	PaymentMethod   PaymentMethod `json:"payment_method" binding:"required"`
	SpecialRequests *string       `json:"special_requests"`
}
