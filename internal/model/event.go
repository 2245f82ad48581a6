package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Category is the closed set of event categories.
type Category string

const (
	CategoryMusic         Category = "Music"
	CategorySports        Category = "Sports"
	CategoryTechnology    Category = "Technology"
	CategoryBusiness      Category = "Business"
	CategoryEducation     Category = "Education"
	CategoryEntertainment Category = "Entertainment"
	CategoryOther         Category = "Other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryMusic, CategorySports, CategoryTechnology, CategoryBusiness,
		CategoryEducation, CategoryEntertainment, CategoryOther:
		return true
	}
	return false
}

// EventStatus is the event lifecycle state. Only published events accept
// registrations.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled, EventStatusCompleted:
		return true
	}
	return false
}

type Venue struct {
	Name    string  `json:"name" db:"venue_name"`
	Address *string `json:"address,omitempty" db:"venue_address"`
}

// TicketType is one inventory line of an event. The sold counter is mutated
// only by the reservation engine, under the invariant 0 <= sold <= quantity.
type TicketType struct {
	ID       uuid.UUID `json:"id" db:"id"`
	EventID  uuid.UUID `json:"event_id" db:"event_id"`
	Name     string    `json:"name" db:"name"`
	Price    float64   `json:"price" db:"price"`
	Quantity int       `json:"quantity" db:"quantity"`
	Sold     int       `json:"sold" db:"sold"`
	Position int       `json:"-" db:"position"`
}

// Available returns the remaining capacity of this ticket type.
func (t *TicketType) Available() int {
	return t.Quantity - t.Sold
}

type Event struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	OrganizerID uuid.UUID    `json:"organizer_id" db:"organizer_id"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description" db:"description"`
	Category    Category     `json:"category" db:"category"`
	Venue       Venue        `json:"venue"`
	StartTime   time.Time    `json:"start_time" db:"start_time"`
	EndTime     time.Time    `json:"end_time" db:"end_time"`
	Status      EventStatus  `json:"status" db:"status"`
	Tags        []string     `json:"tags" db:"tags"`
	TicketTypes []TicketType `json:"ticket_types"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// TicketType finds an inventory line by name, nil when absent.
func (e *Event) TicketType(name string) *TicketType {
	for i := range e.TicketTypes {
		if e.TicketTypes[i].Name == name {
			return &e.TicketTypes[i]
		}
	}
	return nil
}

func (e *Event) TotalSold() int {
	total := 0
	for i := range e.TicketTypes {
		total += e.TicketTypes[i].Sold
	}
	return total
}

func (e *Event) TotalRevenue() float64 {
	total := 0.0
	for i := range e.TicketTypes {
		total += float64(e.TicketTypes[i].Sold) * e.TicketTypes[i].Price
	}
	return total
}

func (e *Event) AvailableTickets() int {
	total := 0
	for i := range e.TicketTypes {
		total += e.TicketTypes[i].Available()
	}
	return total
}

// MarshalJSON includes the derived inventory totals alongside the stored
// columns so listing clients see availability without summing ticket types.
func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	return json.Marshal(struct {
		plain
		TotalSold        int     `json:"total_sold"`
		AvailableTickets int     `json:"available_tickets"`
		TotalRevenue     float64 `json:"total_revenue"`
	}{
		plain:            plain(e),
		TotalSold:        e.TotalSold(),
		AvailableTickets: e.AvailableTickets(),
		TotalRevenue:     e.TotalRevenue(),
	})
}

type UpdateEventParams struct {
	Title        *string
	Description  *string
	Category     *Category
	Status       *EventStatus
	VenueName    *string
	VenueAddress *string
	StartTime    *time.Time
	EndTime      *time.Time
	Tags         []string
}

// EventFilter narrows the public published-events listing.
type EventFilter struct {
	Category Category
	Search   string
	DateFrom *time.Time
	PriceMin *float64
	PriceMax *float64
}

// Pagination envelope returned by list endpoints.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

func NewPagination(page, limit, total int) Pagination {
	totalPages := (total + limit - 1) / limit
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNext:     page*limit < total,
		HasPrev:     page > 1,
	}
}

// TicketTypeStats is the per-type line of an event's statistics.
type TicketTypeStats struct {
	Sold      int     `json:"sold"`
	Available int     `json:"available"`
	Revenue   float64 `json:"revenue"`
}

type EventStats struct {
	TotalRegistrations     int                        `json:"totalRegistrations"`
	ConfirmedRegistrations int                        `json:"confirmedRegistrations"`
	TotalRevenue           float64                    `json:"totalRevenue"`
	TicketTypeBreakdown    map[string]TicketTypeStats `json:"ticketTypeBreakdown"`
}
