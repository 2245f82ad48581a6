package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gokulprasathd90/event-ticketing/internal/model"
	apperrors "github.com/gokulprasathd90/event-ticketing/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	ListPublished(ctx context.Context, filter model.EventFilter, page, limit int) ([]*model.Event, int, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.Event, error)
	Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams) (*model.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, eventID uuid.UUID) (*model.EventStats, error)

	// Transaction methods used by the reservation engine. IncrementSold is the
	// admission decision: it only succeeds while sold + quantity stays within
	// capacity, so concurrent reservations against one ticket type are
	// linearized by the row update itself.
	FindForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Event, error)
	FindTicketType(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, name string) (*model.TicketType, error)
	IncrementSold(ctx context.Context, tx pgx.Tx, ticketTypeID uuid.UUID, quantity int) error
	ReleaseSold(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, name string, quantity int) error
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, organizer_id, title, description, category, venue_name, venue_address,
		start_time, end_time, status, tags, created_at, updated_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.OrganizerID,
		&event.Title,
		&event.Description,
		&event.Category,
		&event.Venue.Name,
		&event.Venue.Address,
		&event.StartTime,
		&event.EndTime,
		&event.Status,
		&event.Tags,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO events (organizer_id, title, description, category, venue_name, venue_address,
			start_time, end_time, status, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + eventColumns

	created, err := scanEvent(tx.QueryRow(ctx, query,
		event.OrganizerID, event.Title, event.Description, event.Category,
		event.Venue.Name, event.Venue.Address,
		event.StartTime, event.EndTime, event.Status, event.Tags,
	))
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	ttQuery := `
		INSERT INTO ticket_types (event_id, name, price, quantity, position)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, event_id, name, price, quantity, sold, position
	`
	for i := range event.TicketTypes {
		tt := &event.TicketTypes[i]
		err := tx.QueryRow(ctx, ttQuery, created.ID, tt.Name, tt.Price, tt.Quantity, i).Scan(
			&tt.ID, &tt.EventID, &tt.Name, &tt.Price, &tt.Quantity, &tt.Sold, &tt.Position,
		)
		if err != nil {
			return nil, fmt.Errorf("insert ticket type %q: %w", tt.Name, err)
		}
	}
	created.TicketTypes = event.TicketTypes

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	if err := r.attachTicketTypes(ctx, []*model.Event{event}); err != nil {
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) ListPublished(ctx context.Context, filter model.EventFilter, page, limit int) ([]*model.Event, int, error) {
	where := []string{"status = 'published'"}
	args := []interface{}{}
	argPos := 1

	if filter.Category != "" {
		where = append(where, fmt.Sprintf("category = $%d", argPos))
		args = append(args, filter.Category)
		argPos++
	}

	if filter.Search != "" {
		where = append(where, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE $%d))",
			argPos, argPos, argPos))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("start_time >= $%d", argPos))
		args = append(args, *filter.DateFrom)
		argPos++
	}

	if filter.PriceMin != nil || filter.PriceMax != nil {
		cond := "EXISTS (SELECT 1 FROM ticket_types t WHERE t.event_id = events.id"
		if filter.PriceMin != nil {
			cond += fmt.Sprintf(" AND t.price >= $%d", argPos)
			args = append(args, *filter.PriceMin)
			argPos++
		}
		if filter.PriceMax != nil {
			cond += fmt.Sprintf(" AND t.price <= $%d", argPos)
			args = append(args, *filter.PriceMax)
			argPos++
		}
		where = append(where, cond+")")
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM events WHERE ` + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT `+eventColumns+`
		FROM events
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, limit, (page-1)*limit)

	events, err := r.queryEvents(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	if err := r.attachTicketTypes(ctx, events); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *EventRepositoryImpl) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE organizer_id = $1
		ORDER BY created_at DESC
	`
	events, err := r.queryEvents(ctx, query, organizerID)
	if err != nil {
		return nil, err
	}
	if err := r.attachTicketTypes(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepositoryImpl) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*model.Event, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepositoryImpl) attachTicketTypes(ctx context.Context, events []*model.Event) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(events))
	byID := make(map[uuid.UUID]*model.Event, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
		byID[e.ID] = e
		e.TicketTypes = make([]model.TicketType, 0)
	}

	query := `
		SELECT id, event_id, name, price, quantity, sold, position
		FROM ticket_types
		WHERE event_id = ANY($1)
		ORDER BY event_id, position
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var tt model.TicketType
		err := rows.Scan(&tt.ID, &tt.EventID, &tt.Name, &tt.Price, &tt.Quantity, &tt.Sold, &tt.Position)
		if err != nil {
			return err
		}
		if e, ok := byID[tt.EventID]; ok {
			e.TicketTypes = append(e.TicketTypes, tt)
		}
	}
	return rows.Err()
}

func (r *EventRepositoryImpl) Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Title != nil {
		addSet("title", *params.Title)
	}
	if params.Description != nil {
		addSet("description", *params.Description)
	}
	if params.Category != nil {
		addSet("category", *params.Category)
	}
	if params.Status != nil {
		addSet("status", *params.Status)
	}
	if params.VenueName != nil {
		addSet("venue_name", *params.VenueName)
	}
	if params.VenueAddress != nil {
		addSet("venue_address", *params.VenueAddress)
	}
	if params.StartTime != nil {
		addSet("start_time", *params.StartTime)
	}
	if params.EndTime != nil {
		addSet("end_time", *params.EndTime)
	}
	if params.Tags != nil {
		addSet("tags", params.Tags)
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	sets = append(sets, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now().UTC())
	argPos++

	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING `+eventColumns,
		strings.Join(sets, ", "), argPos)

	event, err := scanEvent(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	if err := r.attachTicketTypes(ctx, []*model.Event{event}); err != nil {
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

func (r *EventRepositoryImpl) Stats(ctx context.Context, eventID uuid.UUID) (*model.EventStats, error) {
	stats := &model.EventStats{
		TicketTypeBreakdown: make(map[string]model.TicketTypeStats),
	}

	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'confirmed'),
		       COALESCE(SUM(total_amount) FILTER (WHERE status NOT IN ('cancelled', 'refunded')), 0)
		FROM registrations
		WHERE event_id = $1
	`
	err := r.pool.QueryRow(ctx, query, eventID).Scan(
		&stats.TotalRegistrations,
		&stats.ConfirmedRegistrations,
		&stats.TotalRevenue,
	)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT name, price, quantity, sold
		FROM ticket_types
		WHERE event_id = $1
		ORDER BY position
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var price float64
		var quantity, sold int
		if err := rows.Scan(&name, &price, &quantity, &sold); err != nil {
			return nil, err
		}
		stats.TicketTypeBreakdown[name] = model.TicketTypeStats{
			Sold:      sold,
			Available: quantity - sold,
			Revenue:   float64(sold) * price,
		}
	}
	return stats, rows.Err()
}

func (r *EventRepositoryImpl) FindForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`

	event, err := scanEvent(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) FindTicketType(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, name string) (*model.TicketType, error) {
	query := `
		SELECT id, event_id, name, price, quantity, sold, position
		FROM ticket_types
		WHERE event_id = $1 AND name = $2
		FOR UPDATE
	`

	var tt model.TicketType
	err := tx.QueryRow(ctx, query, eventID, name).Scan(
		&tt.ID, &tt.EventID, &tt.Name, &tt.Price, &tt.Quantity, &tt.Sold, &tt.Position,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketTypeNotFound
		}
		return nil, err
	}
	return &tt, nil
}

func (r *EventRepositoryImpl) IncrementSold(ctx context.Context, tx pgx.Tx, ticketTypeID uuid.UUID, quantity int) error {
	query := `
		UPDATE ticket_types
		SET sold = sold + $1
		WHERE id = $2 AND sold + $1 <= quantity
	`

	result, err := tx.Exec(ctx, query, quantity, ticketTypeID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrInsufficientInventory
	}
	return nil
}

func (r *EventRepositoryImpl) ReleaseSold(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, name string, quantity int) error {
	// Floored at zero: counter drift must never push sold negative.
	query := `
		UPDATE ticket_types
		SET sold = GREATEST(sold - $1, 0)
		WHERE event_id = $2 AND name = $3
	`

	result, err := tx.Exec(ctx, query, quantity, eventID, name)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrTicketTypeNotFound
	}
	return nil
}
