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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegistrationRepository is the ledger store. It carries no inventory logic;
// the reservation engine owns all mutations that touch both the ledger and the
// event's ticket-type counters.
type RegistrationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Registration, error)
	ListForUser(ctx context.Context, userID uuid.UUID, status model.RegistrationStatus, page, limit int) ([]*model.Registration, int, error)
	CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error)
	UpdateSpecialRequests(ctx context.Context, id uuid.UUID, text *string) (*model.Registration, error)
	UpdateCheckIn(ctx context.Context, id uuid.UUID, status model.CheckInStatus, at time.Time) (*model.Registration, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, reg *model.Registration) (*model.Registration, error)
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Registration, error)
	HasActivePair(ctx context.Context, tx pgx.Tx, userID, eventID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.RegistrationStatus, paymentStatus model.PaymentStatus) (*model.Registration, error)
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

type RegistrationRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) RegistrationRepository {
	return &RegistrationRepositoryImpl{
		pool: pool,
	}
}

const registrationColumns = `id, user_id, event_id, ticket_name, ticket_price, ticket_quantity,
		total_amount, status, payment_status, payment_method,
		check_in_status, check_in_time, special_requests, created_at, updated_at`

func scanRegistration(row pgx.Row) (*model.Registration, error) {
	var reg model.Registration
	err := row.Scan(
		&reg.ID,
		&reg.UserID,
		&reg.EventID,
		&reg.Ticket.Name,
		&reg.Ticket.Price,
		&reg.Ticket.Quantity,
		&reg.TotalAmount,
		&reg.Status,
		&reg.PaymentStatus,
		&reg.PaymentMethod,
		&reg.CheckInStatus,
		&reg.CheckInTime,
		&reg.SpecialRequests,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *RegistrationRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, reg *model.Registration) (*model.Registration, error) {
	query := `
		INSERT INTO registrations (
			user_id, event_id, ticket_name, ticket_price, ticket_quantity,
			total_amount, status, payment_status, payment_method, special_requests
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + registrationColumns

	created, err := scanRegistration(tx.QueryRow(ctx, query,
		reg.UserID, reg.EventID,
		reg.Ticket.Name, reg.Ticket.Price, reg.Ticket.Quantity,
		reg.TotalAmount, reg.Status, reg.PaymentStatus, reg.PaymentMethod,
		reg.SpecialRequests,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Active-pair unique index: a concurrent reservation for the same
			// (user, event) pair committed first.
			return nil, apperrors.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	return created, nil
}

func (r *RegistrationRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`

	reg, err := scanRegistration(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *RegistrationRepositoryImpl) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1 FOR UPDATE`

	reg, err := scanRegistration(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *RegistrationRepositoryImpl) ListForUser(ctx context.Context, userID uuid.UUID, status model.RegistrationStatus, page, limit int) ([]*model.Registration, int, error) {
	where := []string{"user_id = $1"}
	args := []interface{}{userID}
	argPos := 2

	if status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argPos))
		args = append(args, status)
		argPos++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM registrations WHERE ` + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	regs := make([]*model.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return regs, total, nil
}

func (r *RegistrationRepositoryImpl) CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *RegistrationRepositoryImpl) HasActivePair(ctx context.Context, tx pgx.Tx, userID, eventID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE user_id = $1 AND event_id = $2 AND status IN ('pending', 'confirmed')
		)
	`
	var exists bool
	if err := tx.QueryRow(ctx, query, userID, eventID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *RegistrationRepositoryImpl) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.RegistrationStatus, paymentStatus model.PaymentStatus) (*model.Registration, error) {
	query := `
		UPDATE registrations
		SET status = $1, payment_status = $2, updated_at = $3
		WHERE id = $4
		RETURNING ` + registrationColumns

	reg, err := scanRegistration(tx.QueryRow(ctx, query, status, paymentStatus, time.Now().UTC(), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("update registration status: %w", err)
	}
	return reg, nil
}

func (r *RegistrationRepositoryImpl) UpdateSpecialRequests(ctx context.Context, id uuid.UUID, text *string) (*model.Registration, error) {
	query := `
		UPDATE registrations
		SET special_requests = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + registrationColumns

	reg, err := scanRegistration(r.pool.QueryRow(ctx, query, text, time.Now().UTC(), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *RegistrationRepositoryImpl) UpdateCheckIn(ctx context.Context, id uuid.UUID, status model.CheckInStatus, at time.Time) (*model.Registration, error) {
	query := `
		UPDATE registrations
		SET check_in_status = $1, check_in_time = $2, updated_at = $3
		WHERE id = $4
		RETURNING ` + registrationColumns

	reg, err := scanRegistration(r.pool.QueryRow(ctx, query, status, at, time.Now().UTC(), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *RegistrationRepositoryImpl) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	result, err := tx.Exec(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrRegistrationNotFound
	}
	return nil
}
