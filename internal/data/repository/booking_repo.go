package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"service-booking/internal/data/entity"
	"service-booking/pkg/apperrors"
	"service-booking/pkg/database"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const uniqueViolationCode = "23505"

const (
	activeSlotConstraint    = "bookings_active_slot_idx"
	bookingNumberConstraint = "bookings_booking_number_key"
)

// ErrBookingNumberTaken signals a vanity-code collision; callers regenerate
// the number and retry the insert.
var ErrBookingNumberTaken = errors.New("booking number already taken")

var dialect = goqu.Dialect("postgres")

// BookingFilter is an optional conjunction over the filterable columns.
// Nil fields are not applied.
type BookingFilter struct {
	Status     *entity.BookingStatus
	CustomerID *uuid.UUID
	ProviderID *uuid.UUID
	ServiceID  *uuid.UUID
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	Update(ctx context.Context, booking *entity.Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, int64, error)

	// Business queries
	ExistsActiveSlot(ctx context.Context, providerID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error)
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus, completedAt *time.Time) (bool, error)
	CountCompletedByProvider(ctx context.Context, providerID uuid.UUID) (int64, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, booking_number, customer_id, provider_id, service_id, scheduled_date, scheduled_time,
		customer_address, payment_method_id, amount, payment_status, status, special_instructions,
		completed_at, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.BookingNumber,
		&b.CustomerID,
		&b.ProviderID,
		&b.ServiceID,
		&b.ScheduledDate,
		&b.ScheduledTime,
		&b.CustomerAddress,
		&b.PaymentMethodID,
		&b.Amount,
		&b.PaymentStatus,
		&b.Status,
		&b.SpecialInstructions,
		&b.CompletedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.BookingNumber,
		booking.CustomerID,
		booking.ProviderID,
		booking.ServiceID,
		booking.ScheduledDate,
		booking.ScheduledTime,
		booking.CustomerAddress,
		booking.PaymentMethodID,
		booking.Amount,
		booking.PaymentStatus,
		booking.Status,
		booking.SpecialInstructions,
		booking.CompletedAt,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		// The partial unique index on (provider_id, scheduled_date,
		// scheduled_time) over non-terminal statuses is the authoritative
		// double-booking guard; the in-process pre-check only improves
		// latency and error quality.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			switch pgErr.ConstraintName {
			case activeSlotConstraint:
				return apperrors.NewSlotConflictError("provider is not available at the selected time")
			case bookingNumberConstraint:
				return ErrBookingNumberTaken
			}
		}

		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_number", booking.BookingNumber),
			zap.String("provider_id", booking.ProviderID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.BookingNumber, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
	`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET scheduled_date = $2, scheduled_time = $3, customer_address = $4, payment_method_id = $5,
		    amount = $6, payment_status = $7, special_instructions = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.ScheduledDate,
		booking.ScheduledTime,
		booking.CustomerAddress,
		booking.PaymentMethodID,
		booking.Amount,
		booking.PaymentStatus,
		booking.SpecialInstructions,
		booking.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == activeSlotConstraint {
			return apperrors.NewSlotConflictError("provider is not available at the selected time")
		}

		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("booking %s not found", booking.ID.String()))
	}

	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM bookings WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("delete booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("booking %s not found", id.String()))
	}

	r.log.Info("Booking deleted", zap.String("booking_id", id.String()))
	return nil
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, int64, error) {
	where := bookingFilterExpressions(filter)

	listSQL, listArgs, err := dialect.From("bookings").
		Select(goqu.L(bookingColumns)).
		Where(where...).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build booking list query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		r.log.Error("Failed to list bookings",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, 0, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate booking rows: %w", err)
	}

	countSQL, countArgs, err := dialect.From("bookings").
		Select(goqu.COUNT("*")).
		Where(where...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build booking count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	return bookings, total, nil
}

func bookingFilterExpressions(filter BookingFilter) []goqu.Expression {
	var where []goqu.Expression
	if filter.Status != nil {
		where = append(where, goqu.Ex{"status": *filter.Status})
	}
	if filter.CustomerID != nil {
		where = append(where, goqu.Ex{"customer_id": *filter.CustomerID})
	}
	if filter.ProviderID != nil {
		where = append(where, goqu.Ex{"provider_id": *filter.ProviderID})
	}
	if filter.ServiceID != nil {
		where = append(where, goqu.Ex{"service_id": *filter.ServiceID})
	}
	return where
}

// ExistsActiveSlot reports whether a non-terminal booking already occupies
// (provider, date, slot). Pure read; excludeID is used when rescheduling an
// existing booking so it does not conflict with itself.
func (r *bookingRepository) ExistsActiveSlot(ctx context.Context, providerID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE provider_id = $1
			  AND scheduled_date = $2
			  AND scheduled_time = $3
			  AND status NOT IN ('cancelled', 'completed')
			  AND ($4::uuid IS NULL OR id <> $4)
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, providerID, date, slot, excludeID).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check slot availability",
			zap.Error(err),
			zap.String("provider_id", providerID.String()),
			zap.String("scheduled_time", slot),
		)
		return false, fmt.Errorf("check slot availability for provider %s: %w", providerID.String(), err)
	}

	return exists, nil
}

// UpdateStatusIf applies a status transition only when the stored status
// still equals from. Returns false with nil error when another request won
// the race (or the booking is gone); the caller re-reads and decides.
func (r *bookingRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus, completedAt *time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $3, completed_at = COALESCE($4, completed_at), updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.Exec(ctx, query, id, from, to, completedAt)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return false, fmt.Errorf("update booking %s status to %s: %w", id.String(), string(to), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) CountCompletedByProvider(ctx context.Context, providerID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE provider_id = $1 AND status = 'completed'`

	var count int64
	err := r.db.QueryRow(ctx, query, providerID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count completed bookings",
			zap.Error(err),
			zap.String("provider_id", providerID.String()),
		)
		return 0, fmt.Errorf("count completed bookings for provider %s: %w", providerID.String(), err)
	}

	return count, nil
}
