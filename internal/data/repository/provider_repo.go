package repository

import (
	"context"
	"fmt"

	"service-booking/internal/data/entity"
	"service-booking/pkg/apperrors"
	"service-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ProviderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Provider, error)

	// Sole writers of the derived aggregate fields
	UpdateRatingStats(ctx context.Context, id uuid.UUID, rating float64, totalReviews int64) error
	UpdateCompletedBookings(ctx context.Context, id uuid.UUID, count int64) error
}

type providerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProviderRepository(db database.PgxIface, log *zap.Logger) ProviderRepository {
	return &providerRepository{
		db:  db,
		log: log.With(zap.String("repository", "provider")),
	}
}

func (r *providerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Provider, error) {
	query := `
		SELECT id, name, business_name, email, rating, total_reviews, completed_bookings, created_at, updated_at
		FROM providers
		WHERE id = $1
	`

	var provider entity.Provider
	err := r.db.QueryRow(ctx, query, id).Scan(
		&provider.ID,
		&provider.Name,
		&provider.BusinessName,
		&provider.Email,
		&provider.Rating,
		&provider.TotalReviews,
		&provider.CompletedBookings,
		&provider.CreatedAt,
		&provider.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find provider by ID",
			zap.Error(err),
			zap.String("provider_id", id.String()),
		)
		return nil, fmt.Errorf("find provider by ID %s: %w", id.String(), err)
	}

	return &provider, nil
}

func (r *providerRepository) UpdateRatingStats(ctx context.Context, id uuid.UUID, rating float64, totalReviews int64) error {
	query := `UPDATE providers SET rating = $2, total_reviews = $3, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, rating, totalReviews)
	if err != nil {
		r.log.Error("Failed to update provider rating stats",
			zap.Error(err),
			zap.String("provider_id", id.String()),
		)
		return fmt.Errorf("update provider %s rating stats: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("provider %s not found", id.String()))
	}

	return nil
}

func (r *providerRepository) UpdateCompletedBookings(ctx context.Context, id uuid.UUID, count int64) error {
	query := `UPDATE providers SET completed_bookings = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, count)
	if err != nil {
		r.log.Error("Failed to update provider completed bookings",
			zap.Error(err),
			zap.String("provider_id", id.String()),
		)
		return fmt.Errorf("update provider %s completed bookings: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("provider %s not found", id.String()))
	}

	return nil
}
