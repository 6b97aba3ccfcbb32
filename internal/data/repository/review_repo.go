package repository

import (
	"context"
	"errors"
	"fmt"

	"service-booking/internal/data/entity"
	"service-booking/pkg/apperrors"
	"service-booking/pkg/database"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const customerServiceConstraint = "reviews_customer_service_key"

// ReviewFilter is an optional conjunction over the filterable columns
type ReviewFilter struct {
	CustomerID *uuid.UUID
	ProviderID *uuid.UUID
	ServiceID  *uuid.UUID
	Rating     *int
}

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByCustomerAndService(ctx context.Context, customerID, serviceID uuid.UUID) (*entity.Review, error)
	List(ctx context.Context, filter ReviewFilter, limit, offset int) ([]*entity.Review, int64, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Aggregation inputs
	GetProviderRatingStats(ctx context.Context, providerID uuid.UUID) (float64, int64, error)
	GetServiceRatingStats(ctx context.Context, serviceID uuid.UUID) (float64, int64, error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewColumns = `id, customer_id, provider_id, service_id, booking_id, rating, comment, created_at, updated_at`

func scanReview(row pgx.Row) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.CustomerID,
		&review.ProviderID,
		&review.ServiceID,
		&review.BookingID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.CustomerID,
		review.ProviderID,
		review.ServiceID,
		review.BookingID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == customerServiceConstraint {
			return apperrors.NewValidationError("customer has already reviewed this service")
		}

		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("customer_id", review.CustomerID.String()),
			zap.String("service_id", review.ServiceID.String()),
		)
		return fmt.Errorf("create review for service %s by customer %s: %w",
			review.ServiceID.String(), review.CustomerID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE id = $1
	`

	review, err := scanReview(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) FindByCustomerAndService(ctx context.Context, customerID, serviceID uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE customer_id = $1 AND service_id = $2
		LIMIT 1
	`

	review, err := scanReview(r.db.QueryRow(ctx, query, customerID, serviceID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by customer and service",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
			zap.String("service_id", serviceID.String()),
		)
		return nil, fmt.Errorf("find review by customer %s and service %s: %w",
			customerID.String(), serviceID.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) List(ctx context.Context, filter ReviewFilter, limit, offset int) ([]*entity.Review, int64, error) {
	var where []goqu.Expression
	if filter.CustomerID != nil {
		where = append(where, goqu.Ex{"customer_id": *filter.CustomerID})
	}
	if filter.ProviderID != nil {
		where = append(where, goqu.Ex{"provider_id": *filter.ProviderID})
	}
	if filter.ServiceID != nil {
		where = append(where, goqu.Ex{"service_id": *filter.ServiceID})
	}
	if filter.Rating != nil {
		where = append(where, goqu.Ex{"rating": *filter.Rating})
	}

	listSQL, listArgs, err := dialect.From("reviews").
		Select(goqu.L(reviewColumns)).
		Where(where...).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build review list query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		r.log.Error("Failed to list reviews",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	countSQL, countArgs, err := dialect.From("reviews").
		Select(goqu.COUNT("*")).
		Where(where...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build review count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		r.log.Error("Failed to count reviews", zap.Error(err))
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	return reviews, total, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, comment = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		review.ID,
		review.Rating,
		review.Comment,
		review.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.String("review_id", review.ID.String()),
		)
		return fmt.Errorf("update review %s: %w", review.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("review %s not found", review.ID.String()))
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reviews WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return fmt.Errorf("delete review %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("review %s not found", id.String()))
	}

	r.log.Info("Review deleted", zap.String("review_id", id.String()))
	return nil
}

func (r *reviewRepository) GetProviderRatingStats(ctx context.Context, providerID uuid.UUID) (float64, int64, error) {
	query := `
		SELECT
			COALESCE(AVG(rating), 0) as avg_rating,
			COUNT(*) as review_count
		FROM reviews
		WHERE provider_id = $1
	`

	var avgRating float64
	var reviewCount int64
	err := r.db.QueryRow(ctx, query, providerID).Scan(&avgRating, &reviewCount)
	if err != nil {
		r.log.Error("Failed to get provider rating stats",
			zap.Error(err),
			zap.String("provider_id", providerID.String()),
		)
		return 0, 0, fmt.Errorf("get provider rating stats for %s: %w", providerID.String(), err)
	}

	return avgRating, reviewCount, nil
}

func (r *reviewRepository) GetServiceRatingStats(ctx context.Context, serviceID uuid.UUID) (float64, int64, error) {
	query := `
		SELECT
			COALESCE(AVG(rating), 0) as avg_rating,
			COUNT(*) as review_count
		FROM reviews
		WHERE service_id = $1
	`

	var avgRating float64
	var reviewCount int64
	err := r.db.QueryRow(ctx, query, serviceID).Scan(&avgRating, &reviewCount)
	if err != nil {
		r.log.Error("Failed to get service rating stats",
			zap.Error(err),
			zap.String("service_id", serviceID.String()),
		)
		return 0, 0, fmt.Errorf("get service rating stats for %s: %w", serviceID.String(), err)
	}

	return avgRating, reviewCount, nil
}
