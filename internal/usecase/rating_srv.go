package usecase

import (
	"context"
	"fmt"

	"service-booking/internal/data/repository"
	"service-booking/pkg/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RatingService recomputes the derived provider aggregates from scratch.
// Recomputation is idempotent and last-writer-wins: the result is always a
// valid function of the then-current review/booking set, so concurrent
// recomputes race harmlessly.
type RatingService interface {
	RecomputeProviderRating(ctx context.Context, providerID uuid.UUID) (float64, int64, error)
	RecomputeCompletedBookings(ctx context.Context, providerID uuid.UUID) (int64, error)
}

type ratingService struct {
	repo  *repository.Repository
	cache *cache.Cache
	log   *zap.Logger
}

func NewRatingService(repo *repository.Repository, cacheClient *cache.Cache, log *zap.Logger) RatingService {
	return &ratingService{
		repo:  repo,
		cache: cacheClient,
		log:   log.With(zap.String("service", "rating")),
	}
}

func providerCacheKey(id uuid.UUID) string {
	return "provider:" + id.String()
}

// RecomputeProviderRating refreshes rating and total_reviews from the full
// review set. When no reviews exist both fields reset to zero.
func (s *ratingService) RecomputeProviderRating(ctx context.Context, providerID uuid.UUID) (float64, int64, error) {
	avgRating, totalReviews, err := s.repo.Review.GetProviderRatingStats(ctx, providerID)
	if err != nil {
		return 0, 0, fmt.Errorf("get provider rating stats: %w", err)
	}

	if err := s.repo.Provider.UpdateRatingStats(ctx, providerID, avgRating, totalReviews); err != nil {
		return 0, 0, fmt.Errorf("update provider rating stats: %w", err)
	}

	s.invalidateProvider(ctx, providerID)

	s.log.Debug("Provider rating recomputed",
		zap.String("provider_id", providerID.String()),
		zap.Float64("rating", avgRating),
		zap.Int64("total_reviews", totalReviews),
	)

	return avgRating, totalReviews, nil
}

// RecomputeCompletedBookings refreshes the completed-booking counter by
// counting rather than incrementing, so retries and races cannot drift it.
func (s *ratingService) RecomputeCompletedBookings(ctx context.Context, providerID uuid.UUID) (int64, error) {
	count, err := s.repo.Booking.CountCompletedByProvider(ctx, providerID)
	if err != nil {
		return 0, fmt.Errorf("count completed bookings: %w", err)
	}

	if err := s.repo.Provider.UpdateCompletedBookings(ctx, providerID, count); err != nil {
		return 0, fmt.Errorf("update provider completed bookings: %w", err)
	}

	s.invalidateProvider(ctx, providerID)

	s.log.Debug("Provider completed bookings recomputed",
		zap.String("provider_id", providerID.String()),
		zap.Int64("completed_bookings", count),
	)

	return count, nil
}

func (s *ratingService) invalidateProvider(ctx context.Context, providerID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, providerCacheKey(providerID)); err != nil {
		s.log.Warn("Failed to invalidate provider cache",
			zap.Error(err),
			zap.String("provider_id", providerID.String()),
		)
	}
}
