package usecase

import (
	"service-booking/internal/data/repository"
	"service-booking/pkg/cache"
	"service-booking/pkg/utils"

	"go.uber.org/zap"
)

// Service bundles the use-case layer for wiring
type Service struct {
	Booking  BookingService
	Review   ReviewService
	Rating   RatingService
	Provider ProviderService
}

func NewService(repo *repository.Repository, cacheClient *cache.Cache, config *utils.Config, log *zap.Logger) *Service {
	rating := NewRatingService(repo, cacheClient, log)

	return &Service{
		Booking:  NewBookingService(repo, rating, log),
		Review:   NewReviewService(repo, rating, log),
		Rating:   rating,
		Provider: NewProviderService(repo, cacheClient, config, log),
	}
}
