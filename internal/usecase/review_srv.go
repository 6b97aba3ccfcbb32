package usecase

import (
	"context"
	"fmt"
	"time"

	"service-booking/internal/data/entity"
	"service-booking/internal/data/repository"
	"service-booking/internal/dto/request"
	"service-booking/internal/dto/response"
	"service-booking/pkg/apperrors"
	"service-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	CreateReview(ctx context.Context, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	GetReviewByID(ctx context.Context, reviewID string) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, reviewID string) error
	ListReviews(ctx context.Context, filter *request.ListReviewsFilter, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetProviderReviews(ctx context.Context, providerID string, page *request.PaginatedRequest) (*response.RatedReviewList, error)
	GetServiceReviews(ctx context.Context, serviceID string, page *request.PaginatedRequest) (*response.RatedReviewList, error)
	GetCustomerReviews(ctx context.Context, customerID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
}

type reviewService struct {
	repo   *repository.Repository
	rating RatingService
	log    *zap.Logger
}

func NewReviewService(repo *repository.Repository, rating RatingService, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:   repo,
		rating: rating,
		log:    log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create review validation failed", zap.Any("errors", errs))
		return nil, apperrors.NewValidationError(utils.FormatValidationErrors(errs))
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid customer ID format %s", req.CustomerID))
	}
	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid provider ID format %s", req.ProviderID))
	}
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid service ID format %s", req.ServiceID))
	}

	customer, err := s.repo.Customer.FindByID(ctx, customerID)
	if err != nil {
		return nil, storageErr(err)
	}
	if customer == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("customer %s not found", req.CustomerID))
	}

	provider, err := s.repo.Provider.FindByID(ctx, providerID)
	if err != nil {
		return nil, storageErr(err)
	}
	if provider == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("provider %s not found", req.ProviderID))
	}

	service, err := s.repo.Service.FindByID(ctx, serviceID)
	if err != nil {
		return nil, storageErr(err)
	}
	if service == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service %s not found", req.ServiceID))
	}

	// One review per (customer, service)
	existing, err := s.repo.Review.FindByCustomerAndService(ctx, customerID, serviceID)
	if err != nil {
		return nil, storageErr(err)
	}
	if existing != nil {
		return nil, apperrors.NewValidationError("customer has already reviewed this service")
	}

	// An attached booking must exist and be completed
	var bookingID *uuid.UUID
	if req.BookingID != nil {
		id, err := uuid.Parse(*req.BookingID)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid booking ID format %s", *req.BookingID))
		}

		booking, err := s.repo.Booking.FindByID(ctx, id)
		if err != nil {
			return nil, storageErr(err)
		}
		if booking == nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("booking %s not found", *req.BookingID))
		}
		if booking.Status != entity.BookingStatusCompleted {
			return nil, apperrors.NewValidationError("can only review completed bookings")
		}
		bookingID = &id
	}

	now := time.Now()
	review := &entity.Review{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CustomerID: customerID,
		ProviderID: providerID,
		ServiceID:  serviceID,
		BookingID:  bookingID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		return nil, storageErr(err)
	}

	s.refreshProviderRating(ctx, providerID)

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("customer_id", req.CustomerID),
		zap.String("provider_id", req.ProviderID),
		zap.Int("rating", req.Rating),
	)

	resp := response.ReviewToResponse(review, customer, provider, service)
	return &resp, nil
}

func (s *reviewService) GetReviewByID(ctx context.Context, reviewID string) (*response.ReviewResponse, error) {
	id, err := uuid.Parse(reviewID)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid review ID format %s", reviewID))
	}

	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if review == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("review %s not found", reviewID))
	}

	return s.buildReviewResponse(ctx, review), nil
}

func (s *reviewService) UpdateReview(ctx context.Context, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperrors.NewValidationError(utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(reviewID)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid review ID format %s", reviewID))
	}

	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if review == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("review %s not found", reviewID))
	}

	updated := false
	if req.Rating != nil && *req.Rating != review.Rating {
		review.Rating = *req.Rating
		updated = true
	}
	if req.Comment != nil {
		review.Comment = req.Comment
		updated = true
	}

	if !updated {
		return s.buildReviewResponse(ctx, review), nil
	}

	review.UpdatedAt = time.Now()

	if err := s.repo.Review.Update(ctx, review); err != nil {
		return nil, storageErr(err)
	}

	s.refreshProviderRating(ctx, review.ProviderID)

	s.log.Info("Review updated",
		zap.String("review_id", reviewID),
		zap.Int("rating", review.Rating),
	)

	return s.buildReviewResponse(ctx, review), nil
}

func (s *reviewService) DeleteReview(ctx context.Context, reviewID string) error {
	id, err := uuid.Parse(reviewID)
	if err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("invalid review ID format %s", reviewID))
	}

	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return storageErr(err)
	}
	if review == nil {
		return apperrors.NewNotFoundError(fmt.Sprintf("review %s not found", reviewID))
	}

	if err := s.repo.Review.Delete(ctx, id); err != nil {
		return storageErr(err)
	}

	s.refreshProviderRating(ctx, review.ProviderID)

	return nil
}

func (s *reviewService) ListReviews(ctx context.Context, filter *request.ListReviewsFilter, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	repoFilter, err := buildReviewFilter(filter)
	if err != nil {
		return nil, err
	}

	reviews, total, err := s.repo.Review.List(ctx, repoFilter, page.Limit(), page.Offset())
	if err != nil {
		return nil, storageErr(err)
	}

	return response.NewPaginatedResponse(s.buildReviewResponses(ctx, reviews), page.Page, page.PerPage, total), nil
}

func (s *reviewService) GetProviderReviews(ctx context.Context, providerID string, page *request.PaginatedRequest) (*response.RatedReviewList, error) {
	id, err := uuid.Parse(providerID)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid provider ID format %s", providerID))
	}

	reviews, total, err := s.repo.Review.List(ctx, repository.ReviewFilter{ProviderID: &id}, page.Limit(), page.Offset())
	if err != nil {
		return nil, storageErr(err)
	}

	avgRating, totalReviews, err := s.repo.Review.GetProviderRatingStats(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}

	return &response.RatedReviewList{
		Reviews:       s.buildReviewResponses(ctx, reviews),
		AverageRating: avgRating,
		TotalReviews:  totalReviews,
		Pagination: response.PaginationMeta{
			Page:       page.Page,
			PerPage:    page.PerPage,
			Total:      total,
			TotalPages: utils.CalculateTotalPages(total, page.PerPage),
		},
	}, nil
}

func (s *reviewService) GetServiceReviews(ctx context.Context, serviceID string, page *request.PaginatedRequest) (*response.RatedReviewList, error) {
	id, err := uuid.Parse(serviceID)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid service ID format %s", serviceID))
	}

	reviews, total, err := s.repo.Review.List(ctx, repository.ReviewFilter{ServiceID: &id}, page.Limit(), page.Offset())
	if err != nil {
		return nil, storageErr(err)
	}

	avgRating, totalReviews, err := s.repo.Review.GetServiceRatingStats(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}

	return &response.RatedReviewList{
		Reviews:       s.buildReviewResponses(ctx, reviews),
		AverageRating: avgRating,
		TotalReviews:  totalReviews,
		Pagination: response.PaginationMeta{
			Page:       page.Page,
			PerPage:    page.PerPage,
			Total:      total,
			TotalPages: utils.CalculateTotalPages(total, page.PerPage),
		},
	}, nil
}

func (s *reviewService) GetCustomerReviews(ctx context.Context, customerID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	id, err := uuid.Parse(customerID)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid customer ID format %s", customerID))
	}

	reviews, total, err := s.repo.Review.List(ctx, repository.ReviewFilter{CustomerID: &id}, page.Limit(), page.Offset())
	if err != nil {
		return nil, storageErr(err)
	}

	return response.NewPaginatedResponse(s.buildReviewResponses(ctx, reviews), page.Page, page.PerPage, total), nil
}

// ==================== HELPER METHODS ====================

func buildReviewFilter(filter *request.ListReviewsFilter) (repository.ReviewFilter, error) {
	var repoFilter repository.ReviewFilter
	if filter == nil {
		return repoFilter, nil
	}

	if filter.CustomerID != "" {
		id, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return repoFilter, apperrors.NewValidationError(fmt.Sprintf("invalid customer ID format %s", filter.CustomerID))
		}
		repoFilter.CustomerID = &id
	}
	if filter.ProviderID != "" {
		id, err := uuid.Parse(filter.ProviderID)
		if err != nil {
			return repoFilter, apperrors.NewValidationError(fmt.Sprintf("invalid provider ID format %s", filter.ProviderID))
		}
		repoFilter.ProviderID = &id
	}
	if filter.ServiceID != "" {
		id, err := uuid.Parse(filter.ServiceID)
		if err != nil {
			return repoFilter, apperrors.NewValidationError(fmt.Sprintf("invalid service ID format %s", filter.ServiceID))
		}
		repoFilter.ServiceID = &id
	}
	if filter.Rating != 0 {
		rating := filter.Rating
		repoFilter.Rating = &rating
	}

	return repoFilter, nil
}

// refreshProviderRating keeps review mutations independent of aggregate
// refresh: failures are logged and swallowed
func (s *reviewService) refreshProviderRating(ctx context.Context, providerID uuid.UUID) {
	if _, _, err := s.rating.RecomputeProviderRating(ctx, providerID); err != nil {
		s.log.Warn("Failed to recompute provider rating",
			zap.Error(err),
			zap.String("provider_id", providerID.String()),
		)
	}
}

func (s *reviewService) buildReviewResponses(ctx context.Context, reviews []*entity.Review) []response.ReviewResponse {
	reviewResponses := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		reviewResponses[i] = *s.buildReviewResponse(ctx, review)
	}
	return reviewResponses
}

func (s *reviewService) buildReviewResponse(ctx context.Context, review *entity.Review) *response.ReviewResponse {
	customer, _ := s.repo.Customer.FindByID(ctx, review.CustomerID)
	provider, _ := s.repo.Provider.FindByID(ctx, review.ProviderID)
	service, _ := s.repo.Service.FindByID(ctx, review.ServiceID)

	resp := response.ReviewToResponse(review, customer, provider, service)
	return &resp
}
