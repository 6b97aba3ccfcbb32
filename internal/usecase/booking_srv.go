package usecase

import (
	"context"
	"errors"
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

const scheduledDateLayout = "2006-01-02"

// bookingNumberAttempts bounds regeneration when the vanity code collides
const bookingNumberAttempts = 5

type BookingService interface {
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	UpdateBooking(ctx context.Context, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error)
	UpdateBookingStatus(ctx context.Context, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)
	DeleteBooking(ctx context.Context, bookingID string) error
	ListBookings(ctx context.Context, filter *request.ListBookingsFilter, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetCustomerBookings(ctx context.Context, customerID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetProviderBookings(ctx context.Context, providerID, status string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetServiceBookings(ctx context.Context, serviceID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type bookingService struct {
	repo   *repository.Repository
	rating RatingService
	log    *zap.Logger
}

func NewBookingService(repo *repository.Repository, rating RatingService, log *zap.Logger) BookingService {
	return &bookingService{
		repo:   repo,
		rating: rating,
		log:    log.With(zap.String("service", "booking")),
	}
}

// storageErr passes typed application errors through and classifies
// everything else as transient storage failure. The wrapped cause stays in
// the logs and never reaches the caller.
func storageErr(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.NewTransientError("storage unavailable", err)
}

func (s *bookingService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
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
	paymentMethodID, err := uuid.Parse(req.PaymentMethodID)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid payment method ID format %s", req.PaymentMethodID))
	}

	scheduledDate, err := time.Parse(scheduledDateLayout, req.ScheduledDate)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid scheduled date %s", req.ScheduledDate))
	}

	// Party resolution: existence checks plus summaries for the response
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

	paymentMethod, err := s.repo.PaymentMethod.FindByID(ctx, paymentMethodID)
	if err != nil {
		return nil, storageErr(err)
	}
	if paymentMethod == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("payment method %s not found", req.PaymentMethodID))
	}
	if !paymentMethod.IsActive {
		return nil, apperrors.NewValidationError(fmt.Sprintf("payment method %s is not active", paymentMethod.Name))
	}

	// Fast pre-check; the storage-level unique index is the actual guard
	occupied, err := s.repo.Booking.ExistsActiveSlot(ctx, providerID, scheduledDate, req.ScheduledTime, nil)
	if err != nil {
		return nil, storageErr(err)
	}
	if occupied {
		return nil, apperrors.NewSlotConflictError("provider is not available at the selected time")
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CustomerID:          customerID,
		ProviderID:          providerID,
		ServiceID:           serviceID,
		ScheduledDate:       scheduledDate,
		ScheduledTime:       req.ScheduledTime,
		CustomerAddress:     req.CustomerAddress,
		PaymentMethodID:     paymentMethodID,
		Amount:              req.Amount,
		PaymentStatus:       entity.PaymentStatusPending,
		Status:              entity.BookingStatusPending,
		SpecialInstructions: req.SpecialInstructions,
	}

	// Regenerate the vanity code on collision, bounded
	created := false
	for attempt := 0; attempt < bookingNumberAttempts; attempt++ {
		booking.BookingNumber = utils.GenerateBookingNumber()

		err = s.repo.Booking.Create(ctx, booking)
		if err == nil {
			created = true
			break
		}
		if errors.Is(err, repository.ErrBookingNumberTaken) {
			continue
		}
		return nil, storageErr(err)
	}
	if !created {
		s.log.Error("Exhausted booking number attempts",
			zap.String("provider_id", req.ProviderID),
			zap.Int("attempts", bookingNumberAttempts),
		)
		return nil, apperrors.NewTransientError("could not allocate booking number", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_number", booking.BookingNumber),
		zap.String("provider_id", req.ProviderID),
		zap.String("scheduled_date", req.ScheduledDate),
		zap.String("scheduled_time", req.ScheduledTime),
		zap.Float64("amount", req.Amount),
	)

	return response.BookingToResponse(booking, customer, provider, service, paymentMethod), nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid booking ID format %s", bookingID))
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if booking == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking %s not found", bookingID))
	}

	return s.buildBookingResponse(ctx, booking), nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update booking validation failed", zap.Any("errors", errs))
		return nil, apperrors.NewValidationError(utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid booking ID format %s", bookingID))
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if booking == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking %s not found", bookingID))
	}

	// Field mask: only fields present in the request mutate
	scheduleChanged := false

	if req.ScheduledDate != nil {
		newDate, err := time.Parse(scheduledDateLayout, *req.ScheduledDate)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid scheduled date %s", *req.ScheduledDate))
		}
		if !newDate.Equal(booking.ScheduledDate) {
			booking.ScheduledDate = newDate
			scheduleChanged = true
		}
	}
	if req.ScheduledTime != nil && *req.ScheduledTime != booking.ScheduledTime {
		booking.ScheduledTime = *req.ScheduledTime
		scheduleChanged = true
	}
	if req.CustomerAddress != nil {
		booking.CustomerAddress = *req.CustomerAddress
	}
	if req.PaymentMethodID != nil {
		paymentMethodID, err := uuid.Parse(*req.PaymentMethodID)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid payment method ID format %s", *req.PaymentMethodID))
		}
		paymentMethod, err := s.repo.PaymentMethod.FindByID(ctx, paymentMethodID)
		if err != nil {
			return nil, storageErr(err)
		}
		if paymentMethod == nil {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("payment method %s not found", *req.PaymentMethodID))
		}
		booking.PaymentMethodID = paymentMethodID
	}
	if req.Amount != nil {
		booking.Amount = *req.Amount
	}
	if req.PaymentStatus != nil {
		booking.PaymentStatus = entity.PaymentStatus(*req.PaymentStatus)
	}
	if req.SpecialInstructions != nil {
		booking.SpecialInstructions = *req.SpecialInstructions
	}

	// A schedule change on a live booking must re-pass the conflict check,
	// excluding the booking itself
	if scheduleChanged && !booking.Status.IsTerminal() {
		occupied, err := s.repo.Booking.ExistsActiveSlot(ctx, booking.ProviderID, booking.ScheduledDate, booking.ScheduledTime, &booking.ID)
		if err != nil {
			return nil, storageErr(err)
		}
		if occupied {
			return nil, apperrors.NewSlotConflictError("provider is not available at the selected time")
		}
	}

	booking.UpdatedAt = time.Now()

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, storageErr(err)
	}

	s.log.Info("Booking updated",
		zap.String("booking_id", bookingID),
		zap.Bool("schedule_changed", scheduleChanged),
	)

	return s.buildBookingResponse(ctx, booking), nil
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperrors.NewValidationError(utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid booking ID format %s", bookingID))
	}

	// Case-normalized at the boundary: "COMPLETED" and "completed" are equivalent
	newStatus, ok := entity.ParseBookingStatus(req.Status)
	if !ok {
		return nil, apperrors.NewValidationError(
			"invalid status, must be one of: pending, accepted, confirmed, in_progress, completed, cancelled")
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if booking == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking %s not found", bookingID))
	}

	if !booking.Status.CanTransitionTo(newStatus) {
		return nil, apperrors.NewIllegalTransitionError(
			fmt.Sprintf("cannot transition booking from %s to %s", booking.Status, newStatus))
	}

	var completedAt *time.Time
	if newStatus == entity.BookingStatusCompleted {
		now := time.Now()
		completedAt = &now
	}

	applied, err := s.repo.Booking.UpdateStatusIf(ctx, id, booking.Status, newStatus, completedAt)
	if err != nil {
		return nil, storageErr(err)
	}
	if !applied {
		// Lost the race: another transition landed first. Re-read so the
		// error reflects the actual current state.
		current, err := s.repo.Booking.FindByID(ctx, id)
		if err != nil {
			return nil, storageErr(err)
		}
		if current == nil {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking %s not found", bookingID))
		}
		return nil, apperrors.NewIllegalTransitionError(
			fmt.Sprintf("cannot transition booking from %s to %s", current.Status, newStatus))
	}

	booking.Status = newStatus
	if completedAt != nil {
		booking.CompletedAt = completedAt
	}
	booking.UpdatedAt = time.Now()

	// Completion feeds the provider's completed-booking counter; failures
	// must not fail the transition itself
	if newStatus == entity.BookingStatusCompleted {
		if _, err := s.rating.RecomputeCompletedBookings(ctx, booking.ProviderID); err != nil {
			s.log.Warn("Failed to recompute completed bookings",
				zap.Error(err),
				zap.String("provider_id", booking.ProviderID.String()),
			)
		}
	}

	s.log.Info("Booking status updated",
		zap.String("booking_id", bookingID),
		zap.String("status", string(newStatus)),
	)

	return s.buildBookingResponse(ctx, booking), nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("invalid booking ID format %s", bookingID))
	}

	if err := s.repo.Booking.Delete(ctx, id); err != nil {
		return storageErr(err)
	}

	return nil
}

func (s *bookingService) ListBookings(ctx context.Context, filter *request.ListBookingsFilter, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	repoFilter, err := buildBookingFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.listBookings(ctx, repoFilter, page)
}

func (s *bookingService) GetCustomerBookings(ctx context.Context, customerID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	id, err := uuid.Parse(customerID)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid customer ID format %s", customerID))
	}
	return s.listBookings(ctx, repository.BookingFilter{CustomerID: &id}, page)
}

func (s *bookingService) GetProviderBookings(ctx context.Context, providerID, status string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	id, err := uuid.Parse(providerID)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid provider ID format %s", providerID))
	}

	filter := repository.BookingFilter{ProviderID: &id}
	if status != "" {
		parsed, ok := entity.ParseBookingStatus(status)
		if !ok {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid status filter %s", status))
		}
		filter.Status = &parsed
	}

	return s.listBookings(ctx, filter, page)
}

func (s *bookingService) GetServiceBookings(ctx context.Context, serviceID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	id, err := uuid.Parse(serviceID)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid service ID format %s", serviceID))
	}
	return s.listBookings(ctx, repository.BookingFilter{ServiceID: &id}, page)
}

// ==================== HELPER METHODS ====================

func buildBookingFilter(filter *request.ListBookingsFilter) (repository.BookingFilter, error) {
	var repoFilter repository.BookingFilter
	if filter == nil {
		return repoFilter, nil
	}

	if filter.Status != "" {
		status, ok := entity.ParseBookingStatus(filter.Status)
		if !ok {
			return repoFilter, apperrors.NewValidationError(fmt.Sprintf("invalid status filter %s", filter.Status))
		}
		repoFilter.Status = &status
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

	return repoFilter, nil
}

// listBookings pages through the filtered set. Out-of-range pages return an
// empty list with the correct total, never an error.
func (s *bookingService) listBookings(ctx context.Context, filter repository.BookingFilter, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, total, err := s.repo.Booking.List(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, storageErr(err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = *s.buildBookingResponse(ctx, booking)
	}

	return response.NewPaginatedResponse(bookingResponses, page.Page, page.PerPage, total), nil
}

// buildBookingResponse attaches party summaries best-effort; a vanished
// party yields an empty summary rather than failing the read
func (s *bookingService) buildBookingResponse(ctx context.Context, booking *entity.Booking) *response.BookingResponse {
	customer, _ := s.repo.Customer.FindByID(ctx, booking.CustomerID)
	provider, _ := s.repo.Provider.FindByID(ctx, booking.ProviderID)
	service, _ := s.repo.Service.FindByID(ctx, booking.ServiceID)
	paymentMethod, _ := s.repo.PaymentMethod.FindByID(ctx, booking.PaymentMethodID)

	return response.BookingToResponse(booking, customer, provider, service, paymentMethod)
}
