package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"service-booking/internal/data/entity"
	"service-booking/internal/data/repository"
	"service-booking/pkg/apperrors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory fakes mirroring the repository contracts, including the
// active-slot and one-review-per-service uniqueness rules.

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*entity.Booking)}
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.bookings {
		if b.BookingNumber == booking.BookingNumber {
			return repository.ErrBookingNumberTaken
		}
		if b.Status != entity.BookingStatusCancelled && b.Status != entity.BookingStatusCompleted &&
			b.ProviderID == booking.ProviderID &&
			b.ScheduledDate.Equal(booking.ScheduledDate) &&
			b.ScheduledTime == booking.ScheduledTime {
			return apperrors.NewSlotConflictError("provider is not available at the selected time")
		}
	}

	clone := *booking
	f.bookings[booking.ID] = &clone
	return nil
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (f *fakeBookingRepo) Update(ctx context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.bookings[booking.ID]; !ok {
		return apperrors.NewNotFoundError("booking not found")
	}
	clone := *booking
	f.bookings[booking.ID] = &clone
	return nil
}

func (f *fakeBookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.bookings[id]; !ok {
		return apperrors.NewNotFoundError("booking not found")
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeBookingRepo) List(ctx context.Context, filter repository.BookingFilter, limit, offset int) ([]*entity.Booking, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []*entity.Booking
	for _, b := range f.bookings {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.CustomerID != nil && b.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.ProviderID != nil && b.ProviderID != *filter.ProviderID {
			continue
		}
		if filter.ServiceID != nil && b.ServiceID != *filter.ServiceID {
			continue
		}
		clone := *b
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeBookingRepo) ExistsActiveSlot(ctx context.Context, providerID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.bookings {
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.Status == entity.BookingStatusCancelled || b.Status == entity.BookingStatusCompleted {
			continue
		}
		if b.ProviderID == providerID && b.ScheduledDate.Equal(date) && b.ScheduledTime == slot {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus, completedAt *time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	if completedAt != nil {
		b.CompletedAt = completedAt
	}
	b.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeBookingRepo) CountCompletedByProvider(ctx context.Context, providerID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, b := range f.bookings {
		if b.ProviderID == providerID && b.Status == entity.BookingStatusCompleted {
			count++
		}
	}
	return count, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]*entity.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[uuid.UUID]*entity.Review)}
}

func (f *fakeReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.reviews {
		if r.CustomerID == review.CustomerID && r.ServiceID == review.ServiceID {
			return apperrors.NewValidationError("customer has already reviewed this service")
		}
	}
	clone := *review
	f.reviews[review.ID] = &clone
	return nil
}

func (f *fakeReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.reviews[id]
	if !ok {
		return nil, nil
	}
	clone := *r
	return &clone, nil
}

func (f *fakeReviewRepo) FindByCustomerAndService(ctx context.Context, customerID, serviceID uuid.UUID) (*entity.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.reviews {
		if r.CustomerID == customerID && r.ServiceID == serviceID {
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeReviewRepo) List(ctx context.Context, filter repository.ReviewFilter, limit, offset int) ([]*entity.Review, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []*entity.Review
	for _, r := range f.reviews {
		if filter.CustomerID != nil && r.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.ProviderID != nil && r.ProviderID != *filter.ProviderID {
			continue
		}
		if filter.ServiceID != nil && r.ServiceID != *filter.ServiceID {
			continue
		}
		if filter.Rating != nil && r.Rating != *filter.Rating {
			continue
		}
		clone := *r
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeReviewRepo) Update(ctx context.Context, review *entity.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.reviews[review.ID]; !ok {
		return apperrors.NewNotFoundError("review not found")
	}
	clone := *review
	f.reviews[review.ID] = &clone
	return nil
}

func (f *fakeReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.reviews[id]; !ok {
		return apperrors.NewNotFoundError("review not found")
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewRepo) GetProviderRatingStats(ctx context.Context, providerID uuid.UUID) (float64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var sum, count int64
	for _, r := range f.reviews {
		if r.ProviderID == providerID {
			sum += int64(r.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func (f *fakeReviewRepo) GetServiceRatingStats(ctx context.Context, serviceID uuid.UUID) (float64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var sum, count int64
	for _, r := range f.reviews {
		if r.ServiceID == serviceID {
			sum += int64(r.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
}

func (f *fakeCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

type fakeProviderRepo struct {
	mu        sync.Mutex
	providers map[uuid.UUID]*entity.Provider
}

func (f *fakeProviderRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.providers[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (f *fakeProviderRepo) UpdateRatingStats(ctx context.Context, id uuid.UUID, rating float64, totalReviews int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.providers[id]
	if !ok {
		return apperrors.NewNotFoundError("provider not found")
	}
	p.Rating = rating
	p.TotalReviews = totalReviews
	return nil
}

func (f *fakeProviderRepo) UpdateCompletedBookings(ctx context.Context, id uuid.UUID, count int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.providers[id]
	if !ok {
		return apperrors.NewNotFoundError("provider not found")
	}
	p.CompletedBookings = count
	return nil
}

type fakeServiceRepo struct {
	services map[uuid.UUID]*entity.Service
}

func (f *fakeServiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, nil
	}
	return s, nil
}

type fakePaymentMethodRepo struct {
	methods map[uuid.UUID]*entity.PaymentMethod
}

func (f *fakePaymentMethodRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error) {
	m, ok := f.methods[id]
	if !ok {
		return nil, nil
	}
	return m, nil
}

func (f *fakePaymentMethodRepo) FindAllActive(ctx context.Context) ([]*entity.PaymentMethod, error) {
	var active []*entity.PaymentMethod
	for _, m := range f.methods {
		if m.IsActive {
			active = append(active, m)
		}
	}
	return active, nil
}

// testFixture seeds one of each party and exposes the fakes for assertions
type testFixture struct {
	repo *repository.Repository

	customer      *entity.Customer
	provider      *entity.Provider
	service       *entity.Service
	paymentMethod *entity.PaymentMethod

	bookingRepo  *fakeBookingRepo
	reviewRepo   *fakeReviewRepo
	providerRepo *fakeProviderRepo
}

func newTestFixture() *testFixture {
	now := time.Now()

	customer := &entity.Customer{
		Base:  entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:  "Jordan Lee",
		Email: "jordan@example.com",
		Phone: "555-0101",
	}
	provider := &entity.Provider{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:         "Alex Chen",
		BusinessName: "Chen Home Services",
		Email:        "alex@example.com",
	}
	service := &entity.Service{
		Base:            entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		ProviderID:      provider.ID,
		Name:            "Deep Cleaning",
		Price:           120,
		DurationMinutes: 90,
	}
	paymentMethod := &entity.PaymentMethod{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:     "Credit Card",
		IsActive: true,
	}

	bookingRepo := newFakeBookingRepo()
	reviewRepo := newFakeReviewRepo()
	providerRepo := &fakeProviderRepo{providers: map[uuid.UUID]*entity.Provider{provider.ID: provider}}

	repo := &repository.Repository{
		Customer:      &fakeCustomerRepo{customers: map[uuid.UUID]*entity.Customer{customer.ID: customer}},
		Provider:      providerRepo,
		Service:       &fakeServiceRepo{services: map[uuid.UUID]*entity.Service{service.ID: service}},
		PaymentMethod: &fakePaymentMethodRepo{methods: map[uuid.UUID]*entity.PaymentMethod{paymentMethod.ID: paymentMethod}},
		Booking:       bookingRepo,
		Review:        reviewRepo,
	}

	return &testFixture{
		repo:          repo,
		customer:      customer,
		provider:      provider,
		service:       service,
		paymentMethod: paymentMethod,
		bookingRepo:   bookingRepo,
		reviewRepo:    reviewRepo,
		providerRepo:  providerRepo,
	}
}

// addCustomer registers another customer so tests can review or book from
// distinct identities
func (f *testFixture) addCustomer(name string) *entity.Customer {
	now := time.Now()
	customer := &entity.Customer{
		Base:  entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:  name,
		Email: name + "@example.com",
	}
	f.repo.Customer.(*fakeCustomerRepo).customers[customer.ID] = customer
	return customer
}

func (f *testFixture) newBookingService() BookingService {
	log := zap.NewNop()
	rating := NewRatingService(f.repo, nil, log)
	return NewBookingService(f.repo, rating, log)
}

func (f *testFixture) newReviewService() ReviewService {
	log := zap.NewNop()
	rating := NewRatingService(f.repo, nil, log)
	return NewReviewService(f.repo, rating, log)
}
