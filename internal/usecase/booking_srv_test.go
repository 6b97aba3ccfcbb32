package usecase

import (
	"context"
	"testing"

	"service-booking/internal/data/entity"
	"service-booking/internal/dto/request"
	"service-booking/internal/dto/response"
	"service-booking/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest(f *testFixture) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		CustomerID:      f.customer.ID.String(),
		ProviderID:      f.provider.ID.String(),
		ServiceID:       f.service.ID.String(),
		ScheduledDate:   "2026-09-15",
		ScheduledTime:   "10:00",
		CustomerAddress: "12 Elm Street",
		PaymentMethodID: f.paymentMethod.ID.String(),
		Amount:          120,
	}
}

func mustCreateBooking(t *testing.T, svc BookingService, req *request.CreateBookingRequest) *response.BookingResponse {
	t.Helper()
	booking, err := svc.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, booking)
	return booking
}

func TestCreateBooking(t *testing.T) {
	f := newTestFixture()
	svc := f.newBookingService()

	booking := mustCreateBooking(t, svc, validCreateRequest(f))

	assert.Equal(t, entity.BookingStatusPending, booking.Status)
	assert.Equal(t, entity.PaymentStatusPending, booking.PaymentStatus)
	assert.Equal(t, "2026-09-15", booking.ScheduledDate)
	assert.Equal(t, "10:00", booking.ScheduledTime)
	assert.Len(t, booking.BookingNumber, 9)
	assert.Equal(t, "AME", booking.BookingNumber[:3])
	require.NotNil(t, booking.Customer)
	assert.Equal(t, f.customer.Name, booking.Customer.Name)
	require.NotNil(t, booking.Provider)
	assert.Equal(t, f.provider.Name, booking.Provider.Name)
}

func TestCreateBookingSlotConflict(t *testing.T) {
	f := newTestFixture()
	svc := f.newBookingService()

	mustCreateBooking(t, svc, validCreateRequest(f))

	// Same provider, date and time from another customer
	_, err := svc.CreateBooking(context.Background(), validCreateRequest(f))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeSlotConflict))

	// A different time slot is fine
	req := validCreateRequest(f)
	req.ScheduledTime = "14:00"
	mustCreateBooking(t, svc, req)
}

func TestCreateBookingCancelledSlotIsFree(t *testing.T) {
	f := newTestFixture()
	svc := f.newBookingService()

	booking := mustCreateBooking(t, svc, validCreateRequest(f))

	_, err := svc.UpdateBookingStatus(context.Background(), booking.ID,
		&request.UpdateBookingStatusRequest{Status: "cancelled"})
	require.NoError(t, err)

	// The cancelled booking no longer holds the slot
	mustCreateBooking(t, svc, validCreateRequest(f))
}

func TestCreateBookingValidation(t *testing.T) {
	f := newTestFixture()
	svc := f.newBookingService()

	tests := []struct {
		name   string
		mutate func(*request.CreateBookingRequest)
	}{
		{"missing customer", func(r *request.CreateBookingRequest) { r.CustomerID = "" }},
		{"bad date format", func(r *request.CreateBookingRequest) { r.ScheduledDate = "15/09/2026" }},
		{"zero amount", func(r *request.CreateBookingRequest) { r.Amount = 0 }},
		{"negative amount", func(r *request.CreateBookingRequest) { r.Amount = -5 }},
		{"missing address", func(r *request.CreateBookingRequest) { r.CustomerAddress = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest(f)
			tt.mutate(req)

			_, err := svc.CreateBooking(context.Background(), req)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		})
	}
}

func TestCreateBookingUnknownParties(t *testing.T) {
	f := newTestFixture()
	svc := f.newBookingService()

	req := validCreateRequest(f)
	req.CustomerID = "11111111-2222-4333-8444-555555555555"

	_, err := svc.CreateBooking(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestCreateBookingInactivePaymentMethod(t *testing.T) {
	f := newTestFixture()
	f.paymentMethod.IsActive = false
	svc := f.newBookingService()

	_, err := svc.CreateBooking(context.Background(), validCreateRequest(f))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestUpdateBookingFieldMask(t *testing.T) {
	f := newTestFixture()
	svc := f.newBookingService()

	booking := mustCreateBooking(t, svc, validCreateRequest(f))

	newAddress := "99 Oak Avenue"
	updated, err := svc.UpdateBooking(context.Background(), booking.ID,
		&request.UpdateBookingRequest{CustomerAddress: &newAddress})
	require.NoError(t, err)

	assert.Equal(t, newAddress, updated.CustomerAddress)
	// Untouched fields survive
	assert.Equal(t, booking.ScheduledDate, updated.ScheduledDate)
	assert.Equal(t, booking.ScheduledTime, updated.ScheduledTime)
	assert.Equal(t, booking.Amount, updated.Amount)
}

func TestUpdateBookingRescheduleConflict(t *testing.T) {
	f := newTestFixture()
	svc := f.newBookingService()

	first := mustCreateBooking(t, svc, validCreateRequest(f))

	secondReq := validCreateRequest(f)
	secondReq.ScheduledTime = "14:00"
	second := mustCreateBooking(t, svc, secondReq)

	// Moving the second booking onto the first one's slot must conflict
	conflictTime := "10:00"
	_, err := svc.UpdateBooking(context.Background(), second.ID,
		&request.UpdateBookingRequest{ScheduledTime: &conflictTime})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeSlotConflict))

	// Re-submitting a booking's own slot is not a conflict with itself
	ownTime := "10:00"
	_, err = svc.UpdateBooking(context.Background(), first.ID,
		&request.UpdateBookingRequest{ScheduledTime: &ownTime})
	require.NoError(t, err)
}

func TestUpdateBookingStatusLifecycle(t *testing.T) {
	f := newTestFixture()
	svc := f.newBookingService()
	ctx := context.Background()

	booking := mustCreateBooking(t, svc, validCreateRequest(f))

	for _, status := range []string{"accepted", "confirmed", "in_progress", "completed"} {
		updated, err := svc.UpdateBookingStatus(ctx, booking.ID,
			&request.UpdateBookingStatusRequest{Status: status})
		require.NoError(t, err, "transition to %s", status)
		assert.Equal(t, entity.BookingStatus(status), updated.Status)
	}

	stored, err := svc.GetBookingByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCompleted, stored.Status)
	assert.NotNil(t, stored.CompletedAt)

	// Completion feeds the provider's counter
	assert.Equal(t, int64(1), f.provider.CompletedBookings)
}

func TestUpdateBookingStatusIllegalTransitions(t *testing.T) {
	f := newTestFixture()
	svc := f.newBookingService()
	ctx := context.Background()

	booking := mustCreateBooking(t, svc, validCreateRequest(f))

	// Skipping states is rejected
	_, err := svc.UpdateBookingStatus(ctx, booking.ID,
		&request.UpdateBookingStatusRequest{Status: "completed"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeIllegalTransition))

	// Terminal states have no outgoing edges
	_, err = svc.UpdateBookingStatus(ctx, booking.ID,
		&request.UpdateBookingStatusRequest{Status: "cancelled"})
	require.NoError(t, err)

	_, err = svc.UpdateBookingStatus(ctx, booking.ID,
		&request.UpdateBookingStatusRequest{Status: "accepted"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeIllegalTransition))
}

func TestUpdateBookingStatusCaseInsensitive(t *testing.T) {
	f := newTestFixture()
	svc := f.newBookingService()

	booking := mustCreateBooking(t, svc, validCreateRequest(f))

	updated, err := svc.UpdateBookingStatus(context.Background(), booking.ID,
		&request.UpdateBookingStatusRequest{Status: "ACCEPTED"})
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusAccepted, updated.Status)
}

func TestUpdateBookingStatusUnknownValue(t *testing.T) {
	f := newTestFixture()
	svc := f.newBookingService()

	booking := mustCreateBooking(t, svc, validCreateRequest(f))

	_, err := svc.UpdateBookingStatus(context.Background(), booking.ID,
		&request.UpdateBookingStatusRequest{Status: "archived"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestDeleteBooking(t *testing.T) {
	f := newTestFixture()
	svc := f.newBookingService()
	ctx := context.Background()

	booking := mustCreateBooking(t, svc, validCreateRequest(f))

	require.NoError(t, svc.DeleteBooking(ctx, booking.ID))

	_, err := svc.GetBookingByID(ctx, booking.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestListBookingsFilterAndPaging(t *testing.T) {
	f := newTestFixture()
	svc := f.newBookingService()
	ctx := context.Background()

	times := []string{"09:00", "10:00", "11:00", "12:00", "13:00"}
	for _, slot := range times {
		req := validCreateRequest(f)
		req.ScheduledTime = slot
		mustCreateBooking(t, svc, req)
	}

	page := &request.PaginatedRequest{Page: 1, PerPage: 2}
	result, err := svc.ListBookings(ctx, nil, page)
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Pagination.Total)
	assert.Equal(t, 3, result.Pagination.TotalPages)
	assert.Len(t, result.Data, 2)

	// Status filter
	result, err = svc.ListBookings(ctx,
		&request.ListBookingsFilter{Status: "pending"},
		&request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Pagination.Total)

	result, err = svc.ListBookings(ctx,
		&request.ListBookingsFilter{Status: "completed"},
		&request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Pagination.Total)
	assert.Empty(t, result.Data)
}

func TestListBookingsOutOfRangePage(t *testing.T) {
	f := newTestFixture()
	svc := f.newBookingService()

	mustCreateBooking(t, svc, validCreateRequest(f))

	result, err := svc.ListBookings(context.Background(), nil,
		&request.PaginatedRequest{Page: 7, PerPage: 10})
	require.NoError(t, err)

	// Out-of-range pages are empty, not an error, and keep the real total
	assert.Empty(t, result.Data)
	assert.NotNil(t, result.Data)
	assert.Equal(t, int64(1), result.Pagination.Total)
}

func TestGetProviderBookingsStatusFilter(t *testing.T) {
	f := newTestFixture()
	svc := f.newBookingService()
	ctx := context.Background()

	booking := mustCreateBooking(t, svc, validCreateRequest(f))
	_, err := svc.UpdateBookingStatus(ctx, booking.ID,
		&request.UpdateBookingStatusRequest{Status: "accepted"})
	require.NoError(t, err)

	secondReq := validCreateRequest(f)
	secondReq.ScheduledTime = "15:00"
	mustCreateBooking(t, svc, secondReq)

	page := &request.PaginatedRequest{Page: 1, PerPage: 10}

	all, err := svc.GetProviderBookings(ctx, f.provider.ID.String(), "", page)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Pagination.Total)

	accepted, err := svc.GetProviderBookings(ctx, f.provider.ID.String(), "accepted", page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), accepted.Pagination.Total)

	_, err = svc.GetProviderBookings(ctx, f.provider.ID.String(), "bogus", page)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
