package wire

import (
	"service-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	r.Route("/api/bookings", func(r chi.Router) {
		// POST /api/bookings - Create a booking (slot conflict returns 409)
		r.Post("/", bookingHandler.CreateBooking)

		// GET /api/bookings - List bookings with optional filters
		r.Get("/", bookingHandler.ListBookings)

		// GET /api/bookings/{id} - Booking details
		r.Get("/{id}", bookingHandler.GetBookingByID)

		// PUT /api/bookings/{id} - Partial update; reschedule re-checks the slot
		r.Put("/{id}", bookingHandler.UpdateBooking)

		// PATCH /api/bookings/{id}/status - Status transition
		r.Patch("/{id}/status", bookingHandler.UpdateBookingStatus)

		// DELETE /api/bookings/{id} - Remove a booking
		r.Delete("/{id}", bookingHandler.DeleteBooking)

		// Party-scoped listings
		r.Get("/customer/{customerId}", bookingHandler.GetCustomerBookings)
		r.Get("/provider/{providerId}", bookingHandler.GetProviderBookings)
		r.Get("/service/{serviceId}", bookingHandler.GetServiceBookings)
	})
}
