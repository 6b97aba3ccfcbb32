package wire

import (
	"service-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler) {
	r.Route("/api/reviews", func(r chi.Router) {
		// POST /api/reviews - Create a review (one per customer per service)
		r.Post("/", reviewHandler.CreateReview)

		// GET /api/reviews - List reviews with optional filters
		r.Get("/", reviewHandler.ListReviews)

		// GET /api/reviews/{id} - Review details
		r.Get("/{id}", reviewHandler.GetReviewByID)

		// PUT /api/reviews/{id} - Update rating/comment
		r.Put("/{id}", reviewHandler.UpdateReview)

		// DELETE /api/reviews/{id} - Remove a review
		r.Delete("/{id}", reviewHandler.DeleteReview)

		// Scoped listings; provider and service carry the rating aggregate
		r.Get("/provider/{providerId}", reviewHandler.GetProviderReviews)
		r.Get("/service/{serviceId}", reviewHandler.GetServiceReviews)
		r.Get("/customer/{customerId}", reviewHandler.GetCustomerReviews)
	})
}
