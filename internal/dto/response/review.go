package response

import (
	"time"

	"service-booking/internal/data/entity"
)

type ReviewResponse struct {
	ID        string           `json:"id"`
	Customer  *CustomerSummary `json:"customer,omitempty"`
	Provider  *ProviderSummary `json:"provider,omitempty"`
	Service   *ServiceSummary  `json:"service,omitempty"`
	BookingID *string          `json:"booking_id,omitempty"`
	Rating    int              `json:"rating"`
	Comment   *string          `json:"comment,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// RatedReviewList is the provider/service review listing, which carries the
// aggregate alongside the page.
type RatedReviewList struct {
	Reviews       []ReviewResponse `json:"reviews"`
	AverageRating float64          `json:"average_rating"`
	TotalReviews  int64            `json:"total_reviews"`
	Pagination    PaginationMeta   `json:"pagination"`
}

func ReviewToResponse(r *entity.Review, customer *entity.Customer, provider *entity.Provider, service *entity.Service) ReviewResponse {
	var bookingID *string
	if r.BookingID != nil {
		id := r.BookingID.String()
		bookingID = &id
	}

	return ReviewResponse{
		ID:        r.ID.String(),
		Customer:  CustomerToSummary(customer),
		Provider:  ProviderToSummary(provider),
		Service:   ServiceToSummary(service),
		BookingID: bookingID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
