package response

import (
	"time"

	"service-booking/internal/data/entity"
)

// ProviderResponse includes the derived aggregates
type ProviderResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	BusinessName      string    `json:"business_name,omitempty"`
	Email             string    `json:"email,omitempty"`
	Rating            float64   `json:"rating"`
	TotalReviews      int64     `json:"total_reviews"`
	CompletedBookings int64     `json:"completed_bookings"`
	CreatedAt         time.Time `json:"created_at"`
}

func ProviderToResponse(p *entity.Provider) *ProviderResponse {
	return &ProviderResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		BusinessName:      p.BusinessName,
		Email:             p.Email,
		Rating:            p.Rating,
		TotalReviews:      p.TotalReviews,
		CompletedBookings: p.CompletedBookings,
		CreatedAt:         p.CreatedAt,
	}
}
