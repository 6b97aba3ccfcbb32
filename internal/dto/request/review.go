package request

type CreateReviewRequest struct {
	CustomerID string  `json:"customer_id" validate:"required,uuid4"`
	ProviderID string  `json:"provider_id" validate:"required,uuid4"`
	ServiceID  string  `json:"service_id" validate:"required,uuid4"`
	BookingID  *string `json:"booking_id,omitempty" validate:"omitempty,uuid4"`
	Rating     int     `json:"rating" validate:"required,min=1,max=5"`
	Comment    *string `json:"comment,omitempty"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty"`
}

type ListReviewsFilter struct {
	CustomerID string `json:"customer_id" validate:"omitempty,uuid4"`
	ProviderID string `json:"provider_id" validate:"omitempty,uuid4"`
	ServiceID  string `json:"service_id" validate:"omitempty,uuid4"`
	Rating     int    `json:"rating" validate:"omitempty,min=1,max=5"`
}
