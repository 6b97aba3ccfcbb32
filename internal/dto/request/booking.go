package request

type CreateBookingRequest struct {
	CustomerID          string  `json:"customer_id" validate:"required,uuid4"`
	ProviderID          string  `json:"provider_id" validate:"required,uuid4"`
	ServiceID           string  `json:"service_id" validate:"required,uuid4"`
	ScheduledDate       string  `json:"scheduled_date" validate:"required,datetime=2006-01-02"`
	ScheduledTime       string  `json:"scheduled_time" validate:"required"`
	CustomerAddress     string  `json:"customer_address" validate:"required"`
	PaymentMethodID     string  `json:"payment_method_id" validate:"required,uuid4"`
	Amount              float64 `json:"amount" validate:"required,gt=0"`
	SpecialInstructions string  `json:"special_instructions"`
}

// UpdateBookingRequest carries field-mask semantics: only non-nil fields
// mutate the booking. A schedule change re-runs the conflict check.
type UpdateBookingRequest struct {
	ScheduledDate       *string  `json:"scheduled_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ScheduledTime       *string  `json:"scheduled_time,omitempty"`
	CustomerAddress     *string  `json:"customer_address,omitempty"`
	PaymentMethodID     *string  `json:"payment_method_id,omitempty" validate:"omitempty,uuid4"`
	Amount              *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	PaymentStatus       *string  `json:"payment_status,omitempty" validate:"omitempty,oneof=pending completed failed"`
	SpecialInstructions *string  `json:"special_instructions,omitempty"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListBookingsFilter holds optional query-string filters; empty strings
// mean "not filtered".
type ListBookingsFilter struct {
	Status     string `json:"status" validate:"omitempty"`
	CustomerID string `json:"customer_id" validate:"omitempty,uuid4"`
	ProviderID string `json:"provider_id" validate:"omitempty,uuid4"`
	ServiceID  string `json:"service_id" validate:"omitempty,uuid4"`
}
