package response

import (
	"time"

	"service-booking/internal/data/entity"
)

// CustomerSummary is the party projection attached to booking responses
type CustomerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type ProviderSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	BusinessName string `json:"business_name,omitempty"`
}

type ServiceSummary struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes,omitempty"`
}

type PaymentMethodResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type BookingResponse struct {
	ID                  string                 `json:"id"`
	BookingNumber       string                 `json:"booking_number"`
	Customer            *CustomerSummary       `json:"customer,omitempty"`
	Provider            *ProviderSummary       `json:"provider,omitempty"`
	Service             *ServiceSummary        `json:"service,omitempty"`
	ScheduledDate       string                 `json:"scheduled_date"`
	ScheduledTime       string                 `json:"scheduled_time"`
	CustomerAddress     string                 `json:"customer_address"`
	PaymentMethod       *PaymentMethodResponse `json:"payment_method,omitempty"`
	Amount              float64                `json:"amount"`
	PaymentStatus       entity.PaymentStatus   `json:"payment_status"`
	Status              entity.BookingStatus   `json:"status"`
	SpecialInstructions string                 `json:"special_instructions,omitempty"`
	CompletedAt         *time.Time             `json:"completed_at,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// Helper converters

func CustomerToSummary(c *entity.Customer) *CustomerSummary {
	if c == nil {
		return nil
	}
	return &CustomerSummary{
		ID:    c.ID.String(),
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
	}
}

func ProviderToSummary(p *entity.Provider) *ProviderSummary {
	if p == nil {
		return nil
	}
	return &ProviderSummary{
		ID:           p.ID.String(),
		Name:         p.Name,
		BusinessName: p.BusinessName,
	}
}

func ServiceToSummary(s *entity.Service) *ServiceSummary {
	if s == nil {
		return nil
	}
	return &ServiceSummary{
		ID:              s.ID.String(),
		Name:            s.Name,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
	}
}

func PaymentMethodToResponse(pm *entity.PaymentMethod) *PaymentMethodResponse {
	if pm == nil {
		return nil
	}
	return &PaymentMethodResponse{
		ID:       pm.ID.String(),
		Name:     pm.Name,
		IsActive: pm.IsActive,
	}
}

func BookingToResponse(b *entity.Booking, customer *entity.Customer, provider *entity.Provider, service *entity.Service, pm *entity.PaymentMethod) *BookingResponse {
	return &BookingResponse{
		ID:                  b.ID.String(),
		BookingNumber:       b.BookingNumber,
		Customer:            CustomerToSummary(customer),
		Provider:            ProviderToSummary(provider),
		Service:             ServiceToSummary(service),
		ScheduledDate:       b.ScheduledDate.Format("2006-01-02"),
		ScheduledTime:       b.ScheduledTime,
		CustomerAddress:     b.CustomerAddress,
		PaymentMethod:       PaymentMethodToResponse(pm),
		Amount:              b.Amount,
		PaymentStatus:       b.PaymentStatus,
		Status:              b.Status,
		SpecialInstructions: b.SpecialInstructions,
		CompletedAt:         b.CompletedAt,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
}
