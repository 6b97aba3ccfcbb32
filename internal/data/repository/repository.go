package repository

import (
	"service-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Customer      CustomerRepository
	Provider      ProviderRepository
	Service       ServiceRepository
	PaymentMethod PaymentMethodRepository
	Booking       BookingRepository
	Review        ReviewRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Customer:      NewCustomerRepository(db, log),
		Provider:      NewProviderRepository(db, log),
		Service:       NewServiceRepository(db, log),
		PaymentMethod: NewPaymentMethodRepository(db, log),
		Booking:       NewBookingRepository(db, log),
		Review:        NewReviewRepository(db, log),
	}
}
