package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	Base
	CustomerID uuid.UUID  `db:"customer_id"`
	ProviderID uuid.UUID  `db:"provider_id"`
	ServiceID  uuid.UUID  `db:"service_id"`
	BookingID  *uuid.UUID `db:"booking_id"`
	Rating     int        `db:"rating"` // 1-5
	Comment    *string    `db:"comment"`
}
