package entity

import (
	"github.com/google/uuid"
)

// Service is a catalog entry offered by a provider
type Service struct {
	Base
	ProviderID      uuid.UUID `db:"provider_id"`
	Name            string    `db:"name"`
	Description     string    `db:"description"`
	Price           float64   `db:"price"`
	DurationMinutes int       `db:"duration_minutes"`
}
