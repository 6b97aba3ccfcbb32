package wire

import (
	"service-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireProvider(r chi.Router, providerHandler *adaptor.ProviderHandler) {
	// GET /api/providers/{id} - Provider profile with derived aggregates
	r.Get("/api/providers/{id}", providerHandler.GetProvider)
}
