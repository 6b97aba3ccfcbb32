package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"service-booking/internal/data/repository"
	"service-booking/internal/dto/response"
	"service-booking/pkg/apperrors"
	"service-booking/pkg/cache"
	"service-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProviderService interface {
	GetProvider(ctx context.Context, providerID string) (*response.ProviderResponse, error)
}

type providerService struct {
	repo  *repository.Repository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewProviderService(repo *repository.Repository, cacheClient *cache.Cache, config *utils.Config, log *zap.Logger) ProviderService {
	return &providerService{
		repo:  repo,
		cache: cacheClient,
		ttl:   time.Duration(config.Cache.ProviderTTLSeconds) * time.Second,
		log:   log.With(zap.String("service", "provider")),
	}
}

// GetProvider reads through the cache. Cache failures degrade to the
// database; stale entries are bounded by the TTL plus invalidation on
// every aggregate recompute.
func (s *providerService) GetProvider(ctx context.Context, providerID string) (*response.ProviderResponse, error) {
	id, err := uuid.Parse(providerID)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid provider ID format %s", providerID))
	}

	key := providerCacheKey(id)

	if s.cache != nil {
		data, err := s.cache.Get(ctx, key)
		if err == nil {
			var resp response.ProviderResponse
			if err := json.Unmarshal(data, &resp); err == nil {
				return &resp, nil
			}
			s.log.Warn("Failed to decode cached provider, falling back to database",
				zap.String("provider_id", providerID),
			)
		} else if err != cache.ErrCacheMiss {
			s.log.Warn("Provider cache read failed",
				zap.Error(err),
				zap.String("provider_id", providerID),
			)
		}
	}

	provider, err := s.repo.Provider.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if provider == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("provider %s not found", providerID))
	}

	resp := response.ProviderToResponse(provider)

	if s.cache != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
				s.log.Warn("Provider cache write failed",
					zap.Error(err),
					zap.String("provider_id", providerID),
				)
			}
		}
	}

	return resp, nil
}
