package search

import (
	"context"
	"time"

	"github.com/example/skyfare/internal/models"
	"github.com/example/skyfare/internal/obs"
)

type ServiceManagement interface {
	Search(ctx context.Context, q models.SearchQuery) (Result, error)
	Places(ctx context.Context, term, locale string) ([]byte, error)
}

type service struct {
	upstream       Upstream
	cache          CacheService
	metrics        *obs.Metrics
	computeTimeout time.Duration
}

func NewService(up Upstream, ch CacheService, m *obs.Metrics, t time.Duration) *service {
	return &service{
		upstream:       up,
		cache:          ch,
		metrics:        m,
		computeTimeout: t,
	}
}

func (s *service) Search(ctx context.Context, q models.SearchQuery) (Result, error) {
	cctx, cancel := context.WithTimeout(ctx, s.computeTimeout)
	defer cancel()

	body, hit, err := s.cache.GetOrCompute(cctx, "prices|"+q.CacheKey(), func(ctx context.Context) ([]byte, error) {
		return s.upstream.PricesForDates(ctx, q)
	})
	if err != nil {
		return Result{}, err
	}

	return Result{Body: body, CacheHit: hit}, nil
}

func (s *service) Places(ctx context.Context, term, locale string) ([]byte, error) {
	cctx, cancel := context.WithTimeout(ctx, s.computeTimeout)
	defer cancel()

	body, _, err := s.cache.GetOrCompute(cctx, "places|"+locale+"|"+term, func(ctx context.Context) ([]byte, error) {
		return s.upstream.Places(ctx, term, locale)
	})
	return body, err
}
