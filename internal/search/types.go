package search

import (
	"context"

	"github.com/example/skyfare/internal/models"
)

// Upstream is the third-party flight price and places API.
type Upstream interface {
	PricesForDates(ctx context.Context, q models.SearchQuery) ([]byte, error)
	Places(ctx context.Context, term, locale string) ([]byte, error)
}

// Result carries the upstream body untouched.
type Result struct {
	Body     []byte
	CacheHit bool
}
