package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smart-dispatch/internal/core/cache"
	"smart-dispatch/internal/features/delivery/domain"
)

// quoteRetention keeps quotes past their expiry so an expired id is still recognized.
const quoteRetention = time.Hour

// RedisQuoteStore implements ports.QuoteStore on the cache.
type RedisQuoteStore struct {
	cache cache.Cache
	now   func() time.Time
}

// NewRedisQuoteStore creates a new RedisQuoteStore.
func NewRedisQuoteStore(c cache.Cache) *RedisQuoteStore {
	return &RedisQuoteStore{cache: c, now: time.Now}
}

func quoteKey(tenantID, quoteID string) string {
	return fmt.Sprintf("quote:%s:%s", tenantID, quoteID)
}

// Save stores the quote until one hour past its expiry.
func (s *RedisQuoteStore) Save(ctx context.Context, tenantID string, q domain.DeliveryQuote) error {
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to marshal quote: %w", err)
	}

	ttl := quoteRetention
	if !q.ExpiresAt.IsZero() {
		ttl += q.ExpiresAt.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}

	if err := s.cache.Set(ctx, quoteKey(tenantID, q.QuoteID), data, ttl); err != nil {
		return fmt.Errorf("failed to save quote to cache: %w", err)
	}
	return nil
}

// Find returns the stored quote, or nil when the id is unknown.
func (s *RedisQuoteStore) Find(ctx context.Context, tenantID, quoteID string) (*domain.DeliveryQuote, error) {
	data, err := s.cache.Get(ctx, quoteKey(tenantID, quoteID))
	if errors.Is(err, cache.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote from cache: %w", err)
	}

	var q domain.DeliveryQuote
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quote: %w", err)
	}
	return &q, nil
}
