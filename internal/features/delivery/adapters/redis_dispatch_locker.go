package adapters

import (
	"context"
	"fmt"
	"time"

	"smart-dispatch/internal/core/cache"
	"smart-dispatch/internal/core/logger"
	"smart-dispatch/internal/features/delivery/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RedisDispatchLocker implements ports.DispatchLocker with SET NX leases.
type RedisDispatchLocker struct {
	cache cache.Cache
}

// NewRedisDispatchLocker creates a new RedisDispatchLocker.
func NewRedisDispatchLocker(c cache.Cache) *RedisDispatchLocker {
	return &RedisDispatchLocker{cache: c}
}

func dispatchLockKey(orderID string) string {
	return "dispatch:lock:" + orderID
}

// Acquire takes the per-order lease. The returned release only removes the
// lease while this holder still owns it.
func (l *RedisDispatchLocker) Acquire(ctx context.Context, orderID string, ttl time.Duration) (func(), error) {
	key := dispatchLockKey(orderID)
	token := []byte(uuid.NewString())

	ok, err := l.cache.SetNX(ctx, key, token, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire dispatch lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDispatchInProgress, orderID)
	}

	release := func() {
		if _, err := l.cache.DeleteIfEquals(context.WithoutCancel(ctx), key, token); err != nil {
			logger.Get().Warn("Failed to release dispatch lock",
				zap.String("order_id", orderID),
				zap.Error(err),
			)
		}
	}
	return release, nil
}
