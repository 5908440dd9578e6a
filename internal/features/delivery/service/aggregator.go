package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smart-dispatch/internal/core/logger"
	"smart-dispatch/internal/features/delivery/domain"
	"smart-dispatch/internal/features/delivery/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Aggregator queries every enabled provider concurrently and ranks the answers.
type Aggregator struct {
	providers []ports.DeliveryProvider
	quotes    ports.QuoteStore
	timeout   time.Duration
	now       func() time.Time
}

// NewAggregator creates an Aggregator. quotes may be nil, in which case issued
// quotes are not remembered. A zero timeout disables the per-provider deadline.
func NewAggregator(providers []ports.DeliveryProvider, quotes ports.QuoteStore, timeout time.Duration) *Aggregator {
	return &Aggregator{
		providers: providers,
		quotes:    quotes,
		timeout:   timeout,
		now:       time.Now,
	}
}

// GetSmartQuotes fetches one quote per enabled provider. It never fails: a
// provider that errors, panics or exceeds the timeout contributes an
// unavailable quote, which is then filtered out of the result.
func (a *Aggregator) GetSmartQuotes(ctx context.Context, pickup, dropoff domain.Address, tenant domain.TenantDeliveryConfig, orderValue domain.Money) domain.SmartQuoteResult {
	enabled := make([]ports.DeliveryProvider, 0, len(a.providers))
	names := make([]domain.Provider, 0, len(a.providers))
	for _, p := range a.providers {
		if p.Enabled(tenant) {
			enabled = append(enabled, p)
			names = append(names, p.Provider())
		}
	}

	results := make([]domain.DeliveryQuote, len(enabled))

	var g errgroup.Group
	for i, p := range enabled {
		g.Go(func() error {
			results[i] = a.fetch(ctx, p, pickup, dropoff, tenant, orderValue)
			return nil
		})
	}
	_ = g.Wait()

	for _, q := range results {
		if !q.Available {
			logger.Get().Warn("Provider quote unavailable",
				zap.String("tenant_id", tenant.TenantID),
				zap.String("provider", string(q.Provider)),
				zap.String("error", q.Error),
			)
		}
	}

	result := domain.NewSmartQuoteResult(results, names, a.now())
	a.remember(ctx, tenant.TenantID, result.Quotes)

	logger.Get().Info("Smart quotes aggregated",
		zap.String("tenant_id", tenant.TenantID),
		zap.Int("enabled", len(names)),
		zap.Int("available", len(result.Quotes)),
	)

	return result
}

// fetch runs one provider under the per-provider deadline.
func (a *Aggregator) fetch(ctx context.Context, p ports.DeliveryProvider, pickup, dropoff domain.Address, tenant domain.TenantDeliveryConfig, orderValue domain.Money) domain.DeliveryQuote {
	provider := p.Provider()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	ch := make(chan domain.DeliveryQuote, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- domain.UnavailableQuote(provider, domain.ModeLive, fmt.Errorf("provider panicked: %v", r))
			}
		}()
		ch <- p.FetchQuote(ctx, pickup, dropoff, tenant, orderValue)
	}()

	select {
	case q := <-ch:
		return normalize(provider, q)
	case <-ctx.Done():
		err := ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%s quote timed out after %s", provider.DisplayName(), a.timeout)
		}
		return domain.UnavailableQuote(provider, domain.ModeLive, err)
	}
}

// normalize stamps the provider on the quote and refuses available quotes
// that could not be used to book a delivery.
func normalize(provider domain.Provider, q domain.DeliveryQuote) domain.DeliveryQuote {
	q.Provider = provider
	if q.ProviderName == "" {
		q.ProviderName = provider.DisplayName()
	}
	if q.Available && q.QuoteID == "" {
		q.Available = false
		q.Error = "provider returned no quote id"
	}
	if q.Available && (q.DeliveryFee.IsNegative() || q.ETAMinutes < 0) {
		q.Available = false
		q.Error = "provider returned a negative fee or eta"
	}
	return q
}

// remember stores the available quotes so dispatch can enforce their expiry.
func (a *Aggregator) remember(ctx context.Context, tenantID string, quotes []domain.DeliveryQuote) {
	if a.quotes == nil {
		return
	}
	for _, q := range quotes {
		if err := a.quotes.Save(ctx, tenantID, q); err != nil {
			logger.Get().Warn("Failed to store quote",
				zap.String("tenant_id", tenantID),
				zap.String("quote_id", q.QuoteID),
				zap.Error(err),
			)
		}
	}
}
