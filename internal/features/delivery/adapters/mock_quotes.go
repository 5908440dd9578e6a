package adapters

import (
	"context"
	"time"

	"smart-dispatch/internal/core/logger"
	"smart-dispatch/internal/features/delivery/domain"
	"smart-dispatch/internal/features/delivery/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// mockQuoteTTL is how long a synthesized quote stays valid.
const mockQuoteTTL = 5 * time.Minute

// FixedDistanceEstimator returns the same trip length for every address pair.
type FixedDistanceEstimator struct {
	Miles float64
}

// NewFixedDistanceEstimator creates a FixedDistanceEstimator.
func NewFixedDistanceEstimator(miles float64) *FixedDistanceEstimator {
	return &FixedDistanceEstimator{Miles: miles}
}

// EstimateMiles implements ports.DistanceEstimator.
func (e *FixedDistanceEstimator) EstimateMiles(ctx context.Context, pickup, dropoff domain.Address) (float64, error) {
	return e.Miles, nil
}

// mockRate is the linear fee model of a provider used when it is not configured.
type mockRate struct {
	base       decimal.Decimal
	perMile    decimal.Decimal
	etaMinutes int
	idPrefix   string
}

var (
	uberMockRate = mockRate{
		base:       decimal.RequireFromString("6.99"),
		perMile:    decimal.RequireFromString("0.75"),
		etaMinutes: 25,
		idPrefix:   "uber_mock_",
	}
	doorDashMockRate = mockRate{
		base:       decimal.RequireFromString("4.99"),
		perMile:    decimal.RequireFromString("1.50"),
		etaMinutes: 35,
		idPrefix:   "dd_mock_",
	}
)

// mockQuoter synthesizes deterministic quotes from a mockRate.
type mockQuoter struct {
	distance     ports.DistanceEstimator
	defaultMiles float64
}

// quote computes base + perMile * miles. An estimator failure falls back to defaultMiles.
func (m mockQuoter) quote(ctx context.Context, p domain.Provider, rate mockRate, pickup, dropoff domain.Address, now time.Time) domain.DeliveryQuote {
	miles := m.defaultMiles
	if m.distance != nil {
		estimated, err := m.distance.EstimateMiles(ctx, pickup, dropoff)
		if err != nil {
			logger.Get().Warn("Distance estimate failed, using assumed distance",
				zap.String("provider", string(p)),
				zap.Float64("miles", miles),
				zap.Error(err),
			)
		} else {
			miles = estimated
		}
	}

	fee := rate.base.Add(rate.perMile.Mul(decimal.NewFromFloat(miles)))

	return domain.DeliveryQuote{
		Provider:     p,
		ProviderName: p.DisplayName(),
		DeliveryFee:  domain.NewMoney(fee),
		ETAMinutes:   rate.etaMinutes,
		QuoteID:      rate.idPrefix + uuid.NewString(),
		ExpiresAt:    now.Add(mockQuoteTTL),
		Mode:         domain.ModeMock,
		Available:    true,
	}
}
