package ports

import (
	"context"
	"time"

	"smart-dispatch/internal/features/delivery/domain"
)

// DeliveryProvider is implemented once per provider (uber, doordash, self).
type DeliveryProvider interface {
	// Provider returns the provider this adapter serves.
	Provider() domain.Provider
	// Enabled reports whether the provider participates in aggregation for the tenant.
	Enabled(tenant domain.TenantDeliveryConfig) bool
	// FetchQuote never fails: provider errors come back as an unavailable quote.
	FetchQuote(ctx context.Context, pickup, dropoff domain.Address, tenant domain.TenantDeliveryConfig, orderValue domain.Money) domain.DeliveryQuote
	// CreateDelivery books a delivery from a quote. An empty quoteID asks the
	// provider to quote internally.
	CreateDelivery(ctx context.Context, orderID, quoteID string, req domain.CreateDeliveryRequest, tenant domain.TenantDeliveryConfig) (*domain.CreateDeliveryResult, error)
}

// DistanceEstimator estimates the trip length used for mock fee synthesis.
type DistanceEstimator interface {
	EstimateMiles(ctx context.Context, pickup, dropoff domain.Address) (float64, error)
}

// OrderRepository reads orders and records dispatch outcomes on them.
type OrderRepository interface {
	// GetByID returns domain.ErrOrderNotFound when the order does not belong to the tenant.
	GetByID(ctx context.Context, tenantID, orderID string) (*domain.Order, error)
	// UpdateDelivery writes the dispatch outcome onto the order.
	UpdateDelivery(ctx context.Context, tenantID, orderID string, update domain.OrderDeliveryUpdate) error
}

// TenantRepository resolves the delivery configuration of a tenant.
type TenantRepository interface {
	// GetDeliveryConfig returns domain.ErrTenantNotFound for unknown tenants.
	GetDeliveryConfig(ctx context.Context, tenantID string) (domain.TenantDeliveryConfig, error)
}

// AuditLog is the append-only integration log.
type AuditLog interface {
	Record(ctx context.Context, entry domain.AuditEntry) error
}

// SelfDeliveryStore persists deliveries handled by the restaurant's own drivers.
type SelfDeliveryStore interface {
	Create(ctx context.Context, delivery *domain.SelfDelivery) error
}

// QuoteStore keeps issued quotes so expiry can be enforced at dispatch time.
type QuoteStore interface {
	Save(ctx context.Context, tenantID string, quote domain.DeliveryQuote) error
	// Find returns nil, nil when the quote id is unknown.
	Find(ctx context.Context, tenantID, quoteID string) (*domain.DeliveryQuote, error)
}

// DispatchLocker serializes dispatches of the same order.
type DispatchLocker interface {
	// Acquire returns domain.ErrDispatchInProgress when the order is already locked.
	Acquire(ctx context.Context, orderID string, ttl time.Duration) (release func(), err error)
}

// QuoteAggregator fans a quote request out to every enabled provider.
type QuoteAggregator interface {
	GetSmartQuotes(ctx context.Context, pickup, dropoff domain.Address, tenant domain.TenantDeliveryConfig, orderValue domain.Money) domain.SmartQuoteResult
}

// SmartDispatchService is the primary port used by the HTTP handler.
type SmartDispatchService interface {
	CreateSmartDelivery(ctx context.Context, tenantID string, req domain.CreateDeliveryRequest) (*domain.CreateDeliveryResult, error)
	GetSmartQuotes(ctx context.Context, tenantID string, req domain.QuoteRequest) (*domain.SmartQuoteResult, error)
}
