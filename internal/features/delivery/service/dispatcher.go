package service

import (
	"context"
	"fmt"
	"time"

	"smart-dispatch/internal/core/logger"
	"smart-dispatch/internal/features/delivery/domain"
	"smart-dispatch/internal/features/delivery/ports"

	"go.uber.org/zap"
)

// DispatchDeps groups the collaborators of the dispatch orchestrator.
type DispatchDeps struct {
	Aggregator ports.QuoteAggregator
	Providers  []ports.DeliveryProvider
	Tenants    ports.TenantRepository
	Orders     ports.OrderRepository
	Audit      ports.AuditLog
	// Quotes is optional. Without it quote ids are passed through unchecked.
	Quotes ports.QuoteStore
	Locker ports.DispatchLocker
	// LockTTL bounds how long one dispatch may hold the order lock.
	LockTTL time.Duration
}

// DispatchService selects a provider, books the delivery and falls back to
// exactly one alternative provider when the first attempt fails.
type DispatchService struct {
	aggregator ports.QuoteAggregator
	providers  map[domain.Provider]ports.DeliveryProvider
	tenants    ports.TenantRepository
	orders     ports.OrderRepository
	audit      ports.AuditLog
	quotes     ports.QuoteStore
	locker     ports.DispatchLocker
	lockTTL    time.Duration
	now        func() time.Time
}

// NewDispatchService creates a DispatchService.
func NewDispatchService(deps DispatchDeps) *DispatchService {
	providers := make(map[domain.Provider]ports.DeliveryProvider, len(deps.Providers))
	for _, p := range deps.Providers {
		providers[p.Provider()] = p
	}
	return &DispatchService{
		aggregator: deps.Aggregator,
		providers:  providers,
		tenants:    deps.Tenants,
		orders:     deps.Orders,
		audit:      deps.Audit,
		quotes:     deps.Quotes,
		locker:     deps.Locker,
		lockTTL:    deps.LockTTL,
		now:        time.Now,
	}
}

// GetSmartQuotes runs one aggregation pass for the tenant.
func (s *DispatchService) GetSmartQuotes(ctx context.Context, tenantID string, req domain.QuoteRequest) (*domain.SmartQuoteResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tenant, err := s.tenants.GetDeliveryConfig(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var orderValue domain.Money
	if req.OrderValue != nil {
		orderValue = *req.OrderValue
	}

	result := s.aggregator.GetSmartQuotes(ctx, *req.PickupAddress, *req.DropoffAddress, tenant, orderValue)
	return &result, nil
}

// selection is the provider and quote chosen for the primary attempt.
type selection struct {
	provider     domain.Provider
	quoteID      string
	autoSelected bool
	// quotes holds the last aggregation pass, nil when none ran yet.
	quotes []domain.DeliveryQuote
}

// CreateSmartDelivery books a delivery for an order. Every outcome is either a
// successful result with a concrete delivery id or an error.
func (s *DispatchService) CreateSmartDelivery(ctx context.Context, tenantID string, req domain.CreateDeliveryRequest) (*domain.CreateDeliveryResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tenant, err := s.tenants.GetDeliveryConfig(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, req.OrderID, s.lockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.orders.GetByID(ctx, tenantID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.HasDelivery() {
		return nil, fmt.Errorf("%w: %s via %s", domain.ErrAlreadyDispatched, order.DeliveryID(), order.DeliveryPartner)
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = tenant.Strategy
	}
	strategy = strategy.OrDefault()

	l := logger.Get().With(
		zap.String("tenant_id", tenantID),
		zap.String("order_id", req.OrderID),
		zap.String("strategy", string(strategy)),
	)

	sel, err := s.selectProvider(ctx, req, tenant, strategy)
	if err != nil {
		s.record(ctx, tenantID, "Delivery failed - provider selection failed", map[string]any{
			"orderId":  req.OrderID,
			"provider": req.Provider,
			"quoteId":  req.QuoteID,
			"strategy": strategy,
			"error":    err.Error(),
		})
		l.Warn("Provider selection failed", zap.Error(err))
		return nil, err
	}

	s.record(ctx, tenantID, fmt.Sprintf("Creating delivery with %s", sel.provider), map[string]any{
		"orderId":      req.OrderID,
		"provider":     sel.provider,
		"quoteId":      sel.quoteID,
		"strategy":     strategy,
		"autoSelected": sel.autoSelected,
	})

	l.Info("Dispatching delivery",
		zap.String("provider", string(sel.provider)),
		zap.String("quote_id", sel.quoteID),
		zap.Bool("auto_selected", sel.autoSelected),
	)

	result, primaryErr := s.create(ctx, sel.provider, sel.quoteID, req, tenant)
	if primaryErr == nil {
		return s.finish(ctx, tenantID, req.OrderID, result)
	}

	l.Warn("Primary provider failed", zap.String("provider", string(sel.provider)), zap.Error(primaryErr))

	if sel.quotes == nil {
		fresh := s.aggregator.GetSmartQuotes(ctx, *req.PickupAddress, *req.DropoffAddress, tenant, req.OrderValueOrZero())
		sel.quotes = fresh.Quotes
	}

	alternative := s.fallbackQuote(sel.quotes, sel.provider)
	if alternative == nil {
		s.record(ctx, tenantID, "Delivery failed - no fallback available", map[string]any{
			"orderId":  req.OrderID,
			"provider": sel.provider,
			"error":    primaryErr.Error(),
		})
		l.Error("Delivery failed without fallback", zap.String("provider", string(sel.provider)), zap.Error(primaryErr))
		return nil, domain.NewDispatchError(sel.provider, primaryErr)
	}

	l.Info("Retrying with fallback provider",
		zap.String("provider", string(alternative.Provider)),
		zap.String("quote_id", alternative.QuoteID),
	)

	result, fallbackErr := s.create(ctx, alternative.Provider, alternative.QuoteID, req, tenant)
	if fallbackErr != nil {
		s.record(ctx, tenantID, "Delivery failed - both providers failed", map[string]any{
			"orderId":          req.OrderID,
			"primaryProvider":  sel.provider,
			"primaryError":     primaryErr.Error(),
			"fallbackProvider": alternative.Provider,
			"fallbackError":    fallbackErr.Error(),
		})
		l.Error("Delivery failed on primary and fallback",
			zap.String("primary", string(sel.provider)),
			zap.String("fallback", string(alternative.Provider)),
			zap.NamedError("primary_error", primaryErr),
			zap.NamedError("fallback_error", fallbackErr),
		)
		return nil, domain.NewDispatchError(sel.provider, primaryErr).WithFallback(alternative.Provider, fallbackErr)
	}

	result.Fallback = true
	result.FallbackReason = fmt.Sprintf("%s failed: %s", sel.provider, primaryErr.Error())

	s.record(ctx, tenantID, fmt.Sprintf("Delivery created with fallback provider %s", alternative.Provider), map[string]any{
		"orderId":          req.OrderID,
		"primaryProvider":  sel.provider,
		"fallbackProvider": alternative.Provider,
		"deliveryId":       result.DeliveryID,
		"fallbackReason":   result.FallbackReason,
	})

	return s.finish(ctx, tenantID, req.OrderID, result)
}

// selectProvider resolves the primary provider and quote, either from the
// request or from a fresh aggregation pass.
func (s *DispatchService) selectProvider(ctx context.Context, req domain.CreateDeliveryRequest, tenant domain.TenantDeliveryConfig, strategy domain.Strategy) (selection, error) {
	if req.Provider == "" {
		result := s.aggregator.GetSmartQuotes(ctx, *req.PickupAddress, *req.DropoffAddress, tenant, req.OrderValueOrZero())
		best := domain.SelectBestQuote(result.Quotes, strategy)
		if best == nil {
			return selection{}, domain.ErrNoProvidersAvailable
		}
		return selection{
			provider:     best.Provider,
			quoteID:      best.QuoteID,
			autoSelected: true,
			quotes:       result.Quotes,
		}, nil
	}

	sel := selection{provider: req.Provider, quoteID: req.QuoteID}
	if req.QuoteID == "" || s.quotes == nil {
		return sel, nil
	}

	stored, err := s.quotes.Find(ctx, tenant.TenantID, req.QuoteID)
	if err != nil {
		logger.Get().Warn("Quote lookup failed, using quote id as given",
			zap.String("quote_id", req.QuoteID),
			zap.Error(err),
		)
		return sel, nil
	}
	if stored == nil || !stored.Expired(s.now()) {
		return sel, nil
	}

	// Expired: re-quote and take the same provider's fresh offer.
	result := s.aggregator.GetSmartQuotes(ctx, *req.PickupAddress, *req.DropoffAddress, tenant, req.OrderValueOrZero())
	sel.quotes = result.Quotes
	for _, q := range result.Quotes {
		if q.Provider == req.Provider {
			logger.Get().Info("Replaced expired quote",
				zap.String("provider", string(req.Provider)),
				zap.String("expired_quote_id", req.QuoteID),
				zap.String("quote_id", q.QuoteID),
			)
			sel.quoteID = q.QuoteID
			return sel, nil
		}
	}
	return selection{}, fmt.Errorf("%w: %s quote %s expired at %s and no fresh quote is available",
		domain.ErrQuoteExpired, req.Provider, req.QuoteID, stored.ExpiresAt.Format(time.RFC3339))
}

// fallbackQuote returns the first usable quote from another provider.
// quotes are already sorted cheapest first.
func (s *DispatchService) fallbackQuote(quotes []domain.DeliveryQuote, failed domain.Provider) *domain.DeliveryQuote {
	now := s.now()
	for i := range quotes {
		q := quotes[i]
		if !q.Available || q.Provider == failed || q.Expired(now) {
			continue
		}
		return &q
	}
	return nil
}

// create runs one creation attempt and checks the adapter kept its contract.
func (s *DispatchService) create(ctx context.Context, provider domain.Provider, quoteID string, req domain.CreateDeliveryRequest, tenant domain.TenantDeliveryConfig) (result *domain.CreateDeliveryResult, err error) {
	adapter, ok := s.providers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderNotRegistered, provider)
	}

	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("%s adapter panicked: %v", provider, r)
		}
	}()

	result, err = adapter.CreateDelivery(ctx, req.OrderID, quoteID, req, tenant)
	if err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	if result.Provider != provider {
		return nil, fmt.Errorf("%s adapter answered for %s", provider, result.Provider)
	}
	return result, nil
}

// finish records a successful delivery on the order and in the audit log.
func (s *DispatchService) finish(ctx context.Context, tenantID, orderID string, result *domain.CreateDeliveryResult) (*domain.CreateDeliveryResult, error) {
	if err := s.orders.UpdateDelivery(ctx, tenantID, orderID, domain.NewOrderDeliveryUpdate(result)); err != nil {
		s.record(ctx, tenantID, "Delivery created but order update failed", map[string]any{
			"orderId":    orderID,
			"provider":   result.Provider,
			"deliveryId": result.DeliveryID,
			"error":      err.Error(),
		})
		logger.Get().Error("Order update failed after delivery creation",
			zap.String("order_id", orderID),
			zap.String("provider", string(result.Provider)),
			zap.String("delivery_id", result.DeliveryID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %s delivery %s: %w", domain.ErrOrderUpdateFailed, result.Provider, result.DeliveryID, err)
	}

	payload := map[string]any{
		"orderId":     orderID,
		"provider":    result.Provider,
		"deliveryId":  result.DeliveryID,
		"status":      result.Status,
		"trackingUrl": result.TrackingURL,
		"fallback":    result.Fallback,
	}
	if result.DeliveryFee != nil {
		payload["fee"] = result.DeliveryFee.String()
	}
	s.record(ctx, tenantID, "Delivery created successfully", payload)

	logger.Get().Info("Delivery created",
		zap.String("tenant_id", tenantID),
		zap.String("order_id", orderID),
		zap.String("provider", string(result.Provider)),
		zap.String("delivery_id", result.DeliveryID),
		zap.Bool("fallback", result.Fallback),
	)

	return result, nil
}

// record appends to the audit log. A failed write is logged and does not
// change the dispatch outcome.
func (s *DispatchService) record(ctx context.Context, tenantID, message string, payload map[string]any) {
	err := s.audit.Record(ctx, domain.AuditEntry{
		TenantID: tenantID,
		Source:   domain.AuditSourceSmartDispatch,
		Message:  message,
		Payload:  payload,
	})
	if err != nil {
		logger.Get().Error("Failed to write audit entry",
			zap.String("tenant_id", tenantID),
			zap.String("message", message),
			zap.Error(err),
		)
	}
}
