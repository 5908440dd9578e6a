package adapters

import (
	"context"
	"fmt"
	"time"

	"smart-dispatch/internal/features/delivery/domain"
	"smart-dispatch/internal/features/delivery/ports"

	"github.com/google/uuid"
)

const (
	selfDeliveryETA     = 30
	selfQuoteTTL        = 60 * time.Minute
	selfPickupLeadTime  = 15 * time.Minute
	selfDropoffLeadTime = 45 * time.Minute
	selfDeliveryPending = "pending"
)

// SelfDeliveryAdapter serves the restaurant's own drivers. Quotes come from
// tenant settings and creation is a local record.
type SelfDeliveryAdapter struct {
	store ports.SelfDeliveryStore
	now   func() time.Time
}

// NewSelfDeliveryAdapter creates a new SelfDeliveryAdapter.
func NewSelfDeliveryAdapter(store ports.SelfDeliveryStore) *SelfDeliveryAdapter {
	return &SelfDeliveryAdapter{
		store: store,
		now:   time.Now,
	}
}

// Provider implements ports.DeliveryProvider.
func (a *SelfDeliveryAdapter) Provider() domain.Provider {
	return domain.ProviderSelf
}

// Enabled implements ports.DeliveryProvider.
func (a *SelfDeliveryAdapter) Enabled(tenant domain.TenantDeliveryConfig) bool {
	return tenant.SelfDeliveryEnabled
}

// FetchQuote implements ports.DeliveryProvider.
func (a *SelfDeliveryAdapter) FetchQuote(ctx context.Context, pickup, dropoff domain.Address, tenant domain.TenantDeliveryConfig, orderValue domain.Money) domain.DeliveryQuote {
	return domain.DeliveryQuote{
		Provider:     domain.ProviderSelf,
		ProviderName: domain.ProviderSelf.DisplayName(),
		DeliveryFee:  tenant.SelfFee(),
		ETAMinutes:   selfDeliveryETA,
		QuoteID:      "self_" + uuid.NewString(),
		ExpiresAt:    a.now().Add(selfQuoteTTL),
		Mode:         domain.ModeLive,
		Available:    true,
	}
}

// CreateDelivery implements ports.DeliveryProvider.
func (a *SelfDeliveryAdapter) CreateDelivery(ctx context.Context, orderID, quoteID string, req domain.CreateDeliveryRequest, tenant domain.TenantDeliveryConfig) (*domain.CreateDeliveryResult, error) {
	now := a.now()
	delivery := &domain.SelfDelivery{
		ID:                   uuid.NewString(),
		OrderID:              orderID,
		TenantID:             tenant.TenantID,
		PickupAddress:        *req.PickupAddress,
		DropoffAddress:       *req.DropoffAddress,
		CustomerName:         req.DropoffName,
		CustomerPhone:        req.DropoffPhone,
		Notes:                req.DropoffInstructions,
		Fee:                  tenant.SelfFee(),
		Status:               selfDeliveryPending,
		EstimatedPickupTime:  now.Add(selfPickupLeadTime),
		EstimatedDropoffTime: now.Add(selfDropoffLeadTime),
		CreatedAt:            now,
	}

	if err := a.store.Create(ctx, delivery); err != nil {
		return nil, fmt.Errorf("failed to create self-delivery: %w", err)
	}

	fee := delivery.Fee
	return &domain.CreateDeliveryResult{
		Success:              true,
		DeliveryID:           delivery.ID,
		Provider:             domain.ProviderSelf,
		Status:               delivery.Status,
		EstimatedPickupTime:  &delivery.EstimatedPickupTime,
		EstimatedDropoffTime: &delivery.EstimatedDropoffTime,
		DeliveryFee:          &fee,
		Mode:                 domain.ModeLive,
	}, nil
}
