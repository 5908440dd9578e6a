package adapters

import (
	"context"
	"errors"
	"fmt"

	"smart-dispatch/internal/features/delivery/domain"

	"gorm.io/gorm"
)

// GlobalCredentials are platform-wide provider credentials used by tenants
// that have none of their own.
type GlobalCredentials struct {
	Uber     domain.UberCredentials
	DoorDash domain.DoorDashCredentials
}

// GormTenantRepository implements ports.TenantRepository.
type GormTenantRepository struct {
	db      *gorm.DB
	globals GlobalCredentials
}

// NewGormTenantRepository creates a new GormTenantRepository.
func NewGormTenantRepository(db *gorm.DB, globals GlobalCredentials) *GormTenantRepository {
	return &GormTenantRepository{db: db, globals: globals}
}

// GetDeliveryConfig resolves the tenant's delivery configuration.
// Tenant credentials win over the global ones as a whole set.
func (r *GormTenantRepository) GetDeliveryConfig(ctx context.Context, tenantID string) (domain.TenantDeliveryConfig, error) {
	var rec TenantIntegrationRecord
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.TenantDeliveryConfig{}, fmt.Errorf("%w: %s", domain.ErrTenantNotFound, tenantID)
	}
	if err != nil {
		return domain.TenantDeliveryConfig{}, fmt.Errorf("failed to load tenant %s: %w", tenantID, err)
	}

	strategy, err := domain.ParseStrategy(rec.SmartDispatchStrategy)
	if err != nil {
		strategy = ""
	}

	cfg := domain.TenantDeliveryConfig{
		TenantID: rec.TenantID,
		Name:     rec.TenantName,
		Slug:     rec.TenantSlug,
		Uber: domain.UberCredentials{
			ClientID:     rec.UberClientID,
			ClientSecret: rec.UberClientSecret,
			CustomerID:   rec.UberCustomerID,
			Sandbox:      rec.UberSandbox,
		},
		UberOnboardingStatus: rec.UberOnboardingStatus,
		DoorDash: domain.DoorDashCredentials{
			DeveloperID:   rec.DoorDashDeveloperID,
			KeyID:         rec.DoorDashKeyID,
			SigningSecret: rec.DoorDashSigningSecret,
			Sandbox:       rec.DoorDashSandbox,
		},
		DoorDashOnboardingStatus: rec.DoorDashOnboardingStatus,
		DeliveryBaseFee:          rec.DeliveryBaseFee,
		SelfDeliveryEnabled:      rec.SelfDeliveryEnabled,
		SelfDeliveryFee:          rec.SelfDeliveryFee,
		Strategy:                 strategy,
	}

	if !cfg.Uber.Configured() && r.globals.Uber.Configured() {
		cfg.Uber = r.globals.Uber
	}
	if !cfg.DoorDash.Configured() && r.globals.DoorDash.Configured() {
		cfg.DoorDash = r.globals.DoorDash
	}

	return cfg, nil
}
