package adapters

import (
	"context"
	"errors"
	"fmt"

	"smart-dispatch/internal/features/delivery/domain"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// GetByID loads an order scoped to its tenant.
func (r *GormOrderRepository) GetByID(ctx context.Context, tenantID, orderID string) (*domain.Order, error) {
	var rec OrderRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", orderID, tenantID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}

	return &domain.Order{
		ID:                 rec.ID,
		TenantID:           rec.TenantID,
		DeliveryPartner:    domain.Provider(rec.DeliveryPartner),
		DeliveryStatus:     rec.DeliveryStatus,
		TrackingURL:        rec.DeliveryTrackingURL,
		DeliveryFee:        rec.DeliveryFee,
		UberDeliveryID:     rec.UberDeliveryID,
		DoorDashDeliveryID: rec.DoorDashDeliveryID,
		SelfDeliveryID:     rec.SelfDeliveryID,
		UpdatedAt:          rec.UpdatedAt,
	}, nil
}

// UpdateDelivery records the dispatch outcome. The write only applies to
// orders without a delivery partner, so an order is never booked twice.
func (r *GormOrderRepository) UpdateDelivery(ctx context.Context, tenantID, orderID string, update domain.OrderDeliveryUpdate) error {
	fields := map[string]any{
		"delivery_partner":      string(update.Provider),
		"delivery_status":       update.Status,
		"delivery_tracking_url": update.TrackingURL,
		"delivery_fee":          update.Fee,
	}
	switch update.Provider {
	case domain.ProviderUber:
		fields["uber_delivery_id"] = update.DeliveryID
	case domain.ProviderDoorDash:
		fields["doordash_delivery_id"] = update.DeliveryID
	case domain.ProviderSelf:
		fields["self_delivery_id"] = update.DeliveryID
	default:
		return fmt.Errorf("unknown delivery provider %q", update.Provider)
	}

	res := r.db.WithContext(ctx).
		Model(&OrderRecord{}).
		Where("id = ? AND tenant_id = ?", orderID, tenantID).
		Where("delivery_partner IS NULL OR delivery_partner = ''").
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update order %s: %w", orderID, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderRecord{}).
		Where("id = ? AND tenant_id = ?", orderID, tenantID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check order %s: %w", orderID, err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	}
	return fmt.Errorf("%w: %s", domain.ErrAlreadyDispatched, orderID)
}
