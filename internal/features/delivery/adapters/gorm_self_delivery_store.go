package adapters

import (
	"context"
	"fmt"

	"smart-dispatch/internal/features/delivery/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormSelfDeliveryStore implements ports.SelfDeliveryStore.
type GormSelfDeliveryStore struct {
	db *gorm.DB
}

// NewGormSelfDeliveryStore creates a new GormSelfDeliveryStore.
func NewGormSelfDeliveryStore(db *gorm.DB) *GormSelfDeliveryStore {
	return &GormSelfDeliveryStore{db: db}
}

// Create persists a self delivery.
func (s *GormSelfDeliveryStore) Create(ctx context.Context, d *domain.SelfDelivery) error {
	rec := SelfDeliveryRecord{
		ID:                   d.ID,
		OrderID:              d.OrderID,
		TenantID:             d.TenantID,
		PickupAddress:        datatypes.NewJSONType(d.PickupAddress),
		DropoffAddress:       datatypes.NewJSONType(d.DropoffAddress),
		CustomerName:         d.CustomerName,
		CustomerPhone:        d.CustomerPhone,
		Notes:                d.Notes,
		Fee:                  d.Fee,
		Status:               d.Status,
		EstimatedPickupTime:  d.EstimatedPickupTime,
		EstimatedDropoffTime: d.EstimatedDropoffTime,
		CreatedAt:            d.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to save self delivery for order %s: %w", d.OrderID, err)
	}
	return nil
}
