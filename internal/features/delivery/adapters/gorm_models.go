package adapters

import (
	"time"

	"smart-dispatch/internal/features/delivery/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrderRecord is the delivery-relevant part of the orders table.
type OrderRecord struct {
	ID                  string        `gorm:"primaryKey;type:varchar(64)"`
	TenantID            string        `gorm:"index;not null;type:varchar(64)"`
	DeliveryPartner     string        `gorm:"type:varchar(20)"`
	DeliveryStatus      string        `gorm:"type:varchar(40)"`
	DeliveryTrackingURL string        `gorm:"column:delivery_tracking_url;type:varchar(500)"`
	DeliveryFee         *domain.Money `gorm:"type:decimal(10,2)"`
	UberDeliveryID      string        `gorm:"index;type:varchar(100)"`
	DoorDashDeliveryID  string        `gorm:"column:doordash_delivery_id;index;type:varchar(100)"`
	SelfDeliveryID      string        `gorm:"index;type:varchar(64)"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName sets the table name.
func (OrderRecord) TableName() string {
	return "orders"
}

// TenantIntegrationRecord stores per-tenant provider credentials and dispatch settings.
type TenantIntegrationRecord struct {
	TenantID   string `gorm:"primaryKey;type:varchar(64)"`
	TenantName string `gorm:"type:varchar(200)"`
	TenantSlug string `gorm:"uniqueIndex;type:varchar(100)"`

	UberClientID         string `gorm:"type:varchar(200)"`
	UberClientSecret     string `gorm:"type:varchar(200)"`
	UberCustomerID       string `gorm:"type:varchar(200)"`
	UberSandbox          bool
	UberOnboardingStatus string `gorm:"type:varchar(40)"`

	DoorDashDeveloperID      string `gorm:"column:doordash_developer_id;type:varchar(200)"`
	DoorDashKeyID            string `gorm:"column:doordash_key_id;type:varchar(200)"`
	DoorDashSigningSecret    string `gorm:"column:doordash_signing_secret;type:varchar(200)"`
	DoorDashSandbox          bool   `gorm:"column:doordash_sandbox"`
	DoorDashOnboardingStatus string `gorm:"column:doordash_onboarding_status;type:varchar(40)"`

	DeliveryBaseFee       *domain.Money `gorm:"type:decimal(10,2)"`
	SelfDeliveryEnabled   bool
	SelfDeliveryFee       *domain.Money `gorm:"type:decimal(10,2)"`
	SmartDispatchStrategy string        `gorm:"type:varchar(20)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName sets the table name.
func (TenantIntegrationRecord) TableName() string {
	return "tenant_integrations"
}

// IntegrationLogRecord is one append-only audit entry.
type IntegrationLogRecord struct {
	ID        uint           `gorm:"primarykey"`
	TenantID  string         `gorm:"index;not null;type:varchar(64)"`
	Source    string         `gorm:"index;not null;type:varchar(40)"`
	Message   string         `gorm:"type:text;not null"`
	Payload   datatypes.JSON `gorm:"type:json"`
	CreatedAt time.Time      `gorm:"index"`
}

// TableName sets the table name.
func (IntegrationLogRecord) TableName() string {
	return "integration_logs"
}

// SelfDeliveryRecord is a delivery handled by the restaurant's own drivers.
type SelfDeliveryRecord struct {
	ID                   string                             `gorm:"primaryKey;type:varchar(64)"`
	OrderID              string                             `gorm:"index;not null;type:varchar(64)"`
	TenantID             string                             `gorm:"index;not null;type:varchar(64)"`
	PickupAddress        datatypes.JSONType[domain.Address] `gorm:"type:json"`
	DropoffAddress       datatypes.JSONType[domain.Address] `gorm:"type:json"`
	CustomerName         string                             `gorm:"type:varchar(200)"`
	CustomerPhone        string                             `gorm:"type:varchar(40)"`
	Notes                string                             `gorm:"type:text"`
	Fee                  domain.Money                       `gorm:"type:decimal(10,2);not null;default:0"`
	Status               string                             `gorm:"index;type:varchar(20)"`
	EstimatedPickupTime  time.Time
	EstimatedDropoffTime time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName sets the table name.
func (SelfDeliveryRecord) TableName() string {
	return "self_deliveries"
}

// Migrate creates or updates every table used by smart dispatch.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&OrderRecord{},
		&TenantIntegrationRecord{},
		&IntegrationLogRecord{},
		&SelfDeliveryRecord{},
	)
}
