package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"smart-dispatch/internal/features/delivery/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormAuditLog implements ports.AuditLog on the integration_logs table.
type GormAuditLog struct {
	db *gorm.DB
}

// NewGormAuditLog creates a new GormAuditLog.
func NewGormAuditLog(db *gorm.DB) *GormAuditLog {
	return &GormAuditLog{db: db}
}

// Record appends one entry.
func (l *GormAuditLog) Record(ctx context.Context, entry domain.AuditEntry) error {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal audit payload: %w", err)
	}

	rec := IntegrationLogRecord{
		TenantID: entry.TenantID,
		Source:   entry.Source,
		Message:  entry.Message,
		Payload:  datatypes.JSON(payload),
	}
	if err := l.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}
