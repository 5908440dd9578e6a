package domain

import "time"

// Order is the delivery-relevant view of an order owned by the ordering platform.
type Order struct {
	ID                 string
	TenantID           string
	DeliveryPartner    Provider
	DeliveryStatus     string
	TrackingURL        string
	DeliveryFee        *Money
	UberDeliveryID     string
	DoorDashDeliveryID string
	SelfDeliveryID     string
	UpdatedAt          time.Time
}

// DeliveryID returns the delivery id recorded for the current partner.
func (o Order) DeliveryID() string {
	switch o.DeliveryPartner {
	case ProviderUber:
		return o.UberDeliveryID
	case ProviderDoorDash:
		return o.DoorDashDeliveryID
	case ProviderSelf:
		return o.SelfDeliveryID
	}
	return ""
}

// HasDelivery reports whether a delivery was already booked for the order.
func (o Order) HasDelivery() bool {
	return o.DeliveryPartner != "" && o.DeliveryID() != ""
}

// OrderDeliveryUpdate carries the fields written onto an order after a successful dispatch.
type OrderDeliveryUpdate struct {
	Provider    Provider
	DeliveryID  string
	Status      string
	TrackingURL string
	Fee         *Money
}

// NewOrderDeliveryUpdate builds the update for a successful result.
func NewOrderDeliveryUpdate(r *CreateDeliveryResult) OrderDeliveryUpdate {
	return OrderDeliveryUpdate{
		Provider:    r.Provider,
		DeliveryID:  r.DeliveryID,
		Status:      r.Status,
		TrackingURL: r.TrackingURL,
		Fee:         r.DeliveryFee,
	}
}

// AuditSourceSmartDispatch tags audit entries written by the dispatch orchestrator.
const AuditSourceSmartDispatch = "smart_dispatch"

// AuditEntry is one append-only integration log record.
type AuditEntry struct {
	TenantID string
	Source   string
	Message  string
	Payload  map[string]any
}

// SelfDelivery is a delivery handled by the restaurant's own drivers.
type SelfDelivery struct {
	ID                   string
	OrderID              string
	TenantID             string
	PickupAddress        Address
	DropoffAddress       Address
	CustomerName         string
	CustomerPhone        string
	Notes                string
	Fee                  Money
	Status               string
	EstimatedPickupTime  time.Time
	EstimatedDropoffTime time.Time
	CreatedAt            time.Time
}
