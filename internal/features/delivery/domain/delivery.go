package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CreateDeliveryRequest is the input of a smart dispatch.
type CreateDeliveryRequest struct {
	OrderID             string   `json:"orderId"`
	Provider            Provider `json:"provider,omitempty"`
	QuoteID             string   `json:"quoteId,omitempty"`
	Strategy            Strategy `json:"strategy,omitempty"`
	PickupAddress       *Address `json:"pickupAddress"`
	PickupName          string   `json:"pickupName,omitempty"`
	PickupPhone         string   `json:"pickupPhone,omitempty"`
	DropoffAddress      *Address `json:"dropoffAddress"`
	DropoffName         string   `json:"dropoffName"`
	DropoffPhone        string   `json:"dropoffPhone"`
	DropoffInstructions string   `json:"dropoffInstructions,omitempty"`
	OrderValue          *Money   `json:"orderValue,omitempty"`
	Tip                 *Money   `json:"tip,omitempty"`
}

// Validate checks the required fields before any provider is contacted.
func (r CreateDeliveryRequest) Validate() error {
	if strings.TrimSpace(r.OrderID) == "" {
		return fmt.Errorf("%w: Order ID is required", ErrInvalidRequest)
	}
	if r.PickupAddress == nil || r.PickupAddress.IsZero() ||
		r.DropoffAddress == nil || r.DropoffAddress.IsZero() {
		return fmt.Errorf("%w: Pickup and dropoff addresses are required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.DropoffName) == "" || strings.TrimSpace(r.DropoffPhone) == "" {
		return fmt.Errorf("%w: Dropoff contact name and phone are required", ErrInvalidRequest)
	}
	if r.Provider != "" && !r.Provider.Valid() {
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidRequest, r.Provider)
	}
	if r.Strategy != "" && r.Strategy != StrategyCheapest && r.Strategy != StrategyFastest {
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidRequest, r.Strategy)
	}
	return nil
}

// OrderValueOrZero returns the declared order value, zero when absent.
func (r CreateDeliveryRequest) OrderValueOrZero() Money {
	if r.OrderValue == nil {
		return Money{}
	}
	return *r.OrderValue
}

// TipOrZero returns the tip, zero when absent.
func (r CreateDeliveryRequest) TipOrZero() Money {
	if r.Tip == nil {
		return Money{}
	}
	return *r.Tip
}

// QuoteRequest is the input of a standalone aggregation pass.
type QuoteRequest struct {
	PickupAddress  *Address `json:"pickupAddress"`
	DropoffAddress *Address `json:"dropoffAddress"`
	OrderValue     *Money   `json:"orderValue,omitempty"`
}

// Validate checks that both addresses were provided.
func (r QuoteRequest) Validate() error {
	if r.PickupAddress == nil || r.PickupAddress.IsZero() ||
		r.DropoffAddress == nil || r.DropoffAddress.IsZero() {
		return fmt.Errorf("%w: Pickup and dropoff addresses are required", ErrInvalidRequest)
	}
	return nil
}

// CreateDeliveryResult is the terminal record of one dispatch decision.
type CreateDeliveryResult struct {
	Success              bool       `json:"success"`
	DeliveryID           string     `json:"deliveryId"`
	Provider             Provider   `json:"provider"`
	Status               string     `json:"status"`
	TrackingURL          string     `json:"trackingUrl,omitempty"`
	EstimatedPickupTime  *time.Time `json:"estimatedPickupTime,omitempty"`
	EstimatedDropoffTime *time.Time `json:"estimatedDropoffTime,omitempty"`
	DeliveryFee          *Money     `json:"deliveryFee,omitempty"`
	Mode                 QuoteMode  `json:"mode"`
	Fallback             bool       `json:"fallback,omitempty"`
	FallbackReason       string     `json:"fallbackReason,omitempty"`
}

// Validate rejects results that claim success without a concrete delivery.
func (r *CreateDeliveryResult) Validate() error {
	if r == nil {
		return errors.New("provider returned no result")
	}
	if !r.Success {
		return errors.New("provider reported an unsuccessful delivery")
	}
	if r.DeliveryID == "" {
		return errors.New("provider returned no delivery id")
	}
	if !r.Provider.Valid() {
		return fmt.Errorf("provider returned unknown provider %q", r.Provider)
	}
	return nil
}
