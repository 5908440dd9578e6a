package domain

import "github.com/shopspring/decimal"

// OnboardingConnected is the onboarding status of a provider account that finished setup.
const OnboardingConnected = "connected"

// defaultSelfDeliveryFee applies when the tenant configured neither a self nor a base fee.
var defaultSelfDeliveryFee = NewMoney(decimal.RequireFromString("5.99"))

// UberCredentials are the Uber Direct client credentials resolved for a tenant.
type UberCredentials struct {
	ClientID     string
	ClientSecret string
	CustomerID   string
	Sandbox      bool
}

// Configured reports whether live Uber calls are possible.
func (c UberCredentials) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.CustomerID != ""
}

// DoorDashCredentials are the DoorDash Drive signing credentials resolved for a tenant.
type DoorDashCredentials struct {
	DeveloperID   string
	KeyID         string
	SigningSecret string
	Sandbox       bool
}

// Configured reports whether live DoorDash calls are possible.
func (c DoorDashCredentials) Configured() bool {
	return c.DeveloperID != "" && c.KeyID != "" && c.SigningSecret != ""
}

// TenantDeliveryConfig is the resolved, read-only delivery setup of one tenant.
// It is passed explicitly to the aggregator and to every provider adapter.
type TenantDeliveryConfig struct {
	TenantID string
	Name     string
	Slug     string

	Uber                     UberCredentials
	UberOnboardingStatus     string
	DoorDash                 DoorDashCredentials
	DoorDashOnboardingStatus string

	// DeliveryBaseFee is the tenant's advertised base fee, if any.
	DeliveryBaseFee     *Money
	SelfDeliveryEnabled bool
	SelfDeliveryFee     *Money

	// Strategy is the tenant default when a request names none.
	Strategy Strategy
}

// UberConnected reports whether the tenant finished Uber onboarding.
func (t TenantDeliveryConfig) UberConnected() bool {
	return t.UberOnboardingStatus == OnboardingConnected
}

// DoorDashConnected reports whether the tenant finished DoorDash onboarding.
func (t TenantDeliveryConfig) DoorDashConnected() bool {
	return t.DoorDashOnboardingStatus == OnboardingConnected
}

// SelfFee resolves the self-delivery fee: self fee, then base fee, then 5.99.
func (t TenantDeliveryConfig) SelfFee() Money {
	if t.SelfDeliveryFee != nil {
		return *t.SelfDeliveryFee
	}
	if t.DeliveryBaseFee != nil {
		return *t.DeliveryBaseFee
	}
	return defaultSelfDeliveryFee
}

// PickupBusinessName is the name shown to couriers at pickup.
func (t TenantDeliveryConfig) PickupBusinessName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Slug
}
