package domain

import (
	"fmt"
	"strings"
)

// Provider identifies a delivery provider.
type Provider string

const (
	// ProviderUber is Uber Direct.
	ProviderUber Provider = "uber"
	// ProviderDoorDash is DoorDash Drive.
	ProviderDoorDash Provider = "doordash"
	// ProviderSelf is the restaurant's own drivers.
	ProviderSelf Provider = "self"
)

// Providers lists every provider in aggregation order.
func Providers() []Provider {
	return []Provider{ProviderUber, ProviderDoorDash, ProviderSelf}
}

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	switch p {
	case ProviderUber, ProviderDoorDash, ProviderSelf:
		return true
	}
	return false
}

// DisplayName returns the label shown to customers.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderUber:
		return "Uber Direct"
	case ProviderDoorDash:
		return "DoorDash Drive"
	case ProviderSelf:
		return "Restaurant Delivery"
	}
	return string(p)
}

// ParseProvider parses a provider tag. Empty input yields an empty provider.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if p == "" || p.Valid() {
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown provider %q", ErrInvalidRequest, s)
}

// QuoteMode tells whether a figure is real, synthesized or from a provider sandbox.
type QuoteMode string

const (
	// ModeLive is a real provider response.
	ModeLive QuoteMode = "live"
	// ModeMock is a locally synthesized placeholder.
	ModeMock QuoteMode = "mock"
	// ModeSandbox is a provider sandbox response.
	ModeSandbox QuoteMode = "sandbox"
)

// Strategy is the best-quote selection policy.
type Strategy string

const (
	// StrategyCheapest picks the lowest delivery fee.
	StrategyCheapest Strategy = "cheapest"
	// StrategyFastest picks the lowest ETA.
	StrategyFastest Strategy = "fastest"
)

// ParseStrategy parses a strategy. Empty input yields an empty strategy so
// callers can fall back to the tenant default.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case "", StrategyCheapest, StrategyFastest:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidRequest, s)
}

// OrDefault returns s, or cheapest when s is empty.
func (s Strategy) OrDefault() Strategy {
	if s == "" {
		return StrategyCheapest
	}
	return s
}
