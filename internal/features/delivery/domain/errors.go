package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when required request fields are missing or malformed.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNoProvidersAvailable is returned when no provider produced an available quote.
	ErrNoProvidersAvailable = errors.New("No delivery providers available")
	// ErrQuoteExpired is returned when a stored quote expired and could not be refreshed.
	ErrQuoteExpired = errors.New("quote expired")
	// ErrOrderNotFound is returned when the order does not exist for the tenant.
	ErrOrderNotFound = errors.New("order not found")
	// ErrTenantNotFound is returned when the tenant has no delivery configuration.
	ErrTenantNotFound = errors.New("tenant not found")
	// ErrDispatchInProgress is returned when another dispatch holds the order lock.
	ErrDispatchInProgress = errors.New("dispatch already in progress for order")
	// ErrAlreadyDispatched is returned when the order already has a booked delivery.
	ErrAlreadyDispatched = errors.New("order already has a delivery")
	// ErrProviderNotRegistered is returned when no adapter serves the provider.
	ErrProviderNotRegistered = errors.New("provider not registered")
	// ErrOrderUpdateFailed is returned when a delivery was booked but could not be recorded on the order.
	ErrOrderUpdateFailed = errors.New("delivery created but order update failed")
)

// ProviderAttempt is one failed creation attempt.
type ProviderAttempt struct {
	Provider Provider `json:"provider"`
	Error    string   `json:"error"`
}

// DispatchError reports a dispatch that ended without a delivery.
// Fallback is nil when no alternative quote existed.
type DispatchError struct {
	Primary  ProviderAttempt
	Fallback *ProviderAttempt
	cause    error
}

// NewDispatchError builds the error for a primary failure without a fallback.
func NewDispatchError(primary Provider, err error) *DispatchError {
	return &DispatchError{
		Primary: ProviderAttempt{Provider: primary, Error: err.Error()},
		cause:   err,
	}
}

// WithFallback records the failed fallback attempt.
func (e *DispatchError) WithFallback(fallback Provider, err error) *DispatchError {
	e.Fallback = &ProviderAttempt{Provider: fallback, Error: err.Error()}
	e.cause = errors.Join(e.cause, err)
	return e
}

// Error implements error.
func (e *DispatchError) Error() string {
	if e.Fallback == nil {
		return fmt.Sprintf("Failed to create delivery with %s and no fallback available", e.Primary.Provider)
	}
	return "All delivery providers failed"
}

// Unwrap exposes the provider errors.
func (e *DispatchError) Unwrap() error {
	return e.cause
}

// Details is the diagnostic payload returned to callers: the primary error
// alone, or both attempts when the fallback also failed.
func (e *DispatchError) Details() any {
	if e.Fallback == nil {
		return e.Primary.Error
	}
	return map[string]ProviderAttempt{
		"primary":  e.Primary,
		"fallback": *e.Fallback,
	}
}
