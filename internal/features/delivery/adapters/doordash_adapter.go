package adapters

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"smart-dispatch/internal/core/logger"
	"smart-dispatch/internal/features/delivery/domain"
	"smart-dispatch/internal/features/delivery/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// doorDashDefaultETA applies when DoorDash omits the estimated dropoff time.
const doorDashDefaultETA = 35

// DoorDashAdapter talks to DoorDash Drive, or synthesizes mock quotes and
// deliveries for tenants without DoorDash credentials.
type DoorDashAdapter struct {
	apiURL           string
	client           *http.Client
	mock             mockQuoter
	mockUnconfigured bool
	now              func() time.Time
	logger           *zap.Logger
}

// NewDoorDashAdapter creates a new DoorDashAdapter.
func NewDoorDashAdapter(apiURL string, client *http.Client, distance ports.DistanceEstimator, assumedMiles float64, mockUnconfigured bool) *DoorDashAdapter {
	return &DoorDashAdapter{
		apiURL:           strings.TrimRight(apiURL, "/"),
		client:           client,
		mock:             mockQuoter{distance: distance, defaultMiles: assumedMiles},
		mockUnconfigured: mockUnconfigured,
		now:              time.Now,
		logger:           logger.Get(),
	}
}

// Provider implements ports.DeliveryProvider.
func (a *DoorDashAdapter) Provider() domain.Provider {
	return domain.ProviderDoorDash
}

// Enabled implements ports.DeliveryProvider.
func (a *DoorDashAdapter) Enabled(tenant domain.TenantDeliveryConfig) bool {
	return tenant.DoorDashConnected() || tenant.DoorDash.Configured() || a.mockUnconfigured
}

type doorDashQuoteRequest struct {
	ExternalDeliveryID string `json:"external_delivery_id"`
	PickupAddress      string `json:"pickup_address"`
	PickupBusinessName string `json:"pickup_business_name"`
	DropoffAddress     string `json:"dropoff_address"`
	OrderValue         int64  `json:"order_value"`
}

type doorDashQuoteResponse struct {
	ExternalDeliveryID   string `json:"external_delivery_id"`
	QuoteID              string `json:"quote_id"`
	Fee                  int64  `json:"fee"`
	Currency             string `json:"currency"`
	EstimatedDropoffTime string `json:"estimated_dropoff_time"`
	ExpiresAt            string `json:"expires_at"`
}

type doorDashDeliveryRequest struct {
	ExternalDeliveryID       string `json:"external_delivery_id"`
	PickupAddress            string `json:"pickup_address"`
	PickupBusinessName       string `json:"pickup_business_name"`
	PickupPhoneNumber        string `json:"pickup_phone_number,omitempty"`
	DropoffAddress           string `json:"dropoff_address"`
	DropoffPhoneNumber       string `json:"dropoff_phone_number"`
	DropoffContactGivenName  string `json:"dropoff_contact_given_name"`
	DropoffContactFamilyName string `json:"dropoff_contact_family_name,omitempty"`
	DropoffInstructions      string `json:"dropoff_instructions,omitempty"`
	OrderValue               int64  `json:"order_value"`
	Tip                      int64  `json:"tip,omitempty"`
}

type doorDashDeliveryResponse struct {
	ExternalDeliveryID   string `json:"external_delivery_id"`
	DeliveryID           string `json:"delivery_id"`
	DeliveryStatus       string `json:"delivery_status"`
	Fee                  int64  `json:"fee"`
	TrackingURL          string `json:"tracking_url"`
	PickupTimeEstimated  string `json:"pickup_time_estimated"`
	DropoffTimeEstimated string `json:"dropoff_time_estimated"`
}

func (a *DoorDashAdapter) mode(creds domain.DoorDashCredentials) domain.QuoteMode {
	if creds.Sandbox {
		return domain.ModeSandbox
	}
	return domain.ModeLive
}

// FetchQuote implements ports.DeliveryProvider.
func (a *DoorDashAdapter) FetchQuote(ctx context.Context, pickup, dropoff domain.Address, tenant domain.TenantDeliveryConfig, orderValue domain.Money) domain.DeliveryQuote {
	if !tenant.DoorDash.Configured() {
		return a.mock.quote(ctx, domain.ProviderDoorDash, doorDashMockRate, pickup, dropoff, a.now())
	}

	q, err := a.liveQuote(ctx, pickup, dropoff, tenant, orderValue)
	if err != nil {
		a.logger.Warn("DoorDash quote failed", zap.String("tenant_id", tenant.TenantID), zap.Error(err))
		return domain.UnavailableQuote(domain.ProviderDoorDash, a.mode(tenant.DoorDash), err)
	}
	return q
}

func (a *DoorDashAdapter) liveQuote(ctx context.Context, pickup, dropoff domain.Address, tenant domain.TenantDeliveryConfig, orderValue domain.Money) (domain.DeliveryQuote, error) {
	now := a.now()
	token, err := NewDoorDashToken(tenant.DoorDash, now)
	if err != nil {
		return domain.DeliveryQuote{}, err
	}

	var resp doorDashQuoteResponse
	err = postJSON(ctx, a.client, "DoorDash", a.apiURL+"/drive/v2/quotes", token, doorDashQuoteRequest{
		ExternalDeliveryID: fmt.Sprintf("quote_%s_%d", tenant.Slug, now.UnixMilli()),
		PickupAddress:      pickup.SingleLine(),
		PickupBusinessName: tenant.PickupBusinessName(),
		DropoffAddress:     dropoff.SingleLine(),
		OrderValue:         orderValue.Cents(),
	}, &resp)
	if err != nil {
		return domain.DeliveryQuote{}, err
	}

	quoteID := resp.QuoteID
	if quoteID == "" {
		quoteID = resp.ExternalDeliveryID
	}

	q := domain.DeliveryQuote{
		Provider:     domain.ProviderDoorDash,
		ProviderName: domain.ProviderDoorDash.DisplayName(),
		DeliveryFee:  domain.MoneyFromCents(resp.Fee),
		ETAMinutes:   doorDashDefaultETA,
		QuoteID:      quoteID,
		ExpiresAt:    now.Add(mockQuoteTTL),
		Mode:         a.mode(tenant.DoorDash),
		Available:    true,
	}
	if eta := parseTime(resp.EstimatedDropoffTime); eta != nil {
		q.ETAMinutes = minutesUntil(*eta, now)
	}
	if exp := parseTime(resp.ExpiresAt); exp != nil {
		q.ExpiresAt = *exp
	}
	return q, nil
}

// CreateDelivery implements ports.DeliveryProvider. DoorDash books by
// external delivery id, so quoteID is not sent.
func (a *DoorDashAdapter) CreateDelivery(ctx context.Context, orderID, quoteID string, req domain.CreateDeliveryRequest, tenant domain.TenantDeliveryConfig) (*domain.CreateDeliveryResult, error) {
	if !tenant.DoorDash.Configured() {
		return a.mockDelivery(), nil
	}

	token, err := NewDoorDashToken(tenant.DoorDash, a.now())
	if err != nil {
		return nil, err
	}

	given, family := splitContactName(req.DropoffName)

	businessName := req.PickupName
	if businessName == "" {
		businessName = tenant.PickupBusinessName()
	}

	body := doorDashDeliveryRequest{
		ExternalDeliveryID:       orderID,
		PickupAddress:            req.PickupAddress.SingleLine(),
		PickupBusinessName:       businessName,
		PickupPhoneNumber:        req.PickupPhone,
		DropoffAddress:           req.DropoffAddress.SingleLine(),
		DropoffPhoneNumber:       req.DropoffPhone,
		DropoffContactGivenName:  given,
		DropoffContactFamilyName: family,
		DropoffInstructions:      req.DropoffInstructions,
		OrderValue:               req.OrderValueOrZero().Cents(),
		Tip:                      req.TipOrZero().Cents(),
	}

	var resp doorDashDeliveryResponse
	if err := postJSON(ctx, a.client, "DoorDash", a.apiURL+"/drive/v2/deliveries", token, body, &resp); err != nil {
		return nil, err
	}

	fee := domain.MoneyFromCents(resp.Fee)
	a.logger.Info("DoorDash delivery created",
		zap.String("order_id", orderID),
		zap.String("delivery_id", resp.DeliveryID),
		zap.String("status", resp.DeliveryStatus),
	)

	return &domain.CreateDeliveryResult{
		Success:              true,
		DeliveryID:           resp.DeliveryID,
		Provider:             domain.ProviderDoorDash,
		Status:               resp.DeliveryStatus,
		TrackingURL:          resp.TrackingURL,
		EstimatedPickupTime:  parseTime(resp.PickupTimeEstimated),
		EstimatedDropoffTime: parseTime(resp.DropoffTimeEstimated),
		DeliveryFee:          &fee,
		Mode:                 a.mode(tenant.DoorDash),
	}, nil
}

func (a *DoorDashAdapter) mockDelivery() *domain.CreateDeliveryResult {
	now := a.now()
	id := "dd_delivery_mock_" + uuid.NewString()
	pickup := now.Add(10 * time.Minute)
	dropoff := now.Add(45 * time.Minute)

	return &domain.CreateDeliveryResult{
		Success:              true,
		DeliveryID:           id,
		Provider:             domain.ProviderDoorDash,
		Status:               "pending",
		TrackingURL:          "https://track.doordash.com/" + id,
		EstimatedPickupTime:  &pickup,
		EstimatedDropoffTime: &dropoff,
		Mode:                 domain.ModeMock,
	}
}

// splitContactName splits "Ada King Lovelace" into "Ada" and "King Lovelace".
func splitContactName(name string) (given, family string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "Customer", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
