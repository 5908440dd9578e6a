package adapters

import (
	"context"
	"encoding/json"
	"errors"
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

// UberAdapter talks to Uber Direct, or synthesizes mock quotes and deliveries
// for tenants without Uber credentials.
type UberAdapter struct {
	apiURL           string
	client           *http.Client
	tokens           *UberTokenSource
	mock             mockQuoter
	mockUnconfigured bool
	now              func() time.Time
	logger           *zap.Logger
}

// NewUberAdapter creates a new UberAdapter.
func NewUberAdapter(apiURL string, client *http.Client, tokens *UberTokenSource, distance ports.DistanceEstimator, assumedMiles float64, mockUnconfigured bool) *UberAdapter {
	return &UberAdapter{
		apiURL:           strings.TrimRight(apiURL, "/"),
		client:           client,
		tokens:           tokens,
		mock:             mockQuoter{distance: distance, defaultMiles: assumedMiles},
		mockUnconfigured: mockUnconfigured,
		now:              time.Now,
		logger:           logger.Get(),
	}
}

// Provider implements ports.DeliveryProvider.
func (a *UberAdapter) Provider() domain.Provider {
	return domain.ProviderUber
}

// Enabled implements ports.DeliveryProvider.
func (a *UberAdapter) Enabled(tenant domain.TenantDeliveryConfig) bool {
	return tenant.UberConnected() || tenant.Uber.Configured() || a.mockUnconfigured
}

// uberAddress is the structured address Uber expects, sent JSON-encoded as a string.
type uberAddress struct {
	StreetAddress []string `json:"street_address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	ZipCode       string   `json:"zip_code"`
	Country       string   `json:"country"`
}

func encodeUberAddress(a domain.Address) string {
	raw, _ := json.Marshal(uberAddress{
		StreetAddress: []string{a.Street},
		City:          a.City,
		State:         a.State,
		ZipCode:       a.ZipCode,
		Country:       "US",
	})
	return string(raw)
}

type uberQuoteRequest struct {
	PickupAddress  string `json:"pickup_address"`
	DropoffAddress string `json:"dropoff_address"`
}

type uberQuoteResponse struct {
	ID         string `json:"id"`
	Fee        int64  `json:"fee"`
	Currency   string `json:"currency"`
	DropoffETA string `json:"dropoff_eta"`
	Expires    string `json:"expires"`
}

type uberDeliveryRequest struct {
	QuoteID            string `json:"quote_id"`
	PickupAddress      string `json:"pickup_address"`
	PickupName         string `json:"pickup_name"`
	PickupPhoneNumber  string `json:"pickup_phone_number"`
	PickupNotes        string `json:"pickup_notes"`
	DropoffAddress     string `json:"dropoff_address"`
	DropoffName        string `json:"dropoff_name"`
	DropoffPhoneNumber string `json:"dropoff_phone_number"`
	DropoffNotes       string `json:"dropoff_notes"`
	ExternalID         string `json:"external_id"`
	Tip                int64  `json:"tip,omitempty"`
}

type uberDeliveryResponse struct {
	ID          string `json:"id"`
	QuoteID     string `json:"quote_id"`
	Status      string `json:"status"`
	TrackingURL string `json:"tracking_url"`
	PickupETA   string `json:"pickup_eta"`
	DropoffETA  string `json:"dropoff_eta"`
	Fee         int64  `json:"fee"`
	Currency    string `json:"currency"`
}

func (a *UberAdapter) mode(creds domain.UberCredentials) domain.QuoteMode {
	if creds.Sandbox {
		return domain.ModeSandbox
	}
	return domain.ModeLive
}

// FetchQuote implements ports.DeliveryProvider.
func (a *UberAdapter) FetchQuote(ctx context.Context, pickup, dropoff domain.Address, tenant domain.TenantDeliveryConfig, orderValue domain.Money) domain.DeliveryQuote {
	if !tenant.Uber.Configured() {
		return a.mock.quote(ctx, domain.ProviderUber, uberMockRate, pickup, dropoff, a.now())
	}

	q, err := a.liveQuote(ctx, pickup, dropoff, tenant)
	if err != nil {
		a.logger.Warn("Uber quote failed", zap.String("tenant_id", tenant.TenantID), zap.Error(err))
		return domain.UnavailableQuote(domain.ProviderUber, a.mode(tenant.Uber), err)
	}
	return q
}

func (a *UberAdapter) liveQuote(ctx context.Context, pickup, dropoff domain.Address, tenant domain.TenantDeliveryConfig) (domain.DeliveryQuote, error) {
	token, err := a.tokens.Token(ctx, tenant.Uber)
	if err != nil {
		return domain.DeliveryQuote{}, err
	}

	url := fmt.Sprintf("%s/customers/%s/delivery_quotes", a.apiURL, tenant.Uber.CustomerID)
	var resp uberQuoteResponse
	err = postJSON(ctx, a.client, "Uber", url, token, uberQuoteRequest{
		PickupAddress:  encodeUberAddress(pickup),
		DropoffAddress: encodeUberAddress(dropoff),
	}, &resp)
	if err != nil {
		return domain.DeliveryQuote{}, err
	}
	if resp.ID == "" {
		return domain.DeliveryQuote{}, errors.New("Uber quote response has no id")
	}

	now := a.now()
	q := domain.DeliveryQuote{
		Provider:     domain.ProviderUber,
		ProviderName: domain.ProviderUber.DisplayName(),
		DeliveryFee:  domain.MoneyFromCents(resp.Fee),
		QuoteID:      resp.ID,
		Mode:         a.mode(tenant.Uber),
		Available:    true,
	}
	if eta := parseTime(resp.DropoffETA); eta != nil {
		q.ETAMinutes = minutesUntil(*eta, now)
	}
	if exp := parseTime(resp.Expires); exp != nil {
		q.ExpiresAt = *exp
	}
	return q, nil
}

// CreateDelivery implements ports.DeliveryProvider.
func (a *UberAdapter) CreateDelivery(ctx context.Context, orderID, quoteID string, req domain.CreateDeliveryRequest, tenant domain.TenantDeliveryConfig) (*domain.CreateDeliveryResult, error) {
	if !tenant.Uber.Configured() {
		return a.mockDelivery(), nil
	}

	if quoteID == "" {
		q, err := a.liveQuote(ctx, *req.PickupAddress, *req.DropoffAddress, tenant)
		if err != nil {
			return nil, fmt.Errorf("failed to quote Uber delivery: %w", err)
		}
		quoteID = q.QuoteID
	}

	token, err := a.tokens.Token(ctx, tenant.Uber)
	if err != nil {
		return nil, err
	}

	pickupName := req.PickupName
	if pickupName == "" {
		pickupName = tenant.PickupBusinessName()
	}

	body := uberDeliveryRequest{
		QuoteID:            quoteID,
		PickupAddress:      encodeUberAddress(*req.PickupAddress),
		PickupName:         pickupName,
		PickupPhoneNumber:  req.PickupPhone,
		DropoffAddress:     encodeUberAddress(*req.DropoffAddress),
		DropoffName:        req.DropoffName,
		DropoffPhoneNumber: req.DropoffPhone,
		DropoffNotes:       req.DropoffInstructions,
		ExternalID:         orderID,
		Tip:                req.TipOrZero().Cents(),
	}

	url := fmt.Sprintf("%s/customers/%s/deliveries", a.apiURL, tenant.Uber.CustomerID)
	var resp uberDeliveryResponse
	if err := postJSON(ctx, a.client, "Uber", url, token, body, &resp); err != nil {
		return nil, err
	}

	fee := domain.MoneyFromCents(resp.Fee)
	a.logger.Info("Uber delivery created",
		zap.String("order_id", orderID),
		zap.String("delivery_id", resp.ID),
		zap.String("status", resp.Status),
	)

	return &domain.CreateDeliveryResult{
		Success:              true,
		DeliveryID:           resp.ID,
		Provider:             domain.ProviderUber,
		Status:               resp.Status,
		TrackingURL:          resp.TrackingURL,
		EstimatedPickupTime:  parseTime(resp.PickupETA),
		EstimatedDropoffTime: parseTime(resp.DropoffETA),
		DeliveryFee:          &fee,
		Mode:                 a.mode(tenant.Uber),
	}, nil
}

func (a *UberAdapter) mockDelivery() *domain.CreateDeliveryResult {
	now := a.now()
	id := "uber_mock_" + uuid.NewString()
	pickup := now.Add(15 * time.Minute)
	dropoff := now.Add(35 * time.Minute)

	return &domain.CreateDeliveryResult{
		Success:              true,
		DeliveryID:           id,
		Provider:             domain.ProviderUber,
		Status:               "pending",
		TrackingURL:          "https://www.uber.com/orders/" + id,
		EstimatedPickupTime:  &pickup,
		EstimatedDropoffTime: &dropoff,
		Mode:                 domain.ModeMock,
	}
}
