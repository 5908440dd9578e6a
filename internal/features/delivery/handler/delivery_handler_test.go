package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"smart-dispatch/internal/features/delivery/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSmartDispatchService is a mock implementation of ports.SmartDispatchService.
type MockSmartDispatchService struct {
	mock.Mock
}

func (m *MockSmartDispatchService) CreateSmartDelivery(ctx context.Context, tenantID string, req domain.CreateDeliveryRequest) (*domain.CreateDeliveryResult, error) {
	args := m.Called(ctx, tenantID, req)
	if res, ok := args.Get(0).(*domain.CreateDeliveryResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSmartDispatchService) GetSmartQuotes(ctx context.Context, tenantID string, req domain.QuoteRequest) (*domain.SmartQuoteResult, error) {
	args := m.Called(ctx, tenantID, req)
	if res, ok := args.Get(0).(*domain.SmartQuoteResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

const createBody = `{
	"orderId": "order-1",
	"pickupAddress": {"street": "100 Main St", "city": "Austin", "state": "TX", "zipCode": "78701"},
	"dropoffAddress": {"street": "200 Oak Ave", "city": "Austin", "state": "TX", "zipCode": "78702"},
	"dropoffName": "Ada Lovelace",
	"dropoffPhone": "+15125550199",
	"tip": 3
}`

func setupApp(svc *MockSmartDispatchService) *fiber.App {
	h := NewDeliveryHandler(svc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Post("/api/delivery/smart/create", h.CreateSmartDelivery)
	app.Post("/api/delivery/smart/quotes", h.GetSmartQuotes)
	return app
}

func post(t *testing.T, app *fiber.App, path, tenantID, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if tenantID != "" {
		req.Header.Set(TenantHeader, tenantID)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

// TestDeliveryHandler_CreateSmartDelivery_Success verifies the result is returned as JSON.
func TestDeliveryHandler_CreateSmartDelivery_Success(t *testing.T) {
	svc := new(MockSmartDispatchService)
	fee := domain.MoneyFromFloat(10.24)
	svc.On("CreateSmartDelivery", mock.Anything, "tenant-1", mock.MatchedBy(func(r domain.CreateDeliveryRequest) bool {
		return r.OrderID == "order-1" && r.DropoffAddress.ZipCode == "78702" && r.TipOrZero().Cents() == 300
	})).Return(&domain.CreateDeliveryResult{
		Success:        true,
		DeliveryID:     "dd_555",
		Provider:       domain.ProviderDoorDash,
		Status:         "created",
		DeliveryFee:    &fee,
		Mode:           domain.ModeLive,
		Fallback:       true,
		FallbackReason: "uber failed: Uber API error: 500",
	}, nil)

	status, body := post(t, setupApp(svc), "/api/delivery/smart/create", "tenant-1", createBody)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "dd_555", body["deliveryId"])
	assert.Equal(t, "doordash", body["provider"])
	assert.Equal(t, 10.24, body["deliveryFee"])
	assert.Equal(t, true, body["fallback"])
	assert.Equal(t, "uber failed: Uber API error: 500", body["fallbackReason"])
	svc.AssertExpectations(t)
}

// TestDeliveryHandler_MissingTenant verifies the tenant header is required.
func TestDeliveryHandler_MissingTenant(t *testing.T) {
	svc := new(MockSmartDispatchService)

	status, body := post(t, setupApp(svc), "/api/delivery/smart/create", "", createBody)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "X-Tenant-ID header is required", body["error"])
	assert.Equal(t, "test-ray-id", body["ray_id"])
	svc.AssertNotCalled(t, "CreateSmartDelivery", mock.Anything, mock.Anything, mock.Anything)
}

// TestDeliveryHandler_InvalidBody verifies malformed JSON is rejected.
func TestDeliveryHandler_InvalidBody(t *testing.T) {
	svc := new(MockSmartDispatchService)

	status, body := post(t, setupApp(svc), "/api/delivery/smart/create", "tenant-1", `{"orderId":`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "invalid request body", body["error"])
}

// TestDeliveryHandler_ErrorMapping verifies service errors map to status codes.
func TestDeliveryHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"Validation", fmt.Errorf("%w: Order ID is required", domain.ErrInvalidRequest), fiber.StatusBadRequest, "Order ID is required"},
		{"NoProviders", domain.ErrNoProvidersAvailable, fiber.StatusBadRequest, "No delivery providers available"},
		{"QuoteExpired", fmt.Errorf("%w: uber_mock_1", domain.ErrQuoteExpired), fiber.StatusBadRequest, "quote expired: uber_mock_1"},
		{"OrderNotFound", fmt.Errorf("%w: order-1", domain.ErrOrderNotFound), fiber.StatusNotFound, ""},
		{"TenantNotFound", domain.ErrTenantNotFound, fiber.StatusNotFound, ""},
		{"InProgress", domain.ErrDispatchInProgress, fiber.StatusConflict, ""},
		{"AlreadyDispatched", domain.ErrAlreadyDispatched, fiber.StatusConflict, ""},
		{"OrderUpdate", fmt.Errorf("%w: uber delivery del_1", domain.ErrOrderUpdateFailed), fiber.StatusInternalServerError, ""},
		{"Unexpected", errors.New("boom"), fiber.StatusInternalServerError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockSmartDispatchService)
			svc.On("CreateSmartDelivery", mock.Anything, "tenant-1", mock.Anything).Return(nil, tt.err)

			status, body := post(t, setupApp(svc), "/api/delivery/smart/create", "tenant-1", createBody)

			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, body["error"])
			if tt.message != "" {
				assert.Equal(t, tt.message, body["error"])
			}
			assert.Equal(t, "test-ray-id", body["ray_id"])
			assert.NotContains(t, body, "details")
		})
	}
}

// TestDeliveryHandler_DispatchErrorDetails verifies provider failures carry their causes.
func TestDeliveryHandler_DispatchErrorDetails(t *testing.T) {
	t.Run("NoFallback", func(t *testing.T) {
		svc := new(MockSmartDispatchService)
		svc.On("CreateSmartDelivery", mock.Anything, "tenant-1", mock.Anything).
			Return(nil, domain.NewDispatchError(domain.ProviderUber, errors.New("Uber API error: 500")))

		status, body := post(t, setupApp(svc), "/api/delivery/smart/create", "tenant-1", createBody)

		assert.Equal(t, fiber.StatusInternalServerError, status)
		assert.Equal(t, "Failed to create delivery with uber and no fallback available", body["error"])
		assert.Equal(t, "Uber API error: 500", body["details"])
	})

	t.Run("BothFailed", func(t *testing.T) {
		svc := new(MockSmartDispatchService)
		dispatchErr := domain.NewDispatchError(domain.ProviderUber, errors.New("Uber API error: 500")).
			WithFallback(domain.ProviderDoorDash, errors.New("DoorDash API error: 400"))
		svc.On("CreateSmartDelivery", mock.Anything, "tenant-1", mock.Anything).Return(nil, dispatchErr)

		status, body := post(t, setupApp(svc), "/api/delivery/smart/create", "tenant-1", createBody)

		assert.Equal(t, fiber.StatusInternalServerError, status)
		assert.Equal(t, "All delivery providers failed", body["error"])

		details, ok := body["details"].(map[string]any)
		require.True(t, ok)
		primary := details["primary"].(map[string]any)
		fallback := details["fallback"].(map[string]any)
		assert.Equal(t, "uber", primary["provider"])
		assert.Equal(t, "Uber API error: 500", primary["error"])
		assert.Equal(t, "doordash", fallback["provider"])
		assert.Equal(t, "DoorDash API error: 400", fallback["error"])
	})
}

// TestDeliveryHandler_GetSmartQuotes verifies the quote comparison endpoint.
func TestDeliveryHandler_GetSmartQuotes(t *testing.T) {
	svc := new(MockSmartDispatchService)
	cheapest := domain.DeliveryQuote{
		Provider:    domain.ProviderUber,
		DeliveryFee: domain.MoneyFromFloat(9.62),
		ETAMinutes:  25,
		QuoteID:     "uber_mock_1",
		Mode:        domain.ModeMock,
		Available:   true,
	}
	svc.On("GetSmartQuotes", mock.Anything, "tenant-1", mock.AnythingOfType("domain.QuoteRequest")).
		Return(&domain.SmartQuoteResult{
			Quotes:           []domain.DeliveryQuote{cheapest},
			Cheapest:         &cheapest,
			Fastest:          &cheapest,
			EnabledProviders: []domain.Provider{domain.ProviderUber},
		}, nil)

	body := `{"pickupAddress":{"street":"100 Main St"},"dropoffAddress":{"street":"200 Oak Ave"}}`
	status, out := post(t, setupApp(svc), "/api/delivery/smart/quotes", "tenant-1", body)

	assert.Equal(t, fiber.StatusOK, status)
	quotes := out["quotes"].([]any)
	require.Len(t, quotes, 1)
	assert.Equal(t, "uber_mock_1", out["cheapest"].(map[string]any)["quoteId"])
	assert.Equal(t, []any{"uber"}, out["enabledProviders"])
	svc.AssertExpectations(t)
}

// TestDeliveryHandler_GetSmartQuotes_TenantNotFound verifies unknown tenants yield 404.
func TestDeliveryHandler_GetSmartQuotes_TenantNotFound(t *testing.T) {
	svc := new(MockSmartDispatchService)
	svc.On("GetSmartQuotes", mock.Anything, "ghost", mock.Anything).
		Return(nil, fmt.Errorf("%w: ghost", domain.ErrTenantNotFound))

	status, out := post(t, setupApp(svc), "/api/delivery/smart/quotes", "ghost", `{}`)

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, out["error"], "ghost")
}
