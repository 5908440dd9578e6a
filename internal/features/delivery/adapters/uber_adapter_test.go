package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"smart-dispatch/internal/features/delivery/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUber struct {
	tokenCalls    atomic.Int32
	quoteStatus   int
	lastQuote     uberQuoteRequest
	lastDelivery  uberDeliveryRequest
	authorization string
	now           time.Time
}

func (f *fakeUber) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "eats.deliveries", r.PostForm.Get("scope"))
		assert.Equal(t, "client-1", r.PostForm.Get("client_id"))
		f.tokenCalls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "uber-token", "expires_in": 3600})
	})
	mux.HandleFunc("/customers/cust-1/delivery_quotes", func(w http.ResponseWriter, r *http.Request) {
		f.authorization = r.Header.Get("Authorization")
		if f.quoteStatus != 0 {
			w.WriteHeader(f.quoteStatus)
			_, _ = w.Write([]byte(`{"code":"address_undeliverable"}`))
			return
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastQuote))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          "dqt_123",
			"fee":         1150,
			"currency":    "usd",
			"dropoff_eta": f.now.Add(28 * time.Minute).Format(time.RFC3339),
			"expires":     f.now.Add(15 * time.Minute).Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/customers/cust-1/deliveries", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastDelivery))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":           "del_789",
			"quote_id":     f.lastDelivery.QuoteID,
			"status":       "pending",
			"tracking_url": "https://delivery.uber.com/del_789",
			"pickup_eta":   f.now.Add(12 * time.Minute).Format(time.RFC3339),
			"dropoff_eta":  f.now.Add(30 * time.Minute).Format(time.RFC3339),
			"fee":          1150,
		})
	})
	return mux
}

func newUberFixture(t *testing.T) (*fakeUber, *UberAdapter, *httptest.Server) {
	t.Helper()
	fake := &fakeUber{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	_, c := newTestCache(t)
	tokens := NewUberTokenSource(srv.URL+"/oauth/token", srv.Client(), c)
	adapter := NewUberAdapter(srv.URL, srv.Client(), tokens, NewFixedDistanceEstimator(3.5), 3.5, true)
	adapter.now = func() time.Time { return fake.now }
	return fake, adapter, srv
}

func uberTenant() domain.TenantDeliveryConfig {
	return domain.TenantDeliveryConfig{
		TenantID: "tenant-1",
		Name:     "Taqueria Uno",
		Slug:     "taqueria-uno",
		Uber: domain.UberCredentials{
			ClientID:     "client-1",
			ClientSecret: "secret-1",
			CustomerID:   "cust-1",
			Sandbox:      true,
		},
	}
}

func TestUberAdapter_LiveQuote(t *testing.T) {
	fake, adapter, _ := newUberFixture(t)

	q := adapter.FetchQuote(context.Background(), pickupAddr, dropoffAddr, uberTenant(), domain.MoneyFromFloat(40))

	require.True(t, q.Available, q.Error)
	assert.Equal(t, "dqt_123", q.QuoteID)
	assert.Equal(t, "11.50", q.DeliveryFee.String())
	assert.Equal(t, 28, q.ETAMinutes)
	assert.Equal(t, fake.now.Add(15*time.Minute), q.ExpiresAt.UTC())
	assert.Equal(t, domain.ModeSandbox, q.Mode)
	assert.Equal(t, "Bearer uber-token", fake.authorization)

	var addr uberAddress
	require.NoError(t, json.Unmarshal([]byte(fake.lastQuote.PickupAddress), &addr))
	assert.Equal(t, []string{"100 Main St"}, addr.StreetAddress)
	assert.Equal(t, "US", addr.Country)
}

func TestUberAdapter_TokenIsCached(t *testing.T) {
	fake, adapter, _ := newUberFixture(t)
	tenant := uberTenant()

	adapter.FetchQuote(context.Background(), pickupAddr, dropoffAddr, tenant, domain.Money{})
	adapter.FetchQuote(context.Background(), pickupAddr, dropoffAddr, tenant, domain.Money{})

	assert.Equal(t, int32(1), fake.tokenCalls.Load())
}

func TestUberTokenSource_TTLKeepsRefreshBuffer(t *testing.T) {
	fake := &fakeUber{now: time.Now()}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	mr, c := newTestCache(t)
	tokens := NewUberTokenSource(srv.URL+"/oauth/token", srv.Client(), c)

	token, err := tokens.Token(context.Background(), uberTenant().Uber)
	require.NoError(t, err)
	assert.Equal(t, "uber-token", token)
	assert.Equal(t, 55*time.Minute, mr.TTL("uber:token:client-1"))
}

func TestUberTokenSource_AuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, c := newTestCache(t)
	tokens := NewUberTokenSource(srv.URL, srv.Client(), c)

	_, err := tokens.Token(context.Background(), uberTenant().Uber)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to authenticate with Uber")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestUberAdapter_QuoteFailureIsUnavailable(t *testing.T) {
	fake, adapter, _ := newUberFixture(t)
	fake.quoteStatus = http.StatusUnprocessableEntity

	q := adapter.FetchQuote(context.Background(), pickupAddr, dropoffAddr, uberTenant(), domain.Money{})

	assert.False(t, q.Available)
	assert.Equal(t, domain.ProviderUber, q.Provider)
	assert.Contains(t, q.Error, "Uber API error: 422")
	assert.Contains(t, q.Error, "address_undeliverable")
}

func TestUberAdapter_MockWithoutCredentials(t *testing.T) {
	_, adapter, _ := newUberFixture(t)
	tenant := domain.TenantDeliveryConfig{TenantID: "tenant-2"}

	q := adapter.FetchQuote(context.Background(), pickupAddr, dropoffAddr, tenant, domain.Money{})
	assert.Equal(t, domain.ModeMock, q.Mode)
	assert.Equal(t, "9.62", q.DeliveryFee.String())

	res, err := adapter.CreateDelivery(context.Background(), "order-1", q.QuoteID, deliveryRequest("order-1"), tenant)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, strings.HasPrefix(res.DeliveryID, "uber_mock_"))
	assert.Equal(t, "https://www.uber.com/orders/"+res.DeliveryID, res.TrackingURL)
	assert.Equal(t, adapter.now().Add(15*time.Minute), *res.EstimatedPickupTime)
	assert.Equal(t, adapter.now().Add(35*time.Minute), *res.EstimatedDropoffTime)
	assert.NoError(t, res.Validate())
}

func TestUberAdapter_LiveCreate(t *testing.T) {
	fake, adapter, _ := newUberFixture(t)

	res, err := adapter.CreateDelivery(context.Background(), "order-1", "dqt_123", deliveryRequest("order-1"), uberTenant())
	require.NoError(t, err)

	assert.Equal(t, "del_789", res.DeliveryID)
	assert.Equal(t, domain.ProviderUber, res.Provider)
	assert.Equal(t, "pending", res.Status)
	assert.Equal(t, "https://delivery.uber.com/del_789", res.TrackingURL)
	assert.Equal(t, "11.50", res.DeliveryFee.String())
	assert.Equal(t, domain.ModeSandbox, res.Mode)

	assert.Equal(t, "dqt_123", fake.lastDelivery.QuoteID)
	assert.Equal(t, "order-1", fake.lastDelivery.ExternalID)
	assert.Equal(t, "Taqueria Uno", fake.lastDelivery.PickupName)
	assert.Equal(t, "Ada King Lovelace", fake.lastDelivery.DropoffName)
	assert.Equal(t, int64(300), fake.lastDelivery.Tip)
}

func TestUberAdapter_CreateWithoutQuoteFetchesOne(t *testing.T) {
	fake, adapter, _ := newUberFixture(t)

	_, err := adapter.CreateDelivery(context.Background(), "order-1", "", deliveryRequest("order-1"), uberTenant())
	require.NoError(t, err)

	assert.Equal(t, "dqt_123", fake.lastDelivery.QuoteID)
}

func TestUberAdapter_Enabled(t *testing.T) {
	adapter := NewUberAdapter("http://uber", http.DefaultClient, nil, nil, 3.5, false)

	assert.False(t, adapter.Enabled(domain.TenantDeliveryConfig{}))
	assert.True(t, adapter.Enabled(uberTenant()))
	assert.True(t, adapter.Enabled(domain.TenantDeliveryConfig{UberOnboardingStatus: domain.OnboardingConnected}))

	adapter.mockUnconfigured = true
	assert.True(t, adapter.Enabled(domain.TenantDeliveryConfig{}))
}
