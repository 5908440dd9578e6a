package httpclient

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smart-dispatch/internal/core/logger"
	"smart-dispatch/internal/core/proxy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoggingRoundTripper verifies that requests are logged.
func TestLoggingRoundTripper(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	logger.Init("development", "debug")

	client := NewClient(1 * time.Second)
	resp, err := client.Get(ts.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestLoggingRoundTripper_Error verifies that failed requests are logged.
func TestLoggingRoundTripper_Error(t *testing.T) {
	logger.Init("development", "debug")

	client := NewClient(1 * time.Second)
	_, err := client.Get("http://invalid-url-that-does-not-exist.local")
	require.Error(t, err)
}

// TestNewProxiedClient_NoProxy verifies the plain client is used without a proxy.
func TestNewProxiedClient_NoProxy(t *testing.T) {
	client, err := NewProxiedClient(2*time.Second, proxy.Settings{})
	require.NoError(t, err)

	lrt, ok := client.Transport.(*LoggingRoundTripper)
	require.True(t, ok)
	assert.Equal(t, http.DefaultTransport, lrt.Proxied)
	assert.Equal(t, 2*time.Second, client.Timeout)
}

// TestNewProxiedClient_RoutesThroughProxy verifies requests reach the proxy.
func TestNewProxiedClient_RoutesThroughProxy(t *testing.T) {
	var proxiedHost string
	proxyServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxiedHost = r.Host
		w.WriteHeader(http.StatusTeapot)
	}))
	defer proxyServer.Close()

	addr := proxyServer.Listener.Addr().(*net.TCPAddr)
	client, err := NewProxiedClient(2*time.Second, proxy.Settings{
		Enabled:  true,
		Hostname: "127.0.0.1",
		Port:     addr.Port,
	})
	require.NoError(t, err)

	resp, err := client.Get("http://provider.example.com/quotes")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "provider.example.com", proxiedHost)
}
