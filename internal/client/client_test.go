package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "stock-insights/internal/errors"
	"stock-insights/internal/logging"
	"stock-insights/internal/models"
)

const appleBody = `{
  "success": true,
  "company_name": "Apple Inc",
  "symbol": "AAPL",
  "region": "United States",
  "currency": "USD",
  "stock_info": {
    "current_price": 189.5,
    "previous_close": 187.25,
    "open_price": 188.0,
    "high_price": 190.1,
    "low_price": 186.9,
    "volume": 51234567
  },
  "chart_data": {
    "dates": ["2024-01-02", "2024-01-03"],
    "prices": [187.25, 189.5]
  }
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/", UserAgent: "test-agent"}, zerolog.Nop())
}

func TestFetchStockSendsContract(t *testing.T) {
	var gotReq models.SearchRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, StockPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, appleBody)
	})

	ctx := logging.WithRequestID(context.Background(), "req-1")
	resp, err := c.FetchStock(ctx, "Apple")
	require.NoError(t, err)

	assert.Equal(t, "Apple", gotReq.CompanyName)
	assert.True(t, resp.Success)
	assert.Equal(t, "AAPL", resp.Symbol)
	assert.Equal(t, "USD", resp.Currency)
	require.NotNil(t, resp.StockInfo)
	assert.Equal(t, 189.5, resp.StockInfo.CurrentPrice)
	assert.Equal(t, float64(51234567), resp.StockInfo.Volume)
	assert.Equal(t, 2, resp.ChartData.Len())
	assert.True(t, resp.ChartData.Consistent())
}

func TestFetchStockReturnsBackendFailureBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success": false, "error": "Company not found. Please try a different name."}`)
	})

	resp, err := c.FetchStock(context.Background(), "Nope Corp")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Company not found. Please try a different name.", resp.Error)
}

func TestFetchStockTransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		target  error
	}{
		{
			name: "non-2xx",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = io.WriteString(w, `{"success": false, "error": "boom"}`)
			},
			target: apperrors.ErrUnexpectedStatus,
		},
		{
			name: "html body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, "<html>oops</html>")
			},
			target: apperrors.ErrMalformedResponse,
		},
		{
			name: "null body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, "null")
			},
			target: apperrors.ErrMalformedResponse,
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			target: apperrors.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, err := c.FetchStock(context.Background(), "Apple")
			require.Error(t, err)

			var te *apperrors.TransportError
			require.True(t, apperrors.As(err, &te))
			assert.True(t, apperrors.Is(err, tt.target))
		})
	}
}

func TestFetchStockNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Config{BaseURL: url}, zerolog.Nop())
	_, err := c.FetchStock(context.Background(), "Apple")

	var te *apperrors.TransportError
	require.True(t, apperrors.As(err, &te))
	assert.Equal(t, url+StockPath, te.Endpoint)
}

func TestFetchStockTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, zerolog.Nop())
	_, err := c.FetchStock(context.Background(), "Apple")

	var te *apperrors.TransportError
	assert.True(t, apperrors.As(err, &te))
}

func TestEndpointTrimsSlash(t *testing.T) {
	c := New(Config{BaseURL: "http://localhost:5000/"}, zerolog.Nop())
	assert.Equal(t, "http://localhost:5000/stock", c.Endpoint())
}
