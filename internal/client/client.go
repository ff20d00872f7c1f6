// Package client talks to the stock backend's POST /stock endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "stock-insights/internal/errors"
	"stock-insights/internal/logging"
	"stock-insights/internal/models"
)

// StockPath is the backend route serving stock lookups.
const StockPath = "/stock"

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// Config holds client settings.
type Config struct {
	BaseURL   string
	Timeout   time.Duration // zero leaves the transport default in place
	UserAgent string
}

// Client is an HTTP client for the stock backend.
type Client struct {
	endpoint  string
	userAgent string
	http      *http.Client
	logger    zerolog.Logger
}

// New creates a new Client.
func New(cfg Config, logger zerolog.Logger) *Client {
	return &Client{
		endpoint:  strings.TrimRight(cfg.BaseURL, "/") + StockPath,
		userAgent: cfg.UserAgent,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Endpoint returns the full URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// FetchStock posts the company name and decodes the backend's answer.
// Any well-formed body is returned as is, including success == false;
// network failures, non-2xx statuses and undecodable bodies come back
// as *errors.TransportError.
func (c *Client) FetchStock(ctx context.Context, companyName string) (*models.StockResponse, error) {
	logger := logging.FromContext(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = c.logger
	}

	body, err := json.Marshal(models.SearchRequest{CompanyName: companyName})
	if err != nil {
		return nil, apperrors.NewTransportError(http.MethodPost, c.endpoint, fmt.Errorf("marshaling request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewTransportError(http.MethodPost, c.endpoint, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if id := logging.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logging.LogAPICall(logger, http.MethodPost, c.endpoint, 0, time.Since(start), err)
		return nil, apperrors.NewTransportError(http.MethodPost, c.endpoint, fmt.Errorf("sending request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("%w: %d", apperrors.ErrUnexpectedStatus, resp.StatusCode)
		logging.LogAPICall(logger, http.MethodPost, c.endpoint, resp.StatusCode, time.Since(start), err)
		return nil, apperrors.NewTransportError(http.MethodPost, c.endpoint, err)
	}

	var out *models.StockResponse
	err = json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&out)
	if err == nil && out == nil {
		err = errors.New("null body")
	}
	if err != nil {
		err = fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
		logging.LogAPICall(logger, http.MethodPost, c.endpoint, resp.StatusCode, time.Since(start), err)
		return nil, apperrors.NewTransportError(http.MethodPost, c.endpoint, err)
	}

	logging.LogAPICall(logger, http.MethodPost, c.endpoint, resp.StatusCode, time.Since(start), nil)
	return out, nil
}
