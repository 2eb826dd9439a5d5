// Package zoom is the typed client surface against the Zoom v2 API: token
// issuance plus the two webinar operations the registration workflow needs.
package zoom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sra-webinar/backend/internal/apierr"
)

const (
	// DefaultRequestsPerSecond fits within the Zoom light rate limits.
	DefaultRequestsPerSecond = 30
	// DefaultTimeout bounds a single upstream call.
	DefaultTimeout = 10 * time.Second
)

// ClientConfig holds upstream client settings.
type ClientConfig struct {
	BaseURL           string
	RequestsPerSecond int
	Timeout           time.Duration
	// LogCalls enables request/response logging; off in production.
	LogCalls bool
}

// Client calls the Zoom API. All requests from the process funnel through
// one shared limiter; callers over the cap wait in line, none are dropped.
// The bearer token is a per-call parameter, never stored on the client.
type Client struct {
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	logger   *zap.Logger
	logCalls bool
}

// NewClient creates a Zoom API client.
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		// burst of 1: at most rps departures fit in any 1-second window
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		logger:   logger,
		logCalls: cfg.LogCalls,
	}
}

// GetWebinar fetches webinar metadata.
func (c *Client) GetWebinar(ctx context.Context, id, token string) (*Webinar, error) {
	var w Webinar
	if err := c.do(ctx, http.MethodGet, "/webinars/"+id, token, nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// AddRegistrant creates a registrant for the webinar.
func (c *Client) AddRegistrant(ctx context.Context, id string, reg RegistrantRequest, token string) (*RegistrationResponse, error) {
	var resp RegistrationResponse
	if err := c.do(ctx, http.MethodPost, "/webinars/"+id+"/registrants", token, reg, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do performs one rate-limited request. Any non-2xx response or transport
// failure becomes an *apierr.UpstreamError; no retries happen here.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &apierr.UpstreamError{Status: http.StatusBadGateway, Cause: err}
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return &apierr.InternalError{Cause: fmt.Errorf("marshal request: %w", err)}
		}
		body = bytes.NewReader(raw)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return &apierr.InternalError{Cause: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logCall(method, url, 0)
	resp, err := c.http.Do(req)
	if err != nil {
		return &apierr.UpstreamError{Status: http.StatusBadGateway, Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apierr.UpstreamError{Status: http.StatusBadGateway, Cause: err}
	}
	c.logCall(method, url, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apierr.UpstreamError{Status: resp.StatusCode, Body: raw}
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &apierr.UpstreamError{Status: resp.StatusCode, Cause: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

func (c *Client) logCall(method, url string, status int) {
	if !c.logCalls {
		return
	}
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("url", url),
	}
	if status != 0 {
		fields = append(fields, zap.Int("status", status))
	}
	c.logger.Debug("zoom api call", fields...)
}
