package api

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

	"github.com/jefrnc/optionsdash/internal/models"
)

const (
	analyticsPath  = "/api/analytics"
	maxBodyBytes   = 32 << 20
	defaultTimeout = 30 * time.Second
)

// Client is the analytics backend client.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a new analytics client. An empty baseURL keeps request
// paths relative to the serving origin. A zero timeout uses the default.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchAnalytics retrieves the full analytics snapshot for the session.
// The request is made once; failures are not retried.
func (c *Client) FetchAnalytics(ctx context.Context) (*models.AnalyticsSnapshot, error) {
	var snap models.AnalyticsSnapshot
	if err := c.doGet(ctx, analyticsPath, &snap); err != nil {
		return nil, err
	}
	if snap.Trades == nil {
		snap.Trades = []models.TradeRecord{}
	}
	return &snap, nil
}

// doGet performs a GET request and decodes a JSON object into result.
func (c *Client) doGet(ctx context.Context, path string, result interface{}) error {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &FetchError{Kind: NetworkFailure, Err: fmt.Errorf("creating request: %w", err)}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Kind: NetworkFailure, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &FetchError{Kind: NetworkFailure, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &FetchError{
			Kind:   ProtocolFailure,
			Status: resp.StatusCode,
			Err:    errors.New(statusDetail(body)),
		}
	}

	// The snapshot is all-or-nothing: anything but a JSON object is rejected.
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return &FetchError{Kind: MalformedPayload, Err: errors.New("response is not a JSON object")}
	}
	if err := json.Unmarshal(trimmed, result); err != nil {
		return &FetchError{Kind: MalformedPayload, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return nil
}

// statusDetail extracts a short message from an error body.
func statusDetail(body []byte) string {
	var er struct {
		Detail  string `json:"detail"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &er); err == nil {
		for _, s := range []string{er.Detail, er.Error, er.Message} {
			if strings.TrimSpace(s) != "" {
				return s
			}
		}
	}

	s := strings.TrimSpace(string(body))
	if s == "" {
		return "failed to fetch analytics"
	}
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
