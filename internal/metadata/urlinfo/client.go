package urlinfo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second

	// MaxResponseBytes caps the size of a decoded response body.
	MaxResponseBytes = 1 << 20

	// Path is the service's URL description endpoint.
	Path = "/url-info"

	userAgent = "ResearchQueue/1.0"
)

// BaseURL is the root of a metadata service deployment.
type BaseURL string

// Local is the base URL of a service running on the developer machine.
const Local BaseURL = "http://localhost:4000"

// Environment returns the base URL of a named cloud deployment, e.g.
// Environment("staging") is https://staging-website-info-api-mxa2.encr.app.
func Environment(name string) BaseURL {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "local" {
		return Local
	}
	return BaseURL(fmt.Sprintf("https://%s-website-info-api-mxa2.encr.app", name))
}

// Client calls the metadata service's website API.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the deployment at base.
func New(base BaseURL, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		baseURL: strings.TrimRight(string(base), "/"),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the deployment root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetURLInfo asks the service to describe req.URL. A response that carries
// an error field is returned together with a *ReportedError.
func (c *Client) GetURLInfo(ctx context.Context, req Request) (*Response, error) {
	return Post(ctx, c.http, c.baseURL+Path, req, c.logger)
}

// Post sends req as JSON to endpoint and decodes the service response.
// Transport failures, non-2xx statuses, oversize bodies, undecodable bodies
// and responses with an error field are all reported as errors.
func Post(ctx context.Context, hc *http.Client, endpoint string, req Request, logger *slog.Logger) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)

	logger.Debug("urlinfo request", "endpoint", endpoint, "url", req.URL)

	resp, err := hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(data) > MaxResponseBytes {
		return nil, ErrTooLarge
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		switch {
		case resp.StatusCode == http.StatusBadRequest:
			return nil, ErrBadRequest
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, ErrRateLimited
		case resp.StatusCode >= 500:
			return nil, fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
		default:
			return nil, &StatusError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
		}
	}

	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.Error != "" {
		return &out, &ReportedError{Message: out.Error}
	}
	return &out, nil
}
