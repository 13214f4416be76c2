package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/researchqueue/researchqueue-server/internal/metadata/urlinfo"
)

// DefaultFallbackURL is the endpoint the direct tier posts to.
const DefaultFallbackURL = "https://staging-website-info-api-mxa2.encr.app/url-info"

// Tier is one source of URL metadata. Implementations must be safe for
// concurrent use.
type Tier interface {
	Name() string
	Fetch(ctx context.Context, rawURL string) (*urlinfo.Response, error)
}

// TierError records why a tier produced nothing. The resolver logs it and
// moves on; it never reaches callers of Resolve.
type TierError struct {
	Tier string
	Err  error
}

func (e *TierError) Error() string {
	return fmt.Sprintf("metadata tier %s: %v", e.Tier, e.Err)
}

func (e *TierError) Unwrap() error { return e.Err }

// APITier fetches metadata through the configured service client.
type APITier struct {
	client *urlinfo.Client
}

// NewAPITier wraps client as a resolver tier.
func NewAPITier(client *urlinfo.Client) *APITier {
	return &APITier{client: client}
}

// Name implements Tier.
func (t *APITier) Name() string { return "api" }

// Fetch implements Tier.
func (t *APITier) Fetch(ctx context.Context, rawURL string) (*urlinfo.Response, error) {
	return t.client.GetURLInfo(ctx, urlinfo.Request{URL: rawURL})
}

// DirectTier posts straight to a fixed endpoint without the service client's
// environment selection.
type DirectTier struct {
	http     *http.Client
	endpoint string
	logger   *slog.Logger
}

// NewDirectTier creates a direct tier for endpoint, or DefaultFallbackURL
// when endpoint is empty.
func NewDirectTier(endpoint string, hc *http.Client, logger *slog.Logger) *DirectTier {
	if endpoint == "" {
		endpoint = DefaultFallbackURL
	}
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DirectTier{http: hc, endpoint: endpoint, logger: logger}
}

// Name implements Tier.
func (t *DirectTier) Name() string { return "direct" }

// Fetch implements Tier.
func (t *DirectTier) Fetch(ctx context.Context, rawURL string) (*urlinfo.Response, error) {
	return urlinfo.Post(ctx, t.http, t.endpoint, urlinfo.Request{URL: rawURL}, t.logger)
}

// TierFunc adapts a function to the Tier interface.
type TierFunc struct {
	TierName string
	Fn       func(ctx context.Context, rawURL string) (*urlinfo.Response, error)
}

// Name implements Tier.
func (t TierFunc) Name() string { return t.TierName }

// Fetch implements Tier.
func (t TierFunc) Fetch(ctx context.Context, rawURL string) (*urlinfo.Response, error) {
	return t.Fn(ctx, rawURL)
}
