// Package metadata turns a raw URL into display metadata by trying a chain
// of remote tiers and falling back to an offline default.
package metadata

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/researchqueue/researchqueue-server/internal/domain"
	"github.com/researchqueue/researchqueue-server/internal/metadata/urlinfo"
	"github.com/researchqueue/researchqueue-server/internal/ratelimit"
)

// DefaultTierTimeout bounds a single tier attempt.
const DefaultTierTimeout = 10 * time.Second

var errEmptyResponse = errors.New("empty response")

// Resolver tries each tier in order and returns the first usable result.
// It holds no per-call state and is safe for concurrent use.
type Resolver struct {
	tiers   []Tier
	timeout time.Duration
	limiter *ratelimit.Keyed
	logger  *slog.Logger
}

// Options configures a Resolver.
type Options struct {
	Timeout time.Duration   // per-tier timeout; zero means DefaultTierTimeout
	Limiter *ratelimit.Keyed // optional outbound limiter keyed by tier name
	Logger  *slog.Logger
}

// NewResolver creates a resolver over tiers, tried in the given order.
func NewResolver(opts Options, tiers ...Tier) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTierTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		tiers:   tiers,
		timeout: opts.Timeout,
		limiter: opts.Limiter,
		logger:  opts.Logger,
	}
}

// Resolve never fails. When every tier fails the offline default for
// rawURL is returned.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) domain.Metadata {
	for _, tier := range r.tiers {
		resp, err := r.try(ctx, tier, rawURL)
		if err != nil {
			r.logger.Warn("metadata tier failed",
				"tier", tier.Name(),
				"url", rawURL,
				"error", err,
			)
			continue
		}
		r.logger.Debug("metadata resolved", "tier", tier.Name(), "url", rawURL)
		return Normalize(rawURL, resp)
	}
	return domain.OfflineMetadata(rawURL)
}

func (r *Resolver) try(ctx context.Context, tier Tier, rawURL string) (*urlinfo.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx, tier.Name()); err != nil {
			return nil, &TierError{Tier: tier.Name(), Err: err}
		}
	}

	resp, err := tier.Fetch(ctx, rawURL)
	if err != nil {
		return nil, &TierError{Tier: tier.Name(), Err: err}
	}
	if resp == nil {
		return nil, &TierError{Tier: tier.Name(), Err: errEmptyResponse}
	}
	if resp.Error != "" {
		return nil, &TierError{Tier: tier.Name(), Err: &urlinfo.ReportedError{Message: resp.Error}}
	}
	return resp, nil
}

// Normalize converts a successful service response into Metadata, filling
// in the title, favicon and type the service left out.
func Normalize(rawURL string, resp *urlinfo.Response) domain.Metadata {
	title := cleanTitle(resp.Title)
	if title == "" {
		title = domain.UntitledTitle
	}
	favicon := resp.Favicon
	if favicon == "" {
		favicon = domain.FaviconURL(rawURL)
	}
	return domain.Metadata{
		Title:       title,
		Description: cleanDescription(resp.Description),
		Favicon:     favicon,
		Image:       resp.FirstImage(),
		Type:        domain.ParseItemType(resp.Platform),
	}
}
