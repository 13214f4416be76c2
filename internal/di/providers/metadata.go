package providers

import (
	"net/http"

	"github.com/samber/do/v2"

	"github.com/researchqueue/researchqueue-server/internal/config"
	"github.com/researchqueue/researchqueue-server/internal/logger"
	"github.com/researchqueue/researchqueue-server/internal/metadata"
	"github.com/researchqueue/researchqueue-server/internal/metadata/urlinfo"
	"github.com/researchqueue/researchqueue-server/internal/ratelimit"
)

// ProvideResolver provides the tiered metadata resolver: the typed API
// client first, then a direct request to the fallback endpoint.
func ProvideResolver(i do.Injector) (*metadata.Resolver, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	hc := &http.Client{Timeout: cfg.Metadata.TierTimeout}

	base := urlinfo.Environment(cfg.Metadata.Environment)
	if cfg.Metadata.APIURL != "" {
		base = urlinfo.BaseURL(cfg.Metadata.APIURL)
	}
	client := urlinfo.New(base, log.Logger, urlinfo.WithHTTPClient(hc))

	resolver := metadata.NewResolver(metadata.Options{
		Timeout: cfg.Metadata.TierTimeout,
		Limiter: ratelimit.New(cfg.Metadata.RateLimit, cfg.Metadata.Burst),
		Logger:  log.Logger,
	},
		metadata.NewAPITier(client),
		metadata.NewDirectTier(cfg.Metadata.FallbackURL, hc, log.Logger),
	)

	log.Info("Metadata resolver initialized",
		"api", client.BaseURL(),
		"fallback", cfg.Metadata.FallbackURL,
		"tier_timeout", cfg.Metadata.TierTimeout,
	)

	return resolver, nil
}
