package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/leviwiederhold/forman/api/controllers"
	"github.com/leviwiederhold/forman/api/middleware"
	"github.com/leviwiederhold/forman/internal/customitems"
	"github.com/leviwiederhold/forman/internal/profiles"
	"github.com/leviwiederhold/forman/internal/quotes"
	"github.com/leviwiederhold/forman/internal/ratecards"
	"github.com/leviwiederhold/forman/internal/reports"
	"github.com/leviwiederhold/forman/pkg/config"
	"github.com/leviwiederhold/forman/pkg/logger"
	pkgredis "github.com/leviwiederhold/forman/pkg/redis"
)

// RedisStore is the slice of the redis client the HTTP layer relies on.
type RedisStore interface {
	pkgredis.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	Ping(ctx context.Context) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	tokens middleware.TokenVerifier,
	dbP controllers.Pinger,
	redisStore RedisStore,
	metricsHandler http.Handler,
	rateCardService ratecards.Service,
	customItemService customitems.Service,
	quoteService quotes.Service,
	profileService profiles.Service,
	reportsService reports.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	readiness := map[string]controllers.Pinger{"postgres": dbP}
	var idempotencyStore pkgredis.IdempotencyStore
	if redisStore != nil {
		readiness["redis"] = redisStore
		idempotencyStore = redisStore
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	sharePolicy := middleware.NewRateLimitPolicy(
		"public_share",
		cfg.RateLimit.PublicShareWindow,
		cfg.RateLimit.PublicShareIPLimit,
	).WithTrustedProxyHops(cfg.RateLimit.TrustedProxyHops)

	r.Route("/api/public/quotes/share/{token}", func(r chi.Router) {
		if redisStore != nil {
			r.Use(middleware.RateLimit(sharePolicy, redisStore, logg))
		}
		r.Use(middleware.Idempotency(idempotencyStore, logg))
		r.Get("/", controllers.SharedQuoteGet(quoteService, logg))
		r.Post("/respond", controllers.SharedQuoteRespond(quoteService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(tokens, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/rate-cards/roofing", func(r chi.Router) {
			r.Get("/", controllers.RateCardGet(rateCardService, logg))
			r.Put("/", controllers.RateCardUpsert(rateCardService, logg))
		})

		r.Route("/custom-items", func(r chi.Router) {
			r.Get("/", controllers.CustomItemList(customItemService, logg))
			r.Post("/", controllers.CustomItemCreate(customItemService, logg))
			r.Patch("/{itemId}", controllers.CustomItemUpdate(customItemService, logg))
			r.Delete("/{itemId}", controllers.CustomItemDelete(customItemService, logg))
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", controllers.QuoteList(quoteService, logg))
			r.Post("/", controllers.QuoteCreate(quoteService, logg))
			r.Post("/preview", controllers.QuotePreview(quoteService, logg))
			r.Get("/guidance", controllers.QuoteGuidance(quoteService, logg))
			r.Route("/{quoteId}", func(r chi.Router) {
				r.Get("/", controllers.QuoteGet(quoteService, logg))
				r.Patch("/", controllers.QuoteUpdate(quoteService, logg))
				r.Delete("/", controllers.QuoteDelete(quoteService, logg))
				r.Post("/duplicate", controllers.QuoteDuplicate(quoteService, logg))
				r.Patch("/status", controllers.QuoteUpdateStatus(quoteService, logg))
				r.Post("/acknowledge-low-margin", controllers.QuoteAcknowledgeLowMargin(quoteService, logg))
				r.Post("/share", controllers.QuoteShare(quoteService, logg))
			})
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/deposit-percent", controllers.DepositPercentGet(profileService, logg))
			r.Put("/deposit-percent", controllers.DepositPercentUpdate(profileService, logg))
			r.Get("/quote-defaults", controllers.QuoteDefaultsGet(profileService, logg))
			r.Put("/quote-defaults", controllers.QuoteDefaultsUpdate(profileService, logg))
		})
		r.Get("/entitlements", controllers.EntitlementsGet(profileService, logg))

		r.Route("/reports", func(r chi.Router) {
			r.Get("/dashboard", controllers.ReportsDashboard(reportsService, logg))
			r.Get("/summary", controllers.ReportsSummary(reportsService, logg))
		})
	})

	return r
}
