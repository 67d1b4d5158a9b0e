package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/haimng/Bestopia/internal/domain"
	"github.com/haimng/Bestopia/internal/service"
	"github.com/haimng/Bestopia/pkg/health"
	"github.com/haimng/Bestopia/pkg/middleware"
)

// publicCacheMaxAge is the Cache-Control max-age, in seconds, for public
// review pages and the sitemap.
const publicCacheMaxAge = 300

// RouterDeps holds everything the router needs wired in.
type RouterDeps struct {
	Reviews     *service.ReviewService
	Ingest      *service.IngestService
	Products    *service.ProductService
	Comparisons *service.ComparisonService
	Drafts      *service.DraftService
	Auth        *service.AuthService
	Support     *service.SupportService

	SiteBaseURL       string
	PprofAllowedCIDRs []string

	Health     *health.Handler
	Logger     *slog.Logger
	CORSConfig middleware.CORSConfig
}

// NewRouter creates a chi router with all Bestopia routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(deps.CORSConfig))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.Tracing("bestopia-server"))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.PrometheusMetrics("bestopia"))

	// Ops endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	middleware.RegisterPprof(r, deps.PprofAllowedCIDRs, deps.Logger)

	reviewHandler := NewReviewHandler(deps.Reviews, deps.Ingest, deps.Logger)
	productHandler := NewProductHandler(deps.Products, deps.Logger)
	comparisonHandler := NewComparisonHandler(deps.Comparisons, deps.Logger)
	draftHandler := NewDraftHandler(deps.Drafts, deps.Logger)
	authHandler := NewAuthHandler(deps.Auth, deps.Logger)
	supportHandler := NewSupportHandler(deps.Support, deps.Logger)
	sitemapHandler := NewSitemapHandler(deps.Reviews, deps.SiteBaseURL, deps.Logger)

	// Sitemap (outside /api; crawled directly by search engines)
	r.Group(func(r chi.Router) {
		r.Use(middleware.CacheControl(publicCacheMaxAge))
		r.Get("/sitemap.xml", sitemapHandler.Sitemap)
	})

	// Public read endpoints
	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Use(middleware.CacheControl(publicCacheMaxAge))

		r.Get("/", reviewHandler.List)
		r.Get("/random", reviewHandler.Random)
		r.Get("/search", reviewHandler.Search)
		r.Get("/tag/{tag}", reviewHandler.ListByTag)
		r.Get("/{slug}", reviewHandler.GetBySlug)
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(middleware.CacheControl(publicCacheMaxAge))

		r.Get("/", productHandler.List)
		r.Get("/{id}", productHandler.Get)
	})

	// Public contact form
	r.Route("/api/v1/support", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/", supportHandler.Create)
	})

	// Auth endpoints (public)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/signup", authHandler.SignUp)
		r.Post("/signin", authHandler.SignIn)
	})

	// Token validator that re-checks the account (and its role) in the
	// database on every request, so revoked accounts lose access before
	// their tokens expire.
	tokenValidator := func(ctx context.Context, token string) (*middleware.Claims, error) {
		user, err := deps.Auth.Authenticate(ctx, token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: strconv.FormatInt(user.ID, 10),
			Email:  user.Email,
			Role:   user.Role,
		}, nil
	}

	// Admin endpoints
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))
		r.Use(middleware.RequireRole(domain.RoleAdmin))

		r.Post("/reviews", reviewHandler.Create)
		r.Put("/reviews/{id}", reviewHandler.Update)
		r.Delete("/reviews/{id}", reviewHandler.Delete)

		r.Put("/products/{id}", productHandler.Update)
		r.Post("/products/{id}/enrich", productHandler.Enrich)

		r.Post("/comparisons", comparisonHandler.Save)
		r.Post("/drafts", draftHandler.Draft)
	})

	return r
}
