package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/civictrack/civictrack-backend/api/controllers"
	"github.com/civictrack/civictrack-backend/api/middleware"
	"github.com/civictrack/civictrack-backend/internal/analytics"
	"github.com/civictrack/civictrack-backend/internal/auth"
	"github.com/civictrack/civictrack-backend/internal/complaints"
	"github.com/civictrack/civictrack-backend/internal/geocoding"
	"github.com/civictrack/civictrack-backend/internal/users"
	"github.com/civictrack/civictrack-backend/pkg/config"
	"github.com/civictrack/civictrack-backend/pkg/db"
	"github.com/civictrack/civictrack-backend/pkg/logger"
	"github.com/civictrack/civictrack-backend/pkg/metrics"
	"github.com/civictrack/civictrack-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	authService auth.Service,
	usersService users.Service,
	complaintsService complaints.Service,
	analyticsService analytics.Service,
	geocodingService geocoding.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public complaint reads carry optional claims so the detail
		// view can add the reporter's email for admins.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))
			r.Get("/complaints/public", controllers.ComplaintPublicList(complaintsService, logg))
			r.Get("/complaints/{complaintId}", controllers.ComplaintDetail(complaintsService, logg))
			r.Post("/complaints/{complaintId}/upvote", controllers.ComplaintUpvote(complaintsService, logg))
		})

		r.Get("/geocode/reverse", controllers.GeocodeReverse(geocodingService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Post("/complaints", controllers.ComplaintCreate(complaintsService, logg))
			r.Get("/complaints/mine/{userId}", controllers.ComplaintMine(complaintsService, logg))
			r.Get("/users/{userId}", controllers.UserProfile(usersService, logg))
			r.Put("/users/{userId}", controllers.UserUpdate(usersService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(logg))
				r.Get("/complaints/all", controllers.ComplaintListAll(complaintsService, logg))
				r.Put("/complaints/{complaintId}", controllers.ComplaintUpdateStatus(complaintsService, logg))
				r.Get("/analytics", controllers.AnalyticsSummary(analyticsService, logg))
			})
		})
	})

	return r
}
