// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/velora/internal/auth"
	"github.com/tomtom215/velora/internal/config"
	"github.com/tomtom215/velora/internal/middleware"
)

// Router owns the route table and the middleware shared across it.
type Router struct {
	handler        *Handler
	middleware     *auth.Middleware
	chiMiddleware  *ChiMiddleware
	trustedProxies []string
}

// NewRouter creates a Router. cfg supplies CORS, rate limit and proxy settings.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware, cfg *config.Config) *Router {
	var sec *config.SecurityConfig
	if cfg != nil {
		sec = &cfg.Security
	}
	router := &Router{
		handler:       handler,
		middleware:    authMiddleware,
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFromSecurity(sec)),
	}
	if sec != nil {
		router.trustedProxies = sec.TrustedProxies
	}
	return router
}

// SetupChi builds the HTTP handler for every route.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	// Applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(middleware.TrustedRealIP(router.trustedProxies))
	r.Use(middleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(APISecurityHeaders())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	// System
	r.Get("/", h.Root)
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		r.Route("/auth", router.authRoutes)
		r.Route("/users", router.userRoutes)
		r.Route("/health", router.healthRoutes)
		r.Route("/diagnosa", router.diagnosaRoutes)
		r.Route("/gallery", router.galleryRoutes)
		r.Route("/timeline", router.timelineRoutes)
		r.Route("/journal", router.journalRoutes)
	})

	return r
}

// protected returns a sub-router that requires a valid bearer token.
func (router *Router) protected(r chi.Router) chi.Router {
	return r.With(router.middleware.Authenticate)
}

func (router *Router) authRoutes(r chi.Router) {
	h := router.handler

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAuth())
		r.Post("/register", h.Register)
		r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", h.Login)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/verify-otp", h.VerifyOTP)
		r.Post("/reset-password", h.ResetPassword)
	})

	private := router.protected(r)
	private.Post("/logout", withAccount(h.Logout))
	private.Get("/me", withAccount(h.Me))
}

func (router *Router) userRoutes(r chi.Router) {
	h := router.handler
	r.Use(router.middleware.Authenticate)

	r.Get("/profile", withAccount(h.Profile))
	r.Put("/profile", withAccount(h.UpdateProfile))
	r.Put("/change-password", withAccount(h.ChangePassword))
	r.Put("/change-email", withAccount(h.ChangeEmail))
	r.With(router.chiMiddleware.RateLimitUpload()).Post("/upload-avatar", withAccount(h.UploadAvatar))
	r.Delete("/account", withAccount(h.DeleteAccount))
}

func (router *Router) healthRoutes(r chi.Router) {
	h := router.handler

	r.Get("/parameters", h.HealthParameters)

	private := router.protected(r)
	private.Post("/predict", withAccount(h.Predict))
	private.Get("/history", withAccount(h.PredictionHistory))
	private.Get("/statistics", withAccount(h.HealthStatistics))
}

func (router *Router) diagnosaRoutes(r chi.Router) {
	h := router.handler
	r.Use(router.middleware.Authenticate)

	r.Post("/predict", withAccount(h.SaveDiagnosis))
	r.Get("/history", withAccount(h.DiagnosisHistory))
	r.Get("/history/{id}", withAccount(h.GetDiagnosis))
	r.Delete("/history/{id}", withAccount(h.DeleteDiagnosis))
	r.Get("/stats", withAccount(h.DiagnosisStats))
}

func (router *Router) galleryRoutes(r chi.Router) {
	h := router.handler
	r.Use(router.middleware.Authenticate)

	r.Get("/photos", withAccount(h.ListPhotos))
	r.Get("/photos/{id}", withAccount(h.GetPhoto))
	r.Put("/photos/{id}", withAccount(h.UpdatePhoto))
	r.Delete("/photos/{id}", withAccount(h.DeletePhoto))
	r.Get("/stats", withAccount(h.PhotoStats))
	r.Get("/timeline", withAccount(h.PhotoTimeline))

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitUpload())
		r.Post("/upload", withAccount(h.UploadPhoto))
		r.Post("/upload-multiple", withAccount(h.UploadPhotos))
	})
}

func (router *Router) timelineRoutes(r chi.Router) {
	h := router.handler

	r.Get("/health-services", h.HealthServices)
	r.Get("/symptoms", h.Symptoms)

	private := router.protected(r)
	private.Get("/profile", withAccount(h.GetPregnancyProfile))
	private.Post("/profile", withAccount(h.SavePregnancyProfile))
	private.Get("/entries", withAccount(h.ListTimelineEntries))
	private.Post("/entries", withAccount(h.SaveTimelineEntry))
	private.Get("/entries/{week}", withAccount(h.GetTimelineEntry))
	private.Delete("/entries/{week}", withAccount(h.DeleteTimelineEntry))
	private.Get("/summary", withAccount(h.TimelineSummary))
}

func (router *Router) journalRoutes(r chi.Router) {
	h := router.handler

	r.Get("/articles", h.ListArticles)
	r.Get("/articles/{id}", h.GetArticle)
	r.Get("/categories", h.ArticleCategories)

	private := router.protected(r)
	private.Post("/articles", withAccount(h.CreateArticle))
	private.Put("/articles/{id}", withAccount(h.UpdateArticle))
	private.Delete("/articles/{id}", withAccount(h.DeleteArticle))
	private.Post("/articles/{id}/bookmark", withAccount(h.ToggleBookmark))
	private.Get("/bookmarks", withAccount(h.Bookmarks))
}
