package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "docsummary-backend/internal/auth"
	"docsummary-backend/internal/documents"
	"docsummary-backend/internal/shared/config"
	"docsummary-backend/internal/shared/metrics"
	"docsummary-backend/internal/shared/server/middleware"
	"docsummary-backend/internal/shared/server/respond"
	"docsummary-backend/internal/summaries"
	"docsummary-backend/internal/web"
)

// RouterDeps carries the handlers wired by bootstrap.
type RouterDeps struct {
	Config          config.Config
	WebHandler      *web.Handler
	SummaryHandler  *summaries.Handler
	DocumentHandler *documents.Handler
	GoogleAuth      *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
	)

	deps.WebHandler.RegisterRoutes(r)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	deps.GoogleAuth.RegisterRoutes(api)
	deps.DocumentHandler.RegisterRoutes(api)

	limiter := middleware.NewRateLimiter(nil)
	uploads := api.Group("")
	uploads.Use(middleware.RateLimit(middleware.RateLimitRule{Rate: 1, Burst: 5}, limiter))
	deps.SummaryHandler.RegisterRoutes(uploads)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
