package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/qualityhub/ai-service/internal/config"
)

// NewRouter builds the gin engine with all middleware and routes.
//
// Endpoints are mounted at two path hierarchies: the root-level
// /generate/* and /health routes consumed by the API gateway, and the full
// versioned prefix (<prefix>/ai/...) for direct access.
func NewRouter(settings *config.Settings, logger *slog.Logger) *gin.Engine {
	if settings.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware(logger))
	router.Use(CORSMiddleware(settings))

	h := NewAIHandler(settings, WithLogger(logger))

	router.GET("/", h.HandleRoot)
	router.GET("/health", h.HandleHealth)

	auth := APIKeyAuthMiddleware(settings)

	// Root-level generation routes for the API gateway.
	generate := router.Group("/generate", auth)
	{
		generate.POST("/tests", h.HandleGenerateTests)
		generate.POST("/bdd", h.HandleGenerateBDD)
	}

	// Versioned routes for direct access. Health stays open so probes
	// and load balancers need no credentials.
	ai := router.Group(settings.API.Prefix + "/ai")
	{
		ai.GET("/health", h.HandleHealth)
		ai.POST("/generate-tests", auth, h.HandleGenerateTests)
		ai.POST("/generate-bdd", auth, h.HandleGenerateBDD)
		ai.POST("/suggest-coverage", auth, h.HandleSuggestCoverage)
		ai.POST("/generate/tests", auth, h.HandleGenerateTests)
		ai.POST("/generate/bdd", auth, h.HandleGenerateBDD)
	}

	return router
}
