package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qualityhub/ai-service/internal/config"
	"github.com/qualityhub/ai-service/internal/service"
)

// AIHandler serves the generation endpoints. Generators are constructed per
// request from the resolved provider state, so a key added or removed via
// configuration takes effect on restart without any handler state.
type AIHandler struct {
	settings *config.Settings
	logger   *slog.Logger
}

// AIHandlerOption is a functional option for configuring AIHandler.
type AIHandlerOption func(*AIHandler)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) AIHandlerOption {
	return func(h *AIHandler) {
		h.logger = logger
	}
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(settings *config.Settings, opts ...AIHandlerOption) *AIHandler {
	h := &AIHandler{
		settings: settings,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// HandleGenerateTests handles POST /generate/tests and its prefixed
// variants. It generates structured test cases from a requirement
// description.
func (h *AIHandler) HandleGenerateTests(c *gin.Context) {
	var req TestGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorDetail{Detail: err.Error()})
		return
	}

	apiKey, provider, useAI := ResolveProvider(h.settings)
	generator := service.NewTestGenerator(h.settings, apiKey, provider, useAI)

	result, err := generator.GenerateTests(c.Request.Context(), req.params())
	if err != nil {
		h.logger.Error("test generation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, errorDetail{
			Detail: "Failed to generate tests: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleGenerateBDD handles POST /generate/bdd and its prefixed variants.
// It generates Gherkin scenarios from a feature description.
func (h *AIHandler) HandleGenerateBDD(c *gin.Context) {
	var req BDDGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorDetail{Detail: err.Error()})
		return
	}

	apiKey, provider, useAI := ResolveProvider(h.settings)
	generator := service.NewBDDGenerator(h.settings, apiKey, provider, useAI)

	result, err := generator.GenerateScenarios(c.Request.Context(), req.params())
	if err != nil {
		h.logger.Error("BDD generation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, errorDetail{
			Detail: "Failed to generate BDD scenarios: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleSuggestCoverage handles POST /api/v1/ai/suggest-coverage.
func (h *AIHandler) HandleSuggestCoverage(c *gin.Context) {
	var req CoverageSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorDetail{Detail: err.Error()})
		return
	}

	c.JSON(http.StatusOK, service.SuggestCoverage(req.ExistingTests))
}

// HandleHealth handles GET /health. The endpoint stays at the root as well
// as the prefixed path so container probes need no prefix knowledge.
func (h *AIHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:      "healthy",
		Version:     h.settings.App.Version,
		Environment: h.settings.App.Environment,
	})
}

// HandleRoot handles GET / with basic service information.
func (h *AIHandler) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": h.settings.App.Name,
		"version": h.settings.App.Version,
	})
}
