package handler

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/qualityhub/ai-service/internal/config"
)

// requestIDKey is the gin context key carrying the request ID.
const requestIDKey = "request_id"

// RequestIDMiddleware assigns a request ID to every request, reusing the
// caller's X-Request-ID when present so gateway traces line up.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// processTimeWriter stamps the X-Process-Time header right before the
// response is written. The header cannot be set after the handler runs:
// by then the status line and header block are already on the wire.
type processTimeWriter struct {
	gin.ResponseWriter
	start time.Time
}

func (w *processTimeWriter) stamp() {
	if w.Written() {
		return
	}
	latency := time.Since(w.start)
	w.Header().Set("X-Process-Time", fmt.Sprintf("%.1fms", float64(latency.Microseconds())/1000))
}

func (w *processTimeWriter) WriteHeader(code int) {
	w.stamp()
	w.ResponseWriter.WriteHeader(code)
}

func (w *processTimeWriter) WriteHeaderNow() {
	w.stamp()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *processTimeWriter) Write(b []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(b)
}

func (w *processTimeWriter) WriteString(s string) (int, error) {
	w.stamp()
	return w.ResponseWriter.WriteString(s)
}

// LoggingMiddleware returns a middleware that logs request details in JSON
// format and reports the processing time in an X-Process-Time header.
func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Writer = &processTimeWriter{ResponseWriter: c.Writer, start: start}

		c.Next()

		latency := time.Since(start)
		requestID, _ := c.Get(requestIDKey)
		id, _ := requestID.(string)

		logger.Info("request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", latency),
			slog.String("client_ip", c.ClientIP()),
			slog.String("request_id", id),
		)
	}
}

// RecoveryMiddleware returns a middleware that recovers from panics.
// It logs the error and returns a 500 response without a stack trace.
func RecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					slog.Any("error", err),
					slog.String("path", c.Request.URL.Path),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, errorDetail{
					Detail: "Internal server error",
				})
			}
		}()

		c.Next()
	}
}

// APIKeyAuthMiddleware gates requests on the X-API-Key header using a
// constant-time comparison. With no keys configured, requests pass in
// development and are rejected in production so a misconfigured deployment
// fails closed.
func APIKeyAuthMiddleware(settings *config.Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(settings.API.Keys) == 0 {
			if settings.IsProduction() {
				c.AbortWithStatusJSON(http.StatusInternalServerError, errorDetail{
					Detail: "Service API keys are not configured",
				})
				return
			}
			c.Next()
			return
		}

		provided := c.GetHeader("X-API-Key")
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorDetail{
				Detail: "Missing API key",
			})
			return
		}

		for _, key := range settings.API.Keys {
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) == 1 {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, errorDetail{
			Detail: "Invalid API key",
		})
	}
}

// CORSMiddleware returns a middleware allowing the configured origins.
func CORSMiddleware(settings *config.Settings) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = settings.API.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key", "X-Request-ID"}
	return cors.New(corsConfig)
}
