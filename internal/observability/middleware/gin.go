// Package middleware carries the gin middleware shared by every route:
// structured request logging and panic recovery.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type GinConfig struct {
	// SkipPaths lists paths excluded from request logging, typically health
	// probes that would otherwise flood the log.
	SkipPaths []string
}

// Gin returns the request logging middleware.
func Gin(cfg GinConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		ctx := c.Request.Context()
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			slog.ErrorContext(ctx, "request failed", attrs...)
		case c.Writer.Status() >= http.StatusBadRequest:
			slog.WarnContext(ctx, "request rejected", attrs...)
		default:
			slog.InfoContext(ctx, "request completed", attrs...)
		}
	}
}

// PanicRecoveryGin converts handler panics into 500 responses instead of
// taking the process down.
func PanicRecoveryGin() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(c.Request.Context(), "handler panicked",
					slog.String("path", c.Request.URL.Path),
					slog.Any("panic", r),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal_error",
				})
			}
		}()
		c.Next()
	}
}
