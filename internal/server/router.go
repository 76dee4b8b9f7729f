package server

import (
	"bytes"
	"io"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	llmchat "github.com/FACorreiaa/go-travelchat/internal/app/domain/chat_prompt"
	"github.com/FACorreiaa/go-travelchat/internal/app/middleware"
	"github.com/FACorreiaa/go-travelchat/internal/pkg/cache"
)

const (
	serviceName     = "go-travelchat"
	maxLoggedBodyKB = 1
)

// SetupRouter configures and returns the Gin router with all middleware and routes
func SetupRouter(controller *llmchat.Controller, caches *cache.CacheManager, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(middleware.RequestIDMiddleware())
	r.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		Context:    zapContextFunc(),
		SkipPaths:  []string{"/healthz"},
	}))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(middleware.OTELGinMiddleware(serviceName))
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		health := gin.H{"status": "ok"}
		if caches != nil {
			health["caches"] = caches.GetAllMetrics()
		}
		c.JSON(http.StatusOK, health)
	})

	llmchat.NewChatHandlers(controller, logger).RegisterRoutes(r)

	return r
}

// zapContextFunc adds request and trace identifiers to each access log line.
func zapContextFunc() ginzap.Fn {
	return func(c *gin.Context) []zapcore.Field {
		fields := []zapcore.Field{}

		if requestID := c.Writer.Header().Get(middleware.RequestIDHeader); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			fields = append(fields,
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("span_id", span.SpanContext().SpanID().String()),
			)
		}

		// The body has been consumed by the handler by now; only what is left
		// (usually nothing) is logged, capped to keep lines short.
		if c.Request.Body != nil {
			var buf bytes.Buffer
			body, _ := io.ReadAll(io.TeeReader(io.LimitReader(c.Request.Body, maxLoggedBodyKB<<10), &buf))
			c.Request.Body = io.NopCloser(&buf)
			if len(body) > 0 {
				fields = append(fields, zap.ByteString("body", body))
			}
		}

		return fields
	}
}
