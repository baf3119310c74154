package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	apierrors "github.com/Apurer/breakfast-erp/internal/shared/errors"
)

// Module mounts a bounded context's routes.
type Module interface {
	Register(r gin.IRouter)
}

// NewRouter builds the gin engine with tracing, access logs, a health probe,
// and every module mounted under /api/v1.
func NewRouter(serviceName string, logger *slog.Logger, modules ...Module) *gin.Engine {
	apierrors.UseJSONFieldNames()
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName), accessLog(logger))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	v1 := router.Group("/api/v1")
	for _, m := range modules {
		m.Register(v1)
	}
	return router
}

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if logger == nil || c.FullPath() == "/healthz" {
			return
		}
		logger.LogAttrs(c.Request.Context(), slog.LevelInfo, "http request",
			slog.String("http.method", c.Request.Method),
			slog.String("http.route", c.FullPath()),
			slog.Int("http.status", c.Writer.Status()),
			slog.Duration("http.duration", time.Since(start)),
		)
	}
}
