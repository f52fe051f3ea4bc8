package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	linkinghandler "social-link-service/internal/linking/handler"
	"social-link-service/internal/session"
)

// NewRouter assembles the gin engine: recovery, session resolution, health
// probe, and the linking routes.
func NewRouter(guard *session.Guard, linking *linkinghandler.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(guard.Middleware())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	linking.RegisterRoutes(r)
	return r
}

// NewHTTPServer wraps the router with OpenTelemetry HTTP instrumentation.
func NewHTTPServer(addr string, router http.Handler, serviceName string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(router, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
