package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/shared/metrics"
	"docvault-backend/internal/shared/server/middleware"
	"docvault-backend/internal/shared/server/respond"
	"docvault-backend/internal/uploads"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	UploadHandler *uploads.Handler
}

// NewRouter constructs the gin engine with middleware and routes registered.
// Method mismatches fall through to the not-found envelope: the API answers
// 404, never 405.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(),
	)

	r.NoRoute(notFound)

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, gin.H{"ok": true})
	})
	deps.UploadHandler.RegisterRoutes(api)

	r.GET("/metrics", metrics.Handler())

	return r
}

func notFound(c *gin.Context) {
	respond.Error(c, http.StatusNotFound, "Not found: "+c.Request.Method+" "+c.Request.URL.Path)
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
