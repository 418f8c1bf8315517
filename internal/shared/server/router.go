package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"legalbrief-backend/internal/documents"
	"legalbrief-backend/internal/shared/config"
	"legalbrief-backend/internal/shared/server/middleware"
	"legalbrief-backend/internal/shared/server/respond"
	"legalbrief-backend/internal/shared/session"
)

// RouterDeps carries the handlers and shared state the router wires up.
type RouterDeps struct {
	Config          config.Config
	Sessions        *session.Manager
	DocumentHandler *documents.Handler
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
		middleware.Session(deps.Sessions, deps.Config.Env),
	)

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	deps.DocumentHandler.RegisterRoutes(api)

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
