package api

import (
	"github.com/gin-gonic/gin"

	"travai-server/internal/interfaces/httpserver/handlers"
)

// Routes holds the /api route configuration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes creates a new api routes instance.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register mounts the /api/livekit group. authMiddleware, when non-nil,
// guards every route in the group.
func (r *Routes) Register(engine *gin.Engine, authMiddleware gin.HandlerFunc) {
	group := engine.Group("/api/livekit")
	if authMiddleware != nil {
		group.Use(authMiddleware)
	}
	RegisterLiveKitRoutes(group, r.handlers)
}
