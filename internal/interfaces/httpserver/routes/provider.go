package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	"travai-server/internal/infrastructure/auth"
	"travai-server/internal/interfaces/httpserver/handlers"
	"travai-server/internal/interfaces/httpserver/routes/api"
)

// Provider holds all route providers.
type Provider struct {
	API           *api.Routes
	authValidator *auth.Validator
}

// NewProvider creates a new route provider.
func NewProvider(handlerProvider *handlers.Provider, authValidator *auth.Validator) *Provider {
	return &Provider{
		API:           api.NewRoutes(handlerProvider),
		authValidator: authValidator,
	}
}

// Register registers all routes on the engine.
func (p *Provider) Register(engine *gin.Engine) {
	var authMiddleware gin.HandlerFunc
	if p.authValidator != nil {
		authMiddleware = p.authValidator.Middleware()
	}
	p.API.Register(engine, authMiddleware)
}

// RouteProvider provides the route set for wire.
var RouteProvider = wire.NewSet(
	NewProvider,
)
