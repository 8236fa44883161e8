package interfaces

import (
	"github.com/google/wire"

	"travai-server/internal/interfaces/httpserver"
	"travai-server/internal/interfaces/httpserver/handlers"
	"travai-server/internal/interfaces/httpserver/routes"
)

// InterfacesProvider provides all interface dependencies.
var InterfacesProvider = wire.NewSet(
	handlers.HandlerProvider,
	routes.RouteProvider,
	httpserver.New,
)
