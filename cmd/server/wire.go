//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"travai-server/internal/config"
	"travai-server/internal/domain"
	"travai-server/internal/interfaces"
)

// CreateApplication creates the application with all dependencies wired.
func CreateApplication(
	ctx context.Context,
	cfg *config.Config,
	log zerolog.Logger,
) (*Application, func(), error) {
	wire.Build(
		InfrastructureProvider,
		domain.ServiceProvider,
		interfaces.InterfacesProvider,
		NewApplication,
	)
	return nil, nil, nil
}
