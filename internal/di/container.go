// Package di provides dependency injection configuration for the TypeRank server.
package di

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/typerank/typerank-server/internal/config"
	"github.com/typerank/typerank-server/internal/di/providers"
	"github.com/typerank/typerank-server/internal/logger"
	"github.com/typerank/typerank-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// Nothing is constructed until first invoked.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, cfg)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvidePersonalBestTracker)
	do.Provide(injector, providers.ProvideAttemptService)
	do.Provide(injector, providers.ProvideLeaderboardService)
	do.Provide(injector, providers.ProvideStatsService)
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideGameModeService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideSeeder)

	// Workers
	do.Provide(injector, providers.ProvideSubmitLimiter)
	do.Provide(injector, providers.ProvideMaintenance)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap ensures the default game modes exist and starts the workers and
// the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	log := do.MustInvoke[*logger.Logger](injector)

	gameModes := do.MustInvoke[*service.GameModeService](injector)
	created, err := gameModes.EnsureDefaults(context.Background())
	if err != nil {
		return fmt.Errorf("ensure default game modes: %w", err)
	}
	if created > 0 {
		log.Info("Default game modes created", "count", created)
	}

	if _, err := do.Invoke[*providers.MaintenanceHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}

	return nil
}
