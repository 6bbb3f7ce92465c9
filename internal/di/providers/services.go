package providers

import (
	"github.com/samber/do/v2"

	"github.com/typerank/typerank-server/internal/auth"
	"github.com/typerank/typerank-server/internal/logger"
	"github.com/typerank/typerank-server/internal/seed"
	"github.com/typerank/typerank-server/internal/service"
)

// ProvidePersonalBestTracker provides the personal best tracker.
func ProvidePersonalBestTracker(i do.Injector) (*service.PersonalBestTracker, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPersonalBestTracker(storeHandle.Store, log.Logger), nil
}

// ProvideAttemptService provides the attempt service.
func ProvideAttemptService(i do.Injector) (*service.AttemptService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	bests := do.MustInvoke[*service.PersonalBestTracker](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAttemptService(storeHandle.Store, bests, log.Logger), nil
}

// ProvideLeaderboardService provides the leaderboard service.
func ProvideLeaderboardService(i do.Injector) (*service.LeaderboardService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLeaderboardService(storeHandle.Store, log.Logger), nil
}

// ProvideStatsService provides the statistics service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatsService(storeHandle.Store, log.Logger), nil
}

// ProvideSessionService provides the typing session service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, log.Logger), nil
}

// ProvideGameModeService provides the game mode service.
func ProvideGameModeService(i do.Injector) (*service.GameModeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGameModeService(storeHandle.Store, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideUserService provides the account management service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, log.Logger), nil
}

// ProvideSeeder provides the corpus seeder.
func ProvideSeeder(i do.Injector) (*seed.Seeder, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	gameModes := do.MustInvoke[*service.GameModeService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return seed.NewSeeder(storeHandle.Store, gameModes, log.Logger), nil
}
