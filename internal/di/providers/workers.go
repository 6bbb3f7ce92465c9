package providers

import (
	"github.com/samber/do/v2"

	"github.com/typerank/typerank-server/internal/config"
	"github.com/typerank/typerank-server/internal/logger"
	"github.com/typerank/typerank-server/internal/maintenance"
	"github.com/typerank/typerank-server/internal/ratelimit"
)

// SubmitLimiterHandle wraps the submission limiter with shutdown capability.
type SubmitLimiterHandle struct {
	*ratelimit.Limiter
}

// Shutdown implements do.Shutdownable.
func (h *SubmitLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideSubmitLimiter provides the per-client attempt submission limiter.
func ProvideSubmitLimiter(i do.Injector) (*SubmitLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	limiter := ratelimit.New(cfg.RateLimit.SubmitPerMinute, cfg.RateLimit.SubmitBurst, limiterIdleTTL)
	return &SubmitLimiterHandle{Limiter: limiter}, nil
}

// MaintenanceHandle wraps the maintenance scheduler. Scheduler is nil when
// maintenance is disabled.
type MaintenanceHandle struct {
	*maintenance.Scheduler
}

// Shutdown implements do.Shutdownable.
func (h *MaintenanceHandle) Shutdown() error {
	if h.Scheduler == nil {
		return nil
	}
	return h.Scheduler.Shutdown()
}

// ProvideMaintenance provides and starts the periodic store maintenance job.
func ProvideMaintenance(i do.Injector) (*MaintenanceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Maintenance.Enabled {
		log.Info("Store maintenance disabled by configuration")
		return &MaintenanceHandle{}, nil
	}

	sched, err := maintenance.New(storeHandle.Store, cfg.Maintenance.Interval, log.Logger)
	if err != nil {
		return nil, err
	}
	sched.Start()

	return &MaintenanceHandle{Scheduler: sched}, nil
}
