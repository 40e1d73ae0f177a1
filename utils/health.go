package utils

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HealthCheck probes one external dependency.
type HealthCheck func(ctx context.Context) error

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Deps      map[string]bool `json:"deps"`
	CheckedAt time.Time       `json:"checkedAt"`
}

var (
	currentHealth = HealthStatus{Deps: map[string]bool{}}
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	deps := make(map[string]bool, len(currentHealth.Deps))
	for k, v := range currentHealth.Deps {
		deps[k] = v
	}
	return HealthStatus{Deps: deps, CheckedAt: currentHealth.CheckedAt}
}

// RunHealthChecks probes every dependency once and stores the snapshot.
func RunHealthChecks(ctx context.Context, checks map[string]HealthCheck) HealthStatus {
	deps := make(map[string]bool, len(checks))
	for name, check := range checks {
		cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := check(cctx)
		cancel()
		if err != nil {
			GetLogger().Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
		}
		deps[name] = err == nil
	}

	status := HealthStatus{Deps: deps, CheckedAt: time.Now()}
	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is done.
func StartHealthMonitor(ctx context.Context, checks map[string]HealthCheck, interval time.Duration) {
	RunHealthChecks(ctx, checks)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				RunHealthChecks(ctx, checks)
			}
		}
	}()
}
