package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Backend   bool      `json:"backend"`
	Redis     *bool     `json:"redis,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth probes the backend and, when configured, redis once and stores
// the snapshot.
func CheckHealth(ctx context.Context, redisClient *redis.Client, pingBackend func(context.Context) error) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := HealthStatus{
		Backend:   pingBackend(ctx) == nil,
		CheckedAt: time.Now(),
	}
	if redisClient != nil {
		ok := redisClient.Ping(ctx).Err() == nil
		status.Redis = &ok
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is done.
func StartHealthMonitor(ctx context.Context, redisClient *redis.Client, pingBackend func(context.Context) error) {
	go func() {
		CheckHealth(ctx, redisClient, pingBackend)
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CheckHealth(ctx, redisClient, pingBackend)
			}
		}
	}()
}
