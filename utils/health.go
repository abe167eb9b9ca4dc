package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents the current status of external collaborators.
// LiveSearch and LiveCalendar report configuration, not reachability:
// an unconfigured capability is fallback mode, not a failure.
type HealthStatus struct {
	Redis        *bool     `json:"redis,omitempty"`
	Mongo        *bool     `json:"mongo,omitempty"`
	LiveSearch   bool      `json:"liveSearch"`
	LiveCalendar bool      `json:"liveCalendar"`
	CheckedAt    time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// SetCapabilityModes records which live capabilities are configured.
func SetCapabilityModes(liveSearch, liveCalendar bool) {
	healthMu.Lock()
	defer healthMu.Unlock()
	currentHealth.LiveSearch = liveSearch
	currentHealth.LiveCalendar = liveCalendar
	currentHealth.CheckedAt = time.Now()
}

// StartHealthMonitor performs periodic health checks on the optional
// backends and updates the in-memory snapshot. Nil clients are skipped.
func StartHealthMonitor(redisClient *redis.Client, mongoClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		ctx := context.Background()

		for range ticker.C {
			var redisHealthy, mongoHealthy *bool

			if redisClient != nil {
				ok := redisClient.Ping(ctx).Err() == nil
				redisHealthy = &ok
			}
			if mongoClient != nil {
				ok := mongoClient.Ping(ctx, nil) == nil
				mongoHealthy = &ok
			}

			healthMu.Lock()
			currentHealth.Redis = redisHealthy
			currentHealth.Mongo = mongoHealthy
			currentHealth.CheckedAt = time.Now()
			healthMu.Unlock()
		}
	}()
}
