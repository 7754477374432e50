package services

import (
	"context"
	"time"

	"github.com/NomadCrew/todo-api/internal/store"
	"github.com/NomadCrew/todo-api/logger"
	"github.com/NomadCrew/todo-api/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	dependencyCheckTimeout = 2 * time.Second

	dependencyDatabase = "database"
	dependencyRedis    = "redis"
)

// HealthService reports on the todo store and, when configured, Redis. The
// store is critical: if it is down the service is DOWN. Redis only backs the
// cache and rate limiter, so losing it degrades the service.
type HealthService struct {
	database    store.Pinger
	redisClient redis.Cmdable
	version     string
	startTime   time.Time
	log         *zap.SugaredLogger
}

// NewHealthService builds the service. redisClient may be nil.
func NewHealthService(database store.Pinger, redisClient redis.Cmdable, version string) *HealthService {
	return &HealthService{
		database:    database,
		redisClient: redisClient,
		version:     version,
		startTime:   time.Now(),
		log:         logger.GetLogger(),
	}
}

func (h *HealthService) CheckHealth(ctx context.Context) types.HealthReport {
	report := types.HealthReport{
		Status:       types.HealthStatusUp,
		Dependencies: make(map[string]types.DependencyHealth, 2),
		Version:      h.version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
	}

	db := h.checkDatabase(ctx)
	report.Dependencies[dependencyDatabase] = db
	if db.Status == types.HealthStatusDown {
		report.Status = types.HealthStatusDown
	}

	if h.redisClient != nil {
		rdb := h.probe(ctx, dependencyRedis, func(ctx context.Context) error {
			return h.redisClient.Ping(ctx).Err()
		})
		report.Dependencies[dependencyRedis] = rdb
		if rdb.Status == types.HealthStatusDown && report.Status == types.HealthStatusUp {
			report.Status = types.HealthStatusDegraded
		}
	}

	report.Timestamp = time.Now().UTC().Format(time.RFC3339)
	return report
}

func (h *HealthService) checkDatabase(ctx context.Context) types.DependencyHealth {
	if h.database == nil {
		return types.DependencyHealth{
			Status:  types.HealthStatusDown,
			Details: "database not configured",
		}
	}
	return h.probe(ctx, dependencyDatabase, h.database.Ping)
}

// probe runs ping under dependencyCheckTimeout and records how long it took.
func (h *HealthService) probe(ctx context.Context, name string, ping func(context.Context) error) types.DependencyHealth {
	ctx, cancel := context.WithTimeout(ctx, dependencyCheckTimeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	latency := time.Since(start).Round(time.Microsecond).String()

	if err != nil {
		h.log.Errorw("Health check failed", "dependency", name, "latency", latency, "error", err)
		return types.DependencyHealth{
			Status:  types.HealthStatusDown,
			Latency: latency,
			Details: name + " connection failed",
		}
	}
	return types.DependencyHealth{Status: types.HealthStatusUp, Latency: latency}
}
