// @title Todo API
// @version 1.0
// @description CRUD service for todo items.
// @BasePath /api
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NomadCrew/todo-api/config"
	"github.com/NomadCrew/todo-api/db"
	"github.com/NomadCrew/todo-api/handlers"
	"github.com/NomadCrew/todo-api/internal/store"
	"github.com/NomadCrew/todo-api/internal/store/memory"
	"github.com/NomadCrew/todo-api/internal/store/postgres"
	"github.com/NomadCrew/todo-api/internal/store/rediscache"
	"github.com/NomadCrew/todo-api/logger"
	"github.com/NomadCrew/todo-api/models"
	"github.com/NomadCrew/todo-api/router"
	"github.com/NomadCrew/todo-api/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Persistence
	var (
		todoStore store.TodoStore
		pinger    store.Pinger
	)
	if cfg.UsesPostgres() {
		if cfg.Database.AutoMigrate {
			if err := db.RunMigrations(cfg.Database.URL()); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}

		pool, err := config.NewPostgresPool(ctx, &cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()

		todoStore = postgres.NewTodoStore(pool)
		pinger = pool
		log.Infow("Using postgres todo store", "host", cfg.Database.Host, "database", cfg.Database.Name)
	} else {
		mem := memory.NewTodoStore()
		todoStore = mem
		pinger = mem
		log.Info("Using in-memory todo store")
	}

	// Redis backs the rate limiter and the read cache. It is optional.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(config.ConfigureRedisOptions(&cfg.Redis))
		if err := config.TestRedisConnection(ctx, redisClient); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Warnw("Error closing Redis client", "error", err)
			}
		}()

		if cfg.Cache.Enabled {
			todoStore = rediscache.NewTodoStore(todoStore, redisClient, cfg.Cache.TTL())
			log.Infow("Todo read cache enabled", "ttl", cfg.Cache.TTL().String())
		}
	}

	// Services and handlers
	todoModel := models.NewTodoModel(todoStore, models.NewDateParser(cfg.Dates.Location()))
	todoHandler := handlers.NewTodoHandler(todoModel)

	var healthRedis redis.Cmdable
	if redisClient != nil {
		healthRedis = redisClient
	}
	healthService := services.NewHealthService(pinger, healthRedis, cfg.Server.Version)
	healthHandler := handlers.NewHealthHandler(healthService)

	deps := router.Dependencies{
		Config:        cfg,
		TodoHandler:   todoHandler,
		HealthHandler: healthHandler,
	}
	if redisClient != nil {
		deps.RedisClient = redisClient
	}
	r := router.SetupRouter(deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting server", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Infow("Shutting down server", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}

	log.Info("Server exited")
}
