package router

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/NomadCrew/todo-api/config"
	_ "github.com/NomadCrew/todo-api/docs" // registers the swagger spec
	"github.com/NomadCrew/todo-api/errors"
	"github.com/NomadCrew/todo-api/handlers"
	"github.com/NomadCrew/todo-api/logger"
	"github.com/NomadCrew/todo-api/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const indexFile = "index.html"

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config        *config.Config
	TodoHandler   *handlers.TodoHandler
	HealthHandler *handlers.HealthHandler
	// RedisClient enables the API rate limiter when set.
	RedisClient redis.Cmdable
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	r := gin.New()

	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.GetLogger().Warnw("Invalid trusted proxies, trusting none", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middleware. ErrorHandler sits outside everything that pushes
	// errors (timeout, rate limiter, handlers, NoRoute).
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware(cfg))
	r.Use(middleware.CORSMiddleware(&cfg.Server))
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.TimeoutMiddleware(cfg.Server.RequestTimeout()))

	// Health and Metrics Routes
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group(cfg.Server.APIPrefix)
	if deps.RedisClient != nil {
		api.Use(middleware.APIRateLimiter(deps.RedisClient, cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Window()))
	}

	todoRoutes := api.Group("/todos")
	{
		todoRoutes.GET("", deps.TodoHandler.ListTodosHandler)
		todoRoutes.POST("", deps.TodoHandler.CreateTodoHandler)
		todoRoutes.GET("/:id", deps.TodoHandler.GetTodoHandler)
		todoRoutes.PUT("/:id", deps.TodoHandler.UpdateTodoHandler)
		todoRoutes.DELETE("/:id", deps.TodoHandler.DeleteTodoHandler)
	}

	r.NoRoute(staticFallback(cfg.Server.PublicPath, cfg.Server.APIPrefix))

	return r
}

// staticFallback serves files from publicDir for GET and HEAD requests that
// matched no route, falling back to index.html so client-side routes of a
// single page app resolve. Everything else, and anything under apiPrefix,
// is a JSON 404.
func staticFallback(publicDir, apiPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		reqPath := c.Request.URL.Path

		if (method != http.MethodGet && method != http.MethodHead) || isAPIPath(reqPath, apiPrefix) {
			_ = c.Error(errors.RouteNotFound())
			return
		}

		// Clean against "/" so the result can never climb out of publicDir.
		clean := path.Clean("/" + reqPath)
		if file := filepath.Join(publicDir, filepath.FromSlash(clean)); isFile(file) {
			c.File(file)
			return
		}

		if index := filepath.Join(publicDir, indexFile); isFile(index) {
			c.File(index)
			return
		}

		_ = c.Error(errors.RouteNotFound())
	}
}

func isAPIPath(reqPath, apiPrefix string) bool {
	return reqPath == apiPrefix || strings.HasPrefix(reqPath, strings.TrimSuffix(apiPrefix, "/")+"/")
}

func isFile(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}
