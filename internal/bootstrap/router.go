package bootstrap

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	httpapi "github.com/esp32-copilot/go-copilot-backend/internal/api/http"
	"github.com/esp32-copilot/go-copilot-backend/internal/hardware"
	"github.com/esp32-copilot/go-copilot-backend/internal/llm"
	"github.com/esp32-copilot/go-copilot-backend/internal/middleware"
	projhttp "github.com/esp32-copilot/go-copilot-backend/internal/projects/http"
	projrepo "github.com/esp32-copilot/go-copilot-backend/internal/projects/repository"
	projservice "github.com/esp32-copilot/go-copilot-backend/internal/projects/service"
	"github.com/esp32-copilot/go-copilot-backend/internal/settings"
	wiringhttp "github.com/esp32-copilot/go-copilot-backend/internal/wiring/http"
	wiringrepo "github.com/esp32-copilot/go-copilot-backend/internal/wiring/repository"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins string
	DB          *pgxpool.Pool
	Redis       *redis.Client
	Catalog     *hardware.Catalog
	LLM         *llm.Client
	Snapshots   *wiringrepo.SnapshotRepository
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(corsMiddleware(dep.CORSOrigins))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "ESP32 IoT Copilot API", "version": dep.Version})
	})

	projectRepo := projrepo.NewProjectRepository(dep.DB)
	projectSvc := projservice.NewProjectService(projectRepo)
	pipeline := projservice.NewStagePipeline(projectRepo, dep.LLM, dep.Catalog)
	settingsRepo := settings.NewRepo(dep.Redis)

	projectsGroup := api.Group("/projects")
	projHandler := projhttp.New(projectSvc, pipeline, settingsRepo)
	projHandler.Register(projectsGroup)
	// One generation every 2s with a burst of 3; the model call is the only
	// expensive operation in the service.
	projHandler.RegisterGenerate(projectsGroup, middleware.RateLimit(rate.Every(2*time.Second), 3))

	wiringHandler := wiringhttp.NewHandler(dep.Catalog, projectRepo, dep.Snapshots)
	wiringHandler.Register(api.Group("/wiring"))
	wiringHandler.RegisterProject(projectsGroup)

	hardware.NewHandler(dep.Catalog).Register(api)
	settings.NewHandler(settingsRepo).Register(api.Group("/settings"))

	return r
}

func corsMiddleware(origins string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if origins == "" || origins == "*" {
		cfg.AllowAllOrigins = true
		return cors.New(cfg)
	}
	cfg.AllowOrigins = strings.Split(origins, ",")
	cfg.AllowCredentials = true
	return cors.New(cfg)
}
