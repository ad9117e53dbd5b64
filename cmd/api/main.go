package main

import (
	"context"
	"log"

	"github.com/esp32-copilot/go-copilot-backend/config"
	"github.com/esp32-copilot/go-copilot-backend/internal/bootstrap"
	"github.com/esp32-copilot/go-copilot-backend/internal/hardware"
	"github.com/esp32-copilot/go-copilot-backend/internal/llm"
	cronjob "github.com/esp32-copilot/go-copilot-backend/internal/maintenance/cron"
	"github.com/esp32-copilot/go-copilot-backend/internal/storage/postgres"
	wiringrepo "github.com/esp32-copilot/go-copilot-backend/internal/wiring/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)
	ctx := context.Background()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	// The snapshot repository runs on database/sql; same database, second
	// driver.
	sqlDB, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("database (sql): %v", err)
	}
	defer sqlDB.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	catalog := hardware.NewCatalog()
	snapshots := wiringrepo.NewSnapshotRepository(sqlDB)

	scheduler := cronjob.NewScheduler(snapshots)
	scheduler.Start()
	defer scheduler.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "esp32-copilot-api",
		Version:     cfg.App.Version,
		CORSOrigins: cfg.Server.CORSOrigins,
		DB:          pool,
		Redis:       rdb,
		Catalog:     catalog,
		LLM:         llm.NewClient(cfg.LLM),
		Snapshots:   snapshots,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
