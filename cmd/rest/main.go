package main

import (
	"context"
	"log"

	"ai-playground-be/internal/bootstrap"
	"ai-playground-be/internal/config"
	"ai-playground-be/internal/server"
	"ai-playground-be/internal/tracer"
	"ai-playground-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Auth.JwtSecret == "" {
		log.Fatal("JWT_SECRET is not set; refusing to start")
	}

	// 2. Initialize Database handle (dials lazily; the connectivity
	// supervisor owns retries, so the process boots even while the
	// database is still coming up)
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to initialize GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services (supervisors, notifier)
	container.Start(context.Background())

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
