package controller

import (
	"time"

	"ai-playground-be/internal/connectivity"
	"ai-playground-be/internal/dto"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	database  *connectivity.Supervisor
	cache     *connectivity.Supervisor
	startedAt time.Time
}

func NewHealthController(database, cache *connectivity.Supervisor) IHealthController {
	return &healthController{database: database, cache: cache, startedAt: time.Now()}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

// Health reports liveness regardless of dependency state so that
// orchestrators can still reach the process while it is degraded.
func (c *healthController) Health(ctx *fiber.Ctx) error {
	res := &dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Database:  dependencyHealth(c.database),
		Cache:     dependencyHealth(c.cache),
		Uptime:    time.Since(c.startedAt).Seconds(),
	}
	if !c.database.Connected() {
		res.Status = "degraded"
	}
	return ctx.JSON(res)
}

func dependencyHealth(sup *connectivity.Supervisor) dto.DependencyHealth {
	snap := sup.Snapshot()
	return dto.DependencyHealth{
		State:     string(snap.State),
		Connected: snap.State == connectivity.StateConnected,
	}
}
