package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Pinger is anything the health check can probe
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      *gorm.DB
	redis   Pinger
	clients func() int
}

// NewHealthHandler builds the probe. redis and clients may be nil.
func NewHealthHandler(db *gorm.DB, redis Pinger, clients func() int) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, clients: clients}
}

// GET /health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	healthy := true
	body := fiber.Map{}

	dbStatus := fiber.Map{"status": "up"}
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		healthy = false
		dbStatus["status"] = "down"
	} else {
		stats := sqlDB.Stats()
		dbStatus["open_connections"] = stats.OpenConnections
		dbStatus["in_use"] = stats.InUse
		dbStatus["idle"] = stats.Idle
	}
	body["database"] = dbStatus

	if h.redis != nil {
		redisStatus := "up"
		if err := h.redis.Ping(ctx); err != nil {
			healthy = false
			redisStatus = "down"
		}
		body["redis"] = fiber.Map{"status": redisStatus}
	}

	if h.clients != nil {
		body["ws_clients"] = h.clients()
	}

	if !healthy {
		body["status"] = "unhealthy"
		return c.Status(fiber.StatusServiceUnavailable).JSON(body)
	}
	body["status"] = "ok"
	return c.JSON(body)
}
