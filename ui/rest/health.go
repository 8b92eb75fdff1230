package rest

import (
	"context"
	"time"

	"github.com/AzielCF/az-gym/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Pinger es cualquier dependencia externa que responde a un ping
type Pinger interface {
	Ping(ctx context.Context) error
}

type Health struct {
	DB    *gorm.DB
	Cache Pinger // nil cuando Valkey está deshabilitado
}

type HealthStatus struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

func InitRestHealth(app fiber.Router, db *gorm.DB, cache Pinger) Health {
	handler := Health{DB: db, Cache: cache}
	app.Get("/health", handler.GetStatus)
	return handler
}

// GetStatus responde 503 si la base no responde; la caché es opcional
func (h *Health) GetStatus(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := HealthStatus{Database: "ok", Cache: "disabled"}
	healthy := true

	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		status.Database = err.Error()
		healthy = false
	}

	if h.Cache != nil {
		status.Cache = "ok"
		if err := h.Cache.Ping(ctx); err != nil {
			status.Cache = err.Error()
		}
	}

	if !healthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(utils.ResponseData{
			Status:  503,
			Code:    "SERVICE_UNAVAILABLE",
			Message: "Database unreachable",
			Results: status,
		})
	}
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Health status retrieved",
		Results: status,
	})
}
