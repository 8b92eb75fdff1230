package rest

import (
	"github.com/AzielCF/az-gym/pkg/accessworker"
	"github.com/gofiber/fiber/v2"
)

var accessPool *accessworker.Pool

// InitRestWorkerPool expone las métricas del pool de validaciones
func InitRestWorkerPool(app fiber.Router, pool *accessworker.Pool) {
	accessPool = pool
	app.Get("/access-pool/stats", GetAccessPoolStats)
}

// GetAccessPoolStats returns real-time access worker pool statistics
func GetAccessPoolStats(c *fiber.Ctx) error {
	if accessPool == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Access worker pool not initialized",
		})
	}
	return c.JSON(accessPool.GetStats())
}
