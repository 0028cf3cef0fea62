package handlers

import (
	"github.com/Niwatda/softwareshop/database"
	"github.com/Niwatda/softwareshop/utils/response"
	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports service liveness
type HealthHandler struct {
	store database.Storage
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store database.Storage) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check verifies the service and its database connection are alive
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.store.HealthCheck(); err != nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "Database unreachable", "SERVICE_UNAVAILABLE")
	}

	return response.Success(c, fiber.Map{
		"status": "ok",
	})
}
