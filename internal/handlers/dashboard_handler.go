package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/brahimakil/coachingsystem-sub001/internal/models"
)

type dashboardApplicationService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type DashboardHandler struct {
	service dashboardApplicationService
}

func NewDashboardHandler(service dashboardApplicationService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute dashboard stats"})
	}
	return c.JSON(stats)
}
