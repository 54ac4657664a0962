package handler

import (
	"strconv"

	"go-office-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetOverview returns stats, recent activity and chart data in one payload
// GET /api/dashboard
func (h *DashboardHandler) GetOverview(c *fiber.Ctx) error {
	overview, err := h.service.Overview(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(overview)
}

// GetDistributionTrend returns units distributed per day
// Query params: days (default 30)
func (h *DashboardHandler) GetDistributionTrend(c *fiber.Ctx) error {
	daysStr := c.Query("days", "30")
	days, err := strconv.Atoi(daysStr)
	if err != nil || days <= 0 || days > 365 {
		days = 30
	}

	data, err := h.service.DistributionTrend(c.UserContext(), days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch distribution trend"})
	}
	return c.JSON(data)
}
