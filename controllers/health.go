package controllers

import (
	"unifiedweb_go/services/health"

	"github.com/gofiber/fiber/v2"
)

// HealthController exposes the aggregated health report.
type HealthController struct {
	service *health.Service
}

func NewHealthController(service *health.Service) *HealthController {
	if service == nil {
		service = health.NewService("", "")
	}
	return &HealthController{service: service}
}

// GetHealthStatus returns the aggregated health report.
func (hc *HealthController) GetHealthStatus(c *fiber.Ctx) error {
	report := hc.service.GetReport()
	statusCode := hc.service.HTTPStatusForOverall(report.Status)
	return c.Status(statusCode).JSON(report)
}
