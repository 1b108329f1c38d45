package controller

import (
	"net/http"

	"github.com/vibast-solutions/ms-go-contacts/app/service"
	"github.com/vibast-solutions/ms-go-contacts/app/types"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type HealthController struct {
	recordService service.RecordService
}

func NewHealthController(recordService service.RecordService) *HealthController {
	return &HealthController{recordService: recordService}
}

func (c *HealthController) Health(ctx echo.Context) error {
	if err := c.recordService.Health(ctx.Request().Context()); err != nil {
		logrus.WithError(err).Warn("Health check failed")
		return ctx.JSON(http.StatusServiceUnavailable, &types.HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
		})
	}

	return ctx.JSON(http.StatusOK, &types.HealthResponse{
		Status:   "healthy",
		Database: "connected",
	})
}
