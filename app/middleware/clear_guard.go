package middleware

import (
	"net/http"

	"github.com/vibast-solutions/ms-go-contacts/app/types"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ClearGuard blocks the destructive clear endpoint unless the deployment enabled it.
// The endpoint has no authorization of its own.
type ClearGuard struct {
	enabled bool
}

func NewClearGuard(enabled bool) *ClearGuard {
	return &ClearGuard{enabled: enabled}
}

func (g *ClearGuard) RequireClearEnabled(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !g.enabled {
			logrus.WithField("remote_ip", c.RealIP()).Warn("Rejected clear request: endpoint disabled")
			return c.JSON(http.StatusForbidden, &types.ClearResponse{
				Success: false,
				Message: "clear endpoint is disabled",
			})
		}
		return next(c)
	}
}
