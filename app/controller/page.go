package controller

import (
	"net/http"

	"github.com/vibast-solutions/ms-go-contacts/web"

	"github.com/labstack/echo/v4"
)

func Index(ctx echo.Context) error {
	return ctx.HTMLBlob(http.StatusOK, web.IndexHTML)
}
