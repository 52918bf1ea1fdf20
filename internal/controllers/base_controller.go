package controllers

import (
	"duet-server/internal/middlewares"
	apperrors "duet-server/pkg/errors"

	"github.com/labstack/echo/v4"
)

// actorID pulls the authenticated user id stored by the JWT middleware.
func actorID(c echo.Context) (string, error) {
	return middlewares.GetUserIDFromContext(c)
}

// errorJSON maps a service error onto its HTTP status and the shared
// {"error": ...} body shape.
func errorJSON(c echo.Context, err error) error {
	status := apperrors.ToHTTPStatus(apperrors.CodeOf(err))
	return c.JSON(status, map[string]string{"error": err.Error()})
}
