package controllers

import (
	"net/http"
	"strconv"

	"duet-server/internal/logics"

	"github.com/labstack/echo/v4"
)

// NotificationController handles HTTP requests for the notification feed.
type NotificationController struct {
	notificationService *logics.NotificationService
}

func NewNotificationController(notificationService *logics.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// ListNotifications handles GET /notifications
// Query parameters: include_read=true to include read entries, limit=N.
func (nc *NotificationController) ListNotifications(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	includeRead := c.QueryParam("include_read") == "true"
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
		}
	}

	notifications, err := nc.notificationService.ListNotifications(c.Request().Context(), userID, includeRead, limit)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, notifications)
}

// MarkRead handles PUT /notifications/:id/read
func (nc *NotificationController) MarkRead(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	notificationID := c.Param("id")
	if notificationID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "notification id is required"})
	}

	if err := nc.notificationService.MarkRead(c.Request().Context(), userID, notificationID); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
