package handlers

import (
	"net/http"

	"defensoria_app_go/db"
	"defensoria_app_go/middleware"
	"defensoria_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetNotificationsHandler lists the unread notifications of the user
func GetNotificationsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	svc := services.NewNotificationService(db.DB)
	notifications, err := svc.GetUnreadNotifications(*user.DefensoriaID, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch notifications")
	}
	return c.JSON(http.StatusOK, notifications)
}

// MarkNotificationReadHandler marks a single notification as read
func MarkNotificationReadHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	svc := services.NewNotificationService(db.DB)
	if err := svc.MarkAsRead(c.Param("id"), *user.DefensoriaID, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notification as read")
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllNotificationsReadHandler marks all notifications as read
func MarkAllNotificationsReadHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	svc := services.NewNotificationService(db.DB)
	if err := svc.MarkAllAsRead(*user.DefensoriaID, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notifications as read")
	}
	return c.NoContent(http.StatusNoContent)
}
