package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tunehub/middleware"
	"tunehub/models"
	"tunehub/utils"
)

type NotificationController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewNotificationController(db *gorm.DB, logger *log.Logger) *NotificationController {
	return &NotificationController{DB: db, Logger: logger}
}

// List returns the caller's notifications, newest first. Notifications are
// always addressed to the authenticated user, never the viewing artist.
func (nc *NotificationController) List(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var notifications []models.Notification
	if err := nc.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		nc.Logger.Printf("notification list failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch notifications")
	}

	return c.JSON(fiber.Map{"notifications": notifications})
}
