package controller

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tunehub/config"
	"tunehub/middleware"
	"tunehub/models"
	"tunehub/utils"
)

const maxUploadSize = 10 * 1024 * 1024 // 10MB

type UploadController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewUploadController(db *gorm.DB, logger *log.Logger) *UploadController {
	return &UploadController{DB: db, Logger: logger}
}

// ProfilePhoto stores an uploaded image under the configured upload dir and
// points the caller's profile at it, creating the profile row lazily. Photo
// uploads are owner-only like every other profile write.
func (uc *UploadController) ProfilePhoto(c *fiber.Ctx) error {
	scope := middleware.CurrentScope(c)
	if scope.ActingForArtist() {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Only the profile owner can upload a photo")
	}
	user := scope.User

	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "No file provided")
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File must be an image")
	}
	if file.Size > maxUploadSize {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File size must be less than 10MB")
	}

	if err := os.MkdirAll(config.AppConfig.UploadDir, 0o755); err != nil {
		uc.Logger.Printf("upload dir creation failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to upload file")
	}

	filename := fmt.Sprintf("profile-%d-%s%s", user.ID, uuid.NewString(), filepath.Ext(file.Filename))
	if err := c.SaveFile(file, filepath.Join(config.AppConfig.UploadDir, filename)); err != nil {
		utils.LogError("upload_failed", err, map[string]interface{}{
			"user_id":  user.ID,
			"filename": filename,
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to upload file")
	}
	photoURL := "/uploads/profiles/" + filename

	var profile models.ArtistProfile
	err = uc.DB.Where("user_id = ?", user.ID).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		uc.Logger.Printf("profile lookup failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to upload file")
	}
	profile.UserID = user.ID
	profile.PhotoURL = &photoURL
	if err := uc.DB.Save(&profile).Error; err != nil {
		uc.Logger.Printf("profile photo save failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to upload file")
	}

	return c.JSON(fiber.Map{"photo_url": photoURL})
}
