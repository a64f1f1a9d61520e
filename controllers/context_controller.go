package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tunehub/middleware"
	"tunehub/models"
	"tunehub/utils"
)

type SetContextRequest struct {
	ArtistID uint `json:"artist_id" validate:"required"`
}

type ContextController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewContextController(db *gorm.DB, logger *log.Logger) *ContextController {
	return &ContextController{DB: db, Logger: logger}
}

// SetContext starts viewing an artist. The delegation registry is consulted
// at call time; a missing membership row is a hard authorization failure.
func (cc *ContextController) SetContext(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req SetContextRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Artist ID is required")
	}

	if _, err := models.AuthorizeTeamMember(cc.DB, req.ArtistID, user.ID); err != nil {
		if errors.Is(err, models.ErrNotDelegate) {
			return utils.ErrorResponse(c, fiber.StatusForbidden, "You don't have access to this artist")
		}
		cc.Logger.Printf("context authorization failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to set artist context")
	}

	token, err := utils.GenerateContextToken(user.ID, req.ArtistID)
	if err != nil {
		utils.LogError("context_token_issue_failed", err, map[string]interface{}{
			"manager_id": user.ID,
			"artist_id":  req.ArtistID,
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to set artist context")
	}
	setContextCookie(c, token)

	utils.LogEvent("context_set", map[string]interface{}{
		"manager_id": user.ID,
		"artist_id":  req.ArtistID,
	})

	return c.JSON(fiber.Map{
		"success":   true,
		"artist_id": req.ArtistID,
	})
}

// GetContext reports the current viewing artist, or null. The scope
// middleware already dropped stale, foreign and revoked markers, so this is
// a pure read that tolerates absence.
func (cc *ContextController) GetContext(c *fiber.Ctx) error {
	scope := middleware.CurrentScope(c)
	if !scope.ActingForArtist() {
		return c.JSON(fiber.Map{"artist": nil})
	}

	return c.JSON(fiber.Map{
		"artist": fiber.Map{
			"id":    scope.Artist.ID,
			"name":  scope.Artist.Name,
			"email": scope.Artist.Email,
			"role":  scope.Artist.Role,
		},
	})
}

// ClearContext drops the viewing-context cookie. Idempotent: clearing when
// nothing is set is not an error.
func (cc *ContextController) ClearContext(c *fiber.Ctx) error {
	expireCookie(c, middleware.ContextCookieName)
	return c.JSON(fiber.Map{"success": true})
}
