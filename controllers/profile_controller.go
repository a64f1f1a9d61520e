package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tunehub/middleware"
	"tunehub/models"
	"tunehub/utils"
)

type ProfileRequest struct {
	ArtistName      *string `json:"artist_name"`
	RealName        *string `json:"real_name"`
	Age             *int    `json:"age"`
	SPAMemberNumber *string `json:"spa_member_number"`
	SPACoopNumber   *string `json:"spa_coop_number"`
	IPINumber       *string `json:"ipi_number"`
	AliasIPINumber  *string `json:"alias_ipi_number"`
	Label           *string `json:"label"`
	Distributor     *string `json:"distributor"`
	EmailAlt        *string `json:"email_alt" validate:"omitempty,email"`
	PhoneNumber     *string `json:"phone_number"`
	SpotifyArtistID *string `json:"spotify_artist_id"`
	IDCardNumber    *string `json:"id_card_number"`
	NIF             *string `json:"nif"`
	IDCardExpiry    *string `json:"id_card_expiry"` // YYYY-MM-DD
	Address         *string `json:"address"`
	PostalCode      *string `json:"postal_code"`
	Birthday        *string `json:"birthday"` // YYYY-MM-DD
}

type ProfileController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewProfileController(db *gorm.DB, logger *log.Logger) *ProfileController {
	return &ProfileController{DB: db, Logger: logger}
}

// Get returns the effective subject's profile. When no profile row exists
// yet the response carries just the account email and name, mirroring what
// the profile form would start from.
func (pc *ProfileController) Get(c *fiber.Ctx) error {
	scope := middleware.CurrentScope(c)
	if !scope.Can(models.PermViewProfile) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "You don't have access to this profile")
	}

	var subject *models.User
	if scope.ActingForArtist() {
		subject = scope.Artist
	} else {
		subject = scope.User
	}

	var profile models.ArtistProfile
	err := pc.DB.Where("user_id = ?", subject.ID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{
				"profile": fiber.Map{
					"email":       subject.Email,
					"artist_name": subject.Name,
				},
			})
		}
		pc.Logger.Printf("profile fetch failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch profile")
	}

	return c.JSON(fiber.Map{"profile": profile})
}

// Save upserts the caller's own profile, creating the row lazily on first
// save. Profiles are mutated only by their owner; delegated contexts cannot
// write here.
func (pc *ProfileController) Save(c *fiber.Ctx) error {
	scope := middleware.CurrentScope(c)
	if scope.ActingForArtist() || !scope.CanWriteProfile(scope.User.ID) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Only the profile owner can edit it")
	}
	user := scope.User

	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	idCardExpiry, err := parseDate(req.IDCardExpiry)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "id_card_expiry must be YYYY-MM-DD")
	}
	birthday, err := parseDate(req.Birthday)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "birthday must be YYYY-MM-DD")
	}

	var profile models.ArtistProfile
	err = pc.DB.Where("user_id = ?", user.ID).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		pc.Logger.Printf("profile lookup failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update profile")
	}

	profile.UserID = user.ID
	profile.ArtistName = req.ArtistName
	profile.RealName = req.RealName
	profile.Age = req.Age
	profile.SPAMemberNumber = req.SPAMemberNumber
	profile.SPACoopNumber = req.SPACoopNumber
	profile.IPINumber = req.IPINumber
	profile.AliasIPINumber = req.AliasIPINumber
	profile.Label = req.Label
	profile.Distributor = req.Distributor
	profile.EmailAlt = req.EmailAlt
	profile.PhoneNumber = req.PhoneNumber
	profile.SpotifyArtistID = req.SpotifyArtistID
	profile.IDCardNumber = req.IDCardNumber
	profile.NIF = req.NIF
	profile.IDCardExpiry = idCardExpiry
	profile.Address = req.Address
	profile.PostalCode = req.PostalCode
	profile.Birthday = birthday

	if err := pc.DB.Save(&profile).Error; err != nil {
		utils.LogError("profile_save_failed", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update profile")
	}

	return c.JSON(fiber.Map{"success": true})
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
