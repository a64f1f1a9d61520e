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

type AddTeamMemberRequest struct {
	MemberID    uint     `json:"member_id" validate:"required"`
	Permissions []string `json:"permissions" validate:"required"`
}

// TeamMemberEntry is one delegate on the caller's team.
type TeamMemberEntry struct {
	ID          uint                 `json:"id"`
	MemberID    uint                 `json:"member_id"`
	Role        string               `json:"role"`
	Permissions models.PermissionSet `json:"permissions"`
	Name        string               `json:"name"`
	Email       string               `json:"email"`
	PhotoURL    *string              `json:"photo_url"`
}

// ManagedArtistEntry is one artist the caller manages.
type ManagedArtistEntry struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	Email       string               `json:"email"`
	Role        string               `json:"role"`
	Permissions models.PermissionSet `json:"permissions"`
}

type TeamController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewTeamController(db *gorm.DB, logger *log.Logger) *TeamController {
	return &TeamController{DB: db, Logger: logger}
}

// AddMember grants a delegation from the caller (artist) to a member. The
// workflow enforces the accepted-friendship precondition; the registry
// itself stays friendship-agnostic. Grant plus notification run in one
// transaction.
func (tc *TeamController) AddMember(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req AddTeamMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	var member models.User
	if err := tc.DB.First(&member, req.MemberID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found")
	}

	friends, err := models.HasAcceptedFriendship(tc.DB, user.ID, member.ID)
	if err != nil {
		tc.Logger.Printf("friendship lookup failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add team member")
	}
	if !friends {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "You can only add accepted friends to your team")
	}

	permissions := make(models.PermissionSet, 0, len(req.Permissions))
	for _, p := range req.Permissions {
		permissions = append(permissions, models.Permission(p))
	}

	var membership *models.TeamMember
	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		membership, err = models.GrantTeamMember(tx, user.ID, member.ID, permissions)
		if err != nil {
			return err
		}
		return models.Notify(tx, member.ID, models.NotificationTeamAdded,
			"Added to a team", "You were added as a manager of an artist", "/artists")
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrMemberExists):
			return utils.ErrorResponse(c, fiber.StatusConflict, "This user is already on your team")
		case errors.Is(err, models.ErrNoPermissions):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "At least one permission is required")
		case errors.Is(err, models.ErrUnknownPermission):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown permission tag")
		default:
			utils.LogError("team_grant_failed", err, map[string]interface{}{
				"artist_id": user.ID,
				"member_id": member.ID,
			})
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add team member")
		}
	}

	utils.LogEvent("team_member_added", map[string]interface{}{
		"artist_id": user.ID,
		"member_id": member.ID,
	})

	return c.JSON(fiber.Map{
		"message": "Manager added successfully",
		"member":  membership,
	})
}

// RemoveMember revokes a delegation. Unconditionally idempotent; removing a
// member who was never on the team is still success.
func (tc *TeamController) RemoveMember(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	memberID := utils.ParseUint(c.Params("memberId"))
	if memberID == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid member id")
	}

	if err := models.RevokeTeamMember(tc.DB, user.ID, memberID); err != nil {
		tc.Logger.Printf("team revoke failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to remove team member")
	}

	return c.JSON(fiber.Map{"message": "Manager removed successfully"})
}

// ListTeam returns everyone managing the caller.
func (tc *TeamController) ListTeam(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	members, err := models.ListTeamByArtist(tc.DB, user.ID)
	if err != nil {
		tc.Logger.Printf("team list failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch team")
	}

	entries := make([]TeamMemberEntry, 0, len(members))
	for _, m := range members {
		var member models.User
		if err := tc.DB.Preload("Profile").First(&member, m.MemberID).Error; err != nil {
			continue
		}
		var photoURL *string
		if member.Profile != nil {
			photoURL = member.Profile.PhotoURL
		}
		entries = append(entries, TeamMemberEntry{
			ID:          m.ID,
			MemberID:    m.MemberID,
			Role:        m.Role,
			Permissions: m.Permissions,
			Name:        member.Name,
			Email:       member.Email,
			PhotoURL:    photoURL,
		})
	}

	return c.JSON(fiber.Map{"members": entries})
}

// ListManagedArtists returns every artist the caller manages, with the
// permissions granted for each.
func (tc *TeamController) ListManagedArtists(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	memberships, err := models.ListTeamsByManager(tc.DB, user.ID)
	if err != nil {
		tc.Logger.Printf("artist list failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch artists")
	}

	entries := make([]ManagedArtistEntry, 0, len(memberships))
	for _, m := range memberships {
		var artist models.User
		if err := tc.DB.First(&artist, m.ArtistID).Error; err != nil {
			continue
		}
		entries = append(entries, ManagedArtistEntry{
			ID:          artist.ID,
			Name:        artist.Name,
			Email:       artist.Email,
			Role:        artist.Role,
			Permissions: m.Permissions,
		})
	}

	return c.JSON(fiber.Map{"artists": entries})
}
