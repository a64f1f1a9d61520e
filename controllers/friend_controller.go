package controller

import (
	"errors"
	"log"

	"github.com/badoux/checkmail"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tunehub/middleware"
	"tunehub/models"
	"tunehub/utils"
)

type FriendRequestRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type FriendRespondRequest struct {
	FriendshipID uint   `json:"friendship_id" validate:"required"`
	Action       string `json:"action" validate:"required,oneof=accept reject"`
}

// FriendEntry is one friendship from the caller's point of view.
type FriendEntry struct {
	ID            uint    `json:"id"`
	FriendID      uint    `json:"friend_id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Role          string  `json:"role"`
	PhotoURL      *string `json:"photo_url"`
	Status        string  `json:"status"`
	RequestedByMe bool    `json:"requested_by_me"`
}

type FriendController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewFriendController(db *gorm.DB, logger *log.Logger) *FriendController {
	return &FriendController{DB: db, Logger: logger}
}

// SendRequest creates a pending friendship towards the user with the given
// email and notifies them, in one transaction.
func (fc *FriendController) SendRequest(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req FriendRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	if err := checkmail.ValidateFormat(req.Email); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "email must be a valid email")
	}

	var target models.User
	if err := fc.DB.Where("email = ?", req.Email).First(&target).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found")
	}

	var friendship *models.Friendship
	err := fc.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		friendship, err = models.RequestFriendship(tx, user.ID, target.ID)
		if err != nil {
			return err
		}
		return models.Notify(tx, target.ID, models.NotificationFriendRequest,
			"New friend request", "You have a new friend request", "/friends")
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrSelfFriend):
			return utils.ErrorResponse(c, fiber.StatusConflict, "You cannot add yourself")
		case errors.Is(err, models.ErrFriendshipExists):
			return utils.ErrorResponse(c, fiber.StatusConflict, "A friend request already exists")
		default:
			utils.LogError("friend_request_failed", err, map[string]interface{}{
				"requester_id": user.ID,
				"receiver_id":  target.ID,
			})
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to send friend request")
		}
	}

	return c.JSON(fiber.Map{
		"message":    "Friend request sent",
		"friendship": friendship,
	})
}

// Respond accepts or rejects a pending request addressed to the caller.
// Accepting notifies the requester in the same transaction; rejecting
// removes the row so the pair can be re-requested.
func (fc *FriendController) Respond(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req FriendRespondRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	if req.Action == "reject" {
		if err := models.RejectFriendship(fc.DB, req.FriendshipID, user.ID); err != nil {
			if errors.Is(err, models.ErrRequestNotFound) {
				return utils.ErrorResponse(c, fiber.StatusNotFound, "Friend request not found")
			}
			fc.Logger.Printf("friend reject failed: %v", err)
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to respond to friend request")
		}
		return c.JSON(fiber.Map{"message": "Friend request rejected"})
	}

	err := fc.DB.Transaction(func(tx *gorm.DB) error {
		friendship, err := models.AcceptFriendship(tx, req.FriendshipID, user.ID)
		if err != nil {
			return err
		}
		return models.Notify(tx, friendship.RequesterID, models.NotificationFriendAccepted,
			"Request accepted", "Your friend request was accepted", "/friends")
	})
	if err != nil {
		if errors.Is(err, models.ErrRequestNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Friend request not found")
		}
		fc.Logger.Printf("friend accept failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to respond to friend request")
	}

	return c.JSON(fiber.Map{"message": "Friend request accepted"})
}

// List returns every friendship involving the caller, each seen from the
// caller's side.
func (fc *FriendController) List(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	friendships, err := models.ListFriendships(fc.DB, user.ID)
	if err != nil {
		fc.Logger.Printf("friend list failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch friends")
	}

	entries := make([]FriendEntry, 0, len(friendships))
	for _, f := range friendships {
		otherID := f.ReceiverID
		requestedByMe := true
		if f.ReceiverID == user.ID {
			otherID = f.RequesterID
			requestedByMe = false
		}

		var other models.User
		if err := fc.DB.Preload("Profile").First(&other, otherID).Error; err != nil {
			continue
		}
		var photoURL *string
		if other.Profile != nil {
			photoURL = other.Profile.PhotoURL
		}

		entries = append(entries, FriendEntry{
			ID:            f.ID,
			FriendID:      other.ID,
			Name:          other.Name,
			Email:         other.Email,
			Role:          other.Role,
			PhotoURL:      photoURL,
			Status:        f.Status,
			RequestedByMe: requestedByMe,
		})
	}

	return c.JSON(fiber.Map{
		"friends":         entries,
		"current_user_id": user.ID,
	})
}
