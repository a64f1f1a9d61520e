package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tunehub/config"
	"tunehub/middleware"
	"tunehub/models"
	"tunehub/utils"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,max=100"`
	Role     string `json:"role" validate:"omitempty,oneof=artist manager"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionUser is the canonical user record returned to the client.
type SessionUser struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	PhotoURL *string `json:"photo_url"`
}

type AuthController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewAuthController(db *gorm.DB, logger *log.Logger) *AuthController {
	return &AuthController{DB: db, Logger: logger}
}

// Register creates an account. Artists also get an empty profile row in the
// same transaction, so a partially-registered artist can never exist.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	if req.Role == "" {
		req.Role = models.RoleArtist
	}

	var existing models.User
	if err := ac.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Name:         req.Name,
		Role:         req.Role,
	}

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if user.Role == models.RoleArtist {
			return tx.Create(&models.ArtistProfile{UserID: user.ID}).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrorResponse(c, fiber.StatusConflict, "Email already registered")
		}
		utils.LogError("registration_failed", err, map[string]interface{}{
			"email": req.Email,
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	token, err := utils.GenerateAuthToken(user.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate token")
	}
	setAuthCookie(c, token)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    sessionUserOf(&user, nil),
	})
}

// Login verifies credentials and issues the 7-day identity cookie. Bad email
// and bad password are indistinguishable to the caller.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := ac.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	token, err := utils.GenerateAuthToken(user.ID)
	if err != nil {
		ac.Logger.Printf("token generation failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate token")
	}
	setAuthCookie(c, token)

	return c.JSON(fiber.Map{
		"user": sessionUserOf(&user, nil),
	})
}

// Logout clears the identity cookie and the viewing-context cookie in one
// response. Leaving either behind would be an invariant violation: a context
// with no owner, or an authenticated session with a dangling context.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	expireCookie(c, middleware.AuthCookieName)
	expireCookie(c, middleware.ContextCookieName)
	return c.JSON(fiber.Map{"success": true})
}

// Me returns the authenticated user, never the viewing artist.
func (ac *AuthController) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var profile models.ArtistProfile
	var photoURL *string
	if err := ac.DB.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
		photoURL = profile.PhotoURL
	}

	return c.JSON(fiber.Map{
		"user": sessionUserOf(user, photoURL),
	})
}

func sessionUserOf(user *models.User, photoURL *string) SessionUser {
	return SessionUser{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		PhotoURL: photoURL,
	}
}

func setAuthCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(utils.AuthTokenTTL / time.Second),
		HTTPOnly: true,
		Secure:   config.AppConfig.Environment == "production",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func setContextCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.ContextCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(utils.ContextTokenTTL / time.Second),
		HTTPOnly: true,
		Secure:   config.AppConfig.Environment == "production",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func expireCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
