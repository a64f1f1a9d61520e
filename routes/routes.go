package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	controller "tunehub/controllers"
	"tunehub/middleware"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := controller.NewAuthController(db, log.New(os.Stdout, "AUTH: ", log.Ldate|log.Ltime|log.Lshortfile))

	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints
	auth.Post("/register", authController.Register)
	auth.Post("/login", middleware.LoginRateLimiter(), authController.Login)

	// Protected auth endpoints
	protectedAuth := auth.Group("", middleware.Protected(db))
	protectedAuth.Post("/logout", authController.Logout)
	protectedAuth.Get("/me", authController.Me)
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB) {
	contextController := controller.NewContextController(db, log.New(os.Stdout, "CONTEXT: ", log.LstdFlags))
	friendController := controller.NewFriendController(db, log.New(os.Stdout, "FRIEND: ", log.LstdFlags))
	teamController := controller.NewTeamController(db, log.New(os.Stdout, "TEAM: ", log.LstdFlags))
	songController := controller.NewSongController(db, log.New(os.Stdout, "SONG: ", log.LstdFlags))
	profileController := controller.NewProfileController(db, log.New(os.Stdout, "PROFILE: ", log.LstdFlags))
	uploadController := controller.NewUploadController(db, log.New(os.Stdout, "UPLOAD: ", log.LstdFlags))
	notificationController := controller.NewNotificationController(db, log.New(os.Stdout, "NOTIFY: ", log.LstdFlags))

	// Every API request resolves identity first, then overlays the viewing
	// context. Both are re-evaluated per request.
	api := app.Group("/api/v1", middleware.Protected(db), middleware.WithScope(db), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Viewing context
	api.Post("/context", contextController.SetContext)
	api.Get("/context", contextController.GetContext)
	api.Delete("/context", contextController.ClearContext)

	// Friends
	friends := api.Group("/friends")
	friends.Get("/", friendController.List)
	friends.Post("/request", friendController.SendRequest)
	friends.Post("/respond", friendController.Respond)

	// Team (delegation registry workflow)
	team := api.Group("/team")
	team.Get("/", teamController.ListTeam)
	team.Post("/", teamController.AddMember)
	team.Delete("/:memberId", teamController.RemoveMember)
	api.Get("/artists", teamController.ListManagedArtists)

	// Song catalog
	songs := api.Group("/songs")
	songs.Get("/", songController.List)
	songs.Post("/", songController.Create)
	songs.Get("/:id", songController.Get)
	songs.Put("/:id", songController.Update)
	songs.Delete("/:id", songController.Delete)

	// Artist profile
	api.Get("/profile", profileController.Get)
	api.Post("/profile", profileController.Save)
	api.Post("/upload", uploadController.ProfilePhoto)

	// Notifications
	api.Get("/notifications", notificationController.List)
}

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app, db)
	SetupAPIRoutes(app, db)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
