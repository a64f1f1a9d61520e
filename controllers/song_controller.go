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

type SongRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Status       string     `json:"status" validate:"omitempty,oneof=demo registered released"`
	ISRC         *string    `json:"isrc"`
	ISWC         *string    `json:"iswc"`
	UPC          *string    `json:"upc"`
	Genre        *string    `json:"genre"`
	Subgenre     *string    `json:"subgenre"`
	Duration     *string    `json:"duration"`
	CreationDate *time.Time `json:"creation_date"`
	ReleaseDate  *time.Time `json:"release_date"`
	Lyrics       *string    `json:"lyrics"`
	CoverURL     *string    `json:"cover_url"`
}

type SongController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewSongController(db *gorm.DB, logger *log.Logger) *SongController {
	return &SongController{DB: db, Logger: logger}
}

// List returns the effective subject's catalog: the viewing artist's songs
// when a context with catalog access is active, the caller's own otherwise.
func (sc *SongController) List(c *fiber.Ctx) error {
	scope := middleware.CurrentScope(c)
	if !scope.Can(models.PermViewCatalog) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "You don't have access to this catalog")
	}

	var songs []models.Song
	if err := sc.DB.Where("owner_id = ?", scope.SubjectID()).
		Order("created_at DESC").
		Find(&songs).Error; err != nil {
		sc.Logger.Printf("song list failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch songs")
	}

	return c.JSON(fiber.Map{"songs": songs})
}

// Create adds a song to the caller's own catalog. Delegated contexts cannot
// write songs, whatever their permission set says.
func (sc *SongController) Create(c *fiber.Ctx) error {
	scope := middleware.CurrentScope(c)
	if scope.ActingForArtist() {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Delegated write access to songs is not supported")
	}

	var req SongRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	if req.Status == "" {
		req.Status = models.SongStatusDemo
	}

	song := models.Song{
		OwnerID:      scope.User.ID,
		Title:        req.Title,
		Status:       req.Status,
		ISRC:         req.ISRC,
		ISWC:         req.ISWC,
		UPC:          req.UPC,
		Genre:        req.Genre,
		Subgenre:     req.Subgenre,
		Duration:     req.Duration,
		CreationDate: req.CreationDate,
		ReleaseDate:  req.ReleaseDate,
		Lyrics:       req.Lyrics,
		CoverURL:     req.CoverURL,
	}
	if err := sc.DB.Create(&song).Error; err != nil {
		utils.LogError("song_create_failed", err, map[string]interface{}{
			"owner_id": scope.User.ID,
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create song")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"song": song})
}

// Get fetches one song from the effective subject's catalog. A song outside
// that catalog does not exist as far as the caller is concerned.
func (sc *SongController) Get(c *fiber.Ctx) error {
	scope := middleware.CurrentScope(c)
	if !scope.Can(models.PermViewCatalog) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "You don't have access to this catalog")
	}

	song, err := sc.findSong(c, scope.SubjectID())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"song": song})
}

// Update rewrites a song. The capability check is explicit so the owner-only
// policy lives in one place.
func (sc *SongController) Update(c *fiber.Ctx) error {
	scope := middleware.CurrentScope(c)
	if !scope.Can(models.PermViewCatalog) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "You don't have access to this catalog")
	}

	song, err := sc.findSong(c, scope.SubjectID())
	if err != nil {
		return err
	}
	if !scope.CanWriteSongs(song.OwnerID) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Delegated write access to songs is not supported")
	}

	var req SongRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	if req.Status == "" {
		req.Status = song.Status
	}

	song.Title = req.Title
	song.Status = req.Status
	song.ISRC = req.ISRC
	song.ISWC = req.ISWC
	song.UPC = req.UPC
	song.Genre = req.Genre
	song.Subgenre = req.Subgenre
	song.Duration = req.Duration
	song.CreationDate = req.CreationDate
	song.ReleaseDate = req.ReleaseDate
	song.Lyrics = req.Lyrics
	song.CoverURL = req.CoverURL

	if err := sc.DB.Save(song).Error; err != nil {
		sc.Logger.Printf("song update failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update song")
	}

	return c.JSON(fiber.Map{"song": song})
}

// Delete removes a song, owner only.
func (sc *SongController) Delete(c *fiber.Ctx) error {
	scope := middleware.CurrentScope(c)
	if !scope.Can(models.PermViewCatalog) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "You don't have access to this catalog")
	}

	song, err := sc.findSong(c, scope.SubjectID())
	if err != nil {
		return err
	}
	if !scope.CanWriteSongs(song.OwnerID) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Delegated write access to songs is not supported")
	}

	if err := sc.DB.Delete(song).Error; err != nil {
		utils.LogError("song_delete_failed", err, map[string]interface{}{
			"song_id":  song.ID,
			"owner_id": song.OwnerID,
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete song")
	}

	return c.JSON(fiber.Map{"message": "Song deleted successfully"})
}

// findSong resolves :id within one owner's catalog or replies 404 itself.
func (sc *SongController) findSong(c *fiber.Ctx, ownerID uint) (*models.Song, error) {
	id := utils.ParseUint(c.Params("id"))
	var song models.Song
	err := sc.DB.Where("id = ? AND owner_id = ?", id, ownerID).First(&song).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorResponse(c, fiber.StatusNotFound, "Song not found")
		}
		sc.Logger.Printf("song lookup failed: %v", err)
		return nil, utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch song")
	}
	return &song, nil
}
