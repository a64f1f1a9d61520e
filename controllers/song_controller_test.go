package controller_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type songBody struct {
	Song struct {
		ID     uint   `json:"id"`
		Title  string `json:"title"`
		Status string `json:"status"`
	} `json:"song"`
}

type songListBody struct {
	Songs []struct {
		ID    uint   `json:"id"`
		Title string `json:"title"`
	} `json:"songs"`
}

func createSong(t *testing.T, client *testClient, title string) uint {
	t.Helper()
	resp := client.do(fiber.MethodPost, "/api/v1/songs/", fiber.Map{"title": title})
	wantStatus(t, resp, fiber.StatusCreated)
	var body songBody
	decodeBody(t, resp, &body)
	if body.Song.ID == 0 {
		t.Fatal("created song has no id")
	}
	return body.Song.ID
}

func TestSongOwnerCRUD(t *testing.T) {
	app, _ := setupApp(t)
	ana := register(t, app, "ana@example.com", "Ana", "artist")

	id := createSong(t, ana, "First Demo")

	resp := ana.do(fiber.MethodGet, "/api/v1/songs/", nil)
	wantStatus(t, resp, fiber.StatusOK)
	var list songListBody
	decodeBody(t, resp, &list)
	if len(list.Songs) != 1 || list.Songs[0].Title != "First Demo" {
		t.Fatalf("songs = %+v, want [First Demo]", list.Songs)
	}

	resp = ana.do(fiber.MethodGet, songPath(id), nil)
	wantStatus(t, resp, fiber.StatusOK)
	var got songBody
	decodeBody(t, resp, &got)
	if got.Song.Status != "demo" {
		t.Errorf("status = %q, want demo by default", got.Song.Status)
	}

	resp = ana.do(fiber.MethodPut, songPath(id), fiber.Map{"title": "First Single", "status": "released"})
	wantStatus(t, resp, fiber.StatusOK)
	decodeBody(t, resp, &got)
	if got.Song.Title != "First Single" || got.Song.Status != "released" {
		t.Errorf("after update = %+v", got.Song)
	}

	wantStatus(t, ana.do(fiber.MethodDelete, songPath(id), nil), fiber.StatusOK)
	resp = ana.do(fiber.MethodGet, songPath(id), nil)
	wantStatus(t, resp, fiber.StatusNotFound)
}

func TestSongRejectsUnknownStatus(t *testing.T) {
	app, _ := setupApp(t)
	ana := register(t, app, "ana@example.com", "Ana", "artist")

	resp := ana.do(fiber.MethodPost, "/api/v1/songs/", fiber.Map{"title": "Weird", "status": "platinum"})
	wantStatus(t, resp, fiber.StatusBadRequest)
}

// Catalogs are private per owner: another user's song id reads as absent.
func TestSongScopedToOwner(t *testing.T) {
	app, _ := setupApp(t)
	ana := register(t, app, "ana@example.com", "Ana", "artist")
	bob := register(t, app, "bob@example.com", "Bob", "artist")

	id := createSong(t, ana, "Private Track")

	resp := bob.do(fiber.MethodGet, songPath(id), nil)
	wantStatus(t, resp, fiber.StatusNotFound)

	resp = bob.do(fiber.MethodGet, "/api/v1/songs/", nil)
	wantStatus(t, resp, fiber.StatusOK)
	var list songListBody
	decodeBody(t, resp, &list)
	if len(list.Songs) != 0 {
		t.Fatalf("songs = %+v, want none", list.Songs)
	}
}

// With an active context and view_catalog, the manager reads the artist's
// catalog, but every write path stays closed to them.
func TestSongDelegatedReadOnly(t *testing.T) {
	app, db := setupApp(t)

	artist := register(t, app, "ana@example.com", "Ana", "artist")
	manager := register(t, app, "max@example.com", "Max", "manager")
	befriend(t, artist, manager, "max@example.com")

	artistID := userID(t, db, "ana@example.com")
	managerID := userID(t, db, "max@example.com")
	wantStatus(t, artist.do(fiber.MethodPost, "/api/v1/team", grantBody(managerID, "view_catalog")), fiber.StatusOK)

	id := createSong(t, artist, "Shared Demo")

	wantStatus(t, manager.do(fiber.MethodPost, "/api/v1/context", fiber.Map{"artist_id": artistID}), fiber.StatusOK)

	resp := manager.do(fiber.MethodGet, "/api/v1/songs/", nil)
	wantStatus(t, resp, fiber.StatusOK)
	var list songListBody
	decodeBody(t, resp, &list)
	if len(list.Songs) != 1 || list.Songs[0].ID != id {
		t.Fatalf("songs = %+v, want the artist's song", list.Songs)
	}

	wantStatus(t, manager.do(fiber.MethodGet, songPath(id), nil), fiber.StatusOK)

	wantStatus(t, manager.do(fiber.MethodPost, "/api/v1/songs/", fiber.Map{"title": "Sneaky"}), fiber.StatusForbidden)
	wantStatus(t, manager.do(fiber.MethodPut, songPath(id), fiber.Map{"title": "Hijacked"}), fiber.StatusForbidden)
	wantStatus(t, manager.do(fiber.MethodDelete, songPath(id), nil), fiber.StatusForbidden)

	// The song is untouched
	resp = artist.do(fiber.MethodGet, songPath(id), nil)
	wantStatus(t, resp, fiber.StatusOK)
	var got songBody
	decodeBody(t, resp, &got)
	if got.Song.Title != "Shared Demo" {
		t.Errorf("title = %q, want Shared Demo", got.Song.Title)
	}
}

// Without view_catalog the context grants nothing over the catalog.
func TestSongDelegatedWithoutCatalogPermission(t *testing.T) {
	app, db := setupApp(t)

	artist := register(t, app, "ana@example.com", "Ana", "artist")
	manager := register(t, app, "max@example.com", "Max", "manager")
	befriend(t, artist, manager, "max@example.com")

	artistID := userID(t, db, "ana@example.com")
	managerID := userID(t, db, "max@example.com")
	wantStatus(t, artist.do(fiber.MethodPost, "/api/v1/team", grantBody(managerID, "view_profile")), fiber.StatusOK)
	createSong(t, artist, "Hidden Track")

	wantStatus(t, manager.do(fiber.MethodPost, "/api/v1/context", fiber.Map{"artist_id": artistID}), fiber.StatusOK)

	resp := manager.do(fiber.MethodGet, "/api/v1/songs/", nil)
	wantStatus(t, resp, fiber.StatusForbidden)
}

func songPath(id uint) string {
	return fmt.Sprintf("/api/v1/songs/%d", id)
}
