package controller_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"tunehub/config"
)

// uploadFile posts a multipart body with one "file" part of the given
// content type, carrying the client's cookies.
func uploadFile(t *testing.T, client *testClient, filename, contentType string, content []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	for name, value := range client.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := client.app.Test(req, -1)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return resp
}

func TestUploadProfilePhoto(t *testing.T) {
	app, _ := setupApp(t)
	ana := register(t, app, "ana@example.com", "Ana", "artist")

	resp := uploadFile(t, ana, "me.png", "image/png", []byte("fake png bytes"))
	wantStatus(t, resp, fiber.StatusOK)
	var body struct {
		PhotoURL string `json:"photo_url"`
	}
	decodeBody(t, resp, &body)
	if !strings.HasPrefix(body.PhotoURL, "/uploads/profiles/profile-") {
		t.Fatalf("photo_url = %q", body.PhotoURL)
	}

	// The file landed in the upload dir
	stored := filepath.Join(config.AppConfig.UploadDir, filepath.Base(body.PhotoURL))
	data, err := os.ReadFile(stored)
	if err != nil {
		t.Fatalf("stored file: %v", err)
	}
	if string(data) != "fake png bytes" {
		t.Errorf("stored content = %q", data)
	}

	// And the profile now points at it
	meResp := ana.do(fiber.MethodGet, "/auth/me", nil)
	wantStatus(t, meResp, fiber.StatusOK)
	var me struct {
		User struct {
			PhotoURL *string `json:"photo_url"`
		} `json:"user"`
	}
	decodeBody(t, meResp, &me)
	if me.User.PhotoURL == nil || *me.User.PhotoURL != body.PhotoURL {
		t.Errorf("me photo_url = %v, want %q", me.User.PhotoURL, body.PhotoURL)
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	app, _ := setupApp(t)
	ana := register(t, app, "ana@example.com", "Ana", "artist")

	resp := uploadFile(t, ana, "notes.txt", "text/plain", []byte("not an image"))
	wantStatus(t, resp, fiber.StatusBadRequest)
}

func TestUploadRejectsMissingFile(t *testing.T) {
	app, _ := setupApp(t)
	ana := register(t, app, "ana@example.com", "Ana", "artist")

	resp := ana.do(fiber.MethodPost, "/api/v1/upload", fiber.Map{"file": "nope"})
	wantStatus(t, resp, fiber.StatusBadRequest)
}

func TestUploadForbiddenInDelegatedContext(t *testing.T) {
	app, db := setupApp(t)

	artist := register(t, app, "ana@example.com", "Ana", "artist")
	manager := register(t, app, "max@example.com", "Max", "manager")
	befriend(t, artist, manager, "max@example.com")

	artistID := userID(t, db, "ana@example.com")
	managerID := userID(t, db, "max@example.com")
	wantStatus(t, artist.do(fiber.MethodPost, "/api/v1/team", grantBody(managerID, "edit_profile")), fiber.StatusOK)
	wantStatus(t, manager.do(fiber.MethodPost, "/api/v1/context", fiber.Map{"artist_id": artistID}), fiber.StatusOK)

	resp := uploadFile(t, manager, "me.png", "image/png", []byte("fake png bytes"))
	wantStatus(t, resp, fiber.StatusForbidden)
}
