package controller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tunehub/config"
	"tunehub/models"
	"tunehub/routes"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig.JWTSecret = "test-secret"
	config.AppConfig.Environment = "test"
	config.AppConfig.RateLimitLogin = 1000
	config.AppConfig.UploadDir = t.TempDir()
	config.AppConfig.Redis.Enabled = false

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := config.MigrateDB(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	app := fiber.New()
	routes.SetupRoutes(app, db)
	return app, db
}

// testClient drives the app like a cookie-keeping browser session.
type testClient struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func newClient(t *testing.T, app *fiber.App) *testClient {
	return &testClient{t: t, app: app, cookies: make(map[string]string)}
}

func (tc *testClient) do(method, path string, body interface{}) *http.Response {
	tc.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			tc.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, value := range tc.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := tc.app.Test(req, -1)
	if err != nil {
		tc.t.Fatalf("%s %s: %v", method, path, err)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Value == "" {
			delete(tc.cookies, cookie.Name)
		} else {
			tc.cookies[cookie.Name] = cookie.Value
		}
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("status = %d, want %d", resp.StatusCode, want)
	}
}

// register creates an account and returns a logged-in client for it.
func register(t *testing.T, app *fiber.App, email, name, role string) *testClient {
	t.Helper()
	client := newClient(t, app)
	resp := client.do(fiber.MethodPost, "/auth/register", fiber.Map{
		"email":    email,
		"password": "password123",
		"name":     name,
		"role":     role,
	})
	wantStatus(t, resp, fiber.StatusCreated)
	return client
}

// befriend runs the request/accept workflow between two sessions.
func befriend(t *testing.T, requester, receiver *testClient, receiverEmail string) {
	t.Helper()
	resp := requester.do(fiber.MethodPost, "/api/v1/friends/request", fiber.Map{"email": receiverEmail})
	wantStatus(t, resp, fiber.StatusOK)

	var friends struct {
		Friends []struct {
			ID     uint   `json:"id"`
			Status string `json:"status"`
		} `json:"friends"`
	}
	listResp := receiver.do(fiber.MethodGet, "/api/v1/friends", nil)
	wantStatus(t, listResp, fiber.StatusOK)
	decodeBody(t, listResp, &friends)
	if len(friends.Friends) == 0 {
		t.Fatal("receiver has no pending friendship")
	}

	resp = receiver.do(fiber.MethodPost, "/api/v1/friends/respond", fiber.Map{
		"friendship_id": friends.Friends[0].ID,
		"action":        "accept",
	})
	wantStatus(t, resp, fiber.StatusOK)
}

func userID(t *testing.T, db *gorm.DB, email string) uint {
	t.Helper()
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		t.Fatalf("load user %s: %v", email, err)
	}
	return user.ID
}

func grantBody(memberID uint, permissions ...string) fiber.Map {
	return fiber.Map{"member_id": memberID, "permissions": permissions}
}

func teamMemberPath(memberID uint) string {
	return fmt.Sprintf("/api/v1/team/%d", memberID)
}
