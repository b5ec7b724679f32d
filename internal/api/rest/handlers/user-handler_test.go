package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cliptube/user_service/internal/domain"
	"github.com/cliptube/user_service/internal/dto"
	"github.com/cliptube/user_service/internal/helper"
	"github.com/cliptube/user_service/internal/helper/utils"
	"github.com/cliptube/user_service/internal/repository"
	"github.com/cliptube/user_service/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubUploader struct{}

func (stubUploader) UploadLocalFile(_ context.Context, folder, localPath string) (string, error) {
	if localPath == "" {
		return "", nil
	}
	return "https://cdn.example.com/" + folder + "/img.jpg", nil
}

func setupApp(t *testing.T) (*fiber.App, services.UserService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Video{},
		&domain.Subscription{},
		&domain.WatchHistoryEntry{},
	))

	auth := helper.SetupAuth("access-secret", "refresh-secret", 15*time.Minute, 240*time.Hour)
	svc := services.NewUserService(
		repository.NewUserRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewWatchHistoryRepository(db),
		stubUploader{},
		nil,
		auth,
	)

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	NewUserHandler(svc, auth).SetupRoutes(app)

	return app, svc
}

func seedUser(t *testing.T, svc services.UserService) *dto.UserResponse {
	t.Helper()
	created, err := svc.Register(context.Background(), dto.RegisterRequest{
		FullName:   "Alice A",
		Email:      "a@x.com",
		UserName:   "alice",
		Password:   "p1-secret",
		AvatarPath: "/tmp/avatar.png",
	})
	require.NoError(t, err)
	return created
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}, mutate func(*http.Request)) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	return envelope
}

func cookieValue(resp *http.Response, name string) (string, bool) {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func TestLoginEndpoint_SetsCookiesAndEnvelope(t *testing.T) {
	app, svc := setupApp(t)
	seedUser(t, svc)

	resp := postJSON(t, app, "/api/users/login", fiber.Map{
		"userName": "alice",
		"password": "p1-secret",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	access, ok := cookieValue(resp, "accessToken")
	require.True(t, ok, "accessToken cookie missing")
	require.NotEmpty(t, access)
	refresh, ok := cookieValue(resp, "refreshToken")
	require.True(t, ok, "refreshToken cookie missing")
	require.NotEmpty(t, refresh)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, float64(200), envelope["statusCode"])

	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, access, data["accessToken"])
	assert.Equal(t, refresh, data["refreshToken"])

	user := data["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["userName"])
	_, hasPassword := user["password"]
	assert.False(t, hasPassword, "sanitized user must not carry a password field")
}

func TestLoginEndpoint_WrongPassword(t *testing.T) {
	app, svc := setupApp(t)
	seedUser(t, svc)

	resp := postJSON(t, app, "/api/users/login", fiber.Map{
		"userName": "alice",
		"password": "wrong",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, false, envelope["success"])
	assert.Nil(t, envelope["data"])
}

func TestCurrentUserEndpoint(t *testing.T) {
	app, svc := setupApp(t)
	seedUser(t, svc)

	login, err := svc.Login(dto.UserLogin{UserName: "alice", Password: "p1-secret"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/users/current-user", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	user := envelope["data"].(map[string]interface{})
	assert.Equal(t, "alice", user["userName"])
}

func TestRefreshTokenEndpoint_RotationAndReplay(t *testing.T) {
	app, svc := setupApp(t)
	seedUser(t, svc)

	login, err := svc.Login(dto.UserLogin{UserName: "alice", Password: "p1-secret"})
	require.NoError(t, err)

	// rotate via cookie
	req := httptest.NewRequest(http.MethodPost, "/api/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: login.RefreshToken})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// replaying the rotated-out token fails
	req = httptest.NewRequest(http.MethodPost, "/api/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: login.RefreshToken})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutEndpoint_ClearsSession(t *testing.T) {
	app, svc := setupApp(t)
	seedUser(t, svc)

	login, err := svc.Login(dto.UserLogin{UserName: "alice", Password: "p1-secret"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/users/logout", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	access, ok := cookieValue(resp, "accessToken")
	require.True(t, ok)
	assert.Empty(t, access, "logout must clear the access cookie")

	// the old refresh token is now revoked
	req = httptest.NewRequest(http.MethodPost, "/api/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: login.RefreshToken})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// the access token itself stays valid until expiry
	req = httptest.NewRequest(http.MethodGet, "/api/users/current-user", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChannelProfileEndpoint(t *testing.T) {
	app, svc := setupApp(t)
	seedUser(t, svc)

	login, err := svc.Login(dto.UserLogin{UserName: "alice", Password: "p1-secret"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/users/c/alice", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["subscriberCount"])
	assert.Equal(t, false, data["isSubscribed"])

	req = httptest.NewRequest(http.MethodGet, "/api/users/c/ghost", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
