package middleware

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loyalty-mission-system/services"
)

func newAuthApp(tokens *services.TokenService) *fiber.App {
	app := fiber.New()
	secured := app.Group("", RequireAuth(tokens))
	secured.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"member_id": MemberID(c)})
	})
	owner := secured.Group("/members/:memberId", RequireSelf())
	owner.Get("/missions", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, authorization string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp.StatusCode, body
}

func TestRequireAuthMissingHeader(t *testing.T) {
	app := newAuthApp(services.NewTokenService([]byte("test-secret")))

	status, body := doRequest(t, app, http.MethodGet, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "AUTH001", body["errorCode"])

	status, body = doRequest(t, app, http.MethodGet, "/whoami", "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "AUTH001", body["errorCode"])
}

func TestRequireAuthBadToken(t *testing.T) {
	tokens := services.NewTokenService([]byte("test-secret"))
	app := newAuthApp(tokens)

	status, body := doRequest(t, app, http.MethodGet, "/whoami", "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "AUTH002", body["errorCode"])

	// Signed with a different secret.
	other := services.NewTokenService([]byte("other-secret"))
	forged, err := other.Sign(1, "a@b.com", time.Hour)
	require.NoError(t, err)

	status, body = doRequest(t, app, http.MethodGet, "/whoami", "Bearer "+forged)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "AUTH002", body["errorCode"])
}

func TestRequireAuthExpiredToken(t *testing.T) {
	tokens := services.NewTokenService([]byte("test-secret"))
	app := newAuthApp(tokens)

	expired, err := tokens.Sign(1, "a@b.com", -time.Minute)
	require.NoError(t, err)

	status, body := doRequest(t, app, http.MethodGet, "/whoami", "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "AUTH003", body["errorCode"])
}

func TestRequireAuthBindsIdentity(t *testing.T) {
	tokens := services.NewTokenService([]byte("test-secret"))
	app := newAuthApp(tokens)

	token, err := tokens.Sign(42, "a@b.com", time.Hour)
	require.NoError(t, err)

	status, body := doRequest(t, app, http.MethodGet, "/whoami", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(42), body["member_id"])
}

func TestRequireSelf(t *testing.T) {
	tokens := services.NewTokenService([]byte("test-secret"))
	app := newAuthApp(tokens)

	token, err := tokens.Sign(42, "a@b.com", time.Hour)
	require.NoError(t, err)

	status, _ := doRequest(t, app, http.MethodGet, "/members/42/missions", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)

	status, body := doRequest(t, app, http.MethodGet, "/members/7/missions", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "AUTH006", body["errorCode"])

	status, body = doRequest(t, app, http.MethodGet, "/members/not-a-number/missions", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "AUTH005", body["errorCode"])
}

func TestRequireSelfRunsAfterAuth(t *testing.T) {
	app := newAuthApp(services.NewTokenService([]byte("test-secret")))

	// Without a token the request never reaches the ownership check.
	status, body := doRequest(t, app, http.MethodGet, fmt.Sprintf("/members/%d/missions", 42), "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "AUTH001", body["errorCode"])
}
