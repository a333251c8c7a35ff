package middleware

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/Tron16/SolarScheduler/internal/domain"
	"github.com/Tron16/SolarScheduler/internal/port"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	contexts map[string]*domain.UserContext
}

func (r *fakeResolver) Resolve(_ context.Context, rawToken string) (*domain.UserContext, error) {
	uc, ok := r.contexts[rawToken]
	if !ok {
		return nil, port.ErrInvalidToken
	}
	return uc, nil
}

func testApp(resolver *fakeResolver) *fiber.App {
	app := fiber.New()

	api := app.Group("/api", RequireAuth(resolver))
	api.Get("/me", func(c fiber.Ctx) error {
		return c.JSON(GetUserContext(c))
	})

	admin := api.Group("/admin", RequireAdmin())
	admin.Get("/users", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	return app
}

func TestRequireAuth(t *testing.T) {
	resolver := &fakeResolver{contexts: map[string]*domain.UserContext{
		"valid-token": {UserID: "u1", Email: "alice@example.com", SessionID: "s1"},
	}}
	app := testApp(resolver)

	tests := []struct {
		name       string
		target     string
		authHeader string
		wantStatus int
	}{
		{
			name:       "valid bearer token passes",
			target:     "/api/me",
			authHeader: "Bearer valid-token",
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "missing header is 401",
			target:     "/api/me",
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "unknown token is 401",
			target:     "/api/me",
			authHeader: "Bearer nope",
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "malformed header is 401",
			target:     "/api/me",
			authHeader: "valid-token",
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "query token works for header-less clients",
			target:     "/api/me?token=valid-token",
			wantStatus: fiber.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRequireAuth_InjectsUserContext(t *testing.T) {
	resolver := &fakeResolver{contexts: map[string]*domain.UserContext{
		"valid-token": {UserID: "u1", Email: "alice@example.com", SessionID: "s1", IsAdmin: true},
	}}
	app := testApp(resolver)

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"user_id":"u1"`)
	assert.Contains(t, string(body), `"session_id":"s1"`)
}

func TestRequireAdmin(t *testing.T) {
	resolver := &fakeResolver{contexts: map[string]*domain.UserContext{
		"admin-token": {UserID: "u1", SessionID: "s1", IsAdmin: true},
		"user-token":  {UserID: "u2", SessionID: "s2", IsAdmin: false},
	}}
	app := testApp(resolver)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "admin passes",
			authHeader: "Bearer admin-token",
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "authenticated non-admin gets 403",
			authHeader: "Bearer user-token",
			wantStatus: fiber.StatusForbidden,
		},
		{
			name:       "anonymous gets 401, not 403",
			wantStatus: fiber.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/admin/users", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestGetUserContext_MissingIsNil(t *testing.T) {
	app := fiber.New()
	app.Get("/open", func(c fiber.Ctx) error {
		if GetUserContext(c) != nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/open", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
