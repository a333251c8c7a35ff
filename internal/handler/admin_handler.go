package handler

import (
	"github.com/Tron16/SolarScheduler/internal/domain"
	"github.com/Tron16/SolarScheduler/internal/port"
	"github.com/Tron16/SolarScheduler/internal/service"
	"github.com/gofiber/fiber/v3"
	"golang.org/x/sync/errgroup"
)

// AdminHandler handles the user-management side of the admin console.
type AdminHandler struct {
	users       port.UserStore
	roles       port.RoleStore
	auth        *service.AuthService
	predictions port.PredictionStore
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(users port.UserStore, roles port.RoleStore, auth *service.AuthService, predictions port.PredictionStore) *AdminHandler {
	return &AdminHandler{users: users, roles: roles, auth: auth, predictions: predictions}
}

// Register sets up the admin user and training routes.
func (h *AdminHandler) Register(router fiber.Router) {
	users := router.Group("/users")
	users.Get("/", h.ListUsers)
	users.Put("/:id/role", h.SetRole)

	router.Get("/training", h.ListTrainingSamples)
}

// ListUsers returns every account with its admin flag. Profiles and the
// admin role set are independent queries, fetched in parallel.
func (h *AdminHandler) ListUsers(c fiber.Ctx) error {
	var (
		users    []domain.User
		adminIDs []string
	)

	g, ctx := errgroup.WithContext(c.Context())
	g.Go(func() error {
		var err error
		users, err = h.users.ListUsers(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		adminIDs, err = h.roles.ListUserIDsWithRole(ctx, domain.RoleAdmin)
		return err
	})
	if err := g.Wait(); err != nil {
		return fail(c, err)
	}

	adminSet := make(map[string]bool, len(adminIDs))
	for _, id := range adminIDs {
		adminSet[id] = true
	}

	out := make([]domain.AdminUser, len(users))
	for i, u := range users {
		out[i] = domain.AdminUser{User: u, IsAdmin: adminSet[u.ID]}
	}

	return c.JSON(fiber.Map{
		"users": out,
		"count": len(out),
	})
}

// SetRole grants or revokes the admin role for a user.
func (h *AdminHandler) SetRole(c fiber.Ctx) error {
	var in struct {
		Role string `json:"role"`
	}
	if err := c.Bind().JSON(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	if in.Role == "" {
		return badRequest(c, "role is required")
	}

	if err := h.auth.SetUserRole(c.Context(), c.Params("id"), in.Role); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"ok": true})
}

// ListTrainingSamples returns all submitted training samples.
func (h *AdminHandler) ListTrainingSamples(c fiber.Ctx) error {
	samples, err := h.predictions.ListTrainingSamples(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"samples": samples,
		"count":   len(samples),
	})
}
