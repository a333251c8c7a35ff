package handler

import (
	"strings"

	"github.com/Tron16/SolarScheduler/internal/middleware"
	"github.com/Tron16/SolarScheduler/internal/service"
	"github.com/gofiber/fiber/v3"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register sets up the public auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	auth := router.Group("/auth")
	auth.Post("/signup", h.SignUp)
	auth.Post("/signin", h.SignIn)
	auth.Post("/password/forgot", h.ForgotPassword)
	auth.Post("/password/reset", h.ResetPassword)
	auth.Post("/verify", h.VerifyEmail)
}

// RegisterProtected sets up the session-scoped auth routes.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	auth := router.Group("/auth")
	auth.Post("/signout", h.SignOut)
	auth.Get("/me", h.Me)
}

// SignUp registers a new account.
func (h *AuthHandler) SignUp(c fiber.Ctx) error {
	var in service.SignUpInput
	if err := c.Bind().JSON(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	if in.Email == "" || in.Password == "" {
		return badRequest(c, "email and password are required")
	}

	result, err := h.auth.SignUp(c.Context(), in, c.IP(), c.Get("User-Agent"))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// SignIn authenticates with email and password.
func (h *AuthHandler) SignIn(c fiber.Ctx) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	if in.Email == "" || in.Password == "" {
		return badRequest(c, "email and password are required")
	}

	result, err := h.auth.SignIn(c.Context(), in.Email, in.Password, c.IP(), c.Get("User-Agent"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(result)
}

// SignOut invalidates the caller's session.
func (h *AuthHandler) SignOut(c fiber.Ctx) error {
	token := bearerToken(c)
	if err := h.auth.SignOut(c.Context(), token); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// Me returns the caller's current auth context.
func (h *AuthHandler) Me(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	return c.JSON(fiber.Map{
		"user_id":          uc.UserID,
		"email":            uc.Email,
		"full_name":        uc.FullName,
		"is_authenticated": true,
		"is_admin":         uc.IsAdmin,
	})
}

// ForgotPassword requests a password-reset email. The response does not
// reveal whether the address is registered.
func (h *AuthHandler) ForgotPassword(c fiber.Ctx) error {
	var in struct {
		Email string `json:"email"`
	}
	if err := c.Bind().JSON(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	if in.Email == "" {
		return badRequest(c, "email is required")
	}

	if err := h.auth.RequestPasswordReset(c.Context(), in.Email); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "if that address is registered, a reset link is on its way",
	})
}

// ResetPassword completes a password reset from a mailed token.
func (h *AuthHandler) ResetPassword(c fiber.Ctx) error {
	var in struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind().JSON(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	if in.Token == "" || in.NewPassword == "" {
		return badRequest(c, "token and new_password are required")
	}

	if err := h.auth.ConfirmPasswordReset(c.Context(), in.Token, in.NewPassword); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"ok": true})
}

// VerifyEmail confirms an email address from a mailed token.
func (h *AuthHandler) VerifyEmail(c fiber.Ctx) error {
	var in struct {
		Token string `json:"token"`
	}
	if err := c.Bind().JSON(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	if in.Token == "" {
		return badRequest(c, "token is required")
	}

	if err := h.auth.VerifyEmail(c.Context(), in.Token); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"ok": true})
}

// bearerToken extracts the raw token from the Authorization header, with
// the same query-param fallback the session middleware accepts.
func bearerToken(c fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	return c.Query("token")
}
