package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"text/template"
	"time"

	"github.com/Tron16/SolarScheduler/internal/domain"
	"github.com/Tron16/SolarScheduler/internal/port"
	"github.com/Tron16/SolarScheduler/pkg/config"
)

const minPasswordLength = 8

// AuthStore is the persistence surface the auth service needs.
type AuthStore interface {
	port.UserStore
	port.SessionStore
	port.RoleStore
}

// AuthService owns all session/user/role state transitions. It is the
// only component that writes to the auth-state bus.
type AuthService struct {
	store     AuthStore
	templates port.TemplateStore
	mailer    port.Mailer
	hasher    PasswordHasher
	tokens    *TokenIssuer
	bus       *AuthStateBus

	signupKey       string
	requireVerified bool
	sessionTTL      time.Duration
	resetTTL        time.Duration
	verifyTTL       time.Duration
	frontendURL     string
	appName         string
}

// NewAuthService creates the auth service.
func NewAuthService(store AuthStore, templates port.TemplateStore, mailer port.Mailer, bus *AuthStateBus, cfg *config.Config) *AuthService {
	return &AuthService{
		store:           store,
		templates:       templates,
		mailer:          mailer,
		hasher:          NewArgon2Hasher(),
		tokens:          NewTokenIssuer(cfg.TokenSecret, cfg.TokenIssuer),
		bus:             bus,
		signupKey:       cfg.SignupKey,
		requireVerified: cfg.RequireVerified,
		sessionTTL:      time.Duration(cfg.SessionTTLHours) * time.Hour,
		resetTTL:        time.Duration(cfg.ResetTokenTTL) * time.Minute,
		verifyTTL:       time.Duration(cfg.VerifyTokenTTL) * time.Hour,
		frontendURL:     cfg.FrontendURL,
		appName:         cfg.AppName,
	}
}

// Bus returns the auth-state bus for read-side consumers.
func (s *AuthService) Bus() *AuthStateBus {
	return s.bus
}

// SignUpInput carries the data needed to register a new account.
type SignUpInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FullName  string `json:"full_name"`
	SignupKey string `json:"signup_key"`
}

// SignUpResult is the outcome of a registration. Session and Token are
// empty when email verification is required before first sign-in.
type SignUpResult struct {
	User    *domain.User    `json:"user"`
	Session *domain.Session `json:"session,omitempty"`
	Token   string          `json:"token,omitempty"`
}

// SignUp registers a new account. The signup key is checked server-side;
// an empty configured key disables the gate. When verification is
// required no session is established and the caller stays anonymous.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput, ip, userAgent string) (*SignUpResult, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: malformed email address", port.ErrValidation)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", port.ErrValidation, minPasswordLength)
	}
	if s.signupKey != "" &&
		subtle.ConstantTimeCompare([]byte(in.SignupKey), []byte(s.signupKey)) != 1 {
		return nil, port.ErrInvalidSignupKey
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.GrantRole(ctx, user.ID, domain.RoleUser); err != nil {
		return nil, fmt.Errorf("grant baseline role: %w", err)
	}

	s.sendVerificationEmail(ctx, user)

	slog.Info("user signed up", "user_id", user.ID)

	if s.requireVerified {
		return &SignUpResult{User: user}, nil
	}

	session, token, err := s.establishSession(ctx, user, ip, userAgent)
	if err != nil {
		return nil, err
	}
	return &SignUpResult{User: user, Session: session, Token: token}, nil
}

// SignInResult is the outcome of a successful authentication.
type SignInResult struct {
	User     *domain.User        `json:"user"`
	Session  *domain.Session     `json:"session"`
	Token    string              `json:"token"`
	Snapshot domain.AuthSnapshot `json:"snapshot"`
}

// SignIn authenticates with email and password. Unknown email and wrong
// password are indistinguishable to the caller. The transition is atomic:
// either a session exists and a snapshot is published, or nothing changed.
func (s *AuthService) SignIn(ctx context.Context, email, password, ip, userAgent string) (*SignInResult, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, port.ErrUserNotFound) {
			return nil, port.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, port.ErrInvalidCredentials
	}

	if s.requireVerified && !user.EmailVerified {
		return nil, port.ErrEmailNotVerified
	}

	session, token, err := s.establishSession(ctx, user, ip, userAgent)
	if err != nil {
		return nil, err
	}

	slog.Info("user signed in", "user_id", user.ID, "session_id", session.ID)
	return &SignInResult{
		User:     user,
		Session:  session,
		Token:    token,
		Snapshot: s.bus.Current(user.ID),
	}, nil
}

// establishSession creates a session row, publishes the authenticated
// snapshot, and runs role resolution for it. The snapshot starts with
// IsAdmin=false and flips once resolution confirms; a resolution arriving
// after the session is superseded is discarded by the bus.
func (s *AuthService) establishSession(ctx context.Context, user *domain.User, ip, userAgent string) (*domain.Session, string, error) {
	token, hash, err := generateSessionToken()
	if err != nil {
		return nil, "", err
	}

	session, err := s.store.CreateSession(ctx, &domain.Session{
		UserID:    user.ID,
		TokenHash: hash,
		IP:        ip,
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	})
	if err != nil {
		return nil, "", err
	}

	s.bus.Publish(user.ID, domain.AuthSnapshot{
		UserID:          user.ID,
		Email:           user.Email,
		FullName:        user.FullName,
		SessionID:       session.ID,
		IsAuthenticated: true,
	})
	s.resolveRoleFor(user.ID, session.ID)

	return session, token, nil
}

// resolveRoleFor runs a role lookup for the given session and folds the
// result into the bus, which discards it if the session was superseded.
func (s *AuthService) resolveRoleFor(userID, sessionID string) {
	isAdmin := s.IsAdmin(context.Background(), userID)
	s.bus.ApplyRoleResolution(userID, sessionID, isAdmin)
}

// IsAdmin reports whether the user holds the admin role. A resolver
// failure yields false: privilege checks fail closed.
func (s *AuthService) IsAdmin(ctx context.Context, userID string) bool {
	isAdmin, err := s.store.HasRole(ctx, userID, domain.RoleAdmin)
	if err != nil {
		slog.Error("role resolution failed, assuming not admin", "user_id", userID, "error", err)
		return false
	}
	return isAdmin
}

// SignOut deletes the session for the given raw token and publishes the
// anonymous snapshot. A missing session is not an error: the caller's
// intent to leave always succeeds.
func (s *AuthService) SignOut(ctx context.Context, rawToken string) error {
	hash := hashSessionToken(rawToken)

	session, err := s.store.GetSessionByHash(ctx, hash)
	if err != nil && !errors.Is(err, port.ErrSessionNotFound) {
		return fmt.Errorf("look up session: %w", err)
	}

	if err := s.store.DeleteSessionByHash(ctx, hash); err != nil {
		return err
	}

	if session != nil {
		s.bus.PublishAnonymous(session.UserID)
		slog.Info("user signed out", "user_id", session.UserID)
	}
	return nil
}

// Resolve validates a raw session token and returns the request context
// for its user, including the freshly resolved admin flag.
func (s *AuthService) Resolve(ctx context.Context, rawToken string) (*domain.UserContext, error) {
	if rawToken == "" {
		return nil, port.ErrInvalidToken
	}

	session, err := s.store.GetSessionByHash(ctx, hashSessionToken(rawToken))
	if err != nil {
		if errors.Is(err, port.ErrSessionNotFound) {
			return nil, port.ErrInvalidToken
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.Expired(time.Now()) {
		return nil, port.ErrSessionExpired
	}

	user, err := s.store.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("get session user: %w", err)
	}

	return &domain.UserContext{
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		SessionID: session.ID,
		IsAdmin:   s.IsAdmin(ctx, user.ID),
	}, nil
}

// RequestPasswordReset issues a reset link for the account, if one
// exists. The caller cannot distinguish registered from unregistered
// addresses; only delivery differs.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, port.ErrUserNotFound) {
			slog.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	token, err := s.tokens.issue(user, tokenPurposePasswordReset, s.resetTTL)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	link := s.frontendURL + "/reset-password?token=" + token
	s.sendTemplated(ctx, user, domain.TemplateResetPassword,
		"Reset your "+s.appName+" password",
		"Hi {{.FullName}},\n\nFollow this link to reset your password:\n{{.Link}}\n\nIf you did not request a reset, you can ignore this email.\n",
		link)
	return nil
}

// ConfirmPasswordReset validates a reset token, replaces the password,
// and revokes every session of the user.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	userID, err := s.tokens.validate(token, tokenPurposePasswordReset)
	if err != nil {
		return err
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", port.ErrValidation, minPasswordLength)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	// The credential changed; no previously issued proof stays valid.
	if err := s.store.DeleteUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	s.bus.PublishAnonymous(userID)

	slog.Info("password reset completed", "user_id", userID)
	return nil
}

// VerifyEmail validates a verification token and marks the address verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.tokens.validate(token, tokenPurposeVerifyEmail)
	if err != nil {
		return err
	}
	if err := s.store.SetEmailVerified(ctx, userID); err != nil {
		return err
	}
	slog.Info("email verified", "user_id", userID)
	return nil
}

// SetUserRole grants or revokes the admin role and republishes the
// user's snapshot so connected clients observe the change live.
func (s *AuthService) SetUserRole(ctx context.Context, userID, role string) error {
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return fmt.Errorf("%w: unknown role %q", port.ErrValidation, role)
	}
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return err
	}

	var err error
	if role == domain.RoleAdmin {
		err = s.store.GrantRole(ctx, userID, domain.RoleAdmin)
	} else {
		err = s.store.RevokeRole(ctx, userID, domain.RoleAdmin)
	}
	if err != nil {
		return err
	}

	cur := s.bus.Current(userID)
	if cur.IsAuthenticated {
		s.resolveRoleFor(userID, cur.SessionID)
	}

	slog.Info("user role changed", "user_id", userID, "role", role)
	return nil
}

func (s *AuthService) sendVerificationEmail(ctx context.Context, user *domain.User) {
	token, err := s.tokens.issue(user, tokenPurposeVerifyEmail, s.verifyTTL)
	if err != nil {
		slog.Error("failed to issue verification token", "user_id", user.ID, "error", err)
		return
	}
	link := s.frontendURL + "/verify-email?token=" + token
	s.sendTemplated(ctx, user, domain.TemplateVerifyEmail,
		"Verify your "+s.appName+" email",
		"Hi {{.FullName}},\n\nWelcome to {{.AppName}}! Confirm your email address:\n{{.Link}}\n",
		link)
}

// sendTemplated renders the active template with the given name, falling
// back to the built-in subject/body, and dispatches the mail. Delivery
// failures are logged, never surfaced to the auth flow that triggered them.
func (s *AuthService) sendTemplated(ctx context.Context, user *domain.User, name, fallbackSubject, fallbackBody, link string) {
	subject, body := fallbackSubject, fallbackBody
	if tmpl, err := s.templates.GetActiveTemplate(ctx, name); err == nil {
		subject, body = tmpl.Subject, tmpl.Body
	}

	data := struct {
		FullName string
		Email    string
		Link     string
		AppName  string
	}{
		FullName: user.FullName,
		Email:    user.Email,
		Link:     link,
		AppName:  s.appName,
	}

	var rendered strings.Builder
	t, err := template.New(name).Parse(body)
	if err != nil {
		slog.Error("malformed email template", "template", name, "error", err)
		return
	}
	if err := t.Execute(&rendered, data); err != nil {
		slog.Error("email template execution failed", "template", name, "error", err)
		return
	}

	if err := s.mailer.Send(ctx, user.Email, subject, rendered.String()); err != nil {
		slog.Error("failed to send email", "template", name, "user_id", user.ID, "error", err)
	}
}
