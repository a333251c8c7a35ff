package port

import "errors"

// Sentinel errors used across ports.
var (
	// Input validation. Wrapped by services that reject requests before
	// touching storage or the network.
	ErrValidation = errors.New("validation failed") // 400

	// Auth errors.
	ErrUserExists         = errors.New("user already exists")       // 409
	ErrUserNotFound       = errors.New("user not found")            // 404
	ErrInvalidCredentials = errors.New("invalid email or password") // 401
	ErrInvalidSignupKey   = errors.New("invalid signup key")        // 403
	ErrEmailNotVerified   = errors.New("email not verified")        // 401

	// Authorization errors.
	ErrAdminRequired = errors.New("admin privileges required") // 403

	// Session errors.
	ErrInvalidToken    = errors.New("invalid session token") // 401
	ErrSessionNotFound = errors.New("session not found")     // 401
	ErrSessionExpired  = errors.New("session expired")       // 401

	// Resource errors.
	ErrMessageNotFound  = errors.New("contact message not found")
	ErrModelNotFound    = errors.New("model not found")
	ErrTemplateNotFound = errors.New("email template not found")

	// Prediction errors.
	ErrUnknownFeature     = errors.New("unknown feature")
	ErrInvalidFeature     = errors.New("invalid feature value")
	ErrPredictionUpstream = errors.New("prediction service unavailable") // 502
)
