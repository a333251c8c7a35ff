package port

import (
	"context"

	"github.com/Tron16/SolarScheduler/internal/domain"
)

// UserStore defines user account persistence.
type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SetEmailVerified(ctx context.Context, userID string) error
}

// SessionStore defines session persistence. Sessions are looked up by the
// SHA-256 hash of the raw token; the raw token itself is never stored.
type SessionStore interface {
	CreateSession(ctx context.Context, s *domain.Session) (*domain.Session, error)
	GetSessionByHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	DeleteSessionByHash(ctx context.Context, tokenHash string) error
	DeleteUserSessions(ctx context.Context, userID string) error
}

// RoleStore defines role-assignment persistence. HasRole is the role
// resolver: it reports whether a (user, role) grant exists, purely as a
// function of the current table contents.
type RoleStore interface {
	HasRole(ctx context.Context, userID, role string) (bool, error)
	GrantRole(ctx context.Context, userID, role string) error
	RevokeRole(ctx context.Context, userID, role string) error
	ListUserIDsWithRole(ctx context.Context, role string) ([]string, error)
}

// ContactStore defines contact-message persistence.
type ContactStore interface {
	CreateContactMessage(ctx context.Context, m *domain.ContactMessage) (*domain.ContactMessage, error)
	ListContactMessages(ctx context.Context) ([]domain.ContactMessage, error)
	MarkMessageRead(ctx context.Context, id string) error
	DeleteContactMessage(ctx context.Context, id string) error
}

// ModelStore defines ML model registry persistence.
type ModelStore interface {
	CreateModel(ctx context.Context, m *domain.MLModel) (*domain.MLModel, error)
	ListModels(ctx context.Context) ([]domain.MLModel, error)
	UpdateModel(ctx context.Context, m *domain.MLModel) (*domain.MLModel, error)
	SetModelActive(ctx context.Context, id string, active bool) error
	DeleteModel(ctx context.Context, id string) error
}

// TemplateStore defines email template persistence.
type TemplateStore interface {
	CreateTemplate(ctx context.Context, t *domain.EmailTemplate) (*domain.EmailTemplate, error)
	GetActiveTemplate(ctx context.Context, name string) (*domain.EmailTemplate, error)
	ListTemplates(ctx context.Context) ([]domain.EmailTemplate, error)
	UpdateTemplate(ctx context.Context, t *domain.EmailTemplate) (*domain.EmailTemplate, error)
	SetTemplateActive(ctx context.Context, id string, active bool) error
	DeleteTemplate(ctx context.Context, id string) error
}

// PredictionStore defines prediction-history and training-sample persistence.
type PredictionStore interface {
	SavePrediction(ctx context.Context, p *domain.Prediction) (*domain.Prediction, error)
	ListPredictionsByUser(ctx context.Context, userID string) ([]domain.Prediction, error)
	SaveTrainingSample(ctx context.Context, s *domain.TrainingSample) (*domain.TrainingSample, error)
	ListTrainingSamples(ctx context.Context) ([]domain.TrainingSample, error)
}
