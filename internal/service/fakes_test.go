package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Tron16/SolarScheduler/internal/domain"
	"github.com/Tron16/SolarScheduler/internal/port"
)

// memStore is an in-memory AuthStore plus TemplateStore for service tests.
type memStore struct {
	mu        sync.Mutex
	nextID    int
	users     map[string]*domain.User // by ID
	sessions  map[string]*domain.Session
	roles     map[string]map[string]bool // userID -> role set
	templates []*domain.EmailTemplate

	roleErr error // forced HasRole failure
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*domain.User),
		sessions: make(map[string]*domain.Session),
		roles:    make(map[string]map[string]bool),
	}
}

func (m *memStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *memStore) CreateUser(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, port.ErrUserExists
		}
	}
	cp := *u
	cp.ID = m.id("user")
	m.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, port.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, port.ErrUserNotFound
}

func (m *memStore) ListUsers(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memStore) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return port.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *memStore) SetEmailVerified(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return port.ErrUserNotFound
	}
	u.EmailVerified = true
	return nil
}

func (m *memStore) CreateSession(_ context.Context, s *domain.Session) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	cp.ID = m.id("session")
	m.sessions[cp.TokenHash] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) GetSessionByHash(_ context.Context, tokenHash string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[tokenHash]
	if !ok {
		return nil, port.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) DeleteSessionByHash(_ context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tokenHash)
	return nil
}

func (m *memStore) DeleteUserSessions(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for hash, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, hash)
		}
	}
	return nil
}

func (m *memStore) HasRole(_ context.Context, userID, role string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.roleErr != nil {
		return false, m.roleErr
	}
	return m.roles[userID][role], nil
}

func (m *memStore) GrantRole(_ context.Context, userID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.roles[userID] == nil {
		m.roles[userID] = make(map[string]bool)
	}
	m.roles[userID][role] = true
	return nil
}

func (m *memStore) RevokeRole(_ context.Context, userID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.roles[userID], role)
	return nil
}

func (m *memStore) ListUserIDsWithRole(_ context.Context, role string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for userID, set := range m.roles {
		if set[role] {
			out = append(out, userID)
		}
	}
	return out, nil
}

func (m *memStore) CreateTemplate(_ context.Context, t *domain.EmailTemplate) (*domain.EmailTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	cp.ID = m.id("template")
	m.templates = append(m.templates, &cp)
	out := cp
	return &out, nil
}

func (m *memStore) GetActiveTemplate(_ context.Context, name string) (*domain.EmailTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.templates {
		if t.Name == name && t.IsActive {
			cp := *t
			return &cp, nil
		}
	}
	return nil, port.ErrTemplateNotFound
}

func (m *memStore) ListTemplates(_ context.Context) ([]domain.EmailTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.EmailTemplate, 0, len(m.templates))
	for _, t := range m.templates {
		out = append(out, *t)
	}
	return out, nil
}

func (m *memStore) UpdateTemplate(_ context.Context, t *domain.EmailTemplate) (*domain.EmailTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.templates {
		if existing.ID == t.ID {
			cp := *t
			m.templates[i] = &cp
			out := cp
			return &out, nil
		}
	}
	return nil, port.ErrTemplateNotFound
}

func (m *memStore) SetTemplateActive(_ context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.templates {
		if t.ID == id {
			t.IsActive = active
			return nil
		}
	}
	return port.ErrTemplateNotFound
}

func (m *memStore) DeleteTemplate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.templates {
		if t.ID == id {
			m.templates = append(m.templates[:i], m.templates[i+1:]...)
			return nil
		}
	}
	return port.ErrTemplateNotFound
}

// fakeMailer records sent mail.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) all() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

// fakePredictor returns a fixed prediction or error.
type fakePredictor struct {
	hours    float64
	err      error
	lastCall map[string]float64
}

func (p *fakePredictor) Predict(_ context.Context, features map[string]float64) (float64, error) {
	p.lastCall = features
	if p.err != nil {
		return 0, p.err
	}
	return p.hours, nil
}

// memPredStore is an in-memory PredictionStore.
type memPredStore struct {
	mu          sync.Mutex
	nextID      int
	predictions []domain.Prediction
	samples     []domain.TrainingSample

	saveErr error
}

func (m *memPredStore) SavePrediction(_ context.Context, p *domain.Prediction) (*domain.Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	m.nextID++
	cp := *p
	cp.ID = fmt.Sprintf("pred-%d", m.nextID)
	m.predictions = append(m.predictions, cp)
	out := cp
	return &out, nil
}

func (m *memPredStore) ListPredictionsByUser(_ context.Context, userID string) ([]domain.Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Prediction
	for _, p := range m.predictions {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPredStore) SaveTrainingSample(_ context.Context, s *domain.TrainingSample) (*domain.TrainingSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *s
	cp.ID = fmt.Sprintf("sample-%d", m.nextID)
	m.samples = append(m.samples, cp)
	out := cp
	return &out, nil
}

func (m *memPredStore) ListTrainingSamples(_ context.Context) ([]domain.TrainingSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.TrainingSample, len(m.samples))
	copy(out, m.samples)
	return out, nil
}
