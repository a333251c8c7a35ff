package handler

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Tron16/SolarScheduler/internal/domain"
	"github.com/Tron16/SolarScheduler/internal/port"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memContactStore struct {
	mu     sync.Mutex
	nextID int
	msgs   []domain.ContactMessage
}

func (m *memContactStore) CreateContactMessage(_ context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *msg
	cp.ID = fmt.Sprintf("msg-%d", m.nextID)
	m.msgs = append(m.msgs, cp)
	out := cp
	return &out, nil
}

func (m *memContactStore) ListContactMessages(_ context.Context) ([]domain.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ContactMessage, len(m.msgs))
	copy(out, m.msgs)
	return out, nil
}

func (m *memContactStore) MarkMessageRead(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.msgs {
		if m.msgs[i].ID == id {
			m.msgs[i].IsRead = true
			return nil
		}
	}
	return port.ErrMessageNotFound
}

func (m *memContactStore) DeleteContactMessage(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.msgs {
		if m.msgs[i].ID == id {
			m.msgs = append(m.msgs[:i], m.msgs[i+1:]...)
			return nil
		}
	}
	return port.ErrMessageNotFound
}

func newContactApp(store *memContactStore) *fiber.App {
	app := fiber.New()
	h := NewContactHandler(store)
	h.Register(app)
	h.RegisterAdmin(app.Group("/admin"))
	return app
}

func TestContactHandler_Submit(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid submission is stored",
			body:       `{"name":"Alice","email":"alice@example.com","message":"When can you install?"}`,
			wantStatus: fiber.StatusCreated,
		},
		{
			name:       "missing message is rejected",
			body:       `{"name":"Alice","email":"alice@example.com","message":""}`,
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "whitespace-only fields are rejected",
			body:       `{"name":"   ","email":"alice@example.com","message":"hi"}`,
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "invalid email is rejected",
			body:       `{"name":"Alice","email":"not-an-email","message":"hi"}`,
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "malformed json is rejected",
			body:       `{`,
			wantStatus: fiber.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memContactStore{}
			app := newContactApp(store)

			req := httptest.NewRequest("POST", "/contact", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == fiber.StatusCreated {
				msgs, _ := store.ListContactMessages(context.Background())
				require.Len(t, msgs, 1)
				assert.Equal(t, "Alice", msgs[0].Name)
				assert.False(t, msgs[0].IsRead)
			}
		})
	}
}

func TestContactHandler_AdminFlow(t *testing.T) {
	store := &memContactStore{}
	app := newContactApp(store)

	msg, err := store.CreateContactMessage(context.Background(), &domain.ContactMessage{
		Name: "Alice", Email: "alice@example.com", Message: "hello",
	})
	require.NoError(t, err)

	t.Run("mark read", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("PUT", "/admin/messages/"+msg.ID+"/read", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		msgs, _ := store.ListContactMessages(context.Background())
		assert.True(t, msgs[0].IsRead)
	})

	t.Run("delete reports success only after the row is gone", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("DELETE", "/admin/messages/"+msg.ID, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		msgs, _ := store.ListContactMessages(context.Background())
		assert.Empty(t, msgs)
	})

	t.Run("unknown message id is 404", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("DELETE", "/admin/messages/nope", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest("PUT", "/admin/messages/nope/read", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
