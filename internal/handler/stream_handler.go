package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Tron16/SolarScheduler/internal/middleware"
	"github.com/Tron16/SolarScheduler/internal/service"
	"github.com/gofiber/fiber/v3"
)

// StreamHandler streams auth-state snapshots via Server-Sent Events so
// the client's auth context follows role changes and remote sign-outs
// without polling.
type StreamHandler struct {
	bus *service.AuthStateBus
}

// NewStreamHandler creates a new SSE stream handler.
func NewStreamHandler(bus *service.AuthStateBus) *StreamHandler {
	return &StreamHandler{bus: bus}
}

// Register sets up streaming routes.
func (h *StreamHandler) Register(router fiber.Router) {
	router.Get("/auth/stream", h.StreamAuthState)
}

// StreamAuthState sends the caller's current snapshot, then every
// subsequent transition. Snapshots arrive in publication order; the
// client keeps the highest version it has seen.
func (h *StreamHandler) StreamAuthState(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	userID := uc.UserID

	ch := h.bus.Subscribe(userID)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	return c.SendStreamWriter(func(w *bufio.Writer) {
		defer h.bus.Unsubscribe(userID, ch)

		// Send the current state first
		data, _ := json.Marshal(h.bus.Current(userID))
		fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", string(data))
		w.Flush()

		timeout := time.After(30 * time.Minute)
		for {
			select {
			case snap, ok := <-ch:
				if !ok {
					return
				}
				data, _ := json.Marshal(snap)
				fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", string(data))
				w.Flush()

				// The stream ends when the session it authenticated with is gone.
				if !snap.IsAuthenticated {
					return
				}
			case <-timeout:
				slog.Warn("SSE timeout", "user_id", userID)
				return
			}
		}
	})
}
