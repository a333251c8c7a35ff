package handler

import (
	"strconv"

	"github.com/Tron16/SolarScheduler/internal/adapter/store"
	"github.com/gofiber/fiber/v3"
)

// AuditHandler exposes the audit trail to administrators.
type AuditHandler struct {
	store *store.PostgresStore
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(store *store.PostgresStore) *AuditHandler {
	return &AuditHandler{store: store}
}

// RegisterAdmin sets up audit routes under the admin group.
func (h *AuditHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/audit", h.ListLogs)
}

// ListLogs returns audit logs with optional filtering.
func (h *AuditHandler) ListLogs(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	action := c.Query("action", "")

	logs, err := h.store.ListAuditLogs(c.Context(), limit, action)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"logs":  logs,
		"count": len(logs),
	})
}
