package handler

import (
	"net/mail"
	"strings"

	"github.com/Tron16/SolarScheduler/internal/domain"
	"github.com/Tron16/SolarScheduler/internal/port"
	"github.com/gofiber/fiber/v3"
)

// ContactHandler handles the public contact form and its admin console.
type ContactHandler struct {
	store port.ContactStore
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(store port.ContactStore) *ContactHandler {
	return &ContactHandler{store: store}
}

// Register sets up the public contact route.
func (h *ContactHandler) Register(router fiber.Router) {
	router.Post("/contact", h.Submit)
}

// RegisterAdmin sets up the admin message routes.
func (h *ContactHandler) RegisterAdmin(router fiber.Router) {
	messages := router.Group("/messages")
	messages.Get("/", h.List)
	messages.Put("/:id/read", h.MarkRead)
	messages.Delete("/:id", h.Delete)
}

// Submit accepts a message from the public contact form.
func (h *ContactHandler) Submit(c fiber.Ctx) error {
	var in struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := c.Bind().JSON(&in); err != nil {
		return badRequest(c, "invalid request body")
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	if in.Name == "" || in.Email == "" || in.Message == "" {
		return badRequest(c, "name, email, and message are required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return badRequest(c, "invalid email address")
	}

	msg, err := h.store.CreateContactMessage(c.Context(), &domain.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Message: in.Message,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}

// List returns all contact messages, newest first.
func (h *ContactHandler) List(c fiber.Ctx) error {
	msgs, err := h.store.ListContactMessages(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"messages": msgs,
		"count":    len(msgs),
	})
}

// MarkRead flags a message as read.
func (h *ContactHandler) MarkRead(c fiber.Ctx) error {
	if err := h.store.MarkMessageRead(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// Delete removes a message. The row is gone before success is reported;
// clients drop it from their local list only on 2xx.
func (h *ContactHandler) Delete(c fiber.Ctx) error {
	if err := h.store.DeleteContactMessage(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
