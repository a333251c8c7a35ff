package handler

import (
	"strings"

	"github.com/Tron16/SolarScheduler/internal/domain"
	"github.com/Tron16/SolarScheduler/internal/port"
	"github.com/gofiber/fiber/v3"
)

// TemplateHandler handles the admin email template console.
type TemplateHandler struct {
	store port.TemplateStore
}

// NewTemplateHandler creates a new template handler.
func NewTemplateHandler(store port.TemplateStore) *TemplateHandler {
	return &TemplateHandler{store: store}
}

// Register sets up the admin template routes.
func (h *TemplateHandler) Register(router fiber.Router) {
	templates := router.Group("/templates")
	templates.Get("/", h.List)
	templates.Post("/", h.Create)
	templates.Put("/:id", h.Update)
	templates.Put("/:id/active", h.SetActive)
	templates.Delete("/:id", h.Delete)
}

type templateRequest struct {
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	IsActive bool   `json:"is_active"`
}

func (r *templateRequest) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name is required"
	}
	if strings.TrimSpace(r.Subject) == "" {
		return "subject is required"
	}
	if strings.TrimSpace(r.Body) == "" {
		return "body is required"
	}
	return ""
}

// List returns all email templates.
func (h *TemplateHandler) List(c fiber.Ctx) error {
	templates, err := h.store.ListTemplates(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"templates": templates,
		"count":     len(templates),
	})
}

// Create inserts a new email template.
func (h *TemplateHandler) Create(c fiber.Ctx) error {
	var in templateRequest
	if err := c.Bind().JSON(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	if msg := in.validate(); msg != "" {
		return badRequest(c, msg)
	}

	tmpl, err := h.store.CreateTemplate(c.Context(), &domain.EmailTemplate{
		Name:     in.Name,
		Subject:  in.Subject,
		Body:     in.Body,
		IsActive: in.IsActive,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(tmpl)
}

// Update replaces a template's editable fields.
func (h *TemplateHandler) Update(c fiber.Ctx) error {
	var in templateRequest
	if err := c.Bind().JSON(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	if msg := in.validate(); msg != "" {
		return badRequest(c, msg)
	}

	tmpl, err := h.store.UpdateTemplate(c.Context(), &domain.EmailTemplate{
		ID:      c.Params("id"),
		Name:    in.Name,
		Subject: in.Subject,
		Body:    in.Body,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(tmpl)
}

// SetActive toggles a template's active flag. The flag is persisted
// before success is reported; on failure nothing changes.
func (h *TemplateHandler) SetActive(c fiber.Ctx) error {
	var in struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.Bind().JSON(&in); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.store.SetTemplateActive(c.Context(), c.Params("id"), in.IsActive); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"ok": true})
}

// Delete removes an email template.
func (h *TemplateHandler) Delete(c fiber.Ctx) error {
	if err := h.store.DeleteTemplate(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
