package handler

import (
	"strings"

	"github.com/Tron16/SolarScheduler/internal/domain"
	"github.com/Tron16/SolarScheduler/internal/port"
	"github.com/gofiber/fiber/v3"
)

// ModelHandler handles the admin ML model registry.
type ModelHandler struct {
	store port.ModelStore
}

// NewModelHandler creates a new model handler.
func NewModelHandler(store port.ModelStore) *ModelHandler {
	return &ModelHandler{store: store}
}

// Register sets up the admin model routes.
func (h *ModelHandler) Register(router fiber.Router) {
	models := router.Group("/models")
	models.Get("/", h.List)
	models.Post("/", h.Create)
	models.Put("/:id", h.Update)
	models.Put("/:id/active", h.SetActive)
	models.Delete("/:id", h.Delete)
}

type modelRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	APIEndpoint string `json:"api_endpoint"`
	IsActive    bool   `json:"is_active"`
}

// List returns all registered models.
func (h *ModelHandler) List(c fiber.Ctx) error {
	models, err := h.store.ListModels(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"models": models,
		"count":  len(models),
	})
}

// Create registers a new model.
func (h *ModelHandler) Create(c fiber.Ctx) error {
	var in modelRequest
	if err := c.Bind().JSON(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(in.Name) == "" {
		return badRequest(c, "name is required")
	}

	model, err := h.store.CreateModel(c.Context(), &domain.MLModel{
		Name:        in.Name,
		Description: in.Description,
		APIEndpoint: in.APIEndpoint,
		IsActive:    in.IsActive,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(model)
}

// Update replaces a model's editable fields.
func (h *ModelHandler) Update(c fiber.Ctx) error {
	var in modelRequest
	if err := c.Bind().JSON(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(in.Name) == "" {
		return badRequest(c, "name is required")
	}

	model, err := h.store.UpdateModel(c.Context(), &domain.MLModel{
		ID:          c.Params("id"),
		Name:        in.Name,
		Description: in.Description,
		APIEndpoint: in.APIEndpoint,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(model)
}

// SetActive toggles a model's active flag. The flag is persisted before
// success is reported.
func (h *ModelHandler) SetActive(c fiber.Ctx) error {
	var in struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.Bind().JSON(&in); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.store.SetModelActive(c.Context(), c.Params("id"), in.IsActive); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"ok": true})
}

// Delete removes a model from the registry.
func (h *ModelHandler) Delete(c fiber.Ctx) error {
	if err := h.store.DeleteModel(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
