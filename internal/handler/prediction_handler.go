package handler

import (
	"github.com/Tron16/SolarScheduler/internal/middleware"
	"github.com/Tron16/SolarScheduler/internal/service"
	"github.com/gofiber/fiber/v3"
)

// PredictionHandler handles installation-time prediction endpoints.
type PredictionHandler struct {
	predictions *service.PredictionService
}

// NewPredictionHandler creates a new prediction handler.
func NewPredictionHandler(predictions *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictions: predictions}
}

// Register sets up prediction routes.
func (h *PredictionHandler) Register(router fiber.Router) {
	predict := router.Group("/predict")
	predict.Get("/features", h.Features)
	predict.Get("/history", h.History)
	predict.Post("/", h.Predict)

	router.Post("/training", h.SubmitTraining)
}

// Features returns the feature catalog: names, kinds, option lists, and
// the defaults the model fills in for omitted features.
func (h *PredictionHandler) Features(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"features": h.predictions.Features()})
}

// Predict encodes the submitted inputs and returns the model's predicted
// installation time in hours.
func (h *PredictionHandler) Predict(c fiber.Ctx) error {
	var in struct {
		Inputs map[string]string `json:"inputs"`
	}
	if err := c.Bind().JSON(&in); err != nil {
		return badRequest(c, "invalid request body")
	}

	uc := middleware.GetUserContext(c)
	pred, err := h.predictions.Predict(c.Context(), uc.UserID, in.Inputs)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"prediction": pred.PredictedHours,
		"features":   pred.Features,
		"id":         pred.ID,
	})
}

// History returns the caller's stored predictions, newest first.
func (h *PredictionHandler) History(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	preds, err := h.predictions.History(c.Context(), uc.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"predictions": preds,
		"count":       len(preds),
	})
}

// SubmitTraining records a completed installation for model retraining.
func (h *PredictionHandler) SubmitTraining(c fiber.Ctx) error {
	var in struct {
		Inputs            map[string]string `json:"inputs"`
		ActualInstallTime float64           `json:"actual_install_time"`
	}
	if err := c.Bind().JSON(&in); err != nil {
		return badRequest(c, "invalid request body")
	}

	uc := middleware.GetUserContext(c)
	sample, err := h.predictions.SubmitTraining(c.Context(), uc.UserID, in.Inputs, in.ActualInstallTime)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(sample)
}
