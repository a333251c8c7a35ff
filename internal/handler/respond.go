package handler

import (
	"errors"

	"github.com/Tron16/SolarScheduler/internal/port"
	"github.com/gofiber/fiber/v3"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, port.ErrInvalidCredentials),
		errors.Is(err, port.ErrEmailNotVerified),
		errors.Is(err, port.ErrInvalidToken),
		errors.Is(err, port.ErrSessionNotFound),
		errors.Is(err, port.ErrSessionExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, port.ErrInvalidSignupKey),
		errors.Is(err, port.ErrAdminRequired):
		return fiber.StatusForbidden
	case errors.Is(err, port.ErrUserNotFound),
		errors.Is(err, port.ErrMessageNotFound),
		errors.Is(err, port.ErrModelNotFound),
		errors.Is(err, port.ErrTemplateNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, port.ErrUserExists):
		return fiber.StatusConflict
	case errors.Is(err, port.ErrValidation),
		errors.Is(err, port.ErrUnknownFeature),
		errors.Is(err, port.ErrInvalidFeature):
		return fiber.StatusBadRequest
	case errors.Is(err, port.ErrPredictionUpstream):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes the error as a JSON body with the mapped status.
func fail(c fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

// badRequest writes a validation failure before any remote call is made.
func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
