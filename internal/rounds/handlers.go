package rounds

import (
	"errors"

	"greenvest-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// StartRound POST /api/v1/rounds/start (admin)
func (h *Handlers) StartRound(c *fiber.Ctx) error {
	var body struct {
		DurationMinutes int `json:"duration_minutes"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400)
	}

	round, err := h.Service.StartRound(c.Context(), body.DurationMinutes)
	if err != nil {
		return response.Error(c, err.Error(), statusForRoundError(err))
	}
	return response.SuccessCreated(c, "Round started", round)
}

// EndRound POST /api/v1/rounds/end (admin)
func (h *Handlers) EndRound(c *fiber.Ctx) error {
	round, metrics, err := h.Service.EndRound(c.Context())
	if err != nil {
		return response.Error(c, err.Error(), statusForRoundError(err))
	}
	return response.Success(c, "Round ended", fiber.Map{
		"round":   round,
		"metrics": metrics,
	})
}

// Status GET /api/v1/rounds/status
func (h *Handlers) Status(c *fiber.Ctx) error {
	status, err := h.Service.Status(c.Context())
	if err != nil {
		return response.Error(c, err.Error(), 500)
	}
	return response.Success(c, "Round status", status)
}

func statusForRoundError(err error) int {
	switch {
	case errors.Is(err, ErrRoundAlreadyActive):
		return fiber.StatusConflict
	case errors.Is(err, ErrNoActiveRound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalidDuration):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
