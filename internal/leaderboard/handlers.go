package leaderboard

import (
	"strconv"

	"greenvest-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// Top GET /api/v1/leaderboard?limit=N
func (h *Handlers) Top(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	entries, err := h.Service.Top(c.Context(), limit)
	if err != nil {
		return response.Error(c, err.Error(), 500)
	}
	return response.Success(c, "Leaderboard", entries)
}
