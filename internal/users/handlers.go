package users

import (
	"errors"

	"greenvest-backend/internal/middleware"
	"greenvest-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// Portfolio GET /api/v1/dashboard/portfolio — the caller's own portfolio.
func (h *Handlers) Portfolio(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	portfolio, err := h.Service.GetPortfolio(c.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound)
		}
		return response.Error(c, err.Error(), 500)
	}
	return response.Success(c, "Portfolio", portfolio)
}

// Trades GET /api/v1/dashboard/trades — the caller's trade history.
func (h *Handlers) Trades(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	trades, err := h.Service.TradeHistory(c.Context(), userID)
	if err != nil {
		return response.Error(c, err.Error(), 500)
	}
	return response.Success(c, "Trades", trades)
}

// List GET /api/v1/admin/users (admin)
func (h *Handlers) List(c *fiber.Ctx) error {
	users, err := h.Service.List(c.Context())
	if err != nil {
		return response.Error(c, err.Error(), 500)
	}
	return response.Success(c, "Users", users)
}
