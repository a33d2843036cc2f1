package trading

import (
	"errors"
	"math"

	"greenvest-backend/internal/middleware"
	"greenvest-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// ExecuteTrade POST /api/v1/trade/execute
func (h *Handlers) ExecuteTrade(c *fiber.Ctx) error {
	var body struct {
		CompanyID string  `json:"company_id"`
		Type      string  `json:"type"`
		Shares    float64 `json:"shares"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400)
	}
	if body.CompanyID == "" || body.Type == "" || body.Shares == 0 {
		return response.Error(c, "Missing required fields", 400)
	}

	companyID, err := uuid.Parse(body.CompanyID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for company_id", 400)
	}
	// Fractional share counts are rejected rather than truncated.
	if body.Shares != math.Trunc(body.Shares) {
		return response.Error(c, ErrInvalidShares.Error(), 400)
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.Service.ExecuteTrade(c.Context(), userID, companyID, body.Type, int64(body.Shares))
	if err != nil {
		return response.Error(c, err.Error(), statusForTradeError(err))
	}

	return response.Success(c, "Trade executed", result)
}

func statusForTradeError(err error) int {
	switch {
	case errors.Is(err, ErrCompanyNotFound), errors.Is(err, ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrTradingDisabled):
		return fiber.StatusForbidden
	case errors.Is(err, ErrInvalidTradeType), errors.Is(err, ErrInvalidShares),
		errors.Is(err, ErrInsufficientShares), errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInsufficientHoldings):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
