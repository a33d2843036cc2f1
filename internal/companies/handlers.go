package companies

import (
	"errors"

	"greenvest-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// List GET /api/v1/companies
func (h *Handlers) List(c *fiber.Ctx) error {
	companies, err := h.Service.List(c.Context())
	if err != nil {
		return response.Error(c, err.Error(), 500)
	}
	return response.Success(c, "Companies", companies)
}

// Get GET /api/v1/companies/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for company id", 400)
	}
	company, err := h.Service.Get(c.Context(), id)
	if err != nil {
		return response.Error(c, err.Error(), statusForCompanyError(err))
	}
	return response.Success(c, "Company", company)
}

// Create POST /api/v1/admin/companies (admin)
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in CompanyInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, ErrMissingFields.Error(), 400)
	}

	company, err := h.Service.Create(c.Context(), in)
	if err != nil {
		return response.Error(c, err.Error(), statusForCompanyError(err))
	}
	return response.SuccessCreated(c, "Company created", company)
}

// Update PUT /api/v1/admin/companies/:id (admin)
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for company id", 400)
	}
	var in CompanyInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, ErrMissingFields.Error(), 400)
	}

	company, err := h.Service.Update(c.Context(), id, in)
	if err != nil {
		return response.Error(c, err.Error(), statusForCompanyError(err))
	}
	return response.Success(c, "Company updated", company)
}

// UpdatePrice PUT /api/v1/admin/companies/:id/price (admin)
func (h *Handlers) UpdatePrice(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for company id", 400)
	}
	var body struct {
		StockPrice float64 `json:"stock_price"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, ErrInvalidPrice.Error(), 400)
	}

	company, err := h.Service.UpdatePrice(c.Context(), id, body.StockPrice)
	if err != nil {
		return response.Error(c, err.Error(), statusForCompanyError(err))
	}
	return response.Success(c, "Price updated", company)
}

func statusForCompanyError(err error) int {
	switch {
	case errors.Is(err, ErrCompanyNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrNameTaken), errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrInvalidESGScore), errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrInvalidShares):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
