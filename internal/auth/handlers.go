package auth

import (
	"context"
	"errors"

	"greenvest-backend/internal/middleware"
	"greenvest-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Service *Service
	Rdb     *redis.Client
	Config  middleware.SessionConfig
}

// Register POST /api/v1/auth/register — create the user and log them in.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, ErrEmailPasswordRequired.Error(), 400)
	}

	user, err := h.Service.Register(req)
	if err != nil {
		return response.Error(c, err.Error(), statusForAuthError(err))
	}

	h.openSession(c, middleware.SessionUser{
		UserID:   user.UserID.String(),
		Fullname: user.Fullname,
		Email:    user.Email,
		Role:     user.Role,
	})
	return response.SuccessCreated(c, "Registration successful", fiber.Map{"user": user})
}

// Login POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, ErrEmailPasswordRequired.Error(), 400)
	}

	user, err := h.Service.Login(req)
	if err != nil {
		return response.Error(c, err.Error(), statusForAuthError(err))
	}

	h.openSession(c, middleware.SessionUser{
		UserID:   user.UserID.String(),
		Fullname: user.Fullname,
		Email:    user.Email,
		Role:     user.Role,
	})
	return response.Success(c, "Login successful", fiber.Map{"user": user})
}

// Me GET /api/v1/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c).(map[string]interface{})
	if !ok || user["user_id"] == nil {
		return response.Unauthorized(c, ErrNotAuthenticated.Error())
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": user})
}

// Logout DELETE /api/v1/auth/logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if sid := middleware.GetSessionID(c); sid != "" && h.Rdb != nil {
		h.Rdb.Del(context.Background(), middleware.SessionRedisPrefix+sid)
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.MaxAge = -1
	c.Cookie(&cookie)
	return response.Success(c, "Logged out", nil)
}

func (h *Handlers) openSession(c *fiber.Ctx, user middleware.SessionUser) {
	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, user)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = sessionID
	c.Cookie(&cookie)
}

func statusForAuthError(err error) int {
	switch {
	case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrIncorrectPassword):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrEmailPasswordRequired), errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrInvalidFullname), errors.Is(err, ErrWeakPassword):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
