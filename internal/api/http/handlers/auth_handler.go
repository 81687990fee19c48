package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/api/dto"
	"github.com/spec-kit/employee-service/internal/service"
)

// AuthHandler exposes login, refresh and refresh-token revocation.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/admin/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	req, err := dto.DecodeLogin(c.Body())
	if err != nil {
		return err
	}
	pair, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenPairResponse{Access: pair.Access.Value, Refresh: pair.Refresh.Value})
}

// Refresh handles POST /api/token/refresh/.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	req, err := dto.DecodeRefresh(c.Body())
	if err != nil {
		return err
	}
	access, err := h.auth.Refresh(c.UserContext(), req.Refresh)
	if err != nil {
		return err
	}
	return c.JSON(dto.AccessTokenResponse{Access: access.Value})
}

// Blacklist handles POST /api/token/blacklist/.
func (h *AuthHandler) Blacklist(c *fiber.Ctx) error {
	req, err := dto.DecodeRefresh(c.Body())
	if err != nil {
		return err
	}
	if err := h.auth.Revoke(c.UserContext(), req.Refresh); err != nil {
		return err
	}
	return c.JSON(fiber.Map{})
}
