package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-hotline/internal/auth"
	"github.com/spec-kit/complaint-hotline/internal/config"
	"github.com/spec-kit/complaint-hotline/pkg/util"
)

// StaffHandler exposes the operator login endpoint.
type StaffHandler struct {
	tokens *auth.TokenManager
	cfg    config.AuthConfig
}

// NewStaffHandler constructs handler.
func NewStaffHandler(tokens *auth.TokenManager, cfg config.AuthConfig) *StaffHandler {
	return &StaffHandler{tokens: tokens, cfg: cfg}
}

type staffLoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Login handles POST /auth/staff/login.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req staffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Password == "" {
		return util.NewValidationError("name and password required", nil)
	}

	if req.Name != h.cfg.OperatorName || h.cfg.OperatorPasswordHash == "" {
		return util.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(h.cfg.OperatorPasswordHash, req.Password); err != nil {
		return util.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := h.tokens.GenerateToken(req.Name)
	if err != nil {
		return util.NewInternalError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"token":      token,
			"expires_at": expiresAt,
		},
	})
}
