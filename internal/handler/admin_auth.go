package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kidlab/study-booking/internal/config"
	"github.com/kidlab/study-booking/internal/repository"
	"github.com/kidlab/study-booking/internal/utils"
)

// AdminAuthHandler implements email/password login for study
// coordinators.  Successful logins receive a short-lived JWT access token
// carrying the ADMIN role.
type AdminAuthHandler struct {
	cfg       config.Config
	AdminRepo *repository.AdminRepo
}

// NewAdminAuthHandler constructs an AdminAuthHandler.
func NewAdminAuthHandler(cfg config.Config, adminRepo *repository.AdminRepo) *AdminAuthHandler {
	if adminRepo == nil {
		panic("nil repository passed to NewAdminAuthHandler")
	}
	return &AdminAuthHandler{cfg: cfg, AdminRepo: adminRepo}
}

// Login handles POST /v1/admin/login.  Credentials are verified against
// the bcrypt hash stored for the admin.  The response deliberately does
// not distinguish an unknown email from a wrong password.
func (h *AdminAuthHandler) Login(c echo.Context) error {
	var body struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	admin, err := h.AdminRepo.GetByEmail(c.Request().Context(), body.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !utils.VerifyPassword(admin.Password, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	tok, err := utils.NewAccessToken(h.cfg.JWTSecret, admin.ID, "ADMIN", h.cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp.Format(time.RFC3339),
	})
}
