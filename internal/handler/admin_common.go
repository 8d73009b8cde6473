package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kidlab/study-booking/internal/repository"
)

// AdminHandler bundles the repositories admins need to manage slots and
// review bookings.  All methods assume JWT authentication and the ADMIN
// role check have already run in middleware.
type AdminHandler struct {
	SlotRepo    *repository.SlotRepo
	BookingRepo *repository.BookingRepo
	AdminRepo   *repository.AdminRepo
}

// NewAdminHandler constructs an AdminHandler and panics if any dependency
// is nil.
func NewAdminHandler(slotRepo *repository.SlotRepo, bookingRepo *repository.BookingRepo, adminRepo *repository.AdminRepo) *AdminHandler {
	if slotRepo == nil || bookingRepo == nil || adminRepo == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{SlotRepo: slotRepo, BookingRepo: bookingRepo, AdminRepo: adminRepo}
}

// getAdminID extracts the admin id placed in context by the JWT
// middleware.  Claims decoded from JSON arrive as float64.
func getAdminID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// callerLocation resolves the calling admin's location scope.  Admins
// without a location see everything; location-bound admins only see their
// own site's slots and bookings.  An admin row that has vanished scopes
// to nothing rather than everything.
func (h *AdminHandler) callerLocation(ctx context.Context, c echo.Context) (string, error) {
	adminID, err := getAdminID(c)
	if err != nil {
		return "", err
	}
	admin, err := h.AdminRepo.GetByID(ctx, adminID)
	if err != nil {
		return "", err
	}
	if admin.Location == nil {
		return "", nil
	}
	return *admin.Location, nil
}
