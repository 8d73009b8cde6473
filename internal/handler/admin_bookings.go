package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kidlab/study-booking/internal/repository"
)

// ListBookings handles GET /v1/admin/bookings.  Location-scoped admins
// only see bookings whose slot belongs to their site.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	ctx := c.Request().Context()
	location, err := h.callerLocation(ctx, c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.BookingRepo.ListAll(ctx, location)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// ListSlotBookings handles GET /v1/admin/slots/:id/bookings.
func (h *AdminHandler) ListSlotBookings(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	ctx := c.Request().Context()
	if _, err := h.SlotRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	details, err := h.BookingRepo.ListBySlot(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// DeleteBooking handles DELETE /v1/admin/bookings/:id.  The booking row
// and its slot's counter decrement happen in one transaction; the counter
// never drops below zero even if it had drifted.
func (h *AdminHandler) DeleteBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	err = h.BookingRepo.Delete(c.Request().Context(), id)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete booking"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ClearSlotBookings handles DELETE /v1/admin/slots/:id/bookings.  All
// bookings for the slot are removed and its counter reset to zero,
// regardless of the counter's prior value.
func (h *AdminHandler) ClearSlotBookings(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	ctx := c.Request().Context()
	if _, err := h.SlotRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	removed, err := h.BookingRepo.ClearBySlot(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to clear bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"removed": removed})
}
