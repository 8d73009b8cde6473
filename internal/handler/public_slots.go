// Package handler exposes HTTP handlers for both public and admin
// endpoints.  This file defines the public slot browsing API used by
// participants to pick candidate appointments.  Hold fields and other
// internal bookkeeping are filtered from responses.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kidlab/study-booking/internal/model"
	"github.com/kidlab/study-booking/internal/repository"
)

// PublicHandler serves unauthenticated slot browsing.
type PublicHandler struct {
	SlotRepo *repository.SlotRepo
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(slotRepo *repository.SlotRepo) *PublicHandler {
	if slotRepo == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{SlotRepo: slotRepo}
}

// PublicSlot is a time slot as exposed to participants.  Hold fields are
// deliberately absent: whether someone currently holds a slot is internal
// to the booking workflow.
type PublicSlot struct {
	ID              uint64    `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description,omitempty"`
	Location        string    `json:"location"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	MaxBookings     uint32    `json:"max_bookings"`
	CurrentBookings uint32    `json:"current_bookings"`
}

func toPublicSlot(s *model.TimeSlot) PublicSlot {
	return PublicSlot{
		ID:              s.ID,
		Title:           s.Title,
		Description:     s.Description,
		Location:        s.Location,
		StartsAt:        s.StartsAt,
		EndsAt:          s.EndsAt,
		MaxBookings:     s.MaxBookings,
		CurrentBookings: s.CurrentBookings,
	}
}

// ListActiveSlots handles GET /v1/slots.  It returns all active slots
// ordered by start time, optionally filtered with ?location=.  Inactive
// slots are never included.
func (h *PublicHandler) ListActiveSlots(c echo.Context) error {
	location := c.QueryParam("location")
	slots, err := h.SlotRepo.ListActive(c.Request().Context(), location)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load slots"})
	}
	items := make([]PublicSlot, 0, len(slots))
	for i := range slots {
		items = append(items, toPublicSlot(&slots[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetSlot handles GET /v1/slots/:id.  It returns a single slot in its
// sanitized public form, or 404 when it does not exist or is inactive.
func (h *PublicHandler) GetSlot(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	slot, err := h.SlotRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !slot.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toPublicSlot(slot)})
}
