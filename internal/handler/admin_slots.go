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

// createSlotRequest is the JSON body of POST /v1/admin/slots.  Times are
// RFC 3339 strings; capacity must be at least 1.
type createSlotRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description,omitempty"`
	Location    string  `json:"location" validate:"required"`
	StartsAt    string  `json:"starts_at" validate:"required"`
	EndsAt      string  `json:"ends_at" validate:"required"`
	MaxBookings uint32  `json:"max_bookings" validate:"required,min=1"`
}

// updateSlotRequest is the JSON body of PATCH /v1/admin/slots/:id.  All
// fields are optional; absent fields are left unchanged.
type updateSlotRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	StartsAt    *string `json:"starts_at,omitempty"`
	EndsAt      *string `json:"ends_at,omitempty"`
	MaxBookings *uint32 `json:"max_bookings,omitempty" validate:"omitempty,min=1"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// CreateSlot handles POST /v1/admin/slots.  It creates a new bookable
// slot; the booking counter starts at zero and the slot is active.
func (h *AdminHandler) CreateSlot(c echo.Context) error {
	adminID, err := getAdminID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body createSlotRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC 3339"})
	}
	endsAt, err := time.Parse(time.RFC3339, body.EndsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be RFC 3339"})
	}
	if !endsAt.After(startsAt) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
	}

	slot := &model.TimeSlot{
		Title:       body.Title,
		Description: body.Description,
		Location:    body.Location,
		StartsAt:    startsAt.UTC(),
		EndsAt:      endsAt.UTC(),
		MaxBookings: body.MaxBookings,
		CreatedBy:   adminID,
	}
	if err := h.SlotRepo.Create(c.Request().Context(), slot); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create slot"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": slot.ID})
}

// UpdateSlot handles PATCH /v1/admin/slots/:id.  Capacity and the active
// flag may be changed here; the booking counter and hold fields are owned
// by the booking workflow and cannot be edited.
func (h *AdminHandler) UpdateSlot(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	var body updateSlotRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	upd := repository.SlotUpdate{
		Title:       body.Title,
		Description: body.Description,
		Location:    body.Location,
		MaxBookings: body.MaxBookings,
		IsActive:    body.IsActive,
	}
	if body.StartsAt != nil {
		t, err := time.Parse(time.RFC3339, *body.StartsAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC 3339"})
		}
		upd.StartsAt = &t
	}
	if body.EndsAt != nil {
		t, err := time.Parse(time.RFC3339, *body.EndsAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be RFC 3339"})
		}
		upd.EndsAt = &t
	}

	err = h.SlotRepo.Update(c.Request().Context(), id, upd)
	switch {
	case errors.Is(err, repository.ErrSlotNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
	case errors.Is(err, repository.ErrNoChange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update slot"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteSlot handles DELETE /v1/admin/slots/:id.  Bookings referencing
// the slot are removed with it.
func (h *AdminHandler) DeleteSlot(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	err = h.SlotRepo.Delete(c.Request().Context(), id)
	if errors.Is(err, repository.ErrSlotNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete slot"})
	}
	return c.NoContent(http.StatusNoContent)
}

// adminSlot is a slot as exposed to admins, including the active flag and
// hold state participants never see.
type adminSlot struct {
	ID              uint64     `json:"id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	Location        string     `json:"location"`
	StartsAt        time.Time  `json:"starts_at"`
	EndsAt          time.Time  `json:"ends_at"`
	MaxBookings     uint32     `json:"max_bookings"`
	CurrentBookings uint32     `json:"current_bookings"`
	IsActive        bool       `json:"is_active"`
	HoldBy          *string    `json:"hold_by,omitempty"`
	HoldExpiresAt   *time.Time `json:"hold_expires_at,omitempty"`
}

// ListSlots handles GET /v1/admin/slots.  It returns every slot (active
// or not) visible to the calling admin: all slots for unscoped admins,
// only the admin's own location otherwise.
func (h *AdminHandler) ListSlots(c echo.Context) error {
	ctx := c.Request().Context()
	location, err := h.callerLocation(ctx, c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	slots, err := h.SlotRepo.ListAll(ctx, location)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load slots"})
	}
	items := make([]adminSlot, 0, len(slots))
	for i := range slots {
		s := &slots[i]
		items = append(items, adminSlot{
			ID:              s.ID,
			Title:           s.Title,
			Description:     s.Description,
			Location:        s.Location,
			StartsAt:        s.StartsAt,
			EndsAt:          s.EndsAt,
			MaxBookings:     s.MaxBookings,
			CurrentBookings: s.CurrentBookings,
			IsActive:        s.IsActive,
			HoldBy:          s.HoldBy,
			HoldExpiresAt:   s.HoldExpiresAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
