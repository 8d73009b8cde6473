package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kidlab/study-booking/internal/booking"
)

// BookingHandler exposes the participant-facing booking endpoint.  The
// whole hold/assign/release workflow lives in the booking package; the
// handler only validates the request shape and translates workflow errors
// into HTTP responses.
type BookingHandler struct {
	Orchestrator *booking.Orchestrator
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(o *booking.Orchestrator) *BookingHandler {
	if o == nil {
		panic("nil orchestrator passed to NewBookingHandler")
	}
	return &BookingHandler{Orchestrator: o}
}

// createBookingRequest is the JSON body of POST /v1/bookings.  Validation
// tags mirror the workflow's input constraints: 1–3 candidate slots and
// complete participant identity with a child age between 1 and 18.
type createBookingRequest struct {
	SlotIDs    []uint64 `json:"slot_ids" validate:"required,min=1,max=3,dive,gt=0"`
	ParentName string   `json:"parent_name" validate:"required"`
	ChildName  string   `json:"child_name" validate:"required"`
	ChildAge   int      `json:"child_age" validate:"required,min=1,max=18"`
	Email      string   `json:"email" validate:"required,email"`
	Phone      *string  `json:"phone,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
}

// assignedSlotResponse is the confirmation payload.  Only the winning
// slot is returned; which other candidates were tried is not exposed.
type assignedSlotResponse struct {
	ID       uint64    `json:"id"`
	Title    string    `json:"title"`
	Location string    `json:"location"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// CreateBooking handles POST /v1/bookings.  A participant names up to
// three candidate slots; the workflow holds them, books the earliest and
// releases the rest.  Error responses carry a machine-readable reason so
// the client can prompt a new selection:
//
//	400 validation_error        – malformed input
//	409 booking_limit_exceeded  – email already has 3 bookings
//	409 no_slots_available      – every candidate was taken
//	500 booking_assignment_failed – internal failure; nothing was booked
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var body createBookingRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "message": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "message": err.Error()})
	}

	asg, err := h.Orchestrator.CreateBooking(c.Request().Context(), booking.Request{
		SlotIDs:    body.SlotIDs,
		ParentName: body.ParentName,
		ChildName:  body.ChildName,
		ChildAge:   body.ChildAge,
		Email:      body.Email,
		Phone:      body.Phone,
		Notes:      body.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidRequest):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "message": "between 1 and 3 slot ids required"})
		case errors.Is(err, booking.ErrBookingLimitExceeded):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking_limit_exceeded"})
		case errors.Is(err, booking.ErrNoSlotsAvailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "no_slots_available"})
		default:
			c.Logger().Errorf("create booking: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking_assignment_failed"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id": asg.Booking.ID,
		"slot": assignedSlotResponse{
			ID:       asg.Slot.ID,
			Title:    asg.Slot.Title,
			Location: asg.Slot.Location,
			StartsAt: asg.Slot.StartsAt,
			EndsAt:   asg.Slot.EndsAt,
		},
	})
}
