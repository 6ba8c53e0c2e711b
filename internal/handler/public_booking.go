package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/chakai/reservation-api/internal/capacity"
	"github.com/chakai/reservation-api/internal/repository"
)

// CreateReservation handles POST /v1/events/:id/reservations, the guest
// booking form. An Idempotency-Key header makes form resubmits safe:
// the replay returns the reservation created by the first attempt.
func (h *PublicHandler) CreateReservation(c echo.Context) error {
	eventID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var body reservationBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	res, err := h.Capacity.ReserveSeats(c.Request().Context(), capacity.ReserveInput{
		EventID:        eventID,
		SlotID:         body.SlotID,
		Participants:   body.Participants,
		Name:           body.Name,
		Email:          body.Email,
		Phone:          body.Phone,
		Companions:     body.Companions,
		Notes:          body.Notes,
		IdempotencyKey: strings.TrimSpace(c.Request().Header.Get("Idempotency-Key")),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, toReservationView(res))
}

type lookupReq struct {
	EventID uint64 `json:"event_id"`
	Number  string `json:"number"`
}

// LookupReservation handles POST /v1/reservations/lookup. Holders
// retrieve their booking with the event and the 6-digit number printed
// on the confirmation screen. POST keeps the number out of URLs and
// access logs.
func (h *PublicHandler) LookupReservation(c echo.Context) error {
	var req lookupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Number = strings.TrimSpace(req.Number)
	if req.EventID == 0 || len(req.Number) != 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id and 6-digit number required"})
	}
	res, err := h.Reservations.GetByEventAndNumber(c.Request().Context(), req.EventID, req.Number)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationView(res))
}

// CancelReservation handles DELETE /v1/reservations/:id. The holder
// proves ownership with the reservation number; an id alone is not
// enough to cancel somebody else's booking.
func (h *PublicHandler) CancelReservation(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req struct {
		Number string `json:"number"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Number) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number is required"})
	}

	res, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	if res.Number != strings.TrimSpace(req.Number) {
		return domainError(c, repository.ErrForbidden)
	}
	if err := h.Capacity.CancelReservation(c.Request().Context(), id); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
