package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chakai/reservation-api/internal/capacity"
	"github.com/chakai/reservation-api/internal/model"
	"github.com/chakai/reservation-api/internal/repository"
)

type reservationBody struct {
	SlotID       uint64   `json:"slot_id"`
	Participants uint32   `json:"participants"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Companions   []string `json:"companions"`
	Notes        *string  `json:"notes"`
}

// slotGroup mirrors the admin list screen: one expandable block per
// time slot with its reservations.
type slotGroup struct {
	Slot         repository.SlotRecord `json:"slot"`
	Reservations []reservationView     `json:"reservations"`
}

// ListEventReservations handles GET /v1/admin/events/:id/reservations,
// grouped by slot. Slots without bookings appear with an empty list.
func (h *AdminHandler) ListEventReservations(c echo.Context) error {
	eventID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if _, err := h.Events.GetByID(c.Request().Context(), eventID); err != nil {
		return domainError(c, err)
	}
	grouped, err := h.Reservations.ListByEventGrouped(c.Request().Context(), eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
	}

	out := make([]slotGroup, 0, len(grouped))
	for _, g := range grouped {
		views := make([]reservationView, 0, len(g.Reservations))
		for i := range g.Reservations {
			views = append(views, toReservationView(&g.Reservations[i]))
		}
		out = append(out, slotGroup{Slot: g.Slot, Reservations: views})
	}
	return c.JSON(http.StatusOK, echo.Map{"slots": out})
}

// CreateReservation handles POST /v1/admin/events/:id/reservations.
// Admins register phone and walk-in bookings, including into events
// that are not yet published.
func (h *AdminHandler) CreateReservation(c echo.Context) error {
	eventID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var body reservationBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	res, err := h.Capacity.ReserveSeats(c.Request().Context(), capacity.ReserveInput{
		EventID:       eventID,
		SlotID:        body.SlotID,
		Participants:  body.Participants,
		Name:          body.Name,
		Email:         body.Email,
		Phone:         body.Phone,
		Companions:    body.Companions,
		Notes:         body.Notes,
		AdminOverride: true,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, toReservationView(res))
}

// UpdateReservation handles PUT/PATCH /v1/admin/reservations/:id. Party
// size and slot changes settle both slots' counters; a stale version is
// rejected with 409.
func (h *AdminHandler) UpdateReservation(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body struct {
		reservationBody
		Version uint32 `json:"version"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Version == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "version is required"})
	}

	res, err := h.Capacity.ReviseReservation(c.Request().Context(), capacity.ReviseInput{
		ReservationID: id,
		Version:       body.Version,
		SlotID:        body.SlotID,
		Participants:  body.Participants,
		Name:          body.Name,
		Email:         body.Email,
		Phone:         body.Phone,
		Companions:    body.Companions,
		Notes:         body.Notes,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationView(res))
}

// DeleteReservation handles DELETE /v1/admin/reservations/:id.
func (h *AdminHandler) DeleteReservation(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Capacity.CancelReservation(c.Request().Context(), id); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListGuests handles GET /v1/admin/guests: reservation holders across
// all events collapsed by email, with their booking count and seat
// total. Feeds the recipient picker of the mail composer.
func (h *AdminHandler) ListGuests(c echo.Context) error {
	guests, err := h.Reservations.AggregateGuests(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list guests failed"})
	}
	if guests == nil {
		guests = []model.GuestSummary{}
	}
	return c.JSON(http.StatusOK, echo.Map{"guests": guests})
}
