package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chakai/reservation-api/internal/capacity"
	"github.com/chakai/reservation-api/internal/repository"
)

// PublicHandler serves the guest-facing catalog and booking endpoints.
// No authentication is applied; the response cache and rate limiter sit
// in front of these routes instead.
type PublicHandler struct {
	Events       *repository.EventRepo
	Slots        *repository.SlotRepo
	Reservations *repository.ReservationRepo
	Capacity     *capacity.Service
}

func NewPublicHandler(events *repository.EventRepo, slots *repository.SlotRepo,
	reservations *repository.ReservationRepo, capSvc *capacity.Service) *PublicHandler {
	if events == nil || slots == nil || reservations == nil || capSvc == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Events: events, Slots: slots, Reservations: reservations, Capacity: capSvc}
}

type publicEvent struct {
	repository.EventRecord
	Remaining uint32 `json:"remaining"`
}

type publicSlot struct {
	repository.SlotRecord
	Remaining uint32 `json:"remaining"`
}

func remaining(max, current uint32) uint32 {
	if current >= max {
		return 0
	}
	return max - current
}

// ListEvents handles GET /v1/events: the active catalog with remaining
// seats per event. Sits behind the redis response cache.
func (h *PublicHandler) ListEvents(c echo.Context) error {
	events, err := h.Events.List(c.Request().Context(), true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list events failed"})
	}
	out := make([]publicEvent, 0, len(events))
	for _, e := range events {
		out = append(out, publicEvent{
			EventRecord: e,
			Remaining:   remaining(e.MaxParticipants, e.CurrentParticipants),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"events": out})
}

// GetEvent handles GET /v1/events/:id: one active event with its time
// slots and their remaining capacity. Hidden events answer 404 so the
// public surface never confirms their existence.
func (h *PublicHandler) GetEvent(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	e, err := h.Events.GetByID(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	if !e.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	slots, err := h.Slots.ListByEvent(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list slots failed"})
	}
	outSlots := make([]publicSlot, 0, len(slots))
	for _, s := range slots {
		outSlots = append(outSlots, publicSlot{
			SlotRecord: s,
			Remaining:  remaining(s.MaxParticipants, s.CurrentParticipants),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"event": publicEvent{
			EventRecord: *e,
			Remaining:   remaining(e.MaxParticipants, e.CurrentParticipants),
		},
		"slots": outSlots,
	})
}
