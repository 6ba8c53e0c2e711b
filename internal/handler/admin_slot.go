package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/chakai/reservation-api/internal/model"
	"github.com/chakai/reservation-api/internal/repository"
)

type slotBody struct {
	Label           string `json:"label"`
	MaxParticipants uint32 `json:"max_participants"`
}

func toSlotRecord(s *model.TimeSlot) repository.SlotRecord {
	return repository.SlotRecord{
		ID:                  s.ID,
		EventID:             s.EventID,
		Label:               s.Label,
		MaxParticipants:     s.MaxParticipants,
		CurrentParticipants: s.CurrentParticipants,
		Version:             s.Version,
	}
}

// CreateSlot handles POST /v1/admin/events/:id/slots. Adding a slot
// raises the owning event's max_participants by the slot capacity.
func (h *AdminHandler) CreateSlot(c echo.Context) error {
	eventID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var body slotBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Label) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "label is required"})
	}

	slot, err := h.Capacity.AddSlot(c.Request().Context(), eventID, strings.TrimSpace(body.Label), body.MaxParticipants)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, toSlotRecord(slot))
}

// UpdateSlot handles PUT/PATCH /v1/admin/slots/:id. Shrinking a slot
// below its booked seats is rejected, and the event's maximum is
// re-derived from its slots.
func (h *AdminHandler) UpdateSlot(c echo.Context) error {
	slotID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	var body struct {
		slotBody
		Version uint32 `json:"version"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Label) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "label is required"})
	}
	if body.Version == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "version is required"})
	}

	slot, err := h.Capacity.ReviseSlot(c.Request().Context(), slotID, body.Version,
		strings.TrimSpace(body.Label), body.MaxParticipants)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, toSlotRecord(slot))
}

// DeleteSlot handles DELETE /v1/admin/slots/:id. Every reservation
// booked into the slot is removed and the event counters are settled in
// the same transaction.
func (h *AdminHandler) DeleteSlot(c echo.Context) error {
	slotID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	if err := h.Capacity.RemoveSlot(c.Request().Context(), slotID); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
