package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chakai/reservation-api/internal/capacity"
	"github.com/chakai/reservation-api/internal/model"
	"github.com/chakai/reservation-api/internal/repository"
)

// getUserID extracts the user_id the JWT middleware stored on the
// context and normalizes it to uint64.
func getUserID(c echo.Context) (uint64, error) {
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

// pathID parses the named path parameter as a uint64 id.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// domainError translates ledger and repository sentinels into HTTP
// responses. Anything unrecognized becomes a 500 with a generic body so
// internals never leak to clients.
func domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, capacity.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, capacity.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	case errors.Is(err, capacity.ErrSlotNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "time slot not found"})
	case errors.Is(err, capacity.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, capacity.ErrSlotMismatch):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "time slot does not belong to event"})
	case errors.Is(err, capacity.ErrEventInactive):
		return c.JSON(http.StatusConflict, echo.Map{"error": "event is not open for booking"})
	case errors.Is(err, capacity.ErrCapacityExceeded):
		return c.JSON(http.StatusConflict, echo.Map{"error": "not enough seats left in this time slot"})
	case errors.Is(err, capacity.ErrVersionConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "resource was modified, reload and retry"})
	case errors.Is(err, capacity.ErrNumberExhausted):
		return c.JSON(http.StatusConflict, echo.Map{"error": "no reservation numbers available"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// reservationView is the wire shape of a reservation shared by the admin
// and public endpoints.
type reservationView struct {
	ID           uint64    `json:"id"`
	EventID      uint64    `json:"event_id"`
	SlotID       uint64    `json:"slot_id"`
	Number       string    `json:"number"`
	Participants uint32    `json:"participants"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Companions   []string  `json:"companions"`
	Notes        *string   `json:"notes,omitempty"`
	TotalCostYen uint32    `json:"total_cost_yen"`
	Version      uint32    `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toReservationView(r *model.Reservation) reservationView {
	companions := r.Companions
	if companions == nil {
		companions = []string{}
	}
	return reservationView{
		ID:           r.ID,
		EventID:      r.EventID,
		SlotID:       r.SlotID,
		Number:       r.Number,
		Participants: r.Participants,
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		Companions:   companions,
		Notes:        r.Notes,
		TotalCostYen: r.TotalCostYen,
		Version:      r.Version,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
