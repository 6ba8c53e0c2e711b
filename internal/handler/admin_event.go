package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/chakai/reservation-api/internal/capacity"
	"github.com/chakai/reservation-api/internal/config"
	"github.com/chakai/reservation-api/internal/queue"
	"github.com/chakai/reservation-api/internal/repository"
)

// AdminHandler bundles the dependencies of the ADMIN-scoped endpoints:
// event and slot management, reservation management, guest listing,
// bulk mail and image upload.
type AdminHandler struct {
	Cfg          config.Config
	Events       *repository.EventRepo
	Slots        *repository.SlotRepo
	Reservations *repository.ReservationRepo
	Capacity     *capacity.Service

	// PublishMail enqueues a bulk-mail job on the broker. Injected as a
	// function so handler tests can capture jobs without a running
	// RabbitMQ.
	PublishMail func(ctx context.Context, job queue.BulkMailJob) error
}

func NewAdminHandler(cfg config.Config, events *repository.EventRepo, slots *repository.SlotRepo,
	reservations *repository.ReservationRepo, capSvc *capacity.Service,
	publishMail func(ctx context.Context, job queue.BulkMailJob) error) *AdminHandler {
	if events == nil || slots == nil || reservations == nil || capSvc == nil || publishMail == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{
		Cfg:          cfg,
		Events:       events,
		Slots:        slots,
		Reservations: reservations,
		Capacity:     capSvc,
		PublishMail:  publishMail,
	}
}

// maxCostYen bounds the per-seat price so the derived reservation total
// fits a uint32 even for the largest party.
const maxCostYen = 1_000_000

type eventBody struct {
	Title       string  `json:"title"`
	Venue       string  `json:"venue"`
	EventDate   string  `json:"event_date"`
	CostYen     uint32  `json:"cost_yen"`
	Description *string `json:"description"`
	IsActive    bool    `json:"is_active"`
}

func (b *eventBody) validate() (string, bool) {
	b.Title = strings.TrimSpace(b.Title)
	b.Venue = strings.TrimSpace(b.Venue)
	b.EventDate = strings.TrimSpace(b.EventDate)
	switch {
	case b.Title == "":
		return "title is required", false
	case b.Venue == "":
		return "venue is required", false
	case b.EventDate == "":
		return "event_date is required", false
	case b.CostYen > maxCostYen:
		return "cost_yen is too large", false
	}
	return "", true
}

// ListEvents handles GET /v1/admin/events. Unlike the public catalog it
// includes hidden events.
func (h *AdminHandler) ListEvents(c echo.Context) error {
	events, err := h.Events.List(c.Request().Context(), false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list events failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// CreateEvent handles POST /v1/admin/events. The event starts with zero
// capacity; slots added afterwards raise max_participants.
func (h *AdminHandler) CreateEvent(c echo.Context) error {
	var body eventBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg, ok := body.validate(); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	rec := &repository.EventRecord{
		Title:       body.Title,
		Venue:       body.Venue,
		EventDate:   body.EventDate,
		CostYen:     body.CostYen,
		Description: body.Description,
		IsActive:    body.IsActive,
	}
	id, err := h.Events.Create(c.Request().Context(), rec)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	created, err := h.Events.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateEvent handles PUT/PATCH /v1/admin/events/:id. The body must
// carry the version the admin screen last read; edits against a stale
// version come back as 409.
func (h *AdminHandler) UpdateEvent(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var body struct {
		eventBody
		Version uint32 `json:"version"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg, ok := body.validate(); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if body.Version == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "version is required"})
	}

	rec := &repository.EventRecord{
		ID:          id,
		Title:       body.Title,
		Venue:       body.Venue,
		EventDate:   body.EventDate,
		CostYen:     body.CostYen,
		Description: body.Description,
		IsActive:    body.IsActive,
		Version:     body.Version,
	}
	if err := h.Events.Update(c.Request().Context(), rec); err != nil {
		return domainError(c, err)
	}
	updated, err := h.Events.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteEvent handles DELETE /v1/admin/events/:id and cascades to the
// event's slots and reservations in one transaction.
func (h *AdminHandler) DeleteEvent(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if err := h.Capacity.RemoveEvent(c.Request().Context(), id); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
