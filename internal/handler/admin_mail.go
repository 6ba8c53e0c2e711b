package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/chakai/reservation-api/internal/queue"
)

type bulkMailReq struct {
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	Recipients []string `json:"recipients"`
}

// SendBulkMail handles POST /v1/admin/mail. The handler only validates
// and enqueues; delivery happens in the background consumer, so the
// response is a 202 with the job's message id for correlation with the
// consumer logs.
func (h *AdminHandler) SendBulkMail(c echo.Context) error {
	var req bulkMailReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Subject = strings.TrimSpace(req.Subject)
	if req.Subject == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "subject is required"})
	}
	if strings.TrimSpace(req.Body) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body is required"})
	}

	// Dedupe recipients case-insensitively and drop blanks; the composer
	// screen sends whatever rows were ticked.
	seen := make(map[string]struct{}, len(req.Recipients))
	recipients := make([]string, 0, len(req.Recipients))
	for _, r := range req.Recipients {
		addr := strings.ToLower(strings.TrimSpace(r))
		if addr == "" || !strings.Contains(addr, "@") {
			continue
		}
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}
		recipients = append(recipients, addr)
	}
	if len(recipients) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one recipient is required"})
	}

	job := queue.BulkMailJob{
		MessageID:  uuid.NewString(),
		Subject:    req.Subject,
		Body:       req.Body,
		Recipients: recipients,
		QueuedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.PublishMail(ctx, job); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "enqueue mail failed"})
	}

	return c.JSON(http.StatusAccepted, echo.Map{
		"message_id": job.MessageID,
		"recipients": len(recipients),
	})
}
