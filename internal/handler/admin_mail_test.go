package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chakai/reservation-api/internal/queue"
)

func postMail(t *testing.T, h *AdminHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/mail", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.SendBulkMail(e.NewContext(req, rec)))
	return rec
}

func TestSendBulkMailValidation(t *testing.T) {
	h := &AdminHandler{PublishMail: func(context.Context, queue.BulkMailJob) error {
		t.Fatal("nothing should be enqueued on invalid input")
		return nil
	}}

	cases := []struct {
		name string
		body string
	}{
		{"missing subject", `{"body":"b","recipients":["a@example.com"]}`},
		{"missing body", `{"subject":"s","recipients":["a@example.com"]}`},
		{"no recipients", `{"subject":"s","body":"b","recipients":[]}`},
		{"only invalid recipients", `{"subject":"s","body":"b","recipients":["", "not-an-address"]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postMail(t, h, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSendBulkMailEnqueues(t *testing.T) {
	var got queue.BulkMailJob
	h := &AdminHandler{PublishMail: func(_ context.Context, job queue.BulkMailJob) error {
		got = job
		return nil
	}}

	// Duplicates (case-insensitive) and blanks are dropped before the
	// job is published.
	rec := postMail(t, h, `{
		"subject": "茶会のご案内",
		"body": "当日の詳細です。",
		"recipients": ["Guest@example.com", "guest@example.com", "", "other@example.com"]
	}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	assert.Equal(t, []string{"guest@example.com", "other@example.com"}, got.Recipients)
	assert.Equal(t, "茶会のご案内", got.Subject)
	assert.NotEmpty(t, got.MessageID)
	assert.NotEmpty(t, got.QueuedAt)

	var resp struct {
		MessageID  string `json:"message_id"`
		Recipients int    `json:"recipients"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, got.MessageID, resp.MessageID)
	assert.Equal(t, 2, resp.Recipients)
}
