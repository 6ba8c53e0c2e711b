package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessageHidesRecipients(t *testing.T) {
	msg := string(buildMessage("noreply@chakai.example.com", "hello", "body text"))

	assert.Contains(t, msg, "From: noreply@chakai.example.com\r\n")
	assert.Contains(t, msg, "To: undisclosed-recipients:;\r\n")
	assert.Contains(t, msg, "Subject: hello\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nbody text"),
		"body follows the blank line after the headers")
}

func TestBuildMessageEncodesSubject(t *testing.T) {
	msg := string(buildMessage("noreply@chakai.example.com", "茶会のご案内", "本文"))

	// Non-ASCII subjects are Q-encoded for transport.
	assert.Contains(t, msg, "Subject: =?utf-8?q?")
	assert.NotContains(t, msg, "Subject: 茶会のご案内")
}
