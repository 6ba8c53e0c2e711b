package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	for k, v := range map[string]string{
		"APP_ENV":                "test",
		"APP_PORT":               "8080",
		"DB_USER":                "root",
		"DB_HOST":                "localhost",
		"DB_PORT":                "3306",
		"DB_NAME":                "chakai",
		"JWT_SECRET":             "secret",
		"ACCESS_TOKEN_TTL_MIN":   "15",
		"REFRESH_TOKEN_TTL_DAYS": "30",
		"BCRYPT_COST":            "10",
	} {
		t.Setenv(k, v)
	}
}

func TestLoadMailDefaults(t *testing.T) {
	setRequiredEnv(t)
	// getenv treats empty as unset, so this pins the defaults even when
	// the surrounding environment carries mail settings.
	for _, k := range []string{"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "MAIL_FROM"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "localhost", cfg.SMTPHost)
	assert.Equal(t, "25", cfg.SMTPPort)
	assert.Empty(t, cfg.SMTPUser)
	assert.Equal(t, "noreply@chakai.example.com", cfg.MailFrom)
}

func TestLoadMailOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SMTP_HOST", "mail.internal")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("SMTP_USER", "robot")
	t.Setenv("SMTP_PASS", "hunter2")
	t.Setenv("MAIL_FROM", "events@chakai.example.com")

	cfg := Load()
	assert.Equal(t, "mail.internal", cfg.SMTPHost)
	assert.Equal(t, "587", cfg.SMTPPort)
	assert.Equal(t, "robot", cfg.SMTPUser)
	assert.Equal(t, "hunter2", cfg.SMTPPass)
	assert.Equal(t, "events@chakai.example.com", cfg.MailFrom)
}
