package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "SECRET_KEY", "TOKEN_EXPIRY", "CORS_ORIGINS", "MAX_CONTENT_LENGTH", "CLASSIFIER_PROVIDER"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 30*24*time.Hour, cfg.TokenExpiry)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(16<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "auto", cfg.ClassifierProvider)
	assert.Equal(t, "uploads", cfg.UploadDir)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_EXPIRY", "2h")
	t.Setenv("CORS_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("MAX_CONTENT_LENGTH", "1024")
	t.Setenv("CLASSIFIER_TIMEOUT", "3s")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.TokenExpiry)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.Equal(t, 3*time.Second, cfg.ClassifierTimeout)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TOKEN_EXPIRY", "forever")
	t.Setenv("MAX_CONTENT_LENGTH", "-5")
	t.Setenv("CLASSIFIER_TIMEOUT", "0s")

	cfg := Load()

	assert.Equal(t, 30*24*time.Hour, cfg.TokenExpiry)
	assert.Equal(t, int64(16<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 10*time.Second, cfg.ClassifierTimeout)
}

func TestLoad_UploadRetention(t *testing.T) {
	t.Setenv("UPLOAD_RETENTION", "")
	assert.Zero(t, Load().UploadRetention)

	t.Setenv("UPLOAD_RETENTION", "168h")
	assert.Equal(t, 7*24*time.Hour, Load().UploadRetention)
}
