package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NOTE_STORE_DRIVER", "")
	t.Setenv("AWS_REGION", "")

	cfg := Load()

	assert.Equal(t, "/api", cfg.App.APIPrefix)
	assert.Equal(t, "*", cfg.App.AllowedOrigin)
	assert.True(t, cfg.Auth.AllowUnverified)
	assert.Equal(t, "note-events", cfg.Events.Topic)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NOTE_STORE_DRIVER", "DynamoDB")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("AUTH_ALLOW_UNVERIFIED", "false")
	t.Setenv("S3_USE_PATH_STYLE", "true")
	t.Setenv("GO_ENV", "production")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, DriverDynamoDB, cfg.Store.Driver)
	assert.Equal(t, "eu-west-1", cfg.Store.Region)
	assert.Equal(t, "eu-west-1", cfg.Files.Region)
	assert.False(t, cfg.Auth.AllowUnverified)
	assert.True(t, cfg.Files.UsePathStyle)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Trace.Enabled)
}

func TestGetEnvAsBoolFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_FLAG", "maybe")
	assert.True(t, getEnvAsBool("SOME_FLAG", true))
	assert.False(t, getEnvAsBool("SOME_FLAG", false))
}
