package serverutils

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"cloudnotes-be/internal/config"
	"cloudnotes-be/internal/pkg/apperror"
	"cloudnotes-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"unauthorized", apperror.Unauthorized(""), 401, "Unauthorized"},
		{"bad request", apperror.BadRequest("title is required"), 400, "title is required"},
		{"not found", apperror.NotFound("Note not found"), 404, "Note not found"},
		{"wrapped not found", fmt.Errorf("ctx: %w", apperror.NotFound("Missing id")), 404, "Missing id"},
		{"conflict collapses", apperror.Conflict("note already exists", errors.New("dup")), 500, "Internal Server Error"},
		{"internal", apperror.Internal("db", errors.New("down")), 500, "Internal Server Error"},
		{"plain error", errors.New("boom"), 500, "Internal Server Error"},
		{"fiber route miss", fiber.ErrNotFound, 404, "Not Found"},
		{"fiber body too large", fiber.ErrRequestEntityTooLarge, 413, "Request Entity Too Large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := StatusOf(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}

func newTestApp(handler fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(logger.NewNopLogger())})
	app.Use(CORSMiddleware("*"))
	resolver := NewIdentityResolver(config.AuthConfig{JWTSecret: testSecret}, logger.NewNopLogger())
	app.Get("/whoami", IdentityMiddleware(resolver), handler)
	return app
}

func TestIdentityMiddleware(t *testing.T) {
	app := newTestApp(func(ctx *fiber.Ctx) error {
		identity, err := CurrentIdentity(ctx)
		if err != nil {
			return err
		}
		return Ok(ctx, fiber.Map{"sub": identity.Subject})
	})

	t.Run("resolved", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("authorization", "Bearer "+sign(t, testSecret, jwt.MapClaims{"sub": "alice"}))

		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, 200, resp.StatusCode)
		assert.JSONEq(t, `{"sub":"alice"}`, string(body))
	})

	t.Run("rejected with cors headers", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, 401, resp.StatusCode)
		assert.JSONEq(t, `{"message":"Unauthorized"}`, string(body))
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	})
}

func TestCurrentIdentityWithoutMiddleware(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(logger.NewNopLogger())})
	app.Get("/", func(ctx *fiber.Ctx) error {
		_, err := CurrentIdentity(ctx)
		return err
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(func(ctx *fiber.Ctx) error { return nil })

	resp, err := app.Test(httptest.NewRequest("OPTIONS", "/anything/at/all", nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
	assert.Equal(t, "GET,POST,PUT,DELETE,OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Authorization, Content-Type", resp.Header.Get("Access-Control-Allow-Headers"))
}

func TestValidateRequest(t *testing.T) {
	type payload struct {
		Title string `json:"title" validate:"required"`
		Kind  string `json:"kind" validate:"omitempty,oneof=a b"`
	}

	assert.NoError(t, ValidateRequest(&payload{Title: "T"}))

	err := ValidateRequest(&payload{})
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
	assert.Equal(t, "title is required", apperror.MessageOf(err))

	err = ValidateRequest(&payload{Title: "T", Kind: "z"})
	assert.Equal(t, "kind is invalid", apperror.MessageOf(err))
}
