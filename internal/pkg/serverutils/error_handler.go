package serverutils

import (
	"errors"

	"cloudnotes-be/internal/pkg/apperror"
	"cloudnotes-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const internalMessage = "Internal Server Error"

// StatusOf maps an error to the HTTP status and client-facing message.
// Conflicts are not surfaced separately and collapse into a 500.
func StatusOf(err error) (int, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code >= fiber.StatusInternalServerError {
			return fiberErr.Code, internalMessage
		}
		return fiberErr.Code, utils.StatusMessage(fiberErr.Code)
	}

	switch apperror.KindOf(err) {
	case apperror.KindUnauthorized:
		return fiber.StatusUnauthorized, messageOr(err, "Unauthorized")
	case apperror.KindBadRequest:
		return fiber.StatusBadRequest, messageOr(err, "Bad Request")
	case apperror.KindNotFound:
		return fiber.StatusNotFound, messageOr(err, "Not Found")
	default:
		return fiber.StatusInternalServerError, internalMessage
	}
}

func messageOr(err error, fallback string) string {
	if msg := apperror.MessageOf(err); msg != "" {
		return msg
	}
	return fallback
}

// NewErrorHandler is the single place errors become responses. Server errors are
// logged with their cause and answered with a generic message.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		status, message := StatusOf(err)
		if status >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"Method": ctx.Method(),
				"Path":   ctx.Path(),
				"Status": status,
				"error":  err.Error(),
			})
		}
		return ErrorResponse(ctx, status, message)
	}
}
