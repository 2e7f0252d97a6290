package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

// CORSHeaders is the fixed header set attached to every response.
func CORSHeaders(allowedOrigin string) map[string]string {
	return map[string]string{
		fiber.HeaderAccessControlAllowOrigin:      allowedOrigin,
		fiber.HeaderAccessControlAllowCredentials: "true",
		fiber.HeaderAccessControlAllowHeaders:     "Authorization, Content-Type",
		fiber.HeaderAccessControlAllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
	}
}

// CORSMiddleware sets the fixed headers before anything else runs, so error
// responses carry them too, and answers preflight requests with 204.
func CORSMiddleware(allowedOrigin string) fiber.Handler {
	headers := CORSHeaders(allowedOrigin)
	return func(ctx *fiber.Ctx) error {
		for k, v := range headers {
			ctx.Set(k, v)
		}
		if ctx.Method() == fiber.MethodOptions {
			return ctx.SendStatus(fiber.StatusNoContent)
		}
		return ctx.Next()
	}
}

type ErrorBody struct {
	Message string `json:"message"`
}

func Ok(ctx *fiber.Ctx, data interface{}) error {
	return ctx.Status(fiber.StatusOK).JSON(data)
}

func Created(ctx *fiber.Ctx, data interface{}) error {
	return ctx.Status(fiber.StatusCreated).JSON(data)
}

func NoContent(ctx *fiber.Ctx) error {
	return ctx.SendStatus(fiber.StatusNoContent)
}

func ErrorResponse(ctx *fiber.Ctx, status int, message string) error {
	return ctx.Status(status).JSON(ErrorBody{Message: message})
}
