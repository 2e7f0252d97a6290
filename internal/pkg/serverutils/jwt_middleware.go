package serverutils

import (
	"cloudnotes-be/internal/entity"
	"cloudnotes-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

const identityLocalsKey = "identity"

// IdentityMiddleware rejects requests without a resolvable caller and stores
// the identity for handlers to read back with CurrentIdentity.
func IdentityMiddleware(resolver *IdentityResolver) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		identity, ok := resolver.Resolve(ctx.Get(fiber.HeaderAuthorization))
		if !ok {
			return apperror.Unauthorized("")
		}

		ctx.Locals(identityLocalsKey, identity)
		return ctx.Next()
	}
}

func CurrentIdentity(ctx *fiber.Ctx) (entity.Identity, error) {
	identity, ok := ctx.Locals(identityLocalsKey).(entity.Identity)
	if !ok || identity.Subject == "" {
		return entity.Identity{}, apperror.Unauthorized("")
	}
	return identity, nil
}
