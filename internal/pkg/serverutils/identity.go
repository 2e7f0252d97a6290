package serverutils

import (
	"errors"
	"strings"

	"cloudnotes-be/internal/config"
	"cloudnotes-be/internal/entity"
	"cloudnotes-be/internal/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

const bearerPrefix = "Bearer "

// urlAlphabet rewrites standard base64 onto the URL alphabet token segments use.
var urlAlphabet = strings.NewReplacer("+", "-", "/", "_")

// IdentityResolver turns an Authorization header into the caller's subject.
//
// A token signed with the configured HS256 secret yields a verified identity.
// When that fails and unverified identities are allowed, the token payload is
// decoded without any signature check and its sub claim is used as is. Callers
// that make security decisions must look at Identity.Verified.
type IdentityResolver struct {
	secret          []byte
	allowUnverified bool
	verifier        *jwt.Parser
	decoder         *jwt.Parser
	logger          logger.ILogger
}

func NewIdentityResolver(cfg config.AuthConfig, log logger.ILogger) *IdentityResolver {
	return &IdentityResolver{
		secret:          []byte(cfg.JWTSecret),
		allowUnverified: cfg.AllowUnverified,
		verifier:        jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
		decoder:         jwt.NewParser(jwt.WithPaddingAllowed()),
		logger:          log,
	}
}

// Resolve never fails; an unusable header simply yields no identity.
func (r *IdentityResolver) Resolve(authorization string) (entity.Identity, bool) {
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return entity.Identity{}, false
	}
	raw := strings.TrimSpace(authorization[len(bearerPrefix):])
	if raw == "" {
		return entity.Identity{}, false
	}

	if sub, ok := r.verifiedSubject(raw); ok {
		return entity.Identity{Subject: sub, Source: entity.IdentitySourceVerified}, true
	}

	if !r.allowUnverified {
		return entity.Identity{}, false
	}

	if sub, ok := r.unverifiedSubject(raw); ok {
		r.logger.Warn("IDENTITY", "Using unverified bearer subject", map[string]interface{}{
			"Subject": sub,
			"Source":  entity.IdentitySourceUnverified,
		})
		return entity.Identity{Subject: sub, Source: entity.IdentitySourceUnverified}, true
	}

	return entity.Identity{}, false
}

func (r *IdentityResolver) verifiedSubject(raw string) (string, bool) {
	if len(r.secret) == 0 {
		return "", false
	}

	token, err := r.verifier.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	return subjectOf(token.Claims)
}

func (r *IdentityResolver) unverifiedSubject(raw string) (string, bool) {
	// The payload only has to decode. An unknown or missing alg still leaves the claims readable.
	token, _, err := r.decoder.ParseUnverified(urlAlphabet.Replace(raw), jwt.MapClaims{})
	if err != nil && !errors.Is(err, jwt.ErrTokenUnverifiable) {
		return "", false
	}
	return subjectOf(token.Claims)
}

func subjectOf(claims jwt.Claims) (string, bool) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}
