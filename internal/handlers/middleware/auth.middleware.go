package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthContextKey is used to store auth info in context.
type AuthContextKey string

const (
	AuthInfoKey AuthContextKey = "auth_info"
)

// AuthInfo carries the validated JWT claims for the admin surface. There
// is no user lookup: the token itself is the credential, the way a
// service-to-service bearer token works rather than a session cookie.
type AuthInfo struct {
	Subject string
}

// RequireAdminAuth validates a bearer JWT signed with the configured
// admin secret. Grounded on the teacher's RequireAuth (Authorization
// header parsing, Fiber locals + Go context propagation), with the
// Zitadel OIDC round trip replaced by a local HS256 signature check —
// the admin surface here is a small internal tool, not a multi-tenant
// identity provider.
func (m *Middleware) RequireAdminAuth() fiber.Handler {
	log := m.log.Function("RequireAdminAuth")

	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Info("missing authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			log.Info("invalid authorization header format")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenUnverifiable
			}
			return []byte(m.Config.SecurityJwtSecret), nil
		})
		if err != nil || !token.Valid {
			log.Info("token validation failed", "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		subject, _ := claims.GetSubject()
		authInfo := &AuthInfo{Subject: subject}

		c.Locals(string(AuthInfoKey), authInfo)
		c.SetUserContext(context.WithValue(c.Context(), AuthInfoKey, authInfo))

		log.Info("admin request authenticated", "subject", subject)
		return c.Next()
	}
}

// GetAuthInfo extracts auth info from the Fiber context.
func GetAuthInfo(c *fiber.Ctx) *AuthInfo {
	authInfo, ok := c.Locals(string(AuthInfoKey)).(*AuthInfo)
	if !ok {
		return nil
	}
	return authInfo
}

// GetAuthInfoFromContext extracts auth info from a Go context.
func GetAuthInfoFromContext(ctx context.Context) *AuthInfo {
	authInfo, ok := ctx.Value(AuthInfoKey).(*AuthInfo)
	if !ok {
		return nil
	}
	return authInfo
}
