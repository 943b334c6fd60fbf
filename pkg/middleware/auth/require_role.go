package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/store/pkg/logging"
	"github.com/Skotchmaster/store/pkg/tokens"
)

const ClaimsKey = "claims"

type RoleMiddleware struct {
	JWTSecret []byte
}

func NewRoleMiddleware(secret []byte) *RoleMiddleware {
	return &RoleMiddleware{JWTSecret: secret}
}

// RequireAdmin lets the request through only with an access token carrying
// the admin role. Without a configured secret the API is open.
func (m *RoleMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireRole(tokens.RoleAdmin)(next)
}

func (m *RoleMiddleware) RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if len(m.JWTSecret) == 0 {
			return next
		}
		return func(c echo.Context) error {
			l := logging.FromContext(c.Request().Context()).With("middleware", "auth.require_role")

			raw := bearer(c)
			if raw == "" {
				l.Warn("authorization_failed", "status", 401, "reason", "missing access token")
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
			if err != nil {
				l.Warn("authorization_failed", "status", 401, "reason", "invalid access token", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			if claims.Role != role {
				l.Warn("authorization_failed", "status", 403, "reason", "role mismatch", "role", claims.Role)
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

func bearer(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	if ck, err := c.Cookie("accessToken"); err == nil {
		return ck.Value
	}
	return ""
}
