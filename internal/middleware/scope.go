package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// Allowed reports whether the caller's scope set intersects the required
// set. It is a pure function, independent of transport, so the same check
// can be exercised directly in tests. An empty required set means the
// operation is public and always passes.
func Allowed(tokenScopes, required []string) bool {
	if len(required) == 0 {
		return true
	}
	want := make(map[string]bool, len(required))
	for _, s := range required {
		want[s] = true
	}
	for _, s := range tokenScopes {
		if want[s] {
			return true
		}
	}
	return false
}

// RequireScope returns a middleware that enforces that the authenticated
// caller holds at least one of the given scopes. It assumes JWTAuth ran
// earlier and stored the scope claim under CtxScope. A rejected check
// returns a bare 403 that does not reveal whether the target resource
// exists.
func RequireScope(scopes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenScopes, _ := c.Get(CtxScope).([]string)
			if !Allowed(tokenScopes, scopes) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
