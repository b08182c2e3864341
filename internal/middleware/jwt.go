package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// Context keys populated by JWTAuth for downstream middleware and handlers.
const (
	CtxUserID    = "user_id"
	CtxEmail     = "email"
	CtxFirstName = "first_name"
	CtxLastName  = "last_name"
	CtxScope     = "scope"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's identity and scope claims into the request
// context. The provided secret must match the one used when issuing
// tokens. Handlers behind this middleware read the caller's identity via
// c.Get(CtxUserID), c.Get(CtxEmail) and c.Get(CtxScope); the user id is
// always taken from the token, never from the request body.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse with HS256 and our secret; reject any other signing
			// method so an attacker cannot downgrade the algorithm.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			// Numeric claims round-trip through JSON as float64.
			id, ok := claims["id"].(float64)
			if !ok || id <= 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			c.Set(CtxUserID, uint64(id))
			if v, ok := claims["email"].(string); ok {
				c.Set(CtxEmail, v)
			}
			if v, ok := claims["firstName"].(string); ok {
				c.Set(CtxFirstName, v)
			}
			if v, ok := claims["lastName"].(string); ok {
				c.Set(CtxLastName, v)
			}
			c.Set(CtxScope, scopeClaim(claims["scope"]))
			return next(c)
		}
	}
}

// scopeClaim normalizes the "scope" claim into a string slice. The claim is
// serialized as a JSON array, which the parser hands back as []interface{}.
func scopeClaim(v interface{}) []string {
	switch vs := v.(type) {
	case []string:
		return vs
	case []interface{}:
		out := make([]string, 0, len(vs))
		for _, s := range vs {
			if str, ok := s.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}
