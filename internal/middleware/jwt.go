package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
    "github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's claims into the request context.  The provided secret
// must match the one used when issuing tokens.  This middleware should wrap
// protected routes so that handlers can access authenticated user information
// via `c.Get("user_id")` (int64), `c.Get("email")` (string) and
// `c.Get("role")` (int).
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header starts with "Bearer " followed by the JWT.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Parse with HS256 and our secret; reject other signing methods.
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

            // Numeric claims decode as float64; normalize before storing so
            // handlers can assert concrete types without caring about JSON
            // number representation.
            if sub, ok := claims["sub"].(float64); ok {
                c.Set("user_id", int64(sub))
            }
            if email, ok := claims["email"].(string); ok {
                c.Set("email", email)
            }
            if role, ok := claims["role"].(float64); ok {
                c.Set("role", int(role))
            }
            return next(c)
        }
    }
}
