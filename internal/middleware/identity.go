package middleware

// identity.go defines helper functions shared across middleware files.
// currentUserID pulls the numeric user id that JWTAuth stored in the
// Echo context and renders it as a string for use in rate-limit keys.
// When no user is authenticated, "anon" is returned.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// currentUserID renders the authenticated user's id for key building.
func currentUserID(c echo.Context) string {
    if id, ok := c.Get("user_id").(int64); ok && id != 0 {
        return strconv.FormatInt(id, 10)
    }
    return "anon"
}
