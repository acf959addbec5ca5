package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/shahafg/RoomifyDemo/internal/model"
)

// RequireMaxRole returns a middleware that enforces a numeric role
// ceiling.  Roles are numeric with lower values meaning more privilege,
// so a request passes when its role claim is present and at most max.
// It assumes JWTAuth already stored the role in the context as an int.
func RequireMaxRole(max int) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := c.Get("role").(int)
            if !ok || role > max {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}

// RequireAdmin gates administrative routes such as the audit trail.
func RequireAdmin() echo.MiddlewareFunc {
    return RequireMaxRole(model.RoleAdmin)
}
