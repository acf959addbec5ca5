package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Health backs the /healthz probe used by load balancers and monitoring
// systems.  It answers with a plain text "ok" and a 200 status.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}
