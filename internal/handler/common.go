// Package handler defines the HTTP handlers for the reservation API.
// Handlers bind and validate request bodies, call into the repositories
// and the availability resolver, and translate domain errors into JSON
// responses with the appropriate status codes.
package handler

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"

    "github.com/shahafg/RoomifyDemo/internal/availability"
    "github.com/shahafg/RoomifyDemo/internal/model"
    "github.com/shahafg/RoomifyDemo/internal/queue"
    queue_publisher "github.com/shahafg/RoomifyDemo/internal/service"
)

// Validator plugs go-playground/validator into echo's Validate hook so
// handlers can declare constraints with struct tags.
type Validator struct {
    v *validator.Validate
}

func NewValidator() *Validator { return &Validator{v: validator.New()} }

func (val *Validator) Validate(i interface{}) error {
    if err := val.v.Struct(i); err != nil {
        return echo.NewHTTPError(http.StatusBadRequest, err.Error())
    }
    return nil
}

// parseID reads a numeric path parameter.
func parseID(c echo.Context, name string) (int64, error) {
    return strconv.ParseInt(c.Param(name), 10, 64)
}

// parseDate accepts a calendar date as "2006-01-02" or a full RFC 3339
// instant, normalized to midnight UTC.
func parseDate(s string) (time.Time, error) {
    if t, err := time.Parse("2006-01-02", s); err == nil {
        return t, nil
    }
    t, err := time.Parse(time.RFC3339, s)
    if err != nil {
        return time.Time{}, err
    }
    return availability.DateOnly(t), nil
}

// getUserID returns the authenticated user's id, or 0 when the request
// reached the handler without a token (public routes).
func getUserID(c echo.Context) int64 {
    if id, ok := c.Get("user_id").(int64); ok {
        return id
    }
    return 0
}

// availabilityError translates a Resolver failure into a JSON response.
// The mapping follows the conflict taxonomy: 423 for maintenance
// blackouts, 409 for scheduling conflicts, 400 for invalid intervals,
// capacity violations and double cancellation, 404 for missing records.
func availabilityError(c echo.Context, err error) error {
    var maintErr *availability.MaintenanceConflictError
    if errors.As(err, &maintErr) {
        return c.JSON(http.StatusLocked, echo.Map{
            "message":            "Booking not allowed during maintenance period",
            "maintenancePeriods": maintErr.Windows,
        })
    }
    var schedErr *availability.SchedulingConflictError
    if errors.As(err, &schedErr) {
        return c.JSON(http.StatusConflict, echo.Map{
            "message":   "Time slot conflicts with existing bookings",
            "conflicts": schedErr.Conflicts,
        })
    }
    var capErr *availability.CapacityError
    if errors.As(err, &capErr) {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "message":  capErr.Error(),
            "capacity": capErr.Capacity,
        })
    }
    switch {
    case errors.Is(err, availability.ErrInvalidInterval):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, availability.ErrAlreadyCancelled):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, availability.ErrNotFound), errors.Is(err, availability.ErrResourceNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// auditEvent assembles an event from the request context and publishes
// it fire-and-forget.  A broker outage must never fail the operation
// being audited, so the publish error is deliberately dropped here; the
// publisher has already logged it.
func auditEvent(c echo.Context, action, entity, entityID, details string, oldValues, newValues any, success bool, severity string) {
    ev := queue.AuditEvent{
        Timestamp: time.Now().UTC().Format(time.RFC3339),
        Action:    action,
        Entity:    entity,
        EntityID:  entityID,
        UserID:    getUserID(c),
        IPAddress: c.RealIP(),
        UserAgent: c.Request().UserAgent(),
        Details:   details,
        Success:   success,
        Severity:  severity,
    }
    if email, ok := c.Get("email").(string); ok {
        ev.UserEmail = email
    }
    if role, ok := c.Get("role").(int); ok {
        ev.UserRole = role
    }
    if oldValues != nil {
        if b, err := json.Marshal(oldValues); err == nil {
            ev.OldValues = string(b)
        }
    }
    if newValues != nil {
        if b, err := json.Marshal(newValues); err == nil {
            ev.NewValues = string(b)
        }
    }
    ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
    defer cancel()
    _ = queue_publisher.PublishAuditEvent(ctx, ev)
}

// formatID renders a numeric record id for the audit trail.
func formatID(id int64) string { return strconv.FormatInt(id, 10) }

// severityFor picks the audit severity for a lifecycle action.
func severityFor(action string) string {
    switch action {
    case "DELETE":
        return model.SeverityHigh
    case "UPDATE":
        return model.SeverityMedium
    default:
        return model.SeverityLow
    }
}
