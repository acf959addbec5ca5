package handler

import (
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/shahafg/RoomifyDemo/internal/model"
    "github.com/shahafg/RoomifyDemo/internal/repository"
)

// AuditLogHandler serves the administrative audit trail routes.  The
// routes are mounted behind the admin role middleware; nothing here
// re-checks the role.
type AuditLogHandler struct {
    Repo *repository.AuditRepo
}

func NewAuditLogHandler(repo *repository.AuditRepo) *AuditLogHandler {
    if repo == nil {
        panic("nil repository passed to NewAuditLogHandler")
    }
    return &AuditLogHandler{Repo: repo}
}

// filterFromQuery builds an AuditFilter from query parameters.  Unknown
// or malformed values fall back to the zero value, which matches
// everything.
func filterFromQuery(c echo.Context) repository.AuditFilter {
    f := repository.AuditFilter{
        Action:   c.QueryParam("action"),
        Entity:   c.QueryParam("entity"),
        EntityID: c.QueryParam("entityId"),
        Severity: c.QueryParam("severity"),
    }
    if v := c.QueryParam("userId"); v != "" {
        if id, err := strconv.ParseInt(v, 10, 64); err == nil {
            f.UserID = id
        }
    }
    if v := c.QueryParam("success"); v != "" {
        ok := v == "true"
        f.Success = &ok
    }
    if v := c.QueryParam("from"); v != "" {
        if t, err := time.Parse(time.RFC3339, v); err == nil {
            f.From = t
        }
    }
    if v := c.QueryParam("to"); v != "" {
        if t, err := time.Parse(time.RFC3339, v); err == nil {
            f.To = t
        }
    }
    if v := c.QueryParam("page"); v != "" {
        if n, err := strconv.Atoi(v); err == nil {
            f.Page = n
        }
    }
    if v := c.QueryParam("limit"); v != "" {
        if n, err := strconv.Atoi(v); err == nil {
            f.Limit = n
        }
    }
    return f
}

// List handles GET /audit-logs with filtering and pagination.
func (h *AuditLogHandler) List(c echo.Context) error {
    f := filterFromQuery(c)
    items, total, err := h.Repo.List(c.Request().Context(), f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "logs":  items,
        "total": total,
        "page":  f.Page,
        "limit": f.Limit,
    })
}

// Get handles GET /audit-logs/:id.
func (h *AuditLogHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    entry, err := h.Repo.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "audit entry not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, entry)
}

// Stats handles GET /audit-logs/stats.
func (h *AuditLogHandler) Stats(c echo.Context) error {
    s, err := h.Repo.Stats(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, s)
}

// ByEntity handles GET /audit-logs/entity/:entityType/:entityId.
func (h *AuditLogHandler) ByEntity(c echo.Context) error {
    f := filterFromQuery(c)
    f.Entity = c.Param("entityType")
    f.EntityID = c.Param("entityId")
    items, total, err := h.Repo.List(c.Request().Context(), f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"logs": items, "total": total})
}

// ByUser handles GET /audit-logs/user/:userId.
func (h *AuditLogHandler) ByUser(c echo.Context) error {
    userID, err := parseID(c, "userId")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
    }
    f := filterFromQuery(c)
    f.UserID = userID
    items, total, err := h.Repo.List(c.Request().Context(), f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"logs": items, "total": total})
}

// Critical handles GET /audit-logs/critical.
func (h *AuditLogHandler) Critical(c echo.Context) error {
    f := filterFromQuery(c)
    f.Severity = model.SeverityCritical
    items, total, err := h.Repo.List(c.Request().Context(), f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"logs": items, "total": total})
}

// Create handles POST /audit-logs: a manual entry written directly,
// bypassing the queue.  Useful for operator annotations.
func (h *AuditLogHandler) Create(c echo.Context) error {
    var req struct {
        Action   string `json:"action" validate:"required"`
        Entity   string `json:"entity" validate:"required"`
        EntityID string `json:"entityId"`
        Details  string `json:"details" validate:"required"`
        Severity string `json:"severity"`
    }
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    severity := req.Severity
    if severity == "" {
        severity = model.SeverityLow
    }

    ctx := c.Request().Context()
    maxID, err := h.Repo.MaxID(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    entry := model.AuditLog{
        ID:        maxID + 1,
        Timestamp: time.Now().UTC(),
        Action:    req.Action,
        Entity:    req.Entity,
        EntityID:  req.EntityID,
        UserID:    getUserID(c),
        IPAddress: c.RealIP(),
        UserAgent: c.Request().UserAgent(),
        Details:   req.Details,
        Success:   true,
        Severity:  severity,
    }
    if email, ok := c.Get("email").(string); ok {
        entry.UserEmail = email
    }
    if role, ok := c.Get("role").(int); ok {
        entry.UserRole = role
    }
    if err := h.Repo.Insert(ctx, entry); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusCreated, entry)
}
