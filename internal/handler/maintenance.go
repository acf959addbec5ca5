package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/shahafg/RoomifyDemo/internal/model"
    "github.com/shahafg/RoomifyDemo/internal/repository"
)

// MaintenanceHandler serves the maintenance blackout window routes.
type MaintenanceHandler struct {
    Repo *repository.MaintenanceRepo
}

func NewMaintenanceHandler(repo *repository.MaintenanceRepo) *MaintenanceHandler {
    if repo == nil {
        panic("nil repository passed to NewMaintenanceHandler")
    }
    return &MaintenanceHandler{Repo: repo}
}

type createMaintenanceReq struct {
    Title       string `json:"title" validate:"required"`
    Description string `json:"description"`
    StartDate   string `json:"startDate" validate:"required"`
    EndDate     string `json:"endDate" validate:"required"`
    CreatedBy   string `json:"createdBy"`
}

type updateMaintenanceReq struct {
    Title       *string `json:"title"`
    Description *string `json:"description"`
    StartDate   *string `json:"startDate"`
    EndDate     *string `json:"endDate"`
    IsActive    *bool   `json:"isActive"`
}

type checkBookingAllowedReq struct {
    StartDate string `json:"startDate" validate:"required"`
    EndDate   string `json:"endDate" validate:"required"`
}

func parseInstant(s string) (time.Time, error) {
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t.UTC(), nil
    }
    return time.Parse("2006-01-02T15:04", s)
}

// List handles GET /maintenance.
func (h *MaintenanceHandler) List(c echo.Context) error {
    items, err := h.Repo.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Active handles GET /maintenance/active and returns the windows
// covering the current instant.
func (h *MaintenanceHandler) Active(c echo.Context) error {
    items, err := h.Repo.ListCurrentlyActive(c.Request().Context(), time.Now().UTC())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Get handles GET /maintenance/:id.
func (h *MaintenanceHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    w, err := h.Repo.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "maintenance window not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, w)
}

// CheckBookingAllowed handles POST /maintenance/check-booking-allowed.
// It answers whether a datetime range is clear of active windows and
// lists the windows that block it when it is not.
func (h *MaintenanceHandler) CheckBookingAllowed(c echo.Context) error {
    var req checkBookingAllowedReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    start, err := parseInstant(req.StartDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start date"})
    }
    end, err := parseInstant(req.EndDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end date"})
    }
    if !start.Before(end) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "start date must be before end date"})
    }

    windows, err := h.Repo.FindActiveOverlapping(c.Request().Context(), start, end)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "allowed":            len(windows) == 0,
        "maintenancePeriods": windows,
    })
}

// Create handles POST /maintenance.
func (h *MaintenanceHandler) Create(c echo.Context) error {
    var req createMaintenanceReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    start, err := parseInstant(req.StartDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start date"})
    }
    end, err := parseInstant(req.EndDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end date"})
    }
    if !start.Before(end) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "start date must be before end date"})
    }

    ctx := c.Request().Context()
    maxID, err := h.Repo.MaxID(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    now := time.Now().UTC()
    created, err := h.Repo.Insert(ctx, model.MaintenanceWindow{
        ID:          maxID + 1,
        Title:       req.Title,
        Description: req.Description,
        StartsAt:    start,
        EndsAt:      end,
        IsActive:    true,
        CreatedBy:   req.CreatedBy,
        CreatedAt:   now,
        UpdatedAt:   now,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "CREATE", "MAINTENANCE", formatID(created.ID),
        "Maintenance window scheduled", nil, created, true, model.SeverityMedium)
    return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /maintenance/:id.  When either bound changes the
// resulting range is re-validated as a whole.
func (h *MaintenanceHandler) Update(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req updateMaintenanceReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    ctx := c.Request().Context()
    current, err := h.Repo.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "maintenance window not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    patch := repository.MaintenancePatch{
        Title:       req.Title,
        Description: req.Description,
        IsActive:    req.IsActive,
    }
    start := current.StartsAt
    end := current.EndsAt
    if req.StartDate != nil {
        start, err = parseInstant(*req.StartDate)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start date"})
        }
        patch.StartsAt = &start
    }
    if req.EndDate != nil {
        end, err = parseInstant(*req.EndDate)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end date"})
        }
        patch.EndsAt = &end
    }
    if !start.Before(end) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "start date must be before end date"})
    }

    updated, err := h.Repo.UpdateFields(ctx, id, patch)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "UPDATE", "MAINTENANCE", formatID(id),
        "Maintenance window updated", current, updated, true, model.SeverityMedium)
    return c.JSON(http.StatusOK, updated)
}

// Deactivate handles PATCH /maintenance/:id/deactivate.  Deactivated
// windows stop blocking bookings immediately but stay on record.
func (h *MaintenanceHandler) Deactivate(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if _, err := h.Repo.GetByID(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "maintenance window not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    inactive := false
    updated, err := h.Repo.UpdateFields(c.Request().Context(), id, repository.MaintenancePatch{IsActive: &inactive})
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "UPDATE", "MAINTENANCE", formatID(id),
        "Maintenance window deactivated", nil, updated, true, model.SeverityMedium)
    return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /maintenance/:id.
func (h *MaintenanceHandler) Delete(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "maintenance window not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "DELETE", "MAINTENANCE", formatID(id),
        "Maintenance window deleted", nil, nil, true, model.SeverityHigh)
    return c.JSON(http.StatusOK, echo.Map{"message": "maintenance window deleted"})
}
