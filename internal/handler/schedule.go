package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/shahafg/RoomifyDemo/internal/model"
    "github.com/shahafg/RoomifyDemo/internal/repository"
)

// ScheduleHandler serves the named class schedule routes.
type ScheduleHandler struct {
    Repo *repository.ScheduleRepo
}

func NewScheduleHandler(repo *repository.ScheduleRepo) *ScheduleHandler {
    if repo == nil {
        panic("nil repository passed to NewScheduleHandler")
    }
    return &ScheduleHandler{Repo: repo}
}

type scheduleReq struct {
    ID      string         `json:"id" validate:"required"`
    Name    string         `json:"name" validate:"required"`
    Active  bool           `json:"active"`
    Periods []model.Period `json:"period" validate:"required,min=1"`
}

func (req scheduleReq) toModel() model.SchedulePeriod {
    return model.SchedulePeriod{
        ID:        req.ID,
        Name:      req.Name,
        Active:    req.Active,
        Periods:   req.Periods,
        UpdatedAt: time.Now().UTC(),
    }
}

// List handles GET /schedule.
func (h *ScheduleHandler) List(c echo.Context) error {
    items, err := h.Repo.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Get handles GET /schedule/:id.
func (h *ScheduleHandler) Get(c echo.Context) error {
    s, err := h.Repo.GetByID(c.Request().Context(), c.Param("id"))
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, s)
}

// Create handles POST /schedule; 409 when the id or name is taken.
func (h *ScheduleHandler) Create(c echo.Context) error {
    var req scheduleReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    created, err := h.Repo.Insert(c.Request().Context(), req.toModel())
    if err != nil {
        if errors.Is(err, repository.ErrScheduleExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "schedule already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "CREATE", "SCHEDULE", created.ID,
        "Schedule created", nil, created, true, severityFor("CREATE"))
    return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /schedule/:id.
func (h *ScheduleHandler) Update(c echo.Context) error {
    id := c.Param("id")
    var req scheduleReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    req.ID = id
    if err := c.Validate(&req); err != nil {
        return err
    }

    ctx := c.Request().Context()
    old, err := h.Repo.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    updated, err := h.Repo.Update(ctx, req.toModel())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "UPDATE", "SCHEDULE", id,
        "Schedule updated", old, updated, true, severityFor("UPDATE"))
    return c.JSON(http.StatusOK, updated)
}

// BulkSave handles POST /schedule/bulk: one call that creates the
// schedule or replaces it wholesale when the id already exists, the way
// a full timetable is saved from the editor.
func (h *ScheduleHandler) BulkSave(c echo.Context) error {
    var req scheduleReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    saved, created, err := h.Repo.Upsert(c.Request().Context(), req.toModel())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    action, status := "UPDATE", http.StatusOK
    if created {
        action, status = "CREATE", http.StatusCreated
    }
    auditEvent(c, action, "SCHEDULE", saved.ID,
        "Schedule saved", nil, saved, true, severityFor(action))
    return c.JSON(status, saved)
}

// Delete handles DELETE /schedule/:id.
func (h *ScheduleHandler) Delete(c echo.Context) error {
    id := c.Param("id")
    if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "DELETE", "SCHEDULE", id,
        "Schedule deleted", nil, nil, true, severityFor("DELETE"))
    return c.JSON(http.StatusOK, echo.Map{"message": "schedule deleted"})
}
