package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/shahafg/RoomifyDemo/internal/model"
    "github.com/shahafg/RoomifyDemo/internal/repository"
)

// AuditoriumHandler serves the auditorium CRUD routes.
type AuditoriumHandler struct {
    Repo *repository.AuditoriumRepo
}

func NewAuditoriumHandler(repo *repository.AuditoriumRepo) *AuditoriumHandler {
    if repo == nil {
        panic("nil repository passed to NewAuditoriumHandler")
    }
    return &AuditoriumHandler{Repo: repo}
}

type auditoriumReq struct {
    Name       string   `json:"name" validate:"required"`
    BuildingID int64    `json:"buildingId" validate:"required"`
    Capacity   int      `json:"capacity" validate:"required,gt=0"`
    Features   []string `json:"features"`
    IsActive   *bool    `json:"isActive"`
}

// List handles GET /auditoriums.
func (h *AuditoriumHandler) List(c echo.Context) error {
    items, err := h.Repo.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Get handles GET /auditoriums/:id.
func (h *AuditoriumHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    a, err := h.Repo.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "auditorium not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, a)
}

// ListByBuilding handles GET /auditoriums/building/:buildingId and
// returns the building's active auditoriums.
func (h *AuditoriumHandler) ListByBuilding(c echo.Context) error {
    buildingID, err := parseID(c, "buildingId")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid building id"})
    }
    items, err := h.Repo.ListByBuilding(c.Request().Context(), buildingID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Create handles POST /auditoriums.
func (h *AuditoriumHandler) Create(c echo.Context) error {
    var req auditoriumReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    active := true
    if req.IsActive != nil {
        active = *req.IsActive
    }

    ctx := c.Request().Context()
    maxID, err := h.Repo.MaxID(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    created, err := h.Repo.Insert(ctx, model.Auditorium{
        ID:         maxID + 1,
        Name:       req.Name,
        BuildingID: req.BuildingID,
        Capacity:   req.Capacity,
        Features:   req.Features,
        IsActive:   active,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "CREATE", "AUDITORIUM", formatID(created.ID),
        "Auditorium created", nil, created, true, severityFor("CREATE"))
    return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /auditoriums/:id.
func (h *AuditoriumHandler) Update(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req auditoriumReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    ctx := c.Request().Context()
    old, err := h.Repo.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "auditorium not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    active := old.IsActive
    if req.IsActive != nil {
        active = *req.IsActive
    }
    updated, err := h.Repo.Update(ctx, model.Auditorium{
        ID:         id,
        Name:       req.Name,
        BuildingID: req.BuildingID,
        Capacity:   req.Capacity,
        Features:   req.Features,
        IsActive:   active,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "UPDATE", "AUDITORIUM", formatID(id),
        "Auditorium updated", old, updated, true, severityFor("UPDATE"))
    return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /auditoriums/:id.
func (h *AuditoriumHandler) Delete(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "auditorium not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "DELETE", "AUDITORIUM", formatID(id),
        "Auditorium deleted", nil, nil, true, severityFor("DELETE"))
    return c.JSON(http.StatusOK, echo.Map{"message": "auditorium deleted"})
}
