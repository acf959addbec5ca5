package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/shahafg/RoomifyDemo/internal/model"
    "github.com/shahafg/RoomifyDemo/internal/repository"
)

// BuildingHandler serves the building CRUD routes.
type BuildingHandler struct {
    Repo *repository.BuildingRepo
}

func NewBuildingHandler(repo *repository.BuildingRepo) *BuildingHandler {
    if repo == nil {
        panic("nil repository passed to NewBuildingHandler")
    }
    return &BuildingHandler{Repo: repo}
}

type buildingReq struct {
    Name        string `json:"name" validate:"required"`
    Description string `json:"description"`
    Floors      int    `json:"floors" validate:"gte=0"`
}

// List handles GET /buildings.
func (h *BuildingHandler) List(c echo.Context) error {
    items, err := h.Repo.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Get handles GET /buildings/:id.
func (h *BuildingHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    b, err := h.Repo.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, b)
}

// Create handles POST /buildings.
func (h *BuildingHandler) Create(c echo.Context) error {
    var req buildingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    ctx := c.Request().Context()
    maxID, err := h.Repo.MaxID(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    created, err := h.Repo.Insert(ctx, model.Building{
        ID:          maxID + 1,
        Name:        req.Name,
        Description: req.Description,
        Floors:      req.Floors,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /buildings/:id.
func (h *BuildingHandler) Update(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req buildingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    if _, err := h.Repo.GetByID(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    updated, err := h.Repo.Update(c.Request().Context(), model.Building{
        ID:          id,
        Name:        req.Name,
        Description: req.Description,
        Floors:      req.Floors,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /buildings/:id.
func (h *BuildingHandler) Delete(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "building deleted"})
}
