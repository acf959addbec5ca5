package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/shahafg/RoomifyDemo/internal/availability"
    "github.com/shahafg/RoomifyDemo/internal/model"
    "github.com/shahafg/RoomifyDemo/internal/repository"
)

// TimeSlotHandler serves the auditorium time slot routes.
type TimeSlotHandler struct {
    Repo *repository.TimeSlotRepo
}

func NewTimeSlotHandler(repo *repository.TimeSlotRepo) *TimeSlotHandler {
    if repo == nil {
        panic("nil repository passed to NewTimeSlotHandler")
    }
    return &TimeSlotHandler{Repo: repo}
}

type timeSlotReq struct {
    StartTime   string `json:"startTime" validate:"required"`
    EndTime     string `json:"endTime" validate:"required"`
    DisplayName string `json:"displayName" validate:"required"`
    IsActive    *bool  `json:"isActive"`
    Order       int    `json:"order"`
}

func (r timeSlotReq) validInterval() bool {
    return availability.ValidClock(r.StartTime) && availability.ValidClock(r.EndTime) && r.StartTime < r.EndTime
}

// List handles GET /timeslots.  With ?active=true only the active slots
// are returned, in display order either way.
func (h *TimeSlotHandler) List(c echo.Context) error {
    var (
        items []model.TimeSlot
        err   error
    )
    if c.QueryParam("active") == "true" {
        items, err = h.Repo.ListActive(c.Request().Context())
    } else {
        items, err = h.Repo.ListAll(c.Request().Context())
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Get handles GET /timeslots/:id.
func (h *TimeSlotHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    s, err := h.Repo.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "time slot not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, s)
}

// Create handles POST /timeslots.
func (h *TimeSlotHandler) Create(c echo.Context) error {
    var req timeSlotReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    if !req.validInterval() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": availability.ErrInvalidInterval.Error()})
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
    created, err := h.Repo.Insert(ctx, model.TimeSlot{
        ID:          maxID + 1,
        StartTime:   req.StartTime,
        EndTime:     req.EndTime,
        DisplayName: req.DisplayName,
        IsActive:    active,
        Order:       req.Order,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /timeslots/:id.
func (h *TimeSlotHandler) Update(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req timeSlotReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    if !req.validInterval() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": availability.ErrInvalidInterval.Error()})
    }

    ctx := c.Request().Context()
    current, err := h.Repo.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "time slot not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    active := current.IsActive
    if req.IsActive != nil {
        active = *req.IsActive
    }
    updated, err := h.Repo.Update(ctx, model.TimeSlot{
        ID:          id,
        StartTime:   req.StartTime,
        EndTime:     req.EndTime,
        DisplayName: req.DisplayName,
        IsActive:    active,
        Order:       req.Order,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /timeslots/:id.
func (h *TimeSlotHandler) Delete(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "time slot not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "time slot deleted"})
}
