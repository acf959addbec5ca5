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

// RoomHandler serves the room CRUD routes.  The occupied flag on a room
// is never stored: it is computed on read from today's active bookings,
// so a cancelled booking frees the room without any stored flag to
// flip back.
type RoomHandler struct {
    Rooms    *repository.RoomRepo
    Bookings *repository.ReservationRepo
}

func NewRoomHandler(rooms *repository.RoomRepo, bookings *repository.ReservationRepo) *RoomHandler {
    if rooms == nil || bookings == nil {
        panic("nil dependency passed to NewRoomHandler")
    }
    return &RoomHandler{Rooms: rooms, Bookings: bookings}
}

type roomReq struct {
    Name       string `json:"name" validate:"required"`
    Type       string `json:"type" validate:"required"`
    Building   string `json:"building" validate:"required"`
    Floor      int    `json:"floor"`
    Capacity   int    `json:"capacity" validate:"required,gt=0"`
    Status     int    `json:"status"`
    Accessible bool   `json:"accessible"`
}

// markOccupied sets the computed occupied flag on each room from the
// set of rooms with an active booking covering the current wall clock.
func (h *RoomHandler) markOccupied(c echo.Context, rooms []model.Room) error {
    now := time.Now().UTC()
    clock := now.Format("15:04")

    bookings, err := h.Bookings.ListByStatusAndDate(c.Request().Context(), today(), model.StatusActive)
    if err != nil {
        return err
    }
    busy := make(map[int64]bool, len(bookings))
    for _, b := range bookings {
        if b.StartTime <= clock && clock < b.EndTime {
            busy[b.ResourceID] = true
        }
    }
    for i := range rooms {
        rooms[i].Occupied = busy[rooms[i].ID]
    }
    return nil
}

// List handles GET /rooms.
func (h *RoomHandler) List(c echo.Context) error {
    rooms, err := h.Rooms.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if err := h.markOccupied(c, rooms); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, rooms)
}

// Get handles GET /rooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    room, err := h.Rooms.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    single := []model.Room{*room}
    if err := h.markOccupied(c, single); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, single[0])
}

// ListByBuilding handles GET /rooms/building/:buildingName.
func (h *RoomHandler) ListByBuilding(c echo.Context) error {
    rooms, err := h.Rooms.ListByBuilding(c.Request().Context(), c.Param("buildingName"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if err := h.markOccupied(c, rooms); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, rooms)
}

// ListByType handles GET /rooms/type/:roomType.
func (h *RoomHandler) ListByType(c echo.Context) error {
    rooms, err := h.Rooms.ListByType(c.Request().Context(), c.Param("roomType"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if err := h.markOccupied(c, rooms); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, rooms)
}

// ListByStatus handles GET /rooms/status/:statusCode.
func (h *RoomHandler) ListByStatus(c echo.Context) error {
    status, err := strconv.Atoi(c.Param("statusCode"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status code"})
    }
    rooms, err := h.Rooms.ListByStatus(c.Request().Context(), status)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if err := h.markOccupied(c, rooms); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, rooms)
}

// Create handles POST /rooms.
func (h *RoomHandler) Create(c echo.Context) error {
    var req roomReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    ctx := c.Request().Context()
    maxID, err := h.Rooms.MaxID(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    created, err := h.Rooms.Insert(ctx, model.Room{
        ID:         maxID + 1,
        Name:       req.Name,
        Type:       req.Type,
        Building:   req.Building,
        Floor:      req.Floor,
        Capacity:   req.Capacity,
        Status:     req.Status,
        Accessible: req.Accessible,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "CREATE", "ROOM", formatID(created.ID),
        "Room created", nil, created, true, severityFor("CREATE"))
    return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /rooms/:id.
func (h *RoomHandler) Update(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req roomReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    ctx := c.Request().Context()
    old, err := h.Rooms.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    updated, err := h.Rooms.Update(ctx, model.Room{
        ID:         id,
        Name:       req.Name,
        Type:       req.Type,
        Building:   req.Building,
        Floor:      req.Floor,
        Capacity:   req.Capacity,
        Status:     req.Status,
        Accessible: req.Accessible,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "UPDATE", "ROOM", formatID(id),
        "Room updated", old, updated, true, severityFor("UPDATE"))
    return c.JSON(http.StatusOK, updated)
}

// SetStatus handles PATCH /rooms/:id/status and updates only the
// administrative status code.
func (h *RoomHandler) SetStatus(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req struct {
        Status int `json:"status"`
    }
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if _, err := h.Rooms.GetByID(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    updated, err := h.Rooms.SetStatus(c.Request().Context(), id, req.Status)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /rooms/:id.
func (h *RoomHandler) Delete(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Rooms.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "DELETE", "ROOM", formatID(id),
        "Room deleted", nil, nil, true, severityFor("DELETE"))
    return c.JSON(http.StatusOK, echo.Map{"message": "room deleted"})
}
