package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/shahafg/RoomifyDemo/internal/availability"
    "github.com/shahafg/RoomifyDemo/internal/model"
    "github.com/shahafg/RoomifyDemo/internal/repository"
)

// BookingHandler serves the room booking routes.  Every write goes
// through the availability resolver so the overlap predicate, the
// maintenance precedence and the id allocation policy are applied
// uniformly.
type BookingHandler struct {
    Resolver *availability.Resolver
    Bookings *repository.ReservationRepo
}

func NewBookingHandler(resolver *availability.Resolver, bookings *repository.ReservationRepo) *BookingHandler {
    if resolver == nil || bookings == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{Resolver: resolver, Bookings: bookings}
}

type createBookingReq struct {
    RoomID        int64  `json:"roomId" validate:"required"`
    BookingDate   string `json:"bookingDate" validate:"required"`
    StartTime     string `json:"startTime" validate:"required"`
    EndTime       string `json:"endTime" validate:"required"`
    Purpose       string `json:"purpose" validate:"required"`
    AttendeeCount int    `json:"attendeeCount" validate:"required,gt=0"`
    Notes         string `json:"additionalNotes"`
    BookedBy      string `json:"bookedBy"`
}

type updateBookingReq struct {
    BookingDate   *string `json:"bookingDate"`
    StartTime     *string `json:"startTime"`
    EndTime       *string `json:"endTime"`
    Purpose       *string `json:"purpose"`
    AttendeeCount *int    `json:"attendeeCount"`
    Notes         *string `json:"additionalNotes"`
    BookedBy      *string `json:"bookedBy"`
}

type availabilityReq struct {
    RoomID      int64  `json:"roomId" validate:"required"`
    BookingDate string `json:"bookingDate" validate:"required"`
    StartTime   string `json:"startTime" validate:"required"`
    EndTime     string `json:"endTime" validate:"required"`
}

// List handles GET /bookings.
func (h *BookingHandler) List(c echo.Context) error {
    items, err := h.Bookings.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Get handles GET /bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    b, err := h.Bookings.FindByID(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if b == nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    }
    return c.JSON(http.StatusOK, b)
}

// ListByRoom handles GET /bookings/room/:roomId and returns the room's
// active bookings, soonest first.
func (h *BookingHandler) ListByRoom(c echo.Context) error {
    roomID, err := parseID(c, "roomId")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    items, err := h.Bookings.ListByStatusAndResource(c.Request().Context(), roomID, model.StatusActive)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// ListByDate handles GET /bookings/date/:date.
func (h *BookingHandler) ListByDate(c echo.Context) error {
    date, err := parseDate(c.Param("date"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
    }
    items, err := h.Bookings.ListByStatusAndDate(c.Request().Context(), date, model.StatusActive)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// CheckAvailability handles POST /bookings/check-availability.  It is a
// pure probe: it reports conflicts without creating anything.  A
// maintenance blackout is reported even when the slot is otherwise
// free, and wins over scheduling conflicts in the reason field.
func (h *BookingHandler) CheckAvailability(c echo.Context) error {
    var req availabilityReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    date, err := parseDate(req.BookingDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
    }
    if !availability.ValidClock(req.StartTime) || !availability.ValidClock(req.EndTime) || req.StartTime >= req.EndTime {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": availability.ErrInvalidInterval.Error()})
    }

    ctx := c.Request().Context()
    windows, err := h.Resolver.CheckBlackoutConflict(ctx, date, req.StartTime, req.EndTime)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    conflicts, err := h.Resolver.CheckReservationConflict(ctx, req.RoomID, date, req.StartTime, req.EndTime, 0)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    resp := echo.Map{
        "available":            len(windows) == 0 && len(conflicts) == 0,
        "conflicts":            conflicts,
        "maintenanceConflicts": windows,
    }
    if len(windows) > 0 {
        resp["reason"] = "maintenance"
    } else if len(conflicts) > 0 {
        resp["reason"] = "conflict"
    }
    return c.JSON(http.StatusOK, resp)
}

// Create handles POST /bookings.
func (h *BookingHandler) Create(c echo.Context) error {
    var req createBookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    date, err := parseDate(req.BookingDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
    }

    created, err := h.Resolver.AttemptBooking(c.Request().Context(), availability.BookingRequest{
        ResourceID:    req.RoomID,
        UserID:        getUserID(c),
        Date:          date,
        StartTime:     req.StartTime,
        EndTime:       req.EndTime,
        Purpose:       req.Purpose,
        AttendeeCount: req.AttendeeCount,
        Notes:         req.Notes,
        BookedBy:      req.BookedBy,
    })
    if err != nil {
        return availabilityError(c, err)
    }

    auditEvent(c, "CREATE", "BOOKING", formatID(created.ID),
        "Room booking created", nil, created, true, severityFor("CREATE"))
    return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /bookings/:id.  Only the supplied fields change;
// the new slot is re-validated with the booking itself excluded from
// the conflict scan.
func (h *BookingHandler) Update(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req updateBookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    patch := availability.Patch{
        StartTime:     req.StartTime,
        EndTime:       req.EndTime,
        Purpose:       req.Purpose,
        AttendeeCount: req.AttendeeCount,
        Notes:         req.Notes,
        BookedBy:      req.BookedBy,
    }
    if req.BookingDate != nil {
        date, err := parseDate(*req.BookingDate)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
        }
        patch.Date = &date
    }
    if patch.IsZero() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
    }

    old, err := h.Bookings.FindByID(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    updated, err := h.Resolver.AttemptReschedule(c.Request().Context(), id, patch)
    if err != nil {
        return availabilityError(c, err)
    }

    auditEvent(c, "UPDATE", "BOOKING", formatID(id),
        "Room booking updated", old, updated, true, severityFor("UPDATE"))
    return c.JSON(http.StatusOK, updated)
}

// Cancel handles DELETE /bookings/:id.  Cancellation is a soft delete:
// the record keeps its id and stays in the collection.
func (h *BookingHandler) Cancel(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    cancelled, err := h.Resolver.Cancel(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, availability.ErrAlreadyCancelled) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking is already cancelled"})
        }
        return availabilityError(c, err)
    }

    auditEvent(c, "DELETE", "BOOKING", formatID(id),
        "Room booking cancelled", nil, cancelled, true, severityFor("DELETE"))
    return c.JSON(http.StatusOK, echo.Map{"message": "booking cancelled", "booking": cancelled})
}

// today returns the current date at midnight UTC.
func today() time.Time { return availability.DateOnly(time.Now().UTC()) }
