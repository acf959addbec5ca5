package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/shahafg/RoomifyDemo/internal/availability"
    "github.com/shahafg/RoomifyDemo/internal/repository"
)

// AuditoriumBookingHandler serves the auditorium booking routes.  It
// shares the BookingHandler's resolver flow but runs under the
// auditorium policy: pending holds block slots and inactive venues
// reject bookings.
type AuditoriumBookingHandler struct {
    Resolver    *availability.Resolver
    Bookings    *repository.ReservationRepo
    Auditoriums *repository.AuditoriumRepo
    Slots       *repository.TimeSlotRepo
}

func NewAuditoriumBookingHandler(resolver *availability.Resolver, bookings *repository.ReservationRepo, auditoriums *repository.AuditoriumRepo, slots *repository.TimeSlotRepo) *AuditoriumBookingHandler {
    if resolver == nil || bookings == nil || auditoriums == nil || slots == nil {
        panic("nil dependency passed to NewAuditoriumBookingHandler")
    }
    return &AuditoriumBookingHandler{Resolver: resolver, Bookings: bookings, Auditoriums: auditoriums, Slots: slots}
}

type createAuditoriumBookingReq struct {
    AuditoriumID  int64  `json:"auditoriumId" validate:"required"`
    BookingDate   string `json:"bookingDate" validate:"required"`
    StartTime     string `json:"startTime" validate:"required"`
    EndTime       string `json:"endTime" validate:"required"`
    Purpose       string `json:"purpose" validate:"required"`
    AttendeeCount int    `json:"attendeeCount" validate:"required,gt=0"`
    Notes         string `json:"additionalNotes"`
    BookedBy      string `json:"bookedBy"`
}

// List handles GET /auditorium-bookings and returns every non-cancelled
// booking, newest date first.
func (h *AuditoriumBookingHandler) List(c echo.Context) error {
    items, err := h.Bookings.ListNonCancelled(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// ListByUser handles GET /auditorium-bookings/user/:userId.
func (h *AuditoriumBookingHandler) ListByUser(c echo.Context) error {
    userID, err := parseID(c, "userId")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
    }
    items, err := h.Bookings.ListNonCancelledByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Availability handles GET /auditorium-bookings/availability/:auditoriumId/:date.
// It builds the per-slot availability grid from the active time slots:
// a slot is free when no blocking booking overlaps it.  Slots are
// presentational; the conflict check itself runs on raw intervals.
func (h *AuditoriumBookingHandler) Availability(c echo.Context) error {
    auditoriumID, err := parseID(c, "auditoriumId")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid auditorium id"})
    }
    date, err := parseDate(c.Param("date"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
    }

    ctx := c.Request().Context()
    auditorium, err := h.Auditoriums.GetActiveByID(ctx, auditoriumID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "auditorium not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    slots, err := h.Slots.ListActive(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    type slotAvailability struct {
        SlotID      int64  `json:"slotId"`
        DisplayName string `json:"displayName"`
        StartTime   string `json:"startTime"`
        EndTime     string `json:"endTime"`
        Available   bool   `json:"available"`
    }
    grid := make([]slotAvailability, 0, len(slots))
    for _, s := range slots {
        conflicts, err := h.Resolver.CheckReservationConflict(ctx, auditoriumID, date, s.StartTime, s.EndTime, 0)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
        }
        grid = append(grid, slotAvailability{
            SlotID:      s.ID,
            DisplayName: s.DisplayName,
            StartTime:   s.StartTime,
            EndTime:     s.EndTime,
            Available:   len(conflicts) == 0,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "auditorium": auditorium,
        "date":       date.Format("2006-01-02"),
        "slots":      grid,
    })
}

// Create handles POST /auditorium-bookings.
func (h *AuditoriumBookingHandler) Create(c echo.Context) error {
    var req createAuditoriumBookingReq
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
        ResourceID:    req.AuditoriumID,
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

    auditEvent(c, "CREATE", "AUDITORIUM_BOOKING", formatID(created.ID),
        "Auditorium booking created", nil, created, true, severityFor("CREATE"))
    return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /auditorium-bookings/:id with reschedule semantics.
func (h *AuditoriumBookingHandler) Update(c echo.Context) error {
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

    auditEvent(c, "UPDATE", "AUDITORIUM_BOOKING", formatID(id),
        "Auditorium booking updated", old, updated, true, severityFor("UPDATE"))
    return c.JSON(http.StatusOK, updated)
}

// Cancel handles PATCH /auditorium-bookings/:id/cancel.
func (h *AuditoriumBookingHandler) Cancel(c echo.Context) error {
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

    auditEvent(c, "DELETE", "AUDITORIUM_BOOKING", formatID(id),
        "Auditorium booking cancelled", nil, cancelled, true, severityFor("DELETE"))
    return c.JSON(http.StatusOK, echo.Map{"message": "booking cancelled", "booking": cancelled})
}

// Delete handles DELETE /auditorium-bookings/:id.  Unlike Cancel this
// removes the row; it is the administrative escape hatch and does not
// free the id for reuse (ids come from the historical maximum).
func (h *AuditoriumBookingHandler) Delete(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Bookings.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "DELETE", "AUDITORIUM_BOOKING", formatID(id),
        "Auditorium booking permanently deleted", nil, nil, true, severityFor("DELETE"))
    return c.JSON(http.StatusOK, echo.Map{"message": "booking deleted"})
}
