package availability

import (
    "context"
    "errors"
    "fmt"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/shahafg/RoomifyDemo/internal/model"
)

// memReservations is an in-memory ReservationStore used to exercise the
// resolver without a database.
type memReservations struct {
    rows      []model.Booking
    failDupe  bool
    insertErr error
}

func (m *memReservations) FindByResourceAndDate(_ context.Context, resourceID int64, date time.Time) ([]model.Booking, error) {
    out := make([]model.Booking, 0)
    for _, b := range m.rows {
        if b.ResourceID == resourceID && DateOnly(b.Date).Equal(DateOnly(date)) {
            out = append(out, b)
        }
    }
    return out, nil
}

func (m *memReservations) FindByID(_ context.Context, id int64) (*model.Booking, error) {
    for i := range m.rows {
        if m.rows[i].ID == id {
            b := m.rows[i]
            return &b, nil
        }
    }
    return nil, nil
}

func (m *memReservations) MaxID(_ context.Context) (int64, error) {
    var max int64
    for _, b := range m.rows {
        if b.ID > max {
            max = b.ID
        }
    }
    return max, nil
}

func (m *memReservations) Insert(_ context.Context, b model.Booking) (*model.Booking, error) {
    if m.insertErr != nil {
        return nil, m.insertErr
    }
    if m.failDupe {
        return nil, fmt.Errorf("insert bookings: %w", ErrDuplicateSlot)
    }
    m.rows = append(m.rows, b)
    return &b, nil
}

func (m *memReservations) UpdateFields(_ context.Context, id int64, p Patch) (*model.Booking, error) {
    for i := range m.rows {
        if m.rows[i].ID != id {
            continue
        }
        if p.Date != nil {
            m.rows[i].Date = *p.Date
        }
        if p.StartTime != nil {
            m.rows[i].StartTime = *p.StartTime
        }
        if p.EndTime != nil {
            m.rows[i].EndTime = *p.EndTime
        }
        if p.Purpose != nil {
            m.rows[i].Purpose = *p.Purpose
        }
        if p.AttendeeCount != nil {
            m.rows[i].AttendeeCount = *p.AttendeeCount
        }
        if p.Notes != nil {
            m.rows[i].Notes = *p.Notes
        }
        if p.BookedBy != nil {
            m.rows[i].BookedBy = *p.BookedBy
        }
        if p.Status != nil {
            m.rows[i].Status = *p.Status
        }
        b := m.rows[i]
        return &b, nil
    }
    return nil, nil
}

// memBlackouts filters its windows with the shared range predicate, the
// same way the SQL implementation does.
type memBlackouts struct {
    windows []model.MaintenanceWindow
}

func (m *memBlackouts) FindActiveOverlapping(_ context.Context, start, end time.Time) ([]model.MaintenanceWindow, error) {
    out := make([]model.MaintenanceWindow, 0)
    for _, w := range m.windows {
        if w.IsActive && RangesOverlap(w.StartsAt, w.EndsAt, start, end) {
            out = append(out, w)
        }
    }
    return out, nil
}

type memCatalog struct {
    resources map[int64]model.Resource
}

func (m *memCatalog) FindByID(_ context.Context, id int64) (*model.Resource, error) {
    r, ok := m.resources[id]
    if !ok {
        return nil, nil
    }
    return &r, nil
}

func date(s string) time.Time {
    t, err := time.Parse("2006-01-02", s)
    if err != nil {
        panic(err)
    }
    return t
}

func newTestResolver(policy Policy) (*Resolver, *memReservations, *memBlackouts, *memCatalog) {
    reservations := &memReservations{}
    blackouts := &memBlackouts{}
    catalog := &memCatalog{resources: map[int64]model.Resource{
        10: {ID: 10, Capacity: 30, IsActive: true},
        20: {ID: 20, Capacity: 100, IsActive: true},
    }}
    return NewResolver(reservations, blackouts, catalog, policy), reservations, blackouts, catalog
}

func request(resourceID int64, day, start, end string) BookingRequest {
    return BookingRequest{
        ResourceID:    resourceID,
        Date:          date(day),
        StartTime:     start,
        EndTime:       end,
        Purpose:       "lecture",
        AttendeeCount: 5,
        BookedBy:      "staff@campus.edu",
    }
}

func TestAttemptBookingInvalidInterval(t *testing.T) {
    r, _, _, _ := newTestResolver(RoomPolicy())
    ctx := context.Background()

    for _, iv := range [][2]string{{"10:00", "09:00"}, {"10:00", "10:00"}, {"9:00", "10:00"}, {"10:00", "25:00"}} {
        _, err := r.AttemptBooking(ctx, request(10, "2024-06-01", iv[0], iv[1]))
        assert.ErrorIs(t, err, ErrInvalidInterval, "%s-%s", iv[0], iv[1])
    }
}

func TestAttemptBookingUnknownResource(t *testing.T) {
    r, _, _, _ := newTestResolver(RoomPolicy())
    _, err := r.AttemptBooking(context.Background(), request(999, "2024-06-01", "09:00", "10:00"))
    assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestAttemptBookingInactiveResource(t *testing.T) {
    r, _, _, catalog := newTestResolver(AuditoriumPolicy())
    catalog.resources[30] = model.Resource{ID: 30, Capacity: 100, IsActive: false}
    _, err := r.AttemptBooking(context.Background(), request(30, "2024-06-01", "09:00", "10:00"))
    assert.ErrorIs(t, err, ErrResourceNotFound)

    // Rooms do not carry an active flag, so the room policy must not
    // reject inactive resources.
    rr, _, _, rc := newTestResolver(RoomPolicy())
    rc.resources[30] = model.Resource{ID: 30, Capacity: 100, IsActive: false}
    _, err = rr.AttemptBooking(context.Background(), request(30, "2024-06-01", "09:00", "10:00"))
    assert.NoError(t, err)
}

func TestAttemptBookingCapacityExceeded(t *testing.T) {
    r, _, _, _ := newTestResolver(RoomPolicy())
    req := request(10, "2024-06-01", "09:00", "10:00")
    req.AttendeeCount = 31
    _, err := r.AttemptBooking(context.Background(), req)
    var capErr *CapacityError
    require.ErrorAs(t, err, &capErr)
    assert.Equal(t, 31, capErr.AttendeeCount)
    assert.Equal(t, 30, capErr.Capacity)
}

func TestStrictOverlapAlwaysDetected(t *testing.T) {
    r, _, _, _ := newTestResolver(RoomPolicy())
    ctx := context.Background()

    first, err := r.AttemptBooking(ctx, request(10, "2024-06-01", "09:00", "10:00"))
    require.NoError(t, err)
    require.EqualValues(t, 1, first.ID)

    _, err = r.AttemptBooking(ctx, request(10, "2024-06-01", "09:30", "10:30"))
    var conflict *SchedulingConflictError
    require.ErrorAs(t, err, &conflict)
    require.Len(t, conflict.Conflicts, 1)
    assert.EqualValues(t, 1, conflict.Conflicts[0].ID)
}

func TestBoundaryAdjacencyIsNotConflict(t *testing.T) {
    r, _, _, _ := newTestResolver(RoomPolicy())
    ctx := context.Background()

    _, err := r.AttemptBooking(ctx, request(10, "2024-06-01", "09:00", "10:00"))
    require.NoError(t, err)

    // Starts exactly when the existing booking ends.
    second, err := r.AttemptBooking(ctx, request(10, "2024-06-01", "10:00", "11:00"))
    require.NoError(t, err)
    assert.EqualValues(t, 2, second.ID)

    // Ends exactly when the existing booking starts.
    third, err := r.AttemptBooking(ctx, request(10, "2024-06-01", "08:00", "09:00"))
    require.NoError(t, err)
    assert.EqualValues(t, 3, third.ID)
}

func TestConflictScopedToResourceAndDate(t *testing.T) {
    r, _, _, _ := newTestResolver(RoomPolicy())
    ctx := context.Background()

    _, err := r.AttemptBooking(ctx, request(10, "2024-06-01", "09:00", "10:00"))
    require.NoError(t, err)

    // Same interval, different resource.
    _, err = r.AttemptBooking(ctx, request(20, "2024-06-01", "09:00", "10:00"))
    assert.NoError(t, err)

    // Same interval and resource, different date.
    _, err = r.AttemptBooking(ctx, request(10, "2024-06-02", "09:00", "10:00"))
    assert.NoError(t, err)
}

func TestNoSelfOverlapFalsePositive(t *testing.T) {
    r, _, _, _ := newTestResolver(RoomPolicy())
    ctx := context.Background()

    created, err := r.AttemptBooking(ctx, request(10, "2024-06-01", "09:00", "10:00"))
    require.NoError(t, err)

    conflicts, err := r.CheckReservationConflict(ctx, 10, date("2024-06-01"), "09:00", "10:00", created.ID)
    require.NoError(t, err)
    assert.Empty(t, conflicts)

    // Rescheduling to the identical slot must succeed.
    start, end := "09:00", "10:00"
    _, err = r.AttemptReschedule(ctx, created.ID, Patch{StartTime: &start, EndTime: &end})
    assert.NoError(t, err)
}

func TestMaintenancePrecedence(t *testing.T) {
    r, _, blackouts, _ := newTestResolver(RoomPolicy())
    ctx := context.Background()

    blackouts.windows = []model.MaintenanceWindow{{
        ID:       1,
        Title:    "electrical work",
        StartsAt: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
        EndsAt:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
        IsActive: true,
    }}

    // Fails with a maintenance conflict even though no reservation exists.
    _, err := r.AttemptBooking(ctx, request(10, "2024-06-01", "09:00", "10:00"))
    var maint *MaintenanceConflictError
    require.ErrorAs(t, err, &maint)
    require.Len(t, maint.Windows, 1)
    assert.Equal(t, "electrical work", maint.Windows[0].Title)

    // The blackout blocks every resource, not just one.
    _, err = r.AttemptBooking(ctx, request(20, "2024-06-01", "09:00", "09:15"))
    assert.ErrorAs(t, err, &maint)

    // Outside the window the same resource books fine.
    _, err = r.AttemptBooking(ctx, request(10, "2024-06-01", "13:00", "14:00"))
    assert.NoError(t, err)

    // Booking that starts exactly at the window end is allowed.
    _, err = r.AttemptBooking(ctx, request(10, "2024-06-01", "12:00", "12:30"))
    assert.NoError(t, err)
}

func TestInactiveWindowNeverBlocks(t *testing.T) {
    r, _, blackouts, _ := newTestResolver(RoomPolicy())
    blackouts.windows = []model.MaintenanceWindow{{
        ID:       1,
        StartsAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
        EndsAt:   time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
        IsActive: false,
    }}
    _, err := r.AttemptBooking(context.Background(), request(10, "2024-06-01", "09:00", "10:00"))
    assert.NoError(t, err)
}

func TestCancelledReservationsNeverBlock(t *testing.T) {
    r, _, _, _ := newTestResolver(RoomPolicy())
    ctx := context.Background()

    created, err := r.AttemptBooking(ctx, request(10, "2024-06-01", "09:00", "10:00"))
    require.NoError(t, err)

    cancelled, err := r.Cancel(ctx, created.ID)
    require.NoError(t, err)
    assert.Equal(t, model.StatusCancelled, cancelled.Status)

    // The identical slot is free again.
    rebooked, err := r.AttemptBooking(ctx, request(10, "2024-06-01", "09:00", "10:00"))
    require.NoError(t, err)
    assert.EqualValues(t, 2, rebooked.ID)
}

func TestCancelErrors(t *testing.T) {
    r, _, _, _ := newTestResolver(RoomPolicy())
    ctx := context.Background()

    _, err := r.Cancel(ctx, 42)
    assert.ErrorIs(t, err, ErrNotFound)

    created, err := r.AttemptBooking(ctx, request(10, "2024-06-01", "09:00", "10:00"))
    require.NoError(t, err)
    _, err = r.Cancel(ctx, created.ID)
    require.NoError(t, err)
    _, err = r.Cancel(ctx, created.ID)
    assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestIDMonotonicitySurvivesCancellation(t *testing.T) {
    r, _, _, _ := newTestResolver(RoomPolicy())
    ctx := context.Background()

    for i, iv := range [][2]string{{"08:00", "09:00"}, {"09:00", "10:00"}, {"10:00", "11:00"}} {
        b, err := r.AttemptBooking(ctx, request(10, "2024-06-01", iv[0], iv[1]))
        require.NoError(t, err)
        require.EqualValues(t, i+1, b.ID)
    }

    _, err := r.Cancel(ctx, 2)
    require.NoError(t, err)

    next, err := r.AttemptBooking(ctx, request(10, "2024-06-01", "11:00", "12:00"))
    require.NoError(t, err)
    assert.EqualValues(t, 4, next.ID, "cancelled ids must never be reused")
}

func TestPendingBlocksForAuditoriumsOnly(t *testing.T) {
    ctx := context.Background()

    // Auditorium policy: pending bookings still occupy the slot.
    ar, astore, _, _ := newTestResolver(AuditoriumPolicy())
    astore.rows = append(astore.rows, model.Booking{
        ID: 1, ResourceID: 10, Date: date("2024-06-01"),
        StartTime: "09:00", EndTime: "10:00", Status: model.StatusPending,
    })
    _, err := ar.AttemptBooking(ctx, request(10, "2024-06-01", "09:30", "10:30"))
    var conflict *SchedulingConflictError
    assert.ErrorAs(t, err, &conflict)

    // Room policy: only active blocks, so a completed booking does not.
    rr, rstore, _, _ := newTestResolver(RoomPolicy())
    rstore.rows = append(rstore.rows, model.Booking{
        ID: 1, ResourceID: 10, Date: date("2024-06-01"),
        StartTime: "09:00", EndTime: "10:00", Status: model.StatusCompleted,
    })
    _, err = rr.AttemptBooking(ctx, request(10, "2024-06-01", "09:30", "10:30"))
    assert.NoError(t, err)
}

func TestDefaultStatusPerKind(t *testing.T) {
    ctx := context.Background()

    rr, _, _, _ := newTestResolver(RoomPolicy())
    b, err := rr.AttemptBooking(ctx, request(10, "2024-06-01", "09:00", "10:00"))
    require.NoError(t, err)
    assert.Equal(t, model.StatusActive, b.Status)

    ar, _, _, _ := newTestResolver(AuditoriumPolicy())
    b, err = ar.AttemptBooking(ctx, request(10, "2024-06-01", "09:00", "10:00"))
    require.NoError(t, err)
    assert.Equal(t, model.StatusConfirmed, b.Status)
}

func TestDuplicateSlotBecomesSchedulingConflict(t *testing.T) {
    r, store, _, _ := newTestResolver(RoomPolicy())
    store.failDupe = true
    _, err := r.AttemptBooking(context.Background(), request(10, "2024-06-01", "09:00", "10:00"))
    var conflict *SchedulingConflictError
    assert.ErrorAs(t, err, &conflict, "unique-key violation must not surface as a storage error")
}

func TestStorageErrorsPropagate(t *testing.T) {
    r, store, _, _ := newTestResolver(RoomPolicy())
    boom := errors.New("connection lost")
    store.insertErr = boom
    _, err := r.AttemptBooking(context.Background(), request(10, "2024-06-01", "09:00", "10:00"))
    assert.ErrorIs(t, err, boom)
}

func TestAttemptRescheduleNotFound(t *testing.T) {
    r, _, _, _ := newTestResolver(RoomPolicy())
    _, err := r.AttemptReschedule(context.Background(), 7, Patch{})
    assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttemptRescheduleValidation(t *testing.T) {
    r, _, blackouts, _ := newTestResolver(RoomPolicy())
    ctx := context.Background()

    first, err := r.AttemptBooking(ctx, request(10, "2024-06-01", "09:00", "10:00"))
    require.NoError(t, err)
    second, err := r.AttemptBooking(ctx, request(10, "2024-06-01", "11:00", "12:00"))
    require.NoError(t, err)

    // Moving onto another booking's slot conflicts, and the mover itself
    // is excluded from the check.
    start, end := "09:30", "10:30"
    _, err = r.AttemptReschedule(ctx, second.ID, Patch{StartTime: &start, EndTime: &end})
    var conflict *SchedulingConflictError
    require.ErrorAs(t, err, &conflict)
    require.Len(t, conflict.Conflicts, 1)
    assert.Equal(t, first.ID, conflict.Conflicts[0].ID)

    // Inverted interval is rejected before any store access.
    badStart, badEnd := "14:00", "13:00"
    _, err = r.AttemptReschedule(ctx, second.ID, Patch{StartTime: &badStart, EndTime: &badEnd})
    assert.ErrorIs(t, err, ErrInvalidInterval)

    // A blackout over the target interval vetoes the move.
    blackouts.windows = []model.MaintenanceWindow{{
        ID:       1,
        StartsAt: time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC),
        EndsAt:   time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC),
        IsActive: true,
    }}
    mvStart, mvEnd := "15:00", "15:30"
    _, err = r.AttemptReschedule(ctx, second.ID, Patch{StartTime: &mvStart, EndTime: &mvEnd})
    var maint *MaintenanceConflictError
    assert.ErrorAs(t, err, &maint)
}

func TestAttemptRescheduleMovesDate(t *testing.T) {
    r, _, _, _ := newTestResolver(RoomPolicy())
    ctx := context.Background()

    _, err := r.AttemptBooking(ctx, request(10, "2024-06-01", "09:00", "10:00"))
    require.NoError(t, err)
    mover, err := r.AttemptBooking(ctx, request(10, "2024-06-02", "09:00", "10:00"))
    require.NoError(t, err)

    // Moving to 2024-06-01 at the same clock interval conflicts there.
    target := date("2024-06-01")
    _, err = r.AttemptReschedule(ctx, mover.ID, Patch{Date: &target})
    var conflict *SchedulingConflictError
    require.ErrorAs(t, err, &conflict)

    // A free date works and only the supplied field changes.
    free := date("2024-06-03")
    moved, err := r.AttemptReschedule(ctx, mover.ID, Patch{Date: &free})
    require.NoError(t, err)
    assert.Equal(t, free, moved.Date)
    assert.Equal(t, "09:00", moved.StartTime)
    assert.Equal(t, "10:00", moved.EndTime)
}

// TestEndToEndScenario walks the concrete sequence from the service's
// acceptance notes: bookings, a conflict, an adjacent booking, a global
// blackout and a post-cancellation rebook attempt.
func TestEndToEndScenario(t *testing.T) {
    r, _, blackouts, _ := newTestResolver(RoomPolicy())
    ctx := context.Background()

    first, err := r.AttemptBooking(ctx, request(10, "2024-06-01", "09:00", "10:00"))
    require.NoError(t, err)
    require.EqualValues(t, 1, first.ID)

    _, err = r.AttemptBooking(ctx, request(10, "2024-06-01", "09:30", "10:30"))
    var conflict *SchedulingConflictError
    require.ErrorAs(t, err, &conflict)
    require.Len(t, conflict.Conflicts, 1)
    require.EqualValues(t, 1, conflict.Conflicts[0].ID)

    second, err := r.AttemptBooking(ctx, request(10, "2024-06-01", "10:00", "11:00"))
    require.NoError(t, err)
    require.EqualValues(t, 2, second.ID)

    blackouts.windows = []model.MaintenanceWindow{{
        ID:       1,
        StartsAt: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
        EndsAt:   time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC),
        IsActive: true,
    }}

    // Maintenance is global: resource 20 is blocked too.
    _, err = r.AttemptBooking(ctx, request(20, "2024-06-01", "09:00", "09:15"))
    var maint *MaintenanceConflictError
    require.ErrorAs(t, err, &maint)

    _, err = r.Cancel(ctx, first.ID)
    require.NoError(t, err)

    // The slot is free of reservations now, but the blackout still
    // covers 09:00-09:30, and maintenance is checked first.
    _, err = r.AttemptBooking(ctx, request(10, "2024-06-01", "09:00", "09:30"))
    require.ErrorAs(t, err, &maint)

    // Starting at the blackout's end exercises only the reservation
    // check, and the cancelled booking no longer blocks.
    rebooked, err := r.AttemptBooking(ctx, request(10, "2024-06-01", "09:30", "10:00"))
    require.NoError(t, err)
    assert.EqualValues(t, 3, rebooked.ID)
}
