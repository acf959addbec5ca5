package availability

import (
    "context"
    "errors"
    "time"

    "github.com/shahafg/RoomifyDemo/internal/model"
)

// Kind tags the resource family a Resolver instance serves.
type Kind string

const (
    KindRoom       Kind = "room"
    KindAuditorium Kind = "auditorium"
)

// Policy configures conflict behaviour for one resource kind.  The two
// booking collections intentionally keep different blocking sets: room
// bookings block only while active, auditorium bookings also block while
// pending, because a tentative auditorium hold still occupies the slot.
type Policy struct {
    Kind Kind
    // BlockingStatuses is the set of reservation statuses considered to
    // still occupy a slot for conflict purposes.
    BlockingStatuses []string
    // DefaultStatus is assigned to newly created reservations.
    DefaultStatus string
    // RequireActiveResource rejects bookings against resources whose
    // active flag is cleared.  Rooms manage availability through their
    // administrative status code instead and leave this off.
    RequireActiveResource bool
}

// RoomPolicy returns the conflict policy for room bookings.
func RoomPolicy() Policy {
    return Policy{
        Kind:             KindRoom,
        BlockingStatuses: []string{model.StatusActive},
        DefaultStatus:    model.StatusActive,
    }
}

// AuditoriumPolicy returns the conflict policy for auditorium bookings.
func AuditoriumPolicy() Policy {
    return Policy{
        Kind:                  KindAuditorium,
        BlockingStatuses:      []string{model.StatusConfirmed, model.StatusPending},
        DefaultStatus:         model.StatusConfirmed,
        RequireActiveResource: true,
    }
}

// Patch lists the fields a reschedule or status change may alter.  Nil
// fields are left untouched.  An explicit struct replaces the loose
// field bags the stores used to accept, so every optional field has a
// name and a documented effect.
type Patch struct {
    Date          *time.Time
    StartTime     *string
    EndTime       *string
    Purpose       *string
    AttendeeCount *int
    Notes         *string
    BookedBy      *string
    Status        *string
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
    return p.Date == nil && p.StartTime == nil && p.EndTime == nil &&
        p.Purpose == nil && p.AttendeeCount == nil && p.Notes == nil &&
        p.BookedBy == nil && p.Status == nil
}

// ReservationStore is the persistence capability the Resolver needs for
// one booking collection.
type ReservationStore interface {
    // FindByResourceAndDate returns every reservation for the resource
    // on the calendar date, regardless of status.
    FindByResourceAndDate(ctx context.Context, resourceID int64, date time.Time) ([]model.Booking, error)
    // FindByID returns the reservation or (nil, nil) when absent.
    FindByID(ctx context.Context, id int64) (*model.Booking, error)
    // MaxID returns the largest id ever assigned in the collection,
    // including cancelled rows, or 0 for an empty collection.
    MaxID(ctx context.Context) (int64, error)
    // Insert persists a new reservation.  Implementations must return an
    // error wrapping ErrDuplicateSlot when the storage uniqueness
    // constraint rejects the row.
    Insert(ctx context.Context, b model.Booking) (*model.Booking, error)
    // UpdateFields applies the non-nil patch fields and returns the
    // updated reservation.
    UpdateFields(ctx context.Context, id int64, p Patch) (*model.Booking, error)
}

// BlackoutStore reads active maintenance windows.
type BlackoutStore interface {
    // FindActiveOverlapping returns every active window intersecting the
    // half-open instant range [start, end).
    FindActiveOverlapping(ctx context.Context, start, end time.Time) ([]model.MaintenanceWindow, error)
}

// ResourceCatalog resolves a resource id to its capacity summary.  It
// returns (nil, nil) when the resource does not exist.
type ResourceCatalog interface {
    FindByID(ctx context.Context, id int64) (*model.Resource, error)
}

// BookingRequest carries a proposed reservation into AttemptBooking.
type BookingRequest struct {
    ResourceID    int64
    UserID        int64
    Date          time.Time
    StartTime     string
    EndTime       string
    Purpose       string
    AttendeeCount int
    Notes         string
    BookedBy      string
}

// Resolver applies the overlap predicate, the maintenance precedence
// rule and the id allocation policy for one booking collection.  It is
// safe for concurrent use; each call is one read-then-write unit with no
// cross-request locking, and the storage uniqueness constraint is the
// backstop for the accepted race window (see ErrDuplicateSlot).
type Resolver struct {
    reservations ReservationStore
    blackouts    BlackoutStore
    catalog      ResourceCatalog
    policy       Policy
    now          func() time.Time
}

// NewResolver wires a Resolver for one resource kind.
func NewResolver(reservations ReservationStore, blackouts BlackoutStore, catalog ResourceCatalog, policy Policy) *Resolver {
    if reservations == nil || blackouts == nil || catalog == nil {
        panic("nil store passed to NewResolver")
    }
    return &Resolver{
        reservations: reservations,
        blackouts:    blackouts,
        catalog:      catalog,
        policy:       policy,
        now:          func() time.Time { return time.Now().UTC() },
    }
}

// Policy returns the conflict policy the resolver was built with.
func (r *Resolver) Policy() Policy { return r.policy }

// CheckBlackoutConflict returns every active maintenance window whose
// range intersects the candidate interval on the given date.  A
// non-empty result vetoes the booking regardless of resource-level
// availability: maintenance is a harder constraint than double booking.
func (r *Resolver) CheckBlackoutConflict(ctx context.Context, date time.Time, startTime, endTime string) ([]model.MaintenanceWindow, error) {
    start := CombineDateTime(date, startTime)
    end := CombineDateTime(date, endTime)
    return r.blackouts.FindActiveOverlapping(ctx, start, end)
}

// CheckReservationConflict returns every blocking reservation for the
// resource and date whose interval overlaps the candidate interval.
// excludeID removes one reservation from consideration so an update
// never conflicts with itself; pass 0 to exclude nothing.
func (r *Resolver) CheckReservationConflict(ctx context.Context, resourceID int64, date time.Time, startTime, endTime string, excludeID int64) ([]model.Booking, error) {
    existing, err := r.reservations.FindByResourceAndDate(ctx, resourceID, DateOnly(date))
    if err != nil {
        return nil, err
    }
    conflicts := make([]model.Booking, 0)
    for _, b := range existing {
        if b.ID == excludeID {
            continue
        }
        if !r.blocks(b.Status) {
            continue
        }
        if Overlaps(startTime, endTime, b.StartTime, b.EndTime) {
            conflicts = append(conflicts, b)
        }
    }
    return conflicts, nil
}

// AttemptBooking validates and persists a new reservation.  Checks run
// in a fixed order and short-circuit on the first failure: interval
// validity, maintenance blackout, resource capacity, then scheduling
// conflicts.  The ordering is deliberate — a blackout produces a more
// specific error than a double booking, so it is reported first.
func (r *Resolver) AttemptBooking(ctx context.Context, req BookingRequest) (*model.Booking, error) {
    if !ValidClock(req.StartTime) || !ValidClock(req.EndTime) || req.StartTime >= req.EndTime {
        return nil, ErrInvalidInterval
    }

    windows, err := r.CheckBlackoutConflict(ctx, req.Date, req.StartTime, req.EndTime)
    if err != nil {
        return nil, err
    }
    if len(windows) > 0 {
        return nil, &MaintenanceConflictError{Windows: windows}
    }

    res, err := r.catalog.FindByID(ctx, req.ResourceID)
    if err != nil {
        return nil, err
    }
    if res == nil || (r.policy.RequireActiveResource && !res.IsActive) {
        return nil, ErrResourceNotFound
    }
    if req.AttendeeCount > res.Capacity {
        return nil, &CapacityError{AttendeeCount: req.AttendeeCount, Capacity: res.Capacity}
    }

    conflicts, err := r.CheckReservationConflict(ctx, req.ResourceID, req.Date, req.StartTime, req.EndTime, 0)
    if err != nil {
        return nil, err
    }
    if len(conflicts) > 0 {
        return nil, &SchedulingConflictError{Conflicts: conflicts}
    }

    id, err := r.nextID(ctx)
    if err != nil {
        return nil, err
    }
    now := r.now()
    created, err := r.reservations.Insert(ctx, model.Booking{
        ID:            id,
        ResourceID:    req.ResourceID,
        UserID:        req.UserID,
        Date:          DateOnly(req.Date),
        StartTime:     req.StartTime,
        EndTime:       req.EndTime,
        Purpose:       req.Purpose,
        AttendeeCount: req.AttendeeCount,
        Notes:         req.Notes,
        BookedBy:      req.BookedBy,
        Status:        r.policy.DefaultStatus,
        CreatedAt:     now,
        UpdatedAt:     now,
    })
    if err != nil {
        if errors.Is(err, ErrDuplicateSlot) {
            // A concurrent request won the race between our conflict
            // check and the write.  Surface it the same way as a
            // conflict detected up front.
            lost, cerr := r.CheckReservationConflict(ctx, req.ResourceID, req.Date, req.StartTime, req.EndTime, 0)
            if cerr != nil {
                lost = nil
            }
            return nil, &SchedulingConflictError{Conflicts: lost}
        }
        return nil, err
    }
    return created, nil
}

// AttemptReschedule moves an existing reservation to a new date and/or
// interval, falling back to the current values for any field the patch
// leaves nil.  The blackout check and the conflict check are re-run in
// the same order as on creation, with the reservation itself excluded
// so it never conflicts with its own slot.
func (r *Resolver) AttemptReschedule(ctx context.Context, id int64, p Patch) (*model.Booking, error) {
    existing, err := r.reservations.FindByID(ctx, id)
    if err != nil {
        return nil, err
    }
    if existing == nil {
        return nil, ErrNotFound
    }

    date := existing.Date
    if p.Date != nil {
        date = *p.Date
    }
    start := existing.StartTime
    if p.StartTime != nil {
        start = *p.StartTime
    }
    end := existing.EndTime
    if p.EndTime != nil {
        end = *p.EndTime
    }

    if !ValidClock(start) || !ValidClock(end) || start >= end {
        return nil, ErrInvalidInterval
    }

    windows, err := r.CheckBlackoutConflict(ctx, date, start, end)
    if err != nil {
        return nil, err
    }
    if len(windows) > 0 {
        return nil, &MaintenanceConflictError{Windows: windows}
    }

    conflicts, err := r.CheckReservationConflict(ctx, existing.ResourceID, date, start, end, id)
    if err != nil {
        return nil, err
    }
    if len(conflicts) > 0 {
        return nil, &SchedulingConflictError{Conflicts: conflicts}
    }

    if p.Date != nil {
        d := DateOnly(*p.Date)
        p.Date = &d
    }
    updated, err := r.reservations.UpdateFields(ctx, id, p)
    if err != nil {
        return nil, err
    }
    if updated == nil {
        return nil, ErrNotFound
    }
    return updated, nil
}

// Cancel soft-deletes a reservation by setting its status to cancelled.
// The record is retained and its id is never reused.  Cancelling an
// already cancelled reservation is an error; cancellation itself needs
// no conflict re-check since freeing a slot cannot create a conflict.
func (r *Resolver) Cancel(ctx context.Context, id int64) (*model.Booking, error) {
    existing, err := r.reservations.FindByID(ctx, id)
    if err != nil {
        return nil, err
    }
    if existing == nil {
        return nil, ErrNotFound
    }
    if existing.Status == model.StatusCancelled {
        return nil, ErrAlreadyCancelled
    }
    status := model.StatusCancelled
    updated, err := r.reservations.UpdateFields(ctx, id, Patch{Status: &status})
    if err != nil {
        return nil, err
    }
    if updated == nil {
        return nil, ErrNotFound
    }
    return updated, nil
}

// nextID allocates the next reservation id: the collection-wide maximum
// plus one, or 1 for an empty collection.  Scanning the id extremum
// rather than counting rows keeps cancelled and deleted records from
// ever causing id reuse.
func (r *Resolver) nextID(ctx context.Context) (int64, error) {
    max, err := r.reservations.MaxID(ctx)
    if err != nil {
        return 0, err
    }
    if max < 0 {
        max = 0
    }
    return max + 1, nil
}

func (r *Resolver) blocks(status string) bool {
    for _, s := range r.policy.BlockingStatuses {
        if s == status {
            return true
        }
    }
    return false
}
