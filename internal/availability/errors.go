// Package availability is the single source of truth for whether a
// resource can be booked for a time interval on a date.  Both booking
// collections (rooms and auditoriums) run every create, reschedule and
// cancel through the Resolver so the overlap predicate and the
// maintenance-over-conflict precedence are applied uniformly.
package availability

import (
    "errors"
    "fmt"

    "github.com/shahafg/RoomifyDemo/internal/model"
)

// Sentinel errors returned by the Resolver.  All failures are ordinary
// return values; handlers translate them into transport status codes.
var (
    // ErrInvalidInterval means the start time is not strictly before the
    // end time, or a clock value is not valid "HH:MM".
    ErrInvalidInterval = errors.New("start time must be before end time")

    // ErrNotFound means the referenced reservation does not exist.
    ErrNotFound = errors.New("reservation not found")

    // ErrResourceNotFound means the referenced room or auditorium does
    // not exist, or is inactive where the policy requires active ones.
    ErrResourceNotFound = errors.New("resource not found")

    // ErrAlreadyCancelled guards double cancellation.  Cancelling twice
    // is an explicit error, not a no-op.
    ErrAlreadyCancelled = errors.New("reservation is already cancelled")

    // ErrDuplicateSlot is returned by ReservationStore implementations
    // when the storage uniqueness constraint on (resource, date, start,
    // end) rejects an insert.  The Resolver reinterprets it as a
    // scheduling conflict: it is the backstop for the race window
    // between the conflict check and the write.
    ErrDuplicateSlot = errors.New("identical slot already booked")
)

// CapacityError reports an attendee count above the resource capacity.
type CapacityError struct {
    AttendeeCount int
    Capacity      int
}

func (e *CapacityError) Error() string {
    return fmt.Sprintf("attendee count (%d) exceeds resource capacity (%d)", e.AttendeeCount, e.Capacity)
}

// MaintenanceConflictError reports that the candidate interval intersects
// one or more active blackout windows.  Maintenance has absolute
// precedence over scheduling conflicts, so this error is produced before
// any reservation is consulted.
type MaintenanceConflictError struct {
    Windows []model.MaintenanceWindow
}

func (e *MaintenanceConflictError) Error() string {
    return fmt.Sprintf("interval falls within %d active maintenance window(s)", len(e.Windows))
}

// SchedulingConflictError reports that the candidate interval overlaps
// existing blocking reservations on the same resource and date.  The
// blocking reservations are carried for display to the caller.
type SchedulingConflictError struct {
    Conflicts []model.Booking
}

func (e *SchedulingConflictError) Error() string {
    return fmt.Sprintf("interval overlaps %d existing reservation(s)", len(e.Conflicts))
}
