package model

import "time"

// Booking statuses.  Room bookings move between active, cancelled and
// completed.  Auditorium bookings use pending, confirmed and cancelled;
// tentative (pending) holds still occupy the slot for conflict purposes.
const (
    StatusActive    = "active"
    StatusCancelled = "cancelled"
    StatusCompleted = "completed"
    StatusPending   = "pending"
    StatusConfirmed = "confirmed"
)

// Booking records a reservation of a single resource (room or auditorium)
// for a time-of-day interval on a calendar date.  The same document shape
// is used for both booking collections; they differ only in which table
// they are stored in and which statuses block a slot.
//
// Fields:
//  ID            – collection-unique identifier, allocated as max(id)+1 and
//                  never reused, even after cancellation.
//  ResourceID    – id of the booked room or auditorium.
//  UserID        – id of the booking user (0 when only BookedBy is known).
//  Date          – calendar date of the booking; time-of-day is ignored.
//  StartTime     – wall-clock start in 24-hour "HH:MM" form.
//  EndTime       – wall-clock end in 24-hour "HH:MM" form; always after
//                  StartTime.  The interval is half-open: [start, end).
//  Purpose       – free-text reason for the booking.
//  AttendeeCount – expected occupancy, validated against resource capacity.
//  Notes         – optional free-text notes.
//  BookedBy      – display name or email of the person who booked.
//  Status        – lifecycle state, see status constants above.
//  CreatedAt     – server-assigned creation timestamp.
//  UpdatedAt     – last modification timestamp.
type Booking struct {
    ID            int64     `json:"id"`
    ResourceID    int64     `json:"resourceId"`
    UserID        int64     `json:"userId,omitempty"`
    Date          time.Time `json:"bookingDate"`
    StartTime     string    `json:"startTime"`
    EndTime       string    `json:"endTime"`
    Purpose       string    `json:"purpose"`
    AttendeeCount int       `json:"attendeeCount"`
    Notes         string    `json:"additionalNotes,omitempty"`
    BookedBy      string    `json:"bookedBy,omitempty"`
    Status        string    `json:"status"`
    CreatedAt     time.Time `json:"createdAt"`
    UpdatedAt     time.Time `json:"updatedAt"`
}
