package model

import "time"

// MaintenanceWindow is a global blackout period during which no resource
// may be booked.  Windows are bounded by full date-time instants rather
// than date plus time-of-day pairs, and only active windows block
// bookings.  Windows reference no particular resource: maintenance is
// system wide.
//
// Fields:
//  ID          – collection-unique identifier.
//  Title       – short label shown to users when a booking is blocked.
//  Description – longer explanation of the maintenance work.
//  StartsAt    – beginning of the blackout, inclusive.
//  EndsAt      – end of the blackout, exclusive; always after StartsAt.
//  IsActive    – inactive windows never block bookings.
//  CreatedBy   – admin who scheduled the window.
type MaintenanceWindow struct {
    ID          int64     `json:"id"`
    Title       string    `json:"title"`
    Description string    `json:"description"`
    StartsAt    time.Time `json:"startDate"`
    EndsAt      time.Time `json:"endDate"`
    IsActive    bool      `json:"isActive"`
    CreatedBy   string    `json:"createdBy"`
    CreatedAt   time.Time `json:"createdAt"`
    UpdatedAt   time.Time `json:"updatedAt"`
}
