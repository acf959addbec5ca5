package model

// Room is a bookable classroom or meeting room inside a building.
// The Status field holds the administrative state code managed by
// staff; whether a room is occupied right now is derived from the
// bookings table at read time and exposed separately as Occupied.
type Room struct {
    ID         int64  `json:"id"`
    Name       string `json:"name"`
    Type       string `json:"type"`
    Building   string `json:"building"`
    Floor      int    `json:"floor"`
    Capacity   int    `json:"capacity"`
    Status     int    `json:"status"`
    Accessible bool   `json:"accessible"`
    // Occupied is computed from today's active bookings and never stored.
    Occupied bool `json:"occupied"`
}

// Auditorium is a large bookable venue attached to a building.  Unlike
// rooms, auditoriums carry an explicit active flag: inactive auditoriums
// are hidden from availability queries and reject new bookings.
type Auditorium struct {
    ID         int64    `json:"id"`
    Name       string   `json:"name"`
    BuildingID int64    `json:"buildingId"`
    Capacity   int      `json:"capacity"`
    Features   []string `json:"features"`
    IsActive   bool     `json:"isActive"`
}

// Resource is the capacity/activity summary the availability resolver
// needs about a bookable resource.  Both rooms and auditoriums reduce
// to this shape for conflict checking.
type Resource struct {
    ID       int64
    Capacity int
    IsActive bool
}
