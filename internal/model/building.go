package model

// Building groups rooms and auditoriums by physical location.
type Building struct {
    ID          int64  `json:"id"`
    Name        string `json:"name"`
    Description string `json:"description"`
    Floors      int    `json:"floors"`
}

// TimeSlot is one of the fixed bookable periods offered for auditoriums.
// Slots are purely presentational: the conflict check works on raw
// intervals, but the availability grid shown to users is built from the
// active slots in display order.
type TimeSlot struct {
    ID          int64  `json:"id"`
    StartTime   string `json:"startTime"`
    EndTime     string `json:"endTime"`
    DisplayName string `json:"displayName"`
    IsActive    bool   `json:"isActive"`
    Order       int    `json:"order"`
}
