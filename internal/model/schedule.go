package model

import "time"

// Period is one row of a class schedule: a named interval with the
// subject taught in it.  The original bounds survive edits so a
// shortened period can be restored.
type Period struct {
    PeriodName        string `json:"periodName"`
    StartTime         string `json:"startTime"`
    EndTime           string `json:"endTime"`
    Subject           string `json:"subject"`
    OriginalStartTime string `json:"originalStartTime,omitempty"`
    OriginalEndTime   string `json:"originalEndTime,omitempty"`
}

// SchedulePeriod is a named daily schedule built from an ordered list
// of periods.  Schedules are keyed by caller-supplied string ids and at
// most one is active at a time by convention; activation is managed by
// the client, the server only stores the flag.
type SchedulePeriod struct {
    ID        string    `json:"id"`
    Name      string    `json:"name"`
    Active    bool      `json:"active"`
    Periods   []Period  `json:"period"`
    UpdatedAt time.Time `json:"updatedAt"`
}
