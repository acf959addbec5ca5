package availability

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestValidClock(t *testing.T) {
    valid := []string{"00:00", "09:30", "12:00", "23:59"}
    for _, s := range valid {
        assert.True(t, ValidClock(s), s)
    }
    invalid := []string{"", "9:00", "24:00", "23:60", "12-30", "12:3", "ab:cd", "120:30"}
    for _, s := range invalid {
        assert.False(t, ValidClock(s), s)
    }
}

func TestOverlaps(t *testing.T) {
    cases := []struct {
        name                           string
        aStart, aEnd, bStart, bEnd     string
        want                           bool
    }{
        {"identical", "09:00", "10:00", "09:00", "10:00", true},
        {"candidate starts during existing", "09:30", "10:30", "09:00", "10:00", true},
        {"candidate ends during existing", "08:30", "09:30", "09:00", "10:00", true},
        {"candidate encompasses existing", "08:00", "11:00", "09:00", "10:00", true},
        {"candidate inside existing", "09:15", "09:45", "09:00", "10:00", true},
        {"adjacent after is not a conflict", "10:00", "11:00", "09:00", "10:00", false},
        {"adjacent before is not a conflict", "08:00", "09:00", "09:00", "10:00", false},
        {"disjoint", "11:00", "12:00", "09:00", "10:00", false},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
            // Overlap is symmetric.
            assert.Equal(t, tc.want, Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
        })
    }
}

func TestRangesOverlapSharedEndpoint(t *testing.T) {
    day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
    a1 := day.Add(8 * time.Hour)
    a2 := day.Add(9 * time.Hour)
    b2 := day.Add(10 * time.Hour)
    assert.False(t, RangesOverlap(a1, a2, a2, b2))
    assert.True(t, RangesOverlap(a1, b2, a2, b2))
}

func TestCombineDateTime(t *testing.T) {
    // The time-of-day component of the date must be discarded.
    date := time.Date(2024, 6, 1, 17, 45, 12, 0, time.UTC)
    got := CombineDateTime(date, "09:30")
    assert.Equal(t, time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC), got)
}

func TestDateOnly(t *testing.T) {
    d := time.Date(2024, 6, 1, 23, 59, 59, 0, time.UTC)
    assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), DateOnly(d))
}
