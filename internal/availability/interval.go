package availability

import "time"

// Booking intervals are half-open: [start, end).  Two intervals that only
// share an endpoint do not overlap, so a 09:00-10:00 booking and a
// 10:00-11:00 booking on the same resource never conflict.

// ValidClock reports whether s is a 24-hour wall-clock time in the fixed
// "HH:MM" form.  The zero-padded fixed width is what makes plain string
// comparison a valid ordering on clock values.
func ValidClock(s string) bool {
    if len(s) != 5 || s[2] != ':' {
        return false
    }
    h0, h1 := s[0], s[1]
    m0, m1 := s[3], s[4]
    if h0 < '0' || h0 > '2' || h1 < '0' || h1 > '9' || m0 < '0' || m0 > '5' || m1 < '0' || m1 > '9' {
        return false
    }
    return s[:2] < "24"
}

// Overlaps reports whether the half-open clock intervals [aStart, aEnd)
// and [bStart, bEnd) on the same date intersect.  The single inequality
// test is equivalent to enumerating the starts-during / ends-during /
// encompasses cases, including the boundary rule that shared endpoints
// do not conflict.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
    return aStart < bEnd && bStart < aEnd
}

// RangesOverlap is the instant-based form of Overlaps, used for blackout
// windows which are bounded by full date-times rather than clock values.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
    return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// CombineDateTime forms the instant at the given wall-clock time on the
// given calendar date, in UTC.  The time-of-day component of date is
// discarded.  clock must already be validated with ValidClock.
func CombineDateTime(date time.Time, clock string) time.Time {
    h := int(clock[0]-'0')*10 + int(clock[1]-'0')
    m := int(clock[3]-'0')*10 + int(clock[4]-'0')
    y, mo, d := date.UTC().Date()
    return time.Date(y, mo, d, h, m, 0, 0, time.UTC)
}

// DateOnly truncates t to midnight UTC so that bookings compare by
// calendar date regardless of any time-of-day noise in stored values.
func DateOnly(t time.Time) time.Time {
    y, mo, d := t.UTC().Date()
    return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
