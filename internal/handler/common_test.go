package handler

import (
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/shahafg/RoomifyDemo/internal/availability"
    "github.com/shahafg/RoomifyDemo/internal/model"
)

func newTestContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
    t.Helper()
    e := echo.New()
    e.Validator = NewValidator()
    req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
    t.Helper()
    var m map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
    return m
}

func TestAvailabilityErrorMaintenanceLocks(t *testing.T) {
    c, rec := newTestContext(t, "")
    err := availabilityError(c, &availability.MaintenanceConflictError{
        Windows: []model.MaintenanceWindow{{ID: 1, Title: "hvac service"}},
    })
    require.NoError(t, err)
    assert.Equal(t, http.StatusLocked, rec.Code)

    body := decodeBody(t, rec)
    assert.Equal(t, "Booking not allowed during maintenance period", body["message"])
    assert.Len(t, body["maintenancePeriods"], 1)
}

func TestAvailabilityErrorSchedulingConflicts(t *testing.T) {
    c, rec := newTestContext(t, "")
    err := availabilityError(c, &availability.SchedulingConflictError{
        Conflicts: []model.Booking{{ID: 3, StartTime: "09:00", EndTime: "10:00"}},
    })
    require.NoError(t, err)
    assert.Equal(t, http.StatusConflict, rec.Code)

    body := decodeBody(t, rec)
    assert.Equal(t, "Time slot conflicts with existing bookings", body["message"])
    assert.Len(t, body["conflicts"], 1)
}

func TestAvailabilityErrorCapacity(t *testing.T) {
    c, rec := newTestContext(t, "")
    err := availabilityError(c, &availability.CapacityError{AttendeeCount: 40, Capacity: 30})
    require.NoError(t, err)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.EqualValues(t, 30, decodeBody(t, rec)["capacity"])
}

func TestAvailabilityErrorSentinels(t *testing.T) {
    cases := []struct {
        err  error
        code int
    }{
        {availability.ErrInvalidInterval, http.StatusBadRequest},
        {availability.ErrAlreadyCancelled, http.StatusBadRequest},
        {availability.ErrNotFound, http.StatusNotFound},
        {availability.ErrResourceNotFound, http.StatusNotFound},
        {errors.New("disk on fire"), http.StatusInternalServerError},
    }
    for _, tc := range cases {
        c, rec := newTestContext(t, "")
        require.NoError(t, availabilityError(c, tc.err))
        assert.Equal(t, tc.code, rec.Code, "%v", tc.err)
    }
}

func TestParseDate(t *testing.T) {
    d, err := parseDate("2024-06-01")
    require.NoError(t, err)
    assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d)

    // Full instants collapse to midnight UTC.
    d, err = parseDate("2024-06-01T14:30:00Z")
    require.NoError(t, err)
    assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d)

    _, err = parseDate("06/01/2024")
    assert.Error(t, err)
}

func TestValidatorRejectsMissingFields(t *testing.T) {
    c, _ := newTestContext(t, "")
    var req createBookingReq
    err := c.Echo().Validator.Validate(&req)
    require.Error(t, err)

    var he *echo.HTTPError
    require.ErrorAs(t, err, &he)
    assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestSeverityFor(t *testing.T) {
    assert.Equal(t, model.SeverityHigh, severityFor("DELETE"))
    assert.Equal(t, model.SeverityMedium, severityFor("UPDATE"))
    assert.Equal(t, model.SeverityLow, severityFor("CREATE"))
    assert.Equal(t, model.SeverityLow, severityFor("LOGIN"))
}

func TestGetUserIDDefaultsToZero(t *testing.T) {
    c, _ := newTestContext(t, "")
    assert.EqualValues(t, 0, getUserID(c))

    c.Set("user_id", int64(7))
    assert.EqualValues(t, 7, getUserID(c))
}
