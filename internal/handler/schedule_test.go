package handler

import (
    "net/http"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/shahafg/RoomifyDemo/internal/model"
)

func TestScheduleRequestValidation(t *testing.T) {
    c, _ := newTestContext(t, "")
    v := c.Echo().Validator

    valid := scheduleReq{
        ID:   "default",
        Name: "Regular Day",
        Periods: []model.Period{
            {PeriodName: "Period 1", StartTime: "08:00", EndTime: "08:45", Subject: "Math"},
        },
    }
    assert.NoError(t, v.Validate(&valid))

    // Missing name and an empty period list are both rejected.
    for _, req := range []scheduleReq{
        {ID: "default", Periods: valid.Periods},
        {ID: "default", Name: "Regular Day"},
        {Name: "Regular Day", Periods: valid.Periods},
    } {
        err := v.Validate(&req)
        require.Error(t, err)
        var he *echo.HTTPError
        require.ErrorAs(t, err, &he)
        assert.Equal(t, http.StatusBadRequest, he.Code)
    }
}

func TestScheduleRequestToModel(t *testing.T) {
    req := scheduleReq{
        ID:     "exam-day",
        Name:   "Exam Day",
        Active: true,
        Periods: []model.Period{
            {PeriodName: "Period 1", StartTime: "08:00", EndTime: "09:30", Subject: "Exam",
                OriginalStartTime: "08:00", OriginalEndTime: "08:45"},
        },
    }
    s := req.toModel()
    assert.Equal(t, "exam-day", s.ID)
    assert.Equal(t, "Exam Day", s.Name)
    assert.True(t, s.Active)
    require.Len(t, s.Periods, 1)
    assert.Equal(t, "08:45", s.Periods[0].OriginalEndTime)
    assert.False(t, s.UpdatedAt.IsZero())
}
