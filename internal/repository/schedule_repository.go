package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"

    "github.com/go-sql-driver/mysql"

    "github.com/shahafg/RoomifyDemo/internal/model"
)

const scheduleColumns = "id, name, is_active, periods, updated_at"

// ErrScheduleExists is returned when creating a schedule whose id or
// name is already taken.
var ErrScheduleExists = errors.New("schedule period already exists")

// ScheduleRepo provides queries for named class schedules.  Schedules
// are keyed by caller-supplied string ids; the period list is stored as
// a JSON array in a text column.
type ScheduleRepo struct {
    db *sql.DB
}

func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

func (r *ScheduleRepo) scan(row interface{ Scan(...any) error }) (*model.SchedulePeriod, error) {
    var s model.SchedulePeriod
    var periods string
    err := row.Scan(&s.ID, &s.Name, &s.Active, &periods, &s.UpdatedAt)
    if err != nil {
        return nil, err
    }
    if periods != "" {
        if err := json.Unmarshal([]byte(periods), &s.Periods); err != nil {
            s.Periods = nil
        }
    }
    return &s, nil
}

// ListAll returns every schedule ordered by name.
func (r *ScheduleRepo) ListAll(ctx context.Context) ([]model.SchedulePeriod, error) {
    rows, err := r.db.QueryContext(ctx, "SELECT "+scheduleColumns+" FROM schedule_periods ORDER BY name")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.SchedulePeriod, 0)
    for rows.Next() {
        s, err := r.scan(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *s)
    }
    return out, rows.Err()
}

// GetByID returns the schedule or ErrNotFound.
func (r *ScheduleRepo) GetByID(ctx context.Context, id string) (*model.SchedulePeriod, error) {
    const q = "SELECT " + scheduleColumns + " FROM schedule_periods WHERE id = ?"
    s, err := r.scan(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    return s, err
}

// Insert persists a new schedule.  A duplicate id or name is reported
// as ErrScheduleExists.
func (r *ScheduleRepo) Insert(ctx context.Context, s model.SchedulePeriod) (*model.SchedulePeriod, error) {
    periods, err := json.Marshal(s.Periods)
    if err != nil {
        return nil, err
    }
    const q = "INSERT INTO schedule_periods (" + scheduleColumns + ") VALUES (?,?,?,?,?)"
    if _, err := r.db.ExecContext(ctx, q, s.ID, s.Name, s.Active, string(periods), s.UpdatedAt); err != nil {
        var me *mysql.MySQLError
        if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
            return nil, ErrScheduleExists
        }
        return nil, err
    }
    return r.GetByID(ctx, s.ID)
}

// Update replaces every mutable column of the schedule.
func (r *ScheduleRepo) Update(ctx context.Context, s model.SchedulePeriod) (*model.SchedulePeriod, error) {
    periods, err := json.Marshal(s.Periods)
    if err != nil {
        return nil, err
    }
    const q = "UPDATE schedule_periods SET name = ?, is_active = ?, periods = ?, updated_at = ? WHERE id = ?"
    if _, err := r.db.ExecContext(ctx, q, s.Name, s.Active, string(periods), s.UpdatedAt, s.ID); err != nil {
        return nil, err
    }
    return r.GetByID(ctx, s.ID)
}

// Upsert inserts the schedule or, when the id is already taken,
// replaces the existing one.  Backs the bulk save endpoint, which
// writes a whole schedule in one call.
func (r *ScheduleRepo) Upsert(ctx context.Context, s model.SchedulePeriod) (*model.SchedulePeriod, bool, error) {
    created, err := r.Insert(ctx, s)
    if err == nil {
        return created, true, nil
    }
    if !errors.Is(err, ErrScheduleExists) {
        return nil, false, err
    }
    updated, err := r.Update(ctx, s)
    return updated, false, err
}

// Delete removes a schedule permanently.
func (r *ScheduleRepo) Delete(ctx context.Context, id string) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM schedule_periods WHERE id = ?", id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}
