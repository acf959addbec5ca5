package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/shahafg/RoomifyDemo/internal/model"
)

const timeSlotColumns = "id, start_time, end_time, display_name, is_active, display_order"

// TimeSlotRepo provides queries for the fixed auditorium time slots.
type TimeSlotRepo struct {
    db *sql.DB
}

func NewTimeSlotRepo(db *sql.DB) *TimeSlotRepo { return &TimeSlotRepo{db: db} }

func (r *TimeSlotRepo) scan(row interface{ Scan(...any) error }) (*model.TimeSlot, error) {
    var m model.TimeSlot
    if err := row.Scan(&m.ID, &m.StartTime, &m.EndTime, &m.DisplayName, &m.IsActive, &m.Order); err != nil {
        return nil, err
    }
    return &m, nil
}

func (r *TimeSlotRepo) queryMany(ctx context.Context, q string, args ...any) ([]model.TimeSlot, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.TimeSlot, 0)
    for rows.Next() {
        m, err := r.scan(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *m)
    }
    return out, rows.Err()
}

// ListActive returns the active slots in display order.  This is the
// sequence the availability grid is built from.
func (r *TimeSlotRepo) ListActive(ctx context.Context) ([]model.TimeSlot, error) {
    return r.queryMany(ctx, "SELECT "+timeSlotColumns+" FROM time_slots WHERE is_active = 1 ORDER BY display_order")
}

// ListAll returns every slot in display order, active or not.
func (r *TimeSlotRepo) ListAll(ctx context.Context) ([]model.TimeSlot, error) {
    return r.queryMany(ctx, "SELECT "+timeSlotColumns+" FROM time_slots ORDER BY display_order")
}

// GetByID returns the slot or ErrNotFound.
func (r *TimeSlotRepo) GetByID(ctx context.Context, id int64) (*model.TimeSlot, error) {
    const q = "SELECT " + timeSlotColumns + " FROM time_slots WHERE id = ?"
    m, err := r.scan(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    return m, err
}

// MaxID returns the largest slot id, or 0 for an empty table.
func (r *TimeSlotRepo) MaxID(ctx context.Context) (int64, error) {
    var max int64
    if err := r.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM time_slots").Scan(&max); err != nil {
        return 0, err
    }
    return max, nil
}

// Insert persists a new slot with its pre-allocated id.
func (r *TimeSlotRepo) Insert(ctx context.Context, m model.TimeSlot) (*model.TimeSlot, error) {
    const q = "INSERT INTO time_slots (" + timeSlotColumns + ") VALUES (?,?,?,?,?,?)"
    if _, err := r.db.ExecContext(ctx, q, m.ID, m.StartTime, m.EndTime, m.DisplayName, m.IsActive, m.Order); err != nil {
        return nil, err
    }
    return r.GetByID(ctx, m.ID)
}

// Update replaces every mutable column of the slot.
func (r *TimeSlotRepo) Update(ctx context.Context, m model.TimeSlot) (*model.TimeSlot, error) {
    const q = `UPDATE time_slots SET start_time = ?, end_time = ?, display_name = ?,
               is_active = ?, display_order = ? WHERE id = ?`
    if _, err := r.db.ExecContext(ctx, q, m.StartTime, m.EndTime, m.DisplayName, m.IsActive, m.Order, m.ID); err != nil {
        return nil, err
    }
    return r.GetByID(ctx, m.ID)
}

// Delete removes a slot permanently.
func (r *TimeSlotRepo) Delete(ctx context.Context, id int64) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM time_slots WHERE id = ?", id)
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
