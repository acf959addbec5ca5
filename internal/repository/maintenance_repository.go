package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/shahafg/RoomifyDemo/internal/model"
)

const maintenanceColumns = "id, title, description, starts_at, ends_at, is_active, created_by, created_at, updated_at"

// MaintenanceRepo provides queries for maintenance blackout windows.  It
// implements availability.BlackoutStore for the conflict check and the
// full CRUD surface for the administrative routes.
type MaintenanceRepo struct {
    db *sql.DB
}

// NewMaintenanceRepo returns a MaintenanceRepo bound to the given database.
func NewMaintenanceRepo(db *sql.DB) *MaintenanceRepo { return &MaintenanceRepo{db: db} }

// MaintenancePatch lists the fields an update may alter; nil fields are
// left untouched.
type MaintenancePatch struct {
    Title       *string
    Description *string
    StartsAt    *time.Time
    EndsAt      *time.Time
    IsActive    *bool
}

func (r *MaintenanceRepo) scan(row interface{ Scan(...any) error }) (*model.MaintenanceWindow, error) {
    var w model.MaintenanceWindow
    err := row.Scan(&w.ID, &w.Title, &w.Description, &w.StartsAt, &w.EndsAt,
        &w.IsActive, &w.CreatedBy, &w.CreatedAt, &w.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &w, nil
}

func (r *MaintenanceRepo) queryMany(ctx context.Context, q string, args ...any) ([]model.MaintenanceWindow, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.MaintenanceWindow, 0)
    for rows.Next() {
        w, err := r.scan(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *w)
    }
    return out, rows.Err()
}

// FindActiveOverlapping returns every active window intersecting the
// half-open instant range [start, end).  The single pair of
// inequalities is the index-friendly form of the overlap predicate:
// a window blocks iff it starts before the range ends and ends after
// the range starts, so windows that merely touch an endpoint pass.
func (r *MaintenanceRepo) FindActiveOverlapping(ctx context.Context, start, end time.Time) ([]model.MaintenanceWindow, error) {
    const q = "SELECT " + maintenanceColumns + ` FROM maintenance_windows
               WHERE is_active = 1 AND starts_at < ? AND ends_at > ?
               ORDER BY starts_at`
    return r.queryMany(ctx, q, end, start)
}

// ListAll returns every window, most recent start first.
func (r *MaintenanceRepo) ListAll(ctx context.Context) ([]model.MaintenanceWindow, error) {
    const q = "SELECT " + maintenanceColumns + " FROM maintenance_windows ORDER BY starts_at DESC"
    return r.queryMany(ctx, q)
}

// ListCurrentlyActive returns active windows covering the given instant.
func (r *MaintenanceRepo) ListCurrentlyActive(ctx context.Context, now time.Time) ([]model.MaintenanceWindow, error) {
    const q = "SELECT " + maintenanceColumns + ` FROM maintenance_windows
               WHERE is_active = 1 AND starts_at <= ? AND ends_at >= ?
               ORDER BY starts_at`
    return r.queryMany(ctx, q, now, now)
}

// GetByID returns the window or ErrNotFound.
func (r *MaintenanceRepo) GetByID(ctx context.Context, id int64) (*model.MaintenanceWindow, error) {
    const q = "SELECT " + maintenanceColumns + " FROM maintenance_windows WHERE id = ?"
    w, err := r.scan(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    return w, err
}

// MaxID returns the largest id ever assigned, or 0 for an empty table.
func (r *MaintenanceRepo) MaxID(ctx context.Context) (int64, error) {
    var max int64
    if err := r.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM maintenance_windows").Scan(&max); err != nil {
        return 0, err
    }
    return max, nil
}

// Insert persists a new window with its pre-allocated id.
func (r *MaintenanceRepo) Insert(ctx context.Context, w model.MaintenanceWindow) (*model.MaintenanceWindow, error) {
    const q = "INSERT INTO maintenance_windows (" + maintenanceColumns + ") VALUES (?,?,?,?,?,?,?,?,?)"
    _, err := r.db.ExecContext(ctx, q, w.ID, w.Title, w.Description, w.StartsAt, w.EndsAt,
        w.IsActive, w.CreatedBy, w.CreatedAt, w.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return r.GetByID(ctx, w.ID)
}

// UpdateFields applies the non-nil patch fields plus updated_at.
func (r *MaintenanceRepo) UpdateFields(ctx context.Context, id int64, p MaintenancePatch) (*model.MaintenanceWindow, error) {
    sets := make([]string, 0, 6)
    args := make([]any, 0, 7)
    add := func(col string, v any) {
        sets = append(sets, col+" = ?")
        args = append(args, v)
    }
    if p.Title != nil {
        add("title", *p.Title)
    }
    if p.Description != nil {
        add("description", *p.Description)
    }
    if p.StartsAt != nil {
        add("starts_at", *p.StartsAt)
    }
    if p.EndsAt != nil {
        add("ends_at", *p.EndsAt)
    }
    if p.IsActive != nil {
        add("is_active", *p.IsActive)
    }
    add("updated_at", time.Now().UTC())
    args = append(args, id)

    q := "UPDATE maintenance_windows SET " + strings.Join(sets, ", ") + " WHERE id = ?"
    if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
        return nil, err
    }
    return r.GetByID(ctx, id)
}

// Delete removes a window permanently.  Returns ErrNotFound when the id
// is unknown.
func (r *MaintenanceRepo) Delete(ctx context.Context, id int64) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM maintenance_windows WHERE id = ?", id)
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
