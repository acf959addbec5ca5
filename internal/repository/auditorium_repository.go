package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"

    "github.com/shahafg/RoomifyDemo/internal/model"
)

const auditoriumColumns = "id, name, building_id, capacity, features, is_active"

// AuditoriumRepo provides CRUD queries for auditoriums and doubles as
// the availability.ResourceCatalog for auditorium bookings.  The
// features list is stored as a JSON array in a text column.
type AuditoriumRepo struct {
    db *sql.DB
}

// NewAuditoriumRepo returns an AuditoriumRepo bound to the given database.
func NewAuditoriumRepo(db *sql.DB) *AuditoriumRepo { return &AuditoriumRepo{db: db} }

func (r *AuditoriumRepo) scan(row interface{ Scan(...any) error }) (*model.Auditorium, error) {
    var m model.Auditorium
    var features string
    err := row.Scan(&m.ID, &m.Name, &m.BuildingID, &m.Capacity, &features, &m.IsActive)
    if err != nil {
        return nil, err
    }
    if features != "" {
        if err := json.Unmarshal([]byte(features), &m.Features); err != nil {
            m.Features = nil
        }
    }
    return &m, nil
}

func (r *AuditoriumRepo) queryMany(ctx context.Context, q string, args ...any) ([]model.Auditorium, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Auditorium, 0)
    for rows.Next() {
        m, err := r.scan(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *m)
    }
    return out, rows.Err()
}

// FindByID satisfies availability.ResourceCatalog.  The active flag is
// passed through so the auditorium policy can reject inactive venues.
func (r *AuditoriumRepo) FindByID(ctx context.Context, id int64) (*model.Resource, error) {
    m, err := r.GetByID(ctx, id)
    if errors.Is(err, ErrNotFound) {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &model.Resource{ID: m.ID, Capacity: m.Capacity, IsActive: m.IsActive}, nil
}

// GetByID returns the auditorium or ErrNotFound.
func (r *AuditoriumRepo) GetByID(ctx context.Context, id int64) (*model.Auditorium, error) {
    const q = "SELECT " + auditoriumColumns + " FROM auditoriums WHERE id = ?"
    m, err := r.scan(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    return m, err
}

// GetActiveByID returns the auditorium only when it exists and is
// active, mirroring how availability queries treat inactive venues.
func (r *AuditoriumRepo) GetActiveByID(ctx context.Context, id int64) (*model.Auditorium, error) {
    const q = "SELECT " + auditoriumColumns + " FROM auditoriums WHERE id = ? AND is_active = 1"
    m, err := r.scan(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    return m, err
}

// ListAll returns every auditorium ordered by id.
func (r *AuditoriumRepo) ListAll(ctx context.Context) ([]model.Auditorium, error) {
    return r.queryMany(ctx, "SELECT "+auditoriumColumns+" FROM auditoriums ORDER BY id")
}

// ListByBuilding returns the active auditoriums in a building.
func (r *AuditoriumRepo) ListByBuilding(ctx context.Context, buildingID int64) ([]model.Auditorium, error) {
    return r.queryMany(ctx, "SELECT "+auditoriumColumns+" FROM auditoriums WHERE building_id = ? AND is_active = 1 ORDER BY id", buildingID)
}

// MaxID returns the largest auditorium id, or 0 for an empty table.
func (r *AuditoriumRepo) MaxID(ctx context.Context) (int64, error) {
    var max int64
    if err := r.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM auditoriums").Scan(&max); err != nil {
        return 0, err
    }
    return max, nil
}

// Insert persists a new auditorium with its pre-allocated id.
func (r *AuditoriumRepo) Insert(ctx context.Context, m model.Auditorium) (*model.Auditorium, error) {
    features, err := json.Marshal(m.Features)
    if err != nil {
        return nil, err
    }
    const q = "INSERT INTO auditoriums (" + auditoriumColumns + ") VALUES (?,?,?,?,?,?)"
    if _, err := r.db.ExecContext(ctx, q, m.ID, m.Name, m.BuildingID, m.Capacity, string(features), m.IsActive); err != nil {
        return nil, err
    }
    return r.GetByID(ctx, m.ID)
}

// Update replaces every mutable column of the auditorium.
func (r *AuditoriumRepo) Update(ctx context.Context, m model.Auditorium) (*model.Auditorium, error) {
    features, err := json.Marshal(m.Features)
    if err != nil {
        return nil, err
    }
    const q = `UPDATE auditoriums SET name = ?, building_id = ?, capacity = ?,
               features = ?, is_active = ? WHERE id = ?`
    if _, err := r.db.ExecContext(ctx, q, m.Name, m.BuildingID, m.Capacity, string(features), m.IsActive, m.ID); err != nil {
        return nil, err
    }
    return r.GetByID(ctx, m.ID)
}

// Delete removes an auditorium permanently.
func (r *AuditoriumRepo) Delete(ctx context.Context, id int64) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM auditoriums WHERE id = ?", id)
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
