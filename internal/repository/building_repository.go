package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/shahafg/RoomifyDemo/internal/model"
)

const buildingColumns = "id, name, description, floors"

// BuildingRepo provides CRUD queries for buildings.
type BuildingRepo struct {
    db *sql.DB
}

func NewBuildingRepo(db *sql.DB) *BuildingRepo { return &BuildingRepo{db: db} }

func (r *BuildingRepo) scan(row interface{ Scan(...any) error }) (*model.Building, error) {
    var m model.Building
    if err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Floors); err != nil {
        return nil, err
    }
    return &m, nil
}

// GetByID returns the building or ErrNotFound.
func (r *BuildingRepo) GetByID(ctx context.Context, id int64) (*model.Building, error) {
    const q = "SELECT " + buildingColumns + " FROM buildings WHERE id = ?"
    m, err := r.scan(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    return m, err
}

// ListAll returns every building ordered by name.
func (r *BuildingRepo) ListAll(ctx context.Context) ([]model.Building, error) {
    rows, err := r.db.QueryContext(ctx, "SELECT "+buildingColumns+" FROM buildings ORDER BY name")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Building, 0)
    for rows.Next() {
        m, err := r.scan(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *m)
    }
    return out, rows.Err()
}

// MaxID returns the largest building id, or 0 for an empty table.
func (r *BuildingRepo) MaxID(ctx context.Context) (int64, error) {
    var max int64
    if err := r.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM buildings").Scan(&max); err != nil {
        return 0, err
    }
    return max, nil
}

// Insert persists a new building with its pre-allocated id.
func (r *BuildingRepo) Insert(ctx context.Context, m model.Building) (*model.Building, error) {
    const q = "INSERT INTO buildings (" + buildingColumns + ") VALUES (?,?,?,?)"
    if _, err := r.db.ExecContext(ctx, q, m.ID, m.Name, m.Description, m.Floors); err != nil {
        return nil, err
    }
    return r.GetByID(ctx, m.ID)
}

// Update replaces every mutable column of the building.
func (r *BuildingRepo) Update(ctx context.Context, m model.Building) (*model.Building, error) {
    const q = "UPDATE buildings SET name = ?, description = ?, floors = ? WHERE id = ?"
    if _, err := r.db.ExecContext(ctx, q, m.Name, m.Description, m.Floors, m.ID); err != nil {
        return nil, err
    }
    return r.GetByID(ctx, m.ID)
}

// Delete removes a building permanently.
func (r *BuildingRepo) Delete(ctx context.Context, id int64) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM buildings WHERE id = ?", id)
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
