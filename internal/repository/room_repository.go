package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/shahafg/RoomifyDemo/internal/model"
)

const roomColumns = "id, name, type, building, floor, capacity, status, accessible"

// RoomRepo provides CRUD queries for rooms and doubles as the
// availability.ResourceCatalog for room bookings via FindByID.
type RoomRepo struct {
    db *sql.DB
}

// NewRoomRepo returns a RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

func (r *RoomRepo) scan(row interface{ Scan(...any) error }) (*model.Room, error) {
    var m model.Room
    err := row.Scan(&m.ID, &m.Name, &m.Type, &m.Building, &m.Floor, &m.Capacity, &m.Status, &m.Accessible)
    if err != nil {
        return nil, err
    }
    return &m, nil
}

func (r *RoomRepo) queryMany(ctx context.Context, q string, args ...any) ([]model.Room, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Room, 0)
    for rows.Next() {
        m, err := r.scan(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *m)
    }
    return out, rows.Err()
}

// FindByID satisfies availability.ResourceCatalog: it reduces a room to
// its capacity summary, returning (nil, nil) when the room is unknown.
// Rooms are always considered active here; their administrative status
// code is not an availability gate.
func (r *RoomRepo) FindByID(ctx context.Context, id int64) (*model.Resource, error) {
    m, err := r.GetByID(ctx, id)
    if errors.Is(err, ErrNotFound) {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &model.Resource{ID: m.ID, Capacity: m.Capacity, IsActive: true}, nil
}

// GetByID returns the room or ErrNotFound.
func (r *RoomRepo) GetByID(ctx context.Context, id int64) (*model.Room, error) {
    const q = "SELECT " + roomColumns + " FROM rooms WHERE id = ?"
    m, err := r.scan(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    return m, err
}

// ListAll returns every room ordered by id.
func (r *RoomRepo) ListAll(ctx context.Context) ([]model.Room, error) {
    return r.queryMany(ctx, "SELECT "+roomColumns+" FROM rooms ORDER BY id")
}

// ListByBuilding returns the rooms in a building by building name.
func (r *RoomRepo) ListByBuilding(ctx context.Context, building string) ([]model.Room, error) {
    return r.queryMany(ctx, "SELECT "+roomColumns+" FROM rooms WHERE building = ? ORDER BY floor, id", building)
}

// ListByType returns rooms of one type.
func (r *RoomRepo) ListByType(ctx context.Context, roomType string) ([]model.Room, error) {
    return r.queryMany(ctx, "SELECT "+roomColumns+" FROM rooms WHERE type = ? ORDER BY id", roomType)
}

// ListByStatus returns rooms with the given administrative status code.
func (r *RoomRepo) ListByStatus(ctx context.Context, status int) ([]model.Room, error) {
    return r.queryMany(ctx, "SELECT "+roomColumns+" FROM rooms WHERE status = ? ORDER BY id", status)
}

// MaxID returns the largest room id, or 0 for an empty table.
func (r *RoomRepo) MaxID(ctx context.Context) (int64, error) {
    var max int64
    if err := r.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM rooms").Scan(&max); err != nil {
        return 0, err
    }
    return max, nil
}

// Insert persists a new room with its pre-allocated id.
func (r *RoomRepo) Insert(ctx context.Context, m model.Room) (*model.Room, error) {
    const q = "INSERT INTO rooms (" + roomColumns + ") VALUES (?,?,?,?,?,?,?,?)"
    _, err := r.db.ExecContext(ctx, q, m.ID, m.Name, m.Type, m.Building, m.Floor, m.Capacity, m.Status, m.Accessible)
    if err != nil {
        return nil, err
    }
    return r.GetByID(ctx, m.ID)
}

// Update replaces every mutable column of the room.
func (r *RoomRepo) Update(ctx context.Context, m model.Room) (*model.Room, error) {
    const q = `UPDATE rooms SET name = ?, type = ?, building = ?, floor = ?,
               capacity = ?, status = ?, accessible = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, m.Name, m.Type, m.Building, m.Floor, m.Capacity, m.Status, m.Accessible, m.ID)
    if err != nil {
        return nil, err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        if _, gerr := r.GetByID(ctx, m.ID); gerr != nil {
            return nil, gerr
        }
    }
    return r.GetByID(ctx, m.ID)
}

// SetStatus updates only the administrative status code.
func (r *RoomRepo) SetStatus(ctx context.Context, id int64, status int) (*model.Room, error) {
    if _, err := r.db.ExecContext(ctx, "UPDATE rooms SET status = ? WHERE id = ?", status, id); err != nil {
        return nil, err
    }
    return r.GetByID(ctx, id)
}

// Delete removes a room permanently.  Returns ErrNotFound when unknown.
func (r *RoomRepo) Delete(ctx context.Context, id int64) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
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
