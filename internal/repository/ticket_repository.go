package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "time"

    "github.com/shahafg/RoomifyDemo/internal/model"
)

const ticketColumns = "id, title, description, category, priority, status, created_by, assigned_to, attachments, created_at, updated_at"

// TicketRepo provides queries for support tickets.  Attachment metadata
// is stored as a JSON array in a text column.
type TicketRepo struct {
    db *sql.DB
}

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

func (r *TicketRepo) scan(row interface{ Scan(...any) error }) (*model.Ticket, error) {
    var t model.Ticket
    var assigned sql.NullInt64
    var attachments string
    err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &t.Priority, &t.Status,
        &t.CreatedBy, &assigned, &attachments, &t.CreatedAt, &t.UpdatedAt)
    if err != nil {
        return nil, err
    }
    t.AssignedTo = assigned.Int64
    if attachments != "" {
        if err := json.Unmarshal([]byte(attachments), &t.Attachments); err != nil {
            t.Attachments = nil
        }
    }
    return &t, nil
}

func (r *TicketRepo) queryMany(ctx context.Context, q string, args ...any) ([]model.Ticket, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Ticket, 0)
    for rows.Next() {
        t, err := r.scan(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *t)
    }
    return out, rows.Err()
}

// GetByID returns the ticket or ErrNotFound.
func (r *TicketRepo) GetByID(ctx context.Context, id int64) (*model.Ticket, error) {
    const q = "SELECT " + ticketColumns + " FROM tickets WHERE id = ?"
    t, err := r.scan(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    return t, err
}

// ListAll returns every ticket, newest first.
func (r *TicketRepo) ListAll(ctx context.Context) ([]model.Ticket, error) {
    return r.queryMany(ctx, "SELECT "+ticketColumns+" FROM tickets ORDER BY created_at DESC")
}

// ListByUser returns tickets raised by one user, newest first.
func (r *TicketRepo) ListByUser(ctx context.Context, userID int64) ([]model.Ticket, error) {
    return r.queryMany(ctx, "SELECT "+ticketColumns+" FROM tickets WHERE created_by = ? ORDER BY created_at DESC", userID)
}

// ListByStatus returns tickets in one status, newest first.
func (r *TicketRepo) ListByStatus(ctx context.Context, status string) ([]model.Ticket, error) {
    return r.queryMany(ctx, "SELECT "+ticketColumns+" FROM tickets WHERE status = ? ORDER BY created_at DESC", status)
}

// ListByCategory returns tickets in one category, newest first.
func (r *TicketRepo) ListByCategory(ctx context.Context, category string) ([]model.Ticket, error) {
    return r.queryMany(ctx, "SELECT "+ticketColumns+" FROM tickets WHERE category = ? ORDER BY created_at DESC", category)
}

// ListByAssignee returns tickets assigned to one user, newest first.
func (r *TicketRepo) ListByAssignee(ctx context.Context, userID int64) ([]model.Ticket, error) {
    return r.queryMany(ctx, "SELECT "+ticketColumns+" FROM tickets WHERE assigned_to = ? ORDER BY created_at DESC", userID)
}

// MaxID returns the largest ticket id, or 0 for an empty table.
func (r *TicketRepo) MaxID(ctx context.Context) (int64, error) {
    var max int64
    if err := r.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM tickets").Scan(&max); err != nil {
        return 0, err
    }
    return max, nil
}

// Insert persists a new ticket with its pre-allocated id.
func (r *TicketRepo) Insert(ctx context.Context, t model.Ticket) (*model.Ticket, error) {
    attachments, err := json.Marshal(t.Attachments)
    if err != nil {
        return nil, err
    }
    const q = "INSERT INTO tickets (" + ticketColumns + ") VALUES (?,?,?,?,?,?,?,?,?,?,?)"
    _, err = r.db.ExecContext(ctx, q, t.ID, t.Title, t.Description, t.Category, t.Priority,
        t.Status, t.CreatedBy, nullableID(t.AssignedTo), string(attachments), t.CreatedAt, t.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return r.GetByID(ctx, t.ID)
}

// Update replaces every mutable column of the ticket and bumps
// updated_at.
func (r *TicketRepo) Update(ctx context.Context, t model.Ticket) (*model.Ticket, error) {
    attachments, err := json.Marshal(t.Attachments)
    if err != nil {
        return nil, err
    }
    const q = `UPDATE tickets SET title = ?, description = ?, category = ?, priority = ?,
               status = ?, assigned_to = ?, attachments = ?, updated_at = ? WHERE id = ?`
    _, err = r.db.ExecContext(ctx, q, t.Title, t.Description, t.Category, t.Priority,
        t.Status, nullableID(t.AssignedTo), string(attachments), time.Now().UTC(), t.ID)
    if err != nil {
        return nil, err
    }
    return r.GetByID(ctx, t.ID)
}

// Assign sets the assignee and bumps updated_at.
func (r *TicketRepo) Assign(ctx context.Context, id, assignedTo int64) (*model.Ticket, error) {
    const q = "UPDATE tickets SET assigned_to = ?, updated_at = ? WHERE id = ?"
    if _, err := r.db.ExecContext(ctx, q, nullableID(assignedTo), time.Now().UTC(), id); err != nil {
        return nil, err
    }
    return r.GetByID(ctx, id)
}

// UpdateStatus moves the ticket to a new status and optionally assigns
// it, bumping updated_at.
func (r *TicketRepo) UpdateStatus(ctx context.Context, id int64, status string, assignedTo int64) (*model.Ticket, error) {
    const q = "UPDATE tickets SET status = ?, assigned_to = ?, updated_at = ? WHERE id = ?"
    if _, err := r.db.ExecContext(ctx, q, status, nullableID(assignedTo), time.Now().UTC(), id); err != nil {
        return nil, err
    }
    return r.GetByID(ctx, id)
}

// Delete removes a ticket permanently.
func (r *TicketRepo) Delete(ctx context.Context, id int64) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM tickets WHERE id = ?", id)
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

// nullableID maps the zero id to SQL NULL so unassigned stays NULL
// instead of pointing at a phantom user 0.
func nullableID(id int64) any {
    if id == 0 {
        return nil
    }
    return id
}
