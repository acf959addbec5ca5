package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/go-sql-driver/mysql"

    "github.com/shahafg/RoomifyDemo/internal/availability"
    "github.com/shahafg/RoomifyDemo/internal/model"
)

// mysqlDuplicateEntry is the MySQL error number for a unique-key
// violation (ER_DUP_ENTRY).
const mysqlDuplicateEntry = 1062

// bookingColumns is the canonical column list shared by both booking
// tables.  Keeping the two tables structurally identical is what lets a
// single repository serve rooms and auditoriums.
const bookingColumns = "id, resource_id, user_id, booking_date, start_time, end_time, purpose, attendee_count, notes, booked_by, status, created_at, updated_at"

// ReservationRepo provides queries for one booking collection.  Room
// bookings and auditorium bookings live in separate tables with separate
// id sequences but share the same shape, so the repository is
// parameterized by table name rather than duplicated per resource kind.
// It implements availability.ReservationStore.
//
// Both tables carry a composite unique key over (resource_id,
// booking_date, start_time, end_time): the storage-level backstop for
// the unsynchronized check-then-write race.  Insert reports a violation
// of that key as availability.ErrDuplicateSlot.
type ReservationRepo struct {
    db    *sql.DB
    table string
}

// NewRoomBookingRepo returns the repository for the room bookings table.
func NewRoomBookingRepo(db *sql.DB) *ReservationRepo {
    return &ReservationRepo{db: db, table: "bookings"}
}

// NewAuditoriumBookingRepo returns the repository for the auditorium
// bookings table.
func NewAuditoriumBookingRepo(db *sql.DB) *ReservationRepo {
    return &ReservationRepo{db: db, table: "auditorium_bookings"}
}

func (r *ReservationRepo) scan(row interface{ Scan(...any) error }) (*model.Booking, error) {
    var b model.Booking
    err := row.Scan(&b.ID, &b.ResourceID, &b.UserID, &b.Date, &b.StartTime, &b.EndTime,
        &b.Purpose, &b.AttendeeCount, &b.Notes, &b.BookedBy, &b.Status, &b.CreatedAt, &b.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &b, nil
}

func (r *ReservationRepo) queryMany(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Booking, 0)
    for rows.Next() {
        b, err := r.scan(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *b)
    }
    return out, rows.Err()
}

// FindByResourceAndDate returns every booking for the resource on the
// calendar date regardless of status, ordered by start time.  Status
// filtering belongs to the availability policy, not the query.
func (r *ReservationRepo) FindByResourceAndDate(ctx context.Context, resourceID int64, date time.Time) ([]model.Booking, error) {
    q := fmt.Sprintf("SELECT %s FROM %s WHERE resource_id = ? AND booking_date = ? ORDER BY start_time", bookingColumns, r.table)
    return r.queryMany(ctx, q, resourceID, availability.DateOnly(date))
}

// FindByID returns the booking or (nil, nil) when it does not exist.
func (r *ReservationRepo) FindByID(ctx context.Context, id int64) (*model.Booking, error) {
    q := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", bookingColumns, r.table)
    b, err := r.scan(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, nil
    }
    return b, err
}

// MaxID returns the largest id ever assigned in the table, including
// cancelled rows, or 0 when the table is empty.
func (r *ReservationRepo) MaxID(ctx context.Context) (int64, error) {
    q := fmt.Sprintf("SELECT COALESCE(MAX(id), 0) FROM %s", r.table)
    var max int64
    if err := r.db.QueryRowContext(ctx, q).Scan(&max); err != nil {
        return 0, err
    }
    return max, nil
}

// Insert persists a new booking with its pre-allocated id.  A duplicate
// key on the slot uniqueness constraint is reported as
// availability.ErrDuplicateSlot so the resolver can reinterpret it as a
// scheduling conflict.
func (r *ReservationRepo) Insert(ctx context.Context, b model.Booking) (*model.Booking, error) {
    q := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`, r.table, bookingColumns)
    _, err := r.db.ExecContext(ctx, q,
        b.ID, b.ResourceID, b.UserID, availability.DateOnly(b.Date), b.StartTime, b.EndTime,
        b.Purpose, b.AttendeeCount, b.Notes, b.BookedBy, b.Status, b.CreatedAt, b.UpdatedAt)
    if err != nil {
        var me *mysql.MySQLError
        if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
            return nil, fmt.Errorf("insert %s: %w", r.table, availability.ErrDuplicateSlot)
        }
        return nil, err
    }
    return r.FindByID(ctx, b.ID)
}

// UpdateFields applies the non-nil patch fields plus updated_at and
// returns the updated booking, or (nil, nil) when the id is unknown.
func (r *ReservationRepo) UpdateFields(ctx context.Context, id int64, p availability.Patch) (*model.Booking, error) {
    sets := make([]string, 0, 9)
    args := make([]any, 0, 10)
    add := func(col string, v any) {
        sets = append(sets, col+" = ?")
        args = append(args, v)
    }
    if p.Date != nil {
        add("booking_date", availability.DateOnly(*p.Date))
    }
    if p.StartTime != nil {
        add("start_time", *p.StartTime)
    }
    if p.EndTime != nil {
        add("end_time", *p.EndTime)
    }
    if p.Purpose != nil {
        add("purpose", *p.Purpose)
    }
    if p.AttendeeCount != nil {
        add("attendee_count", *p.AttendeeCount)
    }
    if p.Notes != nil {
        add("notes", *p.Notes)
    }
    if p.BookedBy != nil {
        add("booked_by", *p.BookedBy)
    }
    if p.Status != nil {
        add("status", *p.Status)
    }
    add("updated_at", time.Now().UTC())
    args = append(args, id)

    q := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", r.table, strings.Join(sets, ", "))
    if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
        var me *mysql.MySQLError
        if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
            return nil, fmt.Errorf("update %s: %w", r.table, availability.ErrDuplicateSlot)
        }
        return nil, err
    }
    return r.FindByID(ctx, id)
}

// ListAll returns every booking, newest date first then latest start.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
    q := fmt.Sprintf("SELECT %s FROM %s ORDER BY booking_date DESC, start_time DESC", bookingColumns, r.table)
    return r.queryMany(ctx, q)
}

// ListByStatusAndResource returns a resource's bookings in the given
// status, soonest first.
func (r *ReservationRepo) ListByStatusAndResource(ctx context.Context, resourceID int64, status string) ([]model.Booking, error) {
    q := fmt.Sprintf("SELECT %s FROM %s WHERE resource_id = ? AND status = ? ORDER BY booking_date, start_time", bookingColumns, r.table)
    return r.queryMany(ctx, q, resourceID, status)
}

// ListByStatusAndDate returns the date's bookings in the given status,
// ordered by start time.
func (r *ReservationRepo) ListByStatusAndDate(ctx context.Context, date time.Time, status string) ([]model.Booking, error) {
    q := fmt.Sprintf("SELECT %s FROM %s WHERE booking_date = ? AND status = ? ORDER BY start_time", bookingColumns, r.table)
    return r.queryMany(ctx, q, availability.DateOnly(date), status)
}

// ListNonCancelled returns every booking that has not been cancelled,
// newest date first.
func (r *ReservationRepo) ListNonCancelled(ctx context.Context) ([]model.Booking, error) {
    q := fmt.Sprintf("SELECT %s FROM %s WHERE status <> ? ORDER BY booking_date DESC, start_time", bookingColumns, r.table)
    return r.queryMany(ctx, q, model.StatusCancelled)
}

// ListNonCancelledByUser returns a user's non-cancelled bookings, newest
// date first.
func (r *ReservationRepo) ListNonCancelledByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
    q := fmt.Sprintf("SELECT %s FROM %s WHERE user_id = ? AND status <> ? ORDER BY booking_date DESC, start_time", bookingColumns, r.table)
    return r.queryMany(ctx, q, userID, model.StatusCancelled)
}

// Delete removes a booking row permanently.  Normal cancellation is a
// soft delete through the resolver; this is the administrative escape
// hatch.  Returns ErrNotFound when the id is unknown.
func (r *ReservationRepo) Delete(ctx context.Context, id int64) error {
    q := fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.table)
    res, err := r.db.ExecContext(ctx, q, id)
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
