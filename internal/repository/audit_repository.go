package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/shahafg/RoomifyDemo/internal/model"
)

const auditColumns = "id, timestamp, action, entity, entity_id, user_id, user_email, user_role, ip_address, user_agent, details, old_values, new_values, success, error_message, severity"

// AuditRepo provides queries over the append-mostly audit trail.
type AuditRepo struct {
    db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{db: db} }

// AuditFilter narrows an audit listing.  Zero-valued fields match
// everything; Page is 1-based and Limit caps the page size.
type AuditFilter struct {
    Action   string
    Entity   string
    EntityID string
    UserID   int64
    Severity string
    Success  *bool
    From     time.Time
    To       time.Time
    Page     int
    Limit    int
}

// AuditStats summarizes the trail for the admin dashboard.
type AuditStats struct {
    Total    int64            `json:"total"`
    Failures int64            `json:"failures"`
    ByAction map[string]int64 `json:"byAction"`
    ByEntity map[string]int64 `json:"byEntity"`
}

func (r *AuditRepo) scan(row interface{ Scan(...any) error }) (*model.AuditLog, error) {
    var a model.AuditLog
    var userID sql.NullInt64
    var userRole sql.NullInt64
    var email, ip, agent, oldV, newV, errMsg, entityID sql.NullString
    err := row.Scan(&a.ID, &a.Timestamp, &a.Action, &a.Entity, &entityID, &userID, &email,
        &userRole, &ip, &agent, &a.Details, &oldV, &newV, &a.Success, &errMsg, &a.Severity)
    if err != nil {
        return nil, err
    }
    a.EntityID = entityID.String
    a.UserID = userID.Int64
    a.UserEmail = email.String
    a.UserRole = int(userRole.Int64)
    a.IPAddress = ip.String
    a.UserAgent = agent.String
    a.OldValues = oldV.String
    a.NewValues = newV.String
    a.ErrorMessage = errMsg.String
    return &a, nil
}

func (f AuditFilter) where() (string, []any) {
    conds := make([]string, 0, 7)
    args := make([]any, 0, 7)
    add := func(cond string, v any) {
        conds = append(conds, cond)
        args = append(args, v)
    }
    if f.Action != "" {
        add("action = ?", f.Action)
    }
    if f.Entity != "" {
        add("entity = ?", f.Entity)
    }
    if f.EntityID != "" {
        add("entity_id = ?", f.EntityID)
    }
    if f.UserID != 0 {
        add("user_id = ?", f.UserID)
    }
    if f.Severity != "" {
        add("severity = ?", f.Severity)
    }
    if f.Success != nil {
        add("success = ?", *f.Success)
    }
    if !f.From.IsZero() {
        add("timestamp >= ?", f.From)
    }
    if !f.To.IsZero() {
        add("timestamp <= ?", f.To)
    }
    if len(conds) == 0 {
        return "", args
    }
    return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns one page of entries matching the filter, newest first,
// along with the total match count for pagination.
func (r *AuditRepo) List(ctx context.Context, f AuditFilter) ([]model.AuditLog, int64, error) {
    where, args := f.where()

    var total int64
    if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_logs"+where, args...).Scan(&total); err != nil {
        return nil, 0, err
    }

    limit := f.Limit
    if limit <= 0 || limit > 200 {
        limit = 50
    }
    page := f.Page
    if page < 1 {
        page = 1
    }
    q := "SELECT " + auditColumns + " FROM audit_logs" + where + " ORDER BY timestamp DESC, id DESC LIMIT ? OFFSET ?"
    args = append(args, limit, (page-1)*limit)

    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()
    out := make([]model.AuditLog, 0, limit)
    for rows.Next() {
        a, err := r.scan(rows)
        if err != nil {
            return nil, 0, err
        }
        out = append(out, *a)
    }
    return out, total, rows.Err()
}

// GetByID returns the entry or ErrNotFound.
func (r *AuditRepo) GetByID(ctx context.Context, id int64) (*model.AuditLog, error) {
    const q = "SELECT " + auditColumns + " FROM audit_logs WHERE id = ?"
    a, err := r.scan(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    return a, err
}

// Stats aggregates totals, failure count, and per-action / per-entity
// breakdowns.
func (r *AuditRepo) Stats(ctx context.Context) (*AuditStats, error) {
    s := &AuditStats{ByAction: map[string]int64{}, ByEntity: map[string]int64{}}

    if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_logs").Scan(&s.Total); err != nil {
        return nil, err
    }
    if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_logs WHERE success = 0").Scan(&s.Failures); err != nil {
        return nil, err
    }

    group := func(col string, into map[string]int64) error {
        rows, err := r.db.QueryContext(ctx, "SELECT "+col+", COUNT(*) FROM audit_logs GROUP BY "+col)
        if err != nil {
            return err
        }
        defer rows.Close()
        for rows.Next() {
            var k string
            var n int64
            if err := rows.Scan(&k, &n); err != nil {
                return err
            }
            into[k] = n
        }
        return rows.Err()
    }
    if err := group("action", s.ByAction); err != nil {
        return nil, err
    }
    if err := group("entity", s.ByEntity); err != nil {
        return nil, err
    }
    return s, nil
}

// MaxID returns the largest entry id, or 0 for an empty table.
func (r *AuditRepo) MaxID(ctx context.Context) (int64, error) {
    var max int64
    if err := r.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM audit_logs").Scan(&max); err != nil {
        return 0, err
    }
    return max, nil
}

// Insert persists a new entry with its pre-allocated id.
func (r *AuditRepo) Insert(ctx context.Context, a model.AuditLog) error {
    const q = "INSERT INTO audit_logs (" + auditColumns + ") VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)"
    _, err := r.db.ExecContext(ctx, q, a.ID, a.Timestamp, a.Action, a.Entity, a.EntityID,
        nullableID(a.UserID), a.UserEmail, a.UserRole, a.IPAddress, a.UserAgent,
        a.Details, a.OldValues, a.NewValues, a.Success, a.ErrorMessage, a.Severity)
    return err
}

// DeleteOlderThan prunes entries before the cutoff and reports how many
// were removed.
func (r *AuditRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
    res, err := r.db.ExecContext(ctx, "DELETE FROM audit_logs WHERE timestamp < ?", cutoff)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}
