package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/shahafg/RoomifyDemo/internal/model"
)

const messageColumns = "id, sender_id, receiver_id, content, timestamp, is_read"

// MessageRepo provides queries for direct messages between users.
// Messages use caller-supplied UUID string ids instead of the numeric
// max+1 scheme the other collections follow.
type MessageRepo struct {
    db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{db: db} }

func (r *MessageRepo) scan(row interface{ Scan(...any) error }) (*model.Message, error) {
    var m model.Message
    if err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Timestamp, &m.Read); err != nil {
        return nil, err
    }
    return &m, nil
}

func (r *MessageRepo) queryMany(ctx context.Context, q string, args ...any) ([]model.Message, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Message, 0)
    for rows.Next() {
        m, err := r.scan(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *m)
    }
    return out, rows.Err()
}

// ListAll returns every message, newest first.
func (r *MessageRepo) ListAll(ctx context.Context) ([]model.Message, error) {
    return r.queryMany(ctx, "SELECT "+messageColumns+" FROM messages ORDER BY timestamp DESC")
}

// GetByID returns the message or ErrNotFound.
func (r *MessageRepo) GetByID(ctx context.Context, id string) (*model.Message, error) {
    const q = "SELECT " + messageColumns + " FROM messages WHERE id = ?"
    m, err := r.scan(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    return m, err
}

// Conversation returns every message exchanged between two users in
// chronological order, regardless of direction.
func (r *MessageRepo) Conversation(ctx context.Context, a, b string) ([]model.Message, error) {
    const q = "SELECT " + messageColumns + ` FROM messages
               WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
               ORDER BY timestamp`
    return r.queryMany(ctx, q, a, b, b, a)
}

// Inbox returns messages received by the user, newest first.
func (r *MessageRepo) Inbox(ctx context.Context, userID string) ([]model.Message, error) {
    return r.queryMany(ctx, "SELECT "+messageColumns+" FROM messages WHERE receiver_id = ? ORDER BY timestamp DESC", userID)
}

// Sent returns messages sent by the user, newest first.
func (r *MessageRepo) Sent(ctx context.Context, userID string) ([]model.Message, error) {
    return r.queryMany(ctx, "SELECT "+messageColumns+" FROM messages WHERE sender_id = ? ORDER BY timestamp DESC", userID)
}

// UnreadCount counts the user's unread messages.
func (r *MessageRepo) UnreadCount(ctx context.Context, userID string) (int64, error) {
    var n int64
    err := r.db.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM messages WHERE receiver_id = ? AND is_read = 0", userID).Scan(&n)
    return n, err
}

// Insert persists a new message.
func (r *MessageRepo) Insert(ctx context.Context, m model.Message) (*model.Message, error) {
    const q = "INSERT INTO messages (" + messageColumns + ") VALUES (?,?,?,?,?,?)"
    if _, err := r.db.ExecContext(ctx, q, m.ID, m.SenderID, m.ReceiverID, m.Content, m.Timestamp, m.Read); err != nil {
        return nil, err
    }
    return r.GetByID(ctx, m.ID)
}

// MarkRead flags a single message as read.
func (r *MessageRepo) MarkRead(ctx context.Context, id string) error {
    res, err := r.db.ExecContext(ctx, "UPDATE messages SET is_read = 1 WHERE id = ?", id)
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

// MarkConversationRead flags everything one user received from another
// as read.
func (r *MessageRepo) MarkConversationRead(ctx context.Context, receiverID, senderID string) error {
    _, err := r.db.ExecContext(ctx,
        "UPDATE messages SET is_read = 1 WHERE receiver_id = ? AND sender_id = ?", receiverID, senderID)
    return err
}

// Delete removes a message permanently.
func (r *MessageRepo) Delete(ctx context.Context, id string) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM messages WHERE id = ?", id)
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
