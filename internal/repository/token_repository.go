package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"
)

// TokenRepo persists refresh token hashes.  Only SHA-256 hashes are
// stored; the raw token never touches the database.
type TokenRepo struct {
    db *sql.DB
}

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// StoreRefresh records a refresh token hash for a user.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID int64, tokenHash string, exp time.Time) error {
    _, err := r.db.ExecContext(ctx,
        "INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
        userID, tokenHash, exp)
    return err
}

// ValidateRefresh returns the owning user id when a non-revoked,
// non-expired token with the given hash exists, and ErrNotFound in
// every other case.  Expired and revoked tokens are indistinguishable
// from unknown ones on purpose.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (int64, error) {
    var (
        userID    int64
        expiresAt time.Time
        revokedAt sql.NullTime
    )
    err := r.db.QueryRowContext(ctx,
        "SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = ? LIMIT 1",
        tokenHash).Scan(&userID, &expiresAt, &revokedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return 0, ErrNotFound
    }
    if err != nil {
        return 0, err
    }
    if revokedAt.Valid || time.Now().UTC().After(expiresAt) {
        return 0, ErrNotFound
    }
    return userID, nil
}

// RevokeByHash marks one token as revoked.  Revoking an unknown or
// already revoked token is a no-op.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
    _, err := r.db.ExecContext(ctx,
        "UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE token_hash = ? AND revoked_at IS NULL",
        tokenHash)
    return err
}

// RevokeAllForUser revokes every active token a user holds, ending all
// of their sessions at once.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID int64) error {
    _, err := r.db.ExecContext(ctx,
        "UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE user_id = ? AND revoked_at IS NULL",
        userID)
    return err
}
