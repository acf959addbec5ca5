package utils

import (
    "crypto/rand"
    "crypto/sha256"
    "encoding/hex"
    "time"
)

// RefreshToken is a long-lived opaque token used to obtain new access
// tokens.  Raw is the random string returned to the client; only its
// SHA-256 hash is ever stored, so a leaked database row cannot be
// replayed as a session.
type RefreshToken struct {
    Raw string
    Exp time.Time
}

// NewRefreshToken returns a cryptographically random refresh token
// valid for ttlDays days.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
    raw, err := randomHex(48)
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{
        Raw: raw,
        Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
    }, nil
}

// HashRefreshRaw returns the hex SHA-256 digest of a raw refresh token,
// the form in which tokens are persisted and looked up.
func HashRefreshRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
