package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
    hash, err := HashPassword("s3cret!", 4)
    require.NoError(t, err)
    assert.NotEqual(t, "s3cret!", hash)

    assert.True(t, VerifyPassword(hash, "s3cret!"))
    assert.False(t, VerifyPassword(hash, "wrong"))
    assert.False(t, VerifyPassword("not-a-hash", "s3cret!"))
}

func TestNewRefreshToken(t *testing.T) {
    tok, err := NewRefreshToken(30)
    require.NoError(t, err)
    assert.Len(t, tok.Raw, 96)
    assert.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), tok.Exp, 2*time.Second)

    other, err := NewRefreshToken(30)
    require.NoError(t, err)
    assert.NotEqual(t, tok.Raw, other.Raw)
}

func TestHashRefreshRaw(t *testing.T) {
    h := HashRefreshRaw("some-raw-token")
    assert.Len(t, h, 64)
    assert.Equal(t, h, HashRefreshRaw("some-raw-token"))
    assert.NotEqual(t, h, HashRefreshRaw("another-raw-token"))
    // The stored form never equals the raw form.
    assert.NotEqual(t, "some-raw-token", h)
}

func TestNewAccessTokenClaims(t *testing.T) {
    tok, err := NewAccessToken("secret", 42, "user@campus.edu", 10, 15)
    require.NoError(t, err)
    assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), tok.Exp, 2*time.Second)

    parsed, err := jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) {
        return []byte("secret"), nil
    })
    require.NoError(t, err)
    require.True(t, parsed.Valid)

    claims := parsed.Claims.(jwt.MapClaims)
    assert.EqualValues(t, 42, claims["sub"])
    assert.Equal(t, "user@campus.edu", claims["email"])
    assert.EqualValues(t, 10, claims["role"])
}
