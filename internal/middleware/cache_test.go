package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"

    "github.com/shahafg/RoomifyDemo/internal/config"
)

func cacheKeyFor(authHeader, target string) string {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, target, nil)
    if authHeader != "" {
        req.Header.Set("Authorization", authHeader)
    }
    c := e.NewContext(req, httptest.NewRecorder())
    return cacheKeyFrom(config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}, c)
}

// The cache runs before JWT validation, so entries must be confined to
// the credential that produced them or a protected response could be
// replayed to a different caller.
func TestCacheKeyVariesByCredential(t *testing.T) {
    admin := cacheKeyFor("Bearer admin-token", "/audit-logs")
    user := cacheKeyFor("Bearer user-token", "/audit-logs")
    anon := cacheKeyFor("", "/audit-logs")

    assert.NotEqual(t, admin, user)
    assert.NotEqual(t, admin, anon)
    assert.NotEqual(t, user, anon)

    // Same credential and target produce a stable key.
    assert.Equal(t, admin, cacheKeyFor("Bearer admin-token", "/audit-logs"))
}

func TestCacheKeyVariesByQuery(t *testing.T) {
    a := cacheKeyFor("Bearer tok", "/rooms?type=lab")
    b := cacheKeyFor("Bearer tok", "/rooms?type=lecture")
    assert.NotEqual(t, a, b)
}
