package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/shahafg/RoomifyDemo/internal/model"
    "github.com/shahafg/RoomifyDemo/internal/utils"
)

const testSecret = "test-secret"

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    if authHeader != "" {
        req.Header.Set("Authorization", authHeader)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    handler := mw(func(c echo.Context) error {
        return c.NoContent(http.StatusOK)
    })
    require.NoError(t, handler(c))
    return rec, c
}

func TestJWTAuthValidToken(t *testing.T) {
    tok, err := utils.NewAccessToken(testSecret, 42, "user@campus.edu", model.RoleUser, 15)
    require.NoError(t, err)

    rec, c := doRequest(t, JWTAuth(testSecret), "Bearer "+tok.Token)
    assert.Equal(t, http.StatusOK, rec.Code)

    // Claims land in the context as concrete Go types.
    assert.Equal(t, int64(42), c.Get("user_id"))
    assert.Equal(t, "user@campus.edu", c.Get("email"))
    assert.Equal(t, model.RoleUser, c.Get("role"))
}

func TestJWTAuthMissingHeader(t *testing.T) {
    rec, _ := doRequest(t, JWTAuth(testSecret), "")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
    tok, err := utils.NewAccessToken("other-secret", 42, "user@campus.edu", model.RoleUser, 15)
    require.NoError(t, err)

    rec, _ := doRequest(t, JWTAuth(testSecret), "Bearer "+tok.Token)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthGarbageToken(t *testing.T) {
    rec, _ := doRequest(t, JWTAuth(testSecret), "Bearer not.a.jwt")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
    tok, err := utils.NewAccessToken(testSecret, 42, "user@campus.edu", model.RoleUser, -1)
    require.NoError(t, err)

    rec, _ := doRequest(t, JWTAuth(testSecret), "Bearer "+tok.Token)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func roleRequest(t *testing.T, mw echo.MiddlewareFunc, role any) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    if role != nil {
        c.Set("role", role)
    }
    handler := mw(func(c echo.Context) error {
        return c.NoContent(http.StatusOK)
    })
    require.NoError(t, handler(c))
    return rec
}

func TestRequireMaxRole(t *testing.T) {
    // Lower numeric role means more privilege, so an admin passes a
    // user-level ceiling but not the other way around.
    assert.Equal(t, http.StatusOK, roleRequest(t, RequireMaxRole(model.RoleUser), model.RoleAdmin).Code)
    assert.Equal(t, http.StatusOK, roleRequest(t, RequireMaxRole(model.RoleUser), model.RoleUser).Code)
    assert.Equal(t, http.StatusForbidden, roleRequest(t, RequireMaxRole(model.RoleAdmin), model.RoleUser).Code)
}

func TestRequireAdminWithoutRoleClaim(t *testing.T) {
    assert.Equal(t, http.StatusForbidden, roleRequest(t, RequireAdmin(), nil).Code)
}
