package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/shahafg/RoomifyDemo/internal/config"
    "github.com/shahafg/RoomifyDemo/internal/model"
    "github.com/shahafg/RoomifyDemo/internal/repository"
    "github.com/shahafg/RoomifyDemo/internal/utils"
)

// UserHandler serves registration, login, token refresh and user
// management routes.
type UserHandler struct {
    Cfg    config.Config
    Users  *repository.UserRepo
    Tokens *repository.TokenRepo
}

func NewUserHandler(cfg config.Config, users *repository.UserRepo, tokens *repository.TokenRepo) *UserHandler {
    if users == nil || tokens == nil {
        panic("nil repository passed to NewUserHandler")
    }
    return &UserHandler{Cfg: cfg, Users: users, Tokens: tokens}
}

type registerReq struct {
    Email       string `json:"email" validate:"required,email"`
    Password    string `json:"password" validate:"required,min=6"`
    FullName    string `json:"fullName" validate:"required"`
    DateOfBirth string `json:"dateOfBirth"`
    Gender      string `json:"gender"`
    Image       string `json:"image"`
    Role        int    `json:"role"`
}

type loginReq struct {
    Email    string `json:"email" validate:"required,email"`
    Password string `json:"password" validate:"required"`
}

type refreshReq struct {
    RefreshToken string `json:"refreshToken" validate:"required"`
}

type updateUserReq struct {
    FullName    *string `json:"fullName"`
    DateOfBirth *string `json:"dateOfBirth"`
    Gender      *string `json:"gender"`
    Image       *string `json:"image"`
    Role        *int    `json:"role"`
}

func (h *UserHandler) createUser(ctx context.Context, req registerReq) (*model.User, error) {
    email := strings.ToLower(strings.TrimSpace(req.Email))
    hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
    if err != nil {
        return nil, err
    }
    role := req.Role
    if role == 0 {
        role = model.RoleUser
    }
    dob := time.Time{}
    if req.DateOfBirth != "" {
        if dob, err = parseDate(req.DateOfBirth); err != nil {
            return nil, errors.New("invalid date of birth")
        }
    }
    maxID, err := h.Users.MaxID(ctx)
    if err != nil {
        return nil, err
    }
    return h.Users.Insert(ctx, model.User{
        ID:          maxID + 1,
        Email:       email,
        Password:    hash,
        FullName:    req.FullName,
        DateOfBirth: dob,
        Gender:      req.Gender,
        Image:       req.Image,
        Role:        role,
    })
}

// Register handles POST /users/register.
func (h *UserHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    created, err := h.createUser(c.Request().Context(), req)
    if err != nil {
        if errors.Is(err, repository.ErrEmailExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
    }

    auditEvent(c, "CREATE", "USER", formatID(created.ID),
        "User registered", nil, created, true, severityFor("CREATE"))
    return c.JSON(http.StatusCreated, created)
}

// BulkRegister handles POST /users/bulk-register.  Each entry is created
// independently; failures are reported per email without aborting the
// rest of the batch.
func (h *UserHandler) BulkRegister(c echo.Context) error {
    var reqs []registerReq
    if err := c.Bind(&reqs); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if len(reqs) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "empty user list"})
    }

    type failure struct {
        Email string `json:"email"`
        Error string `json:"error"`
    }
    created := make([]model.User, 0, len(reqs))
    failed := make([]failure, 0)
    for _, req := range reqs {
        if req.Email == "" || req.Password == "" || req.FullName == "" {
            failed = append(failed, failure{Email: req.Email, Error: "email, password and fullName are required"})
            continue
        }
        u, err := h.createUser(c.Request().Context(), req)
        if err != nil {
            msg := "create user failed"
            if errors.Is(err, repository.ErrEmailExists) {
                msg = "email already exists"
            }
            failed = append(failed, failure{Email: req.Email, Error: msg})
            continue
        }
        created = append(created, *u)
    }

    auditEvent(c, "CREATE", "USER", "",
        "Bulk user registration", nil, echo.Map{"created": len(created), "failed": len(failed)},
        len(failed) == 0, severityFor("CREATE"))
    return c.JSON(http.StatusCreated, echo.Map{"created": created, "failed": failed})
}

// Login handles POST /users/login and returns a signed access token.
func (h *UserHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    email := strings.ToLower(strings.TrimSpace(req.Email))

    u, err := h.Users.GetByEmail(c.Request().Context(), email)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if !utils.VerifyPassword(u.Password, req.Password) {
        auditEvent(c, "LOGIN", "USER", formatID(u.ID),
            "Failed login attempt", nil, nil, false, model.SeverityHigh)
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }

    resp, err := h.issueTokens(c.Request().Context(), u)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
    }
    resp["user"] = u

    auditEvent(c, "LOGIN", "USER", formatID(u.ID),
        "User logged in", nil, nil, true, model.SeverityLow)
    return c.JSON(http.StatusOK, resp)
}

// issueTokens mints an access/refresh pair for the user and stores the
// refresh token's hash.  The raw refresh token goes back to the client
// exactly once.
func (h *UserHandler) issueTokens(ctx context.Context, u *model.User) (echo.Map, error) {
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Role, h.Cfg.AccessTTLMin)
    if err != nil {
        return nil, err
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return nil, err
    }
    if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return nil, err
    }
    return echo.Map{
        "token":          access.Token,
        "expires":        access.Exp,
        "refreshToken":   refresh.Raw,
        "refreshExpires": refresh.Exp,
    }, nil
}

// Refresh handles POST /users/refresh.  The presented token is
// validated by hash, revoked, and replaced: every refresh rotates the
// token, so a stolen one stops working the moment its owner uses it.
func (h *UserHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

    ctx := c.Request().Context()
    userID, err := h.Tokens.ValidateRefresh(ctx, hash)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    u, err := h.Users.GetByID(ctx, userID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    resp, err := h.issueTokens(ctx, u)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
    }
    return c.JSON(http.StatusOK, resp)
}

// Logout handles POST /users/logout.  With a refreshToken in the body
// only that session ends; without one every refresh token the user
// holds is revoked.
func (h *UserHandler) Logout(c echo.Context) error {
    var req struct {
        RefreshToken string `json:"refreshToken"`
    }
    _ = c.Bind(&req)

    ctx := c.Request().Context()
    if raw := strings.TrimSpace(req.RefreshToken); raw != "" {
        if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(raw)); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
        }
    } else if err := h.Tokens.RevokeAllForUser(ctx, getUserID(c)); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "LOGOUT", "USER", formatID(getUserID(c)),
        "User logged out", nil, nil, true, model.SeverityLow)
    return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// List handles GET /users.
func (h *UserHandler) List(c echo.Context) error {
    items, err := h.Users.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    u, err := h.Users.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, u)
}

// Update handles PUT /users/:id.  Email and password never change here.
func (h *UserHandler) Update(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req updateUserReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    ctx := c.Request().Context()
    u, err := h.Users.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    next := *u
    if req.FullName != nil {
        next.FullName = *req.FullName
    }
    if req.DateOfBirth != nil {
        dob, err := parseDate(*req.DateOfBirth)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date of birth"})
        }
        next.DateOfBirth = dob
    }
    if req.Gender != nil {
        next.Gender = *req.Gender
    }
    if req.Image != nil {
        next.Image = *req.Image
    }
    if req.Role != nil {
        next.Role = *req.Role
    }

    updated, err := h.Users.UpdateProfile(ctx, next)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "UPDATE", "USER", formatID(id),
        "User profile updated", u, updated, true, severityFor("UPDATE"))
    return c.JSON(http.StatusOK, updated)
}

// DeleteByEmail handles DELETE /users/:email.
func (h *UserHandler) DeleteByEmail(c echo.Context) error {
    email := strings.ToLower(strings.TrimSpace(c.Param("email")))
    if email == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
    }
    if err := h.Users.DeleteByEmail(c.Request().Context(), email); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "DELETE", "USER", email,
        "User deleted", nil, nil, true, severityFor("DELETE"))
    return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
