package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/go-sql-driver/mysql"

    "github.com/shahafg/RoomifyDemo/internal/model"
)

const userColumns = "id, email, password, full_name, date_of_birth, gender, image, role"

// UserRepo provides queries for user accounts.  Emails carry a unique
// key; a violation surfaces as ErrEmailExists.
type UserRepo struct {
    db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) scan(row interface{ Scan(...any) error }) (*model.User, error) {
    var u model.User
    var image sql.NullString
    err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &u.DateOfBirth, &u.Gender, &image, &u.Role)
    if err != nil {
        return nil, err
    }
    u.Image = image.String
    return &u, nil
}

// GetByID returns the user or ErrNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
    const q = "SELECT " + userColumns + " FROM users WHERE id = ?"
    u, err := r.scan(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    return u, err
}

// GetByEmail returns the user with the given email or ErrNotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
    const q = "SELECT " + userColumns + " FROM users WHERE email = ?"
    u, err := r.scan(r.db.QueryRowContext(ctx, q, email))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    return u, err
}

// ListAll returns every user ordered by id.  Password hashes ride along
// but are stripped by the model's json tags on the way out.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
    rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.User, 0)
    for rows.Next() {
        u, err := r.scan(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *u)
    }
    return out, rows.Err()
}

// MaxID returns the largest user id, or 0 for an empty table.
func (r *UserRepo) MaxID(ctx context.Context) (int64, error) {
    var max int64
    if err := r.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM users").Scan(&max); err != nil {
        return 0, err
    }
    return max, nil
}

// Insert persists a new user with its pre-allocated id.  The password
// must already be hashed.  A duplicate email is reported as
// ErrEmailExists.
func (r *UserRepo) Insert(ctx context.Context, u model.User) (*model.User, error) {
    const q = "INSERT INTO users (" + userColumns + ") VALUES (?,?,?,?,?,?,?,?)"
    _, err := r.db.ExecContext(ctx, q, u.ID, u.Email, u.Password, u.FullName, u.DateOfBirth, u.Gender, u.Image, u.Role)
    if err != nil {
        var me *mysql.MySQLError
        if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
            return nil, ErrEmailExists
        }
        return nil, err
    }
    return r.GetByID(ctx, u.ID)
}

// UpdateProfile replaces the mutable profile columns.  Email and
// password stay untouched.
func (r *UserRepo) UpdateProfile(ctx context.Context, u model.User) (*model.User, error) {
    const q = "UPDATE users SET full_name = ?, date_of_birth = ?, gender = ?, image = ?, role = ? WHERE id = ?"
    if _, err := r.db.ExecContext(ctx, q, u.FullName, u.DateOfBirth, u.Gender, u.Image, u.Role, u.ID); err != nil {
        return nil, err
    }
    return r.GetByID(ctx, u.ID)
}

// UpdatePassword replaces the stored hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
    res, err := r.db.ExecContext(ctx, "UPDATE users SET password = ? WHERE id = ?", hash, id)
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

// DeleteByEmail removes a user by email.
func (r *UserRepo) DeleteByEmail(ctx context.Context, email string) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE email = ?", email)
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

// Delete removes a user permanently.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
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
