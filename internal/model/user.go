package model

import "time"

// Roles are numeric with lower values meaning more privilege.
// Administrative endpoints such as the audit trail require a role of at
// most RoleAdmin.  Regular users default to RoleUser.
const (
    RoleAdmin = 4
    RoleUser  = 10
)

// User is an account that can log in and book resources.  The password
// field holds a bcrypt hash and is never serialized in responses.
type User struct {
    ID          int64     `json:"id"`
    Email       string    `json:"email"`
    Password    string    `json:"-"`
    FullName    string    `json:"fullName"`
    DateOfBirth time.Time `json:"dateOfBirth"`
    Gender      string    `json:"gender"`
    Image       string    `json:"image,omitempty"`
    Role        int       `json:"role"`
}
