package model

import "time"

// Audit severities, ordered from routine to alarming.
const (
    SeverityLow      = "LOW"
    SeverityMedium   = "MEDIUM"
    SeverityHigh     = "HIGH"
    SeverityCritical = "CRITICAL"
)

// AuditLog is one entry in the administrative audit trail.  Entries are
// written by a background consumer fed from the message queue so that
// audit persistence can never delay or fail a user-facing operation.
//
// Fields:
//  ID           – collection-unique identifier (max+1 allocation).
//  Timestamp    – when the audited action happened.
//  Action       – "CREATE", "UPDATE", "DELETE", "LOGIN", ...
//  Entity       – "BOOKING", "ROOM", "USER", "MAINTENANCE", ...
//  EntityID     – id of the affected record, as a string.
//  UserID       – who performed the action, when known.
//  UserEmail    – email snapshot at the time of the action.
//  UserRole     – numeric role at the time of the action.
//  IPAddress    – client address taken from the request.
//  UserAgent    – client software taken from the request.
//  Details      – human-readable description of the change.
//  OldValues    – JSON snapshot of the record before the change.
//  NewValues    – JSON snapshot of the record after the change.
//  Success      – whether the audited action succeeded.
//  ErrorMessage – failure reason when Success is false.
//  Severity     – one of the severity constants above.
type AuditLog struct {
    ID           int64     `json:"id"`
    Timestamp    time.Time `json:"timestamp"`
    Action       string    `json:"action"`
    Entity       string    `json:"entity"`
    EntityID     string    `json:"entityId,omitempty"`
    UserID       int64     `json:"userId,omitempty"`
    UserEmail    string    `json:"userEmail,omitempty"`
    UserRole     int       `json:"userRole,omitempty"`
    IPAddress    string    `json:"ipAddress,omitempty"`
    UserAgent    string    `json:"userAgent,omitempty"`
    Details      string    `json:"details"`
    OldValues    string    `json:"oldValues,omitempty"`
    NewValues    string    `json:"newValues,omitempty"`
    Success      bool      `json:"success"`
    ErrorMessage string    `json:"errorMessage,omitempty"`
    Severity     string    `json:"severity"`
}
