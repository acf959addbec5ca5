package model

import "time"

// TicketAttachment describes a file attached to a support ticket.  Only
// metadata is stored; file contents live outside this service.
type TicketAttachment struct {
    Name string `json:"name"`
    Size int64  `json:"size"`
    Type string `json:"type"`
}

// Ticket is a facilities/support request raised by a user.  Category,
// priority and status are free-form strings matching the values the
// client presents (e.g. "maintenance", "high", "open").
type Ticket struct {
    ID          int64              `json:"id"`
    Title       string             `json:"title"`
    Description string             `json:"description"`
    Category    string             `json:"category"`
    Priority    string             `json:"priority"`
    Status      string             `json:"status"`
    CreatedBy   int64              `json:"createdBy"`
    AssignedTo  int64              `json:"assignedTo,omitempty"`
    Attachments []TicketAttachment `json:"attachments,omitempty"`
    CreatedAt   time.Time          `json:"createdAt"`
    UpdatedAt   time.Time          `json:"updatedAt"`
}
