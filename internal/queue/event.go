// Package queue defines message payloads exchanged over the message broker.
package queue

// AuditQueueName is the durable queue carrying audit events from the
// HTTP handlers to the background consumer.
const AuditQueueName = "audit.events"

// AuditEvent is published after every audited action.  It carries the
// full audit record so the consumer can persist it without querying the
// primary database.
type AuditEvent struct {
    Timestamp    string `json:"timestamp"`
    Action       string `json:"action"`
    Entity       string `json:"entity"`
    EntityID     string `json:"entity_id,omitempty"`
    UserID       int64  `json:"user_id,omitempty"`
    UserEmail    string `json:"user_email,omitempty"`
    UserRole     int    `json:"user_role,omitempty"`
    IPAddress    string `json:"ip_address,omitempty"`
    UserAgent    string `json:"user_agent,omitempty"`
    Details      string `json:"details"`
    OldValues    string `json:"old_values,omitempty"`
    NewValues    string `json:"new_values,omitempty"`
    Success      bool   `json:"success"`
    ErrorMessage string `json:"error_message,omitempty"`
    Severity     string `json:"severity"`
}
