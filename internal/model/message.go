package model

import "time"

// Message is a direct message between two users.  Messages are the one
// collection keyed by string (UUID) rather than a numeric sequence.
type Message struct {
    ID         string    `json:"id"`
    SenderID   string    `json:"senderId"`
    ReceiverID string    `json:"receiverId"`
    Content    string    `json:"content"`
    Timestamp  time.Time `json:"timestamp"`
    Read       bool      `json:"read"`
}
