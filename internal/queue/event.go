// Package queue defines message payloads exchanged over the message broker
// plus the publisher and background consumer for account events.
package queue

// AccountRegisteredEvent is published when a signup completes.  It contains
// enough information for downstream consumers (welcome mail, analytics) to
// act without querying the primary database.
type AccountRegisteredEvent struct {
    UserID       uint64 `json:"user_id"`
    Email        string `json:"email"`
    Username     string `json:"username"`
    RegisteredAt string `json:"registered_at"`
}
