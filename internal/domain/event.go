package domain

import "time"

type ActionKind string

const (
	ActionRegistered ActionKind = "registered"
	ActionLoggedIn   ActionKind = "logged_in"
)

// Event is an append-only ledger entry referencing a user. Events are never
// mutated or deleted; the login-count statistic is derived from them.
type Event struct {
	UserID    int64
	Action    ActionKind
	CreatedAt time.Time
}
