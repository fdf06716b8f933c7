package queue

import "context"

// Publisher emits auth events to a broker. Publishing is best-effort; the
// login-count statistic is always derived from the persisted ledger, never
// from broker state.
type Publisher interface {
	Publish(ctx context.Context, key string, event any, reqID string) error
	Close() error
}

type NoopPub struct{}

func NewNoop() Publisher { return NoopPub{} }

func (NoopPub) Publish(ctx context.Context, key string, event any, reqID string) error {
	return nil
}
func (NoopPub) Close() error { return nil }

type UserRegistered struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type UserLoggedIn struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}
