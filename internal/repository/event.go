package repository

import (
	"context"

	"nexus-auth/internal/domain"
)

// EventRepository appends to and reads the session/login ledger.
type EventRepository interface {
	Init(ctx context.Context) error
	Append(ctx context.Context, event *domain.Event) error
	CountByUserAction(ctx context.Context, userID int64, action domain.ActionKind) (int64, error)
}
