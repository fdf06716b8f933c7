package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nexus-auth/internal/domain"
	"nexus-auth/internal/repository"
)

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	action TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_user_id ON events(user_id);
`

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createEventsTable); err != nil {
		return fmt.Errorf("create events table: %w", err)
	}
	return nil
}

func (r *EventRepository) Append(ctx context.Context, event *domain.Event) error {
	event.CreatedAt = time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO events (user_id, action, created_at)
VALUES (?, ?, ?)`,
		event.UserID,
		string(event.Action),
		event.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) CountByUserAction(ctx context.Context, userID int64, action domain.ActionKind) (int64, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM events
WHERE user_id = ? AND action = ?`,
		userID,
		string(action),
	)
	var n int64
	if err := row.Scan(&n); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

var _ repository.EventRepository = (*EventRepository)(nil)
