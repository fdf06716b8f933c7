package domain

import "time"

type PlanTier string

const (
	PlanStarter    PlanTier = "starter"
	PlanPro        PlanTier = "pro"
	PlanEnterprise PlanTier = "enterprise"
)

// User represents a registered account. Email is unique across all users;
// the identifier is assigned by the store and never changes.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Plan         PlanTier
	CreatedAt    time.Time
}
