package checkins

import (
	"context"
	"time"
)

// Repo defines persistence operations for check-ins.
type Repo interface {
	Create(ctx context.Context, checkIn CheckIn) error
	GetByID(ctx context.Context, id string) (CheckIn, error)
	// ListByUser returns one page, newest first.
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]CheckIn, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	LatestByUser(ctx context.Context, userID string) (CheckIn, error)
	// ListByUserSince returns check-ins completed at or after since, oldest first.
	ListByUserSince(ctx context.Context, userID string, since time.Time) ([]CheckIn, error)
	// Delete removes the check-in only when userID owns it.
	Delete(ctx context.Context, userID, id string) error
	RiskStatsSince(ctx context.Context, since time.Time) ([]RiskStat, error)
	MarkReminderSent(ctx context.Context, id string, at time.Time) error
}
