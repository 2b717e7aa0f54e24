package checkins

import (
	"context"
	"sort"
	"sync"
	"time"

	"harbor-backend/internal/scoring"
)

// MemoryRepo is an in-memory implementation for local development and tests.
type MemoryRepo struct {
	mu       sync.RWMutex
	checkIns map[string]CheckIn
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{checkIns: make(map[string]CheckIn)}
}

func (r *MemoryRepo) Create(ctx context.Context, checkIn CheckIn) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkIns[checkIn.ID] = checkIn
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (CheckIn, error) {
	if err := ctx.Err(); err != nil {
		return CheckIn{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	checkIn, ok := r.checkIns[id]
	if !ok {
		return CheckIn{}, ErrNotFound
	}
	return checkIn, nil
}

// byUser returns the user's check-ins newest first. Callers hold the read lock.
func (r *MemoryRepo) byUser(userID string) []CheckIn {
	var out []CheckIn
	for _, c := range r.checkIns {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CompletedAt.Equal(out[j].CompletedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]CheckIn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 || limit < 0 {
		return nil, ErrInvalidInput
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.byUser(userID)
	if offset >= len(all) {
		return []CheckIn{}, nil
	}
	end := len(all)
	if limit < end-offset {
		end = offset + limit
	}
	return all[offset:end], nil
}

func (r *MemoryRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser(userID)), nil
}

func (r *MemoryRepo) LatestByUser(ctx context.Context, userID string) (CheckIn, error) {
	if err := ctx.Err(); err != nil {
		return CheckIn{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.byUser(userID)
	if len(all) == 0 {
		return CheckIn{}, ErrNotFound
	}
	return all[0], nil
}

func (r *MemoryRepo) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]CheckIn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.byUser(userID)
	out := make([]CheckIn, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if !all[i].CompletedAt.Before(since) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	checkIn, ok := r.checkIns[id]
	if !ok || checkIn.UserID != userID {
		return ErrNotFound
	}
	delete(r.checkIns, id)
	return nil
}

func (r *MemoryRepo) RiskStatsSince(ctx context.Context, since time.Time) ([]RiskStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[scoring.RiskLevel]int)
	totals := make(map[scoring.RiskLevel]int)
	for _, c := range r.checkIns {
		if c.CompletedAt.Before(since) {
			continue
		}
		counts[c.Assessment.RiskLevel]++
		totals[c.Assessment.RiskLevel] += c.Assessment.Score
	}
	out := make([]RiskStat, 0, len(counts))
	for level, n := range counts {
		out = append(out, RiskStat{
			RiskLevel:    level,
			Count:        n,
			AverageScore: float64(totals[level]) / float64(n),
		})
	}
	return out, nil
}

func (r *MemoryRepo) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	checkIn, ok := r.checkIns[id]
	if !ok {
		return ErrNotFound
	}
	checkIn.FollowUp.ReminderSent = true
	checkIn.FollowUp.ReminderDate = &at
	r.checkIns[id] = checkIn
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
