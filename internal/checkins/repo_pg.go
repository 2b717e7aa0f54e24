package checkins

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"harbor-backend/internal/scoring"
)

// PGRepo implements Repo using Postgres. Answers and recommendations are stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

const checkInColumns = `id, user_id, guest_id, response, score, risk_level, recommendations, completed_at,
ip_address, user_agent, session_id, reminder_sent, reminder_date, contacted, contact_date, follow_up_notes`

// Create inserts a new check-in.
func (r *PGRepo) Create(ctx context.Context, c CheckIn) error {
	const query = `
INSERT INTO checkins (
    id,
    user_id,
    guest_id,
    response,
    score,
    risk_level,
    recommendations,
    completed_at,
    ip_address,
    user_agent,
    session_id
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	response, err := json.Marshal(c.Response)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	recommendations, err := json.Marshal(c.Assessment.Recommendations)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, query,
		c.ID,
		nullableString(c.UserID),
		nullableString(c.GuestID),
		response,
		c.Assessment.Score,
		string(c.Assessment.RiskLevel),
		recommendations,
		c.CompletedAt,
		nullableString(c.IPAddress),
		nullableString(c.UserAgent),
		nullableString(c.SessionID),
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (CheckIn, error) {
	query := `SELECT ` + checkInColumns + ` FROM checkins WHERE id = $1 LIMIT 1`
	c, err := scanCheckIn(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return CheckIn{}, ErrNotFound
	}
	return c, err
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]CheckIn, error) {
	query := `SELECT ` + checkInColumns + `
FROM checkins
WHERE user_id = $1
ORDER BY completed_at DESC, id DESC
OFFSET $2
LIMIT $3`
	return r.list(ctx, query, userID, offset, limit)
}

func (r *PGRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM checkins WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *PGRepo) LatestByUser(ctx context.Context, userID string) (CheckIn, error) {
	query := `SELECT ` + checkInColumns + `
FROM checkins
WHERE user_id = $1
ORDER BY completed_at DESC, id DESC
LIMIT 1`
	c, err := scanCheckIn(r.DB.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return CheckIn{}, ErrNotFound
	}
	return c, err
}

func (r *PGRepo) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]CheckIn, error) {
	query := `SELECT ` + checkInColumns + `
FROM checkins
WHERE user_id = $1 AND completed_at >= $2
ORDER BY completed_at ASC, id ASC`
	return r.list(ctx, query, userID, since)
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM checkins WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) RiskStatsSince(ctx context.Context, since time.Time) ([]RiskStat, error) {
	const query = `
SELECT risk_level, COUNT(*), AVG(score)::float8
FROM checkins
WHERE completed_at >= $1
GROUP BY risk_level`
	rows, err := r.DB.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RiskStat
	for rows.Next() {
		var st RiskStat
		var level string
		if err := rows.Scan(&level, &st.Count, &st.AverageScore); err != nil {
			return nil, err
		}
		st.RiskLevel = scoring.RiskLevel(level)
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *PGRepo) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE checkins SET reminder_sent = TRUE, reminder_date = $2 WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) list(ctx context.Context, query string, args ...any) ([]CheckIn, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CheckIn{}
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheckIn(row rowScanner) (CheckIn, error) {
	var (
		c               CheckIn
		userID          sql.NullString
		guestID         sql.NullString
		response        []byte
		riskLevel       string
		recommendations []byte
		ipAddress       sql.NullString
		userAgent       sql.NullString
		sessionID       sql.NullString
		reminderDate    sql.NullTime
		contactDate     sql.NullTime
		notes           sql.NullString
	)
	err := row.Scan(
		&c.ID,
		&userID,
		&guestID,
		&response,
		&c.Assessment.Score,
		&riskLevel,
		&recommendations,
		&c.CompletedAt,
		&ipAddress,
		&userAgent,
		&sessionID,
		&c.FollowUp.ReminderSent,
		&reminderDate,
		&c.FollowUp.Contacted,
		&contactDate,
		&notes,
	)
	if err != nil {
		return CheckIn{}, err
	}
	if err := json.Unmarshal(response, &c.Response); err != nil {
		return CheckIn{}, fmt.Errorf("decode response: %w", err)
	}
	if len(recommendations) > 0 {
		if err := json.Unmarshal(recommendations, &c.Assessment.Recommendations); err != nil {
			return CheckIn{}, fmt.Errorf("decode recommendations: %w", err)
		}
	}
	c.Assessment.RiskLevel = scoring.RiskLevel(riskLevel)
	c.UserID = userID.String
	c.GuestID = guestID.String
	c.IPAddress = ipAddress.String
	c.UserAgent = userAgent.String
	c.SessionID = sessionID.String
	c.FollowUp.Notes = notes.String
	if reminderDate.Valid {
		t := reminderDate.Time
		c.FollowUp.ReminderDate = &t
	}
	if contactDate.Valid {
		t := contactDate.Time
		c.FollowUp.ContactDate = &t
	}
	return c, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
