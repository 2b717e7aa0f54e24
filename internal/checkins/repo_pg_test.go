package checkins

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"harbor-backend/internal/scoring"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

var checkInColumnNames = []string{
	"id", "user_id", "guest_id", "response", "score", "risk_level", "recommendations", "completed_at",
	"ip_address", "user_agent", "session_id", "reminder_sent", "reminder_date", "contacted", "contact_date", "follow_up_notes",
}

func TestPGRepoCreateStoresAnonymousAsNull(t *testing.T) {
	repo, mock := newMockRepo(t)
	checkIn := CheckIn{
		ID:          "checkin-1",
		GuestID:     "browser-1",
		Response:    lowRiskAnswers().Response(),
		Assessment:  scoring.Compute(lowRiskAnswers().Response()),
		CompletedAt: time.Now().UTC(),
		SessionID:   "anonymous",
	}

	mock.ExpectExec("INSERT INTO checkins").
		WithArgs(
			checkIn.ID,
			nil, // user_id
			"browser-1",
			sqlmock.AnyArg(), // response
			0,
			"Low Risk",
			sqlmock.AnyArg(), // recommendations
			checkIn.CompletedAt,
			nil,
			nil,
			"anonymous",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), checkIn); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDDecodesJSONB(t *testing.T) {
	repo, mock := newMockRepo(t)
	resp := crisisAnswers().Response()
	assessment := scoring.Compute(resp)
	responseJSON, _ := json.Marshal(resp)
	recsJSON, _ := json.Marshal(assessment.Recommendations)
	completed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	reminded := completed.Add(time.Hour)

	rows := sqlmock.NewRows(checkInColumnNames).AddRow(
		"checkin-1", "user-1", nil, responseJSON, assessment.Score, string(assessment.RiskLevel), recsJSON, completed,
		"10.0.0.1", "curl", "anonymous", true, reminded, false, nil, "called",
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM checkins WHERE id = $1 LIMIT 1")).
		WithArgs("checkin-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "checkin-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.UserID != "user-1" || got.GuestID != "" {
		t.Fatalf("unexpected owner: %+v", got)
	}
	if got.Assessment.RiskLevel != scoring.RiskCrisis || len(got.Assessment.Recommendations) != len(assessment.Recommendations) {
		t.Fatalf("unexpected assessment: %+v", got.Assessment)
	}
	if got.Response.RiskAssessment.SuicidalThoughts != "Always" {
		t.Fatalf("response not decoded: %+v", got.Response)
	}
	if !got.FollowUp.ReminderSent || got.FollowUp.ReminderDate == nil || !got.FollowUp.ReminderDate.Equal(reminded) {
		t.Fatalf("unexpected follow-up: %+v", got.FollowUp)
	}
	if got.FollowUp.ContactDate != nil || got.FollowUp.Notes != "called" {
		t.Fatalf("unexpected follow-up: %+v", got.FollowUp)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM checkins WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(checkInColumnNames))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDeleteScopedToOwner(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM checkins WHERE id = $1 AND user_id = $2")).
		WithArgs("checkin-1", "user-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "user-2", "checkin-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoRiskStatsSince(t *testing.T) {
	repo, mock := newMockRepo(t)
	since := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("GROUP BY risk_level").
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"risk_level", "count", "avg"}).
			AddRow("Low Risk", 3, 4.333).
			AddRow("Crisis", 1, 100.0))

	stats, err := repo.RiskStatsSince(context.Background(), since)
	if err != nil {
		t.Fatalf("RiskStatsSince: %v", err)
	}
	if len(stats) != 2 || stats[1].RiskLevel != scoring.RiskCrisis || stats[0].Count != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestPGRepoMarkReminderSent(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Now().UTC()
	mock.ExpectExec("UPDATE checkins SET reminder_sent").
		WithArgs("checkin-1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkReminderSent(context.Background(), "checkin-1", at); err != nil {
		t.Fatalf("MarkReminderSent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
