package checkins

import (
	"time"

	"harbor-backend/internal/scoring"
)

// FollowUp tracks outreach after a high-risk submission.
type FollowUp struct {
	ReminderSent bool       `bson:"reminderSent"`
	ReminderDate *time.Time `bson:"reminderDate,omitempty"`
	Contacted    bool       `bson:"contacted"`
	ContactDate  *time.Time `bson:"contactDate,omitempty"`
	Notes        string     `bson:"notes,omitempty"`
}

// CheckIn is one submitted questionnaire with its derived assessment.
// UserID is empty for anonymous submissions.
type CheckIn struct {
	ID          string                        `bson:"_id"`
	UserID      string                        `bson:"userId,omitempty"`
	GuestID     string                        `bson:"guestId,omitempty"`
	Response    scoring.QuestionnaireResponse `bson:"response"`
	Assessment  scoring.Assessment            `bson:"assessment"`
	CompletedAt time.Time                     `bson:"completedAt"`
	IPAddress   string                        `bson:"ipAddress,omitempty"`
	UserAgent   string                        `bson:"userAgent,omitempty"`
	SessionID   string                        `bson:"sessionId,omitempty"`
	FollowUp    FollowUp                      `bson:"followUp"`
}

// RiskStat aggregates check-ins sharing a risk level.
type RiskStat struct {
	RiskLevel    scoring.RiskLevel `json:"riskLevel" bson:"_id"`
	Count        int               `json:"count" bson:"count"`
	AverageScore float64           `json:"averageScore" bson:"averageScore"`
}

// Pagination describes one page of a user's history.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalResults int  `json:"totalResults"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
	Limit        int  `json:"limit"`
}

type HistoryPage struct {
	CheckIns   []CheckIn
	Pagination Pagination
}

type Progress struct {
	CheckIns   []CheckIn
	Statistics scoring.Summary
	Days       int
}

// AnalyticsSummary is the admin view of recent submissions.
type AnalyticsSummary struct {
	Analytics          []RiskStat `json:"analytics"`
	TotalCheckIns      int        `json:"totalCheckIns"`
	HighRiskCheckIns   int        `json:"highRiskCheckIns"`
	HighRiskPercentage int        `json:"highRiskPercentage"`
	Days               int        `json:"days"`
}
