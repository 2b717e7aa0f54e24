package checkins

import (
	"fmt"
	"time"

	"harbor-backend/internal/scoring"
)

type userRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type submitResponse struct {
	Message string          `json:"message"`
	CheckIn submittedResult `json:"checkIn"`
}

type submittedResult struct {
	ID          string             `json:"id"`
	Assessment  scoring.Assessment `json:"assessment"`
	CompletedAt time.Time          `json:"completedAt"`
	User        *userRef           `json:"user"`
}

type followUpResponse struct {
	ReminderSent bool       `json:"reminderSent"`
	ReminderDate *time.Time `json:"reminderDate,omitempty"`
	Contacted    bool       `json:"contacted"`
	ContactDate  *time.Time `json:"contactDate,omitempty"`
}

// CheckInResponse is the full outward-facing representation of a check-in.
type CheckInResponse struct {
	ID string `json:"id"`
	scoring.QuestionnaireResponse
	Assessment  scoring.Assessment `json:"assessment"`
	CompletedAt time.Time          `json:"completedAt"`
	FollowUp    followUpResponse   `json:"followUp"`
}

type historyItem struct {
	ID          string             `json:"id"`
	Assessment  scoring.Assessment `json:"assessment"`
	CompletedAt time.Time          `json:"completedAt"`
	Age         string             `json:"age"`
	StressLevel string             `json:"stressLevel"`
}

type historyResponse struct {
	CheckIns   []historyItem `json:"checkIns"`
	Pagination Pagination    `json:"pagination"`
}

type progressItem struct {
	ID              string            `json:"id"`
	Score           int               `json:"score"`
	RiskLevel       scoring.RiskLevel `json:"riskLevel"`
	CompletedAt     time.Time         `json:"completedAt"`
	DepressionLevel string            `json:"depressionLevel"`
	AnxietyLevel    string            `json:"anxietyLevel"`
	StressLevel     string            `json:"stressLevel"`
}

type progressStatistics struct {
	scoring.Summary
	Period string `json:"period"`
}

type progressResponse struct {
	CheckIns   []progressItem     `json:"checkIns"`
	Statistics progressStatistics `json:"statistics"`
}

type analyticsTotals struct {
	TotalCheckIns      int    `json:"totalCheckIns"`
	HighRiskCheckIns   int    `json:"highRiskCheckIns"`
	HighRiskPercentage int    `json:"highRiskPercentage"`
	Period             string `json:"period"`
}

type analyticsResponse struct {
	Analytics []RiskStat      `json:"analytics"`
	Summary   analyticsTotals `json:"summary"`
}

func period(days int) string {
	return fmt.Sprintf("%d days", days)
}

func toResponse(c CheckIn) CheckInResponse {
	return CheckInResponse{
		ID:                    c.ID,
		QuestionnaireResponse: c.Response,
		Assessment:            c.Assessment,
		CompletedAt:           c.CompletedAt,
		FollowUp: followUpResponse{
			ReminderSent: c.FollowUp.ReminderSent,
			ReminderDate: c.FollowUp.ReminderDate,
			Contacted:    c.FollowUp.Contacted,
			ContactDate:  c.FollowUp.ContactDate,
		},
	}
}

func toHistory(page HistoryPage) historyResponse {
	items := make([]historyItem, 0, len(page.CheckIns))
	for _, c := range page.CheckIns {
		items = append(items, historyItem{
			ID:          c.ID,
			Assessment:  c.Assessment,
			CompletedAt: c.CompletedAt,
			Age:         c.Response.Demographics.Age,
			StressLevel: c.Response.LifeCircumstances.StressLevel,
		})
	}
	return historyResponse{CheckIns: items, Pagination: page.Pagination}
}

func toProgress(p Progress) progressResponse {
	items := make([]progressItem, 0, len(p.CheckIns))
	for _, c := range p.CheckIns {
		items = append(items, progressItem{
			ID:              c.ID,
			Score:           c.Assessment.Score,
			RiskLevel:       c.Assessment.RiskLevel,
			CompletedAt:     c.CompletedAt,
			DepressionLevel: c.Response.MentalHealth.DepressionLevel,
			AnxietyLevel:    c.Response.MentalHealth.AnxietyLevel,
			StressLevel:     c.Response.LifeCircumstances.StressLevel,
		})
	}
	return progressResponse{
		CheckIns:   items,
		Statistics: progressStatistics{Summary: p.Statistics, Period: period(p.Days)},
	}
}

func toAnalytics(s AnalyticsSummary) analyticsResponse {
	return analyticsResponse{
		Analytics: s.Analytics,
		Summary: analyticsTotals{
			TotalCheckIns:      s.TotalCheckIns,
			HighRiskCheckIns:   s.HighRiskCheckIns,
			HighRiskPercentage: s.HighRiskPercentage,
			Period:             period(s.Days),
		},
	}
}
