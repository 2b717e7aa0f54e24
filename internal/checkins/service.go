package checkins

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"harbor-backend/internal/alerts"
	"harbor-backend/internal/scoring"
	"harbor-backend/internal/shared/cache"
	"harbor-backend/internal/shared/metrics"
	"harbor-backend/internal/shared/telemetry"
)

const (
	defaultPage        = 1
	defaultLimit       = 10
	maxLimit           = 100
	maxPage            = 1_000_000
	defaultDays        = 30
	maxDays            = 365
	summaryCachePrefix = "analytics:summary:"
	summaryCacheTTL    = time.Minute
	anonymousSessionID = "anonymous"
)

// Service owns check-in submission, retrieval and aggregation.
type Service struct {
	Repo   Repo
	Engine scoring.Engine
	Alerts alerts.Publisher
	Cache  cache.JSONCache
	Now    func() time.Time
}

// NewService wires a Service. publisher and summaryCache may be nil.
func NewService(repo Repo, engine scoring.Engine, publisher alerts.Publisher, summaryCache cache.JSONCache) *Service {
	return &Service{Repo: repo, Engine: engine, Alerts: publisher, Cache: summaryCache, Now: time.Now}
}

// SubmitInput carries a questionnaire plus request provenance.
type SubmitInput struct {
	Answers   Questionnaire
	UserID    string
	GuestID   string
	IPAddress string
	UserAgent string
	SessionID string
	RequestID string
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *Service) ready() error {
	if s == nil || s.Repo == nil {
		return errors.New("checkins service not configured")
	}
	return nil
}

// Submit validates and scores the answers, then persists the check-in. High-risk
// results raise an alert; a failed alert is logged and never fails the submission.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (CheckIn, error) {
	if err := s.ready(); err != nil {
		return CheckIn{}, err
	}
	if err := in.Answers.Validate(); err != nil {
		metrics.IncCheckInRejected("validation")
		return CheckIn{}, err
	}

	response := in.Answers.Response()
	assessment, err := s.Engine.Assess(response)
	if err != nil {
		metrics.IncCheckInRejected("unknown_value")
		return CheckIn{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = anonymousSessionID
	}
	checkIn := CheckIn{
		ID:          uuid.NewString(),
		UserID:      strings.TrimSpace(in.UserID),
		GuestID:     strings.TrimSpace(in.GuestID),
		Response:    response,
		Assessment:  assessment,
		CompletedAt: s.now(),
		IPAddress:   in.IPAddress,
		UserAgent:   in.UserAgent,
		SessionID:   sessionID,
	}
	if err := s.Repo.Create(ctx, checkIn); err != nil {
		return CheckIn{}, fmt.Errorf("create check-in: %w", err)
	}

	metrics.ObserveCheckIn(assessment.RiskLevel.String(), assessment.Score)
	if assessment.RiskLevel.RequiresAlert() {
		s.raiseAlert(ctx, checkIn, in.RequestID)
	}
	s.invalidateSummaries(ctx)
	return checkIn, nil
}

func (s *Service) raiseAlert(ctx context.Context, checkIn CheckIn, requestID string) {
	userID := checkIn.UserID
	if userID == "" {
		userID = "anonymous"
	}
	telemetry.Warn("checkin.high_risk", map[string]any{
		"checkin_id": checkIn.ID,
		"user_id":    userID,
		"risk_level": checkIn.Assessment.RiskLevel,
		"score":      checkIn.Assessment.Score,
		"request_id": requestID,
		"timestamp":  checkIn.CompletedAt,
	})
	if s.Alerts == nil {
		return
	}
	msg := alerts.Message{
		CheckInID:   checkIn.ID,
		UserID:      checkIn.UserID,
		RiskLevel:   checkIn.Assessment.RiskLevel.String(),
		Score:       checkIn.Assessment.Score,
		RequestID:   requestID,
		CompletedAt: checkIn.CompletedAt,
		Version:     alerts.MessageVersion,
	}
	if err := s.Alerts.Publish(ctx, msg); err != nil {
		telemetry.Error("checkin.alert_failed", map[string]any{
			"checkin_id": checkIn.ID,
			"request_id": requestID,
			"error":      err.Error(),
		})
	}
}

func (s *Service) invalidateSummaries(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.DeletePrefix(ctx, summaryCachePrefix); err != nil {
		telemetry.Warn("checkin.cache_invalidate_failed", map[string]any{"error": err.Error()})
	}
}

// NormalizePage applies defaults to history paging parameters.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// NormalizeDays applies the default look-back window.
func NormalizeDays(days int) int {
	if days < 1 {
		return defaultDays
	}
	if days > maxDays {
		return maxDays
	}
	return days
}

// History returns a page of the user's check-ins, newest first.
func (s *Service) History(ctx context.Context, userID string, page, limit int) (HistoryPage, error) {
	if err := s.ready(); err != nil {
		return HistoryPage{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return HistoryPage{}, ErrInvalidInput
	}
	page, limit = NormalizePage(page, limit)

	items, err := s.Repo.ListByUser(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return HistoryPage{}, err
	}
	total, err := s.Repo.CountByUser(ctx, userID)
	if err != nil {
		return HistoryPage{}, err
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return HistoryPage{
		CheckIns: items,
		Pagination: Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalResults: total,
			HasNextPage:  page < totalPages,
			HasPrevPage:  page > 1,
			Limit:        limit,
		},
	}, nil
}

func (s *Service) Latest(ctx context.Context, userID string) (CheckIn, error) {
	if err := s.ready(); err != nil {
		return CheckIn{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return CheckIn{}, ErrNotFound
	}
	return s.Repo.LatestByUser(ctx, userID)
}

// Get returns the check-in only if userID owns it.
func (s *Service) Get(ctx context.Context, userID, id string) (CheckIn, error) {
	if err := s.ready(); err != nil {
		return CheckIn{}, err
	}
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(id) == "" {
		return CheckIn{}, ErrNotFound
	}
	checkIn, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return CheckIn{}, err
	}
	if checkIn.UserID != userID {
		return CheckIn{}, ErrNotFound
	}
	return checkIn, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(id) == "" {
		return ErrNotFound
	}
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.invalidateSummaries(ctx)
	return nil
}

// Progress returns the user's check-ins over the last days, oldest first, with trend statistics.
func (s *Service) Progress(ctx context.Context, userID string, days int) (Progress, error) {
	if err := s.ready(); err != nil {
		return Progress{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return Progress{}, ErrInvalidInput
	}
	days = NormalizeDays(days)
	since := s.now().AddDate(0, 0, -days)

	items, err := s.Repo.ListByUserSince(ctx, userID, since)
	if err != nil {
		return Progress{}, err
	}
	points := make([]scoring.Point, 0, len(items))
	for _, c := range items {
		points = append(points, scoring.Point{Score: c.Assessment.Score, RiskLevel: c.Assessment.RiskLevel})
	}
	return Progress{CheckIns: items, Statistics: scoring.Summarize(points), Days: days}, nil
}

// AnalyticsSummary aggregates all check-ins over the last days. Results are cached briefly.
func (s *Service) AnalyticsSummary(ctx context.Context, days int) (AnalyticsSummary, error) {
	if err := s.ready(); err != nil {
		return AnalyticsSummary{}, err
	}
	days = NormalizeDays(days)
	key := fmt.Sprintf("%s%d", summaryCachePrefix, days)

	if s.Cache != nil {
		var cached AnalyticsSummary
		hit, err := s.Cache.GetJSON(ctx, key, &cached)
		if err != nil {
			telemetry.Warn("checkin.cache_read_failed", map[string]any{"key": key, "error": err.Error()})
		} else if hit {
			return cached, nil
		}
	}

	stats, err := s.Repo.RiskStatsSince(ctx, s.now().AddDate(0, 0, -days))
	if err != nil {
		return AnalyticsSummary{}, err
	}
	summary := summarizeStats(stats, days)

	if s.Cache != nil {
		if err := s.Cache.SetJSON(ctx, key, summary, summaryCacheTTL); err != nil {
			telemetry.Warn("checkin.cache_write_failed", map[string]any{"key": key, "error": err.Error()})
		}
	}
	return summary, nil
}

func summarizeStats(stats []RiskStat, days int) AnalyticsSummary {
	out := AnalyticsSummary{Analytics: make([]RiskStat, 0, len(stats)), Days: days}
	for _, st := range stats {
		st.AverageScore = math.Round(st.AverageScore*10) / 10
		out.Analytics = append(out.Analytics, st)
		out.TotalCheckIns += st.Count
		if st.RiskLevel.RequiresAlert() {
			out.HighRiskCheckIns += st.Count
		}
	}
	sort.SliceStable(out.Analytics, func(i, j int) bool {
		return out.Analytics[i].RiskLevel.Severity() < out.Analytics[j].RiskLevel.Severity()
	})
	if out.TotalCheckIns > 0 {
		out.HighRiskPercentage = int(math.Round(float64(out.HighRiskCheckIns) / float64(out.TotalCheckIns) * 100))
	}
	return out
}

// MarkReminderSent records that follow-up outreach was sent for a check-in.
func (s *Service) MarkReminderSent(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	return s.Repo.MarkReminderSent(ctx, id, s.now())
}
