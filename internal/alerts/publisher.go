package alerts

import (
	"context"

	"harbor-backend/internal/shared/metrics"
	"harbor-backend/internal/shared/telemetry"
)

const (
	SinkLog   = "log"
	SinkSQS   = "sqs"
	SinkKafka = "kafka"
)

// Publisher hands a high-risk alert to a sink.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// LogPublisher writes alerts to the structured log only.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, msg Message) error {
	_ = ctx
	telemetry.Warn("alert.high_risk", map[string]any{
		"checkin_id":   msg.CheckInID,
		"user_id":      anonymousIfEmpty(msg.UserID),
		"risk_level":   msg.RiskLevel,
		"score":        msg.Score,
		"request_id":   msg.RequestID,
		"completed_at": msg.CompletedAt,
	})
	metrics.IncAlertPublished(SinkLog, "ok")
	return nil
}

func anonymousIfEmpty(userID string) string {
	if userID == "" {
		return "anonymous"
	}
	return userID
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var _ Publisher = LogPublisher{}
