package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"harbor-backend/internal/alerts"
	"harbor-backend/internal/checkins"
	"harbor-backend/internal/shared/telemetry"
)

// Processor records follow-up for an alerted check-in.
type Processor interface {
	MarkReminderSent(ctx context.Context, checkInID string) error
}

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{BodyLen: 0, BodySHA: ""}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrMissingCheckInID indicates an alert without the check-in it refers to.
type ErrMissingCheckInID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingCheckInID) Error() string { return "missing check-in id" }

// ErrProcess indicates processing failed after successful parsing.
type ErrProcess struct {
	CheckInID string
	RequestID string
	Err       error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process alert"
	}
	return "process alert: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (alerts.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return alerts.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := alerts.DecodeMessage([]byte(body))
	if err != nil {
		return alerts.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.CheckInID) == "" {
		return msg, meta, ErrMissingCheckInID{Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

type parsedMessageKey struct{}

// WithParsedMessage stores a decoded message in the context for reuse.
func WithParsedMessage(ctx context.Context, msg alerts.Message) context.Context {
	return context.WithValue(ctx, parsedMessageKey{}, msg)
}

func parsedMessageFromContext(ctx context.Context) (alerts.Message, bool) {
	if ctx == nil {
		return alerts.Message{}, false
	}
	msg, ok := ctx.Value(parsedMessageKey{}).(alerts.Message)
	return msg, ok
}

// HandleMessage parses an alert and marks its check-in reminder as sent. An alert
// for a check-in that no longer exists is acknowledged without error.
func HandleMessage(ctx context.Context, processor Processor, body string) error {
	if processor == nil {
		return errors.New("check-in service not configured")
	}

	msg, ok := parsedMessageFromContext(ctx)
	if !ok {
		var err error
		msg, _, err = ParseMessage(body)
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(msg.CheckInID) == "" {
		return ErrMissingCheckInID{Meta: ComputeMeta(body), RequestID: msg.RequestID}
	}

	fields := map[string]any{
		"checkin_id":   msg.CheckInID,
		"risk_level":   msg.RiskLevel,
		"score":        msg.Score,
		"request_id":   msg.RequestID,
		"completed_at": msg.CompletedAt,
	}
	if msg.UserID != "" {
		fields["user_id"] = msg.UserID
	}
	telemetry.Warn("alert.follow_up", fields)

	if err := processor.MarkReminderSent(ctx, msg.CheckInID); err != nil {
		if errors.Is(err, checkins.ErrNotFound) {
			telemetry.Info("alert.checkin_gone", map[string]any{"checkin_id": msg.CheckInID, "request_id": msg.RequestID})
			return nil
		}
		return ErrProcess{CheckInID: msg.CheckInID, RequestID: msg.RequestID, Err: err}
	}
	return nil
}
