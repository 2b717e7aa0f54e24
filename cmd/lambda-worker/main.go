package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=amd64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"harbor-backend/internal/bootstrap"
	"harbor-backend/internal/shared/config"
	"harbor-backend/internal/shared/telemetry"
	"harbor-backend/internal/workerproc"
)

var (
	initOnce sync.Once
	initErr  error
	app      *bootstrap.App
)

func initApp() {
	cfg := config.Load()
	built, err := bootstrap.Build(cfg)
	if err != nil {
		initErr = err
		return
	}
	app = built
}

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		log.Printf("bootstrap error: %v", initErr)
		failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
		for _, record := range event.Records {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
		return events.SQSEventResponse{BatchItemFailures: failures}, initErr
	}

	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		if err := workerproc.HandleMessage(ctx, app.CheckInsService, record.Body); err != nil {
			var parseErr workerproc.ErrDecode
			var missing workerproc.ErrMissingCheckInID
			if errors.As(err, &parseErr) || errors.As(err, &missing) || errors.As(err, &workerproc.ErrEmptyBody{}) {
				// Redelivery cannot fix a malformed alert.
				telemetry.Error("lambda_worker.alert.unprocessable", map[string]any{"message_id": record.MessageId, "error": err.Error()})
				continue
			}
			telemetry.Error("lambda_worker.alert.failed", map[string]any{"message_id": record.MessageId, "error": err.Error()})
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}

	return events.SQSEventResponse{BatchItemFailures: failures}, nil
}

func main() {
	lambda.Start(handler)
}
