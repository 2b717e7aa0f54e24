package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMessage() Message {
	return Message{
		CheckInID:   "checkin-1",
		UserID:      "user-1",
		RiskLevel:   "Crisis",
		Score:       100,
		RequestID:   "req-1",
		CompletedAt: time.Date(2026, time.March, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestEncodeMessageDefaultsVersion(t *testing.T) {
	payload, err := EncodeMessage(sampleMessage())
	require.NoError(t, err)

	got, err := DecodeMessage(payload)
	require.NoError(t, err)
	assert.Equal(t, MessageVersion, got.Version)
	assert.Equal(t, "checkin-1", got.CheckInID)
	assert.True(t, got.CompletedAt.Equal(sampleMessage().CompletedAt))
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	_, err := DecodeMessage([]byte("{bad"))
	assert.Error(t, err)
}

type fakeSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, params)
	return &sqs.SendMessageOutput{}, f.err
}

func TestSQSPublisherSendsEncodedBody(t *testing.T) {
	fake := &fakeSQS{}
	p := &SQSPublisher{client: fake, queueURL: "https://sqs.example/alerts"}

	require.NoError(t, p.Publish(context.Background(), sampleMessage()))
	require.Len(t, fake.inputs, 1)
	assert.Equal(t, "https://sqs.example/alerts", aws.ToString(fake.inputs[0].QueueUrl))

	decoded, err := DecodeMessage([]byte(aws.ToString(fake.inputs[0].MessageBody)))
	require.NoError(t, err)
	assert.Equal(t, "Crisis", decoded.RiskLevel)
}

func TestSQSPublisherWrapsError(t *testing.T) {
	p := &SQSPublisher{client: &fakeSQS{err: errors.New("throttled")}, queueURL: "q"}
	err := p.Publish(context.Background(), sampleMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqs send message")
}

func TestNewSQSPublisherRequiresQueue(t *testing.T) {
	_, err := NewSQSPublisher(context.Background(), "us-east-1", " ")
	assert.Error(t, err)
}

type fakeKafka struct {
	msgs   []kafkago.Message
	closed bool
}

func (f *fakeKafka) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeKafka) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisherKeysByCheckIn(t *testing.T) {
	fake := &fakeKafka{}
	p := &KafkaPublisher{writer: fake}

	require.NoError(t, p.Publish(context.Background(), sampleMessage()))
	require.Len(t, fake.msgs, 1)
	assert.Equal(t, "checkin-1", string(fake.msgs[0].Key))
	assert.Equal(t, "risk_level", fake.msgs[0].Headers[0].Key)

	require.NoError(t, p.Close())
	assert.True(t, fake.closed)
}

func TestNewKafkaPublisherValidates(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "topic")
	assert.Error(t, err)
	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "")
	assert.Error(t, err)
}

func TestLogPublisherNeverFails(t *testing.T) {
	assert.NoError(t, LogPublisher{}.Publish(context.Background(), Message{CheckInID: "c"}))
}
