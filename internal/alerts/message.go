package alerts

import (
	"encoding/json"
	"time"
)

const MessageVersion = 1

// Message announces a high-risk check-in to downstream responders.
type Message struct {
	CheckInID   string    `json:"checkInId"`
	UserID      string    `json:"userId,omitempty"`
	RiskLevel   string    `json:"riskLevel"`
	Score       int       `json:"score"`
	RequestID   string    `json:"requestId,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
	Version     int       `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	if msg.Version == 0 {
		msg.Version = MessageVersion
	}
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
