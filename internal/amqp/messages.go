package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// EventType says what happened to a chore log.
type EventType string

const (
	LogCreated EventType = "log.created"
	LogDeleted EventType = "log.deleted"
)

// LogEventMessage is a lightweight notification about a chore log.
// It carries only the ID; consumers load the full log from the database.
type LogEventMessage struct {
	Type      EventType `json:"type"`
	LogID     string    `json:"logId"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLogEventMessage creates a message stamped with the current time
func NewLogEventMessage(t EventType, logID string) *LogEventMessage {
	return &LogEventMessage{
		Type:      t,
		LogID:     logID,
		Timestamp: time.Now(),
	}
}

func (m *LogEventMessage) Validate() error {
	if m.LogID == "" {
		return errors.New("missing log id")
	}
	switch m.Type {
	case LogCreated, LogDeleted:
		return nil
	default:
		return fmt.Errorf("unknown event type %q", m.Type)
	}
}

// ToJSON converts the message to JSON bytes
func (m *LogEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LogEventMessageFromJSON decodes and validates a message
func LogEventMessageFromJSON(data []byte) (*LogEventMessage, error) {
	var msg LogEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
