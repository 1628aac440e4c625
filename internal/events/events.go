package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "finance-dashboard"
	EventVersion = "1.0"

	// TopicDashboard carries every event the browser view listens to.
	TopicDashboard = "dashboard.events"
)

// Event types
const (
	NotificationShown = "notification.shown"
	StudentCreated    = "student.created"
	StudentUpdated    = "student.updated"
	StudentDeleted    = "student.deleted"
	TaskFinished      = "task.finished"
)

type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Version   string          `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

func NewEvent(eventType string, data interface{}) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}, nil
}

// Decode unmarshals the event payload into dest.
func (e *Event) Decode(dest interface{}) error {
	return json.Unmarshal(e.Data, dest)
}

type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

type EventSubscriber interface {
	// Subscribe streams events until ctx is done.
	Subscribe(ctx context.Context) (<-chan *Event, error)
}
