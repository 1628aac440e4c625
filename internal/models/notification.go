package models

import "time"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeveritySuccess, SeverityError:
		return true
	}
	return false
}

// NotificationPhase is where a banner is in its display lifecycle.
type NotificationPhase string

const (
	PhaseVisible NotificationPhase = "visible"
	PhaseLeaving NotificationPhase = "leaving"
)

type Notification struct {
	ID        string            `json:"id"`
	Message   string            `json:"message"`
	Severity  Severity          `json:"severity"`
	ShownAt   time.Time         `json:"shown_at"`
	DismissAt time.Time         `json:"dismiss_at"`
	RemoveAt  time.Time         `json:"remove_at"`
	Phase     NotificationPhase `json:"phase"`
}

// PhaseAt reports the lifecycle phase at now. ok is false once the banner is gone.
func (n Notification) PhaseAt(now time.Time) (phase NotificationPhase, ok bool) {
	switch {
	case now.Before(n.DismissAt):
		return PhaseVisible, true
	case now.Before(n.RemoveAt):
		return PhaseLeaving, true
	}
	return "", false
}

// BadgeState is the header notification counter.
type BadgeState struct {
	Count   int  `json:"count"`
	Visible bool `json:"visible"`
}
