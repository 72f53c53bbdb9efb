// Package toast implements the in-process store for transient notifications.
//
// A producer enqueues an Input and receives an ID. The store keeps the active
// notifications in insertion order and removes each one exactly once, either
// when its display duration elapses or when it is dismissed.
package toast

import (
	"fmt"
	"strings"
	"time"
)

// DefaultDuration is the display lifetime used when an Input does not set one.
const DefaultDuration = 5 * time.Second

// Kind is the visual category of a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// Kinds returns every supported kind in display order.
func Kinds() []Kind {
	return []Kind{KindSuccess, KindError, KindInfo, KindWarning}
}

// IsValid reports whether k is one of the supported kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindSuccess, KindError, KindInfo, KindWarning:
		return true
	default:
		return false
	}
}

// Notification is an active toast. Values are immutable once created by the store.
type Notification struct {
	ID        string
	Kind      Kind
	Title     string
	Detail    string
	Duration  time.Duration
	CreatedAt time.Time
}

// ExpiresAt returns the instant the notification is due to expire.
func (n Notification) ExpiresAt() time.Time {
	return n.CreatedAt.Add(n.Duration)
}

// Input describes a notification to enqueue. The zero duration means the
// store default is used; call WithDuration to set one explicitly.
type Input struct {
	Kind   Kind
	Title  string
	Detail string

	duration    time.Duration
	hasDuration bool
}

// WithDuration returns a copy of in with an explicit display duration.
// Explicit durations must be positive.
func (in Input) WithDuration(d time.Duration) Input {
	in.duration = d
	in.hasDuration = true
	return in
}

// Duration returns the explicit duration and whether one was set.
func (in Input) Duration() (time.Duration, bool) {
	return in.duration, in.hasDuration
}

// Validate checks the input against the notification contract.
func (in Input) Validate() error {
	if !in.Kind.IsValid() {
		return &InvalidInputError{Field: "kind", Reason: fmt.Sprintf("unknown kind %q", in.Kind)}
	}
	if strings.TrimSpace(in.Title) == "" {
		return &InvalidInputError{Field: "title", Reason: "must not be empty"}
	}
	if in.hasDuration && in.duration <= 0 {
		return &InvalidInputError{Field: "duration", Reason: "must be positive"}
	}
	return nil
}

// Success builds a success notification input.
func Success(title, detail string) Input {
	return Input{Kind: KindSuccess, Title: title, Detail: detail}
}

// Error builds an error notification input.
func Error(title, detail string) Input {
	return Input{Kind: KindError, Title: title, Detail: detail}
}

// Info builds an info notification input.
func Info(title, detail string) Input {
	return Input{Kind: KindInfo, Title: title, Detail: detail}
}

// Warning builds a warning notification input.
func Warning(title, detail string) Input {
	return Input{Kind: KindWarning, Title: title, Detail: detail}
}

// Reason records why a notification left the store.
type Reason string

const (
	ReasonExpired   Reason = "expired"
	ReasonDismissed Reason = "dismissed"
	ReasonEvicted   Reason = "evicted"
	ReasonClosed    Reason = "closed"
)

// EventType identifies a store change.
type EventType string

const (
	EventAdded   EventType = "added"
	EventRemoved EventType = "removed"
)

// Event is delivered to subscribers after every store mutation.
// Reason is empty for EventAdded.
type Event struct {
	Type         EventType
	Notification Notification
	Reason       Reason
}
