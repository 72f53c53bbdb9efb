package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/toaster/internal/core/toast"
)

// drainEventsMsg tells the model to drain the buffer.
type drainEventsMsg struct{}

// NotificationBuffer buffers store events and emits coalesced drain signals.
// Push is safe to call from the store's delivery path: it never blocks.
type NotificationBuffer struct {
	mu     sync.Mutex
	events []toast.Event
	signal chan struct{}
}

// NewNotificationBuffer constructs a buffer for async event delivery.
func NewNotificationBuffer() *NotificationBuffer {
	return &NotificationBuffer{
		events: make([]toast.Event, 0),
		signal: make(chan struct{}, 1),
	}
}

// Push appends an event and emits a non-blocking drain signal.
func (b *NotificationBuffer) Push(ev toast.Event) {
	b.mu.Lock()
	b.events = append(b.events, ev)
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// Drain returns all buffered events in arrival order and clears the buffer.
func (b *NotificationBuffer) Drain() []toast.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.events) == 0 {
		return nil
	}

	out := make([]toast.Event, len(b.events))
	copy(out, b.events)
	b.events = b.events[:0]
	return out
}

// WaitForSignal blocks until there are events ready to drain.
func (b *NotificationBuffer) WaitForSignal() tea.Cmd {
	return func() tea.Msg {
		<-b.signal
		return drainEventsMsg{}
	}
}
