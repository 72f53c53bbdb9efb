package toast

import (
	"context"
	"crypto/rand"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/toaster/internal/core/logging"
)

const (
	// DefaultMaxActive mirrors the size of the visible toast stack.
	DefaultMaxActive = 5

	recordTimeout = 5 * time.Second
)

// StoreOptions configures a Store. Zero values select the defaults.
type StoreOptions struct {
	// DefaultDuration applies to inputs without an explicit duration.
	DefaultDuration time.Duration
	// MaxActive caps the number of active notifications. When exceeded the
	// oldest are evicted. Zero disables the cap.
	MaxActive int
	// Scheduler arms expiry timers. Defaults to a TimerScheduler.
	Scheduler Scheduler
	// Clock stamps CreatedAt and seeds IDs. Defaults to time.Now.
	Clock func() time.Time
	// Recorder, when set, receives every removal.
	Recorder Recorder
	Logger   *zerolog.Logger
}

// DefaultStoreOptions returns options matching the visible toast stack.
func DefaultStoreOptions() StoreOptions {
	return StoreOptions{
		DefaultDuration: DefaultDuration,
		MaxActive:       DefaultMaxActive,
	}
}

// Subscriber receives store events. Subscribers may call back into the store;
// events caused by such calls are delivered after the current one.
type Subscriber func(Event)

type subscription struct {
	id int
	fn Subscriber
}

// Store holds the active notifications in insertion order. It is the only
// component that mutates them and is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	items    []Notification
	pending  []Event
	flushing bool
	closed   bool

	subMu   sync.Mutex
	subs    []subscription
	nextSub int

	scheduler       Scheduler
	now             func() time.Time
	entropy         *ulid.MonotonicEntropy
	defaultDuration time.Duration
	maxActive       int
	recorder        Recorder
	log             zerolog.Logger
}

// NewStore creates an empty store.
func NewStore(opts StoreOptions) *Store {
	s := &Store{
		scheduler:       opts.Scheduler,
		now:             opts.Clock,
		entropy:         ulid.Monotonic(rand.Reader, 0),
		defaultDuration: opts.DefaultDuration,
		maxActive:       max(opts.MaxActive, 0),
		recorder:        opts.Recorder,
	}

	if s.scheduler == nil {
		s.scheduler = NewTimerScheduler()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.defaultDuration <= 0 {
		s.defaultDuration = DefaultDuration
	}
	if opts.Logger != nil {
		s.log = *opts.Logger
	} else {
		s.log = logging.Component("toast")
	}

	return s
}

// Enqueue validates in, appends a new notification and arms its expiry timer.
// It returns the generated ID so callers can dismiss the notification early.
func (s *Store) Enqueue(in Input) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}

	d, ok := in.Duration()
	if !ok {
		d = s.defaultDuration
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrClosed
	}

	now := s.now()
	id, err := ulid.New(ulid.Timestamp(now), s.entropy)
	if err != nil {
		s.mu.Unlock()
		return "", fmt.Errorf("generate toast id: %w", err)
	}

	n := Notification{
		ID:        id.String(),
		Kind:      in.Kind,
		Title:     in.Title,
		Detail:    in.Detail,
		Duration:  d,
		CreatedAt: now,
	}

	s.items = append(s.items, n)
	s.pending = append(s.pending, Event{Type: EventAdded, Notification: n})
	s.scheduler.Schedule(n.ID, d, s.expire)

	for s.maxActive > 0 && len(s.items) > s.maxActive {
		oldest := s.items[0]
		s.items = slices.Delete(s.items, 0, 1)
		s.scheduler.Cancel(oldest.ID)
		s.pending = append(s.pending, Event{Type: EventRemoved, Notification: oldest, Reason: ReasonEvicted})
	}
	s.mu.Unlock()

	s.log.Debug().
		Str("toast_id", n.ID).
		Str("kind", string(n.Kind)).
		Dur("duration", d).
		Msg("toast enqueued")

	s.flush()
	return n.ID, nil
}

// Remove dismisses the notification with the given ID. Unknown and already
// removed IDs are ignored, so a dismissal racing an expiry is harmless.
func (s *Store) Remove(id string) {
	s.remove(id, ReasonDismissed)
}

func (s *Store) expire(id string) {
	s.remove(id, ReasonExpired)
}

func (s *Store) remove(id string, reason Reason) {
	s.mu.Lock()
	idx := slices.IndexFunc(s.items, func(n Notification) bool { return n.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		return
	}

	n := s.items[idx]
	s.items = slices.Delete(s.items, idx, idx+1)
	s.scheduler.Cancel(id)
	s.pending = append(s.pending, Event{Type: EventRemoved, Notification: n, Reason: reason})
	s.mu.Unlock()

	s.log.Debug().
		Str("toast_id", id).
		Str("reason", string(reason)).
		Msg("toast removed")

	s.flush()
}

// DismissAll removes every active notification.
func (s *Store) DismissAll() {
	s.removeAll(ReasonDismissed)
}

// Close removes every active notification, stops the scheduler and rejects
// further enqueues. Close is idempotent.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.removeAll(ReasonClosed)
	s.scheduler.Stop()
}

func (s *Store) removeAll(reason Reason) {
	s.mu.Lock()
	for _, n := range s.items {
		s.scheduler.Cancel(n.ID)
		s.pending = append(s.pending, Event{Type: EventRemoved, Notification: n, Reason: reason})
	}
	s.items = s.items[:0]
	s.mu.Unlock()

	s.flush()
}

// List returns a snapshot of the active notifications, oldest first.
func (s *Store) List() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the active notification with the given ID.
func (s *Store) Get(id string) (Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.items, func(n Notification) bool { return n.ID == id })
	if idx < 0 {
		return Notification{}, false
	}
	return s.items[idx], true
}

// Len returns the number of active notifications.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Subscribe registers fn for every subsequent event and returns a function
// that removes the subscription.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.subMu.Lock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool { return sub.id == id })
		})
	}
}

// flush delivers pending events in mutation order. Only one goroutine
// delivers at a time; concurrent callers leave their events to it.
func (s *Store) flush() {
	s.mu.Lock()
	if s.flushing {
		s.mu.Unlock()
		return
	}
	s.flushing = true

	for len(s.pending) > 0 {
		batch := s.pending
		s.pending = nil
		s.mu.Unlock()

		for _, ev := range batch {
			s.deliver(ev)
		}

		s.mu.Lock()
	}

	s.flushing = false
	s.mu.Unlock()
}

func (s *Store) deliver(ev Event) {
	if ev.Type == EventRemoved && s.recorder != nil {
		s.record(ev)
	}

	s.subMu.Lock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		s.notify(sub.fn, ev)
	}
}

func (s *Store) record(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	entry := Entry{
		Notification: ev.Notification,
		Reason:       ev.Reason,
		RemovedAt:    s.now(),
	}
	if err := s.recorder.Record(ctx, entry); err != nil {
		s.log.Error().Err(err).Str("toast_id", ev.Notification.ID).Msg("failed to record toast history")
	}
}

func (s *Store) notify(fn Subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Interface("panic", r).
				Str("toast_id", ev.Notification.ID).
				Msg("panic in toast subscriber")
		}
	}()
	fn(ev)
}
