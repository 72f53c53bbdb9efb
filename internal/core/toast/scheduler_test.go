package toast

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerScheduler_firesOnce(t *testing.T) {
	s := NewTimerScheduler()
	defer s.Stop()

	var calls atomic.Int32
	s.Schedule("a", 10*time.Millisecond, func(id string) {
		assert.Equal(t, "a", id)
		calls.Add(1)
	})

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Zero(t, s.Pending())
}

func TestTimerScheduler_Cancel(t *testing.T) {
	s := NewTimerScheduler()
	defer s.Stop()

	var calls atomic.Int32
	s.Schedule("a", 20*time.Millisecond, func(string) { calls.Add(1) })
	s.Cancel("a")
	s.Cancel("a")
	s.Cancel("never-scheduled")

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, calls.Load())
	assert.Zero(t, s.Pending())
}

func TestTimerScheduler_rescheduleReplaces(t *testing.T) {
	s := NewTimerScheduler()
	defer s.Stop()

	var first, second atomic.Int32
	s.Schedule("a", 20*time.Millisecond, func(string) { first.Add(1) })
	s.Schedule("a", 40*time.Millisecond, func(string) { second.Add(1) })

	assert.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, first.Load())
}

func TestTimerScheduler_Stop(t *testing.T) {
	s := NewTimerScheduler()

	var calls atomic.Int32
	s.Schedule("a", 20*time.Millisecond, func(string) { calls.Add(1) })
	s.Stop()
	s.Schedule("b", time.Millisecond, func(string) { calls.Add(1) })

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, calls.Load())
	assert.Zero(t, s.Pending())
}
