package tui

import (
	"slices"
	"time"

	"github.com/colonyops/toaster/internal/core/toast"
)

const toastTickInterval = 100 * time.Millisecond

// ToastController mirrors the store's active notifications for rendering.
// The store owns expiry and eviction; the controller only applies events.
type ToastController struct {
	toasts  []toast.Notification
	ticking bool
}

func NewToastController() *ToastController {
	return &ToastController{}
}

// Reset replaces the mirror with a store snapshot.
func (c *ToastController) Reset(snapshot []toast.Notification) {
	c.toasts = slices.Clone(snapshot)
}

// Apply updates the mirror from a store event. Added events for IDs already
// present are ignored so a snapshot taken after subscribing is safe.
func (c *ToastController) Apply(ev toast.Event) {
	idx := slices.IndexFunc(c.toasts, func(n toast.Notification) bool { return n.ID == ev.Notification.ID })

	switch ev.Type {
	case toast.EventAdded:
		if idx < 0 {
			c.toasts = append(c.toasts, ev.Notification)
		}
	case toast.EventRemoved:
		if idx >= 0 {
			c.toasts = slices.Delete(c.toasts, idx, idx+1)
		}
	}
}

// Newest returns the most recently added toast.
func (c *ToastController) Newest() (toast.Notification, bool) {
	if len(c.toasts) == 0 {
		return toast.Notification{}, false
	}
	return c.toasts[len(c.toasts)-1], true
}

// HasToasts returns true if there are any active toasts.
func (c *ToastController) HasToasts() bool {
	return len(c.toasts) > 0
}

// Toasts returns the current active toast slice, oldest first.
func (c *ToastController) Toasts() []toast.Notification {
	return c.toasts
}

// Ticking returns whether the tick timer is currently running.
func (c *ToastController) Ticking() bool {
	return c.ticking
}

// SetTicking sets the tick timer state.
func (c *ToastController) SetTicking(v bool) {
	c.ticking = v
}
