// Package tui implements the terminal toast viewer.
package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/colonyops/toaster/internal/core/logging"
	"github.com/colonyops/toaster/internal/core/styles"
	"github.com/colonyops/toaster/internal/core/toast"
)

// Store is the part of the toast store the TUI drives.
type Store interface {
	Enqueue(in toast.Input) (string, error)
	Remove(id string)
	DismissAll()
	List() []toast.Notification
}

// Model is the bubbletea model for the toast viewer.
type Model struct {
	store      Store
	buffer     *NotificationBuffer
	controller *ToastController
	toastView  *ToastView
	keys       keyMap
	help       help.Model
	log        zerolog.Logger

	width  int
	height int
	err    error
}

// Options configures a Model.
type Options struct {
	// Now drives the remaining-time display. Defaults to time.Now.
	Now func() time.Time
}

// New creates a model showing the store's current notifications. buffer must
// already be subscribed to the store so no event is missed.
func New(store Store, buffer *NotificationBuffer, opts Options) Model {
	controller := NewToastController()
	controller.Reset(store.List())

	return Model{
		store:      store,
		buffer:     buffer,
		controller: controller,
		toastView:  NewToastView(controller, opts.Now),
		keys:       defaultKeyMap(),
		help:       help.New(),
		log:        logging.Component("tui"),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.buffer.WaitForSignal()}
	if m.controller.HasToasts() {
		m.controller.SetTicking(true)
		cmds = append(cmds, scheduleToastTick())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case drainEventsMsg:
		for _, ev := range m.buffer.Drain() {
			m.controller.Apply(ev)
		}
		return m, tea.Batch(m.buffer.WaitForSignal(), m.ensureTicking())

	case toastTickMsg:
		if !m.controller.HasToasts() {
			m.controller.SetTicking(false)
			return m, nil
		}
		return m, scheduleToastTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Success):
		m.push(toast.KindSuccess)
	case key.Matches(msg, m.keys.Error):
		m.push(toast.KindError)
	case key.Matches(msg, m.keys.Info):
		m.push(toast.KindInfo)
	case key.Matches(msg, m.keys.Warning):
		m.push(toast.KindWarning)
	case key.Matches(msg, m.keys.Dismiss):
		if n, ok := m.controller.Newest(); ok {
			m.store.Remove(n.ID)
		}
	case key.Matches(msg, m.keys.DismissAll):
		m.store.DismissAll()
	}
	return m, nil
}

// push enqueues a sample notification. The store event reaches the view
// through the buffer, not directly.
func (m *Model) push(kind toast.Kind) {
	if _, err := m.store.Enqueue(samples[kind]); err != nil {
		m.log.Error().Err(err).Str("kind", string(kind)).Msg("enqueue sample toast")
		m.err = err
		return
	}
	m.err = nil
}

// ensureTicking starts the countdown tick if toasts are visible and no tick
// is in flight.
func (m Model) ensureTicking() tea.Cmd {
	if !m.controller.HasToasts() || m.controller.Ticking() {
		return nil
	}
	m.controller.SetTicking(true)
	return scheduleToastTick()
}

func (m Model) View() string {
	header := styles.CommandHeaderStyle.Render("toaster") + " " +
		styles.MutedStyle.Render(activeLabel(len(m.controller.Toasts())))
	if m.err != nil {
		header += "  " + lipgloss.NewStyle().Foreground(styles.CurrentPalette.Error).Render(m.err.Error())
	}
	footer := m.help.View(m.keys)

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	body := m.toastView.Overlay(m.width, bodyHeight)

	return strings.Join([]string{header, body, footer}, "\n")
}

func activeLabel(n int) string {
	if n == 1 {
		return "1 active"
	}
	return strconv.Itoa(n) + " active"
}
