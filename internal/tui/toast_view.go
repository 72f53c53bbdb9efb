package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/toaster/internal/core/styles"
	"github.com/colonyops/toaster/internal/core/toast"
)

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// ToastView renders toast notifications and composites them in the
// lower-right corner.
type ToastView struct {
	controller *ToastController
	now        func() time.Time
}

func NewToastView(controller *ToastController, now func() time.Time) *ToastView {
	if now == nil {
		now = time.Now
	}
	return &ToastView{controller: controller, now: now}
}

// View renders the toast stack as a single string with toasts stacked
// vertically (oldest at top, newest at bottom).
func (v *ToastView) View() string {
	toasts := v.controller.Toasts()
	if len(toasts) == 0 {
		return ""
	}

	now := v.now()
	rendered := make([]string, 0, len(toasts))
	for _, n := range toasts {
		rendered = append(rendered, renderToast(n, n.ExpiresAt().Sub(now)))
	}

	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

func kindStyle(k toast.Kind) (string, lipgloss.Style, lipgloss.Color) {
	p := styles.CurrentPalette
	switch k {
	case toast.KindSuccess:
		return styles.IconSuccess, styles.ToastSuccessStyle, p.Success
	case toast.KindError:
		return styles.IconError, styles.ToastErrorStyle, p.Error
	case toast.KindWarning:
		return styles.IconWarning, styles.ToastWarningStyle, p.Warning
	default:
		return styles.IconInfo, styles.ToastInfoStyle, p.Primary
	}
}

func renderToast(n toast.Notification, remaining time.Duration) string {
	icon, box, accent := kindStyle(n.Kind)

	inner := styles.ToastWidth - box.GetHorizontalFrameSize()

	left := lipgloss.NewStyle().Foreground(accent).Render(icon) + " " +
		styles.ToastTitleStyle.Foreground(accent).Render(n.Title)
	right := styles.MutedStyle.Render(formatRemaining(remaining))

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	header := left
	if gap >= 1 {
		header = left + strings.Repeat(" ", gap) + right
	}

	lines := []string{header}
	if n.Detail != "" {
		lines = append(lines, styles.ToastDetailStyle.Width(inner).Render(n.Detail))
	}

	return box.Render(strings.Join(lines, "\n"))
}

// formatRemaining shows whole seconds left, rounded up, never below 0s.
func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	secs := (d + time.Second - 1) / time.Second
	return fmt.Sprintf("%ds", secs)
}

// Overlay places the toast stack in the lower-right corner of a width x
// height area.
func (v *ToastView) Overlay(width, height int) string {
	content := v.View()
	if width <= 0 || height <= 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Right, lipgloss.Bottom, content)
}
