// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	CommandStyle       lipgloss.Style
	DividerStyle       lipgloss.Style
	MutedStyle         lipgloss.Style

	// Toast styles, one per notification kind.
	ToastSuccessStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style
	ToastInfoStyle    lipgloss.Style
	ToastWarningStyle lipgloss.Style

	ToastTitleStyle  lipgloss.Style
	ToastDetailStyle lipgloss.Style

	HelpStyle lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	CommandStyle = lipgloss.NewStyle().
		Foreground(p.Foreground)
	DividerStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	MutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)

	toastBase := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(ToastWidth - 2)
	ToastSuccessStyle = toastBase.BorderForeground(p.Success)
	ToastErrorStyle = toastBase.BorderForeground(p.Error)
	ToastInfoStyle = toastBase.BorderForeground(p.Primary)
	ToastWarningStyle = toastBase.BorderForeground(p.Warning)

	ToastTitleStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		Bold(true)
	ToastDetailStyle = lipgloss.NewStyle().
		Foreground(p.Muted)

	HelpStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
}

// ToastWidth is the outer width of a rendered toast, borders included.
// The style width excludes the two border columns.
const ToastWidth = 44

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
