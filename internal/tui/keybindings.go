package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/colonyops/toaster/internal/core/toast"
)

type keyMap struct {
	Success    key.Binding
	Error      key.Binding
	Info       key.Binding
	Warning    key.Binding
	Dismiss    key.Binding
	DismissAll key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Success: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "success"),
		),
		Error: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "error"),
		),
		Info: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "info"),
		),
		Warning: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "warning"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dismiss"),
		),
		DismissAll: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "dismiss all"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Success, k.Error, k.Info, k.Warning, k.Dismiss, k.DismissAll, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Success, k.Error, k.Info, k.Warning},
		{k.Dismiss, k.DismissAll, k.Quit},
	}
}

// samples are the notifications pushed by the kind keys.
var samples = map[toast.Kind]toast.Input{
	toast.KindSuccess: toast.Success("Message sent successfully!", "We'll get back to you within 24 hours."),
	toast.KindError:   toast.Error("Failed to send message", "Please try again or contact us directly."),
	toast.KindInfo:    toast.Info("Heads up", "A new version is available."),
	toast.KindWarning: toast.Warning("Storage almost full", "Older history entries will be pruned soon."),
}
