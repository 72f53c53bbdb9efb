package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/toaster/internal/core/toast"
)

// Run starts the viewer on store and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, store *toast.Store, opts ...tea.ProgramOption) error {
	buffer := NewNotificationBuffer()
	unsubscribe := store.Subscribe(buffer.Push)
	defer unsubscribe()

	m := New(store, buffer, Options{})

	programOpts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(m, programOpts...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
