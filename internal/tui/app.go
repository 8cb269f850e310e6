// Package tui provides the terminal user interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive TUI and blocks until the user quits. When
// opts.MetricsFile is set the metrics are written there on exit.
func Run(ctx context.Context, opts Options) error {
	model := NewModel(ctx, opts)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	finalModel, err := p.Run()

	final, ok := finalModel.(Model)
	if !ok {
		final = model
	}
	final.Close()

	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if opts.MetricsFile != "" {
		if err := final.Recorder().WriteTextfile(opts.MetricsFile); err != nil {
			slog.Warn("could not write metrics", "path", opts.MetricsFile, "error", err)
		}
	}

	return nil
}

// IsTerminal checks if stdout is a terminal
func IsTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
