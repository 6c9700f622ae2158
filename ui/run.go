package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type Options struct {
	ExportDir string
	Logger    *log.Logger
}

// Run draws the recorder until the user quits or the controller closes.
func Run(c Controller, opts Options) error {
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	p := tea.NewProgram(newModel(c, opts.ExportDir, opts.Logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
