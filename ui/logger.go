package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// OpenLogFile returns a logger writing to path, for use while the TUI owns
// the terminal. Call closeFn when the program exits.
func OpenLogFile(path string, level log.Level) (*log.Logger, func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Level:           level,
	})
	return logger, f.Close, nil
}
