package logger

import (
	"log/slog"
	"os"
)

// New returns the structured logger used across the auth core.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
