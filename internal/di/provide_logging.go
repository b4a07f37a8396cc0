package di

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
)

// ProvideLogger creates a new zerolog.Logger configured for the runtime environment.
// When ESSESSEFF_LOG_JSON is set, it uses JSON format (for CI pipelines).
// In a terminal, it uses console format with pretty printing.
// Every run gets a ksuid run_id so interleaved output can be correlated.
func ProvideLogger() zerolog.Logger {
	runID := ksuid.New().String()

	if os.Getenv("ESSESSEFF_LOG_JSON") != "" {
		return zerolog.New(os.Stdout).
			Level(zerolog.InfoLevel).
			With().
			Timestamp().
			Str("run_id", runID).
			Logger()
	}

	// Running in terminal - use console format with colors
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Str("run_id", runID).
		Logger()
}
