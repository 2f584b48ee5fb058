package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup configures the process logger. Development gets a human-readable
// console writer; anything else logs JSON lines.
func Setup(env string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var logger zerolog.Logger
	if env == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	return logger
}
