package scenarioforge

import (
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// init sets the process-wide zerolog level from the ambient config's
// log level. It governs the global logger in github.com/rs/zerolog/log,
// which the kernel package logs through for its one-time
// unknown-distribution fallback warning, the way the teacher's
// factory.go and node_executors.go do; nothing else in this module logs.
func init() {
	zerolog.SetGlobalLevel(parseLevel(defaultConfig.LogLevel))
}

// SetLogger overrides the global zerolog logger this module logs
// through.
func SetLogger(l zerolog.Logger) {
	zlog.Logger = l
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// NewConsoleLogger builds a human-readable console logger, useful for
// CLI tools embedding the core (the teacher's ConsoleLogger serves the
// same role for workflow execution events).
func NewConsoleLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
