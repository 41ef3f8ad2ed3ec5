package logx

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls logger initialisation.
type Options struct {
	Environment string // "production" switches to JSON output
	Level       string
	Format      string // "json", "console", or empty to pick by environment
}

// Init configures the global zerolog logger.
func Init(opts Options) {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	if consoleOutput(opts) {
		log.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Caller().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	log.Logger = log.Logger.Level(level)
}

// consoleOutput picks the human-readable writer outside production unless
// a format is forced.
func consoleOutput(opts Options) bool {
	switch strings.ToLower(opts.Format) {
	case "console":
		return true
	case "json":
		return false
	}
	return opts.Environment != "production"
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
