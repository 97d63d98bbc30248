package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger. Development gets pretty
// console output; everything else logs JSON to w.
func Setup(w io.Writer, appEnv, level string) zerolog.Level {
	if w == nil {
		w = os.Stdout
	}

	if appEnv == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		})
	} else {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	}

	lvl := zerolog.InfoLevel
	if level != "" {
		if parsed, err := zerolog.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}
	zerolog.SetGlobalLevel(lvl)

	return lvl
}
