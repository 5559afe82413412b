// Package logger provides a configured zerolog logger.
package logger

import (
	"os"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

// New returns a zerolog.Logger for the given service at the given level.
// Call sites should use .Stack() on error events to include stacks.
func New(serviceName, level string) zerolog.Logger {
	// Integrate with github.com/pkg/errors so logged errors carry stack
	// traces whether or not the error was created with one.
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		type stackTracer interface{ StackTrace() pkgerrors.StackTrace }
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).Level(lvl).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}
