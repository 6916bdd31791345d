// Package logging configures the process-wide zerolog logger and carries
// request-scoped loggers through context.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets the global logger.  In dev the output is human readable;
// everywhere else it is one JSON object per line.
func Init(service, env string) {
	Setup(os.Stdout, service, env)
}

// Setup is Init with an explicit writer.
func Setup(w io.Writer, service, env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if env == "dev" || env == "development" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
			With().Timestamp().Str("service", service).Logger()
		return
	}
	log.Logger = zerolog.New(w).With().Timestamp().Caller().Str("service", service).Logger()
}

// FromContext returns the logger stored by the request middleware, or the
// global logger when none is present.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	return &log.Logger
}

// WithContext attaches l to ctx.
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}
