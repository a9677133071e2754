package buildsys

import (
	"context"

	"github.com/rs/zerolog"
)

type logKey struct{}

// Logger returns the logger attached to ctx. Without one, a disabled logger is
// returned so library code never has to check.
func Logger(ctx context.Context) *zerolog.Logger {
	logger, ok := ctx.Value(logKey{}).(*zerolog.Logger)
	if !ok || logger == nil {
		nop := zerolog.Nop()
		return &nop
	}

	return logger
}

// WithLogger attaches the given logger to the context
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	return context.WithValue(ctx, logKey{}, logger)
}

// Heading logs msg as the title of the following steps ("### msg" on the console)
func Heading(ctx context.Context, msg string) {
	Logger(ctx).Info().
		Bool("heading", true).
		Msg(msg)
}
