package transitionx

import "log/slog"

type options struct {
	logger  *slog.Logger
	strings Interner
}

// Option configures a System via the functional options pattern.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithInterner shares an existing string table with the system, for example
// one that gold annotations were interned into.
func WithInterner(i Interner) Option {
	return func(o *options) {
		o.strings = i
	}
}
