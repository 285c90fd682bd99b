package upromise

import "log/slog"

// DispatcherOption configures a Dispatcher constructed by NewDispatcher.
type DispatcherOption interface {
	configureDispatcher(*Dispatcher)
}

type loggerOption struct{ logger *slog.Logger }

func (o loggerOption) configureDispatcher(d *Dispatcher) { d.logger = o.logger }

// WithLogger sets the structured logger a Dispatcher uses to trace task
// scheduling and promise settlement at debug level. It defaults to
// slog.Default(), so nothing is logged unless the default logger (or the
// one passed here) has a handler configured to emit debug records.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return loggerOption{logger: logger}
}

// GeneratorOption configures a Generator constructed by NewGenerator.
type GeneratorOption interface {
	configureGenerator(*Generator)
}

// AsyncGeneratorOption configures an AsyncGenerator constructed by
// NewAsyncGenerator.
type AsyncGeneratorOption interface {
	configureAsyncGenerator(*AsyncGenerator)
}

type nameOption string

func (o nameOption) configureGenerator(g *Generator)           { g.name = string(o) }
func (o nameOption) configureAsyncGenerator(a *AsyncGenerator) { a.name = string(o) }

// WithName attaches a name to a Generator or AsyncGenerator, used only to
// correlate its debug-level pull log lines (the dispatcher logs
// every resumed task by coroutine id regardless; a name makes those lines
// legible when more than one generator shares a dispatcher). It has no
// effect on scheduling or settlement behavior.
func WithName(name string) interface {
	GeneratorOption
	AsyncGeneratorOption
} {
	return nameOption(name)
}
