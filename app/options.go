package app

import "log/slog"

type Option interface {
	apply(app *App)
}

type withLogger struct {
	logger *slog.Logger
}

func (w withLogger) apply(app *App) {
	app.logger = w.logger
}

func WithLogger(logger *slog.Logger) Option {
	return withLogger{logger}
}

type withSynthesizer struct {
	s Synthesizer
}

func (w withSynthesizer) apply(app *App) {
	app.synth = w.s
}

// WithSynthesizer replaces the Google Cloud Text-to-Speech client. The
// App closes s on Close if it implements io.Closer.
func WithSynthesizer(s Synthesizer) Option {
	return withSynthesizer{s}
}
