// Copyright 2024 The Mason Authors.

// Description: Logger is the external collaborator contract the core
// reports progress through (spec.md §6). The core never inspects a
// Logger's results; it is purely side-effecting.
package logging

// ProgressHandle is returned by Logger.Progress and updated as a
// long-running step proceeds.
type ProgressHandle interface {
	Update(msg string)
	Done()
}

// Logger is the interface every Mason component accepts instead of
// depending on a concrete logging library directly.
type Logger interface {
	Info(args ...any)
	Warn(args ...any)
	Err(args ...any)
	Detail(args ...any)
	Progress(label string) ProgressHandle
}

// WithField mirrors logrus.FieldLogger's structured-logging convention;
// it's a separate interface so a Logger can optionally support it without
// forcing every embedder to.
type WithField interface {
	WithField(key string, value any) Logger
}
