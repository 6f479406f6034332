// Copyright 2024 The Mason Authors.

package logging

import (
	"github.com/sirupsen/logrus"
)

// logrusLogger is the default, production Logger implementation. It wraps
// sirupsen/logrus exactly as the teacher repo does throughout
// pkg/codegen, pkg/extensions, and pkg/processors, behind the Logger
// collaborator contract instead of a concrete *logrus.Logger so the core
// never imports logrus directly.
type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrus wraps an existing logrus.FieldLogger (a *logrus.Logger or
// *logrus.Entry) as a Logger.
func NewLogrus(l logrus.FieldLogger) Logger {
	entry, ok := l.(*logrus.Entry)
	if !ok {
		entry = logrus.NewEntry(l.(*logrus.Logger))
	}
	return &logrusLogger{entry: entry}
}

func (l *logrusLogger) Info(args ...any)   { l.entry.Info(args...) }
func (l *logrusLogger) Warn(args ...any)   { l.entry.Warn(args...) }
func (l *logrusLogger) Err(args ...any)    { l.entry.Error(args...) }
func (l *logrusLogger) Detail(args ...any) { l.entry.Debug(args...) }

func (l *logrusLogger) WithField(key string, value any) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

// progress is a minimal ProgressHandle that logs start/update/done as
// info-level lines; the teacher has no real progress-bar dependency, and
// a terminal UI is explicitly an external collaborator (spec.md §1), so
// this is as far as the core goes.
type progress struct {
	entry *logrus.Entry
	label string
}

func (l *logrusLogger) Progress(label string) ProgressHandle {
	entry := l.entry.WithField("progress", label)
	entry.Info("started")
	return &progress{entry: entry, label: label}
}

func (p *progress) Update(msg string) { p.entry.Info(msg) }
func (p *progress) Done()             { p.entry.Info("done") }
