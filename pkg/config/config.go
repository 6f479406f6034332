// Copyright 2024 The Mason Authors.

// Package config holds the configuration struct the core accepts from its
// caller. Nothing in Mason's core reads from the environment or process
// globals (spec.md §6, §9's "Global state" note) — every run is
// parameterized explicitly so tests can swap cache roots per case.
package config

import (
	"time"

	"github.com/mason-tool/mason/pkg/brick"
)

// Config is passed in by the CLI (or any other embedder) at the start of
// a resolve/load/generate pipeline.
type Config struct {
	// CacheRoot is the directory bricks are materialized under
	// (<CacheRoot>/bricks/<key>/).
	CacheRoot string

	// CollisionPolicy is the default policy used when the Generator finds
	// an existing file at a rendered destination path.
	CollisionPolicy brick.CollisionPolicy

	// HookTimeout bounds how long the Hook Runner waits for a hook's exit
	// signal. Zero or a negative value selects the runner's 30-second
	// default.
	HookTimeout time.Duration

	// AllowNetwork gates Git and Registry ref resolution. When false,
	// resolving either kind fails fast with brick.NetworkDisabled.
	AllowNetwork bool
}
