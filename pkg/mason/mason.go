// Copyright 2024 The Mason Authors.

// Description: API for interacting with Mason. Grounded on
// pkg/stencil/stencil.go's role as "an entry point for interacting with
// Stencil": this package wires the Resolver, Generator, and Hook Runner
// behind one facade so cmd/mason (and any other embedder) doesn't
// construct the pipeline by hand.
package mason

import (
	"context"

	"github.com/mason-tool/mason/pkg/brick"
	"github.com/mason-tool/mason/pkg/config"
	"github.com/mason-tool/mason/pkg/generator"
	"github.com/mason-tool/mason/pkg/logging"
	"github.com/mason-tool/mason/pkg/render"
	"github.com/mason-tool/mason/pkg/resolver"
)

// Mason glues brick resolution, caching, and generation into one call.
type Mason struct {
	Config    config.Config
	Cache     *resolver.Cache
	Renderer  *render.Renderer
	Generator *generator.Generator
	Logger    logging.Logger
}

// New constructs a Mason from cfg. hooks may be nil if the caller never
// generates bricks that ship hooks.
func New(cfg config.Config, logger logging.Logger, hooks generator.HookRunner) *Mason {
	r := render.New()
	cache := resolver.New(cfg.CacheRoot, cfg.AllowNetwork)
	gen := generator.New(r, hooks, logger)

	return &Mason{
		Config:    cfg,
		Cache:     cache,
		Renderer:  r,
		Generator: gen,
		Logger:    logger,
	}
}

// Generate resolves ref, then renders it into targetDir with vars.
func (m *Mason) Generate(ctx context.Context, ref brick.BrickRef, targetDir string, vars map[string]any) (*brick.GenerateReport, error) {
	resolved, err := m.Cache.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	if m.Logger != nil {
		progress := m.Logger.Progress("generating " + resolved.Brick.Name)
		defer progress.Done()
	}

	return m.Generator.Generate(ctx, resolved.Brick, targetDir, vars, m.Config.CollisionPolicy)
}

// ClearCache removes every materialized cache entry.
func (m *Mason) ClearCache() error {
	return m.Cache.CacheClear()
}
