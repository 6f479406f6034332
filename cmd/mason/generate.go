// Copyright 2024 The Mason Authors.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/mason-tool/mason/pkg/brick"
	"github.com/mason-tool/mason/pkg/config"
	"github.com/mason-tool/mason/pkg/hook"
	"github.com/mason-tool/mason/pkg/logging"
	"github.com/mason-tool/mason/pkg/mason"
	"github.com/mason-tool/mason/pkg/prompt"
)

func newGenerateCommand(logger logging.Logger) *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "generate a brick into a destination directory",
		ArgsUsage: "<brick-ref>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dest", Value: ".", Usage: "destination directory"},
			&cli.StringSliceFlag{Name: "set", Usage: "variable assignment in key=value form"},
			&cli.StringFlag{Name: "on-conflict", Value: string(brick.OnConflictPrompt), Usage: "prompt|overwrite|skip|append"},
			&cli.StringFlag{Name: "cache-dir", Value: defaultCacheRoot(), Usage: "brick cache root"},
			&cli.BoolFlag{Name: "no-network", Usage: "disallow git/registry resolution"},
			&cli.DurationFlag{Name: "hook-timeout", Value: 30 * time.Second},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("usage: mason generate <brick-ref>")
			}

			ref, err := parseRef(c.Args().First())
			if err != nil {
				return err
			}

			vars, err := parseSetFlags(c.StringSlice("set"))
			if err != nil {
				return err
			}

			self, err := os.Executable()
			if err != nil {
				return errors.Wrap(err, "locate mason binary for hook worker")
			}

			cfg := config.Config{
				CacheRoot:    c.String("cache-dir"),
				HookTimeout:  c.Duration("hook-timeout"),
				AllowNetwork: !c.Bool("no-network"),
				CollisionPolicy: brick.CollisionPolicy{
					OnConflict:           brick.OnConflict(c.String("on-conflict")),
					FileConflictResolver: promptConflictResolver,
				},
			}

			runner := hook.New(nil, self, []string{"hook-worker"}, cfg.HookTimeout)
			m := mason.New(cfg, logger, runner)
			runner.Renderer = m.Renderer

			resolved, err := m.Cache.Resolve(c.Context, ref)
			if err != nil {
				return err
			}

			vars, err = prompt.FillMissing(resolved.Brick.Variables, vars)
			if err != nil {
				return err
			}

			report, err := m.Generator.Generate(c.Context, resolved.Brick, c.String("dest"), vars, cfg.CollisionPolicy)
			if err != nil {
				return err
			}

			for _, f := range report.Files {
				logger.Info(string(f.Disposition), f.AbsPath)
			}
			return nil
		},
	}
}

func parseSetFlags(assignments []string) (map[string]any, error) {
	vars := map[string]any{}
	for _, kv := range assignments {
		idx := strings.IndexByte(kv, '=')
		if idx < 0 {
			return nil, errors.Errorf("invalid --set value %q, expected key=value", kv)
		}
		vars[kv[:idx]] = kv[idx+1:]
	}
	return vars, nil
}

// parseRef classifies a CLI-supplied brick reference into path, git, or
// registry form. A reference containing "://" or ending in ".git" is
// git; one that exists as a local directory, or that starts with "." or
// "/", is path; anything else is treated as a registry name, optionally
// with an "@constraint" suffix.
func parseRef(raw string) (brick.BrickRef, error) {
	if strings.Contains(raw, "://") || strings.HasSuffix(raw, ".git") {
		url, ref, subPath := raw, "", ""
		if at := strings.LastIndexByte(url, '@'); at > strings.Index(url, "://") {
			ref = url[at+1:]
			url = url[:at]
		}
		start := strings.Index(url, "://") + len("://")
		if start < len("://") {
			start = 0
		}
		if hash := strings.Index(url[start:], "//"); hash >= 0 {
			subPath = url[start+hash+2:]
			url = url[:start+hash]
		}
		return brick.GitRef(url, ref, subPath), nil
	}

	if info, err := os.Stat(raw); err == nil && info.IsDir() {
		return brick.PathRef(raw), nil
	}
	if strings.HasPrefix(raw, ".") || strings.HasPrefix(raw, "/") {
		return brick.PathRef(raw), nil
	}

	name, constraint := raw, ""
	if at := strings.LastIndexByte(raw, '@'); at >= 0 {
		name, constraint = raw[:at], raw[at+1:]
	}
	return brick.RegistryRef(name, constraint), nil
}

func promptConflictResolver(path string, existing, proposed []byte) (brick.OnConflict, error) {
	// A non-interactive default: prefer safety over data loss when no
	// terminal is attached to answer a prompt.
	_ = existing
	_ = proposed
	_ = path
	return brick.OnConflictSkip, nil
}

func defaultCacheRoot() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "mason")
	}
	return ".mason-cache"
}
