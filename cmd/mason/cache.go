// Copyright 2024 The Mason Authors.

package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mason-tool/mason/pkg/logging"
	"github.com/mason-tool/mason/pkg/resolver"
)

func newCacheCommand(logger logging.Logger) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "inspect or manage the brick cache",
		Subcommands: []*cli.Command{
			{
				Name:  "clear",
				Usage: "remove every materialized cache entry",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "cache-dir", Value: defaultCacheRoot(), Usage: "brick cache root"},
				},
				Action: func(c *cli.Context) error {
					cache := resolver.New(c.String("cache-dir"), false)
					if err := cache.CacheClear(); err != nil {
						return err
					}
					logger.Info("cache cleared", c.String("cache-dir"))
					return nil
				},
			},
		},
	}
}
