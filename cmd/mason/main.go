// Copyright 2024 The Mason Authors.

// Description: This file is the entrypoint for the mason CLI command.

package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/mason-tool/mason/pkg/brick"
	"github.com/mason-tool/mason/pkg/logging"
)

// version is set by the release pipeline at build time.
var version = "dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logrus.New()
	logger := logging.NewLogrus(log)

	app := &cli.App{
		Name:    "mason",
		Usage:   "generate projects and files from reusable bricks",
		Version: version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				log.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			newGenerateCommand(logger),
			newCacheCommand(logger),
			newHookWorkerCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Error(err)
		if brick.IsUsageError(err) {
			os.Exit(64)
		}
		os.Exit(70)
	}
}
