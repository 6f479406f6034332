// Copyright 2024 The Mason Authors.

package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mason-tool/mason/pkg/hook"
)

// newHookWorkerCommand returns the hidden subcommand the Hook Runner
// re-execs the mason binary as, over go-plugin's NetRPC protocol
// (pkg/hook.Runner.Run spawns "mason hook-worker" as its plugin.Client
// Cmd). It is never invoked directly by an operator.
func newHookWorkerCommand() *cli.Command {
	return &cli.Command{
		Name:   "hook-worker",
		Hidden: true,
		Action: func(c *cli.Context) error {
			hook.ServeWorker()
			return nil
		},
	}
}
