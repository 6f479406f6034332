// Copyright 2024 The Mason Authors.

// Description: Host-side Hook Runner: renders a hook's source, statically
// validates it, spawns a worker over go-plugin, and relays the worker's
// message/error/exit channels into the generator's vars-update contract
// (spec.md §4.5). Grounded on pkg/extensions/extensions.go's pattern of
// holding a plugin.Client per invocation and tearing it down with
// defer client.Kill(), adapted from a long-lived extension handshake to
// a one-shot per-hook invocation.
package hook

import (
	"context"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-plugin"
	"github.com/pkg/errors"

	"github.com/mason-tool/mason/pkg/brick"
	"github.com/mason-tool/mason/pkg/logging"
	"github.com/mason-tool/mason/pkg/render"
)

// Runner implements generator.HookRunner by spawning WorkerPath as a
// go-plugin subprocess for each hook invocation.
type Runner struct {
	Renderer   *render.Renderer
	WorkerPath string
	WorkerArgs []string
	Timeout    time.Duration
	Installer  DependencyInstaller
	Logger     logging.Logger

	deps *dependencyCache
}

// New returns a Runner that launches WorkerPath (typically the mason
// binary itself re-invoked with a hidden subcommand, see cmd/mason) to
// host each hook.
func New(r *render.Renderer, workerPath string, workerArgs []string, timeout time.Duration) *Runner {
	return &Runner{
		Renderer:   r,
		WorkerPath: workerPath,
		WorkerArgs: workerArgs,
		Timeout:    timeout,
		deps:       newDependencyCache(defaultDependencyRoot()),
	}
}

// Run implements generator.HookRunner.
func (r *Runner) Run(ctx context.Context, hookFile *brick.HookFile, manifest []byte, vars map[string]any) (map[string]any, error) {
	if _, err := r.deps.ensure(ctx, hookFile.RelPath, manifest, r.Installer); err != nil {
		return nil, err
	}

	rendered, err := r.Renderer.RenderBytes(hookFile.Bytes, vars)
	if err != nil {
		return nil, err
	}

	if !utf8.Valid(rendered) {
		return nil, &brick.HookInvalidCharactersException{HookPath: hookFile.RelPath}
	}
	if !hasRunEntrypoint(rendered) {
		return nil, &brick.HookMissingRunException{HookPath: hookFile.RelPath}
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  Handshake,
		Plugins:          PluginMap,
		Cmd:              exec.CommandContext(runCtx, r.WorkerPath, r.WorkerArgs...), //nolint:gosec // worker path is operator-configured, not user input
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolNetRPC},
	})
	defer client.Kill()

	protocol, err := client.Client()
	if err != nil {
		return nil, &brick.HookRunException{HookPath: hookFile.RelPath, Cause: err}
	}

	raw, err := protocol.Dispense("hookservice")
	if err != nil {
		return nil, &brick.HookRunException{HookPath: hookFile.RelPath, Cause: err}
	}

	svc, ok := raw.(HookService)
	if !ok {
		return nil, &brick.HookRunException{HookPath: hookFile.RelPath, Cause: errors.New("worker did not implement HookService")}
	}

	resp, err := svc.Run(HookRequest{HookPath: hookFile.RelPath, Source: string(rendered), Vars: vars})
	// Per spec.md §4.5 step 5: await exit (the RPC call returning is the
	// exit signal for a NetRPC-hosted worker) before raising any error
	// the worker's error channel carried.
	if err != nil {
		return nil, &brick.HookRunException{HookPath: hookFile.RelPath, Cause: err}
	}
	if resp.Err != "" {
		return nil, &brick.HookExecutionException{HookPath: hookFile.RelPath, Message: resp.Err}
	}

	finalVars := vars
	for _, update := range resp.Vars {
		finalVars = update.Vars
	}
	return finalVars, nil
}

// hasRunEntrypoint is a deliberately shallow static check (spec.md §4.5
// step 2 doesn't define a grammar, only "exposes a run(context)
// entrypoint"); it looks for the literal substring across the common
// scripting-language spellings of a function declaration.
func hasRunEntrypoint(source []byte) bool {
	s := strings.ToLower(string(source))
	candidates := []string{"function run(", "run = function(", "def run(", "run(context)", "run = (ctx"}
	for _, c := range candidates {
		if strings.Contains(s, c) {
			return true
		}
	}
	return false
}
