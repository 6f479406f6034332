// Copyright 2024 The Mason Authors.

// Description: The worker side of the Hook Runner: hosted inside the
// subprocess spawned by Runner.Run, it executes the rendered hook
// source via the scripting toolchain its extension implies and
// translates that process's stdout/stderr/exit status into the
// message/error/exit shape spec.md §4.5 describes.
package hook

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

// interpreterFor maps a hook's file extension to the external toolchain
// that runs it. Mason doesn't embed a script interpreter itself; it
// shells out the same way a brick author's own tooling would.
var interpreterFor = map[string]string{
	".js":  "node",
	".mjs": "node",
	".py":  "python3",
	".rb":  "ruby",
	".sh":  "sh",
}

// execHookService is the HookService implementation registered by
// ServeWorker. Each Run call writes the rendered source to a temp file,
// execs the matching interpreter, and reads newline-delimited JSON vars
// snapshots from stdout as the message channel.
type execHookService struct{}

func (execHookService) Run(req HookRequest) (HookResponse, error) {
	interp, ok := interpreterFor[strings.ToLower(filepath.Ext(req.HookPath))]
	if !ok {
		return HookResponse{Err: "no interpreter registered for " + req.HookPath}, nil
	}

	dir, err := os.MkdirTemp("", "mason-hook-")
	if err != nil {
		return HookResponse{}, err
	}
	defer os.RemoveAll(dir)

	scriptPath := filepath.Join(dir, filepath.Base(req.HookPath))
	if err := os.WriteFile(scriptPath, []byte(req.Source), 0o700); err != nil {
		return HookResponse{}, err
	}

	initialVars, err := json.Marshal(req.Vars)
	if err != nil {
		return HookResponse{}, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, interp, scriptPath, string(initialVars)) //nolint:gosec // interp/scriptPath are worker-internal, not attacker-controlled
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return HookResponse{}, err
	}

	if err := cmd.Start(); err != nil {
		return HookResponse{}, err
	}

	var updates []VarsUpdate
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		var snapshot map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &snapshot); err != nil {
			continue // not a vars frame; hook scripts may log freely to stdout
		}
		updates = append(updates, VarsUpdate{Vars: snapshot})
	}

	waitErr := cmd.Wait() // the "exit" channel: we only return once this resolves

	if waitErr != nil {
		return HookResponse{Vars: updates, Err: strings.TrimSpace(stderr.String())}, nil
	}
	return HookResponse{Vars: updates}, nil
}

// ServeWorker blocks serving the HookService plugin over stdin/stdout,
// the way pkg/extensions/extensions.go's module side blocks in
// plugin.Serve. cmd/mason's hidden hook-worker subcommand calls this.
func ServeWorker() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins: map[string]plugin.Plugin{
			"hookservice": &HookPlugin{Impl: execHookService{}},
		},
		Logger: hclog.New(&hclog.LoggerOptions{
			Name:   "mason-hook-worker",
			Output: os.Stderr,
			Level:  hclog.Warn,
		}),
	})
}
