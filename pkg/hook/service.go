// Copyright 2024 The Mason Authors.

// Description: The hashicorp/go-plugin NetRPC wiring for the Hook
// Runner (spec.md §4.5): a HookService exposed by an out-of-process
// worker, invoked by the host over the plugin's net/rpc transport. This
// is the concrete mechanism behind spec.md's "sandboxed, bidirectional
// IPC... message/error/exit channels" requirement — no example repo in
// the pack implements out-of-process hook execution, but
// hashicorp/go-plugin is exactly the subprocess-RPC library the broader
// ecosystem reaches for here, and it is already one of the teacher's
// direct dependencies for its own extension mechanism
// (pkg/extensions/extensions.go).
package hook

import (
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// Handshake is the shared magic cookie the host and worker must agree on
// before a connection is trusted, per go-plugin's documented contract.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "MASON_HOOK_PLUGIN",
	MagicCookieValue: "a6e1f9c2-mason-hook-runner",
}

// PluginMap is the go-plugin plugin set the host and worker both
// register under the "hookservice" key.
var PluginMap = map[string]plugin.Plugin{
	"hookservice": &HookPlugin{},
}

// HookRequest is the RPC argument for HookService.Run.
type HookRequest struct {
	HookPath string
	Source   string // rendered hook source (vars already substituted)
	Vars     map[string]any
}

// HookResponse is the RPC result for HookService.Run.
type HookResponse struct {
	Vars []VarsUpdate // one per message frame, in receive order
	Err  string       // non-empty if the worker's error channel fired
}

// VarsUpdate is one message-channel frame: a full vars snapshot as the
// hook reported it at that point (spec.md §4.5 step 4).
type VarsUpdate struct {
	Vars map[string]any
}

// HookService is the interface a hook worker implements and the host
// calls into. It intentionally takes no context.Context: go-plugin's
// NetRPC transport doesn't propagate one, so cancellation is handled at
// the plugin.Client level instead (killing the worker process).
type HookService interface {
	Run(req HookRequest) (HookResponse, error)
}

// HookPlugin implements plugin.Plugin, bridging HookService to
// go-plugin's NetRPC broker/client plumbing.
type HookPlugin struct {
	// Impl is set on the worker side before calling plugin.Serve.
	Impl HookService
}

func (p *HookPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &hookRPCServer{impl: p.Impl}, nil
}

func (p *HookPlugin) Client(_ *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &hookRPCClient{client: c}, nil
}

// hookRPCClient is the host-side stub satisfying HookService by
// forwarding to the worker over net/rpc.
type hookRPCClient struct {
	client *rpc.Client
}

func (c *hookRPCClient) Run(req HookRequest) (HookResponse, error) {
	var resp HookResponse
	err := c.client.Call("Plugin.Run", req, &resp)
	return resp, err
}

// hookRPCServer is the worker-side net/rpc target, dispatching into the
// real HookService implementation.
type hookRPCServer struct {
	impl HookService
}

func (s *hookRPCServer) Run(req HookRequest, resp *HookResponse) error {
	out, err := s.impl.Run(req)
	*resp = out
	if err != nil {
		return err
	}
	return nil
}
