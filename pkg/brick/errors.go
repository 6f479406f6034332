// Copyright 2024 The Mason Authors.

// Description: The error taxonomy every Mason component bubbles up to the
// generate boundary (spec.md §7). Each kind is its own struct so a caller
// can errors.As() into the specific shape it cares about instead of
// string-matching a message.
package brick

import "fmt"

// BrickMissingMetadata is returned by the loader when a brick directory
// has no brick.yaml.
type BrickMissingMetadata struct {
	Dir string
}

func (e *BrickMissingMetadata) Error() string {
	return fmt.Sprintf("brick at %q has no brick.yaml", e.Dir)
}

// BrickMalformedMetadata is returned when brick.yaml exists but doesn't
// parse as YAML, or fails the name/version invariants.
type BrickMalformedMetadata struct {
	Dir      string
	YAMLErr  error
}

func (e *BrickMalformedMetadata) Error() string {
	return fmt.Sprintf("brick at %q has malformed brick.yaml: %s", e.Dir, e.YAMLErr)
}

func (e *BrickMalformedMetadata) Unwrap() error { return e.YAMLErr }

// BrickMissingTemplateRoot is returned when a brick directory has no
// __brick__/ tree.
type BrickMissingTemplateRoot struct {
	Dir string
}

func (e *BrickMissingTemplateRoot) Error() string {
	return fmt.Sprintf("brick at %q has no __brick__ directory", e.Dir)
}

// GitFetchFailure is returned by the resolver when a git BrickRef cannot
// be cloned.
type GitFetchFailure struct {
	URL    string
	Ref    string
	Stderr string
}

func (e *GitFetchFailure) Error() string {
	return fmt.Sprintf("failed to fetch %s@%s: %s", e.URL, e.Ref, e.Stderr)
}

// RegistryError wraps a failure surfaced by the external RegistryClient
// collaborator.
type RegistryError struct {
	Cause error
}

func (e *RegistryError) Error() string { return fmt.Sprintf("registry error: %s", e.Cause) }
func (e *RegistryError) Unwrap() error { return e.Cause }

// NetworkDisabled is returned when a Git or Registry ref is resolved with
// Config.AllowNetwork set to false.
type NetworkDisabled struct {
	Ref string
}

func (e *NetworkDisabled) Error() string {
	return fmt.Sprintf("network access is disabled, cannot resolve %q", e.Ref)
}

// CacheWriteFailure is returned when the resolver cannot materialize a
// brick into the cache directory.
type CacheWriteFailure struct {
	Dir   string
	Cause error
}

func (e *CacheWriteFailure) Error() string {
	return fmt.Sprintf("failed to write cache entry %q: %s", e.Dir, e.Cause)
}
func (e *CacheWriteFailure) Unwrap() error { return e.Cause }

// VariableValidationError is returned when required variables (those
// with no default) are missing from the caller-supplied vars.
type VariableValidationError struct {
	Missing []string
}

func (e *VariableValidationError) Error() string {
	return fmt.Sprintf("missing required variable(s): %v", e.Missing)
}

// RenderError is returned by the template renderer on a syntactically
// invalid template.
type RenderError struct {
	Template string
	Offset   int
	Message  string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("template error at offset %d: %s", e.Offset, e.Message)
}

// FileWriteFailure is returned by the generator when it cannot write a
// rendered file to disk.
type FileWriteFailure struct {
	Path  string
	Cause error
}

func (e *FileWriteFailure) Error() string {
	return fmt.Sprintf("failed to write %q: %s", e.Path, e.Cause)
}
func (e *FileWriteFailure) Unwrap() error { return e.Cause }

// BundleDecodeError is returned when a bundle (or a file within one) fails
// to decode. Per spec.md §9's open question, this always surfaces instead
// of being silently dropped.
type BundleDecodeError struct {
	Path  string
	Cause error
}

func (e *BundleDecodeError) Error() string {
	return fmt.Sprintf("failed to decode bundle entry %q: %s", e.Path, e.Cause)
}
func (e *BundleDecodeError) Unwrap() error { return e.Cause }

// HookDependencyInstallFailure is returned when a hook's dependency
// manifest fails to install.
type HookDependencyInstallFailure struct {
	HookPath string
	Stderr   string
}

func (e *HookDependencyInstallFailure) Error() string {
	return fmt.Sprintf("failed to install dependencies for hook %q: %s", e.HookPath, e.Stderr)
}

// HookInvalidCharactersException is returned when a rendered hook source
// contains bytes the hook's language toolchain would reject.
type HookInvalidCharactersException struct {
	HookPath string
}

func (e *HookInvalidCharactersException) Error() string {
	return fmt.Sprintf("hook %q contains invalid characters after rendering", e.HookPath)
}

// HookMissingRunException is returned when a hook's rendered source has
// no run(context) entrypoint.
type HookMissingRunException struct {
	HookPath string
}

func (e *HookMissingRunException) Error() string {
	return fmt.Sprintf("hook %q does not expose a run(context) entrypoint", e.HookPath)
}

// HookRunException is returned when the hook worker process fails to
// spawn.
type HookRunException struct {
	HookPath string
	Cause    error
}

func (e *HookRunException) Error() string {
	return fmt.Sprintf("failed to run hook %q: %s", e.HookPath, e.Cause)
}
func (e *HookRunException) Unwrap() error { return e.Cause }

// HookExecutionException is returned when the hook worker reported an
// exception over its error channel.
type HookExecutionException struct {
	HookPath string
	Message  string
}

func (e *HookExecutionException) Error() string {
	return fmt.Sprintf("hook %q raised an exception: %s", e.HookPath, e.Message)
}

// IsUsageError reports whether err belongs to the "malformed input"
// class of the taxonomy, which the CLI maps to exit code 64 rather than
// 70 (spec.md §7).
func IsUsageError(err error) bool {
	switch err.(type) {
	case *BrickMissingMetadata, *BrickMalformedMetadata, *BrickMissingTemplateRoot,
		*VariableValidationError, *RenderError, *HookMissingRunException,
		*HookInvalidCharactersException:
		return true
	default:
		return false
	}
}
