// Copyright 2024 The Mason Authors.

// Description: Renders a brick's template tree into a target directory.
// Grounded on pkg/codegen/codegen.go's Builder.WriteTemplate (the
// render-then-write-with-collision-handling flow) and pkg/stencil's
// action-logging convention ("Updated"/"Created" per file).
package generator

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/mason-tool/mason/pkg/brick"
	"github.com/mason-tool/mason/pkg/logging"
	"github.com/mason-tool/mason/pkg/render"
)

// HookRunner is the Generator's view of the Hook Runner (spec.md §4.5):
// run a hook against a mutable vars map, returning the vars the hook
// left behind. A nil HookRunner means the brick's hooks are skipped,
// which Generate treats as a no-op rather than an error.
type HookRunner interface {
	Run(ctx context.Context, hook *brick.HookFile, manifest []byte, vars map[string]any) (map[string]any, error)
}

// Generator renders a brick's TemplateFiles into a target directory.
type Generator struct {
	Renderer *render.Renderer
	Hooks    HookRunner
	Logger   logging.Logger
}

// New returns a Generator. hooks may be nil if the caller never invokes
// bricks carrying pre/post-gen hooks.
func New(r *render.Renderer, hooks HookRunner, logger logging.Logger) *Generator {
	return &Generator{Renderer: r, Hooks: hooks, Logger: logger}
}

// Generate implements spec.md §4.4's algorithm end to end.
func (g *Generator) Generate(ctx context.Context, b *brick.Brick, targetDir string,
	callerVars map[string]any, policy brick.CollisionPolicy) (*brick.GenerateReport, error) {
	vars, err := g.buildVars(b, callerVars)
	if err != nil {
		return nil, err
	}

	if b.Hooks.PreGen != nil && g.Hooks != nil {
		updated, err := g.Hooks.Run(ctx, b.Hooks.PreGen, b.Hooks.Manifest, vars)
		if err != nil {
			return nil, err
		}
		vars = updated
	}

	report := &brick.GenerateReport{}
	resolved := map[string]brick.OnConflict{}

	for _, tf := range b.TemplateFiles {
		relPath, err := g.Renderer.Render(tf.RelPath, vars)
		if err != nil {
			return nil, err
		}
		if containsEmptySegment(relPath) {
			continue
		}

		content, err := g.Renderer.RenderBytes(tf.Bytes, vars)
		if err != nil {
			return nil, err
		}

		destPath := filepath.Join(targetDir, filepath.FromSlash(relPath))
		file, err := g.writeOne(destPath, content, policy, resolved)
		if err != nil {
			return nil, err
		}
		report.Files = append(report.Files, *file)
	}

	if b.Hooks.PostGen != nil && g.Hooks != nil {
		if _, err := g.Hooks.Run(ctx, b.Hooks.PostGen, b.Hooks.Manifest, vars); err != nil {
			return nil, err
		}
	}

	return report, nil
}

// buildVars validates callerVars against b.Variables (spec.md §4.4 step
// 1), coerces declared types, and fills in a declared default only for a
// variable callerVars never set. A plain presence check decides that,
// not mergo: mergo's zero-value-means-empty merge semantics would
// overwrite an explicitly caller-set zero value (false, 0, "") with the
// brick's default, which is wrong for any boolean/number variable a
// caller deliberately sets to its zero value.
func (g *Generator) buildVars(b *brick.Brick, callerVars map[string]any) (map[string]any, error) {
	var missing []string
	for _, v := range b.Variables {
		if _, ok := callerVars[v.Name]; !ok && !v.HasDefault() {
			missing = append(missing, v.Name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &brick.VariableValidationError{Missing: missing}
	}

	merged := map[string]any{}
	for k, val := range callerVars {
		merged[k] = val
	}
	for _, v := range b.Variables {
		if _, ok := merged[v.Name]; !ok && v.HasDefault() {
			merged[v.Name] = v.Default
		}
	}

	for _, v := range b.Variables {
		coerced, err := coerce(v, merged[v.Name])
		if err != nil {
			return nil, err
		}
		merged[v.Name] = coerced
	}

	return merged, nil
}

// coerce converts a variable's supplied value to its declared type
// (spec.md §4.4's "Coerce numbers/booleans per declared type; arrays
// pass through").
func coerce(v brick.VariableDef, val any) (any, error) {
	if val == nil {
		return nil, nil
	}
	switch v.Type {
	case brick.VariableTypeNumber:
		switch n := val.(type) {
		case float64, int, int64:
			return n, nil
		case string:
			f, err := strconv.ParseFloat(n, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "variable %q is not a number", v.Name)
			}
			return f, nil
		}
	case brick.VariableTypeBoolean:
		switch b := val.(type) {
		case bool:
			return b, nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return nil, errors.Wrapf(err, "variable %q is not a boolean", v.Name)
			}
			return parsed, nil
		}
	}
	return val, nil
}

// containsEmptySegment reports whether a rendered path has a path
// segment that evaluated to nothing, which signals the file should be
// skipped entirely (spec.md §4.4 step 3a).
func containsEmptySegment(relPath string) bool {
	if relPath == "" {
		return true
	}
	for _, seg := range splitPath(relPath) {
		if seg == "" {
			return true
		}
	}
	return false
}

func splitPath(p string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(p); i++ {
		if p[i] == '/' {
			parts = append(parts, p[start:i])
			start = i + 1
		}
	}
	parts = append(parts, p[start:])
	return parts
}

// writeOne resolves the collision policy for a single destination path
// and performs the write, returning the resulting GeneratedFile record.
// resolved caches a prompt's outcome per destination within one
// Generate call (spec.md §4.4 step 3c).
func (g *Generator) writeOne(destPath string, content []byte, policy brick.CollisionPolicy,
	resolved map[string]brick.OnConflict) (*brick.GeneratedFile, error) {
	abs, err := filepath.Abs(destPath)
	if err != nil {
		return nil, &brick.FileWriteFailure{Path: destPath, Cause: err}
	}
	reportPath := filepath.ToSlash(abs)

	existing, err := os.ReadFile(destPath)
	if errors.Is(err, os.ErrNotExist) {
		if err := g.writeFile(destPath, content); err != nil {
			return nil, err
		}
		return &brick.GeneratedFile{AbsPath: reportPath, Disposition: brick.DispositionCreated, Bytes: content}, nil
	}
	if err != nil {
		return nil, &brick.FileWriteFailure{Path: destPath, Cause: err}
	}

	if bytesEqual(existing, content) {
		return &brick.GeneratedFile{AbsPath: reportPath, Disposition: brick.DispositionIdentical, Bytes: content}, nil
	}

	action := policy.OnConflict
	if cached, ok := resolved[destPath]; ok {
		action = cached
	} else if action == brick.OnConflictPrompt {
		if policy.FileConflictResolver == nil {
			return nil, errors.Errorf("collision policy is prompt but no FileConflictResolver was provided for %q", destPath)
		}
		resolvedAction, err := policy.FileConflictResolver(destPath, existing, content)
		if err != nil {
			return nil, err
		}
		action = resolvedAction
		resolved[destPath] = action
	}

	switch action {
	case brick.OnConflictOverwrite:
		if err := g.writeFile(destPath, content); err != nil {
			return nil, err
		}
		return &brick.GeneratedFile{AbsPath: reportPath, Disposition: brick.DispositionOverwritten, Bytes: content}, nil
	case brick.OnConflictAppend:
		combined := append(append([]byte{}, existing...), content...)
		if err := g.writeFile(destPath, combined); err != nil {
			return nil, err
		}
		return &brick.GeneratedFile{AbsPath: reportPath, Disposition: brick.DispositionAppended, Bytes: combined}, nil
	case brick.OnConflictSkip:
		return &brick.GeneratedFile{AbsPath: reportPath, Disposition: brick.DispositionSkipped, Bytes: existing}, nil
	default:
		return nil, errors.Errorf("unresolved collision action %q for %q", action, destPath)
	}
}

func (g *Generator) writeFile(destPath string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return &brick.FileWriteFailure{Path: destPath, Cause: err}
	}
	if err := os.WriteFile(destPath, content, 0o644); err != nil {
		return &brick.FileWriteFailure{Path: destPath, Cause: err}
	}
	if g.Logger != nil {
		g.Logger.Detail("wrote", destPath)
	}
	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
