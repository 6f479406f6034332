// Copyright 2024 The Mason Authors.

package resolver

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"

	"github.com/mason-tool/mason/pkg/brick"
	"github.com/mason-tool/mason/pkg/bundle"
)

// renderBrickYAML re-serializes a decoded brick's metadata back into the
// brick.yaml shape the loader expects, so a registry-fetched brick lands
// in the cache in the same on-disk form as a path or git one.
func renderBrickYAML(b *brick.Brick) ([]byte, error) {
	vars := make(map[string]any, len(b.Variables))
	for _, v := range b.Variables {
		vars[v.Name] = map[string]any{
			"type":    string(v.Type),
			"default": v.Default,
			"prompt":  v.Prompt,
			"values":  v.Values,
		}
	}

	doc := map[string]any{
		"name":        b.Name,
		"description": b.Description,
		"version":     b.Version.String(),
		"publishTo":   b.PublishTo,
		"vars":        vars,
	}
	return yaml.Marshal(doc)
}

// decodeBundle decodes registry-fetched bytes into a brick via the
// Bundle Codec (spec.md §4.3's Registry algorithm step).
func decodeBundle(data []byte) (*brick.Brick, error) {
	return bundle.DecodeUniversal(data)
}

// writeBrickToCache materializes a decoded brick's files onto fsys as a
// brick.yaml + __brick__/ + hooks/ tree, so the cache entry can be
// re-loaded through the ordinary loader.LoadFromDir path.
func writeBrickToCache(fsys billy.Filesystem, b *brick.Brick) error {
	meta, err := renderBrickYAML(b)
	if err != nil {
		return err
	}
	if err := util.WriteFile(fsys, "brick.yaml", meta, 0o644); err != nil {
		return err
	}

	for _, f := range b.TemplateFiles {
		if err := util.WriteFile(fsys, "__brick__/"+f.RelPath, f.Bytes, 0o644); err != nil {
			return err
		}
	}

	if b.Hooks.PreGen != nil {
		if err := util.WriteFile(fsys, "hooks/"+b.Hooks.PreGen.RelPath, b.Hooks.PreGen.Bytes, 0o644); err != nil {
			return err
		}
	}
	if b.Hooks.PostGen != nil {
		if err := util.WriteFile(fsys, "hooks/"+b.Hooks.PostGen.RelPath, b.Hooks.PostGen.Bytes, 0o644); err != nil {
			return err
		}
	}
	if len(b.Hooks.Manifest) > 0 {
		if err := util.WriteFile(fsys, "hooks/dependencies.lock", b.Hooks.Manifest, 0o644); err != nil {
			return err
		}
	}

	return nil
}
