// Copyright 2024 The Mason Authors.

package loader

import (
	"github.com/mason-tool/mason/pkg/brick"
	"github.com/mason-tool/mason/pkg/bundle"
)

// LoadFromBundle decodes a brick from bundle bytes, accepting either the
// binary universal format or the text source-wrapper format (spec.md
// §4.2's loadFromBundle(bytes|text) entry point).
func LoadFromBundle(data []byte) (*brick.Brick, error) {
	if b, err := bundle.DecodeUniversal(data); err == nil {
		return b, nil
	}
	return bundle.DecodeSource(data)
}
