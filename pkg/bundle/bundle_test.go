// Copyright 2024 The Mason Authors.

package bundle_test

import (
	"testing"

	"github.com/blang/semver/v4"
	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"

	"github.com/mason-tool/mason/pkg/brick"
	"github.com/mason-tool/mason/pkg/bundle"
)

func fixtureBrick() *brick.Brick {
	return &brick.Brick{
		Name:        "greeting",
		Description: "says hi",
		Version:     semver.MustParse("1.2.3"),
		PublishTo:   "registry.example.com/greeting",
		Variables: []brick.VariableDef{
			{Name: "name", Type: brick.VariableTypeString, Prompt: "what's your name?"},
		},
		TemplateFiles: []brick.TemplateFile{
			{RelPath: "GREETINGS.md", Bytes: []byte("Hi {{name}}!")},
			{RelPath: "a/b.txt", Bytes: []byte("nested")},
		},
		Hooks: brick.Hooks{
			PreGen:  &brick.HookFile{RelPath: "pre_gen.js", Bytes: []byte("function run(ctx) {}")},
			PostGen: &brick.HookFile{RelPath: "post_gen.js", Bytes: []byte("function run(ctx) {}")},
		},
	}
}

func TestUniversalBundleRoundTrip(t *testing.T) {
	b := fixtureBrick()

	encoded, err := bundle.EncodeUniversal(b)
	assert.NilError(t, err)

	decoded, err := bundle.DecodeUniversal(encoded)
	assert.NilError(t, err)

	if diff := cmp.Diff(b, decoded, cmp.Comparer(func(a, b semver.Version) bool { return a.EQ(b) })); diff != "" {
		t.Fatalf("decodeUniversal(encodeUniversal(b)) != b (-want +got):\n%s", diff)
	}
}

func TestSourceBundleRoundTrip(t *testing.T) {
	b := fixtureBrick()

	src, err := bundle.EncodeSource("bundles", b)
	assert.NilError(t, err)

	decoded, err := bundle.DecodeSource(src)
	assert.NilError(t, err)
	assert.Equal(t, decoded.Name, b.Name)
	assert.Equal(t, len(decoded.TemplateFiles), len(b.TemplateFiles))
}

func TestDecodeSourceMissingConstant(t *testing.T) {
	_, err := bundle.DecodeSource([]byte("package bundles\n"))
	assert.ErrorContains(t, err, "no masonBundleData")
}

func TestDecodeUniversalCorruptData(t *testing.T) {
	_, err := bundle.DecodeUniversal([]byte("not an xz stream"))
	assert.Assert(t, err != nil)
}
