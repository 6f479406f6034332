// Copyright 2024 The Mason Authors.

package loader_test

import (
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"gotest.tools/v3/assert"

	"github.com/mason-tool/mason/pkg/brick"
	"github.com/mason-tool/mason/pkg/loader"
)

func write(t *testing.T, fsys billy.Filesystem, path, content string) {
	t.Helper()
	assert.NilError(t, util.WriteFile(fsys, path, []byte(content), 0o644))
}

func TestLoadFromDirHappyPath(t *testing.T) {
	fsys := memfs.New()
	write(t, fsys, "brick.yaml", "name: greeting\ndescription: says hi\nversion: 1.0.0\nvars:\n  name: \"what's your name?\"\n")
	write(t, fsys, "__brick__/GREETINGS.md", "Hi {{name}}!")
	write(t, fsys, "hooks/pre_gen.js", "function run(ctx) {}")
	write(t, fsys, "hooks/post_gen.js", "function run(ctx) {}")
	write(t, fsys, "hooks/package.json", "{}")

	b, err := loader.LoadFromDir(fsys, "")
	assert.NilError(t, err)
	assert.Equal(t, b.Name, "greeting")
	assert.Equal(t, b.Version.String(), "1.0.0")
	assert.Equal(t, len(b.Variables), 1)
	assert.Equal(t, b.Variables[0].Name, "name")
	assert.Equal(t, b.Variables[0].Prompt, "what's your name?")

	assert.Equal(t, len(b.TemplateFiles), 1)
	assert.Equal(t, b.TemplateFiles[0].RelPath, "GREETINGS.md")
	assert.Equal(t, string(b.TemplateFiles[0].Bytes), "Hi {{name}}!")

	assert.Assert(t, b.Hooks.PreGen != nil)
	assert.Assert(t, b.Hooks.PostGen != nil)
	assert.DeepEqual(t, b.Hooks.Manifest, []byte("{}"))
}

func TestLoadFromDirPreservesVarsDeclarationOrder(t *testing.T) {
	fsys := memfs.New()
	write(t, fsys, "brick.yaml", "name: greeting\nvars:\n  zebra: \"z?\"\n  apple: \"a?\"\n  mango: \"m?\"\n")
	write(t, fsys, "__brick__/a.txt", "x")

	b, err := loader.LoadFromDir(fsys, "")
	assert.NilError(t, err)

	var names []string
	for _, v := range b.Variables {
		names = append(names, v.Name)
	}
	assert.DeepEqual(t, names, []string{"zebra", "apple", "mango"})
}

func TestLoadFromDirMissingMetadata(t *testing.T) {
	fsys := memfs.New()
	write(t, fsys, "__brick__/a.txt", "x")

	_, err := loader.LoadFromDir(fsys, "")
	var missing *brick.BrickMissingMetadata
	assert.Assert(t, errors.As(err, &missing))
}

func TestLoadFromDirMissingTemplateRoot(t *testing.T) {
	fsys := memfs.New()
	write(t, fsys, "brick.yaml", "name: greeting\n")

	_, err := loader.LoadFromDir(fsys, "")
	var missing *brick.BrickMissingTemplateRoot
	assert.Assert(t, errors.As(err, &missing))
}

func TestLoadFromDirInvalidName(t *testing.T) {
	fsys := memfs.New()
	write(t, fsys, "brick.yaml", "name: Not-Valid\n")
	write(t, fsys, "__brick__/a.txt", "x")

	_, err := loader.LoadFromDir(fsys, "")
	var malformed *brick.BrickMalformedMetadata
	assert.Assert(t, errors.As(err, &malformed))
}
