// Copyright 2024 The Mason Authors.

package hook

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

func TestHasRunEntrypoint(t *testing.T) {
	assert.Assert(t, hasRunEntrypoint([]byte("function run(context) { return 1; }")))
	assert.Assert(t, hasRunEntrypoint([]byte("def run(context):\n  pass")))
	assert.Assert(t, !hasRunEntrypoint([]byte("function other() {}")))
}

type fakeInstaller struct {
	calls int
}

func (f *fakeInstaller) Install(_ context.Context, _ []byte, destDir string) error {
	f.calls++
	return os.WriteFile(filepath.Join(destDir, "marker"), []byte("ok"), 0o644)
}

func TestDependencyCacheInstallsOncePerDigest(t *testing.T) {
	root := t.TempDir()
	deps := newDependencyCache(root)
	installer := &fakeInstaller{}

	dir1, err := deps.ensure(context.Background(), "hooks/pre_gen.js", []byte("manifest-a"), installer)
	assert.NilError(t, err)

	dir2, err := deps.ensure(context.Background(), "hooks/pre_gen.js", []byte("manifest-a"), installer)
	assert.NilError(t, err)

	assert.Equal(t, dir1, dir2)
	assert.Equal(t, installer.calls, 1)

	_, err = os.Stat(filepath.Join(dir1, "marker"))
	assert.NilError(t, err)
}

func TestDependencyCacheSkipsWhenNoManifest(t *testing.T) {
	deps := newDependencyCache(t.TempDir())
	installer := &fakeInstaller{}

	dir, err := deps.ensure(context.Background(), "hooks/pre_gen.js", nil, installer)
	assert.NilError(t, err)
	assert.Equal(t, dir, "")
	assert.Equal(t, installer.calls, 0)
}
