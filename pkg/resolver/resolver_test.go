// Copyright 2024 The Mason Authors.

package resolver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/mason-tool/mason/pkg/brick"
	"github.com/mason-tool/mason/pkg/resolver"
)

func writeBrickFixture(t *testing.T, dir string) {
	t.Helper()
	assert.NilError(t, os.MkdirAll(filepath.Join(dir, "__brick__"), 0o755))
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "brick.yaml"), []byte("name: greeting\nversion: 1.0.0\n"), 0o644))
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "__brick__", "GREETINGS.md"), []byte("Hi {{name}}!"), 0o644))
}

func TestResolvePathIsContentAddressedAndIdempotent(t *testing.T) {
	src := t.TempDir()
	writeBrickFixture(t, src)

	cacheRoot := t.TempDir()
	cache := resolver.New(cacheRoot, false)

	first, err := cache.Resolve(context.Background(), brick.PathRef(src))
	assert.NilError(t, err)
	assert.Equal(t, first.Brick.Name, "greeting")
	assert.Assert(t, len(first.ContentHash) == 40)

	second, err := cache.Resolve(context.Background(), brick.PathRef(src))
	assert.NilError(t, err)
	assert.Equal(t, first.ContentHash, second.ContentHash)
	assert.Equal(t, first.CanonicalCacheDir, second.CanonicalCacheDir)
}

func TestResolveGitRequiresNetwork(t *testing.T) {
	cache := resolver.New(t.TempDir(), false)
	_, err := cache.Resolve(context.Background(), brick.GitRef("https://example.com/repo.git", "", ""))

	var disabled *brick.NetworkDisabled
	assert.Assert(t, errors.As(err, &disabled))
}

func TestResolveRegistryRequiresCollaborator(t *testing.T) {
	cache := resolver.New(t.TempDir(), true)
	_, err := cache.Resolve(context.Background(), brick.RegistryRef("greeting", ">=1.0.0"))

	var regErr *brick.RegistryError
	assert.Assert(t, errors.As(err, &regErr))
}

func TestCacheClearRemovesMaterializedEntries(t *testing.T) {
	src := t.TempDir()
	writeBrickFixture(t, src)

	cacheRoot := t.TempDir()
	cache := resolver.New(cacheRoot, false)

	_, err := cache.Resolve(context.Background(), brick.PathRef(src))
	assert.NilError(t, err)

	assert.NilError(t, cache.CacheClear())

	entries, err := os.ReadDir(filepath.Join(cacheRoot, "bricks"))
	assert.Assert(t, err != nil || len(entries) == 0)
}
