// Copyright 2024 The Mason Authors.

// Description: Resolves a brick.BrickRef to a brick.ResolvedBrick,
// materializing content-addressed cache entries under cacheRoot/bricks.
// Grounded on pkg/codegen/codegen.go's git-backed template fetching
// (GitRepoFs, determineHeadBranch) and pkg/stencil/stencil.go's
// lockfile-as-cache-metadata pattern; the single-flight-per-key
// materialization lock is new (spec.md §4.3 has no teacher analogue) and
// implemented with a plain keyed mutex rather than a third-party
// file-locking package, since none of the examples carry one (DESIGN.md).
package resolver

import (
	"context"
	"os"
	"path"
	"sync"

	"github.com/blang/semver/v4"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pkg/errors"

	"github.com/mason-tool/mason/pkg/brick"
	"github.com/mason-tool/mason/pkg/loader"
)

// Registry is the external collaborator a Registry-kind BrickRef is
// resolved against. It is not implemented by this package: a real
// deployment supplies its own client (an HTTP index lookup, an OCI
// registry client, etc.) satisfying this interface.
type Registry interface {
	// Resolve returns the encoded bundle bytes (spec.md §4.6) for name at
	// a version satisfying constraint, and the resolved version.
	Resolve(ctx context.Context, name, constraint string) (data []byte, version semver.Version, err error)
}

// Cache resolves and caches bricks under Root/bricks/<key>/.
type Cache struct {
	Root         string
	AllowNetwork bool
	Registry     Registry

	locks sync.Map // map[string]*sync.Mutex, keyed by cache key
}

// New returns a Cache rooted at root.
func New(root string, allowNetwork bool) *Cache {
	return &Cache{Root: root, AllowNetwork: allowNetwork}
}

// Resolve resolves ref, materializing it into the cache if needed.
func (c *Cache) Resolve(ctx context.Context, ref brick.BrickRef) (*brick.ResolvedBrick, error) {
	switch ref.Kind {
	case brick.RefPath:
		return c.resolvePath(ref)
	case brick.RefGit:
		return c.resolveGit(ctx, ref)
	case brick.RefRegistry:
		return c.resolveRegistry(ctx, ref)
	default:
		return nil, errors.Errorf("unknown ref kind %v", ref.Kind)
	}
}

// CacheClear removes every materialized entry under cacheRoot/bricks, a
// supplemented operation (spec.md has no teacher analogue for explicit
// cache eviction, but original_source/ implies one is expected of any
// long-lived scaffold cache).
func (c *Cache) CacheClear() error {
	return os.RemoveAll(path.Join(c.Root, "bricks"))
}

// withKeyLock serializes materialization for a single cache key: the
// first caller for a key performs the work, later concurrent callers for
// the same key block until it finishes (spec.md §4.3 concurrency note).
func (c *Cache) withKeyLock(key string, fn func() error) error {
	lockVal, _ := c.locks.LoadOrStore(key, &sync.Mutex{})
	lock := lockVal.(*sync.Mutex)
	lock.Lock()
	defer lock.Unlock()
	return fn()
}

func (c *Cache) cacheDir(key string) string {
	return path.Join(c.Root, "bricks", key)
}

func (c *Cache) resolvePath(ref brick.BrickRef) (*brick.ResolvedBrick, error) {
	src := osfs.New(ref.Dir)
	hash, err := hashTree(src, "")
	if err != nil {
		return nil, errors.Wrap(err, "hash path brick")
	}

	dir, err := c.materialize(hash, func(tmp string) error {
		return copyTree(src, "", osfs.New(tmp), "")
	})
	if err != nil {
		return nil, err
	}

	return c.loadResolved(ref, dir, hash)
}

func (c *Cache) resolveGit(ctx context.Context, ref brick.BrickRef) (*brick.ResolvedBrick, error) {
	if !c.AllowNetwork {
		return nil, &brick.NetworkDisabled{Ref: ref.String()}
	}

	clonedDir, err := cloneShallow(ctx, ref.URL, ref.Ref)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(clonedDir)

	src := dirFS(clonedDir)
	root := ref.SubPath

	hash, err := hashTree(src, root)
	if err != nil {
		return nil, errors.Wrap(err, "hash git brick")
	}

	dir, err := c.materialize(hash, func(tmp string) error {
		return copyTree(src, root, osfs.New(tmp), "")
	})
	if err != nil {
		return nil, err
	}

	return c.loadResolved(ref, dir, hash)
}

func (c *Cache) resolveRegistry(ctx context.Context, ref brick.BrickRef) (*brick.ResolvedBrick, error) {
	if !c.AllowNetwork {
		return nil, &brick.NetworkDisabled{Ref: ref.String()}
	}
	if c.Registry == nil {
		return nil, &brick.RegistryError{Cause: errors.New("no Registry collaborator configured")}
	}

	data, version, err := c.Registry.Resolve(ctx, ref.Name, ref.VersionConstraint)
	if err != nil {
		return nil, &brick.RegistryError{Cause: err}
	}

	key := ref.Name + "_" + version.String()

	dir, err := c.materialize(key, func(tmp string) error {
		b, err := decodeBundle(data)
		if err != nil {
			return err
		}
		return writeBrickToCache(osfs.New(tmp), b)
	})
	if err != nil {
		return nil, err
	}

	return c.loadResolved(ref, dir, key)
}

// materialize runs fn under the per-key lock, writing into a temp
// sibling directory and renaming on success so the cache is never
// observed half-written (spec.md §5 cancellation/consistency note). If
// the final directory already exists, re-resolution is a no-op
// (spec.md §4.3's "re-resolution is a no-op if the hash matches").
func (c *Cache) materialize(key string, fn func(tmp string) error) (string, error) {
	dir := c.cacheDir(key)

	err := c.withKeyLock(key, func() error {
		if _, statErr := os.Stat(dir); statErr == nil {
			return nil
		}

		tmp := dir + ".tmp"
		if err := os.RemoveAll(tmp); err != nil {
			return &brick.CacheWriteFailure{Dir: dir, Cause: err}
		}
		if err := os.MkdirAll(tmp, 0o755); err != nil {
			return &brick.CacheWriteFailure{Dir: dir, Cause: err}
		}

		if err := fn(tmp); err != nil {
			os.RemoveAll(tmp)
			return &brick.CacheWriteFailure{Dir: dir, Cause: err}
		}

		if err := os.Rename(tmp, dir); err != nil {
			os.RemoveAll(tmp)
			return &brick.CacheWriteFailure{Dir: dir, Cause: err}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return dir, nil
}

func (c *Cache) loadResolved(ref brick.BrickRef, dir, hash string) (*brick.ResolvedBrick, error) {
	fsys := osfs.New(dir)
	b, err := loader.LoadFromDir(fsys, "")
	if err != nil {
		return nil, err
	}
	return &brick.ResolvedBrick{Ref: ref, CanonicalCacheDir: dir, Brick: b, ContentHash: hash}, nil
}
