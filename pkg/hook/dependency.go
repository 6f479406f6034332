// Copyright 2024 The Mason Authors.

package hook

import (
	"context"
	"crypto/sha1" //nolint:gosec // content-addressing, not a security boundary
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/mason-tool/mason/pkg/brick"
)

// DependencyInstaller performs whatever install step a hook's dependency
// manifest names (npm install, pip install, etc.). It is an external
// collaborator: the runner only owns the single-flight-per-digest
// bookkeeping around it (spec.md §4.5's dependency provisioning rule).
type DependencyInstaller interface {
	Install(ctx context.Context, manifest []byte, destDir string) error
}

// dependencyCache ensures at most one installer run per manifest digest,
// mirroring the resolver's per-key materialization lock.
type dependencyCache struct {
	root  string
	locks sync.Map // map[string]*sync.Mutex
}

func newDependencyCache(root string) *dependencyCache {
	return &dependencyCache{root: root}
}

// ensure installs manifest's dependencies under root/<sha1>/ if they
// aren't already there, returning that directory.
func (d *dependencyCache) ensure(ctx context.Context, hookPath string, manifest []byte, installer DependencyInstaller) (string, error) {
	if len(manifest) == 0 || installer == nil {
		return "", nil
	}

	sum := sha1.Sum(manifest) //nolint:gosec
	digest := hex.EncodeToString(sum[:])
	dir := filepath.Join(d.root, digest)

	lockVal, _ := d.locks.LoadOrStore(digest, &sync.Mutex{})
	lock := lockVal.(*sync.Mutex)
	lock.Lock()
	defer lock.Unlock()

	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir, nil
	}

	tmp := dir + ".tmp"
	if err := os.RemoveAll(tmp); err != nil {
		return "", &brick.HookDependencyInstallFailure{HookPath: hookPath, Stderr: err.Error()}
	}
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return "", &brick.HookDependencyInstallFailure{HookPath: hookPath, Stderr: err.Error()}
	}

	if err := installer.Install(ctx, manifest, tmp); err != nil {
		os.RemoveAll(tmp)
		return "", &brick.HookDependencyInstallFailure{HookPath: hookPath, Stderr: err.Error()}
	}

	if err := os.Rename(tmp, dir); err != nil {
		os.RemoveAll(tmp)
		return "", &brick.HookDependencyInstallFailure{HookPath: hookPath, Stderr: err.Error()}
	}
	return dir, nil
}

// defaultDependencyRoot is <tmp>/.mason, per spec.md §4.5.
func defaultDependencyRoot() string {
	return filepath.Join(os.TempDir(), ".mason")
}
