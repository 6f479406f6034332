// Copyright 2024 The Mason Authors.

// Description: Git-backed ref resolution, adapted from
// pkg/codegen/codegen.go's determineHeadBranch and shallow-fetch flow:
// the original walked a caller-managed working copy and shelled out to
// `git remote show origin` to learn the default branch, whereas here the
// resolver owns the clone from scratch via go-git so no local checkout
// (and no `git` binary) is required.
package resolver

import (
	"context"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/pkg/errors"
	giturls "github.com/whilp/git-urls"

	"github.com/mason-tool/mason/pkg/brick"
)

// cloneShallow performs a depth-1 clone of url at ref (or the remote's
// HEAD branch when ref is empty) into a fresh temp directory, returning
// its path for the caller to hash and discard.
func cloneShallow(ctx context.Context, url, ref string) (string, error) {
	if _, err := giturls.Parse(url); err != nil {
		return "", &brick.GitFetchFailure{URL: url, Ref: ref, Stderr: err.Error()}
	}

	dir, err := os.MkdirTemp("", "mason-git-")
	if err != nil {
		return "", errors.Wrap(err, "create clone tempdir")
	}

	opts := &git.CloneOptions{URL: url, Depth: 1, SingleBranch: true}
	if ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(ref)
	}

	_, err = git.PlainCloneContext(ctx, dir, false, opts)
	if err != nil && ref == "" {
		// No explicit ref: fall back to resolving the remote's HEAD branch
		// the way determineHeadBranch did, then retry once.
		headBranch, headErr := remoteHeadBranch(ctx, url)
		if headErr == nil {
			opts.ReferenceName = plumbing.NewBranchReferenceName(headBranch)
			_, err = git.PlainCloneContext(ctx, dir, false, opts)
		}
	}
	if err != nil {
		os.RemoveAll(dir)
		return "", &brick.GitFetchFailure{URL: url, Ref: ref, Stderr: err.Error()}
	}

	return dir, nil
}

// remoteHeadBranch asks the remote (without a local checkout) which
// branch its HEAD symref points at, using an in-memory repository the
// way determineHeadBranch used a disk-backed one.
func remoteHeadBranch(ctx context.Context, url string) (string, error) {
	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{Name: "origin", URLs: []string{url}})
	refs, err := remote.ListContext(ctx, &git.ListOptions{})
	if err != nil {
		return "", errors.Wrap(err, "list remote refs")
	}

	for _, ref := range refs {
		if ref.Name() == plumbing.HEAD && ref.Type() == plumbing.SymbolicReference {
			return ref.Target().Short(), nil
		}
	}
	for _, candidate := range []string{"main", "master"} {
		for _, ref := range refs {
			if ref.Name() == plumbing.NewBranchReferenceName(candidate) {
				return candidate, nil
			}
		}
	}
	return "", errors.New("remote has no discoverable HEAD branch")
}

// dirFS returns a billy.Filesystem rooted at dir, used to hand a cloned
// checkout to the hashing/copy helpers the same way disk and memfs
// sources are handled.
func dirFS(dir string) billy.Filesystem { return osfs.New(dir) }
