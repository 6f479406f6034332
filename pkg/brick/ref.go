// Copyright 2024 The Mason Authors.

package brick

import "fmt"

// RefKind discriminates the three ways a brick can be located.
type RefKind int

// The supported BrickRef discriminants.
const (
	RefPath RefKind = iota
	RefGit
	RefRegistry
)

// BrickRef is the resolution key passed to the resolver. Exactly one of
// the kind-specific field groups is meaningful, selected by Kind.
type BrickRef struct {
	Kind RefKind

	// Path fields.
	Dir string

	// Git fields.
	URL     string
	Ref     string
	SubPath string

	// Registry fields.
	Name             string
	VersionConstraint string
}

// PathRef builds a BrickRef that resolves a brick from a local directory.
func PathRef(dir string) BrickRef {
	return BrickRef{Kind: RefPath, Dir: dir}
}

// GitRef builds a BrickRef that resolves a brick from a git remote.
func GitRef(url, ref, subPath string) BrickRef {
	return BrickRef{Kind: RefGit, URL: url, Ref: ref, SubPath: subPath}
}

// RegistryRef builds a BrickRef that resolves a brick from the registry
// index by name and version constraint.
func RegistryRef(name, constraint string) BrickRef {
	return BrickRef{Kind: RefRegistry, Name: name, VersionConstraint: constraint}
}

// String renders the ref the way it would appear on a CLI invocation, for
// logging and error messages.
func (r BrickRef) String() string {
	switch r.Kind {
	case RefPath:
		return r.Dir
	case RefGit:
		if r.SubPath != "" {
			return fmt.Sprintf("%s//%s@%s", r.URL, r.SubPath, refOrDefault(r.Ref))
		}
		return fmt.Sprintf("%s@%s", r.URL, refOrDefault(r.Ref))
	case RefRegistry:
		if r.VersionConstraint != "" {
			return fmt.Sprintf("%s@%s", r.Name, r.VersionConstraint)
		}
		return r.Name
	default:
		return "<unknown ref>"
	}
}

func refOrDefault(ref string) string {
	if ref == "" {
		return "HEAD"
	}
	return ref
}

// ResolvedBrick is the result of resolving a BrickRef: the brick's content
// plus provenance (where it lives in the cache, and its content hash).
//
// Invariant: two ResolvedBricks with equal ContentHash have byte-equal
// TemplateFiles and hook bytes.
type ResolvedBrick struct {
	Ref               BrickRef
	CanonicalCacheDir string
	Brick             *Brick
	ContentHash       string
}
