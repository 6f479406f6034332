// Copyright 2024 The Mason Authors.

// Description: See package description

// Package brick defines the in-memory representation of a brick: its
// metadata, its template tree, and its hooks. Values in this package are
// produced by the loader, resolved/cached by the resolver, and consumed
// read-only by the generator.
package brick

import (
	"regexp"

	"github.com/blang/semver/v4"
)

// NamePattern is the invariant every brick name must satisfy (spec
// invariant i).
var NamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// VariableType enumerates the kinds of values a brick variable may hold.
type VariableType string

// The set of variable types a brick.yaml may declare.
const (
	VariableTypeString  VariableType = "string"
	VariableTypeNumber  VariableType = "number"
	VariableTypeBoolean VariableType = "boolean"
	VariableTypeEnum    VariableType = "enum"
	VariableTypeArray   VariableType = "array"
)

// VariableDef describes one entry in a brick's variables map.
type VariableDef struct {
	// Name is the variable's key, set by the loader from the containing map.
	Name string `yaml:"-"`

	Type    VariableType `yaml:"type"`
	Default any          `yaml:"default"`
	Prompt  string       `yaml:"prompt"`

	// Values holds the allowed values when Type is VariableTypeEnum.
	Values []string `yaml:"values"`
}

// HasDefault reports whether this variable has a caller-independent value.
func (v VariableDef) HasDefault() bool {
	return v.Default != nil
}

// TemplateFile is one file inside a brick's `__brick__/` tree. RelPath may
// itself contain template tags that are rendered per-generation.
type TemplateFile struct {
	RelPath string
	Bytes   []byte
}

// HookFile is a single hook script (pre_gen, post_gen) carried by a brick.
type HookFile struct {
	RelPath string
	Bytes   []byte
}

// Hooks groups the optional hook scripts and dependency manifest a brick
// may ship.
type Hooks struct {
	PreGen   *HookFile
	PostGen  *HookFile
	Manifest []byte
}

// Brick is an immutable value describing a reusable scaffold: metadata,
// an ordered set of template files, and optional generation hooks.
type Brick struct {
	Name        string
	Description string
	Version     semver.Version
	PublishTo   string

	// Variables preserves brick.yaml declaration order when loaded from a
	// directory, because prompts (an external collaborator concern) are
	// usually presented in that order. A brick decoded from a bundle lists
	// its variables sorted by name, since the bundle's vars object carries
	// no order.
	Variables []VariableDef

	// TemplateFiles is kept in sorted lexicographic RelPath order so that
	// every consumer (generator, bundle codec) observes one deterministic
	// sequence without re-sorting (spec invariant on Generator determinism).
	TemplateFiles []TemplateFile

	Hooks Hooks
}

// Variable looks up a declared variable by name.
func (b *Brick) Variable(name string) (VariableDef, bool) {
	for _, v := range b.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return VariableDef{}, false
}
