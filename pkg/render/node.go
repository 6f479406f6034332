// Copyright 2024 The Mason Authors.

// Description: Parse tree for the logic-less template language (spec.md
// §4.1, §9). tokenize -> parse to a tree of text/var/section/inverted/
// partial nodes (a lambda is carried on its var node) -> evaluate against
// a stack of variable scopes.
package render

// NodeKind discriminates the parse tree's node shapes.
type NodeKind int

// The node kinds a parsed template can contain.
const (
	NodeText NodeKind = iota
	NodeVar
	NodeSection
	NodeInverted
	NodePartial
)

// Node is one element of a parsed template. Only the fields relevant to
// Kind are populated.
type Node struct {
	Kind NodeKind

	// NodeText
	Text string

	// NodeVar / NodeSection / NodeInverted / NodePartial
	Name string

	// NodeVar: an optional lambda name applied after lookup ({{var#lambda}}).
	Lambda string

	// NodeSection / NodeInverted
	Children []Node

	// Offset is the byte offset this node started at in the source
	// template, used for RenderError.Offset on downstream failures.
	Offset int
}
