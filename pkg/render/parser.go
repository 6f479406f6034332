// Copyright 2024 The Mason Authors.

package render

import (
	"strings"

	"github.com/mason-tool/mason/pkg/brick"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Parse tokenizes and parses a template string into a tree of Nodes. It
// returns a *brick.RenderError on any syntax problem (spec.md §4.1).
func Parse(template string) ([]Node, error) {
	p := &parser{src: template}
	nodes, err := p.parseUntil("")
	if err != nil {
		return nil, err
	}
	if p.sectionStack != nil && len(p.sectionStack) > 0 {
		return nil, &brick.RenderError{
			Template: template,
			Offset:   len(template),
			Message:  "unclosed section {{#" + p.sectionStack[len(p.sectionStack)-1] + "}}",
		}
	}
	return nodes, nil
}

type parser struct {
	src          string
	pos          int
	sectionStack []string
}

// parseUntil parses nodes until it encounters a closing tag matching
// closingName (used recursively for sections), or EOF when closingName is
// empty (top level).
func (p *parser) parseUntil(closingName string) ([]Node, error) {
	var nodes []Node

	for p.pos < len(p.src) {
		next := strings.Index(p.src[p.pos:], openDelim)
		if next < 0 {
			// No more tags; the rest is literal text.
			nodes = append(nodes, Node{Kind: NodeText, Text: p.src[p.pos:], Offset: p.pos})
			p.pos = len(p.src)
			break
		}

		if next > 0 {
			nodes = append(nodes, Node{Kind: NodeText, Text: p.src[p.pos : p.pos+next], Offset: p.pos})
			p.pos += next
		}

		tagStart := p.pos
		closeIdx := strings.Index(p.src[p.pos:], closeDelim)
		if closeIdx < 0 {
			return nil, &brick.RenderError{Template: p.src, Offset: tagStart, Message: "unterminated tag"}
		}
		tagBody := p.src[p.pos+len(openDelim) : p.pos+closeIdx]
		p.pos += closeIdx + len(closeDelim)

		tag := strings.TrimSpace(tagBody)
		if tag == "" {
			return nil, &brick.RenderError{Template: p.src, Offset: tagStart, Message: "empty tag"}
		}

		switch tag[0] {
		case '#':
			name := strings.TrimSpace(tag[1:])
			p.sectionStack = append(p.sectionStack, name)
			children, err := p.parseUntil(name)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, Node{Kind: NodeSection, Name: name, Children: children, Offset: tagStart})
		case '^':
			name := strings.TrimSpace(tag[1:])
			p.sectionStack = append(p.sectionStack, name)
			children, err := p.parseUntil(name)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, Node{Kind: NodeInverted, Name: name, Children: children, Offset: tagStart})
		case '/':
			name := strings.TrimSpace(tag[1:])
			if closingName == "" {
				return nil, &brick.RenderError{
					Template: p.src, Offset: tagStart,
					Message: "unexpected closing tag {{/" + name + "}} with no matching section",
				}
			}
			if name != closingName {
				return nil, &brick.RenderError{
					Template: p.src, Offset: tagStart,
					Message: "mismatched closing tag {{/" + name + "}}, expected {{/" + closingName + "}}",
				}
			}
			p.sectionStack = p.sectionStack[:len(p.sectionStack)-1]
			return nodes, nil
		case '>':
			name := strings.TrimSpace(tag[1:])
			nodes = append(nodes, Node{Kind: NodePartial, Name: name, Offset: tagStart})
		default:
			name, lambda := splitLambda(tag)
			nodes = append(nodes, Node{Kind: NodeVar, Name: name, Lambda: lambda, Offset: tagStart})
		}
	}

	if closingName != "" {
		return nil, &brick.RenderError{
			Template: p.src, Offset: len(p.src),
			Message: "unclosed section {{#" + closingName + "}}",
		}
	}

	return nodes, nil
}

// splitLambda splits a variable tag body like `name#lambda` into its
// variable name and (possibly empty) lambda name.
func splitLambda(tag string) (name, lambda string) {
	if idx := strings.IndexByte(tag, '#'); idx >= 0 {
		return strings.TrimSpace(tag[:idx]), strings.TrimSpace(tag[idx+1:])
	}
	return tag, ""
}
