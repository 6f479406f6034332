// Copyright 2024 The Mason Authors.

package render

import (
	"strings"
	"unicode/utf8"

	"github.com/mason-tool/mason/pkg/brick"
)

// Renderer evaluates parsed templates against a variable context, with a
// registered lambda table and partial lookup. It corresponds to
// spec.md §4.1's render/renderBytes contract.
type Renderer struct {
	Lambdas  Lambdas
	Partials map[string]string
}

// New returns a Renderer with the required case lambdas pre-registered
// and no partials.
func New() *Renderer {
	return &Renderer{Lambdas: Default(), Partials: map[string]string{}}
}

// Render renders template against vars. A syntactically invalid template
// returns *brick.RenderError; missing keys render as empty string, never
// an error (spec.md §4.1, §8 property 2).
func (r *Renderer) Render(template string, vars map[string]any) (string, error) {
	nodes, err := Parse(template)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	if err := r.evalNodes(nodes, []map[string]any{vars}, &out); err != nil {
		if missing, ok := err.(*missingLambdaErr); ok {
			return "", &brick.RenderError{Template: template, Offset: missing.offset, Message: missing.Error()}
		}
		return "", err
	}
	return out.String(), nil
}

// RenderBytes attempts a UTF-8 decode of buf and renders it as a
// template. If buf is not valid UTF-8, or contains no "{{" delimiter, it
// is returned unchanged (spec.md §4.1).
func (r *Renderer) RenderBytes(buf []byte, vars map[string]any) ([]byte, error) {
	if !utf8.Valid(buf) {
		return buf, nil
	}

	s := string(buf)
	if !strings.Contains(s, openDelim) {
		return buf, nil
	}

	out, err := r.Render(s, vars)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}
