// Copyright 2024 The Mason Authors.

package render

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// scopeStack is a stack of variable contexts; lookups search from the
// innermost (last) scope outward, matching mustache's dotted-scope
// convention when rendering array sections.
type scopeStack []map[string]any

func (s scopeStack) lookup(name string) (any, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if v, ok := s[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (r *Renderer) evalNodes(nodes []Node, scopes scopeStack, out *strings.Builder) error {
	for _, n := range nodes {
		if err := r.evalNode(n, scopes, out); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) evalNode(n Node, scopes scopeStack, out *strings.Builder) error {
	switch n.Kind {
	case NodeText:
		out.WriteString(n.Text)
	case NodeVar:
		v, _ := scopes.lookup(n.Name)
		s := stringify(v)
		if n.Lambda != "" {
			fn, ok := r.Lambdas[n.Lambda]
			if !ok {
				return &missingLambdaErr{name: n.Lambda, offset: n.Offset}
			}
			s = fn(s)
		}
		out.WriteString(s)
	case NodeSection:
		v, ok := scopes.lookup(n.Name)
		if !ok || isFalsy(v) {
			return nil
		}
		if items, isList := asList(v); isList {
			for _, item := range items {
				childScope := append(scopes, toScope(item))
				if err := r.evalNodes(n.Children, childScope, out); err != nil {
					return err
				}
			}
			return nil
		}
		childScope := scopes
		if m, ok := v.(map[string]any); ok {
			childScope = append(scopes, m)
		}
		return r.evalNodes(n.Children, childScope, out)
	case NodeInverted:
		v, ok := scopes.lookup(n.Name)
		if ok && !isFalsy(v) {
			// A truthy, present value hides the inverted section.
			return nil
		}
		return r.evalNodes(n.Children, scopes, out)
	case NodePartial:
		partial, ok := r.Partials[n.Name]
		if !ok {
			// Unknown partials render as empty, consistent with the
			// logic-less convention for missing data (spec.md §4.1).
			return nil
		}
		nodes, err := Parse(partial)
		if err != nil {
			return err
		}
		return r.evalNodes(nodes, scopes, out)
	}
	return nil
}

// toScope wraps a non-map section item so "." style self-reference still
// works; maps are used as-is so {{field}} resolves inside the item.
func toScope(item any) map[string]any {
	if m, ok := item.(map[string]any); ok {
		return m
	}
	return map[string]any{".": item}
}

func asList(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// isFalsy matches mustache's section-visibility rule: false, nil, empty
// string, zero numbers, and empty slices are all "hide the section."
func isFalsy(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case bool:
		return !t
	case string:
		return t == ""
	case int, int32, int64, float32, float64:
		return reflect.ValueOf(t).IsZero()
	}
	if items, ok := asList(v); ok {
		return len(items) == 0
	}
	return false
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// missingLambdaErr is wrapped into a *brick.RenderError at the call site
// that has the full template string; kept internal so evalNode doesn't
// need the original source text.
type missingLambdaErr struct {
	name   string
	offset int
}

func (e *missingLambdaErr) Error() string {
	return fmt.Sprintf("unknown lambda %q", e.name)
}
