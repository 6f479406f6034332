// Copyright 2024 The Mason Authors.

// Description: The required case lambdas (spec.md §4.1) and the
// tokenizer they share. Tokenization splits on transitions between
// Unicode categories (lower->upper, letter->digit) and on any run of
// non-alphanumeric characters, exactly as spec.md §4.1 requires; no
// corpus library reproduces this precise rule (see DESIGN.md), so it is
// implemented directly rather than bolted onto a general-purpose
// case-conversion package.
package render

import (
	"strings"
	"unicode"
)

// Lambda is a named string-to-string function, registered in a Lambdas
// map and invoked from a template via {{var#lambda}}.
type Lambda func(string) string

// Lambdas maps a name to a Lambda. It's a plain Go map because the
// renderer looks lambdas up by exact name, so it does not keep
// registration order and its iteration order is not defined; case lambda
// aliases are pre-populated by Default().
type Lambdas map[string]Lambda

// Default returns the renderer's lambda table with all thirteen required
// case lambdas registered, plus the aliases in spec.md §4.1's table.
func Default() Lambdas {
	l := Lambdas{
		"camelCase":     camelCase,
		"constantCase":  constantCase,
		"dotCase":       dotCase,
		"headerCase":    headerCase,
		"lowerCase":     strings.ToLower,
		"pascalCase":    pascalCase,
		"paramCase":     paramCase,
		"pathCase":      pathCase,
		"sentenceCase":  sentenceCase,
		"snakeCase":     snakeCase,
		"titleCase":     titleCase,
		"upperCase":     strings.ToUpper,
		"mustacheCase":  mustacheCase,
	}
	// Common aliases seen across scaffolding tools; accepted per spec.md's
	// "any alias in the table is accepted."
	l["camelcase"] = camelCase
	l["constantcase"] = constantCase
	l["dotcase"] = dotCase
	l["headercase"] = headerCase
	l["lowercase"] = strings.ToLower
	l["pascalcase"] = pascalCase
	l["paramcase"] = paramCase
	l["kebabCase"] = paramCase
	l["kebabcase"] = paramCase
	l["pathcase"] = pathCase
	l["sentencecase"] = sentenceCase
	l["snakecase"] = snakeCase
	l["titlecase"] = titleCase
	l["uppercase"] = strings.ToUpper
	l["mustachecase"] = mustacheCase
	return l
}

// Register adds or overrides a lambda by name.
func (l Lambdas) Register(name string, fn Lambda) {
	l[name] = fn
}

// words splits s into lowercase word tokens per spec.md §4.1's rule:
// split on lower->upper transitions, letter->digit transitions, and runs
// of non-alphanumeric characters. Empty input yields no words.
func words(s string) []string {
	var words []string
	var cur []rune

	runes := []rune(s)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = nil
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}

		if i > 0 {
			prev := runes[i-1]
			transition := false
			switch {
			case unicode.IsLower(prev) && unicode.IsUpper(r):
				transition = true
			case unicode.IsLetter(prev) && unicode.IsDigit(r):
				transition = true
			case unicode.IsDigit(prev) && unicode.IsLetter(r):
				transition = true
			case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				// ABCDef -> ABC, Def: treat the last upper before a lower
				// run as the start of the next word (acronym boundary).
				transition = true
			}
			if transition {
				flush()
			}
		}

		cur = append(cur, r)
	}
	flush()

	return words
}

func join(s string, sep string, transform func(i int, w string) string) string {
	ws := words(s)
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = transform(i, w)
	}
	return strings.Join(out, sep)
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	r := []rune(w)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func camelCase(s string) string {
	return join(s, "", func(i int, w string) string {
		if i == 0 {
			return w
		}
		return capitalize(w)
	})
}

func pascalCase(s string) string {
	return join(s, "", func(_ int, w string) string { return capitalize(w) })
}

func snakeCase(s string) string {
	return join(s, "_", func(_ int, w string) string { return w })
}

func constantCase(s string) string {
	return join(s, "_", func(_ int, w string) string { return strings.ToUpper(w) })
}

func paramCase(s string) string {
	return join(s, "-", func(_ int, w string) string { return w })
}

func dotCase(s string) string {
	return join(s, ".", func(_ int, w string) string { return w })
}

func pathCase(s string) string {
	return join(s, "/", func(_ int, w string) string { return w })
}

func headerCase(s string) string {
	return join(s, "-", func(_ int, w string) string { return capitalize(w) })
}

func titleCase(s string) string {
	return join(s, " ", func(_ int, w string) string { return capitalize(w) })
}

func sentenceCase(s string) string {
	return join(s, " ", func(i int, w string) string {
		if i == 0 {
			return capitalize(w)
		}
		return w
	})
}

// mustacheCase preserves `{{ }}` escaping: it case-transforms the
// template source outside of tag delimiters and leaves tags untouched,
// matching spec.md's description that it "preserves {{ }} escaping."
func mustacheCase(s string) string {
	var out strings.Builder
	for {
		start := strings.Index(s, openDelim)
		if start < 0 {
			out.WriteString(snakeCase(s))
			break
		}
		out.WriteString(snakeCase(s[:start]))
		end := strings.Index(s[start:], closeDelim)
		if end < 0 {
			out.WriteString(s[start:])
			break
		}
		end += start + len(closeDelim)
		out.WriteString(s[start:end])
		s = s[end:]
	}
	return out.String()
}
