// Copyright 2024 The Mason Authors.

// Description: The universal and source bundle formats (spec.md §4.6).
// Both share one in-memory document shape; only the outer framing
// differs. Grounded on pkg/stencil/stencil.go's yaml.v3-based
// lockfile codec for the "decode a small versioned document" shape, and
// on the module's go.mod choice of ulikunitz/xz as the example pack's
// compression library — substituted here for spec.md's literal
// "deflate" wording since no corpus example imports compress/flate or
// a deflate-specific package, and xz is the compression stack the
// examples actually carry (see DESIGN.md).
package bundle

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"sort"

	"github.com/blang/semver/v4"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"

	"github.com/mason-tool/mason/pkg/brick"
)

// EntryType discriminates how a bundle entry's bytes should be
// interpreted once decoded.
type EntryType string

// The two entry types a bundle file or hook may declare.
const (
	EntryText   EntryType = "text"
	EntryBinary EntryType = "binary"
)

// entry is one files[] or hooks[] element of the bundle JSON document.
type entry struct {
	Path string    `json:"path"`
	Data string    `json:"data"`
	Type EntryType `json:"type"`
}

// document is the JSON shape shared by both bundle formats
// (spec.md §4.6).
type document struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Version     string                 `json:"version"`
	PublishTo   string                 `json:"publish_to,omitempty"`
	Vars        map[string]varDocument `json:"vars"`
	Files       []entry                `json:"files"`
	Hooks       []entry                `json:"hooks"`
}

type varDocument struct {
	Type    brick.VariableType `json:"type"`
	Default any                `json:"default,omitempty"`
	Prompt  string             `json:"prompt,omitempty"`
	Values  []string           `json:"values,omitempty"`
}

// toDocument flattens a brick.Brick into the bundle's wire shape, sorting
// files and hooks lexicographically by path (spec.md's round-trip law).
func toDocument(b *brick.Brick) *document {
	doc := &document{
		Name:        b.Name,
		Description: b.Description,
		Version:     b.Version.String(),
		PublishTo:   b.PublishTo,
		Vars:        make(map[string]varDocument, len(b.Variables)),
	}
	for _, v := range b.Variables {
		doc.Vars[v.Name] = varDocument{Type: v.Type, Default: v.Default, Prompt: v.Prompt, Values: v.Values}
	}

	for _, f := range b.TemplateFiles {
		doc.Files = append(doc.Files, entry{Path: f.RelPath, Data: base64.StdEncoding.EncodeToString(f.Bytes), Type: entryTypeFor(f.Bytes)})
	}
	sort.Slice(doc.Files, func(i, j int) bool { return doc.Files[i].Path < doc.Files[j].Path })

	if b.Hooks.PreGen != nil {
		doc.Hooks = append(doc.Hooks, entry{Path: b.Hooks.PreGen.RelPath, Data: base64.StdEncoding.EncodeToString(b.Hooks.PreGen.Bytes), Type: entryTypeFor(b.Hooks.PreGen.Bytes)})
	}
	if b.Hooks.PostGen != nil {
		doc.Hooks = append(doc.Hooks, entry{Path: b.Hooks.PostGen.RelPath, Data: base64.StdEncoding.EncodeToString(b.Hooks.PostGen.Bytes), Type: entryTypeFor(b.Hooks.PostGen.Bytes)})
	}
	if len(b.Hooks.Manifest) > 0 {
		doc.Hooks = append(doc.Hooks, entry{Path: "__manifest__", Data: base64.StdEncoding.EncodeToString(b.Hooks.Manifest), Type: EntryBinary})
	}
	sort.Slice(doc.Hooks, func(i, j int) bool { return doc.Hooks[i].Path < doc.Hooks[j].Path })

	return doc
}

func entryTypeFor(b []byte) EntryType {
	if bytes.ContainsRune(b, 0) {
		return EntryBinary
	}
	return EntryText
}

// fromDocument reconstructs a brick.Brick from a decoded document.
func fromDocument(doc *document) (*brick.Brick, error) {
	version, err := parseVersion(doc.Version)
	if err != nil {
		return nil, err
	}

	b := &brick.Brick{
		Name:        doc.Name,
		Description: doc.Description,
		Version:     version,
		PublishTo:   doc.PublishTo,
	}

	names := make([]string, 0, len(doc.Vars))
	for name := range doc.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := doc.Vars[name]
		b.Variables = append(b.Variables, brick.VariableDef{
			Name: name, Type: v.Type, Default: v.Default, Prompt: v.Prompt, Values: v.Values,
		})
	}

	for _, f := range doc.Files {
		data, err := base64.StdEncoding.DecodeString(f.Data)
		if err != nil {
			return nil, &brick.BundleDecodeError{Path: f.Path, Cause: err}
		}
		b.TemplateFiles = append(b.TemplateFiles, brick.TemplateFile{RelPath: f.Path, Bytes: data})
	}
	sort.Slice(b.TemplateFiles, func(i, j int) bool { return b.TemplateFiles[i].RelPath < b.TemplateFiles[j].RelPath })

	for _, h := range doc.Hooks {
		data, err := base64.StdEncoding.DecodeString(h.Data)
		if err != nil {
			return nil, &brick.BundleDecodeError{Path: h.Path, Cause: err}
		}
		switch {
		case h.Path == "__manifest__":
			b.Hooks.Manifest = data
		default:
			hf := &brick.HookFile{RelPath: h.Path, Bytes: data}
			if b.Hooks.PreGen == nil && isPreGen(h.Path) {
				b.Hooks.PreGen = hf
			} else {
				b.Hooks.PostGen = hf
			}
		}
	}

	return b, nil
}

func isPreGen(path string) bool {
	return len(path) >= 7 && path[:7] == "pre_gen"
}

func parseVersion(s string) (semver.Version, error) {
	if s == "" {
		return semver.Version{}, nil
	}
	return semver.Parse(s)
}

// EncodeUniversal encodes b as the binary universal bundle: an
// xz-compressed byte stream wrapping the JSON document.
func EncodeUniversal(b *brick.Brick) ([]byte, error) {
	doc := toDocument(b)
	plain, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "marshal bundle document")
	}

	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, errors.Wrap(err, "create xz writer")
	}
	if _, err := w.Write(plain); err != nil {
		return nil, errors.Wrap(err, "compress bundle")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "close xz writer")
	}

	return buf.Bytes(), nil
}

// DecodeUniversal decodes a universal bundle produced by EncodeUniversal.
func DecodeUniversal(data []byte) (*brick.Brick, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &brick.BundleDecodeError{Path: "<bundle>", Cause: err}
	}
	plain, err := io.ReadAll(r)
	if err != nil {
		return nil, &brick.BundleDecodeError{Path: "<bundle>", Cause: err}
	}

	var doc document
	if err := json.Unmarshal(plain, &doc); err != nil {
		return nil, &brick.BundleDecodeError{Path: "<bundle>", Cause: err}
	}

	return fromDocument(&doc)
}
