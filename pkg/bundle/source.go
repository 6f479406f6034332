// Copyright 2024 The Mason Authors.

package bundle

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/pkg/errors"

	"github.com/mason-tool/mason/pkg/brick"
)

// sourceConstPattern extracts the base64 payload a generated source
// bundle embeds, matching EncodeSource's own output shape.
var sourceConstPattern = regexp.MustCompile("(?s)const masonBundleData = `([^`]*)`")

// EncodeSource renders b as a "dart-source"-style text bundle: the JSON
// document, base64-wrapped, embedded as a Go string constant. The codec
// only owns the JSON half (spec.md §4.6); the surrounding package
// declaration is scaffolding for whatever packaging step consumes it.
func EncodeSource(packageName string, b *brick.Brick) ([]byte, error) {
	doc := toDocument(b)
	plain, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "marshal bundle document")
	}
	encoded := base64.StdEncoding.EncodeToString(plain)

	src := fmt.Sprintf("// Code generated by mason bundle. DO NOT EDIT.\n\npackage %s\n\nconst masonBundleData = `%s`\n", packageName, encoded)
	return []byte(src), nil
}

// DecodeSource reverses EncodeSource.
func DecodeSource(src []byte) (*brick.Brick, error) {
	matches := sourceConstPattern.FindSubmatch(src)
	if matches == nil {
		return nil, &brick.BundleDecodeError{Path: "<source bundle>", Cause: errors.New("no masonBundleData constant found")}
	}

	plain, err := base64.StdEncoding.DecodeString(string(matches[1]))
	if err != nil {
		return nil, &brick.BundleDecodeError{Path: "<source bundle>", Cause: err}
	}

	var doc document
	if err := json.Unmarshal(plain, &doc); err != nil {
		return nil, &brick.BundleDecodeError{Path: "<source bundle>", Cause: err}
	}
	return fromDocument(&doc)
}
