// Copyright 2024 The Mason Authors.

package render_test

import (
	"testing"

	"github.com/mason-tool/mason/pkg/render"
	"gotest.tools/v3/assert"
)

func TestRenderVariable(t *testing.T) {
	r := render.New()
	out, err := r.Render("Hi {{name}}!", map[string]any{"name": "Dash"})
	assert.NilError(t, err)
	assert.Equal(t, out, "Hi Dash!")
}

func TestRenderMissingKeyIsEmpty(t *testing.T) {
	r := render.New()
	out, err := r.Render("[{{missing}}]", map[string]any{})
	assert.NilError(t, err)
	assert.Equal(t, out, "[]")
}

func TestRenderSectionOverArray(t *testing.T) {
	r := render.New()
	out, err := r.Render("{{#items}}{{name}},{{/items}}", map[string]any{
		"items": []any{
			map[string]any{"name": "a"},
			map[string]any{"name": "b"},
		},
	})
	assert.NilError(t, err)
	assert.Equal(t, out, "a,b,")
}

func TestRenderInvertedSection(t *testing.T) {
	r := render.New()
	out, err := r.Render("{{^show}}hidden{{/show}}", map[string]any{"show": false})
	assert.NilError(t, err)
	assert.Equal(t, out, "hidden")
}

func TestRenderLambda(t *testing.T) {
	r := render.New()
	out, err := r.Render("{{name#snakeCase}}.txt", map[string]any{"name": "HelloWorld"})
	assert.NilError(t, err)
	assert.Equal(t, out, "hello_world.txt")
}

func TestRenderUnclosedSectionErrors(t *testing.T) {
	r := render.New()
	_, err := r.Render("{{#x}}unclosed", map[string]any{})
	assert.ErrorContains(t, err, "unclosed section")
}

func TestCaseLambdaIdempotence(t *testing.T) {
	l := render.Default()
	cases := []string{"camelCase", "constantCase", "dotCase", "headerCase", "pascalCase",
		"paramCase", "pathCase", "sentenceCase", "snakeCase", "titleCase"}
	for _, name := range cases {
		fn := l[name]
		once := fn("foo bar baz")
		twice := fn(once)
		assert.Equal(t, once, twice, "lambda %q should be idempotent", name)
	}
}

func TestRenderBytesPassesThroughNonUTF8(t *testing.T) {
	r := render.New()
	buf := []byte{0xff, 0xfe, 0x00}
	out, err := r.RenderBytes(buf, map[string]any{})
	assert.NilError(t, err)
	assert.DeepEqual(t, out, buf)
}

func TestRenderBytesPassesThroughNoDelimiter(t *testing.T) {
	r := render.New()
	buf := []byte("just plain text")
	out, err := r.RenderBytes(buf, map[string]any{})
	assert.NilError(t, err)
	assert.DeepEqual(t, out, buf)
}
