// Copyright 2024 The Mason Authors.

package generator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"

	"github.com/mason-tool/mason/pkg/brick"
	"github.com/mason-tool/mason/pkg/generator"
	"github.com/mason-tool/mason/pkg/render"
)

func greetingBrick() *brick.Brick {
	return &brick.Brick{
		Name: "greeting",
		Variables: []brick.VariableDef{
			{Name: "name", Type: brick.VariableTypeString},
		},
		TemplateFiles: []brick.TemplateFile{
			{RelPath: "GREETINGS.md", Bytes: []byte("Hi {{name}}!")},
		},
	}
}

func TestGenerateCreatesFile(t *testing.T) {
	g := generator.New(render.New(), nil, nil)
	dir := t.TempDir()

	report, err := g.Generate(context.Background(), greetingBrick(), dir,
		map[string]any{"name": "Dash"}, brick.CollisionPolicy{OnConflict: brick.OnConflictSkip})
	assert.NilError(t, err)
	assert.Equal(t, len(report.Files), 1)
	assert.Equal(t, report.Files[0].Disposition, brick.DispositionCreated)

	got, err := os.ReadFile(filepath.Join(dir, "GREETINGS.md"))
	assert.NilError(t, err)
	assert.Equal(t, string(got), "Hi Dash!")
}

func TestGenerateMissingRequiredVariable(t *testing.T) {
	g := generator.New(render.New(), nil, nil)
	_, err := g.Generate(context.Background(), greetingBrick(), t.TempDir(), map[string]any{}, brick.CollisionPolicy{})

	var missing *brick.VariableValidationError
	assert.Assert(t, errors.As(err, &missing))
}

func TestGenerateIdenticalFileIsNoopWrite(t *testing.T) {
	g := generator.New(render.New(), nil, nil)
	dir := t.TempDir()
	vars := map[string]any{"name": "Dash"}

	_, err := g.Generate(context.Background(), greetingBrick(), dir, vars, brick.CollisionPolicy{OnConflict: brick.OnConflictSkip})
	assert.NilError(t, err)

	report, err := g.Generate(context.Background(), greetingBrick(), dir, vars, brick.CollisionPolicy{OnConflict: brick.OnConflictSkip})
	assert.NilError(t, err)
	assert.Equal(t, report.Files[0].Disposition, brick.DispositionIdentical)
}

func TestGenerateOverwritePolicy(t *testing.T) {
	g := generator.New(render.New(), nil, nil)
	dir := t.TempDir()

	_, err := g.Generate(context.Background(), greetingBrick(), dir, map[string]any{"name": "Dash"}, brick.CollisionPolicy{OnConflict: brick.OnConflictSkip})
	assert.NilError(t, err)

	report, err := g.Generate(context.Background(), greetingBrick(), dir, map[string]any{"name": "Other"}, brick.CollisionPolicy{OnConflict: brick.OnConflictOverwrite})
	assert.NilError(t, err)
	assert.Equal(t, report.Files[0].Disposition, brick.DispositionOverwritten)

	got, err := os.ReadFile(filepath.Join(dir, "GREETINGS.md"))
	assert.NilError(t, err)
	assert.Equal(t, string(got), "Hi Other!")
}

func TestGenerateOrdersFilesDeterministically(t *testing.T) {
	b := &brick.Brick{
		Name: "multi",
		Variables: []brick.VariableDef{
			{Name: "name", Type: brick.VariableTypeString},
		},
		TemplateFiles: []brick.TemplateFile{
			{RelPath: "a.txt", Bytes: []byte("a")},
			{RelPath: "b/c.txt", Bytes: []byte("{{name}}")},
			{RelPath: "z.txt", Bytes: []byte("z")},
		},
	}

	type summary struct {
		Path        string
		Disposition brick.Disposition
	}
	run := func() []summary {
		g := generator.New(render.New(), nil, nil)
		report, err := g.Generate(context.Background(), b, t.TempDir(),
			map[string]any{"name": "Dash"}, brick.CollisionPolicy{OnConflict: brick.OnConflictSkip})
		assert.NilError(t, err)

		got := make([]summary, len(report.Files))
		for i, f := range report.Files {
			got[i] = summary{Path: filepath.Base(f.AbsPath), Disposition: f.Disposition}
		}
		return got
	}

	want := []summary{
		{Path: "a.txt", Disposition: brick.DispositionCreated},
		{Path: "c.txt", Disposition: brick.DispositionCreated},
		{Path: "z.txt", Disposition: brick.DispositionCreated},
	}

	if diff := cmp.Diff(want, run()); diff != "" {
		t.Fatalf("unexpected generate order/dispositions (-want +got):\n%s", diff)
	}
}

func TestGenerateSkipsEmptyPathSegment(t *testing.T) {
	b := &brick.Brick{
		Name: "conditional",
		Variables: []brick.VariableDef{
			{Name: "feature", Type: brick.VariableTypeBoolean, Default: false},
		},
		TemplateFiles: []brick.TemplateFile{
			{RelPath: "{{#feature}}extra{{/feature}}/file.txt", Bytes: []byte("x")},
		},
	}
	g := generator.New(render.New(), nil, nil)
	report, err := g.Generate(context.Background(), b, t.TempDir(), map[string]any{}, brick.CollisionPolicy{})
	assert.NilError(t, err)
	assert.Equal(t, len(report.Files), 0)
}
