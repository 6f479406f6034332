// Copyright 2024 The Mason Authors.

// Description: Loads a brick from a directory or an in-memory filesystem
// into the brick.Brick value every other component consumes. Grounded on
// pkg/stencil/stencil.go's lockfile loading (os.Open + yaml.v3 decode)
// and pkg/processors/processors.go's name/extension-keyed dispatch,
// repurposed here to classify files under hooks/ rather than to route
// post-codegen processors.
package loader

import (
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/blang/semver/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mason-tool/mason/pkg/brick"
)

const (
	metadataFile   = "brick.yaml"
	templateRoot   = "__brick__"
	hooksRoot      = "hooks"
	preGenPrefix   = "pre_gen."
	postGenPrefix  = "post_gen."
)

// brickYAML mirrors brick.yaml's on-disk schema (spec.md §4.2). Each vars
// entry may be a bare string (shorthand prompt) or a full mapping, so Vars
// is decoded as the raw mapping yaml.Node and resolved in parseVariables;
// decoding into a map[string]yaml.Node here would lose declaration order,
// which prompting relies on (Brick.Variables is documented as preserving
// it).
type brickYAML struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Version     string    `yaml:"version"`
	PublishTo   string    `yaml:"publishTo"`
	Vars        yaml.Node `yaml:"vars"`
}

// LoadFromDir loads a brick rooted at dir on fs. fs is a billy.Filesystem
// so the same loader serves real disk, the resolver's in-memory git
// checkouts, and tests' in-memory fixtures uniformly.
func LoadFromDir(fsys billy.Filesystem, dir string) (*brick.Brick, error) {
	metaPath := path.Join(dir, metadataFile)
	metaBytes, err := util.ReadFile(fsys, metaPath)
	if err != nil {
		return nil, &brick.BrickMissingMetadata{Dir: dir}
	}

	var raw brickYAML
	if err := yaml.Unmarshal(metaBytes, &raw); err != nil {
		return nil, &brick.BrickMalformedMetadata{Dir: dir, YAMLErr: err}
	}
	if !brick.NamePattern.MatchString(raw.Name) {
		return nil, &brick.BrickMalformedMetadata{Dir: dir, YAMLErr: errors.Errorf("name %q does not match %s", raw.Name, brick.NamePattern)}
	}

	var version semver.Version
	if raw.Version != "" {
		v, err := semver.Parse(raw.Version)
		if err != nil {
			return nil, &brick.BrickMalformedMetadata{Dir: dir, YAMLErr: errors.Wrap(err, "version")}
		}
		version = v
	}

	vars, err := parseVariables(raw.Vars)
	if err != nil {
		return nil, &brick.BrickMalformedMetadata{Dir: dir, YAMLErr: err}
	}

	root := path.Join(dir, templateRoot)
	if info, err := fsys.Stat(root); err != nil || !info.IsDir() {
		return nil, &brick.BrickMissingTemplateRoot{Dir: dir}
	}

	templateFiles, err := walkTemplateFiles(fsys, root)
	if err != nil {
		return nil, errors.Wrap(err, "walk template root")
	}

	hooks, err := loadHooks(fsys, path.Join(dir, hooksRoot))
	if err != nil {
		return nil, errors.Wrap(err, "load hooks")
	}

	return &brick.Brick{
		Name:          raw.Name,
		Description:   raw.Description,
		Version:       version,
		PublishTo:     raw.PublishTo,
		Variables:     vars,
		TemplateFiles: templateFiles,
		Hooks:         hooks,
	}, nil
}

// parseVariables resolves brick.yaml's vars mapping node in declaration
// order (a mapping node's Content alternates key, value, key, value...),
// where each value is either a bare string (shorthand for {type: string,
// prompt: <value>}) or a full mapping.
func parseVariables(raw yaml.Node) ([]brick.VariableDef, error) {
	if raw.Kind == 0 {
		return nil, nil
	}
	if raw.Kind != yaml.MappingNode {
		return nil, errors.New("vars must be a mapping")
	}

	vars := make([]brick.VariableDef, 0, len(raw.Content)/2)
	for i := 0; i+1 < len(raw.Content); i += 2 {
		name := raw.Content[i].Value
		node := raw.Content[i+1]
		def := brick.VariableDef{Name: name, Type: brick.VariableTypeString}

		if node.Kind == yaml.ScalarNode {
			def.Prompt = node.Value
			vars = append(vars, def)
			continue
		}

		var full struct {
			Type    string   `yaml:"type"`
			Default any      `yaml:"default"`
			Prompt  string   `yaml:"prompt"`
			Values  []string `yaml:"values"`
		}
		if err := node.Decode(&full); err != nil {
			return nil, errors.Wrapf(err, "vars.%s", name)
		}
		if full.Type != "" {
			def.Type = brick.VariableType(full.Type)
		}
		def.Default = full.Default
		def.Prompt = full.Prompt
		def.Values = full.Values
		vars = append(vars, def)
	}
	return vars, nil
}

// walkTemplateFiles reads every regular file under root and returns them
// in sorted lexicographic RelPath order (spec.md's Generator determinism
// requirement starts here, not just at render time).
func walkTemplateFiles(fsys billy.Filesystem, root string) ([]brick.TemplateFile, error) {
	var rels []string
	if err := walkDir(fsys, root, func(p string) { rels = append(rels, p) }); err != nil {
		return nil, err
	}
	sort.Strings(rels)

	files := make([]brick.TemplateFile, 0, len(rels))
	for _, p := range rels {
		b, err := util.ReadFile(fsys, p)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", p)
		}
		rel, err := filepathRel(root, p)
		if err != nil {
			return nil, err
		}
		files = append(files, brick.TemplateFile{RelPath: rel, Bytes: b})
	}
	return files, nil
}

// loadHooks classifies hooks/ directory entries the way
// pkg/processors/processors.go classifies codegen files, but by
// filename prefix rather than a registered-processor table: there are
// only three recognized roles, so a small switch replaces the runner's
// map-of-slices machinery.
func loadHooks(fsys billy.Filesystem, dir string) (brick.Hooks, error) {
	var hooks brick.Hooks

	infos, err := fsys.ReadDir(dir)
	if err != nil {
		// No hooks/ directory is not an error; hooks are optional.
		return hooks, nil
	}

	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		name := info.Name()
		rel := name
		full := path.Join(dir, name)

		b, err := util.ReadFile(fsys, full)
		if err != nil {
			return hooks, errors.Wrapf(err, "read %s", full)
		}

		switch {
		case strings.HasPrefix(name, preGenPrefix):
			hooks.PreGen = &brick.HookFile{RelPath: rel, Bytes: b}
		case strings.HasPrefix(name, postGenPrefix):
			hooks.PostGen = &brick.HookFile{RelPath: rel, Bytes: b}
		default:
			// Anything else under hooks/ is treated as the dependency
			// manifest; a brick ships at most one (spec.md §4.2).
			hooks.Manifest = b
		}
	}

	return hooks, nil
}

// walkDir recursively visits regular files under dir on fsys, invoking
// visit with each file's full path.
func walkDir(fsys billy.Filesystem, dir string, visit func(string)) error {
	infos, err := fsys.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, info := range infos {
		full := path.Join(dir, info.Name())
		if info.IsDir() {
			if err := walkDir(fsys, full, visit); err != nil {
				return err
			}
			continue
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			continue
		}
		visit(full)
	}
	return nil
}

// filepathRel is path.Rel's missing counterpart for the forward-slash
// paths billy.Filesystem always uses, regardless of host OS.
func filepathRel(root, full string) (string, error) {
	if !strings.HasPrefix(full, root) {
		return "", errors.Errorf("%q is not under %q", full, root)
	}
	rel := strings.TrimPrefix(full, root)
	return strings.TrimPrefix(rel, "/"), nil
}
