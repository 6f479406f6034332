// Copyright 2024 The Mason Authors.

package brick

// Disposition records what the generator did with one file at its
// destination path.
type Disposition string

// The dispositions a generated file can end up with.
const (
	DispositionCreated    Disposition = "created"
	DispositionOverwritten Disposition = "overwritten"
	DispositionAppended   Disposition = "appended"
	DispositionSkipped    Disposition = "skipped"
	DispositionIdentical  Disposition = "identical"
)

// GeneratedFile records the outcome of writing (or not writing) a single
// rendered template file.
type GeneratedFile struct {
	// AbsPath uses forward slashes regardless of host platform, per the
	// Generator's determinism requirement (spec.md §4.4).
	AbsPath     string
	Disposition Disposition
	Bytes       []byte
}

// OnConflict names the built-in strategies for resolving a write that
// collides with an existing file.
type OnConflict string

// The built-in collision strategies.
const (
	OnConflictPrompt    OnConflict = "prompt"
	OnConflictOverwrite OnConflict = "overwrite"
	OnConflictSkip      OnConflict = "skip"
	OnConflictAppend    OnConflict = "append"
)

// FileConflictResolver is invoked once per conflicting destination path
// when OnConflict is OnConflictPrompt. It returns one of the three
// non-prompt strategies (overwrite, skip, append) that should be applied.
type FileConflictResolver func(path string, existing, proposed []byte) (OnConflict, error)

// CollisionPolicy controls what the Generator does when a rendered file's
// destination path already exists with different content.
type CollisionPolicy struct {
	OnConflict           OnConflict
	FileConflictResolver FileConflictResolver
}

// GenerateReport is the aggregate result of a single Generate call.
type GenerateReport struct {
	Files []GeneratedFile
}
