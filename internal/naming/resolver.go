// Package naming maps source images to their destination directory and
// renamed output file. Each operating mode has its own layout rules;
// the rename itself is shared: an optional prefix joined with an
// underscore, and the extension forced to .jpg.
package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const reducedDir = "reduced"

// PathError reports a destination directory that could not be created.
type PathError struct {
	Dir string
	Err error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("create %s: %v", e.Dir, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// Dest is one resolved output location.
type Dest struct {
	Dir  string
	Name string
}

func (d Dest) Path() string { return filepath.Join(d.Dir, d.Name) }

// Resolver maps a source file to its destination. Implementations
// create the destination directory, so Resolve fails only when that
// creation fails.
type Resolver interface {
	Resolve(srcPath string) (Dest, error)
}

// MultiFolder treats Root as a set of independent first-level groups.
// Each group gets its own reduced tree mirroring the group's internal
// structure, and the group name becomes the filename prefix. A file
// sitting directly in Root gets no prefix and lands in Root/reduced.
type MultiFolder struct {
	Root string
}

func (r MultiFolder) Resolve(srcPath string) (Dest, error) {
	srcDir := filepath.Dir(srcPath)

	rel, err := filepath.Rel(r.Root, srcDir)
	if err != nil {
		return Dest{}, &PathError{Dir: srcDir, Err: err}
	}
	level1 := firstSegment(rel)

	groupRoot := filepath.Join(r.Root, level1)
	sub, err := filepath.Rel(groupRoot, srcDir)
	if err != nil {
		return Dest{}, &PathError{Dir: srcDir, Err: err}
	}

	destDir := filepath.Join(groupRoot, reducedDir, sub)
	return mkDest(destDir, NewName(level1, filepath.Base(srcPath)))
}

// SingleFolder puts everything under one shared Root/reduced tree that
// mirrors the source structure, prefixing filenames with the base name
// of the selected folder.
type SingleFolder struct {
	Root string
}

func (r SingleFolder) Resolve(srcPath string) (Dest, error) {
	srcDir := filepath.Dir(srcPath)

	sub, err := filepath.Rel(r.Root, srcDir)
	if err != nil {
		return Dest{}, &PathError{Dir: srcDir, Err: err}
	}

	destDir := filepath.Join(r.Root, reducedDir, sub)
	prefix := filepath.Base(filepath.Clean(r.Root))
	return mkDest(destDir, NewName(prefix, filepath.Base(srcPath)))
}

// AdHoc handles files picked with no common root: each file's reduced
// folder is created next to the file itself, and the prefix is whatever
// the user supplied, possibly empty.
type AdHoc struct {
	Prefix string
}

func (r AdHoc) Resolve(srcPath string) (Dest, error) {
	destDir := filepath.Join(filepath.Dir(srcPath), reducedDir)
	return mkDest(destDir, NewName(r.Prefix, filepath.Base(srcPath)))
}

// NewName prepends prefix with an underscore separator and forces the
// extension to .jpg; the output container is always JPEG.
func NewName(prefix, filename string) string {
	name := filename
	if prefix != "" {
		name = prefix + "_" + filename
	}

	ext := filepath.Ext(name)
	if strings.EqualFold(ext, ".jpg") {
		return name
	}
	return strings.TrimSuffix(name, ext) + ".jpg"
}

func firstSegment(rel string) string {
	if rel == "." || rel == "" {
		return ""
	}
	return strings.Split(rel, string(filepath.Separator))[0]
}

func mkDest(dir, name string) (Dest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Dest{}, &PathError{Dir: dir, Err: err}
	}
	return Dest{Dir: dir, Name: name}, nil
}
