// Package discover finds the image files a batch will process.
package discover

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const reducedDir = "reduced"

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsImage reports whether path has a supported raster extension.
func IsImage(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// Images walks root and returns every supported image file as an
// absolute path, in lexical walk order. Existing reduced trees are
// skipped so a rerun never re-compresses its own output.
func Images(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var files []string
	fsys := os.DirFS(absRoot)
	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if d.Name() == reducedDir {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !IsImage(path) {
			return nil
		}
		files = append(files, filepath.Join(absRoot, path))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
