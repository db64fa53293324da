package utils

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// FindFiles recursively finds the files under dir whose extension matches one
// of exts, case-insensitively. Paths are returned in lexical order.
func FindFiles(dir string, exts ...string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		for _, want := range exts {
			if ext == strings.ToLower(want) {
				files = append(files, path)
				break
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}
