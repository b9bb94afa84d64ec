package workspace

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// File is one file of a project, with a slash-separated relative path.
type File struct {
	Path string `json:"path" yaml:"path"`
	Size int64  `json:"size" yaml:"size"`
}

// ListFiles walks rootDir in lexical order and returns the regular files not
// matched by GetIgnoreRules. Ignored directories are not descended into.
func ListFiles(rootDir string) ([]File, error) {
	rules := GetIgnoreRules(rootDir)
	var files []File
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == rootDir {
			return nil
		}
		rel, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rules.MatchesPath(rel + "/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || rules.MatchesPath(rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, File{Path: rel, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", rootDir, err)
	}
	return files, nil
}
