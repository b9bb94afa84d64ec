package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrPathEscape marks a path that would resolve outside its root directory.
var ErrPathEscape = errors.New("path escapes project directory")

// PathEscapeError describes a rejected path.
type PathEscapeError struct {
	Path   string
	Reason string
}

func (e *PathEscapeError) Error() string {
	return fmt.Sprintf("security violation: %q %s", e.Path, e.Reason)
}

func (e *PathEscapeError) Is(target error) bool {
	return target == ErrPathEscape
}

// CleanRelative validates a path taken from untrusted input and returns it in
// cleaned, OS-specific form. Backslashes are treated as separators so the
// same checks apply regardless of platform.
func CleanRelative(rel string) (string, error) {
	raw := rel
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return "", &PathEscapeError{Path: raw, Reason: "is empty"}
	}
	slashed := strings.ReplaceAll(rel, `\`, "/")
	if strings.HasPrefix(slashed, "/") || filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" {
		return "", &PathEscapeError{Path: raw, Reason: "is absolute"}
	}
	for _, seg := range strings.Split(slashed, "/") {
		if seg == ".." {
			return "", &PathEscapeError{Path: raw, Reason: "contains a parent segment"}
		}
	}
	cleaned := path.Clean(slashed)
	if cleaned == "." {
		return "", &PathEscapeError{Path: raw, Reason: "names the directory itself"}
	}
	return filepath.FromSlash(cleaned), nil
}

// ResolveWithin joins rel onto root and returns the absolute path, refusing
// anything that lands outside root. Symlinks in the existing part of the path
// are followed before the containment check, so a symlinked parent pointing
// elsewhere is rejected too.
func ResolveWithin(root, rel string) (string, error) {
	clean, err := CleanRelative(rel)
	if err != nil {
		return "", err
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", root, err)
	}
	target := filepath.Join(absRoot, clean)

	realRoot, err := evalExisting(absRoot)
	if err != nil {
		return "", err
	}
	realTarget, err := evalExisting(target)
	if err != nil {
		return "", err
	}
	if !within(realRoot, realTarget) {
		return "", &PathEscapeError{Path: rel, Reason: fmt.Sprintf("resolves to %s", realTarget)}
	}
	return target, nil
}

// evalExisting resolves symlinks in the longest existing prefix of p and
// appends the part that does not exist yet.
func evalExisting(p string) (string, error) {
	var rest []string
	cur := p
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			parts := append([]string{resolved}, rest...)
			return filepath.Join(parts...), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to resolve %s: %w", cur, err)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return p, nil
		}
		rest = append([]string{filepath.Base(cur)}, rest...)
		cur = parent
	}
}

func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." || filepath.IsAbs(rel) {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// EnsureDir creates directory if it doesn't exist
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// WriteFileWithDir creates the directory and writes the file
func WriteFileWithDir(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("could not write file %s: %w", path, err)
	}
	return nil
}

// ReadFile reads the content of a file.
func ReadFile(filename string) (string, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("could not read file %s: %w", filename, err)
	}
	return string(b), nil
}

// FileExists checks if a file exists at the given path
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
