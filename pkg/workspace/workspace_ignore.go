// Package workspace inspects a generated project directory.
package workspace

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// GetIgnoreRules compiles the runtime-artifact patterns plus the project's
// own .gitignore, if it has one.
func GetIgnoreRules(rootDir string) *ignore.GitIgnore {
	allLines := getArtifactPatterns()

	if content, err := os.ReadFile(filepath.Join(rootDir, ".gitignore")); err == nil {
		allLines = append(allLines, strings.Split(string(content), "\n")...)
	}

	var filtered []string
	for _, line := range allLines {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			filtered = append(filtered, line)
		}
	}
	return ignore.CompileIgnoreLines(filtered...)
}

// getArtifactPatterns matches files a run or the project's tooling leaves
// behind that were never part of the plan.
func getArtifactPatterns() []string {
	return []string{
		".git/",
		"node_modules/",
		"__pycache__/",
		"*.pyc",
		"*.pyo",
		".venv/",
		"venv/",
		".pytest_cache/",
		".mypy_cache/",
		".DS_Store",
		"Thumbs.db",
	}
}
