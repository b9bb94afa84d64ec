package coder

import (
	"errors"
	"path"
	"strings"
)

// ErrNoEntryPoint means the plan has no Python file to run.
var ErrNoEntryPoint = errors.New("no runnable entry point in plan")

const entryName = "main.py"

// SelectEntry picks the file to execute from slash-separated relative paths
// in plan order:
//  1. a root-level main.py
//  2. the shallowest main.py in a subdirectory, earliest in the plan on ties
//  3. the first .py file
func SelectEntry(paths []string) (string, error) {
	best, bestDepth := "", -1
	for _, p := range paths {
		if path.Base(p) != entryName {
			continue
		}
		depth := strings.Count(p, "/")
		if bestDepth == -1 || depth < bestDepth {
			best, bestDepth = p, depth
		}
	}
	if best != "" {
		return best, nil
	}
	for _, p := range paths {
		if strings.EqualFold(path.Ext(p), ".py") {
			return p, nil
		}
	}
	return "", ErrNoEntryPoint
}
