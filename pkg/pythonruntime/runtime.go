// Package pythonruntime locates the interpreter generated projects run with.
package pythonruntime

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrInterpreterNotFound means no usable interpreter was found.
var ErrInterpreterNotFound = errors.New("python interpreter not found")

const probeTimeout = 5 * time.Second

// Interpreter contains resolved Python interpreter metadata. Version fields
// are empty for an explicitly configured interpreter.
type Interpreter struct {
	Alias   string
	Path    string
	Version string
	Major   int
	Minor   int
}

func (i Interpreter) String() string {
	if i.Version == "" {
		return i.Path
	}
	return fmt.Sprintf("%s (%s)", i.Path, i.Version)
}

// Resolve returns the configured interpreter when override is set, trusting
// it as-is apart from a PATH lookup, and searches for Python 3 otherwise.
func Resolve(override string) (Interpreter, error) {
	override = strings.TrimSpace(override)
	if override == "" {
		return FindPython3Interpreter()
	}
	p, err := exec.LookPath(override)
	if err != nil {
		return Interpreter{}, fmt.Errorf("%w: configured interpreter %q: %v", ErrInterpreterNotFound, override, err)
	}
	return Interpreter{Alias: override, Path: p}, nil
}

// FindPython3Interpreter resolves a Python 3 interpreter from common aliases.
func FindPython3Interpreter() (Interpreter, error) {
	return FindPython3InterpreterAtLeast(0)
}

// FindPython3InterpreterAtLeast resolves a Python 3 interpreter with a minimum minor version.
func FindPython3InterpreterAtLeast(minMinor int) (Interpreter, error) {
	var rejected []string
	for _, alias := range []string{"python3", "python"} {
		p, err := exec.LookPath(alias)
		if err != nil {
			continue
		}

		interp, err := probe(alias, p)
		switch {
		case err != nil:
			rejected = append(rejected, fmt.Sprintf("%s: could not read version", alias))
		case interp.Major != 3:
			rejected = append(rejected, fmt.Sprintf("%s -> %s (major=%d)", alias, interp.Version, interp.Major))
		case interp.Minor < minMinor:
			rejected = append(rejected, fmt.Sprintf("%s -> %s (requires >=3.%d)", alias, interp.Version, minMinor))
		default:
			return interp, nil
		}
	}

	if len(rejected) > 0 {
		return Interpreter{}, fmt.Errorf("%w: python 3.%d+ is required; found incompatible interpreters: %s",
			ErrInterpreterNotFound, minMinor, strings.Join(rejected, "; "))
	}
	return Interpreter{}, fmt.Errorf("%w: python 3.%d+ is required but neither 'python3' nor 'python' is in PATH (set AURAX_PYTHON)",
		ErrInterpreterNotFound, minMinor)
}

func probe(alias, path string) (Interpreter, error) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "-c",
		"import sys; print(sys.version_info.major); print(sys.version_info.minor); print(sys.version.split()[0])",
	).CombinedOutput()
	if err != nil {
		return Interpreter{}, err
	}
	return parseVersion(alias, path, string(out))
}

func parseVersion(alias, path, out string) (Interpreter, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 3 {
		return Interpreter{}, fmt.Errorf("unexpected version response %q", out)
	}
	major, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return Interpreter{}, fmt.Errorf("invalid major version: %w", err)
	}
	minor, err := strconv.Atoi(strings.TrimSpace(lines[1]))
	if err != nil {
		return Interpreter{}, fmt.Errorf("invalid minor version: %w", err)
	}
	return Interpreter{
		Alias:   alias,
		Path:    path,
		Version: strings.TrimSpace(lines[2]),
		Major:   major,
		Minor:   minor,
	}, nil
}
