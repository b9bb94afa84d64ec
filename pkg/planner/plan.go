package planner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Saikiran1923/Aura-x/pkg/filesystem"
	"github.com/Saikiran1923/Aura-x/pkg/llm"
	"github.com/Saikiran1923/Aura-x/pkg/prompts"
	"github.com/Saikiran1923/Aura-x/pkg/text"
)

// ErrPlanMalformed is matched by every plan rejection.
var ErrPlanMalformed = errors.New("plan malformed")

const snippetLen = 300

// FileSpec is one file the project should contain.
type FileSpec struct {
	Path        string `json:"path" yaml:"path"`
	Description string `json:"description" yaml:"description"`
}

// Plan is the validated, ordered list of files to generate.
type Plan struct {
	Files []FileSpec `json:"files" yaml:"files"`
}

// Paths returns the planned paths in order.
func (p *Plan) Paths() []string {
	paths := make([]string, len(p.Files))
	for i, f := range p.Files {
		paths[i] = f.Path
	}
	return paths
}

// PromptFiles converts the plan into the form the prompt builders use.
func (p *Plan) PromptFiles() []prompts.PlanFile {
	files := make([]prompts.PlanFile, len(p.Files))
	for i, f := range p.Files {
		files[i] = prompts.PlanFile{Path: f.Path, Description: f.Description}
	}
	return files
}

// PlanError explains why a reply was not accepted as a plan.
type PlanError struct {
	Reason  string
	Snippet string
	Err     error // set for path violations
}

func (e *PlanError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("plan rejected: %s", e.Reason)
	}
	return fmt.Sprintf("plan rejected: %s (reply: %q)", e.Reason, e.Snippet)
}

func (e *PlanError) Unwrap() []error {
	errs := []error{ErrPlanMalformed, llm.ErrGenerationMalformed}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func reject(raw, format string, args ...interface{}) *PlanError {
	return &PlanError{Reason: fmt.Sprintf(format, args...), Snippet: text.Snippet(raw, snippetLen)}
}

// ParsePlan checks a generation reply against the plan schema: a JSON array
// of objects carrying exactly a non-empty "path" and "description" string,
// with safe, unique relative paths. Surrounding prose and code fences are
// tolerated; anything else is rejected.
func ParsePlan(raw string) (*Plan, error) {
	stripped := text.StripCodeFences(raw)
	if strings.HasPrefix(stripped, "{") {
		return nil, reject(raw, "top-level value is not a list")
	}
	body := text.ExtractJSONArray(stripped)
	if body == "" {
		return nil, reject(raw, "no JSON array found")
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(body), &entries); err != nil {
		return nil, reject(raw, "invalid JSON: %v", err)
	}
	if len(entries) == 0 {
		return nil, reject(raw, "plan lists no files")
	}

	plan := &Plan{Files: make([]FileSpec, 0, len(entries))}
	seen := make(map[string]int, len(entries))
	for i, entry := range entries {
		spec, err := decodeEntry(entry)
		if err != nil {
			return nil, reject(raw, "entry %d: %v", i+1, err)
		}

		clean, err := filesystem.CleanRelative(spec.Path)
		if err != nil {
			perr := reject(raw, "entry %d: %v", i+1, err)
			perr.Err = err
			return nil, perr
		}
		key := strings.ReplaceAll(clean, `\`, "/")
		if prev, dup := seen[key]; dup {
			return nil, reject(raw, "entry %d: path %q already listed by entry %d", i+1, spec.Path, prev)
		}
		seen[key] = i + 1

		plan.Files = append(plan.Files, FileSpec{Path: key, Description: spec.Description})
	}
	return plan, nil
}

func decodeEntry(entry json.RawMessage) (FileSpec, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
		return FileSpec{}, errors.New("not an object")
	}

	var extra []string
	for k := range fields {
		if k != "path" && k != "description" {
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return FileSpec{}, fmt.Errorf("unexpected field(s) %s", strings.Join(extra, ", "))
	}

	var spec FileSpec
	for _, f := range []struct {
		name string
		dst  *string
	}{{"path", &spec.Path}, {"description", &spec.Description}} {
		rawVal, ok := fields[f.name]
		if !ok {
			return FileSpec{}, fmt.Errorf("missing %q", f.name)
		}
		dec := json.NewDecoder(bytes.NewReader(rawVal))
		if err := dec.Decode(f.dst); err != nil || bytes.Equal(bytes.TrimSpace(rawVal), []byte("null")) {
			return FileSpec{}, fmt.Errorf("%q is not a string", f.name)
		}
		*f.dst = strings.TrimSpace(*f.dst)
		if *f.dst == "" {
			return FileSpec{}, fmt.Errorf("%q is empty", f.name)
		}
	}
	return spec, nil
}
