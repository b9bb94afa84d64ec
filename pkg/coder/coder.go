// Package coder writes the files of a plan into a project directory, one
// generation call per file.
package coder

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Saikiran1923/Aura-x/pkg/filesystem"
	"github.com/Saikiran1923/Aura-x/pkg/llm"
	"github.com/Saikiran1923/Aura-x/pkg/planner"
	"github.com/Saikiran1923/Aura-x/pkg/prompts"
	"github.com/Saikiran1923/Aura-x/pkg/text"
	"github.com/Saikiran1923/Aura-x/pkg/utils"
)

// GeneratedFile records a file written to disk. The content itself is not
// kept.
type GeneratedFile struct {
	Path    string `json:"path" yaml:"path"`
	AbsPath string `json:"abs_path" yaml:"abs_path"`
	Bytes   int    `json:"bytes" yaml:"bytes"`
}

// ProgressFunc is called before each file is generated.
type ProgressFunc func(index, total int, path string)

// Coder materializes plans. The zero Request is allowed; it only adds
// context to the prompts.
type Coder struct {
	gen      llm.Generator
	logger   *utils.Logger
	Request  string
	Progress ProgressFunc
}

// New creates a Coder.
func New(gen llm.Generator, logger *utils.Logger) *Coder {
	return &Coder{gen: gen, logger: logger}
}

// Materialize generates every planned file in order and writes it under
// projectDir, creating directories as needed. Each path is checked against
// projectDir before its generation call. It stops at the first failure and
// returns the files written so far.
func (c *Coder) Materialize(ctx context.Context, plan *planner.Plan, projectDir string) ([]GeneratedFile, error) {
	if plan == nil || len(plan.Files) == 0 {
		return nil, errors.New("nothing to materialize: empty plan")
	}
	if err := filesystem.EnsureDir(projectDir); err != nil {
		return nil, fmt.Errorf("failed to create project directory %s: %w", projectDir, err)
	}

	planFiles := plan.PromptFiles()
	written := make([]GeneratedFile, 0, len(plan.Files))
	for i, spec := range plan.Files {
		if _, err := filesystem.ResolveWithin(projectDir, spec.Path); err != nil {
			return written, err
		}
		if c.Progress != nil {
			c.Progress(i+1, len(plan.Files), spec.Path)
		}

		prompt := prompts.CoderPrompt(planFiles[i], planFiles, c.Request)
		reply, err := c.gen.Generate(ctx, prompt, fileOptions(spec.Path))
		if err != nil {
			return written, fmt.Errorf("generating %s: %w", spec.Path, err)
		}
		content := text.StripCodeFences(reply)
		if content == "" {
			return written, fmt.Errorf("generating %s: %w", spec.Path,
				&llm.Error{Kind: llm.ErrGenerationMalformed, Attempts: 1, Err: errors.New("reply held only a code fence")})
		}

		file, err := c.WriteFile(projectDir, spec.Path, content)
		if err != nil {
			return written, err
		}
		written = append(written, file)
	}
	return written, nil
}

// WriteFile writes content to relPath inside projectDir. It is the only way
// this package touches the disk, and is also used to apply corrections.
func (c *Coder) WriteFile(projectDir, relPath, content string) (GeneratedFile, error) {
	abs, err := filesystem.ResolveWithin(projectDir, relPath)
	if err != nil {
		return GeneratedFile{}, err
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := filesystem.WriteFileWithDir(abs, []byte(content), 0o644); err != nil {
		return GeneratedFile{}, err
	}
	c.logger.Logf("wrote %s (%d bytes)", relPath, len(content))
	return GeneratedFile{Path: relPath, AbsPath: abs, Bytes: len(content)}, nil
}

// fileOptions sizes the reply budget by file type.
func fileOptions(path string) llm.Options {
	opts := llm.Options{Temperature: 0.1, TopP: 0.85, NumCtx: 3072}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		opts.NumPredict = 900
	case ".md", ".txt", ".json", ".yaml", ".yml":
		opts.NumPredict = 650
	default:
		opts.NumPredict = 750
	}
	return opts
}
