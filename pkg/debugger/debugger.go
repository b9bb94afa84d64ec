// Package debugger asks the generation service for a corrected version of a
// file that failed to run. It never writes to disk.
package debugger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Saikiran1923/Aura-x/pkg/llm"
	"github.com/Saikiran1923/Aura-x/pkg/prompts"
	"github.com/Saikiran1923/Aura-x/pkg/text"
	"github.com/Saikiran1923/Aura-x/pkg/utils"
)

// ErrCorrectionUnavailable means no corrected content could be obtained.
var ErrCorrectionUnavailable = errors.New("correction unavailable")

// CorrectionError wraps the generation failure behind a correction.
type CorrectionError struct {
	File string
	Err  error
}

func (e *CorrectionError) Error() string {
	return fmt.Sprintf("%v for %s: %v", ErrCorrectionUnavailable, e.File, e.Err)
}

func (e *CorrectionError) Unwrap() []error {
	return []error{ErrCorrectionUnavailable, e.Err}
}

var fixOptions = llm.Options{
	Temperature: 0.1,
	TopP:        0.85,
	NumCtx:      3072,
	NumPredict:  1000,
}

// Debugger produces corrected file content.
type Debugger struct {
	gen    llm.Generator
	logger *utils.Logger
}

// New creates a Debugger.
func New(gen llm.Generator, logger *utils.Logger) *Debugger {
	return &Debugger{gen: gen, logger: logger}
}

// Correct returns the full corrected content for filePath given its original
// content and the diagnostic from the failed run.
func (d *Debugger) Correct(ctx context.Context, filePath, original, diagnostic string) (string, error) {
	prompt := prompts.DebuggerPrompt(filepath.Base(filePath), original, diagnostic)
	reply, err := d.gen.Generate(ctx, prompt, fixOptions)
	if err != nil {
		return "", &CorrectionError{File: filePath, Err: err}
	}
	fixed := text.StripCodeFences(reply)
	if fixed == "" {
		return "", &CorrectionError{File: filePath, Err: errors.New("reply held no file content")}
	}
	if !strings.HasSuffix(fixed, "\n") {
		fixed += "\n"
	}
	d.logger.Logf("correction for %s received (%d bytes)", filePath, len(fixed))
	return fixed, nil
}
