// Package planner turns a project request into a validated Plan.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Saikiran1923/Aura-x/pkg/filesystem"
	"github.com/Saikiran1923/Aura-x/pkg/llm"
	"github.com/Saikiran1923/Aura-x/pkg/prompts"
	"github.com/Saikiran1923/Aura-x/pkg/utils"
)

// ErrEmptyRequest is returned for a blank project request.
var ErrEmptyRequest = errors.New("project request is empty")

// planOptions keeps the planner reply short and close to deterministic.
var planOptions = llm.Options{
	Temperature: 0.1,
	TopP:        0.8,
	NumCtx:      2048,
	NumPredict:  600,
}

// Planner asks the generation service for a plan. It does not retry on a bad
// reply; RepairPlan exists for a caller that wants one more try.
type Planner struct {
	gen    llm.Generator
	logger *utils.Logger
}

// New creates a Planner.
func New(gen llm.Generator, logger *utils.Logger) *Planner {
	return &Planner{gen: gen, logger: logger}
}

// MakePlan requests and validates a plan for request.
func (p *Planner) MakePlan(ctx context.Context, request string) (*Plan, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return nil, ErrEmptyRequest
	}
	return p.ask(ctx, prompts.PlannerPrompt(request))
}

// RepairPlan asks again after cause rejected the previous reply, telling the
// model what was wrong.
func (p *Planner) RepairPlan(ctx context.Context, request string, cause error) (*Plan, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return nil, ErrEmptyRequest
	}
	problem := "unparseable reply"
	var planErr *PlanError
	if errors.As(cause, &planErr) {
		problem = planErr.Reason
	}
	return p.ask(ctx, prompts.PlannerRetryPrompt(request, problem))
}

// Repairable reports whether err is a structurally bad reply that earns one
// more try. Unsafe paths never do.
func Repairable(err error) bool {
	return errors.Is(err, llm.ErrGenerationMalformed) && !errors.Is(err, filesystem.ErrPathEscape)
}

func (p *Planner) ask(ctx context.Context, prompt string) (*Plan, error) {
	raw, err := p.gen.Generate(ctx, prompt, planOptions)
	if err != nil {
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}
	plan, err := ParsePlan(raw)
	if err != nil {
		p.logger.LogError(err)
		return nil, err
	}
	p.logger.Logf("plan accepted: %d file(s): %s", len(plan.Files), strings.Join(plan.Paths(), ", "))
	return plan, nil
}
