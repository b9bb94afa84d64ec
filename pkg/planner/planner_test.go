package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/Saikiran1923/Aura-x/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedGenerator struct {
	replies []string
	err     error
	prompts []string
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string, _ llm.Options) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	reply := g.replies[0]
	g.replies = g.replies[1:]
	return reply, nil
}

func TestMakePlan(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{`[{"path": "main.py", "description": "prints hello"}]`}}
	p := New(gen, nil)

	plan, err := p.MakePlan(context.Background(), "  print hello  ")
	require.NoError(t, err)
	require.Len(t, plan.Files, 1)
	assert.Equal(t, "main.py", plan.Files[0].Path)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "User request:\nprint hello\n")
}

func TestMakePlanRejectsEmptyRequest(t *testing.T) {
	gen := &scriptedGenerator{}
	_, err := New(gen, nil).MakePlan(context.Background(), " \n")
	assert.ErrorIs(t, err, ErrEmptyRequest)
	assert.Empty(t, gen.prompts)
}

func TestMakePlanPassesGenerationErrors(t *testing.T) {
	cause := &llm.Error{Kind: llm.ErrGenerationUnavailable, Attempts: 3, Err: errors.New("connection refused")}
	_, err := New(&scriptedGenerator{err: cause}, nil).MakePlan(context.Background(), "x")
	assert.ErrorIs(t, err, llm.ErrGenerationUnavailable)
	assert.NotErrorIs(t, err, ErrPlanMalformed)
}

func TestRepairPlanMentionsProblem(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{
		"sure thing!",
		`[{"path": "main.py", "description": "entry"}]`,
	}}
	p := New(gen, nil)

	_, err := p.MakePlan(context.Background(), "a game")
	require.ErrorIs(t, err, ErrPlanMalformed)

	plan, err := p.RepairPlan(context.Background(), "a game", err)
	require.NoError(t, err)
	assert.Len(t, plan.Files, 1)
	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[1], "previous output was invalid JSON")
	assert.Contains(t, gen.prompts[1], "no JSON array found")
}

func TestRepairable(t *testing.T) {
	_, escape := ParsePlan(`[{"path": "../x.py", "description": "x"}]`)
	_, noArray := ParsePlan("no plan here")
	empty := &llm.Error{Kind: llm.ErrGenerationMalformed, Attempts: 1, Err: errors.New("empty response")}
	down := &llm.Error{Kind: llm.ErrGenerationUnavailable, Attempts: 3, Err: errors.New("refused")}

	assert.False(t, Repairable(escape))
	assert.True(t, Repairable(noArray))
	assert.True(t, Repairable(empty))
	assert.False(t, Repairable(down))
}
