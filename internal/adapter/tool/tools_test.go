package tool

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"trip-planner/internal/domain/entity"
	"trip-planner/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearch struct {
	results  []entity.SearchResult
	err      error
	queries  []string
	deadline bool
}

func (f *fakeSearch) Search(ctx context.Context, query string) ([]entity.SearchResult, error) {
	f.queries = append(f.queries, query)
	_, f.deadline = ctx.Deadline()
	return f.results, f.err
}

func TestWebSearchTool_FormatsResults(t *testing.T) {
	search := &fakeSearch{results: []entity.SearchResult{
		{Position: 1, Title: "Charminar", Link: "https://example.com/charminar", Snippet: "Iconic monument"},
		{Position: 2, Title: "Golconda Fort"},
	}}
	tool := NewWebSearchTool(search, logger.NewNop(), time.Second)

	out, err := tool.Execute(context.Background(), `{"query":"Hyderabad sights"}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"Hyderabad sights"}, search.queries)
	assert.True(t, search.deadline)
	assert.Contains(t, out, `Search results for "Hyderabad sights"`)
	assert.Contains(t, out, "1. Charminar")
	assert.Contains(t, out, "Link: https://example.com/charminar")
	assert.Contains(t, out, "Snippet: Iconic monument")
	assert.Contains(t, out, "2. Golconda Fort")
	assert.Less(t, strings.Index(out, "Charminar"), strings.Index(out, "Golconda"))
}

func TestWebSearchTool_NoResults(t *testing.T) {
	tool := NewWebSearchTool(&fakeSearch{}, logger.NewNop(), 0)

	out, err := tool.Execute(context.Background(), `{"query":"nothing"}`)
	require.NoError(t, err)
	assert.Equal(t, `No results found for "nothing".`, out)
}

func TestWebSearchTool_InvalidArguments(t *testing.T) {
	search := &fakeSearch{}
	tool := NewWebSearchTool(search, logger.NewNop(), 0)

	_, err := tool.Execute(context.Background(), `not json`)
	assert.ErrorIs(t, err, ErrInvalidArguments)

	_, err = tool.Execute(context.Background(), `{"query":"   "}`)
	assert.ErrorIs(t, err, ErrInvalidArguments)

	assert.Empty(t, search.queries)
}

func TestWebSearchTool_SearchFailureIsExternal(t *testing.T) {
	tool := NewWebSearchTool(&fakeSearch{err: context.DeadlineExceeded}, logger.NewNop(), 0)

	_, err := tool.Execute(context.Background(), `{"query":"x"}`)
	require.Error(t, err)

	var ext *entity.ExternalError
	require.ErrorAs(t, err, &ext)
	assert.Equal(t, entity.ServiceSearch, ext.Service)
	assert.Equal(t, entity.FailureTimeout, ext.Kind)
}

func TestWebSearchTool_Metadata(t *testing.T) {
	tool := NewWebSearchTool(&fakeSearch{}, logger.NewNop(), 0)

	assert.Equal(t, entity.ToolWebSearch, tool.Name())
	assert.NotEmpty(t, tool.Description())
	assert.Equal(t, []string{"query"}, tool.Parameters()["required"])
}

func coworkers() []entity.Stage {
	return []entity.Stage{
		{Name: entity.StageBudgetPlanner, Role: "Budget Planner", Goal: "Plan the budget"},
		{Name: entity.StageItineraryPlanner, Role: "Itinerary Planner", Goal: "Plan the days"},
	}
}

func TestDelegateWorkTool_Delegates(t *testing.T) {
	var got struct {
		coworker entity.Stage
		task     string
		context  string
	}
	delegate := func(ctx context.Context, c entity.Stage, task, taskContext string) (string, error) {
		got.coworker, got.task, got.context = c, task, taskContext
		return "about 40 USD per day", nil
	}
	tool := NewDelegateWorkTool(coworkers(), delegate, logger.NewNop())

	out, err := tool.Execute(context.Background(), `{"coworker":"budget planner","task":"Daily food cost?","context":"Hyderabad, 5000"}`)
	require.NoError(t, err)

	assert.Equal(t, "about 40 USD per day", out)
	assert.Equal(t, entity.StageBudgetPlanner, got.coworker.Name)
	assert.Equal(t, "Daily food cost?", got.task)
	assert.Equal(t, "Hyderabad, 5000", got.context)
}

func TestDelegateWorkTool_AcceptsStageName(t *testing.T) {
	called := false
	delegate := func(context.Context, entity.Stage, string, string) (string, error) {
		called = true
		return "ok", nil
	}
	tool := NewDelegateWorkTool(coworkers(), delegate, logger.NewNop())

	_, err := tool.Execute(context.Background(), `{"coworker":"itinerary_planner","task":"t"}`)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestDelegateWorkTool_InvalidArguments(t *testing.T) {
	delegate := func(context.Context, entity.Stage, string, string) (string, error) {
		t.Fatal("delegate must not be called")
		return "", nil
	}
	tool := NewDelegateWorkTool(coworkers(), delegate, logger.NewNop())

	for _, args := range []string{
		`{`,
		`{"coworker":"Budget Planner"}`,
		`{"coworker":"Travel Agent","task":"t"}`,
	} {
		_, err := tool.Execute(context.Background(), args)
		assert.ErrorIs(t, err, ErrInvalidArguments, args)
	}
}

func TestDelegateWorkTool_PropagatesFailure(t *testing.T) {
	ext := entity.NewExternalError(entity.ServiceLLM, errors.New("boom"))
	delegate := func(context.Context, entity.Stage, string, string) (string, error) {
		return "", ext
	}
	tool := NewDelegateWorkTool(coworkers(), delegate, logger.NewNop())

	_, err := tool.Execute(context.Background(), `{"coworker":"Budget Planner","task":"t"}`)
	assert.ErrorIs(t, err, ext)
	assert.NotErrorIs(t, err, ErrInvalidArguments)
}

func TestDelegateWorkTool_ParametersListCoworkers(t *testing.T) {
	tool := NewDelegateWorkTool(coworkers(), nil, logger.NewNop())

	props := tool.Parameters()["properties"].(map[string]interface{})
	coworker := props["coworker"].(map[string]interface{})
	assert.Equal(t, []string{"Budget Planner", "Itinerary Planner"}, coworker["enum"])
	assert.Contains(t, tool.Description(), "- Budget Planner: Plan the budget")
}
