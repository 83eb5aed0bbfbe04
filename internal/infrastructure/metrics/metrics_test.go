package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"trip-planner/internal/domain/entity"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlanner struct {
	err error
}

func (s stubPlanner) Plan(context.Context, entity.TripRequest, entity.Credentials) (*entity.Itinerary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Itinerary{Text: "plan"}, nil
}

func TestOutcome(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, OutcomeOK},
		{fmt.Errorf("%w: destination", entity.ErrMissingInput), OutcomeMissingInput},
		{entity.ErrMissingCredentials, OutcomeMissingInput},
		{&entity.StageError{Stage: entity.StageResearcher, Err: entity.NewExternalError(entity.ServiceLLM, context.DeadlineExceeded)}, OutcomeTimeout},
		{entity.NewExternalError(entity.ServiceSearch, errors.New("503")), OutcomeService},
		{context.DeadlineExceeded, OutcomeTimeout},
		{entity.ErrMaxIterations, OutcomeError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Outcome(tc.err), "%v", tc.err)
	}
}

func TestObserver_RecordsStagesAndTools(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.ToolInvoked(ctx, entity.StageResearcher, entity.ToolWebSearch, `{"query":"q"}`)
	m.ToolInvoked(ctx, entity.StageResearcher, entity.ToolWebSearch, `{"query":"q"}`)
	m.StageCompleted(ctx, entity.StageResearcher, "out", 2*time.Second)
	m.StageFailed(ctx, entity.StageBudgetPlanner, entity.NewExternalError(entity.ServiceLLM, errors.New("x")), time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.toolCalls.WithLabelValues("researcher", "web_search")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stages.WithLabelValues("researcher", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stages.WithLabelValues("budget_planner", OutcomeService)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.stageDuration))
}

func TestInstrumentPlanner(t *testing.T) {
	m := New()

	_, err := m.InstrumentPlanner(stubPlanner{}).Plan(context.Background(), entity.TripRequest{}, entity.Credentials{})
	require.NoError(t, err)
	_, err = m.InstrumentPlanner(stubPlanner{err: entity.ErrMissingCredentials}).Plan(context.Background(), entity.TripRequest{}, entity.Credentials{})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues(OutcomeMissingInput)))
}

func TestHandler_ServesRegistry(t *testing.T) {
	m := New()
	m.ToolInvoked(context.Background(), entity.StageResearcher, entity.ToolWebSearch, "")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `trip_planner_tool_calls_total{stage="researcher",tool="web_search"} 1`)
}
