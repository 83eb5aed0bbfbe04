package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"trip-planner/internal/application/port/input"
	"trip-planner/internal/application/port/output"
	"trip-planner/internal/domain/entity"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trip_planner"

// Run outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeMissingInput = "missing_input"
	OutcomeTimeout      = "timeout"
	OutcomeService      = "service_error"
	OutcomeError        = "error"
)

var _ output.PipelineObserver = (*Metrics)(nil)

// Metrics records pipeline activity on its own registry.
type Metrics struct {
	registry      *prometheus.Registry
	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	stages        *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	toolCalls     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Trip planning runs by outcome",
			},
			[]string{"outcome"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of trip planning runs",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
		),
		stages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stages_total",
				Help:      "Finished stages by stage and outcome",
			},
			[]string{"stage", "outcome"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of pipeline stages",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
			},
			[]string{"stage"},
		),
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_calls_total",
				Help:      "Tool invocations by stage and tool",
			},
			[]string{"stage", "tool"},
		),
	}
	m.registry.MustRegister(m.runs, m.runDuration, m.stages, m.stageDuration, m.toolCalls)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) StageStarted(context.Context, entity.Stage, int, int) {}

func (m *Metrics) ToolInvoked(_ context.Context, stage entity.StageName, tool entity.ToolName, _ string) {
	m.toolCalls.WithLabelValues(string(stage), tool.String()).Inc()
}

func (m *Metrics) StageCompleted(_ context.Context, stage entity.StageName, _ string, elapsed time.Duration) {
	m.stages.WithLabelValues(string(stage), OutcomeOK).Inc()
	m.stageDuration.WithLabelValues(string(stage)).Observe(elapsed.Seconds())
}

func (m *Metrics) StageFailed(_ context.Context, stage entity.StageName, err error, elapsed time.Duration) {
	m.stages.WithLabelValues(string(stage), Outcome(err)).Inc()
	m.stageDuration.WithLabelValues(string(stage)).Observe(elapsed.Seconds())
}

// InstrumentPlanner counts every Plan call by outcome.
func (m *Metrics) InstrumentPlanner(next input.TripPlanner) input.TripPlanner {
	return &instrumentedPlanner{next: next, metrics: m}
}

type instrumentedPlanner struct {
	next    input.TripPlanner
	metrics *Metrics
}

func (p *instrumentedPlanner) Plan(ctx context.Context, req entity.TripRequest, creds entity.Credentials) (*entity.Itinerary, error) {
	start := time.Now()
	itinerary, err := p.next.Plan(ctx, req, creds)

	outcome := Outcome(err)
	p.metrics.runs.WithLabelValues(outcome).Inc()
	if outcome != OutcomeMissingInput {
		p.metrics.runDuration.Observe(time.Since(start).Seconds())
	}
	return itinerary, err
}

// Outcome classifies err into a metric label.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	if errors.Is(err, entity.ErrMissingInput) || errors.Is(err, entity.ErrMissingCredentials) {
		return OutcomeMissingInput
	}
	if kind, ok := entity.FailureKindOf(err); ok {
		if kind == entity.FailureTimeout {
			return OutcomeTimeout
		}
		return OutcomeService
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return OutcomeTimeout
	}
	return OutcomeError
}
