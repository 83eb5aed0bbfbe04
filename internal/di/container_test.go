package di

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trip-planner/internal/infrastructure/env"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig(env.NewMapEnvService(nil))

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "gpt-4", cfg.LLMModel)
	assert.InDelta(t, 0.5, cfg.LLMTemperature, 1e-9)
	assert.Equal(t, 2*time.Minute, cfg.LLMTimeout)
	assert.Equal(t, "https://google.serper.dev", cfg.SearchBaseURL)
	assert.Equal(t, 10, cfg.SearchResults)
	assert.Equal(t, 30*time.Second, cfg.SearchTimeout)
	assert.Equal(t, 20, cfg.MaxIterations)
	assert.Equal(t, 10*time.Minute, cfg.RunTimeout)
	assert.False(t, cfg.Operator.Complete())
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg := LoadConfig(env.NewMapEnvService(map[string]string{
		"PLANNER_ADDR":         ":9000",
		"OPENAI_API_KEY":       "sk-op",
		"SERPER_API_KEY":       "serper-op",
		"LLM_MODEL":            "gpt-4o-mini",
		"LLM_TEMPERATURE":      "0.2",
		"STAGE_MAX_ITERATIONS": "7",
		"RUN_TIMEOUT":          "90s",
		"VERBOSE":              "false",
	}))

	assert.Equal(t, ":9000", cfg.Addr)
	assert.True(t, cfg.Operator.Complete())
	assert.Equal(t, "gpt-4o-mini", cfg.LLMModel)
	assert.InDelta(t, 0.2, cfg.LLMTemperature, 1e-9)
	assert.Equal(t, 7, cfg.MaxIterations)
	assert.Equal(t, 90*time.Second, cfg.RunTimeout)
	assert.False(t, cfg.Verbose)
}

func TestNewContainer_WiresServer(t *testing.T) {
	cfg := LoadConfig(env.NewMapEnvService(map[string]string{"VERBOSE": "false", "LOG_LEVEL": "error"}))

	c, err := NewContainer(cfg)
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.Planner)
	require.NotNil(t, c.Metrics)

	rec := httptest.NewRecorder()
	c.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewContainer_InvalidLogLevel(t *testing.T) {
	cfg := LoadConfig(env.NewMapEnvService(map[string]string{"LOG_LEVEL": "loud"}))

	_, err := NewContainer(cfg)
	assert.Error(t, err)
}
