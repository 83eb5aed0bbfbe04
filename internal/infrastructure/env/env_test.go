package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapEnvService_TypedGetters(t *testing.T) {
	svc := NewMapEnvService(map[string]string{
		"NAME":        "planner",
		"ITERATIONS":  "12",
		"VERBOSE":     "true",
		"TEMPERATURE": "0.7",
		"TIMEOUT":     "45s",
		"BROKEN_INT":  "twelve",
	})

	assert.Equal(t, "planner", svc.Get("NAME"))
	assert.Equal(t, "fallback", svc.GetWithDefault("MISSING", "fallback"))
	assert.Equal(t, 12, svc.GetInt("ITERATIONS", 3))
	assert.Equal(t, 3, svc.GetInt("BROKEN_INT", 3))
	assert.True(t, svc.GetBool("VERBOSE", false))
	assert.InDelta(t, 0.7, svc.GetFloat("TEMPERATURE", 0.5), 1e-9)
	assert.Equal(t, 45*time.Second, svc.GetDuration("TIMEOUT", time.Minute))
	assert.Equal(t, time.Minute, svc.GetDuration("MISSING", time.Minute))
}

func TestNewEnvService_LayersAppEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PLANNER_TEST_LAYER=base\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte("PLANNER_TEST_LAYER=override\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("APP_ENV", "test")

	svc := NewEnvService()

	assert.Equal(t, "override", svc.Get("PLANNER_TEST_LAYER"))
	_, set := os.LookupEnv("PLANNER_TEST_LAYER")
	assert.False(t, set, "process environment must stay untouched")
}

func TestNewEnvService_ProcessEnvBeatsBaseFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PLANNER_TEST_BASE=file\nPLANNER_TEST_ONLY_FILE=yes\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("APP_ENV", "none")
	t.Setenv("PLANNER_TEST_BASE", "process")

	svc := NewEnvService()

	assert.Equal(t, "process", svc.Get("PLANNER_TEST_BASE"))
	assert.Equal(t, "yes", svc.Get("PLANNER_TEST_ONLY_FILE"))
}
