package telemetry_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gorootfind/telemetry"
)

func TestObserveRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(reg)

	m.ObserveRun("newton", "converged", 3)
	m.ObserveRun("newton", "converged", 4)
	m.ObserveRun("secant", "breakdown", 1)

	expected := `
# HELP rootfind_runs_total Root-finding runs by method and outcome
# TYPE rootfind_runs_total counter
rootfind_runs_total{method="newton",outcome="converged"} 2
rootfind_runs_total{method="secant",outcome="breakdown"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "rootfind_runs_total"))

	count, err := testutil.GatherAndCount(reg, "rootfind_run_iterations")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestObserveSweep(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(reg)

	m.ObserveSweepRate("default", "newton", 1.98)
	m.ObserveSweepDuration("default", 250*time.Millisecond)

	expected := `
# HELP rootfind_sweep_mean_rate Mean estimated convergence order of the most recent sweep
# TYPE rootfind_sweep_mean_rate gauge
rootfind_sweep_mean_rate{method="newton",sweep="default"} 1.98
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "rootfind_sweep_mean_rate"))
}

func TestNilMetrics(t *testing.T) {
	var m *telemetry.Metrics
	assert.NotPanics(t, func() {
		m.ObserveRun("newton", "converged", 1)
		m.ObserveSweepRate("s", "newton", 2)
		m.ObserveSweepDuration("s", time.Second)
	})
}
