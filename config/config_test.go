package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gorootfind/config"
	"github.com/njchilds90/gorootfind/rootfind"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rootfind.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	_, ok := cfg.Sweep("quintic")
	assert.True(t, ok)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
server:
  addr: ":9090"
  request_timeout: 5s
sweeps:
  - name: cubic
    expression: "x^3 - 2*x - 5"
    methods: [newton, halley, taylor]
    from: 0
    to: 4
    step: 0.5
    epsilon: 1e-10
    max_iterations: 200
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)

	require.Len(t, cfg.Sweeps, 1)
	spec, ok := cfg.Sweep("cubic")
	require.True(t, ok)
	assert.Equal(t, []rootfind.Method{rootfind.MethodNewton, rootfind.MethodHalley, rootfind.MethodTaylor}, spec.Methods)
	assert.Equal(t, 1e-10, spec.Epsilon)
	_, ok = cfg.Sweep("quintic")
	assert.False(t, ok)
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown method":  "sweeps:\n  - expression: x\n    methods: [bisection]\n    from: 0\n    to: 1\n    step: 1\n    epsilon: 1e-9\n",
		"bad level":       "log:\n  level: loud\n",
		"bad format":      "log:\n  format: xml\n",
		"missing epsilon": "sweeps:\n  - expression: x\n    from: 0\n    to: 1\n    step: 1\n",
		"duplicate names": "sweeps:\n  - {name: a, expression: x, from: 0, to: 1, step: 1, epsilon: 1e-9}\n  - {name: a, expression: x, from: 0, to: 1, step: 1, epsilon: 1e-9}\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := config.LogConfig{Level: "warn", Format: "json"}.Logger(&buf)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "method", "newton")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"method":"newton"`)
}
