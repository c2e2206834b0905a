package plot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gorootfind/plot"
	"github.com/njchilds90/gorootfind/rootfind"
)

func TestHistories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "convergence.png")
	err := plot.Histories(path, "x^2 - 2", map[string]rootfind.History{
		"newton": {0.25, 6.9e-3, 6.0e-6, 4.5e-12},
		"secant": {0.25, 0.1, 1e-2, 1e-4, 1e-7, 0},
	})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestHistories_NothingToPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	err := plot.Histories(path, "empty", map[string]rootfind.History{"newton": {}, "halley": {0}})
	assert.ErrorIs(t, err, plot.ErrNothingToPlot)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestHistories_UnknownFormat(t *testing.T) {
	err := plot.Histories(filepath.Join(t.TempDir(), "trace.xyz"), "t", map[string]rootfind.History{"newton": {1, 0.1}})
	assert.Error(t, err)
}
