package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_JSONFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "facts.json")
	f := &File{Path: path, Format: "json"}

	err := f.Export(context.Background(), map[string]interface{}{"cpu": map[string]interface{}{"usage_percent": 12.5}})
	require.NoError(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "usage_percent")
}

func TestFile_PrometheusFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "facts.prom")
	f := &File{Path: path, Format: "prometheus"}

	err := f.Export(context.Background(), map[string]interface{}{"cpu": map[string]interface{}{"usage_percent": 12.5}})
	require.NoError(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "driftless_cpu_usage_percent 12.5")
}

func TestFile_InfluxFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "facts.influx")
	f := &File{Path: path, Format: "influx"}

	err := f.Export(context.Background(), map[string]interface{}{"cpu": map[string]interface{}{"usage_percent": 12.5}})
	require.NoError(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "cpu usage_percent=12.5")
}
