package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popdash/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATA_FILE", "DEFAULT_REGIONS", "DASHBOARD_CONFIG", "INPUT_ENCODING", "SHOW_SUMMARY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data.csv", cfg.Data.File)
	assert.Equal(t, EncodingUTF8, cfg.Data.Encoding)
	assert.Equal(t, time.Duration(0), cfg.Data.CacheTTL)
	assert.Equal(t, ColumnConfig{Region: "都道府県", Year: "西暦", Population: "人口"}, cfg.Data.Columns)
	assert.Equal(t, []string{"東京都", "大阪府", "北海道"}, cfg.Dashboard.DefaultRegions)
	assert.True(t, cfg.Dashboard.ShowSummary)
	assert.True(t, cfg.Dashboard.EnableExport)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DASHBOARD_CONFIG", "")
	t.Setenv("DATA_FILE", "pop.xlsx")
	t.Setenv("INPUT_ENCODING", "SHIFT_JIS")
	t.Setenv("DATASET_CACHE_TTL", "5m")
	t.Setenv("DEFAULT_REGIONS", " A , ,B")
	t.Setenv("ENABLE_EXPORT", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pop.xlsx", cfg.Data.File)
	assert.Equal(t, EncodingShiftJIS, cfg.Data.Encoding)
	assert.Equal(t, 5*time.Minute, cfg.Data.CacheTTL)
	assert.Equal(t, []string{"A", "B"}, cfg.Dashboard.DefaultRegions)
	assert.False(t, cfg.Dashboard.EnableExport)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown encoding", map[string]string{"INPUT_ENCODING": "latin1"}},
		{"duplicate columns", map[string]string{"REGION_COLUMN": "x", "YEAR_COLUMN": "x"}},
		{"unknown gin mode", map[string]string{"GIN_MODE": "verbose"}},
		{"missing overlay", map[string]string{"DASHBOARD_CONFIG": "/nonexistent/overlay.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DASHBOARD_CONFIG", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestOverlayFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard.yaml")
	content := []byte(`
title: Population
caption: "Source: [census](https://example.org)"
default_regions: [Osaka]
columns:
  region: prefecture
  year: year
  population: population
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("DASHBOARD_CONFIG", path)
	t.Setenv("REGION_COLUMN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Population", cfg.Dashboard.Title)
	assert.Equal(t, "Source: [census](https://example.org)", cfg.Dashboard.Caption)
	assert.Equal(t, DefaultSidebarHeader, cfg.Dashboard.SidebarHeader)
	assert.Equal(t, []string{"Osaka"}, cfg.Dashboard.DefaultRegions)
	assert.Equal(t, ColumnConfig{Region: "prefecture", Year: "year", Population: "population"}, cfg.Data.Columns)
}

func TestOverlayMalformed(t *testing.T) {
	cfg := &Config{}
	err := applyOverlay(cfg, []byte("title: [unclosed"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
