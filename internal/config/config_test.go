package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	v := viper.New()
	require.NoError(t, Init(v, ""))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 0.15, cfg.Mining.MinSupport)
	assert.Equal(t, 0.5, cfg.Mining.MinConfidence)
	assert.False(t, cfg.Mining.PruneCandidates)
	assert.Equal(t, 3000, cfg.Dataset.MaxRows)
	assert.Equal(t, ",", cfg.Dataset.Delimiter)
	assert.Equal(t, "table", cfg.Output.Format)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apriori.yaml")
	content := `mining:
  min_support: 0.3
  min_confidence: 0.7
dataset:
  delimiter: tab
  max_rows: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("APRIORI_MINING_MIN_CONFIDENCE", "0.9")

	v := viper.New()
	require.NoError(t, Init(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 0.3, cfg.Mining.MinSupport)
	assert.Equal(t, 0.9, cfg.Mining.MinConfidence, "environment overrides file")
	assert.Equal(t, 10, cfg.Dataset.MaxRows)

	opts, err := cfg.DatasetOptions()
	require.NoError(t, err)
	assert.Equal(t, '\t', opts.Delimiter)
	assert.Equal(t, 10, opts.MaxRows)
}

func TestInit_ExplicitFileMustExist(t *testing.T) {
	v := viper.New()
	err := Init(v, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDir_RespectsXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)
	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "apriori"), dir)
}

func TestParseRune(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"", 0, false},
		{",", ',', false},
		{";", ';', false},
		{"tab", '\t', false},
		{`\t`, '\t', false},
		{"|", '|', false},
		{"ab", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRune(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDatasetOptions_Aliases(t *testing.T) {
	path := writeAliases(t, "soda=soft drinks\n")
	cfg := &Config{Dataset: DatasetConfig{Delimiter: ",", AliasesFile: path, MaxRows: 5}}

	opts, err := cfg.DatasetOptions()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"soda": "soft drinks"}, opts.Aliases)

	cfg.Dataset.Delimiter = "::"
	_, err = cfg.DatasetOptions()
	assert.Error(t, err)
}
