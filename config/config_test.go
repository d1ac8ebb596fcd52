package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IzaacCoding36/onia/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "onia.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "templates", cfg.DataDir)
	assert.Equal(t, "resultado.csv", cfg.OutputFile)
	assert.Equal(t, 500, cfg.TreeCount)
	assert.Equal(t, 20, cfg.MaxDepth)
	assert.Equal(t, 0.1, cfg.LearningRate)
	assert.Equal(t, 52, cfg.RandomSeed)
	assert.Equal(t, 0.1, cfg.ValidationFraction)
	assert.True(t, cfg.UseScaling)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
data_dir: data
tree_count: 50
use_scaling: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, 50, cfg.TreeCount)
	assert.False(t, cfg.UseScaling)
	// 指定されていないキーは既定値のまま
	assert.Equal(t, "resultado.csv", cfg.OutputFile)
	assert.Equal(t, 52, cfg.RandomSeed)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	t.Run("unknown key", func(t *testing.T) {
		_, err := Load(writeConfig(t, "n_estimators: 10\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "n_estimators")
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := Load(writeConfig(t, "validation_fraction: 1.5\n"))
		var validationErr *errors.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "validation_fraction", validationErr.ParamName)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		var notFound *errors.FileNotFoundError
		assert.True(t, errors.As(err, &notFound))
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		param  string
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }, "data_dir"},
		{"empty output", func(c *Config) { c.OutputFile = "" }, "output_file"},
		{"zero trees", func(c *Config) { c.TreeCount = 0 }, "tree_count"},
		{"negative depth", func(c *Config) { c.MaxDepth = -1 }, "max_depth"},
		{"zero learning rate", func(c *Config) { c.LearningRate = 0 }, "learning_rate"},
		{"zero validation fraction", func(c *Config) { c.ValidationFraction = 0 }, "validation_fraction"},
		{"validation fraction of one", func(c *Config) { c.ValidationFraction = 1 }, "validation_fraction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			var validationErr *errors.ValidationError
			require.True(t, errors.As(cfg.Validate(), &validationErr))
			assert.Equal(t, tt.param, validationErr.ParamName)
		})
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	data, err := Default().YAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "tree_count: 500")

	cfg, err := Load(writeConfig(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
