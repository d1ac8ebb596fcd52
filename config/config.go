// Package config はパイプラインの設定値を扱います。
//
// 既定値は元の学習スクリプトの設定と同じです。YAML ファイルで上書きでき、
// 未知のキーはエラーになります。
package config

import (
	"bytes"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/IzaacCoding36/onia/pkg/errors"
)

// Config holds every setting of a pipeline run.
type Config struct {
	DataDir    string `yaml:"data_dir"`
	OutputFile string `yaml:"output_file"`

	TreeCount    int     `yaml:"tree_count"`
	MaxDepth     int     `yaml:"max_depth"` // 0 は深さ制限なし
	LearningRate float64 `yaml:"learning_rate"`
	RandomSeed   int     `yaml:"random_seed"`

	ValidationFraction float64 `yaml:"validation_fraction"`
	UseScaling         bool    `yaml:"use_scaling"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir:            "templates",
		OutputFile:         "resultado.csv",
		TreeCount:          500,
		MaxDepth:           20,
		LearningRate:       0.1,
		RandomSeed:         52,
		ValidationFraction: 0.1,
		UseScaling:         true,
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the file keep
// their default value; unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError(path, err)
		}
		return nil, errors.Wrapf(err, "config: read %s", path)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "config: parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

// Validate checks the value ranges.
func (c *Config) Validate() error {
	switch {
	case c.DataDir == "":
		return errors.NewValidationError("data_dir", "must not be empty", c.DataDir)
	case c.OutputFile == "":
		return errors.NewValidationError("output_file", "must not be empty", c.OutputFile)
	case c.TreeCount <= 0:
		return errors.NewValidationError("tree_count", "must be positive", c.TreeCount)
	case c.MaxDepth < 0:
		return errors.NewValidationError("max_depth", "must be non-negative", c.MaxDepth)
	case !(c.LearningRate > 0) || math.IsInf(c.LearningRate, 0):
		return errors.NewValidationError("learning_rate", "must be a positive finite number", c.LearningRate)
	case !(c.ValidationFraction > 0 && c.ValidationFraction < 1):
		return errors.NewValidationError("validation_fraction", "must be in (0, 1)", c.ValidationFraction)
	}
	return nil
}

// YAML returns the configuration encoded as YAML.
func (c *Config) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, errors.Wrap(err, "config: encode")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "config: encode")
	}
	return buf.Bytes(), nil
}
