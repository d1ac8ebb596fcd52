package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IzaacCoding36/onia/config"
	"github.com/IzaacCoding36/onia/pkg/errors"
	"github.com/IzaacCoding36/onia/pkg/log"
)

func TestTrainConfigDefaults(t *testing.T) {
	cmd := trainCmd()
	require.NoError(t, cmd.Flag.Parse(nil))

	cfg, err := trainConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestTrainConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "onia.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tree_count: 50\nmax_depth: 4\noutput_file: out.csv\n"), 0o644))

	cmd := trainCmd()
	require.NoError(t, cmd.Flag.Parse([]string{
		"--config", path,
		"--max-depth", "7",
		"--no-scaling",
	}))

	cfg, err := trainConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.TreeCount)
	assert.Equal(t, 7, cfg.MaxDepth)
	assert.Equal(t, "out.csv", cfg.OutputFile)
	assert.False(t, cfg.UseScaling)
	// 指定していない項目は既定値のまま
	assert.Equal(t, 0.1, cfg.LearningRate)
}

func TestTrainConfigMissingFile(t *testing.T) {
	cmd := trainCmd()
	require.NoError(t, cmd.Flag.Parse([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}))

	_, err := trainConfig(cmd)
	var notFound *errors.FileNotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Equal(t, log.StageConfig, errors.StageOf(err))
}

func TestRunTrainMissingDataDir(t *testing.T) {
	cmd := trainCmd()
	require.NoError(t, cmd.Flag.Parse([]string{"--data-dir", filepath.Join(t.TempDir(), "missing"), "--log-file", ""}))

	err := runTrain(cmd, nil)
	var notFound *errors.FileNotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Equal(t, log.StageLoad, errors.StageOf(err))
}

func TestRunCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resultado.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,target\n1,2\n2,3\n"), 0o644))

	cmd := checkCmd()
	require.NoError(t, cmd.Flag.Parse([]string{"-file", path, "-log-level", "error"}))
	assert.NoError(t, runCheck(cmd, nil))

	require.NoError(t, cmd.Flag.Parse([]string{"-file", filepath.Join(t.TempDir(), "none.csv")}))
	assert.Error(t, runCheck(cmd, nil))
}

func TestRunTrainWritesPredictionsAndPlot(t *testing.T) {
	dir := t.TempDir()
	var train, test strings.Builder
	train.WriteString("id,f1,f2,target\n")
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&train, "%d,%d,%.1f,%d\n", i, i, float64(i%5)/10, i/20)
	}
	test.WriteString("id,f1,f2\n100,3,0.1\n101,35,0.2\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "treino.csv"), []byte(train.String()), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "teste.csv"), []byte(test.String()), 0o644))

	output := filepath.Join(dir, "resultado.csv")
	plotPath := filepath.Join(dir, "importance.png")
	cmd := trainCmd()
	require.NoError(t, cmd.Flag.Parse([]string{
		"--data-dir", dir,
		"--output", output,
		"--n-estimators", "10",
		"--log-file", "",
		"--log-level", "error",
		"--importance-plot", plotPath,
	}))
	require.NoError(t, runTrain(cmd, nil))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "id,target\n100,0\n101,1\n", string(data))
	assert.FileExists(t, plotPath)
}
