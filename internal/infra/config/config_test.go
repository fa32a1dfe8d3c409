package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	require.Equal(t, "text-embedding-3-small", cfg.LLM.EmbeddingModel)
	require.Equal(t, 0.4, cfg.Solver.KBMatchThreshold)
	require.True(t, cfg.Solver.Enhanced)
	require.Equal(t, 100, cfg.Solver.TrainingBufferSize)
}

func TestLoadEnvOverridesWinOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("http:\n  address: \":9999\"\nsolver:\n  kbMatchThreshold: 0.7\n  enhanced: false\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SOLVER_KB_MATCH_THRESHOLD", "0.55")
	t.Setenv("SOLVER_ENHANCED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":9999", cfg.HTTP.Address)
	require.Equal(t, 0.55, cfg.Solver.KBMatchThreshold)
	require.True(t, cfg.Solver.Enhanced)
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	cfg := defaultConfig()
	cfg.Solver.KBMatchThreshold = 1.5
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Solver.TrainingBufferSize = 0
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.HTTP.Address = ""
	require.Error(t, cfg.Validate())
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, splitList(" a , b ,"))
	require.Empty(t, splitList(" , "))
}
