package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, 8, c.GetInt(ConfigBoardSize))
	assert.Equal(t, 5, c.GetInt(ConfigSearchDepth))
	assert.Equal(t, 4, c.GetInt(ConfigAgentWorkers))
	assert.True(t, c.GetBool(ConfigTTableEnabled))
	assert.False(t, c.GetBool(ConfigTTableShared))
	assert.Equal(t, "positional", c.GetString(ConfigEvaluator))
	assert.Equal(t, zerolog.InfoLevel, c.LogLevel())
	assert.NoError(t, c.Validate())
}

func TestLoadFlags(t *testing.T) {
	c := &Config{}
	err := c.Load([]string{"--board-size", "6", "--search-depth=3", "--ttable-shared", "--evaluator", "disc"})
	require.NoError(t, err)
	assert.Equal(t, 6, c.GetInt(ConfigBoardSize))
	assert.Equal(t, 3, c.GetInt(ConfigSearchDepth))
	assert.True(t, c.GetBool(ConfigTTableShared))
	assert.Equal(t, "disc", c.GetString(ConfigEvaluator))
	// untouched flags keep their defaults
	assert.Equal(t, 4, c.GetInt(ConfigAgentWorkers))
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("OTHELLO_SEARCH_DEPTH", "7")
	t.Setenv("OTHELLO_LOG_LEVEL", "debug")
	c := &Config{}
	require.NoError(t, c.Load(nil))
	assert.Equal(t, 7, c.GetInt(ConfigSearchDepth))
	assert.Equal(t, zerolog.DebugLevel, c.LogLevel())

	// flags beat the environment
	require.NoError(t, c.Load([]string{"--search-depth", "2"}))
	assert.Equal(t, 2, c.GetInt(ConfigSearchDepth))
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "othello.yaml")
	err := os.WriteFile(path, []byte("search-depth: 6\nagent-workers: 2\nttable-clusters: 1024\n"), 0o644)
	require.NoError(t, err)

	c := &Config{}
	require.NoError(t, c.Load([]string{"--config-file", path}))
	assert.Equal(t, 6, c.GetInt(ConfigSearchDepth))
	assert.Equal(t, 2, c.GetInt(ConfigAgentWorkers))
	assert.Equal(t, 1024, c.GetInt(ConfigTTableClusters))
	assert.Equal(t, 8, c.GetInt(ConfigBoardSize))

	err = c.Load([]string{"--config-file", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	c := DefaultConfig()
	c.Set(ConfigSearchDepth, 9)
	c.Set(ConfigEvaluator, "disc")
	require.NoError(t, c.Write(path))

	loaded := &Config{}
	require.NoError(t, loaded.Load([]string{"--config-file", path}))
	assert.Equal(t, 9, loaded.GetInt(ConfigSearchDepth))
	assert.Equal(t, "disc", loaded.GetString(ConfigEvaluator))
}

func TestInvalid(t *testing.T) {
	cases := [][]string{
		{"--board-size", "7"},
		{"--board-size", "18"},
		{"--search-depth", "0"},
		{"--agent-workers", "0"},
		{"--ttable-memory-fraction", "1.5"},
		{"--evaluator", "neural"},
		{"--log-level", "loud"},
	}
	for _, args := range cases {
		c := &Config{}
		err := c.Load(args)
		assert.ErrorIs(t, err, ErrInvalidConfig, "args %v", args)
	}
	c := &Config{}
	assert.Error(t, c.Load([]string{"--no-such-flag"}))
}
