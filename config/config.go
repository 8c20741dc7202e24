package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/JosephPrichard/othello-bot-sub001/board"
	"github.com/JosephPrichard/othello-bot-sub001/heuristic"
)

const (
	ConfigBoardSize            = "board-size"
	ConfigSearchDepth          = "search-depth"
	ConfigAgentWorkers         = "agent-workers"
	ConfigTTableEnabled        = "ttable-enabled"
	ConfigTTableClusters       = "ttable-clusters"
	ConfigTTableMemoryFraction = "ttable-memory-fraction"
	ConfigTTableShared         = "ttable-shared"
	ConfigIterativeDeepening   = "iterative-deepening"
	ConfigEvaluator            = "evaluator"
	ConfigLogLevel             = "log-level"
	ConfigConfigFile           = "config-file"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config wraps a viper instance. Values come from, in increasing order of
// precedence: defaults, the optional config file, OTHELLO_* environment
// variables, and command-line flags.
type Config struct {
	*viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigBoardSize, board.DefaultDim)
	v.SetDefault(ConfigSearchDepth, 5)
	v.SetDefault(ConfigAgentWorkers, 4)
	v.SetDefault(ConfigTTableEnabled, true)
	// 0 means size the table from ttable-memory-fraction instead.
	v.SetDefault(ConfigTTableClusters, 1<<16)
	v.SetDefault(ConfigTTableMemoryFraction, 0.05)
	v.SetDefault(ConfigTTableShared, false)
	v.SetDefault(ConfigIterativeDeepening, true)
	v.SetDefault(ConfigEvaluator, heuristic.PositionalName)
	v.SetDefault(ConfigLogLevel, "info")
	v.SetDefault(ConfigConfigFile, "")
}

// DefaultConfig returns a config with only the defaults applied. It does
// not look at the environment.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	setDefaults(c.Viper)
	return c
}

// Load reads flags from args, plus the environment and the config file.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	setDefaults(c.Viper)

	fs := pflag.NewFlagSet("othello", pflag.ContinueOnError)
	fs.Int(ConfigBoardSize, board.DefaultDim, "board dimension (even, 4 to 16)")
	fs.Int(ConfigSearchDepth, 5, "default search depth in plies")
	fs.Int(ConfigAgentWorkers, 4, "number of search workers in the agent service")
	fs.Bool(ConfigTTableEnabled, true, "use a transposition table")
	fs.Int(ConfigTTableClusters, 1<<16, "clusters per transposition table; 0 to size by memory fraction")
	fs.Float64(ConfigTTableMemoryFraction, 0.05, "fraction of system memory for a table when ttable-clusters is 0")
	fs.Bool(ConfigTTableShared, false, "share a single transposition table between all workers")
	fs.Bool(ConfigIterativeDeepening, true, "use iterative deepening")
	fs.String(ConfigEvaluator, heuristic.PositionalName, "evaluator: disc or positional")
	fs.String(ConfigLogLevel, "info", "log level: debug, info, warn, error")
	fs.String(ConfigConfigFile, "", "optional YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix("othello")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if cfgFile := c.GetString(ConfigConfigFile); cfgFile != "" {
		c.SetConfigFile(cfgFile)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading %s: %w", cfgFile, err)
		}
	}
	return c.Validate()
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	dim := c.GetInt(ConfigBoardSize)
	if dim < board.MinDim || dim > board.MaxDim || dim%2 != 0 {
		return fmt.Errorf("%w: %s %d", ErrInvalidConfig, ConfigBoardSize, dim)
	}
	if d := c.GetInt(ConfigSearchDepth); d < 1 {
		return fmt.Errorf("%w: %s %d", ErrInvalidConfig, ConfigSearchDepth, d)
	}
	if w := c.GetInt(ConfigAgentWorkers); w < 1 {
		return fmt.Errorf("%w: %s %d", ErrInvalidConfig, ConfigAgentWorkers, w)
	}
	if n := c.GetInt(ConfigTTableClusters); n < 0 {
		return fmt.Errorf("%w: %s %d", ErrInvalidConfig, ConfigTTableClusters, n)
	}
	if f := c.GetFloat64(ConfigTTableMemoryFraction); f <= 0 || f > 1 {
		return fmt.Errorf("%w: %s %v", ErrInvalidConfig, ConfigTTableMemoryFraction, f)
	}
	if _, err := heuristic.ByName(c.GetString(ConfigEvaluator)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := zerolog.ParseLevel(c.GetString(ConfigLogLevel)); err != nil {
		return fmt.Errorf("%w: %s %q", ErrInvalidConfig, ConfigLogLevel, c.GetString(ConfigLogLevel))
	}
	return nil
}

// LogLevel returns the parsed log level, falling back to info.
func (c *Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.GetString(ConfigLogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Write saves the current settings to path, in a format chosen by its
// extension.
func (c *Config) Write(path string) error {
	return c.WriteConfigAs(path)
}
