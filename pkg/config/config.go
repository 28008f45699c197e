// Package config loads and writes omacc settings.
//
// Settings come from, in increasing precedence: built-in defaults, a TOML
// file, and OMACC_* environment variables (dots become underscores, so
// solver.max_sweeps is OMACC_SOLVER_MAX_SWEEPS). Command-line flags are
// applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/omacc/omacc/pkg/alignment"
	"github.com/omacc/omacc/pkg/chain"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "OMACC"

// Config holds all settings.
type Config struct {
	Assembly   AssemblyConfig   `toml:"assembly" mapstructure:"assembly"`
	Alignment  AlignmentConfig  `toml:"alignment" mapstructure:"alignment"`
	Adjacency  AdjacencyConfig  `toml:"adjacency" mapstructure:"adjacency"`
	Candidates CandidatesConfig `toml:"candidates" mapstructure:"candidates"`
	Solver     SolverConfig     `toml:"solver" mapstructure:"solver"`
	Cache      CacheConfig      `toml:"cache" mapstructure:"cache"`
}

// AssemblyConfig holds assembly graph settings.
type AssemblyConfig struct {
	// Overlap is the k-mer overlap between adjacent fragments. Zero means
	// unset; it must then be given on the command line.
	Overlap int `toml:"overlap" mapstructure:"overlap"`
}

// AlignmentConfig holds report filtering settings.
type AlignmentConfig struct {
	ValidThreshold float64 `toml:"valid_threshold" mapstructure:"valid_threshold"`
}

// AdjacencyConfig holds the adjacency test tolerance.
type AdjacencyConfig struct {
	ErrorMargin int `toml:"error_margin" mapstructure:"error_margin"`
}

// CandidatesConfig holds successor scan settings.
type CandidatesConfig struct {
	SafetyMargin int `toml:"safety_margin" mapstructure:"safety_margin"`
}

// SolverConfig bounds the relaxation.
type SolverConfig struct {
	MaxSweeps int      `toml:"max_sweeps" mapstructure:"max_sweeps"` // 0 = number of alignments + 1
	Timeout   Duration `toml:"timeout" mapstructure:"timeout"`       // 0 = none
}

// CacheConfig controls the result cache.
type CacheConfig struct {
	Enabled bool     `toml:"enabled" mapstructure:"enabled"`
	TTL     Duration `toml:"ttl" mapstructure:"ttl"`
}

// Duration is a time.Duration written as text ("30s", "24h0m0s").
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Alignment:  AlignmentConfig{ValidThreshold: alignment.DefaultValidThreshold},
		Adjacency:  AdjacencyConfig{ErrorMargin: alignment.DefaultErrorMargin},
		Candidates: CandidatesConfig{SafetyMargin: chain.DefaultSafetyMargin},
		Solver:     SolverConfig{Timeout: Duration(5 * time.Minute)},
		Cache:      CacheConfig{Enabled: true, TTL: Duration(7 * 24 * time.Hour)},
	}
}

// DefaultPath returns the per-user config file location,
// ~/.config/omacc/config.toml on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "omacc", "config.toml"), nil
}

// Load reads settings. An empty path reads DefaultPath if it exists; a
// non-empty path must exist. Environment overrides always apply.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if def, err := DefaultPath(); err == nil {
		if _, err := os.Stat(def); err == nil {
			v.SetConfigFile(def)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config %s: %w", def, err)
			}
		}
	}

	var cfg Config
	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("assembly.overlap", d.Assembly.Overlap)
	v.SetDefault("alignment.valid_threshold", d.Alignment.ValidThreshold)
	v.SetDefault("adjacency.error_margin", d.Adjacency.ErrorMargin)
	v.SetDefault("candidates.safety_margin", d.Candidates.SafetyMargin)
	v.SetDefault("solver.max_sweeps", d.Solver.MaxSweeps)
	v.SetDefault("solver.timeout", d.Solver.Timeout.Std().String())
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.ttl", d.Cache.TTL.Std().String())
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.Assembly.Overlap < 0 {
		errs = append(errs, fmt.Errorf("assembly.overlap must not be negative, got %d", c.Assembly.Overlap))
	}
	if t := c.Alignment.ValidThreshold; t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("alignment.valid_threshold must be within [0, 1], got %g", t))
	}
	if c.Adjacency.ErrorMargin < 0 {
		errs = append(errs, fmt.Errorf("adjacency.error_margin must not be negative, got %d", c.Adjacency.ErrorMargin))
	}
	if c.Candidates.SafetyMargin < 0 {
		errs = append(errs, fmt.Errorf("candidates.safety_margin must not be negative, got %d", c.Candidates.SafetyMargin))
	}
	if c.Solver.MaxSweeps < 0 {
		errs = append(errs, fmt.Errorf("solver.max_sweeps must not be negative, got %d", c.Solver.MaxSweeps))
	}
	if c.Solver.Timeout < 0 || c.Cache.TTL < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	return errors.Join(errs...)
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return writeAndClose(f, cfg)
}

// writeAndClose writes cfg to wc and reports a failed close, which is where
// a buffered write to disk may first fail.
func writeAndClose(wc io.WriteCloser, cfg Config) error {
	if err := Write(wc, cfg); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}
