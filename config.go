package frite

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the deformation engine. It is passed
// explicitly to the calls that need it; there is no process-wide state.
type Config struct {
	// CellSize is the side length of a lattice cell in canvas units.
	CellSize float64 `toml:"cell_size" yaml:"cell_size"`

	// SimplifyTolerance is the Douglas-Peucker cutoff used when resampling
	// strokes.
	SimplifyTolerance float64 `toml:"simplify_tolerance" yaml:"simplify_tolerance"`
	// CaptureRadius is the spacing of the intermediate curve built by the
	// first resampling pass.
	CaptureRadius float64 `toml:"capture_radius" yaml:"capture_radius"`
	MaxSampling   float64 `toml:"max_sampling" yaml:"max_sampling"`
	MinSampling   float64 `toml:"min_sampling" yaml:"min_sampling"`

	// ArapIterations bounds the number of local-global iterations per solve.
	ArapIterations int `toml:"arap_iterations" yaml:"arap_iterations"`
	// ArapTolerance stops the iteration early once no corner moves by more
	// than this distance.
	ArapTolerance        float64 `toml:"arap_tolerance" yaml:"arap_tolerance"`
	HardConstraintWeight float64 `toml:"hard_constraint_weight" yaml:"hard_constraint_weight"`
	SoftConstraintWeight float64 `toml:"soft_constraint_weight" yaml:"soft_constraint_weight"`

	DeformRadius float64 `toml:"deform_radius" yaml:"deform_radius"`
	EraseRadius  float64 `toml:"erase_radius" yaml:"erase_radius"`

	// Workers limits how many groups are interpolated concurrently. Zero
	// means GOMAXPROCS.
	Workers int `toml:"workers" yaml:"workers"`
}

// DefaultConfig returns the configuration the editor ships with.
func DefaultConfig() Config {
	return Config{
		CellSize:             16,
		SimplifyTolerance:    3.0,
		CaptureRadius:        2.0,
		MaxSampling:          4.0,
		MinSampling:          0.5,
		ArapIterations:       10,
		ArapTolerance:        1e-6,
		HardConstraintWeight: 1e4,
		SoftConstraintWeight: 1.0,
		DeformRadius:         30,
		EraseRadius:          4,
	}
}

// Validate reports the first invalid field, wrapped in [ErrInvalidConfig].
func (c Config) Validate() error {
	switch {
	case !(c.CellSize > 0):
		return fmt.Errorf("%w: cell_size must be positive, got %g", ErrInvalidConfig, c.CellSize)
	case c.SimplifyTolerance < 0:
		return fmt.Errorf("%w: simplify_tolerance must not be negative", ErrInvalidConfig)
	case !(c.CaptureRadius > 0):
		return fmt.Errorf("%w: capture_radius must be positive, got %g", ErrInvalidConfig, c.CaptureRadius)
	case c.MaxSampling > 0 && c.MinSampling > c.MaxSampling:
		return fmt.Errorf("%w: min_sampling %g exceeds max_sampling %g", ErrInvalidConfig, c.MinSampling, c.MaxSampling)
	case c.ArapIterations < 1:
		return fmt.Errorf("%w: arap_iterations must be at least 1", ErrInvalidConfig)
	case c.ArapTolerance < 0:
		return fmt.Errorf("%w: arap_tolerance must not be negative", ErrInvalidConfig)
	case c.HardConstraintWeight <= 0 || c.SoftConstraintWeight <= 0:
		return fmt.Errorf("%w: constraint weights must be positive", ErrInvalidConfig)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Format selects the encoding accepted by [LoadConfig].
type Format int

const (
	TOML Format = iota
	YAML
)

// LoadConfig decodes a configuration from r on top of [DefaultConfig], so
// that absent keys keep their defaults. Unknown keys are rejected.
func LoadConfig(r io.Reader, format Format) (Config, error) {
	cfg := DefaultConfig()
	switch format {
	case TOML:
		if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("decoding toml config: %w", err)
		}
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return Config{}, fmt.Errorf("decoding yaml config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: unknown format %d", ErrInvalidConfig, format)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a configuration file. The format is picked from the
// extension: .yaml and .yml are YAML, anything else is TOML.
func LoadConfigFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	format := TOML
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = YAML
	}
	cfg, err := LoadConfig(bytes.NewReader(b), format)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
