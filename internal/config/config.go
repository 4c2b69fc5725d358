package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/gcfg.v1"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/sphcore/internal/particles"
	"github.com/san-kum/sphcore/internal/sph"
	"github.com/san-kum/sphcore/internal/vec"
)

const (
	DefaultKernel      = "cubic_spline"
	DefaultDim         = 2
	DefaultH           = 1.0
	DefaultDt          = 0.002
	DefaultSteps       = 500
	DefaultStiffness   = 50.0
	DefaultRestDensity = 1.0
	DefaultViscosity   = 0.1
	DefaultGravity     = 9.81
	DefaultSpacing     = 0.5
)

type Config struct {
	Kernel      string        `yaml:"kernel"`
	Dim         int           `yaml:"dim"`
	H           float64       `yaml:"h"`
	Dt          float64       `yaml:"dt"`
	Steps       int           `yaml:"steps"`
	Stiffness   float64       `yaml:"stiffness"`
	RestDensity float64       `yaml:"rest_density"`
	Viscosity   float64       `yaml:"viscosity"`
	Gravity     float64       `yaml:"gravity"`
	Seed        int64         `yaml:"seed"`
	Blocks      []BlockConfig `yaml:"blocks"`
}

// BlockConfig is a lattice block of particles; see particles.Block.
type BlockConfig struct {
	Origin  []float64 `yaml:"origin"`
	Count   int       `yaml:"count"`
	Columns int       `yaml:"columns"`
	Spacing float64   `yaml:"spacing"`
	Mass    float64   `yaml:"mass"`
	Jitter  float64   `yaml:"jitter"`
}

func DefaultConfig() *Config {
	return &Config{
		Kernel:      DefaultKernel,
		Dim:         DefaultDim,
		H:           DefaultH,
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		Stiffness:   DefaultStiffness,
		RestDensity: DefaultRestDensity,
		Viscosity:   DefaultViscosity,
		Gravity:     DefaultGravity,
		Blocks: []BlockConfig{
			{Count: 400, Spacing: DefaultSpacing, Mass: DefaultSpacing * DefaultSpacing, Jitter: 0.05},
		},
	}
}

// Load reads a config file over the defaults. Files ending in .gcfg, .ini
// or .cfg are read as gcfg; anything else as YAML.
func Load(path string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gcfg", ".ini", ".cfg":
		return loadGcfg(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

type gcfgSim struct {
	Kernel      string
	Dim         int
	H           float64
	Dt          float64
	Steps       int
	Stiffness   float64
	RestDensity float64 `gcfg:"rest-density"`
	Viscosity   float64
	Gravity     float64
	Seed        int64
}

type gcfgBlock struct {
	OriginX float64 `gcfg:"origin-x"`
	OriginY float64 `gcfg:"origin-y"`
	OriginZ float64 `gcfg:"origin-z"`
	Count   int
	Columns int
	Spacing float64
	Mass    float64
	Jitter  float64
}

type gcfgFile struct {
	Sim   gcfgSim
	Block map[string]*gcfgBlock
}

// loadGcfg reads
//
//	[sim]
//	dim = 2
//	rest-density = 1
//	[block "water"]
//	count = 400
//	spacing = 0.5
//
// Blocks are applied in name order.
func loadGcfg(path string) (*Config, error) {
	cfg := DefaultConfig()
	file := gcfgFile{Sim: gcfgSim{
		Kernel:      cfg.Kernel,
		Dim:         cfg.Dim,
		H:           cfg.H,
		Dt:          cfg.Dt,
		Steps:       cfg.Steps,
		Stiffness:   cfg.Stiffness,
		RestDensity: cfg.RestDensity,
		Viscosity:   cfg.Viscosity,
		Gravity:     cfg.Gravity,
		Seed:        cfg.Seed,
	}}
	if err := gcfg.ReadFileInto(&file, path); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	s := file.Sim
	cfg.Kernel, cfg.Dim, cfg.H, cfg.Dt, cfg.Steps = s.Kernel, s.Dim, s.H, s.Dt, s.Steps
	cfg.Stiffness, cfg.RestDensity, cfg.Viscosity = s.Stiffness, s.RestDensity, s.Viscosity
	cfg.Gravity, cfg.Seed = s.Gravity, s.Seed

	if len(file.Block) > 0 {
		names := make([]string, 0, len(file.Block))
		for name := range file.Block {
			names = append(names, name)
		}
		sort.Strings(names)

		cfg.Blocks = cfg.Blocks[:0]
		for _, name := range names {
			b := file.Block[name]
			cfg.Blocks = append(cfg.Blocks, BlockConfig{
				Origin:  []float64{b.OriginX, b.OriginY, b.OriginZ},
				Count:   b.Count,
				Columns: b.Columns,
				Spacing: b.Spacing,
				Mass:    b.Mass,
				Jitter:  b.Jitter,
			})
		}
	}
	return cfg, nil
}

// Params returns the solver parameters described by c.
func (c *Config) Params() sph.Params {
	return sph.Params{
		Dim:     c.Dim,
		H:       c.H,
		Dt:      c.Dt,
		K:       c.Stiffness,
		Rho0:    c.RestDensity,
		Mu:      c.Viscosity,
		Gravity: c.Gravity,
	}
}

// Scene builds the particle set described by c's blocks.
func (c *Config) Scene() (*particles.Set, error) {
	set := particles.New(c.Dim, c.H)
	for i, b := range c.Blocks {
		if len(b.Origin) > vec.MaxDim {
			return nil, fmt.Errorf("block %d: origin has %d components", i, len(b.Origin))
		}
		if b.Count < 0 || !(b.Spacing > 0) || !(b.Mass > 0) {
			return nil, fmt.Errorf("block %d: count, spacing and mass must be positive", i)
		}
		origin := vec.Of(b.Origin...)
		if !origin.FitsDim(c.Dim) {
			return nil, fmt.Errorf("%w: block %d origin %v in %dD", sph.ErrDimensionMismatch, i, b.Origin, c.Dim)
		}
		set.Fill(particles.Block{
			Origin:  origin,
			Count:   b.Count,
			Columns: b.Columns,
			Spacing: b.Spacing,
			Mass:    b.Mass,
			Jitter:  b.Jitter,
			Seed:    c.Seed + int64(i),
		})
	}
	return set, nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Blocks = make([]BlockConfig, len(c.Blocks))
	for i, b := range c.Blocks {
		b.Origin = append([]float64(nil), b.Origin...)
		out.Blocks[i] = b
	}
	return &out
}

// SetParam sets one solver parameter by the name sph.Solver.GetParams uses.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "h":
		c.H = v
	case "dt":
		c.Dt = v
	case "stiffness":
		c.Stiffness = v
	case "rest_density":
		c.RestDensity = v
	case "viscosity":
		c.Viscosity = v
	case "gravity":
		c.Gravity = v
	default:
		return fmt.Errorf("%w: %s", sph.ErrUnknownParam, name)
	}
	return nil
}
