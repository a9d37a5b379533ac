package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/solarsim/internal/cosmos"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 3600.0
	DefaultTicks       = 8760
	DefaultSampleEvery = 24
	DefaultDataDir     = ".solarsim"
	DefaultTheme       = "solar"
	DefaultFPS         = 30
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Input       string       `yaml:"input"`
	Output      string       `yaml:"output"`
	Dt          float64      `yaml:"dt"`
	Ticks       int          `yaml:"ticks"`
	SampleEvery int          `yaml:"sample_every"`
	DataDir     string       `yaml:"data_dir"`
	Theme       string       `yaml:"theme"`
	FPS         int          `yaml:"fps"`
	Quiet       bool         `yaml:"quiet"`
	Bodies      []BodyConfig `yaml:"bodies,omitempty"`
}

// BodyConfig is an inline body. Empty tags take the defaults of the kind.
type BodyConfig struct {
	Kind          string  `yaml:"kind"`
	Radius        int     `yaml:"radius"`
	Color         string  `yaml:"color"`
	Mass          float64 `yaml:"mass"`
	X             float64 `yaml:"x"`
	Y             float64 `yaml:"y"`
	VX            float64 `yaml:"vx"`
	VY            float64 `yaml:"vy"`
	System        string  `yaml:"system,omitempty"`
	Constellation string  `yaml:"constellation,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:          DefaultDt,
		Ticks:       DefaultTicks,
		SampleEvery: DefaultSampleEvery,
		DataDir:     DefaultDataDir,
		Theme:       DefaultTheme,
		FPS:         DefaultFPS,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
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

func (c *Config) Validate() error {
	switch {
	case !(c.Dt > 0):
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalid, c.Dt)
	case c.Ticks <= 0:
		return fmt.Errorf("%w: ticks must be positive, got %d", ErrInvalid, c.Ticks)
	case c.SampleEvery <= 0:
		return fmt.Errorf("%w: sample_every must be positive, got %d", ErrInvalid, c.SampleEvery)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, c.FPS)
	}
	for i, bc := range c.Bodies {
		if _, err := bc.Body(); err != nil {
			return fmt.Errorf("%w: bodies[%d]: %w", ErrInvalid, i, err)
		}
	}
	return nil
}

func (bc BodyConfig) Body() (*cosmos.Body, error) {
	kind, err := cosmos.ParseKind(bc.Kind)
	if err != nil {
		return nil, err
	}
	return cosmos.NewBody(cosmos.Spec{
		Kind:   kind,
		Radius: bc.Radius,
		Color:  bc.Color,
		Mass:   bc.Mass,
		Pos:    r2.Vec{X: bc.X, Y: bc.Y},
		Vel:    r2.Vec{X: bc.VX, Y: bc.VY},
		Group: cosmos.Group{
			System:        cosmos.SystemID(bc.System),
			Constellation: cosmos.Constellation(bc.Constellation),
		},
	})
}

// Registry builds the inline bodies in declaration order. It returns nil
// when the config carries none.
func (c *Config) Registry() (*cosmos.Registry, error) {
	if len(c.Bodies) == 0 {
		return nil, nil
	}
	reg := cosmos.NewRegistry()
	for i, bc := range c.Bodies {
		b, err := bc.Body()
		if err != nil {
			return nil, fmt.Errorf("bodies[%d]: %w", i, err)
		}
		reg.Add(b)
	}
	return reg, nil
}
