package experiment

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/cosmos"
	"github.com/san-kum/solarsim/internal/scenario"
	"github.com/san-kum/solarsim/internal/spacefile"
)

// RandomPrefix selects a generated system: "random" or "random:<seed>".
const RandomPrefix = "random"

var ErrUnknownSource = errors.New("experiment: not a preset, file or random system")

// Scenario is a resolved set of initial bodies plus the step settings it
// suggests. Zero Dt or Ticks means no suggestion.
type Scenario struct {
	Name     string
	Registry *cosmos.Registry
	Dt       float64
	Ticks    int
	Skipped  []spacefile.Skipped
}

type Sources struct {
	Warn  io.Writer
	Quiet bool
}

// Resolve loads a scenario from a preset name, a record file, a YAML config
// carrying inline bodies, or the random generator.
func (s Sources) Resolve(arg string) (*Scenario, error) {
	if p := config.GetPreset(arg); p != nil {
		reg, err := p.Registry()
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", arg, err)
		}
		return &Scenario{Name: arg, Registry: reg, Dt: p.Dt, Ticks: p.Ticks}, nil
	}

	if arg == RandomPrefix || strings.HasPrefix(arg, RandomPrefix+":") {
		return s.random(arg)
	}

	if _, err := os.Stat(arg); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q (presets: %s)", ErrUnknownSource, arg, strings.Join(config.ListPresets(), ", "))
		}
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(arg)) {
	case ".yaml", ".yml":
		cfg, err := config.Load(arg)
		if err != nil {
			return nil, err
		}
		return FromConfig(arg, cfg)
	}

	loaded, err := spacefile.Load(arg, spacefile.Options{Warn: s.Warn, Quiet: s.Quiet})
	if err != nil {
		return nil, err
	}
	return &Scenario{Name: arg, Registry: loaded.Registry, Skipped: loaded.Skipped}, nil
}

// FromConfig builds a scenario from the inline bodies of cfg.
func FromConfig(name string, cfg *config.Config) (*Scenario, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, fmt.Errorf("%s: %w: config has no bodies", name, ErrUnknownSource)
	}
	return &Scenario{Name: name, Registry: reg, Dt: cfg.Dt, Ticks: cfg.Ticks}, nil
}

func (s Sources) random(arg string) (*Scenario, error) {
	opts := scenario.DefaultOptions()
	if _, seed, ok := strings.Cut(arg, ":"); ok {
		v, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("random seed %q: %w", seed, err)
		}
		opts.Seed = v
	}
	reg, err := scenario.Generate(opts)
	if err != nil {
		return nil, err
	}
	return &Scenario{Name: fmt.Sprintf("%s-%d", RandomPrefix, opts.Seed), Registry: reg}, nil
}
