package config

import (
	"sort"
	"strings"

	"github.com/san-kum/solarsim/internal/cosmos"
	"github.com/san-kum/solarsim/internal/spacefile"
)

// Preset is a built-in scenario stored in the record format.
type Preset struct {
	Description string
	Dt          float64
	Ticks       int
	Records     string
}

var Presets = map[string]*Preset{
	"sun-earth": {
		Description: "one star and one planet on a near-circular orbit",
		Dt:          3600,
		Ticks:       8760,
		Records: `
Star 12 yellow 1.98892e30 0 0 0 0 sol no
Planet 4 blue 5.9742e24 -1.496e11 0 0 29783 sol pr
`,
	},
	"inner": {
		Description: "the four inner planets around a star",
		Dt:          3600,
		Ticks:       8760,
		Records: `
Star 12 yellow 1.98892e30 0 0 0 0 sol no
Planet 2 gray 3.302e23 -5.79e10 0 0 47870 sol pr
Planet 3 white 4.869e24 -1.082e11 0 0 35020 sol pr
Planet 4 blue 5.9742e24 -1.496e11 0 0 29783 sol pr
Planet 3 red 6.4191e23 -2.279e11 0 0 24077 sol pr
`,
	},
	"earth-moon": {
		Description: "a planet holding a satellite through the constellation binding",
		Dt:          600,
		Ticks:       4320,
		Records: `
Star 12 yellow 1.98892e30 0 0 0 0 sol no
Planet 4 blue 5.9742e24 -1.496e11 0 0 29783 sol pr-earth
Satellite 1 gray 7.35e22 -1.49984e11 0 0 30805 sol pr-earth
`,
	},
	"twin-systems": {
		Description: "two independent systems that never interact",
		Dt:          3600,
		Ticks:       8760,
		Records: `
Star 10 yellow 1.98892e30 -3e11 0 0 0 a no
Planet 3 blue 5.9742e24 -4.496e11 0 0 29783 a pr
Star 10 red 1.98892e30 3e11 0 0 0 b no
Planet 3 green 5.9742e24 4.496e11 0 0 -29783 b pr
`,
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registry parses a fresh copy of the preset bodies.
func (p *Preset) Registry() (*cosmos.Registry, error) {
	loaded, err := spacefile.Read(strings.NewReader(p.Records), spacefile.Options{Quiet: true})
	if err != nil {
		return nil, err
	}
	return loaded.Registry, nil
}
