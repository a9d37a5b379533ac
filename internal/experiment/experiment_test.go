package experiment

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/cosmos"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestResolve_Preset(t *testing.T) {
	scn, err := Sources{}.Resolve("sun-earth")
	if err != nil {
		t.Fatal(err)
	}
	p := config.GetPreset("sun-earth")
	if scn.Dt != p.Dt || scn.Ticks != p.Ticks || scn.Registry.Len() != 2 {
		t.Errorf("unexpected scenario %+v", scn)
	}
}

func TestResolve_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sys.txt")
	data := "Star 10 red 1000 0 0 0 0\nComet 1 blue 1 0 0 0 0\nPlanet 5 green 1 10 0 0 1\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	var warn bytes.Buffer
	scn, err := Sources{Warn: &warn}.Resolve(path)
	if err != nil {
		t.Fatal(err)
	}
	if scn.Registry.Len() != 2 || len(scn.Skipped) != 1 {
		t.Errorf("expected 2 bodies and 1 skipped line, got %d/%d", scn.Registry.Len(), len(scn.Skipped))
	}
	if !strings.Contains(warn.String(), "unknown space object") {
		t.Errorf("expected a warning, got %q", warn.String())
	}
}

func TestResolve_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sys.yaml")
	data := "dt: 10\nticks: 5\nbodies:\n  - kind: star\n    mass: 100\n  - kind: planet\n    mass: 1\n    x: 3\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	scn, err := Sources{}.Resolve(path)
	if err != nil {
		t.Fatal(err)
	}
	if scn.Dt != 10 || scn.Ticks != 5 || scn.Registry.Len() != 2 {
		t.Errorf("unexpected scenario %+v", scn)
	}
}

func TestResolve_Random(t *testing.T) {
	a, err := Sources{}.Resolve("random:7")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Sources{}.Resolve("random:7")
	if a.Name != "random-7" || a.Registry.Len() != b.Registry.Len() || a.Registry.At(0).Mass() != b.Registry.At(0).Mass() {
		t.Error("same seed should give the same system")
	}

	if _, err := (Sources{}).Resolve("random:x"); err == nil {
		t.Error("expected error for a bad seed")
	}
}

func TestResolve_Unknown(t *testing.T) {
	_, err := Sources{}.Resolve(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrUnknownSource) {
		t.Errorf("expected ErrUnknownSource, got %v", err)
	}
}

func TestExperimentRun(t *testing.T) {
	scn, err := Sources{}.Resolve("sun-earth")
	if err != nil {
		t.Fatal(err)
	}

	exp := New(scn, Config{Dt: 3600, Ticks: 48, SampleEvery: 12})
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}
	if err := exp.Setup(); err != nil {
		t.Fatal(err)
	}

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.TicksTaken != 48 {
		t.Errorf("expected 48 ticks, got %d", res.TicksTaken)
	}
	// initial frame plus one every 12 ticks
	if len(res.Frames) != 5 {
		t.Errorf("expected 5 frames, got %d", len(res.Frames))
	}
	for _, name := range []string{"kinetic_energy", "momentum_drift", "angular_momentum_drift", "stability", "min_separation"} {
		if _, ok := res.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if res.Metrics["stability"] != 1 {
		t.Errorf("a day-scale run should stay bounded, got %f", res.Metrics["stability"])
	}
}

func TestExperimentSetup_Empty(t *testing.T) {
	exp := New(&Scenario{Registry: cosmos.NewRegistry()}, Config{Dt: 1, Ticks: 1})
	if err := exp.Setup(); err == nil {
		t.Error("expected error for empty scenario")
	}
}

func TestExtent(t *testing.T) {
	if Extent(nil) != 1 {
		t.Error("empty extent should be 1")
	}
	views := []cosmos.View{{Pos: r2.Vec{X: 3, Y: 4}}, {Pos: r2.Vec{X: -1}}}
	if Extent(views) != 5 {
		t.Errorf("expected 5, got %f", Extent(views))
	}
}
