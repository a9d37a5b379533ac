package spacefile

import (
	"bytes"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/san-kum/solarsim/internal/cosmos"
	"gonum.org/v1/gonum/spatial/r2"
)

const solar = `# sun, earth and moon
Star 30 yellow 1.98892e30 0 0 0 0 sol no

planet 10 blue 5.9742e24 149.6e9 0 0 29.783e3 sol
Satellite 4 gray 7.35e22 150.0e9 0 0 30.8e3 sol pr
`

func TestRead(t *testing.T) {
	loaded, err := Read(strings.NewReader(solar), Options{})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	reg := loaded.Registry
	if reg.Len() != 3 {
		t.Fatalf("expected 3 bodies, got %d", reg.Len())
	}

	star, planet, moon := reg.At(0), reg.At(1), reg.At(2)
	if star.Kind() != cosmos.Star || planet.Kind() != cosmos.Planet || moon.Kind() != cosmos.Satellite {
		t.Errorf("kinds out of order: %v %v %v", star.Kind(), planet.Kind(), moon.Kind())
	}
	if star.Radius() != 30 || star.Color() != "yellow" || star.Mass() != 1.98892e30 {
		t.Errorf("star fields: %v", star)
	}
	if planet.Pos().X != 149.6e9 || planet.Vel().Y != 29.783e3 {
		t.Errorf("planet kinematics: %v", planet)
	}
	if planet.System() != "sol" || planet.Constellation() != "pr" {
		t.Errorf("planet group = %v, want sol/pr", planet.Group())
	}
	if moon.Constellation() != "pr" {
		t.Errorf("moon constellation = %q", moon.Constellation())
	}
}

func TestRead_Defaults(t *testing.T) {
	in := "Star 1 red 10 0 0 0 0\nPlanet 1 red 1 1 0 0 0\nSatellite 1 red 1 2 0 0 0\n"
	loaded, err := Read(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	want := []cosmos.Constellation{"no", "pr", "pr"}
	for i, b := range loaded.Registry.Bodies() {
		if b.System() != "0" {
			t.Errorf("body %d: system %q, want \"0\"", i, b.System())
		}
		if b.Constellation() != want[i] {
			t.Errorf("body %d: constellation %q, want %q", i, b.Constellation(), want[i])
		}
	}
}

func TestRead_UnknownKindSkipped(t *testing.T) {
	in := "Star 10 red 1000 0 0 0 0\nComet 1 blue 1 0 0 0 0\nPlanet 5 green 1 10 0 0 1\n"
	var warn bytes.Buffer

	loaded, err := Read(strings.NewReader(in), Options{Path: "sys.txt", Warn: &warn})
	if err != nil {
		t.Fatalf("unknown kind must not fail the load: %v", err)
	}
	if loaded.Registry.Len() != 2 {
		t.Errorf("expected 2 bodies, got %d", loaded.Registry.Len())
	}
	if len(loaded.Skipped) != 1 || loaded.Skipped[0].Line != 2 || loaded.Skipped[0].Token != "Comet" {
		t.Errorf("skipped = %+v", loaded.Skipped)
	}
	if !strings.Contains(warn.String(), "WARN: sys.txt:2: unknown space object \"Comet\"") {
		t.Errorf("unexpected warning %q", warn.String())
	}

	warn.Reset()
	if _, err := Read(strings.NewReader(in), Options{Warn: &warn, Quiet: true}); err != nil {
		t.Fatal(err)
	}
	if warn.Len() != 0 {
		t.Errorf("quiet load wrote %q", warn.String())
	}
}

func TestRead_MalformedIsFatal(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{"too few fields", "Star 10 red 1000 0 0 0", ErrFieldCount},
		{"too many fields", "Star 10 red 1000 0 0 0 0 sys no extra", ErrFieldCount},
		{"radius not int", "Star 1.5 red 1000 0 0 0 0", ErrBadNumber},
		{"mass not numeric", "Star 10 red heavy 0 0 0 0", ErrBadNumber},
		{"vy not numeric", "Planet 10 red 1 0 0 0 fast", ErrBadNumber},
		{"zero mass", "Planet 10 red 0 0 0 0 0", cosmos.ErrNonPositiveMass},
		{"negative mass", "Planet 10 red -3 0 0 0 0", cosmos.ErrNonPositiveMass},
		{"bad constellation", "Planet 10 red 1 0 0 0 0 0 PR", cosmos.ErrInvalidTag},
		{"nan position", "Planet 10 red 1 NaN 0 0 0", cosmos.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := "# header\n" + tt.line + "\n"
			_, err := Read(strings.NewReader(in), Options{Path: "bad.txt"})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) || pe.Line != 2 || pe.Path != "bad.txt" {
				t.Errorf("expected ParseError at bad.txt:2, got %v", err)
			}
		})
	}
}

func TestWrite_Format(t *testing.T) {
	b, err := cosmos.NewBody(cosmos.Spec{
		Kind:   cosmos.Planet,
		Radius: 5,
		Color:  "blue",
		Mass:   1234.5,
		Pos:    r2.Vec{X: 1.496e11, Y: -0.5},
		Vel:    r2.Vec{X: 0, Y: 29783},
		Group:  cosmos.Group{System: "sol", Constellation: "earth"},
	})
	if err != nil {
		t.Fatal(err)
	}
	b.SetRelation("inner")

	var buf bytes.Buffer
	if err := Write(&buf, []*cosmos.Body{b}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	want := "Planet 5 blue 1234.50 1.496e+11 -0.5 0 29783 sol inner\n"
	if buf.String() != want {
		t.Errorf("got  %q\nwant %q", buf.String(), want)
	}
}

func TestWrite_RejectsUnwritable(t *testing.T) {
	tiny, _ := cosmos.NewBody(cosmos.Spec{Kind: cosmos.Satellite, Mass: 0.001})
	if err := Write(&bytes.Buffer{}, []*cosmos.Body{tiny}); !errors.Is(err, ErrMassPrecision) {
		t.Errorf("expected ErrMassPrecision, got %v", err)
	}

	for _, rel := range []string{"two words", "NO", "Pr", ""} {
		b, _ := cosmos.NewBody(cosmos.Spec{Kind: cosmos.Star, Mass: 1})
		b.SetRelation(rel)
		if err := Write(&bytes.Buffer{}, []*cosmos.Body{b}); !errors.Is(err, ErrBadToken) {
			t.Errorf("relation %q: expected ErrBadToken, got %v", rel, err)
		}
	}
}

func TestWrite_RelationReadsBack(t *testing.T) {
	for _, rel := range []string{"Proxima", "PRIME", "no", "pr-earth", "mars-group"} {
		b, _ := cosmos.NewBody(cosmos.Spec{Kind: cosmos.Planet, Mass: 1})
		b.SetRelation(rel)

		var buf bytes.Buffer
		if err := Write(&buf, []*cosmos.Body{b}); err != nil {
			t.Errorf("relation %q: write failed: %v", rel, err)
			continue
		}
		loaded, err := Read(&buf, Options{})
		if err != nil {
			t.Errorf("relation %q: written record does not read back: %v", rel, err)
			continue
		}
		if got := loaded.Registry.At(0).Constellation(); string(got) != rel {
			t.Errorf("relation %q read back as %q", rel, got)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	loaded, err := Read(strings.NewReader(solar+"Planet 3 red 123.456 -1e-3 2.5 0.1 -0.2 other earth\n"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	orig := loaded.Registry.Bodies()
	orig[3].SetRelation("mars-group")

	path := filepath.Join(t.TempDir(), "out.txt")
	if err := Save(path, orig); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	again, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	got := again.Registry.Bodies()
	if len(got) != len(orig) {
		t.Fatalf("expected %d bodies, got %d", len(orig), len(got))
	}

	for i := range orig {
		a, b := orig[i], got[i]
		if a.Kind() != b.Kind() || a.Radius() != b.Radius() || a.Color() != b.Color() {
			t.Errorf("body %d: identity fields differ: %v vs %v", i, a, b)
		}
		if want, _ := strconv.ParseFloat(strconv.FormatFloat(a.Mass(), 'f', 2, 64), 64); b.Mass() != want {
			t.Errorf("body %d: mass %v vs %v", i, a.Mass(), b.Mass())
		}
		if a.Pos() != b.Pos() || a.Vel() != b.Vel() {
			t.Errorf("body %d: kinematics differ: %v vs %v", i, a, b)
		}
		if a.System() != b.System() || a.Relation() != b.Relation() {
			t.Errorf("body %d: tags differ: %s/%s vs %s/%s", i, a.System(), a.Relation(), b.System(), b.Relation())
		}
	}
	if got[3].Mass() != 123.46 {
		t.Errorf("mass must round to 2 decimals, got %v", got[3].Mass())
	}
}
