package physics

import (
	"math"
	"testing"

	"github.com/san-kum/solarsim/internal/cosmos"
	"gonum.org/v1/gonum/spatial/r2"
)

func body(t *testing.T, kind cosmos.Kind, mass, x, y float64, system, con string) *cosmos.Body {
	t.Helper()
	b, err := cosmos.NewBody(cosmos.Spec{
		Kind:  kind,
		Mass:  mass,
		Pos:   r2.Vec{X: x, Y: y},
		Group: cosmos.Group{System: cosmos.SystemID(system), Constellation: cosmos.Constellation(con)},
	})
	if err != nil {
		t.Fatalf("NewBody: %v", err)
	}
	return b
}

func TestClassify_SameKind(t *testing.T) {
	for _, k := range cosmos.Kinds {
		a := body(t, k, 5, 0, 0, "0", "no")
		b := body(t, k, 7, 3, 4, "0", "pr")
		if got := Classify(a, b); got != None {
			t.Errorf("%v/%v: expected none, got %v", k, k, got)
		}
		f := NewResolver().ForceOn(a, []*cosmos.Body{a, b})
		if f != (r2.Vec{}) {
			t.Errorf("%v/%v: expected zero force, got %v", k, k, f)
		}
	}
}

func TestClassify_SelfIdentity(t *testing.T) {
	a := body(t, cosmos.Planet, 1, 0, 0, "0", "pr")
	if Classify(a, a) != None {
		t.Error("a body never interacts with itself")
	}

	twin := body(t, cosmos.Planet, 1, 0, 0, "0", "pr")
	if Classify(a, twin) != None {
		t.Error("same-kind twin must still be excluded by kind")
	}
}

func TestClassify_SatelliteStarAlwaysSuppressed(t *testing.T) {
	tags := []string{"no", "pr", "pr-x", "earth"}
	for _, sc := range tags {
		for _, stc := range tags {
			sat := body(t, cosmos.Satellite, 1, 1, 0, "0", sc)
			star := body(t, cosmos.Star, 1e30, 0, 0, "0", stc)
			if got := Classify(sat, star); got != Suppressed {
				t.Errorf("sat(%s)->star(%s): got %v", sc, stc, got)
			}
			if got := Classify(star, sat); got != Suppressed {
				t.Errorf("star(%s)->sat(%s): got %v", stc, sc, got)
			}
			res := NewResolver()
			all := []*cosmos.Body{sat, star}
			if f := res.ForceOn(sat, all); f != (r2.Vec{}) {
				t.Errorf("sat force = %v", f)
			}
			if f := res.ForceOn(star, all); f != (r2.Vec{}) {
				t.Errorf("star force = %v", f)
			}
		}
	}
}

func TestClassify_Cascade(t *testing.T) {
	tests := []struct {
		name        string
		self, other cosmos.Kind
		selfSys     string
		otherSys    string
		selfCon     string
		otherCon    string
		want        Interaction
	}{
		{"different systems", cosmos.Planet, cosmos.Star, "a", "b", "pr", "no", Suppressed},
		{"star no, planet primary", cosmos.Star, cosmos.Planet, "0", "0", "no", "pr", Newtonian},
		{"planet primary, star no", cosmos.Planet, cosmos.Star, "0", "0", "pr", "no", Newtonian},
		{"star no, planet member", cosmos.Star, cosmos.Planet, "0", "0", "no", "earth", Newtonian},
		{"planet member, star no", cosmos.Planet, cosmos.Star, "0", "0", "earth", "no", Newtonian},
		{"planet and star both no", cosmos.Planet, cosmos.Star, "0", "0", "no", "no", None},
		{"planet primary, star tagged", cosmos.Planet, cosmos.Star, "0", "0", "pr", "sun", Suppressed},
		{"star tagged, planet primary", cosmos.Star, cosmos.Planet, "0", "0", "sun", "pr", Suppressed},
		{"planet and star tagged apart", cosmos.Planet, cosmos.Star, "0", "0", "a", "b", None},
		{"planet satellite shared", cosmos.Planet, cosmos.Satellite, "0", "0", "pr", "pr", Binding},
		{"satellite planet shared", cosmos.Satellite, cosmos.Planet, "0", "0", "earth", "earth", Binding},
		{"satellite planet other system", cosmos.Satellite, cosmos.Planet, "0", "1", "earth", "earth", Suppressed},
		{"satellite member, planet primary", cosmos.Satellite, cosmos.Planet, "0", "0", "moon", "pr", Suppressed},
		{"satellite primary, planet member", cosmos.Satellite, cosmos.Planet, "0", "0", "pr", "moon", Suppressed},
		{"satellite no, planet primary", cosmos.Satellite, cosmos.Planet, "0", "0", "no", "pr", None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := body(t, tt.self, 1, 0, 0, tt.selfSys, tt.selfCon)
			b := body(t, tt.other, 1, 1, 0, tt.otherSys, tt.otherCon)
			if got := Classify(a, b); got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestForceOn_BindingIsConstant(t *testing.T) {
	tests := []struct {
		mPlanet, mSat float64
		x, y          float64
	}{
		{1, 1, 1, 0},
		{6e24, 7e22, 3.84e8, 0},
		{1e3, 1e-3, -5, 12},
		{2, 2, 0, -1e-6},
	}

	res := NewResolver()
	for _, tt := range tests {
		planet := body(t, cosmos.Planet, tt.mPlanet, 0, 0, "0", "earth")
		sat := body(t, cosmos.Satellite, tt.mSat, tt.x, tt.y, "0", "earth")
		all := []*cosmos.Body{planet, sat}

		for _, self := range all {
			f := res.ForceOn(self, all)
			mag := math.Hypot(f.X, f.Y)
			if math.Abs(mag-BindingForce)/BindingForce > 1e-12 {
				t.Errorf("binding magnitude = %v, want %v", mag, BindingForce)
			}
		}
	}
}

func TestForceOn_Newtonian(t *testing.T) {
	tests := []struct {
		mStar, mPlanet float64
		x, y           float64
		planetCon      string
	}{
		{1000, 1, 10, 0, "pr"},
		{1.989e30, 5.972e24, 1.496e11, 0, "pr"},
		{5, 3, -3, 4, "earth"},
		{1e10, 1e-5, 0.5, -0.25, "pr-2"},
	}

	res := NewResolver()
	for _, tt := range tests {
		star := body(t, cosmos.Star, tt.mStar, 0, 0, "0", "no")
		planet := body(t, cosmos.Planet, tt.mPlanet, tt.x, tt.y, "0", tt.planetCon)
		all := []*cosmos.Body{star, planet}

		r := math.Hypot(tt.x, tt.y)
		want := G * tt.mStar * tt.mPlanet / (r * r)

		fp := res.ForceOn(planet, all)
		fs := res.ForceOn(star, all)

		for _, f := range []r2.Vec{fp, fs} {
			got := math.Hypot(f.X, f.Y)
			if math.Abs(got-want)/want > 1e-9 {
				t.Errorf("magnitude = %v, want %v", got, want)
			}
		}

		// attraction: the planet is pulled toward the star and vice versa
		if r2.Dot(fp, r2.Vec{X: -tt.x, Y: -tt.y}) <= 0 {
			t.Errorf("planet force %v does not point at the star", fp)
		}
		if math.Abs(fp.X+fs.X) > 1e-9*want || math.Abs(fp.Y+fs.Y) > 1e-9*want {
			t.Errorf("forces not reciprocal: %v vs %v", fp, fs)
		}
	}
}

func TestForceOn_CoincidentSkipped(t *testing.T) {
	star := body(t, cosmos.Star, 1000, 2, 2, "0", "no")
	planet := body(t, cosmos.Planet, 1, 2, 2, "0", "pr")

	f := NewResolver().ForceOn(planet, []*cosmos.Body{star, planet})
	if f != (r2.Vec{}) || math.IsNaN(f.X) {
		t.Errorf("coincident pair must contribute nothing, got %v", f)
	}
}

func TestResolve_Accumulates(t *testing.T) {
	star1 := body(t, cosmos.Star, 1000, -10, 0, "0", "no")
	star2 := body(t, cosmos.Star, 1000, 10, 0, "0", "no")
	planet := body(t, cosmos.Planet, 1, 0, 0, "0", "pr")
	all := []*cosmos.Body{star1, planet, star2}

	out := []r2.Vec{{X: 42, Y: 42}, {X: 42, Y: 42}, {X: 42, Y: 42}}
	NewResolver().Resolve(all, out)

	if math.Abs(out[1].X) > 1e-20 || math.Abs(out[1].Y) > 1e-20 {
		t.Errorf("symmetric pulls must cancel on the planet, got %v", out[1])
	}
	want := G * 1000 / 100
	if math.Abs(out[0].X-want)/want > 1e-9 {
		t.Errorf("star1 Fx = %v, want %v", out[0].X, want)
	}
	if math.Abs(out[2].X+want)/want > 1e-9 {
		t.Errorf("star2 Fx = %v, want %v", out[2].X, -want)
	}
}

func TestCensus(t *testing.T) {
	star := body(t, cosmos.Star, 1000, 0, 0, "0", "no")
	planet := body(t, cosmos.Planet, 1, 10, 0, "0", "earth")
	moon := body(t, cosmos.Satellite, 0.1, 11, 0, "0", "earth")

	c := Census([]*cosmos.Body{star, planet, moon})
	if c[Newtonian] != 2 || c[Binding] != 2 || c[Suppressed] != 2 {
		t.Errorf("unexpected census %v", c)
	}
}
