package cosmos

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	DefaultSystem   SystemID      = "0"
	NoConstellation Constellation = "no"
	PrimaryPrefix                 = "pr"
)

// SystemID names an independent gravitational cluster. Bodies in different
// systems never interact.
type SystemID string

// Constellation sub-groups bodies inside a system. "no" marks an unaffiliated
// body and a "pr" prefix marks a primary.
type Constellation string

func (c Constellation) IsNone() bool {
	return c == NoConstellation
}

func (c Constellation) IsPrimary() bool {
	return strings.HasPrefix(string(c), PrimaryPrefix)
}

// DefaultConstellation is the tag a record gets when it omits one.
func DefaultConstellation(k Kind) Constellation {
	if k == Star {
		return NoConstellation
	}
	return Constellation(PrimaryPrefix)
}

// Group is the two-level grouping key of a body.
type Group struct {
	System        SystemID
	Constellation Constellation
}

// NewGroup validates both tags. Empty tags and case variants of the bare
// reserved tags "no" and "pr" are rejected. Longer tags such as "Proxima"
// are ordinary member tags.
func NewGroup(system SystemID, con Constellation) (Group, error) {
	if err := checkTag(string(system)); err != nil {
		return Group{}, fmt.Errorf("system %q: %w", system, err)
	}
	if err := checkTag(string(con)); err != nil {
		return Group{}, fmt.Errorf("constellation %q: %w", con, err)
	}
	s := string(con)
	if strings.EqualFold(s, string(NoConstellation)) && !con.IsNone() {
		return Group{}, fmt.Errorf("constellation %q: %w: reserved tag is %q", con, ErrInvalidTag, NoConstellation)
	}
	if strings.EqualFold(s, PrimaryPrefix) && !con.IsPrimary() {
		return Group{}, fmt.Errorf("constellation %q: %w: primary prefix is %q", con, ErrInvalidTag, PrimaryPrefix)
	}
	return Group{System: system, Constellation: con}, nil
}

// DefaultGroup is the group of a body whose record carries no tags.
func DefaultGroup(k Kind) Group {
	return Group{System: DefaultSystem, Constellation: DefaultConstellation(k)}
}

func (g Group) SameSystem(o Group) bool {
	return g.System == o.System
}

func (g Group) SameConstellation(o Group) bool {
	return g.Constellation == o.Constellation
}

func (g Group) String() string {
	return string(g.System) + "/" + string(g.Constellation)
}

func checkTag(s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty", ErrInvalidTag)
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: contains whitespace", ErrInvalidTag)
	}
	return nil
}
