package cosmos

import (
	"fmt"
	"strings"
)

type Kind int

const (
	Star Kind = iota
	Planet
	Satellite
)

var kindNames = [...]string{
	Star:      "Star",
	Planet:    "Planet",
	Satellite: "Satellite",
}

// Kinds lists every kind in declaration order.
var Kinds = []Kind{Star, Planet, Satellite}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) Valid() bool {
	return k >= Star && k <= Satellite
}

// ParseKind matches a kind token case-insensitively.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, kindNames[k]) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// KindPair is an ordered (self, other) pair of kinds.
type KindPair struct {
	Self, Other Kind
}

func PairOf(self, other *Body) KindPair {
	return KindPair{Self: self.kind, Other: other.kind}
}

// Is reports whether the pair is {a, b} in either order.
func (p KindPair) Is(a, b Kind) bool {
	return (p.Self == a && p.Other == b) || (p.Self == b && p.Other == a)
}

func (p KindPair) Same() bool {
	return p.Self == p.Other
}

func (p KindPair) String() string {
	return p.Self.String() + "/" + p.Other.String()
}
