package spacefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/san-kum/solarsim/internal/cosmos"
)

var (
	ErrBadToken      = errors.New("spacefile: unwritable token")
	ErrMassPrecision = errors.New("spacefile: mass rounds to zero at 2 decimals")
)

// Write emits one record per body in registry order:
//
//	<Kind> <radius> <color> <mass %.2f> <x> <y> <Vx> <Vy> <system> <relation>
//
// Coordinates use the shortest representation that parses back to the same
// float64.
func Write(w io.Writer, bodies []*cosmos.Body) error {
	bw := bufio.NewWriter(w)
	for _, b := range bodies {
		line, err := FormatRecord(b)
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func Save(path string, bodies []*cosmos.Body) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(fh, bodies); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

func FormatRecord(b *cosmos.Body) (string, error) {
	for _, tok := range []string{b.Color(), string(b.System()), b.Relation()} {
		if tok == "" || strings.IndexFunc(tok, unicode.IsSpace) >= 0 {
			return "", fmt.Errorf("%w: %q in %v", ErrBadToken, tok, b)
		}
	}
	if _, err := cosmos.NewGroup(b.System(), cosmos.Constellation(b.Relation())); err != nil {
		return "", fmt.Errorf("%w: relation %q does not read back: %v", ErrBadToken, b.Relation(), err)
	}
	mass := strconv.FormatFloat(b.Mass(), 'f', 2, 64)
	if v, _ := strconv.ParseFloat(mass, 64); v <= 0 {
		return "", fmt.Errorf("%w: %v", ErrMassPrecision, b.Mass())
	}

	pos, vel := b.Pos(), b.Vel()
	return strings.Join([]string{
		b.Kind().String(),
		strconv.Itoa(b.Radius()),
		b.Color(),
		mass,
		formatFloat(pos.X),
		formatFloat(pos.Y),
		formatFloat(vel.X),
		formatFloat(vel.Y),
		string(b.System()),
		b.Relation(),
	}, " "), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
