// Package spacefile reads and writes the flat text format holding one body
// per line:
//
//	<Kind> <radius> <color> <mass> <x> <y> <Vx> <Vy> [<system>] [<constellation>]
//
// Blank lines and lines starting with '#' are ignored. Kind is matched
// case-insensitively; a line with an unknown kind is reported and skipped.
// Every other malformed record is fatal.
package spacefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/solarsim/internal/cmdutil"
	"github.com/san-kum/solarsim/internal/cosmos"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	minFields = 8
	maxFields = 10
)

var (
	ErrFieldCount = errors.New("spacefile: bad field count")
	ErrBadNumber  = errors.New("spacefile: bad numeric field")
)

// ParseError locates a fatal record error.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type Options struct {
	// Path labels errors and warnings.
	Path string
	// Warn receives unknown-kind reports. Nil discards them.
	Warn  io.Writer
	Quiet bool
}

// Skipped records a line dropped for an unknown kind.
type Skipped struct {
	Line  int
	Token string
}

type Loaded struct {
	Registry *cosmos.Registry
	Skipped  []Skipped
}

func Load(path string, opts Options) (*Loaded, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	if opts.Path == "" {
		opts.Path = path
	}
	return Read(fh, opts)
}

func Read(r io.Reader, opts Options) (*Loaded, error) {
	out := &Loaded{Registry: cosmos.NewRegistry()}

	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		b, err := ParseRecord(line)
		if errors.Is(err, cosmos.ErrUnknownKind) {
			token := strings.Fields(line)[0]
			loc := fmt.Sprintf("line %d", ln)
			if opts.Path != "" {
				loc = fmt.Sprintf("%s:%d", opts.Path, ln)
			}
			cmdutil.Warnf(opts.Warn, opts.Quiet, "%s: unknown space object %q, line skipped", loc, token)
			out.Skipped = append(out.Skipped, Skipped{Line: ln, Token: token})
			continue
		}
		if err != nil {
			return nil, &ParseError{Path: opts.Path, Line: ln, Err: err}
		}
		out.Registry.Add(b)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseRecord builds a body from one record line. Missing system and
// constellation tags take the defaults of the kind.
func ParseRecord(line string) (*cosmos.Body, error) {
	f := strings.Fields(line)
	if len(f) == 0 {
		return nil, fmt.Errorf("%w: empty record", ErrFieldCount)
	}

	kind, err := cosmos.ParseKind(f[0])
	if err != nil {
		return nil, err
	}
	if len(f) < minFields || len(f) > maxFields {
		return nil, fmt.Errorf("%w: got %d, want %d to %d", ErrFieldCount, len(f), minFields, maxFields)
	}

	radius, err := strconv.Atoi(f[1])
	if err != nil {
		return nil, fmt.Errorf("%w: radius %q", ErrBadNumber, f[1])
	}

	names := [...]string{"mass", "x", "y", "Vx", "Vy"}
	var nums [len(names)]float64
	for i := range names {
		v, err := strconv.ParseFloat(f[3+i], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q", ErrBadNumber, names[i], f[3+i])
		}
		nums[i] = v
	}

	g := cosmos.DefaultGroup(kind)
	if len(f) > 8 {
		g.System = cosmos.SystemID(f[8])
	}
	if len(f) > 9 {
		g.Constellation = cosmos.Constellation(f[9])
	}

	return cosmos.NewBody(cosmos.Spec{
		Kind:   kind,
		Radius: radius,
		Color:  f[2],
		Mass:   nums[0],
		Pos:    r2.Vec{X: nums[1], Y: nums[2]},
		Vel:    r2.Vec{X: nums[3], Y: nums[4]},
		Group:  g,
	})
}
