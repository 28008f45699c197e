package assembly

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidName is returned by [ParseName] for names that do not follow the
// assembler's "EDGE_<id>_length_<n>_cov_<c>" convention.
var ErrInvalidName = errors.New("invalid fragment name")

// nameRe matches SPAdes edge and contig names. The trailing quote marks the
// reverse complement.
var nameRe = regexp.MustCompile(`^(?:EDGE|NODE)_([A-Za-z0-9.]+)_length_(\d+)_cov_([0-9.eE+-]+)('?)$`)

// Name is a parsed fragment name.
type Name struct {
	ID       string // Fragment ID including the reverse suffix
	Length   int
	Coverage float64
	Reverse  bool
}

// ParseName extracts the fragment ID, length and coverage from a FASTG or
// alignment query name. A FASTG long name ("A:B,C;") is reduced to its
// short name first.
func ParseName(s string) (Name, error) {
	short := ShortName(s)
	m := nameRe.FindStringSubmatch(short)
	if m == nil {
		return Name{}, fmt.Errorf("%w: %q", ErrInvalidName, s)
	}
	length, err := strconv.Atoi(m[2])
	if err != nil {
		return Name{}, fmt.Errorf("%w: length %q", ErrInvalidName, m[2])
	}
	cov, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return Name{}, fmt.Errorf("%w: coverage %q", ErrInvalidName, m[3])
	}
	n := Name{ID: m[1], Length: length, Coverage: cov, Reverse: m[4] != ""}
	if n.Reverse {
		n.ID += ReverseSuffix
	}
	return n, nil
}

// ShortName strips the child list and terminator from a FASTG long name.
func ShortName(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(s, ">"))
	s = strings.TrimSuffix(s, ";")
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	return s
}

// splitLongName splits a FASTG header into its short name and child names.
func splitLongName(s string) (string, []string) {
	s = strings.TrimSpace(strings.TrimPrefix(s, ">"))
	s = strings.TrimSuffix(s, ";")
	short, rest, ok := strings.Cut(s, ":")
	if !ok || rest == "" {
		return short, nil
	}
	return short, strings.Split(rest, ",")
}
