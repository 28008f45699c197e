package alignment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/omacc/omacc/pkg/assembly"
)

const (
	// DefaultValidThreshold is the identity score a record must exceed to be
	// considered valid.
	DefaultValidThreshold = 0.9

	// DefaultErrorMargin is the fixed tolerance, in bases, of the adjacency
	// window.
	DefaultErrorMargin = 1

	// NumFields is the number of tab-separated columns of a report line.
	NumFields = 12
)

// ErrMalformedRecord is matched by every [*MalformedRecordError].
var ErrMalformedRecord = errors.New("malformed alignment record")

// MalformedRecordError describes a report line that could not be parsed.
type MalformedRecordError struct {
	Line   int    // 1-based line number in the report, 0 if unknown
	Field  string // Column name, empty for structural problems
	Reason string
	Err    error // Underlying parse error (optional)
}

func (e *MalformedRecordError) Error() string {
	var b strings.Builder
	b.WriteString(ErrMalformedRecord.Error())
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": %s", e.Field)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Is makes errors.Is(err, ErrMalformedRecord) succeed.
func (e *MalformedRecordError) Is(target error) bool { return target == ErrMalformedRecord }

// Unwrap returns the underlying parse error.
func (e *MalformedRecordError) Unwrap() error { return e.Err }

// Severity buckets records by mismatch count for presentation.
type Severity int

const (
	SeverityExact    Severity = iota // no mismatches
	SeverityMinor                    // 1-2 mismatches
	SeverityModerate                 // 3-4 mismatches
	SeveritySevere                   // 5 or more
)

var severityColors = [...]string{"green", "yellow", "orange", "red"}

// SeverityOf returns the bucket for a mismatch count.
func SeverityOf(mismatches int) Severity {
	switch {
	case mismatches <= 0:
		return SeverityExact
	case mismatches <= 2:
		return SeverityMinor
	case mismatches <= 4:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}

// Color returns the Graphviz color name used for the bucket.
func (s Severity) Color() string { return severityColors[s] }

// Record is one parsed alignment. Coordinates are 1-based and inclusive.
// A record is forward when SubjectEnd > SubjectStart.
type Record struct {
	Line string // Raw report line without the trailing newline

	QueryID   string
	SubjectID string
	NodeID    string // Fragment ID of the query, "12" or "12r"

	QueryLength     int
	Identity        float64 // Fraction of identical bases, 0..1
	AlignmentLength int
	Mismatches      int
	GapOpens        int
	QueryStart      int
	QueryEnd        int
	SubjectStart    int
	SubjectEnd      int
	EValue          float64
	BitScore        float64

	StartCut      int // Unaligned query prefix
	EndCut        int // Unaligned query suffix
	Deletions     int // Alignment columns beyond the query span
	Insertions    int // Alignment columns beyond the subject span
	Left          int
	Right         int
	Forward       bool
	IdentityScore float64
}

// ParseOptions controls how report lines are interpreted.
type ParseOptions struct {
	// QueryLengths overrides the query length for the given query IDs. When
	// a query is absent, its length and fragment ID are parsed from the
	// assembler name.
	QueryLengths map[string]int
}

var fieldNames = [NumFields]string{
	"qseqid", "sseqid", "pident", "length", "mismatch", "gapopen",
	"qstart", "qend", "sstart", "send", "evalue", "bitscore",
}

// ParseRecord parses one report line.
func ParseRecord(line string, opts ParseOptions) (*Record, error) {
	return parseRecord(line, 0, opts)
}

func parseRecord(line string, lineNo int, opts ParseOptions) (*Record, error) {
	line = strings.TrimRight(line, "\r\n")
	cols := strings.Split(line, "\t")
	if len(cols) != NumFields {
		return nil, &MalformedRecordError{
			Line:   lineNo,
			Reason: fmt.Sprintf("got %d fields, want %d", len(cols), NumFields),
		}
	}

	r := &Record{Line: line, QueryID: cols[0], SubjectID: cols[1]}

	ints := []struct {
		col int
		dst *int
	}{
		{3, &r.AlignmentLength}, {4, &r.Mismatches}, {5, &r.GapOpens},
		{6, &r.QueryStart}, {7, &r.QueryEnd}, {8, &r.SubjectStart}, {9, &r.SubjectEnd},
	}
	for _, f := range ints {
		v, err := strconv.Atoi(strings.TrimSpace(cols[f.col]))
		if err != nil {
			return nil, &MalformedRecordError{Line: lineNo, Field: fieldNames[f.col], Reason: "not an integer", Err: err}
		}
		*f.dst = v
	}

	var pident float64
	floats := []struct {
		col int
		dst *float64
	}{
		{2, &pident}, {10, &r.EValue}, {11, &r.BitScore},
	}
	for _, f := range floats {
		v, err := strconv.ParseFloat(strings.TrimSpace(cols[f.col]), 64)
		if err != nil {
			return nil, &MalformedRecordError{Line: lineNo, Field: fieldNames[f.col], Reason: "not a number", Err: err}
		}
		*f.dst = v
	}
	r.Identity = pident / 100

	r.NodeID = r.QueryID
	if name, err := assembly.ParseName(r.QueryID); err == nil {
		r.NodeID = name.ID
		r.QueryLength = name.Length
	}
	if n, ok := opts.QueryLengths[r.QueryID]; ok {
		r.QueryLength = n
	}
	if r.QueryLength <= 0 {
		return nil, &MalformedRecordError{Line: lineNo, Field: fieldNames[0], Reason: "query length is zero or unknown"}
	}

	r.derive()
	return r, nil
}

func (r *Record) derive() {
	r.StartCut = r.QueryStart - 1
	r.EndCut = r.QueryLength - r.QueryEnd
	r.Deletions = r.AlignmentLength - (abs(r.QueryStart-r.QueryEnd) + 1)
	r.Insertions = r.AlignmentLength - (abs(r.SubjectStart-r.SubjectEnd) + 1)
	r.Left = min(r.SubjectStart, r.SubjectEnd)
	r.Right = max(r.SubjectStart, r.SubjectEnd)
	r.Forward = r.SubjectEnd > r.SubjectStart
	r.IdentityScore = float64(r.AlignmentLength) * r.Identity / float64(r.QueryLength)
}

// Valid reports whether the identity score exceeds threshold.
func (r *Record) Valid(threshold float64) bool { return r.IdentityScore > threshold }

// Mistakes returns mismatches plus gap openings.
func (r *Record) Mistakes() int { return r.Mismatches + r.GapOpens }

// Score is the intrinsic value of the alignment: aligned columns minus
// mistakes.
func (r *Record) Score() int { return r.AlignmentLength - r.Mistakes() }

// Severity returns the presentation bucket of the record.
func (r *Record) Severity() Severity { return SeverityOf(r.Mismatches) }

// String renders the record as "fragment,start-end,length".
func (r *Record) String() string {
	return fmt.Sprintf("%s,%d-%d,%d", r.NodeID, r.SubjectStart, r.SubjectEnd, r.SubjectEnd-r.SubjectStart+1)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
