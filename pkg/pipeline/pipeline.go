// Package pipeline runs alignment chaining end to end.
//
// A run reads the alignment report and the assembly graph, keeps the valid
// forward alignments, builds the successor relation, solves for the best
// chain values, extracts the winning path and renders the requested
// outputs. The CLI is a thin layer over [Runner.Execute].
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ReportPath: "hits.tsv",
//	    GraphPath:  "assembly.fastg",
//	    Overlap:    55,
//	    Outputs:    []pipeline.Output{{Kind: pipeline.KindPath, Format: "svg"}},
//	})
//	svg := result.Artifacts[pipeline.Output{Kind: pipeline.KindPath, Format: "svg"}]
//
// # Caching
//
// Results are cached under a key derived from the content of both input
// files and every setting that affects the result. When the document and
// all requested outputs are cached, no input is parsed. Errors returned by
// the runner carry a code from pkg/errors.
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/omacc/omacc/pkg/alignment"
	"github.com/omacc/omacc/pkg/cache"
	"github.com/omacc/omacc/pkg/chain"
	apperrors "github.com/omacc/omacc/pkg/errors"
	resultio "github.com/omacc/omacc/pkg/io"
	"github.com/omacc/omacc/pkg/render/dot"
)

// Output kinds.
const (
	KindPath       = "path"       // Winning path diagram
	KindCandidates = "candidates" // All alignments with successor links
	KindSuccessors = "successors" // Successor table
	KindDocument   = "document"   // JSON result document
)

// Formats of the non-diagram kinds.
const (
	FormatTSV  = "tsv"
	FormatJSON = "json"
)

// DefaultCacheTTL is used when Options.CacheTTL is zero.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Output names one rendered artifact.
type Output struct {
	Kind   string
	Format string
}

func (o Output) String() string { return o.Kind + "." + o.Format }

// Validate checks that the kind supports the format.
func (o Output) Validate() error {
	switch o.Kind {
	case KindPath, KindCandidates:
		if _, err := dot.ParseFormat(o.Format); err != nil {
			return fmt.Errorf("%s: %w", o.Kind, err)
		}
		return nil
	case KindSuccessors:
		if o.Format != FormatTSV {
			return fmt.Errorf("successors: unsupported format %q (want tsv)", o.Format)
		}
		return nil
	case KindDocument:
		if o.Format != FormatJSON {
			return fmt.Errorf("document: unsupported format %q (want json)", o.Format)
		}
		return nil
	}
	return fmt.Errorf("unknown output kind %q", o.Kind)
}

// Options configures a run.
type Options struct {
	ReportPath string
	GraphPath  string

	// Overlap is the k-mer overlap of the assembly. Required.
	Overlap int

	// QueryLengths overrides query lengths for reports whose query names
	// do not carry one.
	QueryLengths map[string]int

	ValidThreshold float64 // Zero means alignment.DefaultValidThreshold
	ErrorMargin    int
	SafetyMargin   int
	MaxSweeps      int           // Zero means number of alignments + 1
	Timeout        time.Duration // Bound on the solve stage, zero for none

	// Expected lists fragment IDs checked against the path.
	Expected []string

	Outputs []Output

	Refresh  bool          // Ignore cached results
	CacheTTL time.Duration // Zero means DefaultCacheTTL

	Logger *log.Logger

	validated bool
}

// DefaultOptions returns options with the default tolerances. Paths,
// overlap and outputs still need to be set.
func DefaultOptions() Options {
	return Options{
		ValidThreshold: alignment.DefaultValidThreshold,
		ErrorMargin:    alignment.DefaultErrorMargin,
		SafetyMargin:   chain.DefaultSafetyMargin,
	}
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it again has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.ReportPath == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "alignment report is required")
	}
	if o.GraphPath == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "assembly graph is required")
	}
	if o.Overlap <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "overlap must be positive, got %d", o.Overlap)
	}
	if o.ValidThreshold < 0 || o.ValidThreshold > 1 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "valid threshold must be within [0, 1], got %g", o.ValidThreshold)
	}
	if o.ErrorMargin < 0 || o.SafetyMargin < 0 || o.MaxSweeps < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "margins and sweep limit must not be negative")
	}
	for _, out := range o.Outputs {
		if err := out.Validate(); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "invalid output")
		}
	}

	if o.ValidThreshold == 0 {
		o.ValidThreshold = alignment.DefaultValidThreshold
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ResultKeyOpts returns the cache key options of the result.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	expected := slices.Clone(o.Expected)
	slices.Sort(expected)
	return cache.ResultKeyOpts{
		Overlap:        o.Overlap,
		ValidThreshold: o.ValidThreshold,
		ErrorMargin:    o.ErrorMargin,
		SafetyMargin:   o.SafetyMargin,
		MaxSweeps:      o.MaxSweeps,
		Expected:       slices.Compact(expected),
		QueryLengths:   o.QueryLengths,
	}
}

// Result contains the outputs of a run.
type Result struct {
	// RunID identifies this invocation in logs.
	RunID string

	// Document summarizes the path. On a cache hit it is the only part of
	// the result besides the artifacts.
	Document *resultio.Document

	// Chain, Solution and Path are nil on a cache hit.
	Chain    *chain.Chain
	Solution *chain.Solution
	Path     *chain.Path

	// Expectation is set when Options.Expected is non-empty and the result
	// was computed.
	Expectation *chain.Expectation

	Artifacts map[Output][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains run statistics.
type Stats struct {
	Records      int // Report records read
	Alignments   int // Valid forward alignments kept
	Fragments    int // Assembly graph fragments
	Edges        int
	Sweeps       int
	MissingNodes []string
	ParseTime    time.Duration
	SolveTime    time.Duration
	RenderTime   time.Duration

	// UnchainedArcs counts graph arcs with no adjacent alignments. It is
	// only computed when the logger is at debug level.
	UnchainedArcs int
}

// CacheInfo tracks cache use.
type CacheInfo struct {
	ResultKey string
	Hit       bool // Document and all artifacts came from the cache
}
