package pipeline

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/omacc/omacc/pkg/alignment"
	"github.com/omacc/omacc/pkg/cache"
	"github.com/omacc/omacc/pkg/chain"
	apperrors "github.com/omacc/omacc/pkg/errors"
	resultio "github.com/omacc/omacc/pkg/io"
	"github.com/omacc/omacc/pkg/observability"
)

// Runner executes the pipeline with caching.
//
// The Runner holds no per-run state; multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs parse, build, solve, extract and render, serving the result
// from the cache when possible.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[Output][]byte),
	}
	logger := opts.Logger.With("run", result.RunID[:8])

	key, err := r.resultKey(opts)
	if err != nil {
		return nil, err
	}
	result.CacheInfo.ResultKey = key

	if !opts.Refresh && r.lookup(ctx, key, opts, result) {
		logger.Info("served from cache", "alignments", result.Document.Alignments, "value", result.Document.Value)
		return result, nil
	}

	parseStart := time.Now()
	in, err := Parse(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.Records = len(in.Records)
	result.Stats.Fragments = in.Graph.Len()
	logger.Info("parsed inputs",
		"records", len(in.Records),
		"fragments", in.Graph.Len(),
		"duration", result.Stats.ParseTime)

	solveStart := time.Now()
	solved, err := r.Solve(ctx, in, opts, result)
	if err != nil {
		return nil, err
	}
	result.Stats.SolveTime = time.Since(solveStart)
	logger.Info("extracted path",
		"alignments", len(solved.Path.Indices),
		"value", solved.Path.Value,
		"sweeps", solved.Solution.Sweeps,
		"duration", result.Stats.SolveTime)

	renderStart := time.Now()
	for _, out := range opts.Outputs {
		data, err := Render(ctx, solved, out)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render %s", out)
		}
		result.Artifacts[out] = data
	}
	result.Stats.RenderTime = time.Since(renderStart)
	if len(opts.Outputs) > 0 {
		logger.Debug("rendered outputs", "count", len(opts.Outputs), "duration", result.Stats.RenderTime)
	}

	r.store(ctx, key, opts, result)
	return result, nil
}

// Solve filters the records, builds the successor relation, solves it and
// extracts the path. Counters are recorded in result.Stats and the solved
// state in result.
func (r *Runner) Solve(ctx context.Context, in *Inputs, opts Options, result *Result) (*Solved, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()

	buildStart := time.Now()
	c := chain.New(alignment.Filter(in.Records, opts.ValidThreshold))
	stats := c.BuildSuccessors(in.Graph, chain.BuildOptions{
		SafetyMargin: opts.SafetyMargin,
		ErrorMargin:  opts.ErrorMargin,
	})
	hooks.OnBuildComplete(ctx, c.Len(), stats.Edges, time.Since(buildStart), nil)

	result.Chain = c
	result.Stats.Alignments = c.Len()
	result.Stats.Edges = stats.Edges
	result.Stats.MissingNodes = stats.MissingNodes
	opts.Logger.Debug("built candidate graph",
		"alignments", c.Len(),
		"compared", stats.Compared,
		"edges", stats.Edges)
	if n := len(stats.MissingNodes); n > 0 {
		opts.Logger.Warn("alignments reference fragments missing from the assembly graph",
			"fragments", n,
			"first", stats.MissingNodes[0])
	}
	if opts.Logger.GetLevel() <= log.DebugLevel {
		r.logDiagnostics(c, in, opts, result)
	}

	solveCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	hooks.OnSolveStart(ctx, c.Len())
	solveStart := time.Now()
	sol, err := c.Solve(solveCtx, chain.SolveOptions{MaxSweeps: opts.MaxSweeps})
	if sol != nil {
		hooks.OnSolveComplete(ctx, sol.Sweeps, sol.Converged, time.Since(solveStart), err)
	} else {
		hooks.OnSolveComplete(ctx, 0, false, time.Since(solveStart), err)
	}
	if err != nil {
		return nil, solveError(err)
	}
	result.Solution = sol
	result.Stats.Sweeps = sol.Sweeps

	p, err := c.ExtractPath(sol)
	if err != nil {
		return nil, solveError(err)
	}
	result.Path = p

	if len(opts.Expected) > 0 {
		exp, err := c.Expect(p, opts.Expected, in.Graph.IDs())
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "check expected fragments")
		}
		result.Expectation = exp
		if len(exp.Missing)+len(exp.Unaligned) > 0 {
			opts.Logger.Warn("expected fragments not on path",
				"missing", exp.Missing,
				"unaligned", exp.Unaligned)
		}
	}

	result.Document = resultio.NewDocument(c, sol, p, resultio.Meta{
		RunID:       result.RunID,
		Overlap:     opts.Overlap,
		Expectation: result.Expectation,
	})

	return &Solved{
		Chain:    c,
		Solution: sol,
		Path:     p,
		Document: result.Document,
		Expected: opts.Expected,
	}, nil
}

func solveError(err error) error {
	switch {
	case errors.Is(err, chain.ErrEmptyInput):
		return apperrors.Wrap(apperrors.ErrCodeEmptyInput, err, "extract path")
	case errors.Is(err, chain.ErrCycle):
		return apperrors.Wrap(apperrors.ErrCodeCycle, err, "solve")
	case errors.Is(err, chain.ErrNonConvergence):
		return apperrors.Wrap(apperrors.ErrCodeNonConvergence, err, "solve")
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Wrap(apperrors.ErrCodeTimeout, err, "solve")
	case errors.Is(err, context.Canceled):
		return err
	}
	return apperrors.Wrap(apperrors.ErrCodeInternal, err, "solve")
}

// resultKey hashes both inputs and the result-affecting options.
func (r *Runner) resultKey(opts Options) (string, error) {
	reportHash, err := cache.HashFile(opts.ReportPath)
	if err != nil {
		return "", inputError(err, apperrors.ErrCodeInvalidInput, "read alignment report")
	}
	graphHash, err := cache.HashFile(opts.GraphPath)
	if err != nil {
		return "", inputError(err, apperrors.ErrCodeInvalidInput, "read assembly graph")
	}
	return r.Keyer.ResultKey(reportHash, graphHash, opts.ResultKeyOpts()), nil
}

// lookup fills result from the cache. It succeeds only if the document and
// every requested artifact are cached.
func (r *Runner) lookup(ctx context.Context, key string, opts Options, result *Result) bool {
	hooks := observability.Cache()

	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, "result")
		return false
	}
	doc, err := resultio.ReadJSON(bytes.NewReader(data))
	if err != nil {
		hooks.OnCacheMiss(ctx, "result")
		return false
	}
	hooks.OnCacheHit(ctx, "result")

	artifacts := make(map[Output][]byte, len(opts.Outputs))
	for _, out := range opts.Outputs {
		data, hit, err := r.Cache.Get(ctx, r.artifactKey(key, out))
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, "artifact")
			return false
		}
		hooks.OnCacheHit(ctx, "artifact")
		artifacts[out] = data
	}

	result.Document = doc
	result.Artifacts = artifacts
	result.Stats.Alignments = doc.Alignments
	result.Stats.Edges = doc.Edges
	result.Stats.Sweeps = doc.Sweeps
	result.CacheInfo.Hit = true
	return true
}

// store caches the document and artifacts. Failures only cost a future
// recomputation and are logged.
func (r *Runner) store(ctx context.Context, key string, opts Options, result *Result) {
	hooks := observability.Cache()

	var buf bytes.Buffer
	if err := resultio.WriteJSON(result.Document, &buf); err != nil {
		opts.Logger.Debug("cache result", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, buf.Bytes(), opts.CacheTTL); err != nil {
		opts.Logger.Debug("cache result", "err", err)
		return
	}
	hooks.OnCacheSet(ctx, "result", buf.Len())

	for out, data := range result.Artifacts {
		if err := r.Cache.Set(ctx, r.artifactKey(key, out), data, opts.CacheTTL); err != nil {
			opts.Logger.Debug("cache artifact", "output", out, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}
}

func (r *Runner) artifactKey(resultKey string, out Output) string {
	return r.Keyer.ArtifactKey(resultKey, cache.ArtifactKeyOpts{Kind: out.Kind, Format: out.Format})
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// logDiagnostics reports graph arcs the alignments cannot follow. It walks
// every pair of alignments per arc, so it only runs at debug level.
func (r *Runner) logDiagnostics(c *chain.Chain, in *Inputs, opts Options, result *Result) {
	d, err := c.Diagnose(in.Graph, opts.ErrorMargin)
	if err != nil {
		opts.Logger.Debug("diagnostics failed", "err", err)
		return
	}
	result.Stats.UnchainedArcs = len(d.UnchainedArcs)
	for _, a := range d.UnchainedArcs {
		opts.Logger.Debug("graph arc without adjacent alignments", "from", a.From, "to", a.To)
	}
	opts.Logger.Debug("diagnostics",
		"unchained_arcs", len(d.UnchainedArcs),
		"shared_starts", d.SharedStarts)
}
