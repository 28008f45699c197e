// Package cli implements the omacc command-line interface.
//
// The commands are thin wrappers around pkg/pipeline: they merge the config
// file with command-line flags, run the pipeline and write its artifacts.
//
// # Commands
//
//   - chain: find the best chain of alignments and write it as a diagram
//   - show: print or browse a result document written by chain --json
//   - lastgraph: convert a FASTG assembly graph to velvet LastGraph
//   - config: create, print or locate the config file
//   - cache: manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports every pipeline stage and cache lookup. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/omacc/omacc/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Converted 12 fragments (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports pipeline stages and cache activity at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.PipelineHooks = logHooks{}
	_ observability.CacheHooks    = logHooks{}
)

func (h logHooks) OnParseComplete(_ context.Context, input string, count int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("parse failed", "input", input, "err", err)
		return
	}
	h.logger.Debug("parsed", "input", input, "count", count, "duration", d)
}

func (h logHooks) OnBuildComplete(_ context.Context, alignments, edges int, d time.Duration, err error) {
	h.logger.Debug("built successors", "alignments", alignments, "edges", edges, "duration", d, "err", err)
}

func (h logHooks) OnSolveStart(_ context.Context, alignments int) {
	h.logger.Debug("solving", "alignments", alignments)
}

func (h logHooks) OnSolveComplete(_ context.Context, sweeps int, converged bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("solve failed", "sweeps", sweeps, "err", err)
		return
	}
	h.logger.Debug("solved", "sweeps", sweeps, "converged", converged, "duration", d)
}

func (h logHooks) OnRenderComplete(_ context.Context, kind, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "kind", kind, "format", format, "err", err)
		return
	}
	h.logger.Debug("rendered", "kind", kind, "format", format, "bytes", size, "duration", d)
}

func (h logHooks) OnCacheHit(_ context.Context, kind string) {
	h.logger.Debug("cache hit", "kind", kind)
}

func (h logHooks) OnCacheMiss(_ context.Context, kind string) {
	h.logger.Debug("cache miss", "kind", kind)
}

func (h logHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.logger.Debug("cache set", "kind", kind, "bytes", size)
}
