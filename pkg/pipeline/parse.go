package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/omacc/omacc/pkg/alignment"
	"github.com/omacc/omacc/pkg/assembly"
	apperrors "github.com/omacc/omacc/pkg/errors"
	"github.com/omacc/omacc/pkg/observability"
)

// Inputs holds the parsed report and assembly graph.
type Inputs struct {
	Records []*alignment.Record
	Graph   *assembly.Graph
}

// Parse reads the report and the assembly graph named by opts.
func Parse(ctx context.Context, opts Options) (*Inputs, error) {
	hooks := observability.Pipeline()

	start := time.Now()
	g, err := assembly.ImportFASTG(opts.GraphPath, opts.Overlap)
	hooks.OnParseComplete(ctx, "graph", graphLen(g), time.Since(start), err)
	if err != nil {
		return nil, inputError(err, apperrors.ErrCodeMalformedGraph, "read assembly graph")
	}

	start = time.Now()
	records, err := alignment.ImportReport(opts.ReportPath, alignment.ParseOptions{QueryLengths: opts.QueryLengths})
	hooks.OnParseComplete(ctx, "report", len(records), time.Since(start), err)
	if err != nil {
		return nil, inputError(err, apperrors.ErrCodeMalformedRecord, "read alignment report")
	}

	return &Inputs{Records: records, Graph: g}, nil
}

func graphLen(g *assembly.Graph) int {
	if g == nil {
		return 0
	}
	return g.Len()
}

// inputError attaches FILE_NOT_FOUND to missing files and code otherwise.
func inputError(err error, code apperrors.Code, msg string) error {
	if errors.Is(err, fs.ErrNotExist) {
		code = apperrors.ErrCodeFileNotFound
	}
	return apperrors.Wrap(code, err, "%s", msg)
}
