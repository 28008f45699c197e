package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/omacc/omacc/pkg/chain"
	resultio "github.com/omacc/omacc/pkg/io"
	"github.com/omacc/omacc/pkg/observability"
	"github.com/omacc/omacc/pkg/render/dot"
)

// Solved is everything an artifact can be rendered from.
type Solved struct {
	Chain    *chain.Chain
	Solution *chain.Solution
	Path     *chain.Path
	Document *resultio.Document
	Expected []string
}

// Render produces one artifact.
func Render(ctx context.Context, s *Solved, out Output) ([]byte, error) {
	start := time.Now()
	data, err := render(ctx, s, out)
	observability.Pipeline().OnRenderComplete(ctx, out.Kind, out.Format, len(data), time.Since(start), err)
	return data, err
}

func render(ctx context.Context, s *Solved, out Output) ([]byte, error) {
	switch out.Kind {
	case KindPath:
		src := dot.Path(s.Chain, s.Path, dot.PathOptions{Expected: s.Expected})
		return dot.Render(ctx, src, dot.Format(out.Format))
	case KindCandidates:
		return dot.Render(ctx, dot.Candidates(s.Chain, s.Solution), dot.Format(out.Format))
	case KindSuccessors:
		var buf bytes.Buffer
		err := resultio.WriteSuccessors(s.Chain, &buf)
		return buf.Bytes(), err
	case KindDocument:
		var buf bytes.Buffer
		err := resultio.WriteJSON(s.Document, &buf)
		return buf.Bytes(), err
	}
	return nil, fmt.Errorf("unknown output kind %q", out.Kind)
}
