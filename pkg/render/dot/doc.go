// Package dot renders chaining results as Graphviz diagrams.
//
// # Overview
//
// Two diagrams are produced as DOT source:
//
//   - [Path]: the winning chain only, one box per alignment, top to bottom
//   - [Candidates]: every alignment of the chain with all successor links,
//     labelled with its solved value; the chosen next hop is drawn green
//
// Node outlines are colored by mismatch severity (see
// [alignment.Severity.Color]). In [Path], the first alignment of each
// expected fragment is filled red so it stands out when checking a path
// against a known answer.
//
// # Rendering
//
// The DOT text can be written as is or rendered in-process:
//
//	src := dot.Path(c, path, dot.PathOptions{Expected: ids})
//	svg, err := dot.RenderSVG(ctx, src)
//	png, err := dot.RenderPNG(ctx, src)
//
// Rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz as
// WebAssembly, so no system installation is needed.
//
// [alignment.Severity.Color]: github.com/omacc/omacc/pkg/alignment.Severity.Color
package dot
