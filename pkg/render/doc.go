// Package render groups the output renderers of omacc.
//
// The only renderer is [dot], which writes the winning path and the full
// candidate graph as Graphviz DOT and renders them to SVG or PNG in-process:
//
//	src := dot.Path(c, path, dot.PathOptions{})
//	svg, err := dot.Render(ctx, src, dot.FormatSVG)
//
// The tabular outputs (successor table, JSON result document) live in
// [github.com/omacc/omacc/pkg/io].
package render
