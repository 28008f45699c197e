// Package pkg provides the libraries behind omacc, which chains alignments of
// assembly fragments along a reference genome.
//
// # Overview
//
// A de novo assembly yields fragments (contigs) and a graph of which fragment
// may follow which. Aligning the fragments against a related reference gives
// many candidate placements. omacc picks the highest scoring chain of
// placements that follow each other on the reference and whose fragments are
// adjacent in the assembly graph.
//
// # Architecture
//
//	alignment report (BLAST tabular)     assembly graph (FASTG)
//	         ↓                                   ↓
//	    [alignment] records               [assembly] graph
//	                  ↘                 ↙
//	              [chain] successors, solve, path
//	                         ↓
//	        [render/dot] diagrams, [io] JSON and TSV
//
// [pipeline] runs these steps with caching ([cache]), settings from [config]
// and coded errors ([errors]). [observability] exposes hooks around each
// stage.
//
// # Quick Start
//
//	g, _ := assembly.ImportFASTG("assembly.fastg", 55)
//	records, _ := alignment.ImportReport("hits.tsv", alignment.ParseOptions{})
//
//	c := chain.New(alignment.Filter(records, alignment.DefaultValidThreshold))
//	c.BuildSuccessors(g, chain.DefaultBuildOptions())
//	sol, _ := c.Solve(ctx, chain.SolveOptions{})
//	path, _ := c.ExtractPath(sol)
//	fmt.Println(path.NodeIDs(), path.Value)
//
// [alignment]: github.com/omacc/omacc/pkg/alignment
// [assembly]: github.com/omacc/omacc/pkg/assembly
// [chain]: github.com/omacc/omacc/pkg/chain
// [render/dot]: github.com/omacc/omacc/pkg/render/dot
// [io]: github.com/omacc/omacc/pkg/io
// [pipeline]: github.com/omacc/omacc/pkg/pipeline
// [cache]: github.com/omacc/omacc/pkg/cache
// [config]: github.com/omacc/omacc/pkg/config
// [errors]: github.com/omacc/omacc/pkg/errors
// [observability]: github.com/omacc/omacc/pkg/observability
package pkg
