package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/omacc/omacc/pkg/config"
	apperrors "github.com/omacc/omacc/pkg/errors"
	"github.com/omacc/omacc/pkg/pipeline"
)

// chainFlags holds the command-line flags of the chain command.
type chainFlags struct {
	overlap        int
	output         string // path diagram, format from the extension
	candidates     string // candidate graph diagram
	successors     string // successor table
	jsonOut        string // result document
	expected       []string
	maxSweeps      int
	timeout        time.Duration
	safetyMargin   int
	errorMargin    int
	validThreshold float64
	refresh        bool
	noCache        bool
	browse         bool
}

// artifactTarget pairs a requested output with the file it is written to.
type artifactTarget struct {
	output pipeline.Output
	path   string
}

// chainCommand creates the chain command, the main entry point of omacc.
func (c *CLI) chainCommand() *cobra.Command {
	var flags chainFlags

	cmd := &cobra.Command{
		Use:   "chain [report] [assembly.fastg]",
		Short: "Find the best chain of alignments through the assembly graph",
		Long: `Find the best chain of alignments through the assembly graph.

The report is a BLAST tabular report (outfmt 6 or 7) of assembly fragments
against a reference. Valid forward alignments are linked when they follow each
other on the reference and their fragments are adjacent in the assembly graph.
The highest scoring chain is written as a DOT, SVG or PNG diagram depending on
the extension of --output.

Settings not given as flags come from the config file (see 'omacc config').
Results are cached locally for faster subsequent runs.`,
		Example: `  omacc chain hits.tsv assembly.fastg -k 55
  omacc chain hits.tsv assembly.fastg -k 55 -o path.svg --json path.json
  omacc chain hits.tsv assembly.fastg -k 55 --expect 12,7r --browse`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := chainOptions(cfg, flags, cmd.Flags())
			opts.ReportPath, opts.GraphPath = args[0], args[1]

			targets := chainTargets(flags, args[0])
			for _, t := range targets {
				opts.Outputs = append(opts.Outputs, t.output)
			}
			return c.runChain(cmd.Context(), opts, targets, flags.noCache || !cfg.Cache.Enabled, flags.browse)
		},
	}

	cmd.Flags().IntVarP(&flags.overlap, "overlap", "k", 0, "k-mer overlap of the assembly (config: assembly.overlap)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "path diagram: .dot (default), .svg or .png")
	cmd.Flags().StringVar(&flags.candidates, "candidates", "", "also write the candidate graph diagram (.dot, .svg or .png)")
	cmd.Flags().StringVar(&flags.successors, "successors", "", "also write the successor table (TSV)")
	cmd.Flags().StringVar(&flags.jsonOut, "json", "", "also write the result document (JSON)")
	cmd.Flags().StringSliceVar(&flags.expected, "expect", nil, "fragment IDs expected on the path (comma-separated)")
	cmd.Flags().IntVar(&flags.maxSweeps, "max-sweeps", 0, "sweep limit of the solver, 0 for automatic")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "time limit of the solver")
	cmd.Flags().IntVar(&flags.safetyMargin, "safety-margin", 0, "reference bases beyond the overlap a successor may start at")
	cmd.Flags().IntVar(&flags.errorMargin, "error-margin", 0, "tolerated slack of the adjacency test")
	cmd.Flags().Float64Var(&flags.validThreshold, "threshold", 0, "minimum identity score of a valid alignment")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.browse, "browse", false, "browse the path interactively")

	return cmd
}

// chainOptions merges the config with the flags set on the command line.
func chainOptions(cfg config.Config, flags chainFlags, set *pflag.FlagSet) pipeline.Options {
	opts := pipeline.Options{
		Overlap:        cfg.Assembly.Overlap,
		ValidThreshold: cfg.Alignment.ValidThreshold,
		ErrorMargin:    cfg.Adjacency.ErrorMargin,
		SafetyMargin:   cfg.Candidates.SafetyMargin,
		MaxSweeps:      cfg.Solver.MaxSweeps,
		Timeout:        cfg.Solver.Timeout.Std(),
		CacheTTL:       cfg.Cache.TTL.Std(),
		Expected:       flags.expected,
		Refresh:        flags.refresh,
	}
	if set.Changed("overlap") {
		opts.Overlap = flags.overlap
	}
	if set.Changed("threshold") {
		opts.ValidThreshold = flags.validThreshold
	}
	if set.Changed("error-margin") {
		opts.ErrorMargin = flags.errorMargin
	}
	if set.Changed("safety-margin") {
		opts.SafetyMargin = flags.safetyMargin
	}
	if set.Changed("max-sweeps") {
		opts.MaxSweeps = flags.maxSweeps
	}
	if set.Changed("timeout") {
		opts.Timeout = flags.timeout
	}
	return opts
}

// chainTargets lists the artifacts to write. The path diagram is always
// written, next to the report unless --output is given.
func chainTargets(flags chainFlags, report string) []artifactTarget {
	path := flags.output
	if path == "" {
		path = stem(report) + ".path.dot"
	}
	targets := []artifactTarget{{
		output: pipeline.Output{Kind: pipeline.KindPath, Format: diagramFormat(path)},
		path:   path,
	}}
	if flags.candidates != "" {
		targets = append(targets, artifactTarget{
			output: pipeline.Output{Kind: pipeline.KindCandidates, Format: diagramFormat(flags.candidates)},
			path:   flags.candidates,
		})
	}
	if flags.successors != "" {
		targets = append(targets, artifactTarget{
			output: pipeline.Output{Kind: pipeline.KindSuccessors, Format: pipeline.FormatTSV},
			path:   flags.successors,
		})
	}
	if flags.jsonOut != "" {
		targets = append(targets, artifactTarget{
			output: pipeline.Output{Kind: pipeline.KindDocument, Format: pipeline.FormatJSON},
			path:   flags.jsonOut,
		})
	}
	return targets
}

// diagramFormat maps a file name to a diagram format, DOT when the name has
// no extension.
func diagramFormat(path string) string {
	if f := formatOf(path); f != "" {
		return f
	}
	return "dot"
}

// runChain executes the pipeline and writes its artifacts.
func (c *CLI) runChain(ctx context.Context, opts pipeline.Options, targets []artifactTarget, noCache, browse bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Chaining alignments...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Chaining failed")
		if errors.Is(err, context.Canceled) {
			return err
		}
		return errors.New(apperrors.UserMessage(err))
	}
	spinner.Stop()

	for _, t := range targets {
		if err := os.WriteFile(t.path, result.Artifacts[t.output], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", t.path, err)
		}
	}

	doc := result.Document
	out := c.out()
	printSuccess("Chained %d of %d alignments (value %d)", len(doc.Path), doc.Alignments, doc.Value)
	for _, t := range targets {
		printFile(t.path)
	}
	printStats(doc.Alignments, doc.Edges, doc.Sweeps, result.CacheInfo.Hit)
	printNewline()
	printPathTable(out, doc)
	printExpectation(doc)

	if browse {
		if _, err := tea.NewProgram(NewPathListModel(doc)).Run(); err != nil {
			return fmt.Errorf("browse: %w", err)
		}
		return nil
	}

	printNewline()
	printNextStep("Inspect later", "omacc show "+jsonHint(targets))
	return nil
}

// jsonHint returns the document file among targets, or a placeholder.
func jsonHint(targets []artifactTarget) string {
	for _, t := range targets {
		if t.output.Kind == pipeline.KindDocument {
			return t.path
		}
	}
	return "<result.json> (write one with --json)"
}
