package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/omacc/omacc/pkg/assembly"
)

// lastgraphCommand creates the lastgraph command converting a FASTG assembly
// graph to velvet's LastGraph layout.
func (c *CLI) lastgraphCommand() *cobra.Command {
	var overlap int

	cmd := &cobra.Command{
		Use:   "lastgraph [assembly.fastg] [output]",
		Short: "Convert a FASTG assembly graph to velvet LastGraph",
		Long: `Convert a FASTG assembly graph to velvet LastGraph.

Both strands of every fragment must be present in the input. The output is
written to stdout when no output file is given.`,
		Example: `  omacc lastgraph -k 55 assembly.fastg LastGraph`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("overlap") {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				overlap = cfg.Assembly.Overlap
			}
			if overlap <= 0 {
				return fmt.Errorf("overlap must be positive (set -k or assembly.overlap)")
			}
			output := ""
			if len(args) == 2 {
				output = args[1]
			}
			return runLastGraph(cmd.Context(), args[0], output, overlap)
		},
	}

	cmd.Flags().IntVarP(&overlap, "overlap", "k", 0, "k-mer overlap of the assembly (config: assembly.overlap)")

	return cmd
}

// runLastGraph reads input and writes the converted graph to output, or
// stdout if output is empty.
func runLastGraph(ctx context.Context, input, output string, overlap int) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	g, err := assembly.ImportFASTG(input, overlap)
	if err != nil {
		return fmt.Errorf("load assembly graph %s: %w", input, err)
	}
	logger.Debug("loaded assembly graph", "fragments", g.Len(), "overlap", overlap)

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	if err := assembly.WriteLastGraph(out, g); err != nil {
		out.Close()
		return fmt.Errorf("write LastGraph: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	if output != "" {
		prog.done(fmt.Sprintf("Converted %d fragments to %s", g.Len(), output))
	}
	return nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
