package cli

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	resultio "github.com/omacc/omacc/pkg/io"
)

// showCommand creates the show command for inspecting a saved result.
func (c *CLI) showCommand() *cobra.Command {
	var browse bool

	cmd := &cobra.Command{
		Use:   "show [result.json]",
		Short: "Show a result document written by 'chain --json'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := resultio.ImportJSON(args[0])
			if err != nil {
				return fmt.Errorf("load result %s: %w", args[0], err)
			}
			if browse {
				if _, err := tea.NewProgram(NewPathListModel(doc)).Run(); err != nil {
					return fmt.Errorf("browse: %w", err)
				}
				return nil
			}
			c.printDocument(doc)
			return nil
		},
	}

	cmd.Flags().BoolVar(&browse, "browse", false, "browse the path interactively")

	return cmd
}

// printDocument prints the summary and the path of doc.
func (c *CLI) printDocument(doc *resultio.Document) {
	if doc.RunID != "" {
		printKeyValue("run", doc.RunID)
	}
	printKeyValue("overlap", strconv.Itoa(doc.Overlap))
	printKeyValue("value", strconv.Itoa(doc.Value))
	printKeyValue("path", fmt.Sprintf("%d of %d alignments", len(doc.Path), doc.Alignments))
	printKeyValue("edges", strconv.Itoa(doc.Edges))
	printKeyValue("sweeps", strconv.Itoa(doc.Sweeps))
	printNewline()
	printPathTable(c.out(), doc)
	printExpectation(doc)
}
