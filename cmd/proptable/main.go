// Command proptable materializes property triples from a CSV file into a
// table and prints it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "proptable",
		Short: "Render build property tables",
		Long: `proptable turns sparse (row, column, value) triples into a sorted,
rectangular table: one row per distinct row name, one column per distinct
column name, empty cells where a row has no value for a column.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRenderCmd())
	return rootCmd
}
