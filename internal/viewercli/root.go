// Package viewercli implements the cgviewer command-line tool: a batch,
// non-interactive dump of the same query-layer views cmd/server exposes
// as MCP tools, for use in scripts and CI.
package viewercli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cgviewer",
		Short: "Inspect Callgrind profiler output from the command line",
		Long: `cgviewer parses a Callgrind output file into a call-graph model and
renders hotspot tables, callee/caller trees, and summary statistics to
stdout - the same views the cgviewer MCP server exposes as tools,
without any interactive UI.`,
	}

	hotCmd := &cobra.Command{
		Use:   "hot <file>",
		Short: "List the hottest entries by inclusive cost of the first event",
		Args:  cobra.ExactArgs(1),
		RunE:  runHot,
	}
	hotCmd.Flags().Int("top", 10, "Number of entries to show")

	treeCmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Render the callee tree rooted at a symbol",
		Args:  cobra.ExactArgs(1),
		RunE:  runTree,
	}
	treeCmd.Flags().String("symbol", "", "Substring of the symbol to root the tree at")
	treeCmd.Flags().Int("depth", 4, "Maximum tree depth")
	treeCmd.Flags().Float64("min-pct", 1.0, "Prune branches below this percentage")
	_ = treeCmd.MarkFlagRequired("symbol")

	callersCmd := &cobra.Command{
		Use:   "callers <file>",
		Short: "Render the caller tree of a symbol",
		Args:  cobra.ExactArgs(1),
		RunE:  runCallers,
	}
	callersCmd.Flags().String("symbol", "", "Substring of the symbol to root the tree at")
	callersCmd.Flags().Int("depth", 4, "Maximum tree depth")
	callersCmd.Flags().Float64("min-pct", 1.0, "Prune branches below this percentage")
	_ = callersCmd.MarkFlagRequired("symbol")

	statsCmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Show summary statistics for a profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runStats,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cgviewer %s\n", version)
		},
	}

	rootCmd.AddCommand(hotCmd, treeCmd, callersCmd, statsCmd, versionCmd)
	return rootCmd
}
