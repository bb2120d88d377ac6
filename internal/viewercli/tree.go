package viewercli

import (
	"fmt"

	"github.com/spf13/cobra"

	"cgviewer/internal/callgrind"
	"cgviewer/internal/query"
)

func runTree(cmd *cobra.Command, args []string) error {
	return renderTree(cmd, args, query.Callees)
}

func runCallers(cmd *cobra.Command, args []string) error {
	return renderTree(cmd, args, query.Callers)
}

func renderTree(cmd *cobra.Command, args []string, walk func(*callgrind.Entry, int, float64) query.TreeNode) error {
	model, err := loadModel(args[0])
	if err != nil {
		return err
	}
	symbol, _ := cmd.Flags().GetString("symbol")
	depth, _ := cmd.Flags().GetInt("depth")
	minPct, _ := cmd.Flags().GetFloat64("min-pct")

	entry, err := resolveSymbol(model, symbol)
	if err != nil {
		return err
	}

	tree := walk(entry, depth, minPct)
	fmt.Print(query.FormatTree(tree))
	return nil
}
