package viewercli

import (
	"fmt"

	"github.com/spf13/cobra"

	"cgviewer/internal/query"
)

func runStats(cmd *cobra.Command, args []string) error {
	model, err := loadModel(args[0])
	if err != nil {
		return err
	}
	fmt.Print(query.FormatStats(query.Stats(model)))
	return nil
}
