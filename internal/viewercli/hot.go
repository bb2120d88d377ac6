package viewercli

import (
	"fmt"

	"github.com/spf13/cobra"

	"cgviewer/internal/query"
)

func runHot(cmd *cobra.Command, args []string) error {
	model, err := loadModel(args[0])
	if err != nil {
		return err
	}
	topN, _ := cmd.Flags().GetInt("top")

	fmt.Print(query.FormatHot(model.Entries(), topN))
	return nil
}
