package main

import (
	"encoding/json"

	"github.com/alchemorsel/recipebook/internal/infrastructure/cli"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var (
		sorted     bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every recipe in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			recipes := svc.All()
			if sorted {
				recipes = svc.SortByCalories()
			}

			if jsonOutput {
				encoder := json.NewEncoder(a.out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(recipes)
			}

			render := cli.NewRenderer(a.out, !a.noColor)
			if len(recipes) == 0 {
				render.Notice("No recipes in the catalog.")
				return nil
			}
			render.Table(recipes)
			return nil
		},
	}

	cmd.Flags().BoolVar(&sorted, "sorted", false, "order by calories, lowest first")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output JSON")
	return cmd
}
