package main

import (
	"fmt"

	"github.com/alchemorsel/recipebook/internal/infrastructure/persistence/sqlite"
	"github.com/spf13/cobra"
	gormLogger "gorm.io/gorm/logger"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog to a SQLite database",
		Long: `Export writes every recipe, in catalog order, to a SQLite database.
Existing rows are replaced so the database mirrors the flat file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			logLevel := gormLogger.Silent
			if a.cfg.App.Debug {
				logLevel = gormLogger.Info
			}

			db, err := sqlite.SetupDatabase(a.cfg.Export.SQLitePath, logLevel)
			if err != nil {
				return err
			}
			defer sqlite.Close(db)

			result, err := sqlite.NewExporter(db, a.logger).Export(cmd.Context(), svc.All())
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Exported %d recipes (%d ingredients) to %s\n",
				result.Recipes, result.Ingredients, a.cfg.Export.SQLitePath)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "SQLite database path")
	return cmd
}
