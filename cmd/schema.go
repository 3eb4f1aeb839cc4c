package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// schemaCmd groups the inventory schema commands.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage the inventory database schema",
}

var schemaMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the inventory tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup()
		if err != nil {
			return err
		}
		defer d.close()

		if err := d.store.Migrate(context.Background()); err != nil {
			return err
		}
		d.logger.Info("Inventory schema is up to date")
		return nil
	},
}

var schemaCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report tables and columns missing from the inventory database",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup()
		if err != nil {
			return err
		}
		defer d.close()

		problems, err := d.store.CheckSchema()
		if err != nil {
			return err
		}
		if len(problems) == 0 {
			d.logger.Info("Inventory schema is complete")
			return nil
		}

		for _, p := range problems {
			d.logger.Warn("Schema mismatch",
				zap.String("table", p.Table),
				zap.String("missing", strings.Join(p.Missing, ", ")),
			)
		}
		return fmt.Errorf("%d table(s) need migration, run 'schema migrate'", len(problems))
	},
}

func init() {
	schemaCmd.AddCommand(schemaMigrateCmd)
	schemaCmd.AddCommand(schemaCheckCmd)
	RootCmd.AddCommand(schemaCmd)
}
