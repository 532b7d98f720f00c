package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/compmap/eventmap/internal/config"
	"github.com/compmap/eventmap/internal/database"
	"github.com/compmap/eventmap/internal/source"
)

var (
	importKind string
	importPath string
)

var importCmd = &cobra.Command{
	Use:   "import <events.csv>",
	Short: "Copy events from a CSV file into the events table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open events file: %w", err)
		}
		defer func() { _ = f.Close() }()

		rows, err := source.ReadCSV(cmd.Context(), f)
		if err != nil {
			return err
		}

		db := database.NewManager(env.zlog)
		if err := db.Connect(importKind, importPath, config.GetDBConfig()); err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := db.Setup(); err != nil {
			return err
		}
		if err := source.Import(cmd.Context(), db, rows); err != nil {
			return err
		}

		env.logger.Info("Imported events", "rows", len(rows), "kind", importKind)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importKind, "db", database.KindSQLite, "database kind: sqlite or postgres")
	importCmd.Flags().StringVar(&importPath, "path", "events.db", "SQLite database file")
	rootCmd.AddCommand(importCmd)
}
