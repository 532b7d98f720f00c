package main

import (
	"github.com/spf13/cobra"

	"github.com/compmap/eventmap/internal/export"
)

var (
	exportOut     string
	exportFilters filterFlags
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the displayed events as GeoJSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := buildApp(cmd.Context(), nil)
		if err != nil {
			return err
		}
		if err := exportFilters.apply(a); err != nil {
			return err
		}

		out, err := createOutput(exportOut)
		if err != nil {
			return err
		}
		defer func() { _ = out.Close() }()

		active := a.Active()
		if err := export.Write(out, active); err != nil {
			return err
		}
		env.logger.Info("Exported events", "out", exportOut, "features", len(active))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "events.geojson", `output file, "-" for stdout`)
	exportCmd.Flags().IntSliceVar(&exportFilters.years, "year", nil, "export only these years (repeatable)")
	exportCmd.Flags().StringSliceVar(&exportFilters.countries, "country", nil, "export only these countries (repeatable)")
	rootCmd.AddCommand(exportCmd)
}
