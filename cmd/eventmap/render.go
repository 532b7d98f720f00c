package main

import (
	"github.com/spf13/cobra"
)

var (
	renderOut     string
	renderZoom    float64
	renderFilters filterFlags
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the map to an SVG file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := buildApp(cmd.Context(), nil)
		if err != nil {
			return err
		}
		if err := renderFilters.apply(a); err != nil {
			return err
		}
		if renderZoom > 1 {
			if _, err := a.ZoomTo(renderZoom); err != nil {
				return err
			}
		}

		out, err := createOutput(renderOut)
		if err != nil {
			return err
		}
		defer func() { _ = out.Close() }()

		if err := a.WriteSVG(out); err != nil {
			return err
		}
		env.logger.Info("Rendered map", "out", renderOut, "count", a.Snapshot().Count)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "map.svg", `output file, "-" for stdout`)
	renderCmd.Flags().Float64Var(&renderZoom, "zoom", 1, "zoom factor around the map centre (1-20)")
	renderCmd.Flags().IntSliceVar(&renderFilters.years, "year", nil, "show only these years (repeatable)")
	renderCmd.Flags().StringSliceVar(&renderFilters.countries, "country", nil, "show only these countries (repeatable)")
	rootCmd.AddCommand(renderCmd)
}
