package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/impact-cli/internal/geospatial"
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Print the citywide impact heatmap as GeoJSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, _ := cmd.Flags().GetString("out")

		return writeOutput(cmd.OutOrStdout(), out, func(w io.Writer) error {
			return eris.Wrap(json.NewEncoder(w).Encode(geospatial.Heatmap()), "heatmap: encode")
		})
	},
}

func init() {
	heatmapCmd.Flags().String("out", "", "write GeoJSON to this file instead of stdout")
	rootCmd.AddCommand(heatmapCmd)
}
