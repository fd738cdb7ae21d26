package main

import (
	"fmt"
	"io"

	"github.com/brubcam/GEOG-464-Lab-8/catalog"
	"github.com/brubcam/GEOG-464-Lab-8/climate"
	"github.com/brubcam/GEOG-464-Lab-8/style"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newStationsCmd(cfg *Config) *cobra.Command {
	var (
		province string
		asJSON   bool
		geoJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "stations",
		Short: "List the stations in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCatalog(cmd.Context(), *cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case geoJSON:
				return writeJSON(out, c.GeoJSON())
			case asJSON:
				return writeJSON(out, c.FilterProvince(province))
			default:
				printStations(out, c.FilterProvince(province), c.Skipped)
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&province, "province", "", "only list stations with this province code")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print stations as JSON")
	cmd.Flags().BoolVar(&geoJSON, "geojson", false, "print the styled GeoJSON export")
	return cmd
}

func printStations(w io.Writer, stations []catalog.Station, skipped int) {
	for _, st := range stations {
		fmt.Fprintf(w, "%s %s  %-40s %-3s %s\n",
			style.Marker(st.ElevationClass()),
			style.ID.Render(fmt.Sprintf("%-8s", st.ID)),
			st.Name,
			st.ProvinceCode,
			style.Muted.Render(climate.FormatOptional(st.ElevationMeters, "m")))
	}

	summary := fmt.Sprintf("%d stations", len(stations))
	if skipped > 0 {
		summary += fmt.Sprintf(", %d features skipped", skipped)
	}
	fmt.Fprintln(w, style.Muted.Render(summary))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
