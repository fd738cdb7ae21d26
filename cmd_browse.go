package main

import (
	"github.com/brubcam/GEOG-464-Lab-8/display"
	"github.com/brubcam/GEOG-464-Lab-8/ui"
	"github.com/spf13/cobra"
)

func newBrowseCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse stations and their latest observations in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCatalog(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			selector := display.NewSelector(cfg.newClimateClient(), cfg.LookupOptions())
			return ui.RunBrowser(cmd.Context(), c, selector)
		},
	}
}
