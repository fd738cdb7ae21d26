package main

import (
	"context"
	"fmt"
	"io"

	"github.com/brubcam/GEOG-464-Lab-8/catalog"
	"github.com/brubcam/GEOG-464-Lab-8/display"
	"github.com/brubcam/GEOG-464-Lab-8/style"
	"github.com/spf13/cobra"
)

func newLookupCmd(cfg *Config) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "lookup <climate-id>",
		Short: "Show the latest climate observation for a station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := lookupStation(cmd.Context(), display.NewSelector(cfg.newClimateClient(), cfg.LookupOptions()), args[0])

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, state); err != nil {
					return err
				}
			} else {
				printState(out, state)
			}

			if state.Phase == display.PhaseFailed {
				return fmt.Errorf("lookup failed: %s", state.ErrorKind)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

// lookupStation runs one lookup on a throwaway surface, the same path a
// browser selection takes.
func lookupStation(ctx context.Context, selector *display.Selector, id string) display.State {
	surface := display.NewSurface("cli")
	defer surface.Close()

	state, _ := selector.Select(ctx, surface, catalog.Station{ID: id, Name: id})
	return state
}

func printState(w io.Writer, state display.State) {
	fmt.Fprintln(w, style.Section.Render(state.StationName))

	switch state.Phase {
	case display.PhaseFound:
		for _, line := range state.Lines() {
			fmt.Fprintln(w, "  "+line)
		}
	case display.PhaseNotFound:
		fmt.Fprintln(w, "  "+style.Warning.Render(state.Message))
	default:
		fmt.Fprintln(w, "  "+style.Error.Render(state.Message))
	}
}
