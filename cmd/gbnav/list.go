package main

import (
	"fmt"

	"github.com/SprayArt/ardk-upm/levels"
	"github.com/SprayArt/ardk-upm/prefabs"
	"github.com/spf13/cobra"
)

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the embedded levels and agent prefabs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "levels:")
			for _, name := range levels.List() {
				lvl, err := levels.LoadLevelFromFS(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  %s\t%s\ttile %.2f\n", name, lvl.Name, lvl.Settings().TileSize)
			}
			fmt.Fprintln(out, "agents:")
			for _, name := range prefabs.List() {
				spec, err := prefabs.LoadAgentSpec(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  %s\t%s\n", name, spec.Name)
			}
			return nil
		},
	}
}
