package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var errNoPath = errors.New("no path to destination")

func (a *app) planCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a path from the agent to a destination and print it as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.loadWorld(cmd)
			if err != nil {
				return err
			}
			to, err := parseVec(flagString(cmd, "to"))
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}

			start, _ := w.manager.FindNearestFreePosition(w.agent.Position())
			ok, path := w.manager.CalculatePath(start, to, w.agent.Configuration())
			a.log.Debug("path planned",
				zap.Stringer("destination", to),
				zap.Stringer("status", path.Status()),
				zap.Int("waypoints", path.Len()))

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(path); err != nil {
				return err
			}
			if err := enc.Close(); err != nil {
				return err
			}
			if !ok {
				return errNoPath
			}
			return nil
		},
	}
	addPathFlags(cmd)
	return cmd
}
