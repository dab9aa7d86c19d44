package main

import (
	"fmt"

	"github.com/SprayArt/ardk-upm/agent"
	"github.com/SprayArt/ardk-upm/common"
	"github.com/SprayArt/ardk-upm/gameboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type eventDoc struct {
	Frame    int         `yaml:"frame"`
	Kind     string      `yaml:"kind"`
	Position common.Vec3 `yaml:"position,flow"`
}

type simulationDoc struct {
	Agent    string      `yaml:"agent"`
	Frames   int         `yaml:"frames"`
	Elapsed  float64     `yaml:"elapsed"`
	State    string      `yaml:"state"`
	Position common.Vec3 `yaml:"position,flow"`
	Events   []eventDoc  `yaml:"events"`
}

func (a *app) simulateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Walk the agent to a destination at a fixed tick rate",
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
			dt, _ := cmd.Flags().GetFloat64("dt")
			maxFrames, _ := cmd.Flags().GetInt("max-frames")
			if dt <= 0 {
				return fmt.Errorf("--dt must be positive")
			}

			doc, err := simulate(w.agent, to, dt, maxFrames)
			doc.Agent = w.spec.Name
			a.log.Info("simulation finished",
				zap.Int("frames", doc.Frames),
				zap.String("state", doc.State),
				zap.Stringer("position", doc.Position))

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if encErr := enc.Encode(doc); encErr != nil {
				return encErr
			}
			if encErr := enc.Close(); encErr != nil {
				return encErr
			}
			return err
		},
	}
	addPathFlags(cmd)
	cmd.Flags().Float64("dt", 1.0/60.0, "seconds per tick")
	cmd.Flags().Int("max-frames", 3600, "give up after this many ticks")
	return cmd
}

// simulate ticks ag until it is idle again or maxFrames pass.
func simulate(ag *agent.Agent, to common.Vec3, dt float64, maxFrames int) (simulationDoc, error) {
	sched := agent.NewScheduler(ag)
	var doc simulationDoc
	collect := func() {
		for _, e := range ag.Events().Drain() {
			doc.Events = append(doc.Events, eventDoc{Frame: sched.Frames(), Kind: string(e.Kind), Position: e.Position})
		}
	}

	ag.SetDestination(to)
	collect()

	var err error
	for ag.State() == agent.HasPath {
		if sched.Frames() >= maxFrames {
			err = fmt.Errorf("agent still moving after %d frames", maxFrames)
			break
		}
		sched.Update(dt)
		collect()
	}
	if err == nil && ag.Path().Status() == gameboard.PathInvalid {
		err = errNoPath
	}

	doc.Frames = sched.Frames()
	doc.Elapsed = sched.Elapsed()
	doc.State = ag.State().String()
	doc.Position = ag.Position()
	return doc, err
}
