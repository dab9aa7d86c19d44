package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/SprayArt/ardk-upm/agent"
	"github.com/SprayArt/ardk-upm/common"
	"github.com/SprayArt/ardk-upm/gameboard"
	"github.com/SprayArt/ardk-upm/levels"
	"github.com/SprayArt/ardk-upm/prefabs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// world is one loaded level with a single agent standing on it.
type world struct {
	level   *levels.Level
	manager *gameboard.Manager
	spec    prefabs.AgentSpec
	agent   *agent.Agent
}

func (a *app) loadWorld(cmd *cobra.Command) (*world, error) {
	lvl, err := levels.Load(a.v.GetString("level"))
	if err != nil {
		return nil, err
	}
	board, ground, err := lvl.Build(gameboard.WithLogger(a.log))
	if err != nil {
		return nil, err
	}

	agentFile := a.v.GetString("agent")
	spec, err := prefabs.LoadAgentSpec(agentFile)
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(cmd, &spec); err != nil {
		return nil, err
	}
	opts, err := spec.Options(a.log)
	if err != nil {
		return nil, err
	}

	start := spec.Position
	for _, s := range lvl.Spawns {
		if filepath.Base(s.Agent) != filepath.Base(agentFile) {
			continue
		}
		if p, ok := s.SpawnPosition(); ok {
			start = p
		}
		break
	}
	if raw := flagString(cmd, "from"); raw != "" {
		if start, err = parseVec(raw); err != nil {
			return nil, fmt.Errorf("--from: %w", err)
		}
	}

	manager := gameboard.NewManager(board, a.log)
	opts = append(opts, agent.WithProbe(ground), agent.WithPosition(start))
	ag, err := agent.New(manager, opts...)
	if err != nil {
		return nil, err
	}
	a.log.Info("world loaded",
		zap.String("level", lvl.Name),
		zap.String("agent", spec.Name),
		zap.Int("surfaces", board.Surfaces()),
		zap.Float64("area", board.Area()))
	return &world{level: lvl, manager: manager, spec: spec, agent: ag}, nil
}

// applyOverrides lets path finding flags replace the prefab's values.
func applyOverrides(cmd *cobra.Command, spec *prefabs.AgentSpec) error {
	flags := cmd.Flags()
	if flags.Lookup("behaviour") == nil {
		return nil
	}
	if flags.Changed("behaviour") {
		spec.Behaviour, _ = flags.GetString("behaviour")
	}
	if flags.Changed("jump-distance") {
		d, err := flags.GetFloat64("jump-distance")
		if err != nil {
			return err
		}
		spec.JumpDistance = &d
	}
	if flags.Changed("jump-penalty") {
		p, err := flags.GetFloat64("jump-penalty")
		if err != nil {
			return err
		}
		spec.JumpPenalty = &p
	}
	if flags.Changed("script") {
		spec.Script, _ = flags.GetString("script")
	}
	return nil
}

func addPathFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("from", "", "start position x,y,z (default: the agent's spawn)")
	f.String("to", "", "destination x,y,z")
	f.String("behaviour", "", "path finding behaviour override")
	f.Float64("jump-distance", agent.DefaultJumpDistance, "jump distance override")
	f.Float64("jump-penalty", agent.DefaultJumpPenalty, "jump penalty override")
	f.String("script", "", "jump cost script override")
	_ = cmd.MarkFlagRequired("to")
}

func flagString(cmd *cobra.Command, name string) string {
	s, _ := cmd.Flags().GetString(name)
	return s
}

func parseVec(s string) (common.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return common.Zero, fmt.Errorf("want x,y,z, got %q", s)
	}
	var xyz [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return common.Zero, fmt.Errorf("parse %q: %w", s, err)
		}
		xyz[i] = v
	}
	return common.V3(xyz[0], xyz[1], xyz[2]), nil
}
