package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/SprayArt/ardk-upm/agent"
	"github.com/SprayArt/ardk-upm/common"
	"github.com/SprayArt/ardk-upm/gameboard"
	"github.com/SprayArt/ardk-upm/scoring"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// AgentSpec describes a navigation agent. Unset numbers fall back to the
// agent package defaults.
type AgentSpec struct {
	Name         string      `yaml:"name"`
	WalkingSpeed float64     `yaml:"walking_speed"`
	UnitSpeed    bool        `yaml:"unit_speed"`
	JumpDistance *float64    `yaml:"jump_distance"`
	JumpPenalty  *float64    `yaml:"jump_penalty"`
	Behaviour    string      `yaml:"behaviour"`
	Script       string      `yaml:"script"`
	Position     common.Vec3 `yaml:"position"`
	Color        *YAMLColor  `yaml:"color"`
}

func LoadAgentSpec(filename string) (AgentSpec, error) {
	return LoadSpec[AgentSpec](filename)
}

// Configuration builds the path query settings, compiling the jump cost
// script when one is named. A script's own behaviour is used only when the
// spec leaves behaviour empty.
func (s AgentSpec) Configuration(log *zap.Logger) (gameboard.AgentConfiguration, error) {
	distance := agent.DefaultJumpDistance
	if s.JumpDistance != nil {
		distance = *s.JumpDistance
	}
	penalty := agent.DefaultJumpPenalty
	if s.JumpPenalty != nil {
		penalty = *s.JumpPenalty
	}

	behaviourName := s.Behaviour
	var script *scoring.Script
	if strings.TrimSpace(s.Script) != "" {
		src, err := LoadScript(s.Script)
		if err != nil {
			return gameboard.AgentConfiguration{}, fmt.Errorf("prefabs: load script %s: %w", s.Script, err)
		}
		script, err = scoring.Compile(s.Script, src, scoring.WithLogger(log))
		if err != nil {
			return gameboard.AgentConfiguration{}, err
		}
		if name, ok := script.Behaviour(); ok && strings.TrimSpace(behaviourName) == "" {
			behaviourName = name
		}
	}

	behaviour, err := gameboard.ParseBehaviour(behaviourName)
	if err != nil {
		return gameboard.AgentConfiguration{}, fmt.Errorf("prefabs: agent %s: %w", s.Name, err)
	}

	cfg := gameboard.NewAgentConfiguration(penalty, distance, behaviour)
	if script != nil {
		cfg.JumpCost = script.JumpCost()
	}
	return cfg, nil
}

// Options turns the spec into agent construction options.
func (s AgentSpec) Options(log *zap.Logger) ([]agent.Option, error) {
	cfg, err := s.Configuration(log)
	if err != nil {
		return nil, err
	}
	opts := []agent.Option{
		agent.WithConfiguration(cfg),
		agent.WithPosition(s.Position),
		agent.WithLogger(log),
	}
	if s.WalkingSpeed > 0 {
		opts = append(opts, agent.WithWalkingSpeed(s.WalkingSpeed))
	}
	if s.UnitSpeed {
		opts = append(opts, agent.WithUnitSpeed())
	}
	return opts, nil
}

// RGBA is the agent's display colour, white when unset.
func (s AgentSpec) RGBA() color.Color {
	if s.Color == nil || s.Color.Color == nil {
		return color.White
	}
	return s.Color.Color
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	var rgba [4]uint8
	rgba[3] = 255
	for i := 0; i < len(s)/2; i++ {
		v, err := parse(i * 2)
		if err != nil {
			return fmt.Errorf("invalid color format: %s", value.Value)
		}
		rgba[i] = v
	}

	c.Color = color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
	return nil
}
