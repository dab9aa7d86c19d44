package gameboard

import (
	"fmt"
	"strings"
)

// PathFindingBehaviour selects how transitions between surfaces are treated.
type PathFindingBehaviour int

const (
	// SingleSurface never jumps. Destinations on other surfaces yield a
	// partial path to the nearest reachable tile.
	SingleSurface PathFindingBehaviour = iota
	// InterSurfacePreferPerformance picks the chain of surfaces with the
	// fewest jumps first, then searches only those surfaces.
	InterSurfacePreferPerformance
	// InterSurfacePreferResults searches every surface for the cheapest path.
	InterSurfacePreferResults
)

var behaviourNames = map[PathFindingBehaviour]string{
	SingleSurface:                 "single_surface",
	InterSurfacePreferPerformance: "inter_surface_prefer_performance",
	InterSurfacePreferResults:     "inter_surface_prefer_results",
}

func (b PathFindingBehaviour) String() string {
	if s, ok := behaviourNames[b]; ok {
		return s
	}
	return fmt.Sprintf("behaviour(%d)", int(b))
}

// ParseBehaviour maps a prefab name onto a behaviour. An empty name selects
// InterSurfacePreferResults.
func ParseBehaviour(name string) (PathFindingBehaviour, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return InterSurfacePreferResults, nil
	}
	for b, s := range behaviourNames {
		if s == name {
			return b, nil
		}
	}
	return 0, fmt.Errorf("gameboard: unknown path finding behaviour %q", name)
}

// JumpCostFunc scores a jump edge whose tile centres are distance apart.
type JumpCostFunc func(distance, penalty float64) float64

// DefaultJumpCost adds the penalty on top of the geometric distance.
func DefaultJumpCost(distance, penalty float64) float64 {
	return distance + penalty
}

// AgentConfiguration is read-only input to every path query.
type AgentConfiguration struct {
	JumpPenalty  float64
	JumpDistance float64
	Behaviour    PathFindingBehaviour
	// JumpCost overrides DefaultJumpCost when set.
	JumpCost JumpCostFunc
}

func NewAgentConfiguration(jumpPenalty, jumpDistance float64, behaviour PathFindingBehaviour) AgentConfiguration {
	return AgentConfiguration{
		JumpPenalty:  jumpPenalty,
		JumpDistance: jumpDistance,
		Behaviour:    behaviour,
	}
}

func (c AgentConfiguration) jumpCost(distance float64) float64 {
	if c.JumpCost != nil {
		return c.JumpCost(distance, c.JumpPenalty)
	}
	return DefaultJumpCost(distance, c.JumpPenalty)
}

func (c AgentConfiguration) allowsJumps() bool {
	return c.Behaviour != SingleSurface && c.JumpDistance >= 0
}
