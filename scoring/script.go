// Package scoring runs tengo scripts that price jumps between surfaces.
package scoring

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/SprayArt/ardk-upm/gameboard"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"
)

// A script defines `jump_cost := func(distance, penalty) { ... }` and may set
// a `behaviour` global naming its preferred path finding behaviour.
const jumpCostDispatch = `
__cost = jump_cost(__distance, __penalty)
`

// Script is a compiled jump cost script. It is safe for concurrent use.
type Script struct {
	name      string
	log       *zap.Logger
	mu        sync.Mutex
	compiled  *tengo.Compiled
	behaviour string
}

type Option func(*Script)

func WithLogger(log *zap.Logger) Option {
	return func(s *Script) {
		if log != nil {
			s.log = log
		}
	}
}

// Compile builds the script and runs it once to check it returns a usable
// cost.
func Compile(name string, src []byte, opts ...Option) (*Script, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + jumpCostDispatch))
	for _, global := range []string{"__distance", "__penalty", "__cost"} {
		if err := script.Add(global, 0.0); err != nil {
			return nil, fmt.Errorf("scoring: compile %s: %w", name, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("scoring: compile %s: %w", name, err)
	}

	s := &Script{name: name, log: zap.NewNop(), compiled: compiled}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := s.Cost(1, 0); err != nil {
		return nil, err
	}
	if compiled.IsDefined("behaviour") {
		s.behaviour = strings.TrimSpace(compiled.Get("behaviour").String())
	}
	return s, nil
}

func (s *Script) Name() string { return s.name }

// Behaviour is the script's `behaviour` global, if it set one.
func (s *Script) Behaviour() (string, bool) {
	return s.behaviour, s.behaviour != ""
}

// Cost evaluates jump_cost for one jump edge.
func (s *Script) Cost(distance, penalty float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.compiled.Set("__distance", distance); err != nil {
		return 0, err
	}
	if err := s.compiled.Set("__penalty", penalty); err != nil {
		return 0, err
	}
	if err := s.compiled.Run(); err != nil {
		return 0, fmt.Errorf("scoring: run %s: %w", s.name, err)
	}

	v := s.compiled.Get("__cost")
	switch v.ValueType() {
	case "int", "float":
	default:
		return 0, fmt.Errorf("scoring: %s: jump_cost returned %s, want a number", s.name, v.ValueType())
	}
	cost := v.Float()
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost < 0 {
		return 0, fmt.Errorf("scoring: %s: jump_cost returned %v", s.name, cost)
	}
	return cost, nil
}

// JumpCost adapts the script to the planner. A failing evaluation falls back
// to gameboard.DefaultJumpCost.
func (s *Script) JumpCost() gameboard.JumpCostFunc {
	return func(distance, penalty float64) float64 {
		cost, err := s.Cost(distance, penalty)
		if err != nil {
			s.log.Warn("jump cost script failed", zap.String("script", s.name), zap.Error(err))
			return gameboard.DefaultJumpCost(distance, penalty)
		}
		return cost
	}
}
