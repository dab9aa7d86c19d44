package main

import (
	"fmt"
	"image/color"

	"github.com/SprayArt/ardk-upm/agent"
	"github.com/SprayArt/ardk-upm/common"
	"github.com/SprayArt/ardk-upm/gameboard"
	"github.com/SprayArt/ardk-upm/levels"
	"github.com/SprayArt/ardk-upm/physics"
	"github.com/SprayArt/ardk-upm/prefabs"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	tickSeconds = 1.0 / 60.0
)

var surfacePalette = []color.Color{
	colornames.Seagreen,
	colornames.Steelblue,
	colornames.Goldenrod,
	colornames.Orchid,
	colornames.Coral,
	colornames.Slategray,
}

// viewAgent is an agent together with the prefab it was built from.
type viewAgent struct {
	*agent.Agent
	file   string
	spec   prefabs.AgentSpec
	resume agent.State
}

type Game struct {
	frames int
	log    *zap.Logger

	level   *levels.Level
	manager *gameboard.Manager
	ground  *physics.Ground
	cam     camera

	agents   []*viewAgent
	selected int
	sched    *agent.Scheduler
	events   *agent.EventQueue

	paused  bool
	pauseUI *ebitenui.UI

	watcher   *prefabs.Watcher
	clipboard bool
	status    string
}

func NewGame(levelName string, log *zap.Logger) (*Game, error) {
	lvl, err := levels.Load(levelName)
	if err != nil {
		return nil, err
	}
	board, ground, err := lvl.Build(gameboard.WithLogger(log))
	if err != nil {
		return nil, err
	}

	g := &Game{
		log:     log,
		level:   lvl,
		manager: gameboard.NewManager(board, log),
		ground:  ground,
		cam:     fitCamera(board, baseWidth, baseHeight),
		sched:   agent.NewScheduler(),
		events:  &agent.EventQueue{},
	}
	for _, s := range lvl.Spawns {
		if err := g.spawn(s); err != nil {
			return nil, err
		}
	}
	g.pauseUI = NewPauseUI(g)
	g.status = fmt.Sprintf("%s: %d surfaces, %d agents", lvl.Name, board.Surfaces(), len(g.agents))
	return g, nil
}

func (g *Game) spawn(s levels.Spawn) error {
	spec, err := prefabs.LoadAgentSpec(s.Agent)
	if err != nil {
		return err
	}
	opts, err := spec.Options(g.log)
	if err != nil {
		return err
	}
	opts = append(opts, agent.WithProbe(g.ground), agent.WithEvents(g.events))
	if p, ok := s.SpawnPosition(); ok {
		opts = append(opts, agent.WithPosition(p))
	}

	a, err := agent.New(g.manager, opts...)
	if err != nil {
		return err
	}
	g.agents = append(g.agents, &viewAgent{Agent: a, file: s.Agent, spec: spec})
	g.sched.Add(a)
	return nil
}

// Watch starts reloading agent prefabs when files under dirs change.
func (g *Game) Watch(dirs ...string) {
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		g.log.Warn("prefab watcher disabled", zap.Error(err))
		return
	}
	g.watcher = w
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

// reloadPrefabs re-reads every agent's spec and applies its speed and path
// finding settings. Positions are left alone.
func (g *Game) reloadPrefabs() {
	for _, va := range g.agents {
		spec, err := prefabs.LoadAgentSpec(va.file)
		if err != nil {
			g.status = err.Error()
			g.log.Warn("reload prefab", zap.String("file", va.file), zap.Error(err))
			continue
		}
		cfg, err := spec.Configuration(g.log)
		if err != nil {
			g.status = err.Error()
			g.log.Warn("reload prefab", zap.String("file", va.file), zap.Error(err))
			continue
		}
		va.spec = spec
		va.SetConfiguration(cfg)
		va.SetWalkingSpeed(spec.WalkingSpeed)
	}
	g.status = "prefabs reloaded"
	g.log.Info("prefabs reloaded", zap.Int("agents", len(g.agents)))
}

func (g *Game) setPaused(paused bool) {
	if g.paused == paused {
		return
	}
	g.paused = paused
	for _, va := range g.agents {
		if paused {
			va.resume = va.State()
			va.SetState(agent.Paused)
		} else {
			va.SetState(va.resume)
		}
	}
}

func (g *Game) Update() error {
	g.frames++
	g.pollWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.setPaused(!g.paused)
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) && len(g.agents) > 0 {
		g.selected = (g.selected + 1) % len(g.agents)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyPath()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) && len(g.agents) > 0 {
		g.agents[g.selected].StopMoving()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && len(g.agents) > 0 {
		g.setDestination(ebiten.CursorPosition())
	}

	g.sched.Update(tickSeconds)
	for _, e := range g.events.Drain() {
		g.log.Debug("agent event", zap.Stringer("agent", e.Agent), zap.String("kind", string(e.Kind)), zap.Stringer("position", e.Position))
		g.status = fmt.Sprintf("%s at %v", e.Kind, e.Position)
	}
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case c, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Debug("prefab changed", zap.String("path", c.Path))
			g.reloadPrefabs()
		case err := <-g.watcher.Errors:
			if err != nil {
				g.log.Warn("prefab watcher", zap.Error(err))
			}
		default:
			return
		}
	}
}

// setDestination sends the selected agent to the ground under the cursor.
func (g *Game) setDestination(sx, sy int) {
	dest := g.cam.toWorld(sx, sy)
	if hit, p := g.ground.Probe(dest.Add(common.Up.Scale(100)), common.Down, 200, g.manager.Settings().LayerMask); hit {
		dest = p
	}
	va := g.agents[g.selected]
	va.SetDestination(dest)
	g.status = fmt.Sprintf("%s: %s path, %d waypoints", va.spec.Name, va.Path().Status(), va.Path().Len())
}

func (g *Game) copyPath() {
	if !g.clipboard || len(g.agents) == 0 {
		return
	}
	out, err := yaml.Marshal(g.agents[g.selected].Path())
	if err != nil {
		g.log.Warn("marshal path", zap.Error(err))
		return
	}
	clipboard.Write(clipboard.FmtText, out)
	g.status = "path copied"
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	g.drawBoard(screen)
	for i, va := range g.agents {
		g.drawAgent(screen, va, i == g.selected)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f  %s\nclick: move  tab: next agent  s: stop  c: copy path  esc: pause",
		ebiten.ActualFPS(), g.status))

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) drawBoard(screen *ebiten.Image) {
	board := g.manager.Gameboard()
	if board == nil {
		return
	}
	size := board.Settings().TileSize
	px := float32(size * g.cam.scale)
	for _, t := range board.Tiles() {
		x, y := g.cam.toScreen(common.V3(float64(t.X)*size, 0, float64(t.Y+1)*size))
		clr := surfacePalette[board.SurfaceOf(t)%len(surfacePalette)]
		vector.FillRect(screen, x, y, px, px, clr, false)
		vector.StrokeRect(screen, x, y, px, px, 1, colornames.Darkslategray, false)
	}
}

func (g *Game) drawAgent(screen *ebiten.Image, va *viewAgent, selected bool) {
	if va.IsMoving() {
		from := va.Position()
		for _, w := range va.Path().Waypoints() {
			x0, y0 := g.cam.toScreen(from)
			x1, y1 := g.cam.toScreen(w.WorldPosition())
			clr := colornames.Lightgrey
			if w.Type() == gameboard.SurfaceEntry {
				clr = colornames.Orangered
			}
			vector.StrokeLine(screen, x0, y0, x1, y1, 2, clr, true)
			vector.FillRect(screen, x1-3, y1-3, 6, 6, clr, false)
			from = w.WorldPosition()
		}
	}

	x, y := g.cam.toScreen(va.Position())
	r := float32(8 + 10*va.Position().Y)
	vector.FillCircle(screen, x, y, r, va.spec.RGBA(), true)
	if selected {
		vector.StrokeCircle(screen, x, y, r+3, 2, colornames.White, true)
	}

	// heading
	f := va.Rotation().Forward()
	reach := 2 * float64(r) / g.cam.scale
	hx, hy := g.cam.toScreen(va.Position().Add(f.Flat().Normalized().Scale(reach)))
	vector.StrokeLine(screen, x, y, hx, hy, 2, colornames.White, true)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
