package gameboard

import (
	"errors"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"
)

var ErrNoTiles = errors.New("gameboard: no walkable tiles")

// Gameboard is a set of walkable tiles grouped into surfaces. It is built
// once and then queried; queries are safe for concurrent use.
type Gameboard struct {
	settings Settings
	log      *zap.Logger

	mu      sync.RWMutex
	heights map[Tile]float64
	idx     *surfaceIndex
}

type Option func(*Gameboard)

func WithLogger(log *zap.Logger) Option {
	return func(g *Gameboard) {
		if log != nil {
			g.log = log
		}
	}
}

func New(settings Settings, opts ...Option) *Gameboard {
	g := &Gameboard{
		settings: settings.withDefaults(),
		log:      zap.NewNop(),
		heights:  make(map[Tile]float64),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gameboard) Settings() Settings {
	return g.settings
}

// AddTile marks t walkable at the given height, replacing any previous height.
func (g *Gameboard) AddTile(t Tile, height float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.heights[t] = height
	g.idx = nil
}

// AddPatch adds every tile in the inclusive rectangle [min, max].
func (g *Gameboard) AddPatch(min, max Tile, height float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for y := min.Y; y <= max.Y; y++ {
		for x := min.X; x <= max.X; x++ {
			g.heights[Tile{X: x, Y: y}] = height
		}
	}
	g.idx = nil
}

func (g *Gameboard) RemoveTile(t Tile) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.heights, t)
	g.idx = nil
}

// Clear removes every tile.
func (g *Gameboard) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.heights = make(map[Tile]float64)
	g.idx = nil
}

// Area is the walkable surface in square world units. Zero means nothing has
// been built yet.
func (g *Gameboard) Area() float64 {
	idx := g.index()
	return float64(len(idx.tiles)) * g.settings.TileSize * g.settings.TileSize
}

// Tiles returns every walkable tile ordered by row then column.
func (g *Gameboard) Tiles() []Tile {
	return append([]Tile(nil), g.index().tiles...)
}

func (g *Gameboard) Height(t Tile) (float64, bool) {
	h, ok := g.index().heights[t]
	return h, ok
}

// SurfaceOf returns the surface id of t, or -1 when t is not walkable.
func (g *Gameboard) SurfaceOf(t Tile) int {
	if s, ok := g.index().surface[t]; ok {
		return s
	}
	return -1
}

// Surfaces is the number of disjoint walkable surfaces.
func (g *Gameboard) Surfaces() int {
	return g.index().surfaces
}

func (g *Gameboard) index() *surfaceIndex {
	g.mu.RLock()
	idx := g.idx
	g.mu.RUnlock()
	if idx != nil {
		return idx
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx == nil {
		g.idx = buildIndex(g.heights, g.settings)
		g.log.Debug("gameboard indexed",
			zap.Int("tiles", len(g.idx.tiles)),
			zap.Int("surfaces", g.idx.surfaces))
	}
	return g.idx
}

// surfaceIndex is an immutable snapshot of the board used by queries.
type surfaceIndex struct {
	settings Settings
	tiles    []Tile
	heights  map[Tile]float64
	surface  map[Tile]int
	boundary map[Tile]bool
	surfaces int
}

var fourWay = [4]Tile{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

func buildIndex(heights map[Tile]float64, settings Settings) *surfaceIndex {
	idx := &surfaceIndex{
		settings: settings,
		tiles:    make([]Tile, 0, len(heights)),
		heights:  make(map[Tile]float64, len(heights)),
		surface:  make(map[Tile]int, len(heights)),
		boundary: make(map[Tile]bool),
	}
	for t, h := range heights {
		idx.tiles = append(idx.tiles, t)
		idx.heights[t] = h
	}
	sort.Slice(idx.tiles, func(i, j int) bool { return tileLess(idx.tiles[i], idx.tiles[j]) })

	// flood fill in tile order so surface ids are stable
	for _, seed := range idx.tiles {
		if _, seen := idx.surface[seed]; seen {
			continue
		}
		id := idx.surfaces
		idx.surfaces++
		idx.surface[seed] = id
		stack := []Tile{seed}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, d := range fourWay {
				n := Tile{X: cur.X + d.X, Y: cur.Y + d.Y}
				if _, seen := idx.surface[n]; seen {
					continue
				}
				if !idx.connected(cur, n) {
					continue
				}
				idx.surface[n] = id
				stack = append(stack, n)
			}
		}
	}

	for _, t := range idx.tiles {
		for _, d := range fourWay {
			n := Tile{X: t.X + d.X, Y: t.Y + d.Y}
			if s, ok := idx.surface[n]; !ok || s != idx.surface[t] {
				idx.boundary[t] = true
				break
			}
		}
	}
	return idx
}

// connected reports whether a and b are walkable and close enough in height
// to be walked between.
func (idx *surfaceIndex) connected(a, b Tile) bool {
	ha, ok := idx.heights[a]
	if !ok {
		return false
	}
	hb, ok := idx.heights[b]
	if !ok {
		return false
	}
	return math.Abs(ha-hb) <= idx.settings.StepHeight
}
