package gameboard

import (
	"container/heap"
	"math"

	"github.com/SprayArt/ardk-upm/common"
	"go.uber.org/zap"
)

// CalculatePath plans a route from start to destination. start is expected
// to be on the board already; destination may be anywhere and is snapped to
// the nearest walkable point, within Settings.MaxSnapDistance when set. On
// failure the returned path is invalid.
func (g *Gameboard) CalculatePath(start, destination common.Vec3, cfg AgentConfiguration) (bool, Path) {
	idx := g.index()
	startPt, startTile, ok := idx.nearest(start)
	if !ok {
		g.log.Debug("calculate path: empty gameboard")
		return false, InvalidPath()
	}
	goalPt, goalTile, _ := idx.nearest(destination)
	if limit := g.settings.MaxSnapDistance; limit > 0 && common.Distance(destination, goalPt) > limit {
		g.log.Debug("calculate path: no walkable tile near destination",
			zap.Stringer("destination", destination), zap.Float64("max_snap_distance", limit))
		return false, InvalidPath()
	}

	if startTile == goalTile {
		return true, NewPath([]Waypoint{NewWaypoint(goalPt, Walk, goalTile)}, PathComplete)
	}

	status := PathComplete
	search := searchSpace{idx: idx, cfg: cfg}
	startSurface := idx.surface[startTile]
	goalSurface := idx.surface[goalTile]

	switch cfg.Behaviour {
	case SingleSurface:
		search.allowed = map[int]bool{startSurface: true}
		if goalSurface != startSurface {
			goalTile = idx.nearestOnSurface(startSurface, goalPt)
			goalPt = idx.closestOnTile(goalTile, goalPt)
			status = PathPartial
			if goalTile == startTile {
				return true, NewPath([]Waypoint{NewWaypoint(goalPt, Walk, goalTile)}, status)
			}
		}
	case InterSurfacePreferPerformance:
		chain := idx.surfaceChain(startSurface, goalSurface, cfg.JumpDistance)
		if chain == nil {
			g.log.Debug("calculate path: no surface chain",
				zap.Int("from", startSurface), zap.Int("to", goalSurface))
			return false, InvalidPath()
		}
		search.allowed = make(map[int]bool, len(chain))
		for _, s := range chain {
			search.allowed[s] = true
		}
	}

	tiles := search.astar(startTile, goalTile)
	if tiles == nil {
		g.log.Debug("calculate path: destination unreachable",
			zap.Stringer("start", startPt), zap.Stringer("destination", goalPt))
		return false, InvalidPath()
	}

	return true, NewPath(idx.waypoints(startPt, tiles, goalPt), status)
}

// searchSpace is the tile graph seen by one query.
type searchSpace struct {
	idx *surfaceIndex
	cfg AgentConfiguration
	// allowed restricts the surfaces a search may enter; nil allows all.
	allowed map[int]bool
}

type edge struct {
	to   Tile
	cost float64
}

func (s *searchSpace) enterable(t Tile) bool {
	id, ok := s.idx.surface[t]
	if !ok {
		return false
	}
	return s.allowed == nil || s.allowed[id]
}

func (s *searchSpace) neighbors(t Tile, out []edge) []edge {
	out = out[:0]
	idx := s.idx
	here := idx.center(t)
	for _, d := range fourWay {
		n := Tile{X: t.X + d.X, Y: t.Y + d.Y}
		if idx.surface[n] != idx.surface[t] || !s.enterable(n) || !idx.connected(t, n) {
			continue
		}
		out = append(out, edge{to: n, cost: common.Distance(here, idx.center(n))})
	}
	if !s.cfg.allowsJumps() || !idx.boundary[t] {
		return out
	}
	idx.jumpTargets(t, s.cfg.JumpDistance, func(n Tile) {
		if !s.enterable(n) {
			return
		}
		out = append(out, edge{to: n, cost: s.cfg.jumpCost(common.Distance(here, idx.center(n)))})
	})
	return out
}

// jumpTargets calls fn for every boundary tile on another surface whose gap
// from t is within jumpDistance, in row order.
func (idx *surfaceIndex) jumpTargets(t Tile, jumpDistance float64, fn func(Tile)) {
	size := idx.settings.TileSize
	reach := int(math.Ceil(jumpDistance/size)) + 1
	from := idx.surface[t]
	for dy := -reach; dy <= reach; dy++ {
		for dx := -reach; dx <= reach; dx++ {
			n := Tile{X: t.X + dx, Y: t.Y + dy}
			to, ok := idx.surface[n]
			if !ok || to == from || !idx.boundary[n] {
				continue
			}
			if tileGap(t, n, size) > jumpDistance {
				continue
			}
			fn(n)
		}
	}
}

func (s *searchSpace) heuristic(a, b Tile) float64 {
	size := s.idx.settings.TileSize
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y)) * size
}

func (s *searchSpace) astar(start, goal Tile) []Tile {
	if !s.enterable(start) || !s.enterable(goal) {
		return nil
	}

	open := &openSet{}
	heap.Init(open)

	cameFrom := make(map[Tile]Tile, 128)
	gScore := map[Tile]float64{start: 0}
	seq := 0
	heap.Push(open, &openItem{tile: start, f: s.heuristic(start, goal), seq: seq})

	var scratch []edge
	for open.Len() > 0 {
		current := heap.Pop(open).(*openItem)
		cur := current.tile
		if current.g > gScore[cur] {
			continue
		}
		if cur == goal {
			return reconstructPath(cameFrom, start, goal)
		}

		scratch = s.neighbors(cur, scratch)
		for _, e := range scratch {
			tentative := gScore[cur] + e.cost
			if prev, seen := gScore[e.to]; seen && tentative >= prev {
				continue
			}
			cameFrom[e.to] = cur
			gScore[e.to] = tentative
			seq++
			heap.Push(open, &openItem{tile: e.to, g: tentative, f: tentative + s.heuristic(e.to, goal), seq: seq})
		}
	}
	return nil
}

func reconstructPath(cameFrom map[Tile]Tile, start, goal Tile) []Tile {
	path := make([]Tile, 0, 32)
	cur := goal
	for {
		path = append(path, cur)
		if cur == start {
			break
		}
		prev, ok := cameFrom[cur]
		if !ok {
			return nil
		}
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// surfaceChain returns the surfaces visited by the route with the fewest
// jumps from one surface to another, or nil when none exists.
func (idx *surfaceIndex) surfaceChain(from, to int, jumpDistance float64) []int {
	if from == to {
		return []int{from}
	}
	if jumpDistance < 0 {
		return nil
	}

	links := make([]map[int]bool, idx.surfaces)
	for _, t := range idx.tiles {
		if !idx.boundary[t] {
			continue
		}
		a := idx.surface[t]
		idx.jumpTargets(t, jumpDistance, func(n Tile) {
			if links[a] == nil {
				links[a] = make(map[int]bool)
			}
			links[a][idx.surface[n]] = true
		})
	}

	prev := make([]int, idx.surfaces)
	for i := range prev {
		prev[i] = -1
	}
	prev[from] = from
	queue := []int{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			break
		}
		// visit in id order for stable chains
		for next := 0; next < idx.surfaces; next++ {
			if !links[cur][next] || prev[next] != -1 {
				continue
			}
			prev[next] = cur
			queue = append(queue, next)
		}
	}
	if prev[to] == -1 {
		return nil
	}

	chain := []int{to}
	for cur := to; cur != from; cur = prev[cur] {
		chain = append(chain, prev[cur])
	}
	return chain
}

// nearestOnSurface picks the tile of surface id horizontally closest to p.
func (idx *surfaceIndex) nearestOnSurface(id int, p common.Vec3) Tile {
	best := math.Inf(1)
	var bestTile Tile
	for _, t := range idx.tiles {
		if idx.surface[t] != id {
			continue
		}
		d := common.HorizontalDistance(p, idx.closestOnTile(t, p))
		if d < best {
			best = d
			bestTile = t
		}
	}
	return bestTile
}

type openItem struct {
	tile  Tile
	f     float64
	g     float64
	seq   int
	index int
}

type openSet []*openItem

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	return o[i].seq < o[j].seq
}
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
