package levels

import (
	"fmt"

	"github.com/SprayArt/ardk-upm/common"
	"github.com/SprayArt/ardk-upm/gameboard"
	"github.com/SprayArt/ardk-upm/physics"
)

const defaultLayer uint = 1

// Settings resolves the level's gameboard settings.
func (l *Level) Settings() gameboard.Settings {
	s := gameboard.DefaultSettings()
	if l.TileSize > 0 {
		s.TileSize = l.TileSize
	}
	if l.StepHeight != nil {
		s.StepHeight = *l.StepHeight
	}
	if l.LayerMask != 0 {
		s.LayerMask = l.LayerMask
	}
	if l.MaxSnap > 0 {
		s.MaxSnapDistance = l.MaxSnap
	}
	return s
}

// Build creates the gameboard and the collision ground for the level.
func (l *Level) Build(opts ...gameboard.Option) (*gameboard.Gameboard, *physics.Ground, error) {
	settings := l.Settings()
	board := gameboard.New(settings, opts...)
	ground := physics.NewGround()
	size := settings.TileSize

	for _, p := range l.Patches {
		if p.Min[0] > p.Max[0] || p.Min[1] > p.Max[1] {
			return nil, nil, fmt.Errorf("levels: %s: patch min %v beyond max %v", l.Name, p.Min, p.Max)
		}
		board.AddPatch(gameboard.Tile{X: p.Min[0], Y: p.Min[1]}, gameboard.Tile{X: p.Max[0], Y: p.Max[1]}, p.Height)
		if len(l.Terrain) == 0 {
			ground.AddBox(
				float64(p.Min[0])*size, float64(p.Min[1])*size,
				float64(p.Max[0]+1)*size, float64(p.Max[1]+1)*size,
				p.Height, layerOr(p.Layer))
		}
	}

	for _, t := range l.Tiles {
		board.AddTile(gameboard.Tile{X: t.X, Y: t.Y}, t.Height)
		if len(l.Terrain) == 0 {
			ground.AddBox(float64(t.X)*size, float64(t.Y)*size, float64(t.X+1)*size, float64(t.Y+1)*size, t.Height, defaultLayer)
		}
	}

	if l.Grid != nil {
		for row, cells := range l.Grid.Rows {
			for col, h := range cells {
				if h == nil {
					continue
				}
				x, y := l.Grid.Origin[0]+col, l.Grid.Origin[1]+row
				board.AddTile(gameboard.Tile{X: x, Y: y}, *h)
				if len(l.Terrain) == 0 {
					ground.AddBox(float64(x)*size, float64(y)*size, float64(x+1)*size, float64(y+1)*size, *h, defaultLayer)
				}
			}
		}
	}

	for _, t := range l.Terrain {
		if t.MinX > t.MaxX || t.MinZ > t.MaxZ {
			return nil, nil, fmt.Errorf("levels: %s: inverted terrain box", l.Name)
		}
		ground.AddBox(t.MinX, t.MinZ, t.MaxX, t.MaxZ, t.Height, layerOr(t.Layer))
	}

	if board.Area() == 0 {
		return nil, nil, fmt.Errorf("levels: %s: %w", l.Name, gameboard.ErrNoTiles)
	}
	return board, ground, nil
}

// SpawnPosition is where the spawn places its agent, or false when the
// prefab's own position should be used.
func (s Spawn) SpawnPosition() (common.Vec3, bool) {
	if s.Position == nil {
		return common.Zero, false
	}
	return common.V3(s.Position[0], s.Position[1], s.Position[2]), true
}

func layerOr(layer uint) uint {
	if layer == 0 {
		return defaultLayer
	}
	return layer
}
