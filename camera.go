package main

import (
	"math"

	"github.com/SprayArt/ardk-upm/common"
	"github.com/SprayArt/ardk-upm/gameboard"
)

const margin = 40

// camera maps the board's XZ plane onto the screen, +Z pointing up.
type camera struct {
	scale float64
	offX  float64
	offY  float64
}

// fitCamera frames every tile of board inside a w by h screen.
func fitCamera(board *gameboard.Gameboard, w, h float64) camera {
	tiles := board.Tiles()
	if len(tiles) == 0 {
		return camera{scale: 1, offX: w / 2, offY: h / 2}
	}
	size := board.Settings().TileSize

	minX, minZ := math.Inf(1), math.Inf(1)
	maxX, maxZ := math.Inf(-1), math.Inf(-1)
	for _, t := range tiles {
		minX = math.Min(minX, float64(t.X)*size)
		minZ = math.Min(minZ, float64(t.Y)*size)
		maxX = math.Max(maxX, float64(t.X+1)*size)
		maxZ = math.Max(maxZ, float64(t.Y+1)*size)
	}

	scale := math.Min((w-2*margin)/(maxX-minX), (h-2*margin)/(maxZ-minZ))
	return camera{
		scale: scale,
		offX:  w/2 - (minX+maxX)/2*scale,
		offY:  h/2 + (minZ+maxZ)/2*scale,
	}
}

func (c camera) toScreen(p common.Vec3) (float32, float32) {
	return float32(c.offX + p.X*c.scale), float32(c.offY - p.Z*c.scale)
}

// toWorld returns the XZ point under a screen position; Y is left at zero.
func (c camera) toWorld(sx, sy int) common.Vec3 {
	return common.V3((float64(sx)-c.offX)/c.scale, 0, (c.offY-float64(sy))/c.scale)
}
