package main

import (
	"math"
	"testing"

	"github.com/SprayArt/ardk-upm/common"
	"github.com/SprayArt/ardk-upm/gameboard"
)

func TestFitCameraFramesBoard(t *testing.T) {
	board := gameboard.New(gameboard.Settings{TileSize: 1})
	board.AddPatch(gameboard.Tile{X: 0, Y: 0}, gameboard.Tile{X: 9, Y: 4}, 0)

	cam := fitCamera(board, baseWidth, baseHeight)

	cases := []struct {
		name  string
		world common.Vec3
	}{
		{"min_corner", common.V3(0, 0, 0)},
		{"max_corner", common.V3(10, 0, 5)},
		{"centre", common.V3(5, 0, 2.5)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sx, sy := cam.toScreen(c.world)
			if sx < margin-1 || sx > baseWidth-margin+1 || sy < margin-1 || sy > baseHeight-margin+1 {
				t.Fatalf("%v mapped off screen to (%v, %v)", c.world, sx, sy)
			}
			back := cam.toWorld(int(math.Round(float64(sx))), int(math.Round(float64(sy))))
			if common.HorizontalDistance(back, c.world) > 1/cam.scale {
				t.Fatalf("round trip %v -> %v", c.world, back)
			}
		})
	}

	_, top := cam.toScreen(common.V3(0, 0, 5))
	_, bottom := cam.toScreen(common.V3(0, 0, 0))
	if top >= bottom {
		t.Fatalf("+Z should point up the screen")
	}
}

func TestFitCameraEmptyBoard(t *testing.T) {
	cam := fitCamera(gameboard.New(gameboard.DefaultSettings()), 100, 50)
	sx, sy := cam.toScreen(common.Zero)
	if sx != 50 || sy != 25 {
		t.Fatalf("empty board should centre the origin, got (%v, %v)", sx, sy)
	}
}
