package main

import (
	"flag"
	"log"

	"github.com/SprayArt/ardk-upm/observability"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
	"golang.design/x/clipboard"
)

func main() {
	levelName := flag.String("level", "default.json", "level file, or the name of an embedded level")
	logLevel := flag.String("log-level", "info", "log level")
	watch := flag.Bool("watch", true, "reload agent prefabs when they change on disk")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	logger := observability.NewLogger(observability.Config{Level: *logLevel, Format: "console", Name: "viewer"})
	defer func() { _ = logger.Sync() }()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("gameboard navigation")

	game, err := NewGame(*levelName, logger)
	if err != nil {
		logger.Fatal("load level", zap.String("level", *levelName), zap.Error(err))
	}
	defer game.Close()

	if err := clipboard.Init(); err != nil {
		logger.Warn("clipboard unavailable", zap.Error(err))
	} else {
		game.clipboard = true
	}
	if *watch {
		game.Watch("prefabs", "prefabs/scripts")
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
