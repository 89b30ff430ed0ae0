package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"

	"github.com/milk9111/biomeeditor/config"
	"github.com/milk9111/biomeeditor/editor"
	"github.com/milk9111/biomeeditor/script"
)

func main() {
	configPath := flag.String("config", "", "Biome catalog and layer config (.yaml, .yml or .json); the embedded default when empty")
	width := flag.Int("width", 0, "Grid width in cells, overriding the config")
	height := flag.Int("height", 0, "Grid height in cells, overriding the config")
	macro := flag.String("script", "", "Macro to run at startup (bundled name or .tengo path)")
	scriptsDir := flag.String("scripts", "", "Directory of .tengo macros to run whenever they change")
	watch := flag.Bool("watch", true, "Reload the config file when it changes")
	flag.Parse()

	log.Println("Editor starting...")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
	}
	if *width > 0 {
		cfg.Grid.Width = *width
	}
	if *height > 0 {
		cfg.Grid.Height = *height
	}

	state, err := editor.New(cfg)
	if state == nil {
		log.Fatalf("Failed to start editor: %v", err)
	}
	if err != nil {
		log.Printf("Config problems: %v", err)
	}
	w, h := state.Layers().Dimensions()
	log.Printf("Editing %dx%d grid with %d biomes and %d layers", w, h, state.Catalog().Len(), state.Layers().Len())

	if *macro != "" {
		name, src, err := script.Resolve(*macro)
		if err != nil {
			log.Printf("Failed to load macro %s: %v", *macro, err)
		} else {
			state.Enqueue(editor.RunScript{Name: name, Source: src})
		}
	}

	game := NewEditorGame(state)

	var watched []string
	if *watch && *configPath != "" {
		watched = append(watched, *configPath)
	}
	if *scriptsDir != "" {
		watched = append(watched, *scriptsDir)
	}
	if len(watched) > 0 {
		watcher, err := config.NewWatcher(watched...)
		if err != nil {
			log.Printf("Failed to watch %v: %v", watched, err)
		} else {
			game.watcher = watcher
			defer watcher.Close()
		}
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("Clipboard unavailable: %v", err)
	} else {
		game.clipboardReady = true
	}

	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("Biome Editor")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
