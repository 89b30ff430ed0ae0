package main

import (
	"flag"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/milk9111/biomeeditor/config"
	"github.com/milk9111/biomeeditor/editor"
	"github.com/milk9111/biomeeditor/script"
)

func main() {
	configPath := flag.String("config", "", "Biome catalog and layer config (.yaml, .yml or .json); the embedded default when empty")
	width := flag.Int("width", 0, "Grid width in cells, overriding the config")
	height := flag.Int("height", 0, "Grid height in cells, overriding the config")
	macro := flag.String("script", "", "Macro to run at startup (bundled name or .tengo path)")
	logPath := flag.String("log", "biometerm.log", "Log file; the terminal is owned by the editor while it runs")
	flag.Parse()

	if f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		log.SetOutput(f)
		defer f.Close()
	}

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
	// One viewport unit is one cell at 100%; see colsPerUnit.
	cfg.Grid.CellSize = 1

	state, err := editor.New(cfg)
	if state == nil {
		log.Fatalf("Failed to start editor: %v", err)
	}
	if err != nil {
		log.Printf("Config problems: %v", err)
	}
	if *macro != "" {
		name, src, err := script.Resolve(*macro)
		if err != nil {
			log.Printf("Failed to load macro %s: %v", *macro, err)
		} else {
			state.Enqueue(editor.RunScript{Name: name, Source: src})
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to open terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to init terminal: %v", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	if *configPath != "" {
		watcher, err := config.NewWatcher(*configPath)
		if err != nil {
			log.Printf("Failed to watch %s: %v", *configPath, err)
		} else {
			defer watcher.Close()
			go func() {
				for path := range watcher.Events {
					_ = screen.PostEvent(tcell.NewEventInterrupt(path)) // best-effort; queue may be full
				}
			}()
			go func() {
				for err := range watcher.Errors {
					log.Printf("Watcher error: %v", err)
				}
			}()
		}
	}

	app := NewApp(state)
	app.width, app.height = screen.Size()
	state.Drain()
	for {
		app.Draw(screen)
		ev := screen.PollEvent()
		if ev == nil || app.Handle(ev) {
			return
		}
	}
}
