// Package config loads the biome catalog, starting layers and editor
// settings from YAML or JSON.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/biomeeditor/biome"
	"github.com/milk9111/biomeeditor/grid"
	"github.com/milk9111/biomeeditor/layer"
	"github.com/milk9111/biomeeditor/tool"
	"github.com/milk9111/biomeeditor/viewport"
)

//go:embed default.yaml
var defaultYAML []byte

var (
	ErrEmpty     = errors.New("config: empty document")
	ErrMalformed = errors.New("config: malformed document")
	ErrRead      = errors.New("config: read failed")
	ErrNoCatalog = errors.New("config: no usable biomes")
)

const (
	DefaultWidth    = 64
	DefaultHeight   = 48
	DefaultCellSize = 16
)

type GridConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	CellSize int `yaml:"cell_size"`
}

type LayerConfig struct {
	Name string `yaml:"name"`
	// Visible defaults to true when omitted.
	Visible *bool `yaml:"visible"`
}

type ZoomConfig struct {
	Steps []float64 `yaml:"steps"`
	// Start is a multiplier, resolved to the nearest step.
	Start float64 `yaml:"start"`
}

type BrushConfig struct {
	Size int `yaml:"size"`
}

type HistoryConfig struct {
	MaxEntries int `yaml:"max_entries"`
}

type Config struct {
	Grid    GridConfig    `yaml:"grid"`
	Biomes  []biome.Biome `yaml:"biomes"`
	Layers  []LayerConfig `yaml:"layers"`
	Zoom    ZoomConfig    `yaml:"zoom"`
	Brush   BrushConfig   `yaml:"brush"`
	History HistoryConfig `yaml:"history"`

	// Source is the file the config was read from, empty for the default.
	Source string `yaml:"-"`
}

// Default returns the embedded configuration.
func Default() Config {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("config: embedded default: %v", err))
	}
	return c
}

// Empty is the usable fallback: default dimensions and zoom, no biomes and
// no layers.
func Empty() Config {
	var c Config
	c.normalize()
	return c
}

// Load reads path, choosing the JSON parser for ".json" files and YAML
// otherwise. An empty path yields Default. On any error the returned Config
// is still usable.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		c := Empty()
		c.Source = path
		return c, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	var c Config
	if strings.EqualFold(filepath.Ext(path), ".json") {
		c, err = ParseJSON(data)
	} else {
		c, err = Parse(data)
	}
	c.Source = path
	if err != nil {
		return c, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML document. Malformed documents yield Empty and the
// decode error; invalid individual values are replaced by defaults and
// reported through the joined error.
func Parse(data []byte) (Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Empty(), ErrEmpty
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Empty(), fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return c, c.normalize()
}

// normalize replaces out-of-range settings with defaults.
func (c *Config) normalize() error {
	var errs []error
	if c.Grid.Width <= 0 {
		c.Grid.Width = DefaultWidth
	}
	if c.Grid.Height <= 0 {
		c.Grid.Height = DefaultHeight
	}
	if err := grid.CheckSize(c.Grid.Width, c.Grid.Height); err != nil {
		errs = append(errs, fmt.Errorf("grid: %w", err))
		c.Grid.Width, c.Grid.Height = DefaultWidth, DefaultHeight
	}
	if c.Grid.CellSize <= 0 {
		c.Grid.CellSize = DefaultCellSize
	}

	if len(c.Zoom.Steps) == 0 {
		c.Zoom.Steps = append([]float64(nil), viewport.DefaultSteps...)
	} else if _, err := viewport.New(c.Grid.CellSize, c.Zoom.Steps, 0); err != nil {
		errs = append(errs, err)
		c.Zoom.Steps = append([]float64(nil), viewport.DefaultSteps...)
	}
	if c.Zoom.Start <= 0 {
		c.Zoom.Start = 1
	}

	if c.Brush.Size == 0 {
		c.Brush.Size = 1
	} else if err := tool.ValidateBrush(c.Brush.Size); err != nil {
		errs = append(errs, fmt.Errorf("brush.size: %w", err))
		c.Brush.Size = 1
	}

	if c.History.MaxEntries < 0 {
		c.History.MaxEntries = 0
	}
	return errors.Join(errs...)
}

// StartIndex resolves Zoom.Start to the index of the closest step.
func (c Config) StartIndex() int {
	best, bestDist := 0, math.Inf(1)
	for i, s := range c.Zoom.Steps {
		if d := math.Abs(s - c.Zoom.Start); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Viewport builds the configured viewport.
func (c Config) Viewport() (*viewport.Viewport, error) {
	return viewport.New(c.Grid.CellSize, c.Zoom.Steps, c.StartIndex())
}

// Catalog builds the biome catalog. Entries with a blank or repeated id are
// skipped; entries with an unparsable colour are kept (they render with the
// fallback tint). Every problem is reported in the joined error.
func (c Config) Catalog() (*biome.Catalog, error) {
	var errs []error
	seen := make(map[biome.ID]bool, len(c.Biomes))
	keep := make([]biome.Biome, 0, len(c.Biomes))
	for i, b := range c.Biomes {
		b.ID = biome.ID(strings.TrimSpace(string(b.ID)))
		switch {
		case b.ID == biome.None:
			errs = append(errs, fmt.Errorf("biomes[%d]: %w", i, biome.ErrEmptyID))
			continue
		case seen[b.ID]:
			errs = append(errs, fmt.Errorf("biomes[%d] %q: %w", i, b.ID, biome.ErrDuplicateID))
			continue
		}
		if _, err := biome.ParseColor(b.Color); err != nil {
			errs = append(errs, fmt.Errorf("biomes[%d]: %w", i, err))
		}
		seen[b.ID] = true
		keep = append(keep, b)
	}
	cat, err := biome.NewCatalog(keep)
	if err != nil {
		return biome.Empty(), errors.Join(append(errs, err)...)
	}
	return cat, errors.Join(errs...)
}

// LoadCatalog reads the catalog of path for a hot reload. When the file
// cannot be read or decoded, or defines no usable biome, the catalog is nil
// and the caller keeps the one it has. Per-entry problems are returned
// alongside a usable catalog.
func LoadCatalog(path string) (*biome.Catalog, error) {
	cfg, err := Load(path)
	if errors.Is(err, ErrRead) || errors.Is(err, ErrEmpty) || errors.Is(err, ErrMalformed) {
		return nil, err
	}
	cat, cerr := cfg.Catalog()
	if cat.Len() == 0 {
		return nil, errors.Join(err, cerr, fmt.Errorf("%w: %s", ErrNoCatalog, path))
	}
	return cat, errors.Join(err, cerr)
}

// Templates converts the layer list, defaulting visibility to true.
func (c Config) Templates() []layer.Template {
	out := make([]layer.Template, 0, len(c.Layers))
	for _, l := range c.Layers {
		visible := true
		if l.Visible != nil {
			visible = *l.Visible
		}
		out = append(out, layer.Template{Name: l.Name, Visible: visible})
	}
	return out
}

// Stack builds the starting layer stack.
func (c Config) Stack() (*layer.Stack, error) {
	return layer.FromTemplates(c.Grid.Width, c.Grid.Height, c.Templates())
}
