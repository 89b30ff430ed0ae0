package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/biomeeditor/biome"
	"github.com/milk9111/biomeeditor/grid"
	"github.com/milk9111/biomeeditor/tool"
)

func TestDefaultConfig(t *testing.T) {
	c := Default()
	cat, err := c.Catalog()
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	for _, name := range []string{"Grassland", "Ocean", "Desert"} {
		if _, ok := cat.ByName(name); !ok {
			t.Fatalf("default catalog missing %s", name)
		}
	}
	stack, err := c.Stack()
	if err != nil {
		t.Fatalf("Stack: %v", err)
	}
	if stack.Len() != 2 {
		t.Fatalf("expected Terrain and Structures, got %d layers", stack.Len())
	}
	if w, h := stack.Dimensions(); w != 64 || h != 48 {
		t.Fatalf("unexpected dimensions %dx%d", w, h)
	}
	v, err := c.Viewport()
	if err != nil {
		t.Fatalf("Viewport: %v", err)
	}
	if v.Label() != "100%" {
		t.Fatalf("default zoom label %q", v.Label())
	}
	if c.Brush.Size != 1 || c.History.MaxEntries != 0 {
		t.Fatalf("unexpected brush/history %+v %+v", c.Brush, c.History)
	}
}

func TestParseFallbacks(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{"empty", "  \n", ErrEmpty},
		{"malformed", "grid: [unterminated", ErrMalformed},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg, err := Parse([]byte(c.doc))
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
			cat, _ := cfg.Catalog()
			if cat.Len() != 0 || len(cfg.Layers) != 0 {
				t.Fatalf("fallback should have no biomes or layers")
			}
			if _, err := cfg.Stack(); err != nil {
				t.Fatalf("fallback stack should build: %v", err)
			}
			if _, err := cfg.Viewport(); err != nil {
				t.Fatalf("fallback viewport should build: %v", err)
			}
		})
	}
}

func TestParseNormalizesValues(t *testing.T) {
	doc := `
grid: {width: 10, height: 0}
biomes:
  - {id: grassland, name: Grassland, color: "#00ff00"}
  - {id: "", name: Nameless}
  - {id: grassland, name: Again}
  - {id: lava, color: "not-a-colour"}
layers:
  - {name: Terrain}
  - {name: Hidden, visible: false}
zoom: {steps: [2, 1]}
brush: {size: 4}
history: {max_entries: -3}
`
	c, err := Parse([]byte(doc))
	if !errors.Is(err, tool.ErrInvalidBrushSize) {
		t.Fatalf("expected brush error, got %v", err)
	}
	if c.Grid.Width != 10 || c.Grid.Height != DefaultHeight || c.Grid.CellSize != DefaultCellSize {
		t.Fatalf("unexpected grid %+v", c.Grid)
	}
	if c.Brush.Size != 1 || c.History.MaxEntries != 0 {
		t.Fatalf("brush/history not normalized: %+v %+v", c.Brush, c.History)
	}
	if len(c.Zoom.Steps) != 6 {
		t.Fatalf("descending steps should fall back to defaults, got %v", c.Zoom.Steps)
	}

	cat, err := c.Catalog()
	if !errors.Is(err, biome.ErrEmptyID) || !errors.Is(err, biome.ErrDuplicateID) {
		t.Fatalf("expected joined catalog errors, got %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("expected grassland and lava, got %d entries", cat.Len())
	}
	if b, _ := cat.Lookup("grassland"); b.Name != "Grassland" {
		t.Fatalf("first definition should win, got %+v", b)
	}

	tpl := c.Templates()
	if len(tpl) != 2 || !tpl[0].Visible || tpl[1].Visible {
		t.Fatalf("unexpected templates %+v", tpl)
	}
}

func TestParseRejectsOversizedGrid(t *testing.T) {
	cases := []struct {
		name  string
		parse func([]byte) (Config, error)
		doc   string
	}{
		{"yaml", Parse, "grid: {width: 4294967296, height: 4294967296}\n"},
		{"json", ParseJSON, `{"grid": {"width": 4294967296, "height": 4294967296}}`},
		{"yaml_area", Parse, "grid: {width: 100000, height: 100000}\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg, err := c.parse([]byte(c.doc))
			if !errors.Is(err, grid.ErrInvalidSize) {
				t.Fatalf("expected ErrInvalidSize, got %v", err)
			}
			if cfg.Grid.Width != DefaultWidth || cfg.Grid.Height != DefaultHeight {
				t.Fatalf("expected default size, got %+v", cfg.Grid)
			}
			stack, err := cfg.Stack()
			if err != nil {
				t.Fatalf("Stack: %v", err)
			}
			if w, h := stack.Dimensions(); w != DefaultWidth || h != DefaultHeight {
				t.Fatalf("stack is %dx%d", w, h)
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	doc := `{
  "grid": {"width": 12, "height": 8, "cell_size": 20},
  "biomes": [
    {"id": "ocean", "name": "Ocean", "color": "#0000ff"},
    "garbage",
    {"name": "no id"},
    {"id": "desert", "name": "Desert", "color": "#e0c068"}
  ],
  "layers": [{"name": "Terrain", "visible": true}, 7],
  "zoom": {"steps": [0.5, 1, "x", 2], "start": 2},
  "brush": {"size": 3}
}`
	c, err := ParseJSON([]byte(doc))
	if err == nil {
		t.Fatalf("expected skipped-entry errors")
	}
	if len(c.Biomes) != 2 || c.Biomes[1].ID != "desert" {
		t.Fatalf("unexpected biomes %+v", c.Biomes)
	}
	if len(c.Layers) != 1 || c.Layers[0].Name != "Terrain" {
		t.Fatalf("unexpected layers %+v", c.Layers)
	}
	if len(c.Zoom.Steps) != 3 || c.StartIndex() != 2 {
		t.Fatalf("unexpected zoom %+v (start index %d)", c.Zoom, c.StartIndex())
	}
	if c.Grid.Width != 12 || c.Grid.CellSize != 20 || c.Brush.Size != 3 {
		t.Fatalf("unexpected values %+v %+v", c.Grid, c.Brush)
	}

	for _, bad := range []string{"", "{not json", "[1,2]"} {
		c, err := ParseJSON([]byte(bad))
		if err == nil {
			t.Fatalf("%q: expected error", bad)
		}
		if len(c.Biomes) != 0 || c.Grid.Width != DefaultWidth {
			t.Fatalf("%q: expected empty fallback, got %+v", bad, c)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "world.yaml")
	jsonPath := filepath.Join(dir, "world.json")
	os.WriteFile(yamlPath, []byte("biomes: [{id: snow, name: Snow}]\n"), 0o644)
	os.WriteFile(jsonPath, []byte(`{"biomes":[{"id":"sand"}]}`), 0o644)

	c, err := Load(yamlPath)
	if err != nil || len(c.Biomes) != 1 || c.Biomes[0].ID != "snow" || c.Source != yamlPath {
		t.Fatalf("yaml load: %+v %v", c, err)
	}
	c, err = Load(jsonPath)
	if err != nil || len(c.Biomes) != 1 || c.Biomes[0].ID != "sand" {
		t.Fatalf("json load: %+v %v", c, err)
	}
	c, err = Load(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) || len(c.Biomes) != 0 {
		t.Fatalf("missing file should fall back to empty: %+v %v", c, err)
	}
	if c, err := Load(""); err != nil || len(c.Biomes) == 0 {
		t.Fatalf("empty path should load the default: %v", err)
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		return path
	}
	cases := []struct {
		name    string
		path    string
		wantLen int
		wantErr error
	}{
		{"ok", write("ok.yaml", "biomes: [{id: snow, color: \"#ffffff\"}, {id: sand, color: \"#c2b280\"}]\n"), 2, nil},
		{"bad_entry_kept", write("partial.yaml", "biomes: [{id: snow, color: \"#ffffff\"}, {id: \"\"}]\n"), 1, biome.ErrEmptyID},
		{"half_written", write("half.yaml", "biomes: [{id: snow\n"), 0, ErrMalformed},
		{"truncated_empty", write("empty.yaml", ""), 0, ErrEmpty},
		{"half_written_json", write("half.json", `{"biomes": [{"id": "sn`), 0, ErrMalformed},
		{"no_biomes", write("none.yaml", "grid: {width: 8}\n"), 0, ErrNoCatalog},
		{"missing", filepath.Join(dir, "gone.yaml"), 0, ErrRead},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cat, err := LoadCatalog(c.path)
			if c.wantErr == nil && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if c.wantErr != nil && !errors.Is(err, c.wantErr) {
				t.Fatalf("expected %v, got %v", c.wantErr, err)
			}
			if c.wantLen == 0 {
				if cat != nil {
					t.Fatalf("expected no catalog, got %d biomes", cat.Len())
				}
				return
			}
			if cat == nil || cat.Len() != c.wantLen {
				t.Fatalf("expected %d biomes, got %v", c.wantLen, cat)
			}
		})
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.yaml")
	if err := os.WriteFile(path, []byte("biomes: []\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644)
	os.WriteFile(path, []byte("biomes: [{id: snow}]\n"), 0o644)

	timeout := time.After(2 * time.Second)
	for {
		select {
		case name := <-w.Events:
			if name == filepath.Join(dir, "other.yaml") {
				t.Fatalf("unwatched sibling reported")
			}
			if name == path {
				return
			}
		case err := <-w.Errors:
			t.Fatalf("watcher error: %v", err)
		case <-timeout:
			t.Fatalf("no event for %s", path)
		}
	}
}

func TestFileKinds(t *testing.T) {
	cases := map[string][2]bool{
		"a.yaml":    {true, false},
		"a.YML":     {true, false},
		"a.json":    {true, false},
		"m.tengo":   {false, true},
		"notes.txt": {false, false},
	}
	for name, want := range cases {
		if IsConfigFile(name) != want[0] || IsScriptFile(name) != want[1] {
			t.Fatalf("%s: unexpected classification", name)
		}
	}
}
