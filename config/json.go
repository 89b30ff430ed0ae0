package config

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/milk9111/biomeeditor/biome"
)

// ParseJSON decodes the JSON form of the config. Unlike Parse it is lenient
// per entry: biomes or layers of the wrong shape are skipped and reported,
// the rest is kept.
func ParseJSON(data []byte) (Config, error) {
	if len(data) == 0 {
		return Empty(), ErrEmpty
	}
	if !gjson.ValidBytes(data) {
		return Empty(), fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Empty(), fmt.Errorf("%w: top level is %s, want object", ErrMalformed, root.Type)
	}

	var c Config
	var errs []error

	c.Grid.Width = int(root.Get("grid.width").Int())
	c.Grid.Height = int(root.Get("grid.height").Int())
	c.Grid.CellSize = int(root.Get("grid.cell_size").Int())

	for i, v := range root.Get("biomes").Array() {
		id := v.Get("id")
		if !v.IsObject() || id.Type != gjson.String {
			errs = append(errs, fmt.Errorf("biomes[%d]: skipped malformed entry", i))
			continue
		}
		c.Biomes = append(c.Biomes, biome.Biome{
			ID:    biome.ID(id.String()),
			Name:  v.Get("name").String(),
			Color: v.Get("color").String(),
		})
	}

	for i, v := range root.Get("layers").Array() {
		name := v.Get("name")
		if !v.IsObject() || name.Type != gjson.String {
			errs = append(errs, fmt.Errorf("layers[%d]: skipped malformed entry", i))
			continue
		}
		lc := LayerConfig{Name: name.String()}
		if vis := v.Get("visible"); vis.IsBool() {
			b := vis.Bool()
			lc.Visible = &b
		}
		c.Layers = append(c.Layers, lc)
	}

	for i, v := range root.Get("zoom.steps").Array() {
		if v.Type != gjson.Number {
			errs = append(errs, fmt.Errorf("zoom.steps[%d]: not a number", i))
			continue
		}
		c.Zoom.Steps = append(c.Zoom.Steps, v.Float())
	}
	c.Zoom.Start = root.Get("zoom.start").Float()
	c.Brush.Size = int(root.Get("brush.size").Int())
	c.History.MaxEntries = int(root.Get("history.max_entries").Int())

	if err := c.normalize(); err != nil {
		errs = append(errs, err)
	}
	return c, errors.Join(errs...)
}
