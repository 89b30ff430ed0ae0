package history

import (
	"fmt"
	"time"

	"github.com/milk9111/biomeeditor/grid"
	"github.com/milk9111/biomeeditor/layer"
)

// Change records one cell's value before and after a command.
type Change struct {
	Point grid.Point
	Old   grid.Tile
	New   grid.Tile
}

// Command is a closed, immutable batch of changes to one layer.
type Command struct {
	layer   layer.ID
	label   string
	changes []Change
	at      time.Time
}

func (c *Command) Layer() layer.ID { return c.layer }

func (c *Command) Label() string { return c.label }

func (c *Command) Len() int { return len(c.changes) }

// Changes returns a copy of the recorded changes in application order.
func (c *Command) Changes() []Change {
	out := make([]Change, len(c.changes))
	copy(out, c.changes)
	return out
}

func (c *Command) String() string {
	return fmt.Sprintf("%s (%d tiles, layer %d)", c.label, len(c.changes), c.layer)
}

// forward replays New in order.
func (c *Command) forward(g *grid.Grid) error {
	for _, ch := range c.changes {
		if _, err := g.Set(ch.Point.X, ch.Point.Y, ch.New); err != nil {
			return fmt.Errorf("redo %s: %w", c.label, err)
		}
	}
	return nil
}

// backward restores Old in reverse order.
func (c *Command) backward(g *grid.Grid) error {
	for i := len(c.changes) - 1; i >= 0; i-- {
		ch := c.changes[i]
		if _, err := g.Set(ch.Point.X, ch.Point.Y, ch.Old); err != nil {
			return fmt.Errorf("undo %s: %w", c.label, err)
		}
	}
	return nil
}

// Info describes a command without exposing it.
type Info struct {
	Label     string
	Layer     layer.ID
	Tiles     int
	Timestamp time.Time
}

func (c *Command) info() Info {
	return Info{Label: c.label, Layer: c.layer, Tiles: len(c.changes), Timestamp: c.at}
}
