// Package script runs tengo macros against a layer. A macro never touches a
// grid: every paint call is resolved through the tool algorithms into a
// write batch that the caller commits as one undoable gesture.
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/biomeeditor/biome"
	"github.com/milk9111/biomeeditor/grid"
	"github.com/milk9111/biomeeditor/tool"
)

var (
	ErrCompile = errors.New("script: compile")
	ErrRuntime = errors.New("script: runtime")
)

// allowedModules excludes os so macros cannot reach the filesystem.
var allowedModules = []string{"math", "text", "times", "rand", "fmt", "enum"}

// Env is what a macro sees.
type Env struct {
	Grid    grid.Reader
	Catalog *biome.Catalog
	// Biome and Brush are the defaults for calls that omit them.
	Biome biome.ID
	Brush int
}

type Result struct {
	Writes []tool.Write
	// Output collects editor.log lines.
	Output []string
}

// Run compiles and runs src. On any error no writes are returned.
func Run(ctx context.Context, src []byte, env Env) (Result, error) {
	if env.Grid == nil {
		return Result{}, fmt.Errorf("%w: no target grid", ErrRuntime)
	}
	if env.Brush == 0 {
		env.Brush = 1
	}
	r := &runner{env: env, index: map[grid.Point]int{}}
	r.view = &overlay{base: env.Grid, r: r}

	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap(allowedModules...))
	if err := s.Add("editor", r.module()); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrCompile, err)
	}
	compiled, err := s.Compile()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrCompile, err)
	}
	if err := compiled.RunContext(ctx); err != nil {
		if r.err != nil {
			return Result{Output: r.output}, fmt.Errorf("%w: %w", ErrRuntime, r.err)
		}
		return Result{Output: r.output}, fmt.Errorf("%w: %v", ErrRuntime, err)
	}
	return Result{Writes: r.writes, Output: r.output}, nil
}

type runner struct {
	env    Env
	view   *overlay
	writes []tool.Write
	index  map[grid.Point]int
	output []string
	// err is the first editor error raised inside a call.
	err error
}

func (r *runner) fail(err error) error {
	if r.err == nil {
		r.err = err
	}
	return err
}

func (r *runner) record(ws []tool.Write) {
	for _, w := range ws {
		if i, ok := r.index[w.Point]; ok {
			r.writes[i].Tile = w.Tile
			continue
		}
		r.index[w.Point] = len(r.writes)
		r.writes = append(r.writes, w)
	}
}

func (r *runner) apply(k tool.Kind, pts []grid.Point, id biome.ID) (tengo.Object, error) {
	if k != tool.Eraser {
		if err := r.env.Catalog.Validate(id); err != nil {
			return nil, r.fail(err)
		}
	}
	ws, err := tool.Apply(k, tool.Request{Grid: r.view, Points: pts, Brush: r.env.Brush, Tile: grid.Of(id)})
	if err != nil {
		return nil, r.fail(err)
	}
	r.record(ws)
	return &tengo.Int{Value: int64(len(ws))}, nil
}

func (r *runner) module() *tengo.ImmutableMap {
	w, h := r.env.Grid.Dimensions()
	ids := make([]tengo.Object, 0, r.env.Catalog.Len())
	for _, b := range r.env.Catalog.All() {
		ids = append(ids, &tengo.String{Value: string(b.ID)})
	}

	values := map[string]tengo.Object{
		"width":  &tengo.Int{Value: int64(w)},
		"height": &tengo.Int{Value: int64(h)},
		"brush":  &tengo.Int{Value: int64(r.env.Brush)},
		"biome":  &tengo.String{Value: string(r.env.Biome)},
		"biomes": &tengo.ImmutableArray{Value: ids},
	}

	values["paint"] = r.shape("paint", tool.Pencil, 2)
	values["line"] = r.shape("line", tool.Line, 4)
	values["rect"] = r.shape("rect", tool.Rectangle, 4)
	values["fill"] = r.shape("fill", tool.Bucket, 2)

	values["erase"] = &tengo.UserFunction{Name: "erase", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		pts, err := points("erase", args)
		if err != nil {
			return nil, err
		}
		return r.apply(tool.Eraser, pts, biome.None)
	}}

	values["set"] = &tengo.UserFunction{Name: "set", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		pts, err := points("set", args[:2])
		if err != nil {
			return nil, err
		}
		id, err := biomeArg("set", args[2])
		if err != nil {
			return nil, err
		}
		if err := r.env.Catalog.Validate(id); err != nil {
			return nil, r.fail(err)
		}
		p := pts[0]
		if !r.view.InBounds(p.X, p.Y) {
			return tengo.FalseValue, nil
		}
		r.record([]tool.Write{{Point: p, Tile: grid.Of(id)}})
		return tengo.TrueValue, nil
	}}

	values["get"] = &tengo.UserFunction{Name: "get", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		pts, err := points("get", args)
		if err != nil {
			return nil, err
		}
		t, err := r.view.Get(pts[0].X, pts[0].Y)
		if err != nil {
			return tengo.UndefinedValue, nil
		}
		return &tengo.String{Value: string(t.Biome)}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		r.output = append(r.output, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

// shape binds a tool taking n coordinates and an optional trailing biome id.
func (r *runner) shape(name string, k tool.Kind, n int) *tengo.UserFunction {
	return &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != n && len(args) != n+1 {
			return nil, tengo.ErrWrongNumArguments
		}
		pts, err := points(name, args[:n])
		if err != nil {
			return nil, err
		}
		id := r.env.Biome
		if len(args) == n+1 {
			if id, err = biomeArg(name, args[n]); err != nil {
				return nil, err
			}
		}
		return r.apply(k, pts, id)
	}}
}

// points reads x,y pairs.
func points(name string, args []tengo.Object) ([]grid.Point, error) {
	out := make([]grid.Point, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		x, ok := tengo.ToInt(args[i])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: fmt.Sprintf("%s arg %d", name, i), Expected: "int", Found: args[i].TypeName()}
		}
		y, ok := tengo.ToInt(args[i+1])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: fmt.Sprintf("%s arg %d", name, i+1), Expected: "int", Found: args[i+1].TypeName()}
		}
		out = append(out, grid.Pt(x, y))
	}
	return out, nil
}

func biomeArg(name string, o tengo.Object) (biome.ID, error) {
	s, ok := o.(*tengo.String)
	if !ok {
		return "", tengo.ErrInvalidArgumentType{Name: name + " biome", Expected: "string", Found: o.TypeName()}
	}
	return biome.ID(strings.TrimSpace(s.Value)), nil
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	if s, ok := obj.(*tengo.String); ok {
		return s.Value
	}
	return obj.String()
}

// overlay reads through pending writes so later calls in a macro see
// earlier ones, for example a fill after an outline.
type overlay struct {
	base grid.Reader
	r    *runner
}

func (o *overlay) Dimensions() (int, int) { return o.base.Dimensions() }

func (o *overlay) InBounds(x, y int) bool { return o.base.InBounds(x, y) }

func (o *overlay) Get(x, y int) (grid.Tile, error) {
	if i, ok := o.r.index[grid.Pt(x, y)]; ok {
		return o.r.writes[i].Tile, nil
	}
	return o.base.Get(x, y)
}
