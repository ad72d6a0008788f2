package potion

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// IntGrid is a layer of integer cells, such as the collision layer of a
// tile map. Cells hold 0 when empty. The grid collides with a rect when any
// of the rect's corners falls in a non-empty cell, so cells should be at
// least as large as the entities that collide with them.
type IntGrid struct {
	BaseEntity

	// Colors maps cell values to the color they are drawn with. Values
	// missing from the map are not drawn.
	Colors map[int]Color

	gridSize int
	cells    map[Point]int
}

// NewIntGrid creates an empty solid grid at (x, y) with square cells.
func NewIntGrid(x, y, gridSize int) *IntGrid {
	g := &IntGrid{
		gridSize: max(gridSize, 1),
		cells:    make(map[Point]int),
		Colors:   make(map[int]Color),
	}
	g.X, g.Y = x, y
	g.CollisionsEnabled = true
	g.Solid = true
	g.AddTag("ldtk", "ldtk_int_grid")
	return g
}

// LoadIntGridCSV builds a grid from comma separated rows of cell values, as
// written by LDtk's simplified export. Blank fields count as 0.
func LoadIntGridCSV(data []byte, x, y, gridSize int) (*IntGrid, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse int grid: %w", err)
	}
	g := NewIntGrid(x, y, gridSize)
	for cy, row := range rows {
		for cx, field := range row {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("parse int grid: row %d column %d: %w", cy+1, cx+1, err)
			}
			g.SetValue(cx, cy, v)
			g.Width = max(g.Width, (cx+1)*g.gridSize)
		}
		g.Height = max(g.Height, (cy+1)*g.gridSize)
	}
	return g, nil
}

func (g *IntGrid) GridSize() int { return g.gridSize }

// WorldToCell returns the cell containing a world position.
func (g *IntGrid) WorldToCell(p Point) (cx, cy int) {
	size := float64(g.gridSize)
	return int(math.Floor(float64(p.X-g.X) / size)), int(math.Floor(float64(p.Y-g.Y) / size))
}

// CellToWorld returns the world position of a cell's top-left corner.
func (g *IntGrid) CellToWorld(cx, cy int) Point {
	return Point{g.X + cx*g.gridSize, g.Y + cy*g.gridSize}
}

func (g *IntGrid) CellRect(cx, cy int) Rect {
	p := g.CellToWorld(cx, cy)
	return Rect{p.X, p.Y, g.gridSize, g.gridSize}
}

// Value returns the cell's value, or 0 for empty cells.
func (g *IntGrid) Value(cx, cy int) int { return g.cells[Point{cx, cy}] }

// SetValue sets a cell. Setting 0 empties it.
func (g *IntGrid) SetValue(cx, cy, v int) {
	if v == 0 {
		delete(g.cells, Point{cx, cy})
		return
	}
	g.cells[Point{cx, cy}] = v
}

// Len returns the number of non-empty cells.
func (g *IntGrid) Len() int { return len(g.cells) }

// Intersects reports whether any corner of r lies in a non-empty cell.
func (g *IntGrid) Intersects(r Rect) bool {
	if r.Empty() {
		return false
	}
	for _, p := range [...]Point{r.TopLeft(), r.TopRight(), r.BottomLeft(), r.BottomRight()} {
		if g.Value(g.WorldToCell(p)) != 0 {
			return true
		}
	}
	return false
}

func (g *IntGrid) Draw(_ *Context, cam *Camera) {
	if len(g.Colors) == 0 {
		return
	}
	view := cam.Rect()
	for cell, v := range g.cells {
		c, ok := g.Colors[v]
		if !ok {
			continue
		}
		r := g.CellRect(cell.X, cell.Y)
		if !r.Intersects(view) {
			continue
		}
		DrawRect(cam, r, c, true)
	}
}

func (g *IntGrid) DebugDraw(_ *Context, cam *Camera) {
	for cell := range g.cells {
		DrawRect(cam, g.CellRect(cell.X, cell.Y), DebugColor, false)
	}
}
