package potion

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Direction names the side of a level a neighbor sits on. Above and Below
// are for worlds with layered levels at different depths.
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
	Northeast
	Northwest
	Southeast
	Southwest
	Above
	Below
	numDirections
)

var directionNames = [numDirections]string{
	"north", "south", "east", "west",
	"northeast", "northwest", "southeast", "southwest",
	"above", "below",
}

func (d Direction) String() string {
	if d >= numDirections {
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
	return directionNames[d]
}

// Valid reports whether d is one of the ten known directions.
func (d Direction) Valid() bool { return d < numDirections }

// ParseDirection converts a direction name such as "northeast" to a
// Direction.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("level: unknown direction %q", s)
}

// Level is a rectangular region of a scene. It tracks the entities placed in
// it, which helps with streaming content in and out, camera transitions and
// bulk activation. A level does not own its entities; they stay in the
// scene's EntityList.
type Level struct {
	// Metadata holds arbitrary user data.
	Metadata map[string]any

	scene *Scene
	name  string
	rect  Rect
	depth int

	entities  []Entity
	neighbors [numDirections][]*Level
}

// NewLevel creates a level occupying the given rect.
func NewLevel(name string, x, y, width, height int) *Level {
	return &Level{
		name:     name,
		rect:     Rect{x, y, width, height},
		Metadata: make(map[string]any),
	}
}

func (l *Level) String() string { return "Level(" + l.name + ")" }

func (l *Level) Name() string   { return l.name }
func (l *Level) Scene() *Scene  { return l.scene }
func (l *Level) X() int         { return l.rect.X }
func (l *Level) Y() int         { return l.rect.Y }
func (l *Level) Width() int     { return l.rect.Width }
func (l *Level) Height() int    { return l.rect.Height }
func (l *Level) Rect() Rect     { return l.rect }
func (l *Level) Len() int       { return len(l.entities) }
func (l *Level) SetDepth(d int) { l.depth = d }

// Depth is the level's layer. Lower values are on top of higher ones; 0 is
// the default layer.
func (l *Level) Depth() int { return l.depth }

func (l *Level) log() *zap.Logger {
	if l.scene != nil {
		return l.scene.ctx.Log
	}
	return zap.NewNop()
}

// Neighbors returns the levels linked in the given direction.
func (l *Level) Neighbors(d Direction) []*Level {
	if !d.Valid() {
		return nil
	}
	return l.neighbors[d]
}

// AllNeighbors returns every linked level, grouped by direction.
func (l *Level) AllNeighbors() []*Level {
	var all []*Level
	for _, ns := range l.neighbors {
		all = append(all, ns...)
	}
	return all
}

// AddNeighbor links other in direction d. Links are one-way; call it on
// both levels to link them both ways. A level can be linked only once.
func (l *Level) AddNeighbor(other *Level, d Direction) {
	if !d.Valid() {
		l.log().Error("invalid neighbor direction",
			zap.Stringer("level", l), zap.Stringer("direction", d))
		return
	}
	for dir, ns := range l.neighbors {
		if slices.Contains(ns, other) {
			l.log().Error("level is already a neighbor",
				zap.Stringer("level", l), zap.Stringer("neighbor", other),
				zap.Stringer("direction", Direction(dir)))
			return
		}
	}
	l.neighbors[d] = append(l.neighbors[d], other)
}

// RemoveNeighbor unlinks other in every direction. Like AddNeighbor, it is
// one-way.
func (l *Level) RemoveNeighbor(other *Level) {
	for d, ns := range l.neighbors {
		if i := slices.Index(ns, other); i >= 0 {
			l.neighbors[d] = slices.Delete(ns, i, i+1)
		}
	}
}

// Entities iterates over the level's entities in the order they were added.
func (l *Level) Entities() []Entity { return l.entities }

// Contains reports whether e is registered with the level.
func (l *Level) Contains(e Entity) bool {
	return e.Base().level == l
}

// AddEntity registers e with the level. An entity belongs to at most one
// level at a time.
func (l *Level) AddEntity(e Entity) {
	b := e.Base()
	if b.level != nil {
		l.log().Error("entity already belongs to a level",
			zap.Stringer("entity", b), zap.Stringer("level", b.level))
		return
	}
	b.level = l
	l.entities = append(l.entities, e)
}

// RemoveEntity unregisters e from the level.
func (l *Level) RemoveEntity(e Entity) {
	b := e.Base()
	i := slices.Index(l.entities, e)
	if i < 0 || b.level != l {
		l.log().Error("entity is not in level",
			zap.Stringer("entity", b), zap.Stringer("level", l))
		return
	}
	l.entities = slices.Delete(l.entities, i, i+1)
	b.level = nil
}

// GetEntity returns the level's entity with the given name, or nil.
func (l *Level) GetEntity(name string) Entity {
	for _, e := range l.entities {
		if e.Base().name == name {
			return e
		}
	}
	return nil
}

// SetEntitiesActive queues activation or deactivation of every entity in
// the level.
func (l *Level) SetEntitiesActive(active bool) {
	for _, e := range l.entities {
		e.Base().SetActive(active)
	}
}

// Move places the level's top-left corner at (x, y). If moveEntities is
// set, the level's entities are shifted by the same amount.
func (l *Level) Move(x, y int, moveEntities bool) {
	dx, dy := x-l.rect.X, y-l.rect.Y
	l.rect.X, l.rect.Y = x, y
	if !moveEntities {
		return
	}
	for _, e := range l.entities {
		b := e.Base()
		b.X += dx
		b.Y += dy
	}
}

// Destroy removes the level from its scene. If destroyEntities is set, the
// level's entities are destroyed as well.
func (l *Level) Destroy(destroyEntities bool) {
	if destroyEntities {
		for _, e := range slices.Clone(l.entities) {
			e.Base().Destroy()
		}
	}
	if l.scene != nil {
		l.scene.RemoveLevel(l)
	}
}
