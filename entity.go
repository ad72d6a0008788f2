package potion

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"
)

// Entity is any game object managed by an EntityList. Concrete entities embed
// BaseEntity, which provides Base, and opt into lifecycle and collision hooks
// by implementing the optional interfaces below.
type Entity interface {
	Base() *BaseEntity
}

// Awaker is called once after the entity is promoted from the add queue.
type Awaker interface {
	Awake(ctx *Context)
}

// Activator is called each time the entity becomes active.
type Activator interface {
	OnActivate(ctx *Context)
}

// Starter is called once, after Awake, just before the first Update.
type Starter interface {
	Start(ctx *Context)
}

// Updater is called once per frame while the entity is active.
type Updater interface {
	Update(ctx *Context)
}

// Drawer draws the entity for one camera. Drawing goes to cam.Target(),
// which is the camera's "Default" pass unless the entity binds another pass
// with Camera.WithPass.
type Drawer interface {
	Draw(ctx *Context, cam *Camera)
}

// DebugDrawer is called after the draw loop while debug mode is on. Its
// output goes to the camera's "Debug" pass.
type DebugDrawer interface {
	DebugDraw(ctx *Context, cam *Camera)
}

// Deactivator is called each time the entity is deactivated, including when
// it is removed or the scene ends.
type Deactivator interface {
	OnDeactivate(ctx *Context)
}

// Ender is called once, immediately before the entity leaves its list.
type Ender interface {
	End(ctx *Context)
}

// CollisionBeginner is called on the first frame two entities touch.
type CollisionBeginner interface {
	OnCollisionBegin(other Entity)
}

// CollisionStayer is called every frame after the first that two entities
// are still touching.
type CollisionStayer interface {
	OnCollisionStay(other Entity)
}

// CollisionEnder is called on the first frame two entities stop touching.
type CollisionEnder interface {
	OnCollisionEnd(other Entity)
}

// MouseEnterer is called on the first frame the cursor is over the entity.
type MouseEnterer interface{ OnMouseEnter() }

// MouseOverer is called every frame after the first that the cursor stays
// over the entity.
type MouseOverer interface{ OnMouseOver() }

// MouseExiter is called on the first frame the cursor leaves the entity.
type MouseExiter interface{ OnMouseExit() }

// Intersector replaces the default bounding-box test used when another
// entity checks for a collision against this one. A tile layer, for example,
// reports an intersection only where one of its cells is occupied.
type Intersector interface {
	Intersects(r Rect) bool
}

type entityState uint8

const (
	entityDetached entityState = iota
	entityQueued
	entityLive
	entityRemoving
)

// BaseEntity holds the state every entity shares: identity, integer position
// with sub-pixel remainders, collision flags and per-frame collision sets.
// The zero value is ready to use; entities start active and pausable.
type BaseEntity struct {
	// X and Y are the integer world position.
	X, Y int
	// Width and Height size the collision box. They need not match the
	// visual size.
	Width, Height int

	// CollisionsEnabled makes the entity take part in collision checks.
	CollisionsEnabled bool
	// Solid entities block the movement of others.
	Solid bool
	// MouseCollisionsEnabled turns on mouse enter/over/exit callbacks.
	MouseCollisionsEnabled bool

	// Metadata holds arbitrary user data.
	Metadata map[string]any

	name     string
	tags     mapset.Set[string]
	tagsInit bool
	z        int

	// Fractional movement carried between MoveX/MoveY calls.
	xr, yr float64

	active        bool
	startInactive bool
	notPausable   bool
	started       bool

	collisionsInit      bool
	collisionsThisFrame mapset.Set[Entity]
	collisionsLastFrame mapset.Set[Entity]
	mouseThisFrame      bool
	mouseLastFrame      bool

	self   Entity
	list   *EntityList
	level  *Level
	handle Handle
	state  entityState
}

// Base returns b. It lets any struct embedding BaseEntity satisfy Entity.
func (b *BaseEntity) Base() *BaseEntity { return b }

func (b *BaseEntity) String() string {
	return fmt.Sprintf("%s(%s)", typeName(b.outer()), b.name)
}

// Name returns the entity's unique name. Entities added without a name are
// given one of the form "TypeName-<uuid>".
func (b *BaseEntity) Name() string { return b.name }

// SetName renames the entity. While the entity belongs to a list the rename
// is refused (and logged) if another live or queued entity already uses the
// name, or if the entity is being removed.
func (b *BaseEntity) SetName(name string) {
	if name == b.name {
		return
	}
	if b.list != nil {
		switch b.state {
		case entityLive:
			if !b.list.Rename(b.name, name) {
				return
			}
		case entityQueued:
			if !b.list.renameQueued(b.name, name) {
				return
			}
		case entityRemoving:
			b.list.log.Error("cannot rename entity; it is being removed",
				zap.String("from", b.name), zap.String("to", name))
			return
		}
	}
	b.name = name
}

// Tags returns the entity's tag set.
func (b *BaseEntity) Tags() mapset.Set[string] {
	b.ensureTags()
	return b.tags
}

// AddTag adds one or more tags.
func (b *BaseEntity) AddTag(tags ...string) {
	b.ensureTags()
	for _, t := range tags {
		b.tags.Put(t)
	}
}

func (b *BaseEntity) RemoveTag(tag string) {
	b.ensureTags()
	b.tags.Remove(tag)
}

func (b *BaseEntity) HasTag(tag string) bool {
	b.ensureTags()
	return b.tags.Has(tag)
}

func (b *BaseEntity) ensureTags() {
	if !b.tagsInit {
		b.tags = mapset.New[string]()
		b.tagsInit = true
	}
}

// Z is the draw depth. Higher values are drawn further back.
func (b *BaseEntity) Z() int { return b.z }

// SetZ changes the draw depth and flags the draw list for re-sorting.
func (b *BaseEntity) SetZ(z int) {
	if z == b.z {
		return
	}
	if b.list != nil {
		b.list.flagDrawListSort()
	}
	b.z = z
}

// Active reports whether the entity takes part in update, draw and
// collisions.
func (b *BaseEntity) Active() bool { return b.active }

// SetActive queues activation or deactivation. The change, and the matching
// OnActivate/OnDeactivate hook, happens at the next list sync. Before the
// entity is live, SetActive(false) makes it join the list inactive.
func (b *BaseEntity) SetActive(active bool) {
	if b.list == nil || b.state == entityQueued {
		b.startInactive = !active
		return
	}
	if active {
		b.list.SetActive(b.outer())
	} else {
		b.list.SetInactive(b.outer())
	}
}

// Pausable entities skip their Update hook while the scene is paused.
func (b *BaseEntity) Pausable() bool { return !b.notPausable }

func (b *BaseEntity) SetPausable(pausable bool) { b.notPausable = !pausable }

// Started reports whether Start has run.
func (b *BaseEntity) Started() bool { return b.started }

func (b *BaseEntity) Position() Point { return Point{b.X, b.Y} }

func (b *BaseEntity) SetPosition(p Point) {
	b.X = p.X
	b.Y = p.Y
}

// Remainder returns the sub-pixel movement carried on each axis.
func (b *BaseEntity) Remainder() Vec2 { return Vec2{b.xr, b.yr} }

// BBox returns the collision box at the current position.
func (b *BaseEntity) BBox() Rect {
	return Rect{b.X, b.Y, b.Width, b.Height}
}

// Handle returns the entity's slot handle, or zero if it is not live.
func (b *BaseEntity) Handle() Handle { return b.handle }

// Scene returns the scene whose list holds the entity, or nil.
func (b *BaseEntity) Scene() *Scene {
	if b.list == nil {
		return nil
	}
	return b.list.scene
}

// Level returns the level the entity is registered with, or nil.
func (b *BaseEntity) Level() *Level { return b.level }

// Find looks up another entity in the same list by name.
func (b *BaseEntity) Find(name string) Entity {
	if b.list == nil {
		return nil
	}
	return b.list.Get(name)
}

// Destroy queues the entity for removal at the next list sync. It still
// receives the rest of the current frame's update and draw calls.
func (b *BaseEntity) Destroy() {
	if b.list != nil {
		b.list.Remove(b.outer())
	}
}

// CollidingWith reports whether other was registered as touching this
// entity during the current frame.
func (b *BaseEntity) CollidingWith(other Entity) bool {
	return b.collisionsThisFrame.Has(other)
}

// Collisions returns the entities touching this one this frame.
func (b *BaseEntity) Collisions() []Entity {
	out := make([]Entity, 0, b.collisionsThisFrame.Size())
	b.collisionsThisFrame.Each(func(e Entity) {
		out = append(out, e)
	})
	return out
}

// MouseOver reports whether the cursor was over the entity this frame.
func (b *BaseEntity) MouseOver() bool { return b.mouseThisFrame }

// MoveX moves the entity along the X axis one pixel at a time. A solid
// entity in the way stops the walk and discards the carried remainder.
func (b *BaseEntity) MoveX(amount float64) {
	var move int
	move, b.xr = floorDivMod(amount + b.xr)
	dir := Sign(move)

	for move != 0 {
		nx := b.X + dir
		if b.invokeCollisions(nx, b.Y, true) {
			b.xr = 0
			return
		}
		b.X = nx
		move -= dir
		b.invokeCollisions(b.X, b.Y, false)
	}
}

// MoveY moves the entity along the Y axis one pixel at a time. A solid
// entity in the way stops the walk and discards the carried remainder.
func (b *BaseEntity) MoveY(amount float64) {
	var move int
	move, b.yr = floorDivMod(amount + b.yr)
	dir := Sign(move)

	for move != 0 {
		ny := b.Y + dir
		if b.invokeCollisions(b.X, ny, true) {
			b.yr = 0
			return
		}
		b.Y = ny
		move -= dir
		b.invokeCollisions(b.X, b.Y, false)
	}
}

// Move teleports the entity to (x, y) and checks for collisions at the
// destination only. Use it for spawning and placement.
func (b *BaseEntity) Move(x, y int) {
	b.X = x
	b.Y = y
	b.invokeCollisions(x, y, true)
	b.invokeCollisions(x, y, false)
}

// invokeCollisions registers every active entity, solid or not as asked,
// that the entity would touch at (x, y). It reports whether any was found.
func (b *BaseEntity) invokeCollisions(x, y int, solid bool) bool {
	if b.list == nil {
		return false
	}
	self := b.outer()
	hit := false
	for other := range b.list.Active() {
		if other == self {
			continue
		}
		ob := other.Base()
		if ob.Solid != solid {
			continue
		}
		if b.collidesAt(x, y, other) {
			b.registerCollision(other)
			ob.registerCollision(self)
			hit = true
		}
	}
	return hit
}

// collidesAt reports whether the entity, placed at (x, y), touches other.
func (b *BaseEntity) collidesAt(x, y int, other Entity) bool {
	ob := other.Base()
	if !b.active || !ob.active {
		return false
	}
	if !b.CollisionsEnabled || !ob.CollisionsEnabled {
		return false
	}
	box := Rect{x, y, b.Width, b.Height}
	if in, ok := other.(Intersector); ok {
		return in.Intersects(box)
	}
	return ob.BBox().Intersects(box)
}

func (b *BaseEntity) registerCollision(other Entity) {
	b.ensureCollisionSets()
	if b.collisionsThisFrame.Has(other) {
		return
	}
	b.collisionsThisFrame.Put(other)

	if !b.collisionsLastFrame.Has(other) {
		if cb, ok := b.outer().(CollisionBeginner); ok {
			cb.OnCollisionBegin(other)
		}
		if b.list != nil {
			b.list.emit(EventCollisionBegin, b.outer(), other)
		}
	}
}

func (b *BaseEntity) collisionsPreUpdate() {
	b.ensureCollisionSets()
	b.collisionsLastFrame, b.collisionsThisFrame = b.collisionsThisFrame, b.collisionsLastFrame
	clearSet(b.collisionsThisFrame)
}

// collisionsPostUpdate re-tests pairs from last frame that no movement call
// re-registered, then fires stay or end for each of them.
func (b *BaseEntity) collisionsPostUpdate() {
	b.ensureCollisionSets()
	var stale []Entity
	b.collisionsLastFrame.Each(func(other Entity) {
		if !b.collisionsThisFrame.Has(other) {
			stale = append(stale, other)
		}
	})
	for _, other := range stale {
		if b.collidesAt(b.X, b.Y, other) {
			b.collisionsThisFrame.Put(other)
		}
	}

	self := b.outer()
	var last []Entity
	b.collisionsLastFrame.Each(func(other Entity) {
		last = append(last, other)
	})
	for _, other := range last {
		if b.collisionsThisFrame.Has(other) {
			if cb, ok := self.(CollisionStayer); ok {
				cb.OnCollisionStay(other)
			}
			continue
		}
		if cb, ok := self.(CollisionEnder); ok {
			cb.OnCollisionEnd(other)
		}
		if b.list != nil {
			b.list.emit(EventCollisionEnd, self, other)
		}
	}
}

func (b *BaseEntity) mousePreUpdate() {
	b.mouseLastFrame = b.mouseThisFrame
	b.mouseThisFrame = false
}

// mousePostUpdate checks the cursor against every active camera that can
// draw the entity, then fires enter, over or exit.
func (b *BaseEntity) mousePostUpdate(ctx *Context) {
	scene := b.Scene()
	if b.active && b.MouseCollisionsEnabled && scene != nil && ctx != nil && ctx.Input.InViewport(ctx.Window) {
		cursor := ctx.Input.Cursor()
		box := b.BBox()
		for cam := range scene.Cameras().Active() {
			if cam.CanDraw(b.outer()) && box.ContainsPoint(cam.ScreenToWorld(cursor)) {
				b.mouseThisFrame = true
				break
			}
		}
	}

	self := b.outer()
	switch {
	case b.mouseThisFrame && !b.mouseLastFrame:
		if cb, ok := self.(MouseEnterer); ok {
			cb.OnMouseEnter()
		}
	case b.mouseThisFrame:
		if cb, ok := self.(MouseOverer); ok {
			cb.OnMouseOver()
		}
	case b.mouseLastFrame:
		if cb, ok := self.(MouseExiter); ok {
			cb.OnMouseExit()
		}
	}
}

func (b *BaseEntity) ensureCollisionSets() {
	if !b.collisionsInit {
		b.collisionsThisFrame = mapset.New[Entity]()
		b.collisionsLastFrame = mapset.New[Entity]()
		b.collisionsInit = true
	}
}

// outer returns the concrete entity embedding b, falling back to b itself
// before the entity has been added to a list.
func (b *BaseEntity) outer() Entity {
	if b.self != nil {
		return b.self
	}
	return b
}

// assignName gives an unnamed entity a unique "TypeName-<uuid>" name.
func (b *BaseEntity) assignName() {
	if b.name == "" {
		b.name = typeName(b.outer()) + "-" + uuid.NewString()
	}
}

// clearSet empties s in place so its map can be reused next frame.
func clearSet[K comparable](s mapset.Set[K]) {
	s.Each(func(k K) {
		s.Remove(k)
	})
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
