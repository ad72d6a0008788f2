package potion

import (
	"cmp"
	"iter"
	"slices"

	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"
)

// EntityList owns every entity in a scene. Structural changes are queued and
// applied by UpdateList, so update and draw loops never see a list that is
// half mutated.
type EntityList struct {
	scene *Scene
	ctx   *Context
	log   *zap.Logger

	entities []Entity
	byName   map[string]Entity
	slots    []Entity
	handles  handlePool

	// Z-sorted, descending, for the draw loop.
	drawList      []Entity
	drawListDirty bool

	toAdd        []Entity
	toRemove     []Entity
	namesToAdd   mapset.Set[string]
	toActivate   []Entity
	toDeactivate []Entity

	// Add/remove requests made while UpdateList runs land here and are
	// queued normally once it finishes.
	updating             bool
	addedWhileUpdating   []Entity
	removedWhileUpdating []Entity
}

func newEntityList(scene *Scene, ctx *Context) *EntityList {
	return &EntityList{
		scene:      scene,
		ctx:        ctx,
		log:        ctx.Log,
		byName:     make(map[string]Entity),
		namesToAdd: mapset.New[string](),
	}
}

// Len returns the number of live entities.
func (l *EntityList) Len() int { return len(l.entities) }

// All iterates over live entities in insertion order.
func (l *EntityList) All() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, e := range l.entities {
			if !yield(e) {
				return
			}
		}
	}
}

// Active iterates over live, active entities in insertion order.
func (l *EntityList) Active() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, e := range l.entities {
			if e.Base().active && !yield(e) {
				return
			}
		}
	}
}

// DrawList returns entities in draw order. The returned slice MUST NOT be
// mutated.
func (l *EntityList) DrawList() []Entity { return l.drawList }

// Get returns the live entity with the given name, or nil.
func (l *EntityList) Get(name string) Entity {
	return l.byName[name]
}

// Lookup resolves a handle to its entity. Handles of removed entities do not
// resolve, even if their slot has been reused.
func (l *EntityList) Lookup(h Handle) (Entity, bool) {
	if !l.handles.alive(h) {
		return nil, false
	}
	return l.slots[h.Index()], true
}

// Add queues e to join the list at the next UpdateList. An entity whose name
// is already live or queued is dropped and the error logged.
func (l *EntityList) Add(e Entity) {
	if l.updating {
		l.addedWhileUpdating = append(l.addedWhileUpdating, e)
		return
	}

	b := e.Base()
	if b.self == nil {
		b.self = e
	}
	b.assignName()

	if b.list != nil && b.list != l {
		l.log.Error("entity already belongs to another scene", zap.Stringer("entity", b))
		return
	}
	if b.state != entityDetached {
		return
	}
	if l.nameTaken(b.name) {
		l.log.Error("cannot add entity; name already exists",
			zap.Stringer("entity", b), zap.String("name", b.name))
		return
	}

	b.list = l
	b.state = entityQueued
	l.toAdd = append(l.toAdd, e)
	l.namesToAdd.Put(b.name)
	l.flagDrawListSort()
}

// Remove queues a live entity for removal at the next UpdateList.
func (l *EntityList) Remove(e Entity) {
	if l.updating {
		l.removedWhileUpdating = append(l.removedWhileUpdating, e)
		return
	}

	b := e.Base()
	if b.list != l || b.state != entityLive {
		return
	}
	b.state = entityRemoving
	l.toRemove = append(l.toRemove, e)
}

// SetActive queues e for activation, cancelling a pending deactivation.
func (l *EntityList) SetActive(e Entity) {
	l.toDeactivate = deleteEntity(l.toDeactivate, e)
	if !slices.Contains(l.toActivate, e) {
		l.toActivate = append(l.toActivate, e)
	}
}

// SetInactive queues e for deactivation, cancelling a pending activation.
func (l *EntityList) SetInactive(e Entity) {
	l.toActivate = deleteEntity(l.toActivate, e)
	if !slices.Contains(l.toDeactivate, e) {
		l.toDeactivate = append(l.toDeactivate, e)
	}
}

// Rename moves a live entity to a new name. It fails, logging why, if the
// old name is unknown or the new one is taken.
func (l *EntityList) Rename(oldName, newName string) bool {
	e, ok := l.byName[oldName]
	if !ok {
		l.log.Error("cannot rename entity; it is not in the list",
			zap.String("from", oldName), zap.String("to", newName))
		return false
	}
	if l.nameTaken(newName) {
		l.log.Error("cannot rename entity; name already exists",
			zap.String("from", oldName), zap.String("to", newName))
		return false
	}
	delete(l.byName, oldName)
	l.byName[newName] = e
	return true
}

// renameQueued moves the reserved name of an entity waiting to be added.
func (l *EntityList) renameQueued(oldName, newName string) bool {
	if l.nameTaken(newName) {
		l.log.Error("cannot rename entity; name already exists",
			zap.String("from", oldName), zap.String("to", newName))
		return false
	}
	l.namesToAdd.Remove(oldName)
	l.namesToAdd.Put(newName)
	return true
}

// nameTaken reports whether a live or queued entity uses name.
func (l *EntityList) nameTaken(name string) bool {
	_, live := l.byName[name]
	return live || l.namesToAdd.Has(name)
}

func (l *EntityList) flagDrawListSort() {
	l.drawListDirty = true
}

// UpdateList applies queued changes. It runs once per frame before Update
// and Draw, in this order: merge adds and removes, Awake, activations,
// Start, deactivations, End, draw-list sort. Changes requested while it runs
// are queued for the following call.
func (l *EntityList) UpdateList() {
	l.updating = true

	for _, e := range l.toAdd {
		b := e.Base()
		b.handle = l.handles.create()
		idx := int(b.handle.Index())
		if idx >= len(l.slots) {
			l.slots = append(l.slots, make([]Entity, idx-len(l.slots)+1)...)
		}
		l.slots[idx] = e
		l.entities = append(l.entities, e)
		l.drawList = append(l.drawList, e)
		l.byName[b.name] = e
		b.state = entityLive
		b.ensureCollisionSets()
		if !b.startInactive {
			l.SetActive(e)
		}
		l.emit(EventEntityAdded, e, nil)
	}

	for _, e := range l.toRemove {
		b := e.Base()
		l.entities = deleteEntity(l.entities, e)
		l.drawList = deleteEntity(l.drawList, e)
		delete(l.byName, b.name)
		l.slots[b.handle.Index()] = nil
		l.handles.release(b.handle)
		l.SetInactive(e)
		l.emit(EventEntityRemoved, e, nil)
	}

	for _, e := range l.toAdd {
		if h, ok := e.(Awaker); ok {
			h.Awake(l.ctx)
		}
	}

	// Hooks may queue further (de)activations; index loops pick them up.
	for i := 0; i < len(l.toActivate); i++ {
		e := l.toActivate[i]
		b := e.Base()
		if b.active {
			continue
		}
		b.active = true
		if h, ok := e.(Activator); ok {
			h.OnActivate(l.ctx)
		}
	}

	for _, e := range l.toAdd {
		b := e.Base()
		if b.started {
			continue
		}
		b.started = true
		if h, ok := e.(Starter); ok {
			h.Start(l.ctx)
		}
	}

	for i := 0; i < len(l.toDeactivate); i++ {
		e := l.toDeactivate[i]
		b := e.Base()
		if !b.active {
			continue
		}
		b.active = false
		if h, ok := e.(Deactivator); ok {
			h.OnDeactivate(l.ctx)
		}
	}

	for _, e := range l.toRemove {
		if h, ok := e.(Ender); ok {
			h.End(l.ctx)
		}
		b := e.Base()
		if b.level != nil {
			b.level.RemoveEntity(e)
		}
		clearSet(b.collisionsThisFrame)
		clearSet(b.collisionsLastFrame)
		b.mouseThisFrame, b.mouseLastFrame = false, false
		b.list = nil
		b.handle = 0
		b.state = entityDetached
	}

	if l.drawListDirty {
		l.SortDrawList()
	}

	l.toAdd = l.toAdd[:0]
	l.toRemove = l.toRemove[:0]
	l.namesToAdd = mapset.New[string]()
	l.toActivate = l.toActivate[:0]
	l.toDeactivate = l.toDeactivate[:0]

	l.updating = false

	if len(l.addedWhileUpdating) > 0 || len(l.removedWhileUpdating) > 0 {
		added, removed := l.addedWhileUpdating, l.removedWhileUpdating
		l.addedWhileUpdating, l.removedWhileUpdating = nil, nil
		for _, e := range added {
			l.Add(e)
		}
		for _, e := range removed {
			l.Remove(e)
		}
	}
}

// SortDrawList orders the draw list by Z, highest first, so entities with a
// lower Z are drawn last and appear in front. Ties keep insertion order.
func (l *EntityList) SortDrawList() {
	slices.SortStableFunc(l.drawList, func(a, b Entity) int {
		return cmp.Compare(b.Base().z, a.Base().z)
	})
	l.drawListDirty = false
}

// Update runs one frame of entity logic: collision bookkeeping for every
// entity, then Update on active entities (skipping pausable ones while the
// scene is paused), then collision and mouse callbacks.
func (l *EntityList) Update() {
	paused := l.scene != nil && l.scene.paused

	for _, e := range l.entities {
		b := e.Base()
		b.collisionsPreUpdate()
		b.mousePreUpdate()
	}

	for _, e := range l.entities {
		b := e.Base()
		if !b.active || (paused && b.Pausable()) {
			continue
		}
		if u, ok := e.(Updater); ok {
			u.Update(l.ctx)
		}
	}

	for _, e := range l.entities {
		b := e.Base()
		b.collisionsPostUpdate()
		b.mousePostUpdate(l.ctx)
	}
}

// Draw calls Draw on every active entity the camera can see, in draw order.
func (l *EntityList) Draw(cam *Camera) {
	for _, e := range l.drawList {
		if !e.Base().active || !cam.CanDraw(e) {
			continue
		}
		if d, ok := e.(Drawer); ok {
			d.Draw(l.ctx, cam)
		}
	}
}

// DebugDraw is Draw for the debug pass.
func (l *EntityList) DebugDraw(cam *Camera) {
	for _, e := range l.drawList {
		if !e.Base().active || !cam.CanDraw(e) {
			continue
		}
		if d, ok := e.(DebugDrawer); ok {
			d.DebugDraw(l.ctx, cam)
		}
	}
}

// End deactivates and ends every live entity. Called when the scene ends.
func (l *EntityList) End() {
	for _, e := range l.entities {
		if !e.Base().active {
			continue
		}
		if h, ok := e.(Deactivator); ok {
			h.OnDeactivate(l.ctx)
		}
	}
	for _, e := range l.entities {
		if h, ok := e.(Ender); ok {
			h.End(l.ctx)
		}
	}
}

func (l *EntityList) emit(t EventType, e, other Entity) {
	if l.scene == nil || l.scene.events == nil {
		return
	}
	ev := Event{
		Type:   t,
		Frame:  l.scene.frame,
		Entity: e.Base().name,
		Handle: e.Base().handle,
	}
	if other != nil {
		ev.Other = other.Base().name
	}
	l.scene.events.Emit(ev)
}

func deleteEntity(s []Entity, e Entity) []Entity {
	if i := slices.Index(s, e); i >= 0 {
		return slices.Delete(s, i, i+1)
	}
	return s
}
