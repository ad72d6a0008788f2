package potion

import (
	"slices"
	"testing"
)

func TestLifecycleHookOrder(t *testing.T) {
	l, _ := newTestList()
	p := newTracker("p", 0, 0, 1, 1)
	l.Add(p)

	if l.Len() != 0 {
		t.Fatalf("Len before UpdateList = %d, want 0", l.Len())
	}
	step(l)
	want := []string{"awake", "activate", "start", "update"}
	if !slices.Equal(p.calls, want) {
		t.Errorf("calls = %v, want %v", p.calls, want)
	}
	if !p.Started() || !p.Active() {
		t.Errorf("Started/Active = %v/%v, want true/true", p.Started(), p.Active())
	}

	p.calls = nil
	p.Destroy()
	if l.Len() != 1 {
		t.Errorf("Len right after Destroy = %d, want 1", l.Len())
	}
	l.UpdateList()
	want = []string{"deactivate", "end"}
	if !slices.Equal(p.calls, want) {
		t.Errorf("calls on removal = %v, want %v", p.calls, want)
	}
	if l.Len() != 0 || l.Get("p") != nil {
		t.Error("entity still in list after removal")
	}
	if p.Scene() != nil || !p.Handle().IsZero() {
		t.Error("removed entity should be detached")
	}
}

func TestEntityAddedDuringUpdateWaitsAFrame(t *testing.T) {
	l, _ := newTestList()
	child := newTracker("child", 0, 0, 1, 1)
	spawner := newTracker("spawner", 0, 0, 1, 1)
	spawner.onUpdate = func(p *tracker) {
		if p.updates == 1 {
			l.Add(child)
		}
	}
	l.Add(spawner)

	step(l)
	if child.updates != 0 {
		t.Errorf("child updated %d times in the frame it was added, want 0", child.updates)
	}
	if l.Get("child") != nil {
		t.Error("child should still be queued")
	}

	step(l)
	if child.updates != 1 {
		t.Errorf("child updates after next frame = %d, want 1", child.updates)
	}
}

func TestEntityAddedDuringUpdateListIsQueued(t *testing.T) {
	l, _ := newTestList()
	child := newTracker("child", 0, 0, 1, 1)
	parent := newTracker("parent", 0, 0, 1, 1)
	parent.onAwake = func(*tracker) { l.Add(child) }
	l.Add(parent)

	l.UpdateList()
	if l.Get("child") != nil {
		t.Fatal("child promoted during the sync that queued it")
	}
	l.UpdateList()
	if l.Get("child") == nil {
		t.Fatal("child not promoted on the following sync")
	}
	if !slices.Equal(child.calls, []string{"awake", "activate", "start"}) {
		t.Errorf("child calls = %v", child.calls)
	}
}

func TestDuplicateNameRejected(t *testing.T) {
	l, logs := newTestList()
	a := newTracker("dup", 0, 0, 1, 1)
	b := newTracker("dup", 0, 0, 1, 1)
	l.Add(a)
	l.Add(b)
	l.UpdateList()

	if l.Len() != 1 {
		t.Errorf("Len = %d, want 1", l.Len())
	}
	if l.Get("dup") != Entity(a) {
		t.Error("first entity with the name should win")
	}
	if n := logs.FilterMessage("cannot add entity; name already exists").Len(); n != 1 {
		t.Errorf("logged %d duplicate errors, want 1", n)
	}

	c := newTracker("dup", 0, 0, 1, 1)
	l.Add(c)
	l.UpdateList()
	if l.Len() != 1 {
		t.Errorf("Len after adding a live duplicate = %d, want 1", l.Len())
	}
	if n := logs.FilterMessage("cannot add entity; name already exists").Len(); n != 2 {
		t.Errorf("logged %d duplicate errors, want 2", n)
	}
}

func TestAddTwiceIsIgnored(t *testing.T) {
	l, logs := newTestList()
	p := newTracker("p", 0, 0, 1, 1)
	l.Add(p)
	l.Add(p)
	l.UpdateList()
	l.Add(p)
	l.UpdateList()

	if l.Len() != 1 {
		t.Errorf("Len = %d, want 1", l.Len())
	}
	if logs.Len() != 0 {
		t.Errorf("re-adding the same entity logged %d entries, want 0", logs.Len())
	}
}

func TestDrawListOrder(t *testing.T) {
	l, _ := newTestList()
	for _, z := range []int{5, -3, 0} {
		p := &tracker{}
		p.SetZ(z)
		l.Add(p)
	}
	l.UpdateList()

	// Higher Z is drawn first, so -3 ends up in front.
	zs := func() []int {
		var out []int
		for _, e := range l.DrawList() {
			out = append(out, e.Base().Z())
		}
		return out
	}
	if got, want := zs(), []int{5, 0, -3}; !slices.Equal(got, want) {
		t.Errorf("draw order z = %v, want %v", got, want)
	}

	l.DrawList()[2].Base().SetZ(10)
	l.UpdateList()
	if got, want := zs(), []int{10, 5, 0}; !slices.Equal(got, want) {
		t.Errorf("draw order after SetZ = %v, want %v", got, want)
	}
}

func TestDrawListStableForEqualZ(t *testing.T) {
	l, _ := newTestList()
	names := []string{"a", "b", "c", "d"}
	for _, n := range names {
		l.Add(newTracker(n, 0, 0, 1, 1))
	}
	l.UpdateList()

	var got []string
	for _, e := range l.DrawList() {
		got = append(got, e.Base().Name())
	}
	if !slices.Equal(got, names) {
		t.Errorf("draw order = %v, want insertion order %v", got, names)
	}
}

func TestHandlesGoStale(t *testing.T) {
	l, _ := newTestList()
	a := newTracker("a", 0, 0, 1, 1)
	l.Add(a)
	l.UpdateList()

	h := a.Handle()
	if got, ok := l.Lookup(h); !ok || got != Entity(a) {
		t.Fatalf("Lookup(live) = %v, %v", got, ok)
	}

	a.Destroy()
	l.UpdateList()
	if _, ok := l.Lookup(h); ok {
		t.Error("handle of a removed entity still resolves")
	}

	b := newTracker("b", 0, 0, 1, 1)
	l.Add(b)
	l.UpdateList()
	if b.Handle().Index() != h.Index() {
		t.Errorf("slot not reused: index %d, want %d", b.Handle().Index(), h.Index())
	}
	if _, ok := l.Lookup(h); ok {
		t.Error("old handle resolves after its slot was reused")
	}
	if got, ok := l.Lookup(b.Handle()); !ok || got != Entity(b) {
		t.Errorf("Lookup(new) = %v, %v", got, ok)
	}
}

func TestRename(t *testing.T) {
	l, logs := newTestList()
	a := newTracker("a", 0, 0, 1, 1)
	b := newTracker("b", 0, 0, 1, 1)
	l.Add(a)
	l.Add(b)
	l.UpdateList()

	a.SetName("hero")
	if a.Name() != "hero" || l.Get("hero") != Entity(a) || l.Get("a") != nil {
		t.Errorf("rename to free name failed: name=%q", a.Name())
	}

	b.SetName("hero")
	if b.Name() != "b" {
		t.Errorf("Name = %q, want b (rename refused)", b.Name())
	}
	if n := logs.FilterMessage("cannot rename entity; name already exists").Len(); n != 1 {
		t.Errorf("logged %d rename errors, want 1", n)
	}
}

func TestRenameQueued(t *testing.T) {
	l, logs := newTestList()
	a := newTracker("a", 0, 0, 1, 1)
	l.Add(a)
	a.SetName("b")
	if a.Name() != "b" {
		t.Fatalf("Name = %q, want b", a.Name())
	}

	c := newTracker("b", 0, 0, 1, 1)
	l.Add(c)
	if logs.FilterMessage("cannot add entity; name already exists").Len() != 1 {
		t.Error("adding under a queued entity's new name was not refused")
	}
	l.Add(newTracker("a", 0, 0, 1, 1))
	l.UpdateList()
	if l.Len() != 2 || l.Get("b") != Entity(a) || l.Get("a") == nil {
		t.Errorf("Len = %d, Get(b) = %v, Get(a) = %v", l.Len(), l.Get("b"), l.Get("a"))
	}

	d := newTracker("d", 0, 0, 1, 1)
	l.Add(d)
	d.SetName("a")
	if d.Name() != "d" {
		t.Errorf("queued rename onto a live name: Name = %q, want d", d.Name())
	}
	if logs.FilterMessage("cannot rename entity; name already exists").Len() != 1 {
		t.Error("refused queued rename was not logged")
	}
}

func TestRenameWhileRemoving(t *testing.T) {
	l, logs := newTestList()
	a := newTracker("a", 0, 0, 1, 1)
	l.Add(a)
	l.UpdateList()

	a.Destroy()
	a.SetName("z")
	if a.Name() != "a" {
		t.Errorf("Name = %q, want a", a.Name())
	}
	if logs.FilterMessage("cannot rename entity; it is being removed").Len() != 1 {
		t.Error("rename during removal was not logged")
	}
	l.UpdateList()
	if l.Get("a") != nil {
		t.Error("removed entity still found by name")
	}

	again := newTracker("a", 0, 0, 1, 1)
	l.Add(again)
	l.UpdateList()
	if l.Get("a") != Entity(again) {
		t.Error("name was not freed by the removal")
	}
}

func TestSetActiveQueued(t *testing.T) {
	l, _ := newTestList()
	p := newTracker("p", 0, 0, 1, 1)
	p.SetActive(false)
	l.Add(p)
	step(l)

	if p.Active() || p.updates != 0 {
		t.Fatalf("inactive entity: Active=%v updates=%d", p.Active(), p.updates)
	}
	if !slices.Equal(p.calls, []string{"awake", "start"}) {
		t.Errorf("calls = %v, want [awake start]", p.calls)
	}

	p.SetActive(true)
	if p.Active() {
		t.Error("activation should wait for the next sync")
	}
	step(l)
	if !p.Active() || p.updates != 1 {
		t.Errorf("after activation: Active=%v updates=%d", p.Active(), p.updates)
	}

	p.calls = nil
	p.SetActive(false)
	p.SetActive(true)
	l.UpdateList()
	if len(p.calls) != 0 {
		t.Errorf("cancelled deactivation fired %v", p.calls)
	}
}

func TestPausedSceneSkipsPausable(t *testing.T) {
	ctx, _ := newTestContext()
	scene := &Scene{ctx: ctx, log: ctx.Log, paused: true}
	l := newEntityList(scene, ctx)

	pausable := newTracker("pausable", 0, 0, 1, 1)
	ui := newTracker("ui", 0, 0, 1, 1)
	ui.SetPausable(false)
	l.Add(pausable)
	l.Add(ui)
	step(l)

	if pausable.updates != 0 {
		t.Errorf("pausable updates = %d, want 0", pausable.updates)
	}
	if ui.updates != 1 {
		t.Errorf("unpausable updates = %d, want 1", ui.updates)
	}

	scene.paused = false
	step(l)
	if pausable.updates != 1 {
		t.Errorf("pausable updates after unpause = %d, want 1", pausable.updates)
	}
}

func TestDestroyedEntityFinishesFrame(t *testing.T) {
	l, _ := newTestList()
	p := newTracker("p", 0, 0, 1, 1)
	p.onUpdate = func(p *tracker) { p.Destroy() }
	l.Add(p)
	step(l)

	if l.Get("p") == nil {
		t.Fatal("entity removed before the next sync")
	}
	l.UpdateList()
	if l.Get("p") != nil {
		t.Error("entity still live after sync")
	}
	if p.calls[len(p.calls)-1] != "end" {
		t.Errorf("last call = %q, want end", p.calls[len(p.calls)-1])
	}
}

func TestEndDeactivatesActiveOnly(t *testing.T) {
	l, _ := newTestList()
	on := newTracker("on", 0, 0, 1, 1)
	off := newTracker("off", 0, 0, 1, 1)
	off.SetActive(false)
	l.Add(on)
	l.Add(off)
	l.UpdateList()
	on.calls, off.calls = nil, nil

	l.End()
	if !slices.Equal(on.calls, []string{"deactivate", "end"}) {
		t.Errorf("active calls = %v", on.calls)
	}
	if !slices.Equal(off.calls, []string{"end"}) {
		t.Errorf("inactive calls = %v", off.calls)
	}
}

type recordingSink struct {
	events []Event
}

func (s *recordingSink) Emit(e Event) { s.events = append(s.events, e) }

func (s *recordingSink) types() []EventType {
	var out []EventType
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

func TestEventSink(t *testing.T) {
	ctx, _ := newTestContext()
	sink := &recordingSink{}
	scene := &Scene{ctx: ctx, log: ctx.Log, events: sink}
	l := newEntityList(scene, ctx)

	a := newTracker("a", 0, 0, 4, 4)
	b := newTracker("b", 10, 0, 4, 4)
	l.Add(a)
	l.Add(b)
	step(l)

	a.onUpdate = func(p *tracker) { p.MoveX(8) }
	step(l)
	a.onUpdate = func(p *tracker) { p.Move(0, 0) }
	step(l)
	a.Destroy()
	l.UpdateList()

	want := []EventType{
		EventEntityAdded, EventEntityAdded,
		EventCollisionBegin, EventCollisionBegin,
		EventCollisionEnd, EventCollisionEnd,
		EventEntityRemoved,
	}
	if got := sink.types(); !slices.Equal(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	begin := sink.events[2]
	if begin.Entity != "a" || begin.Other != "b" {
		t.Errorf("begin event = %+v, want a->b", begin)
	}
	if sink.events[0].Handle.IsZero() {
		t.Error("added event should carry the handle")
	}
}

func TestEventTypeString(t *testing.T) {
	if got := EventCollisionBegin.String(); got != "collision_begin" {
		t.Errorf("String = %q", got)
	}
	if got := EventType(42).String(); got != "unknown" {
		t.Errorf("String = %q, want unknown", got)
	}
}

func TestHandlePool(t *testing.T) {
	var p handlePool
	a := p.create()
	b := p.create()
	if a.Index() != 0 || b.Index() != 1 {
		t.Fatalf("indices = %d, %d, want 0, 1", a.Index(), b.Index())
	}
	if a.Generation() != 1 || a.IsZero() {
		t.Errorf("first handle = %x", uint64(a))
	}

	p.release(a)
	p.release(a)
	if p.alive(a) {
		t.Error("released handle still alive")
	}
	c := p.create()
	if c.Index() != 0 || c.Generation() != 2 {
		t.Errorf("reused handle index/gen = %d/%d, want 0/2", c.Index(), c.Generation())
	}
	if d := p.create(); d.Index() != 2 {
		t.Errorf("double release put slot back twice: index %d, want 2", d.Index())
	}
	if p.alive(Handle(0)) {
		t.Error("zero handle reported alive")
	}
}
