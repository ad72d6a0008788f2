package potion

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenFields(t *testing.T) {
	a, b := 0.0, 10.0
	g := TweenFields([]*float64{&a, &b}, []float64{100, 20}, 1, ease.Linear)

	g.Update(0.25)
	if !approxEqual(a, 25, 1e-4) || !approxEqual(b, 12.5, 1e-4) {
		t.Errorf("quarter = (%v, %v), want (25, 12.5)", a, b)
	}
	if g.Done {
		t.Error("Done before the end")
	}

	g.Update(1)
	if !approxEqual(a, 100, 1e-4) || !approxEqual(b, 20, 1e-4) || !g.Done {
		t.Errorf("end = (%v, %v) done %v", a, b, g.Done)
	}

	a = 5
	g.Update(1)
	if a != 5 {
		t.Error("finished group kept writing")
	}
}

func TestTweenFieldsLimit(t *testing.T) {
	v := make([]float64, 6)
	ptrs := make([]*float64, len(v))
	to := make([]float64, len(v))
	for i := range v {
		ptrs[i] = &v[i]
		to[i] = 1
	}
	g := TweenFields(ptrs, to, 1, ease.Linear)
	g.Update(1)
	if v[3] != 1 || v[4] != 0 || v[5] != 0 {
		t.Errorf("values = %v, want only the first four tweened", v)
	}
}

func TestTweenColor(t *testing.T) {
	c := ColorBlack
	g := TweenColor(&c, ColorWhite, 2, ease.Linear)
	g.Update(1)
	if !approxEqual(c.R, 0.5, 1e-4) || !approxEqual(c.A, 1, 1e-4) {
		t.Errorf("color = %+v, want half gray", c)
	}
}

func TestTweenEntityPosition(t *testing.T) {
	l, _ := newTestList()
	mover := newTracker("mover", 0, 0, 4, 4)
	trigger := newTracker("trigger", 50, 0, 4, 4)
	l.Add(mover)
	l.Add(trigger)
	l.UpdateList()

	g := TweenEntityPosition(mover, 100, 0, 1, ease.Linear)
	g.Update(0.5)
	if mover.X != 50 {
		t.Errorf("X = %d, want 50", mover.X)
	}
	if !mover.CollidingWith(trigger) {
		t.Error("intermediate position should register collisions")
	}

	mover.Destroy()
	l.UpdateList()
	g.Update(0.25)
	if !g.Done || mover.X != 50 {
		t.Errorf("tween kept moving a removed entity: done %v X %d", g.Done, mover.X)
	}
}
