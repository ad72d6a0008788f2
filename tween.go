package potion

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// maxTweenFields is how many fields one TweenGroup drives.
const maxTweenFields = 4

type tweenedField struct {
	dst   *float64
	tween *gween.Tween
}

// TweenGroup animates up to four float64 fields together. Build one with
// TweenFields, TweenColor or TweenEntityPosition and Update it every frame;
// there is no global tween manager. A group bound to an entity stops as
// soon as the entity leaves its list.
type TweenGroup struct {
	fields []tweenedField
	target Entity
	apply  func()

	// Done is set once every field reached its end value or the bound
	// entity went away.
	Done bool
}

// Update advances the group by dt seconds and writes the new values.
func (g *TweenGroup) Update(dt float32) {
	switch {
	case g.Done:
		return
	case g.target != nil && g.target.Base().state == entityDetached:
		g.Done = true
		return
	}

	finishedAll := true
	for _, f := range g.fields {
		v, finished := f.tween.Update(dt)
		*f.dst = float64(v)
		finishedAll = finishedAll && finished
	}
	g.Done = finishedAll

	if g.apply != nil {
		g.apply()
	}
}

// TweenFields animates each field toward the value at the same index in
// to. Extra fields beyond four, or without a target value, are ignored.
func TweenFields(fields []*float64, to []float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	n := min(len(fields), len(to), maxTweenFields)
	g := &TweenGroup{fields: make([]tweenedField, n)}
	for i, dst := range fields[:n] {
		g.fields[i] = tweenedField{
			dst:   dst,
			tween: gween.New(float32(*dst), float32(to[i]), duration, fn),
		}
	}
	return g
}

// TweenColor animates all four components of c to the target color.
func TweenColor(c *Color, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	return TweenFields(
		[]*float64{&c.R, &c.G, &c.B, &c.A},
		[]float64{to.R, to.G, to.B, to.A},
		duration, fn)
}

// TweenEntityPosition moves an entity to (toX, toY). Each step places the
// entity with Move, so collisions are checked at every intermediate
// position. The entity must already be added to a scene.
func TweenEntityPosition(e Entity, toX, toY int, duration float32, fn ease.TweenFunc) *TweenGroup {
	b := e.Base()
	pos := &Vec2{float64(b.X), float64(b.Y)}
	g := TweenFields([]*float64{&pos.X, &pos.Y}, []float64{float64(toX), float64(toY)}, duration, fn)
	g.target = e
	g.apply = func() {
		b.Move(int(math.Round(pos.X)), int(math.Round(pos.Y)))
	}
	return g
}
