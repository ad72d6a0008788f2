package potion

import (
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// DebugColor is the default outline color for debug drawing.
var DebugColor = Color{R: 0, G: 1, B: 0, A: 1}

// DrawRect draws a rectangle given in world coordinates onto the camera's
// current target. Filled rects are solid, otherwise a one pixel outline is
// drawn inside the rect's edges.
func DrawRect(cam *Camera, r Rect, c Color, filled bool) {
	if r.Empty() {
		return
	}
	p := cam.WorldToRender(r.Position())
	x, y := float32(p.X), float32(p.Y)
	w, h := float32(r.Width), float32(r.Height)
	if filled {
		vector.DrawFilledRect(cam.Target(), x, y, w, h, c.RGBA(), false)
		return
	}
	vector.StrokeRect(cam.Target(), x+0.5, y+0.5, w-1, h-1, 1, c.RGBA(), false)
}

// DrawBBox outlines an entity's collision box in DebugColor. Call it from
// DebugDraw.
func DrawBBox(cam *Camera, e Entity) {
	DrawRect(cam, e.Base().BBox(), DebugColor, false)
}
