package potion

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// syntheticPointer is one injected cursor state. Screen coordinates are
// used, exactly as real mouse input reports them.
type syntheticPointer struct {
	pos     Point
	pressed bool
}

// Input is a per-frame snapshot of the cursor, the left mouse button and
// keyboard state. Injected events replace real input one frame at a time,
// which lets scripts and tests drive hover and click behavior.
type Input struct {
	live bool

	cursor      Point
	down        bool
	wasDown     bool
	injectQueue []syntheticPointer

	keys         []ebiten.Key
	injectedKeys []ebiten.Key
}

func NewInput() *Input {
	return &Input{}
}

// Update takes the snapshot for this frame. Before the game loop starts,
// and in tests, only injected events are seen.
func (in *Input) Update() {
	in.wasDown = in.down

	in.keys = in.keys[:0]
	if len(in.injectedKeys) > 0 {
		in.keys = append(in.keys, in.injectedKeys...)
		in.injectedKeys = in.injectedKeys[:0]
	}

	if len(in.injectQueue) > 0 {
		evt := in.injectQueue[0]
		in.injectQueue = slices.Delete(in.injectQueue, 0, 1)
		in.cursor = evt.pos
		in.down = evt.pressed
		return
	}
	if !in.live {
		return
	}
	x, y := ebiten.CursorPosition()
	in.cursor = Point{x, y}
	in.down = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

// Cursor returns the cursor position in window coordinates.
func (in *Input) Cursor() Point { return in.cursor }

// InViewport reports whether the cursor is inside the window's viewport.
func (in *Input) InViewport(w *Window) bool {
	return w.Viewport().ContainsPoint(in.cursor)
}

// MouseDown reports whether the left button is held.
func (in *Input) MouseDown() bool { return in.down }

// MousePressed reports whether the left button went down this frame.
func (in *Input) MousePressed() bool { return in.down && !in.wasDown }

// MouseReleased reports whether the left button went up this frame.
func (in *Input) MouseReleased() bool { return !in.down && in.wasDown }

// KeyJustPressed reports whether k went down this frame.
func (in *Input) KeyJustPressed(k ebiten.Key) bool {
	if slices.Contains(in.keys, k) {
		return true
	}
	return in.live && inpututil.IsKeyJustPressed(k)
}

// KeyPressed reports whether k is held.
func (in *Input) KeyPressed(k ebiten.Key) bool {
	if slices.Contains(in.keys, k) {
		return true
	}
	return in.live && ebiten.IsKeyPressed(k)
}

// InjectCursor queues a cursor move to (x, y) with the button up.
func (in *Input) InjectCursor(x, y int) {
	in.injectQueue = append(in.injectQueue, syntheticPointer{pos: Point{x, y}})
}

// InjectClick queues a press followed by a release at (x, y). It takes two
// frames.
func (in *Input) InjectClick(x, y int) {
	in.injectQueue = append(in.injectQueue,
		syntheticPointer{pos: Point{x, y}, pressed: true},
		syntheticPointer{pos: Point{x, y}},
	)
}

// InjectDrag queues a press at from, moves interpolated over frames-2
// frames and a release at to. Frames is at least 2.
func (in *Input) InjectDrag(from, to Point, frames int) {
	frames = max(frames, 2)
	in.injectQueue = append(in.injectQueue, syntheticPointer{pos: from, pressed: true})
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		p := Vec2{
			X: float64(from.X) + float64(to.X-from.X)*t,
			Y: float64(from.Y) + float64(to.Y-from.Y)*t,
		}
		in.injectQueue = append(in.injectQueue, syntheticPointer{pos: p.Point(), pressed: true})
	}
	in.injectQueue = append(in.injectQueue, syntheticPointer{pos: to})
}

// InjectKey makes k read as just pressed on the next frame.
func (in *Input) InjectKey(k ebiten.Key) {
	in.injectedKeys = append(in.injectedKeys, k)
}

// Pending returns the number of queued cursor events.
func (in *Input) Pending() int { return len(in.injectQueue) }
