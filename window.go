package potion

import (
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// ViewportMode controls how the window's viewport rect is computed.
type ViewportMode uint8

const (
	// ViewportFree uses the rect given to SetViewport.
	ViewportFree ViewportMode = iota
	// ViewportFitRenderer uses the largest whole multiple of the renderer
	// resolution that fits the window, centered.
	ViewportFitRenderer
	// ViewportMatchWindow covers the whole window.
	ViewportMatchWindow
)

func (m ViewportMode) String() string {
	switch m {
	case ViewportFree:
		return "free"
	case ViewportFitRenderer:
		return "fit_renderer"
	case ViewportMatchWindow:
		return "match_window"
	default:
		return "unknown"
	}
}

// Window is the game window. Every camera composites into the viewport
// texture, which is drawn to the screen at the viewport rect.
type Window struct {
	title     string
	size      Point
	resizable bool
	applied   bool

	fullscreen        bool
	fullscreenQueued  bool
	nextFullscreen    bool
	lastWindowedSize  Point
	viewport          Rect
	viewportMode      ViewportMode
	viewportScale     int
	viewportTexture   *RenderTexture
	renderer          *Renderer
	resolutionChanged *Subscription

	log *zap.Logger

	OnResize          *CallbackList
	OnViewportChanged *CallbackList
	OnFullscreen      *CallbackList
	OnWindowed        *CallbackList
}

// NewWindow creates a window of the given size. The viewport starts in
// ViewportFitRenderer mode and follows the renderer's resolution.
func NewWindow(title string, w, h int, renderer *Renderer, log *zap.Logger) *Window {
	if log == nil {
		log = zap.NewNop()
	}
	win := &Window{
		title:             title,
		size:              Point{max(w, 1), max(h, 1)},
		resizable:         true,
		viewportMode:      ViewportFitRenderer,
		viewportScale:     1,
		renderer:          renderer,
		log:               log,
		OnResize:          NewCallbackList("WindowResize"),
		OnViewportChanged: NewCallbackList("WindowViewportChanged"),
		OnFullscreen:      NewCallbackList("WindowFullscreen"),
		OnWindowed:        NewCallbackList("WindowWindowed"),
	}
	win.OnResize.Subscribe(win.UpdateViewport)
	win.resolutionChanged = renderer.OnResolutionChanged.Subscribe(win.UpdateViewport)
	win.UpdateViewport()
	return win
}

func (w *Window) Title() string { return w.title }

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.title = title
	if w.applied {
		ebiten.SetWindowTitle(title)
	}
}

// Size returns the window size in device-independent pixels.
func (w *Window) Size() Point { return w.size }

func (w *Window) Width() int  { return w.size.X }
func (w *Window) Height() int { return w.size.Y }

// SetSize asks the OS window to resize. The new size takes effect when the
// game layout reports it.
func (w *Window) SetSize(width, height int) {
	if w.applied {
		ebiten.SetWindowSize(width, height)
		return
	}
	w.resize(width, height)
}

func (w *Window) SetResizable(resizable bool) {
	w.resizable = resizable
	if w.applied {
		w.applyResizingMode()
	}
}

// Fullscreen reports whether the window is fullscreen.
func (w *Window) Fullscreen() bool { return w.fullscreen }

// SetFullscreen queues a switch between fullscreen and windowed mode. It is
// applied by the next Update.
func (w *Window) SetFullscreen(fullscreen bool) {
	w.fullscreenQueued = true
	w.nextFullscreen = fullscreen
}

// Update applies queued window mode changes. The engine calls it at the
// start of every frame.
func (w *Window) Update() {
	if !w.fullscreenQueued {
		return
	}
	w.fullscreenQueued = false
	if w.nextFullscreen == w.fullscreen {
		return
	}
	w.fullscreen = w.nextFullscreen
	if w.fullscreen {
		w.lastWindowedSize = w.size
	}
	if w.applied {
		ebiten.SetFullscreen(w.fullscreen)
		if !w.fullscreen && w.lastWindowedSize != (Point{}) {
			ebiten.SetWindowSize(w.lastWindowedSize.X, w.lastWindowedSize.Y)
		}
	}
	if w.fullscreen {
		w.OnFullscreen.Execute()
	} else {
		w.OnWindowed.Execute()
	}
}

// Viewport returns the region of the window the game draws to.
func (w *Window) Viewport() Rect { return w.viewport }

// ViewportMode returns how the viewport is computed.
func (w *Window) ViewportMode() ViewportMode { return w.viewportMode }

// SetViewportMode changes the viewport mode and recomputes the viewport.
func (w *Window) SetViewportMode(mode ViewportMode) {
	w.viewportMode = mode
	w.UpdateViewport()
}

// SetViewport sets the viewport rect. It only has an effect in ViewportFree
// mode.
func (w *Window) SetViewport(r Rect) {
	if w.viewportMode != ViewportFree {
		w.log.Error("viewport mode must be free to set the viewport",
			zap.Stringer("mode", w.viewportMode))
		return
	}
	w.viewport = r
	w.UpdateViewport()
}

// ViewportScale is the whole-number scale of the viewport relative to the
// renderer resolution. It is only meaningful in ViewportFitRenderer mode.
func (w *Window) ViewportScale() int { return w.viewportScale }

// ViewportTexture is the texture every camera composites into.
func (w *Window) ViewportTexture() *RenderTexture { return w.viewportTexture }

// UpdateViewport recomputes the viewport rect and texture, then fires
// OnViewportChanged.
func (w *Window) UpdateViewport() {
	switch w.viewportMode {
	case ViewportFree:
		w.viewportScale = 1
	case ViewportFitRenderer:
		w.viewport, w.viewportScale = fitViewport(w.size, w.renderer.Resolution())
	case ViewportMatchWindow:
		w.viewport = Rect{0, 0, w.size.X, w.size.Y}
		w.viewportScale = 1
	}

	if w.viewportTexture == nil {
		w.viewportTexture = NewRenderTexture(w.viewport.Width, w.viewport.Height)
	} else {
		w.viewportTexture.Resize(w.viewport.Width, w.viewport.Height)
	}
	w.OnViewportChanged.Execute()
}

// fitViewport returns the largest whole multiple of res, at least 1x, that
// fits inside a window of the given size, centered.
func fitViewport(window, res Point) (Rect, int) {
	sx := float64(window.X) / float64(res.X)
	sy := float64(window.Y) / float64(res.Y)
	scale := max(int(min(sx, sy)), 1)

	vw := res.X * scale
	vh := res.Y * scale
	return Rect{
		X:      window.X/2 - vw/2,
		Y:      window.Y/2 - vh/2,
		Width:  vw,
		Height: vh,
	}, scale
}

// Present draws the viewport texture to the screen.
func (w *Window) Present(screen *ebiten.Image) {
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(w.viewport.X), float64(w.viewport.Y))
	screen.DrawImage(w.viewportTexture.Image(), &op)
}

// resize records a new window size, firing OnResize when it changed.
func (w *Window) resize(width, height int) {
	size := Point{max(width, 1), max(height, 1)}
	if size == w.size {
		return
	}
	w.size = size
	w.OnResize.Execute()
}

// apply pushes the window settings to ebiten. Called once before the game
// loop starts.
func (w *Window) apply() {
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowSize(w.size.X, w.size.Y)
	w.applyResizingMode()
	ebiten.SetFullscreen(w.fullscreen)
	w.applied = true
}

func (w *Window) applyResizingMode() {
	if w.resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	} else {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	}
}

// Dispose releases the viewport texture and renderer subscription.
func (w *Window) Dispose() {
	w.resolutionChanged.Unsubscribe()
	if w.viewportTexture != nil {
		w.viewportTexture.Dispose()
		w.viewportTexture = nil
	}
}
