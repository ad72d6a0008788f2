package potion

import "go.uber.org/zap"

// Renderer holds the logical resolution the game renders at. Cameras and
// the window subscribe to its callback lists to rebuild their render
// targets when the resolution changes or the render device resets.
type Renderer struct {
	resolution Point
	log        *zap.Logger

	// OnReset fires when render targets must be re-created.
	OnReset *CallbackList
	// OnResolutionChanged fires after SetResolution.
	OnResolutionChanged *CallbackList
}

// NewRenderer creates a renderer with the given logical resolution.
func NewRenderer(w, h int, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		resolution:          Point{max(w, 1), max(h, 1)},
		log:                 log,
		OnReset:             NewCallbackList("RendererReset"),
		OnResolutionChanged: NewCallbackList("RendererResolutionChange"),
	}
}

// Resolution returns the logical resolution.
func (r *Renderer) Resolution() Point { return r.resolution }

// SetResolution changes the logical resolution. Sizes below 1x1 are refused.
func (r *Renderer) SetResolution(w, h int) {
	if w < 1 || h < 1 {
		r.log.Error("renderer resolution must be at least 1x1",
			zap.Int("width", w), zap.Int("height", h))
		return
	}
	if r.resolution == (Point{w, h}) {
		return
	}
	r.resolution = Point{w, h}
	r.OnResolutionChanged.Execute()
}

// Reset asks every subscriber to re-create its render targets.
func (r *Renderer) Reset() {
	r.OnReset.Execute()
}
