package potion

// Names of the passes every camera owns, plus the optional lighting and glow
// passes.
const (
	PassDefault  = "Default"
	PassDebug    = "Debug"
	PassLighting = "Lighting"
	PassGlow     = "Glow"
)

// RenderPass is a named offscreen texture that part of a frame is drawn to.
// Each pass is later composited onto the camera's render texture with its own
// blend mode.
type RenderPass struct {
	name       string
	texture    *RenderTexture
	blend      BlendMode
	clearColor Color
}

// NewRenderPass creates an alpha-composited pass that clears to transparent.
func NewRenderPass(name string) *RenderPass {
	rp := &RenderPass{
		name:  name,
		blend: BlendAlphaComposite,
	}
	rp.texture = NewRenderTexture(2, 2)
	rp.texture.SetBlendMode(rp.blend)
	return rp
}

func (rp *RenderPass) String() string { return "RenderPass(" + rp.name + ")" }

func (rp *RenderPass) Name() string            { return rp.name }
func (rp *RenderPass) Texture() *RenderTexture { return rp.texture }
func (rp *RenderPass) BlendMode() BlendMode    { return rp.blend }
func (rp *RenderPass) ClearColor() Color       { return rp.clearColor }
func (rp *RenderPass) SetClearColor(c Color)   { rp.clearColor = c }

// SetBlendMode sets how the pass is composited.
func (rp *RenderPass) SetBlendMode(b BlendMode) {
	rp.blend = b
	rp.texture.SetBlendMode(b)
}

// CreateTexture re-creates the pass texture at the given size.
func (rp *RenderPass) CreateTexture(w, h int) {
	rp.texture.Resize(w, h)
	rp.texture.SetBlendMode(rp.blend)
}

// Clear fills the texture with the pass's clear color.
func (rp *RenderPass) Clear() {
	rp.texture.Fill(rp.clearColor)
}

func (rp *RenderPass) dispose() {
	rp.texture.Dispose()
}
