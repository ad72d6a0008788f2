package potion

import "github.com/hajimehoshi/ebiten/v2"

// RenderTexture is an offscreen render target that knows how it should be
// composited: with which blend mode and which scale filter. Cameras and the
// window re-create theirs with Resize when the viewport or resolution
// changes.
type RenderTexture struct {
	img   *ebiten.Image
	size  Point
	blend BlendMode
	scale ScaleMode
}

// NewRenderTexture allocates a w x h target, at least 1x1, that composites
// with BlendAlphaComposite and nearest filtering.
func NewRenderTexture(w, h int) *RenderTexture {
	rt := &RenderTexture{blend: BlendAlphaComposite}
	rt.allocate(w, h)
	return rt
}

func (rt *RenderTexture) allocate(w, h int) {
	rt.size = Point{max(w, 1), max(h, 1)}
	rt.img = ebiten.NewImage(rt.size.X, rt.size.Y)
}

// Image is the target to draw into. It is nil after Dispose.
func (rt *RenderTexture) Image() *ebiten.Image { return rt.img }

func (rt *RenderTexture) Size() Point { return rt.size }
func (rt *RenderTexture) Width() int  { return rt.size.X }
func (rt *RenderTexture) Height() int { return rt.size.Y }

func (rt *RenderTexture) BlendMode() BlendMode     { return rt.blend }
func (rt *RenderTexture) SetBlendMode(b BlendMode) { rt.blend = b }
func (rt *RenderTexture) ScaleMode() ScaleMode     { return rt.scale }
func (rt *RenderTexture) SetScaleMode(s ScaleMode) { rt.scale = s }

// Clear makes every pixel transparent.
func (rt *RenderTexture) Clear() { rt.img.Clear() }

// Fill paints every pixel with c. A fully transparent color clears.
func (rt *RenderTexture) Fill(c Color) {
	if c.A == 0 {
		rt.img.Clear()
	} else {
		rt.img.Fill(c.RGBA())
	}
}

// DrawImage draws src into the texture with caller-supplied options.
func (rt *RenderTexture) DrawImage(src *ebiten.Image, op *ebiten.DrawImageOptions) {
	rt.img.DrawImage(src, op)
}

// Composite draws src at the origin with src's own blend mode and filter.
func (rt *RenderTexture) Composite(src *RenderTexture) {
	rt.CompositeScaled(src, 1, 1)
}

// CompositeScaled is Composite with src scaled by (sx, sy).
func (rt *RenderTexture) CompositeScaled(src *RenderTexture, sx, sy float64) {
	op := ebiten.DrawImageOptions{
		Blend:  src.blend.EbitenBlend(),
		Filter: src.scale.EbitenFilter(),
	}
	if sx != 1 || sy != 1 {
		op.GeoM.Scale(sx, sy)
	}
	rt.img.DrawImage(src.img, &op)
}

// Resize re-creates the image at the new size, keeping blend and scale
// modes. Resizing to the current size only clears it.
func (rt *RenderTexture) Resize(w, h int) {
	if rt.img != nil && rt.size == (Point{max(w, 1), max(h, 1)}) {
		rt.img.Clear()
		return
	}
	rt.Dispose()
	rt.allocate(w, h)
}

// Dispose frees the image. Calling it again is a no-op.
func (rt *RenderTexture) Dispose() {
	if rt.img == nil {
		return
	}
	rt.img.Deallocate()
	rt.img = nil
}
