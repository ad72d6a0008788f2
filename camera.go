package potion

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"
)

// Camera renders entities into the window's viewport.
//
// Each frame the camera:
//  1. draws every visible entity into its render passes,
//  2. composites the passes into its render texture,
//  3. scales the render texture to match the viewport,
//  4. copies the scaled texture to the viewport texture.
//
// With pixel-perfect upscaling the render texture carries one extra pixel
// on each axis, so the scaled copy can be offset by a fraction of a world
// pixel and camera movement stays smooth.
type Camera struct {
	// X and Y are the world position of the camera's top-left corner.
	X, Y float64

	// BoundsEnabled clamps the camera position so the visible area stays
	// within Bounds.
	BoundsEnabled bool
	// Bounds is the world-space rectangle the camera is clamped to when
	// BoundsEnabled is true.
	Bounds Rect

	ctx   *Context
	log   *zap.Logger
	scene *Scene

	name      string
	drawOrder int
	active    bool

	tint   Color
	tinted bool

	resizeMode   ResizeMode
	pixelPerfect bool
	scaleX       float64
	scaleY       float64
	resolution   Point

	includeTags mapset.Set[string]
	excludeTags mapset.Set[string]

	defaultPass *RenderPass
	debugPass   *RenderPass
	passes      map[string]*RenderPass
	extraPasses []*RenderPass

	// Drawn to when an unknown pass is requested; never displayed.
	nullTexture *RenderTexture

	renderTexture    *RenderTexture
	scaledTexture    *RenderTexture
	scaledResolution Point
	offset           Point
	subPixel         Point

	target *RenderTexture

	subs []*Subscription

	followTarget Entity
	followOffset Vec2
	followLerp   float64
	scroll       *TweenGroup
}

// NewCamera creates an active camera with the renderer's resolution, FIT
// resize mode and pixel-perfect scaling. Call Dispose when the camera is no
// longer needed; cameras removed from a scene are disposed automatically.
func NewCamera(ctx *Context, name string, drawOrder int) *Camera {
	c := &Camera{
		ctx:          ctx,
		log:          ctx.Log,
		name:         name,
		drawOrder:    drawOrder,
		active:       true,
		resizeMode:   ResizeFit,
		pixelPerfect: true,
		scaleX:       1,
		scaleY:       1,
		resolution:   ctx.Renderer.Resolution(),
		includeTags:  mapset.New[string](),
		excludeTags:  mapset.New[string](),
		defaultPass:  NewRenderPass(PassDefault),
		debugPass:    NewRenderPass(PassDebug),
		nullTexture:  NewRenderTexture(2, 2),
	}
	c.passes = map[string]*RenderPass{
		PassDefault: c.defaultPass,
		PassDebug:   c.debugPass,
	}
	c.renderTexture = NewRenderTexture(2, 2)
	c.scaledTexture = NewRenderTexture(2, 2)
	c.target = c.defaultPass.texture

	c.resetRenderTargets()

	c.subs = []*Subscription{
		ctx.Window.OnViewportChanged.Subscribe(c.resetRenderTargets),
		ctx.Renderer.OnReset.Subscribe(c.resetRenderTargets),
		ctx.Renderer.OnResolutionChanged.Subscribe(c.resetRenderTargets),
	}
	return c
}

func (c *Camera) String() string { return "Camera(" + c.name + ")" }

func (c *Camera) Name() string { return c.name }

// Scene returns the scene the camera belongs to, or nil.
func (c *Camera) Scene() *Scene { return c.scene }

func (c *Camera) Active() bool          { return c.active }
func (c *Camera) SetActive(active bool) { c.active = active }

// DrawOrder returns the camera's draw order. Higher values are drawn first,
// in the background; lower values are drawn last, in the foreground.
func (c *Camera) DrawOrder() int { return c.drawOrder }

// SetDrawOrder changes the draw order. While the camera belongs to a scene
// the change is refused (and logged) if another camera already uses it.
func (c *Camera) SetDrawOrder(order int) {
	if c.scene != nil {
		cams := c.scene.Cameras()
		for other := range cams.All() {
			if other != c && other.drawOrder == order {
				c.log.Error("cannot set camera draw order; it would clash",
					zap.Stringer("camera", c), zap.Int("draw_order", order),
					zap.Stringer("other", other))
				return
			}
		}
		cams.flagSort()
	}
	c.drawOrder = order
}

// Tint returns the tint color and whether one is set.
func (c *Camera) Tint() (Color, bool) { return c.tint, c.tinted }

// SetTint multiplies the camera output by color. Only RGB is used.
func (c *Camera) SetTint(color Color) {
	c.tint = color
	c.tinted = true
}

func (c *Camera) ClearTint() { c.tinted = false }

func (c *Camera) ResizeMode() ResizeMode { return c.resizeMode }

// SetResizeMode sets how the render texture is scaled to the viewport.
func (c *Camera) SetResizeMode(mode ResizeMode) {
	c.resizeMode = mode
	c.resetRenderTargets()
}

func (c *Camera) PixelPerfect() bool { return c.pixelPerfect }

// SetPixelPerfect toggles whole-number scaling.
func (c *Camera) SetPixelPerfect(pixelPerfect bool) {
	if pixelPerfect == c.pixelPerfect {
		return
	}
	c.pixelPerfect = pixelPerfect
	c.resetRenderTargets()
}

// Scale returns the current scale applied to the render texture.
func (c *Camera) Scale() (sx, sy float64) { return c.scaleX, c.scaleY }

// Resolution is the size of the world area the camera renders, in pixels.
func (c *Camera) Resolution() Point { return c.resolution }

// SetResolution changes the render resolution. Sizes below 1x1 are refused.
func (c *Camera) SetResolution(w, h int) {
	if w < 1 || h < 1 {
		c.log.Error("camera resolution must be at least 1x1",
			zap.Stringer("camera", c), zap.Int("width", w), zap.Int("height", h))
		return
	}
	c.resolution = Point{w, h}
	c.resetRenderTargets()
}

// ScaledResolution is the size of the scaled output on screen.
func (c *Camera) ScaledResolution() Point { return c.scaledResolution }

// Offset is the position of the scaled output within the viewport.
func (c *Camera) Offset() Point { return c.offset }

func (c *Camera) Position() Vec2 { return Vec2{c.X, c.Y} }

func (c *Camera) SetPosition(p Vec2) {
	c.X = p.X
	c.Y = p.Y
}

// Center returns the world position at the middle of the camera's view.
func (c *Camera) Center() Vec2 {
	return Vec2{c.X + float64(c.resolution.X)/2, c.Y + float64(c.resolution.Y)/2}
}

// Rect returns the area of the world the camera sees.
func (c *Camera) Rect() Rect {
	p := c.Position().Point()
	return Rect{p.X, p.Y, c.resolution.X, c.resolution.Y}
}

// IncludeTag restricts the camera to entities carrying at least one include
// tag.
func (c *Camera) IncludeTag(tag string) { c.includeTags.Put(tag) }

func (c *Camera) ClearIncludeTags() { clearSet(c.includeTags) }

// ExcludeTag hides entities carrying the tag. Exclusion wins over
// inclusion.
func (c *Camera) ExcludeTag(tag string) { c.excludeTags.Put(tag) }

func (c *Camera) ClearExcludeTags() { clearSet(c.excludeTags) }

// CanDraw reports whether the camera's tag filters allow it to draw e.
func (c *Camera) CanDraw(e Entity) bool {
	if c.includeTags.Size() == 0 && c.excludeTags.Size() == 0 {
		return true
	}
	tags := e.Base().Tags()
	if c.excludeTags.Size() > 0 && anyShared(c.excludeTags, tags) {
		return false
	}
	if c.includeTags.Size() > 0 && !anyShared(c.includeTags, tags) {
		return false
	}
	return true
}

func anyShared(a, b mapset.Set[string]) bool {
	found := false
	a.Each(func(tag string) {
		if !found && b.Has(tag) {
			found = true
		}
	})
	return found
}

// RenderPass returns the named pass, or nil (logged) if there is none.
func (c *Camera) RenderPass(name string) *RenderPass {
	rp, ok := c.passes[name]
	if !ok {
		c.log.Error("camera has no render pass",
			zap.Stringer("camera", c), zap.String("pass", name))
	}
	return rp
}

// HasRenderPass reports whether the camera has the named pass.
func (c *Camera) HasRenderPass(name string) bool {
	_, ok := c.passes[name]
	return ok
}

// AddRenderPass adds an extra pass. Extra passes are composited after the
// default pass, in the order they were added, and before the debug pass.
func (c *Camera) AddRenderPass(rp *RenderPass) {
	if _, ok := c.passes[rp.name]; ok {
		c.log.Error("camera already has a render pass with that name",
			zap.Stringer("camera", c), zap.String("pass", rp.name))
		return
	}
	c.extraPasses = append(c.extraPasses, rp)
	c.passes[rp.name] = rp
	c.resetRenderTargets()
}

// AddLightingPass adds a "Lighting" pass that clears to black and
// multiplies the scene below it. Light entities draw into it.
func (c *Camera) AddLightingPass() {
	rp := NewRenderPass(PassLighting)
	rp.SetClearColor(ColorBlack)
	rp.SetBlendMode(BlendMod)
	c.AddRenderPass(rp)
}

// AddGlowPass adds a "Glow" pass that clears to black and is added onto the
// scene below it.
func (c *Camera) AddGlowPass() {
	rp := NewRenderPass(PassGlow)
	rp.SetClearColor(ColorBlack)
	rp.SetBlendMode(BlendAdd)
	c.AddRenderPass(rp)
}

// Target returns the image entities should draw to. It is the default pass
// unless WithPass has bound another.
func (c *Camera) Target() *ebiten.Image { return c.target.Image() }

// WithPass binds the named pass as the draw target while fn runs. Unknown
// names log an error and bind a throwaway texture instead.
func (c *Camera) WithPass(name string, fn func(dst *ebiten.Image)) {
	target := c.nullTexture
	if rp, ok := c.passes[name]; ok {
		target = rp.texture
	} else {
		c.log.Error("camera has no render pass",
			zap.Stringer("camera", c), zap.String("pass", name))
	}
	prev := c.target
	c.target = target
	defer func() { c.target = prev }()
	fn(target.Image())
}

// Start runs when the camera joins a scene.
func (c *Camera) Start() {
	c.resetRenderTargets()
}

// Follow makes the camera keep target centered, plus offset. A lerp of 1
// snaps immediately; lower values follow smoothly.
func (c *Camera) Follow(target Entity, offset Vec2, lerp float64) {
	c.followTarget = target
	c.followOffset = offset
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// ScrollTo animates the camera's top-left corner to (x, y) over duration
// seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scroll = TweenFields([]*float64{&c.X, &c.Y}, []float64{x, y}, duration, easeFn)
}

// Scrolling reports whether a ScrollTo animation is running.
func (c *Camera) Scrolling() bool { return c.scroll != nil }

// SetBounds enables camera bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables camera bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// Update advances follow, scroll and bounds clamping. The scene calls it
// once per frame after entities update.
func (c *Camera) Update(dt float64) {
	if c.followTarget != nil {
		b := c.followTarget.Base()
		if b.state == entityDetached {
			c.followTarget = nil
		} else {
			tx := float64(b.X) + float64(b.Width)/2 + c.followOffset.X - float64(c.resolution.X)/2
			ty := float64(b.Y) + float64(b.Height)/2 + c.followOffset.Y - float64(c.resolution.Y)/2
			c.X += (tx - c.X) * c.followLerp
			c.Y += (ty - c.Y) * c.followLerp
		}
	}

	if c.scroll != nil {
		c.scroll.Update(float32(dt))
		if c.scroll.Done {
			c.scroll = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// clampToBounds keeps the visible area inside Bounds, centering the camera
// on Bounds when Bounds is smaller than the view.
func (c *Camera) clampToBounds() {
	w, h := float64(c.resolution.X), float64(c.resolution.Y)
	minX, maxX := float64(c.Bounds.X), float64(c.Bounds.X+c.Bounds.Width)-w
	minY, maxY := float64(c.Bounds.Y), float64(c.Bounds.Y+c.Bounds.Height)-h

	if minX > maxX {
		c.X = float64(c.Bounds.X) + (float64(c.Bounds.Width)-w)/2
	} else {
		c.X = Clamp(c.X, minX, maxX)
	}
	if minY > maxY {
		c.Y = float64(c.Bounds.Y) + (float64(c.Bounds.Height)-h)/2
	} else {
		c.Y = Clamp(c.Y, minY, maxY)
	}
}

// Draw renders entities through the camera into the viewport texture.
func (c *Camera) Draw(entities *EntityList) {
	c.clearRenderTargets()

	c.WithPass(PassDefault, func(*ebiten.Image) {
		entities.Draw(c)
	})
	if c.ctx.Debug() {
		c.WithPass(PassDebug, func(*ebiten.Image) {
			entities.DebugDraw(c)
		})
	}

	c.copyRenderPasses()
	c.scaledTexture.CompositeScaled(c.renderTexture, c.scaleX, c.scaleY)
	c.copyToViewport(c.ctx.Window.ViewportTexture())
}

// computeScale returns the scale from a render texture of size res to a
// viewport of size vp. Pixel-perfect scales are whole numbers of at least 1.
func computeScale(mode ResizeMode, pixelPerfect bool, vp, res Point) (float64, float64) {
	sx := float64(vp.X) / float64(res.X)
	sy := float64(vp.Y) / float64(res.Y)

	var scaleX, scaleY float64
	switch mode {
	case ResizeWidth:
		scaleX, scaleY = sx, sx
	case ResizeHeight:
		scaleX, scaleY = sy, sy
	case ResizeFit:
		scaleX = min(sx, sy)
		scaleY = scaleX
	case ResizeFill:
		scaleX = max(sx, sy)
		scaleY = scaleX
	case ResizeDistort:
		scaleX, scaleY = sx, sy
	default:
		scaleX, scaleY = 1, 1
	}

	if pixelPerfect {
		scaleX = max(math.Floor(scaleX), 1)
		scaleY = max(math.Floor(scaleY), 1)
	}
	return scaleX, scaleY
}

// upscaling reports whether the render texture is padded for sub-pixel
// drawing.
func (c *Camera) upscaling() bool {
	return (c.scaleX > 1 || c.scaleY > 1) && c.pixelPerfect
}

func (c *Camera) resetRenderTargets() {
	vp := c.ctx.Window.Viewport()
	c.scaleX, c.scaleY = computeScale(c.resizeMode, c.pixelPerfect, vp.Size(), c.resolution)

	c.scaledResolution = Point{
		int(float64(c.resolution.X) * c.scaleX),
		int(float64(c.resolution.Y) * c.scaleY),
	}
	c.offset = Point{
		int(math.Floor(float64(vp.Width-c.scaledResolution.X) / 2)),
		int(math.Floor(float64(vp.Height-c.scaledResolution.Y) / 2)),
	}

	w, h := c.resolution.X, c.resolution.Y
	if c.upscaling() {
		w++
		h++
	}

	filter := ScaleBest
	if c.pixelPerfect {
		filter = ScaleNearest
	}

	c.renderTexture.Resize(w, h)
	c.scaledTexture.Resize(int(float64(w)*c.scaleX), int(float64(h)*c.scaleY))
	for _, rt := range []*RenderTexture{c.renderTexture, c.scaledTexture} {
		rt.SetScaleMode(filter)
		rt.SetBlendMode(BlendAlphaComposite)
	}

	c.defaultPass.CreateTexture(w, h)
	c.debugPass.CreateTexture(w, h)
	for _, rp := range c.extraPasses {
		rp.CreateTexture(w, h)
		rp.texture.SetScaleMode(filter)
	}
}

func (c *Camera) clearRenderTargets() {
	c.renderTexture.Clear()
	c.scaledTexture.Clear()
	c.defaultPass.Clear()
	c.debugPass.Clear()
	for _, rp := range c.extraPasses {
		rp.Clear()
	}
}

func (c *Camera) copyRenderPasses() {
	c.renderTexture.Composite(c.defaultPass.texture)
	for _, rp := range c.extraPasses {
		c.renderTexture.Composite(rp.texture)
	}
	c.renderTexture.Composite(c.debugPass.texture)
}

// subPixelOffset is the fraction of a world pixel the camera sits at,
// measured in screen pixels. It is zero unless upscaling pixel-perfect.
func (c *Camera) subPixelOffset() Point {
	if !c.upscaling() {
		return Point{}
	}
	return Point{
		int(math.Floor((c.X - math.Floor(c.X)) * c.scaleX)),
		int(math.Floor((c.Y - math.Floor(c.Y)) * c.scaleY)),
	}
}

func (c *Camera) copyToViewport(dst *RenderTexture) {
	c.subPixel = c.subPixelOffset()

	src := image.Rect(
		c.subPixel.X, c.subPixel.Y,
		c.subPixel.X+c.scaledResolution.X, c.subPixel.Y+c.scaledResolution.Y,
	)

	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(c.offset.X), float64(c.offset.Y))
	op.Blend = c.scaledTexture.BlendMode().EbitenBlend()
	op.Filter = c.scaledTexture.ScaleMode().EbitenFilter()
	if c.tinted {
		op.ColorScale.Scale(float32(c.tint.R), float32(c.tint.G), float32(c.tint.B), 1)
	}
	dst.DrawImage(c.scaledTexture.Image().SubImage(src).(*ebiten.Image), &op)
}

// WorldToRender converts a world position to a position on the camera's
// render texture.
func (c *Camera) WorldToRender(p Point) Point {
	return p.Sub(c.Position().Point())
}

// RenderToWorld converts a render texture position to a world position.
func (c *Camera) RenderToWorld(p Point) Point {
	return p.Add(c.Position().Point())
}

// ScreenToRender converts a screen position to a render texture position.
func (c *Camera) ScreenToRender(p Point) Point {
	vp := c.ctx.Window.Viewport()
	sx := float64(p.X + c.subPixel.X)
	sy := float64(p.Y + c.subPixel.Y)
	x := Remap(sx, float64(vp.Left()), float64(vp.Right()), 0, float64(c.resolution.X))
	y := Remap(sy, float64(vp.Top()), float64(vp.Bottom()), 0, float64(c.resolution.Y))
	return Vec2{x, y}.Point()
}

// ScreenToWorld converts a screen position, such as the cursor, to a world
// position.
func (c *Camera) ScreenToWorld(p Point) Point {
	return c.RenderToWorld(c.ScreenToRender(p))
}

// Dispose releases the camera's callback subscriptions and textures.
func (c *Camera) Dispose() {
	for _, s := range c.subs {
		s.Unsubscribe()
	}
	c.subs = nil
	c.defaultPass.dispose()
	c.debugPass.dispose()
	for _, rp := range c.extraPasses {
		rp.dispose()
	}
	c.nullTexture.Dispose()
	c.renderTexture.Dispose()
	c.scaledTexture.Dispose()
}
