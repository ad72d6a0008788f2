package potion

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Lights draw into a camera's "Lighting" pass, which multiplies the scene
// below it. Cameras without that pass skip them; call
// Camera.AddLightingPass to enable lighting.

var whitePixel *ebiten.Image

func white() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(ColorWhite.RGBA())
	}
	return whitePixel
}

// PointLight is a feathered circle of light centered on its bounding box.
type PointLight struct {
	BaseEntity

	// Color tints the light. Intensity scales it, in [0, 1].
	Color     Color
	Intensity float64

	radius int
	circle *ebiten.Image
}

// NewPointLight creates a light centered at (x, y).
func NewPointLight(x, y, radius int, c Color) *PointLight {
	l := &PointLight{Color: c, Intensity: 1}
	l.AddTag("light")
	l.SetRadius(radius)
	l.SetCenter(Point{x, y})
	return l
}

func (l *PointLight) Radius() int { return l.radius }

// SetRadius resizes the light around its current center.
func (l *PointLight) SetRadius(r int) {
	r = max(r, 1)
	if r == l.radius {
		return
	}
	center := l.Center()
	l.radius = r
	l.Width, l.Height = r*2, r*2
	l.SetCenter(center)
	if l.circle != nil {
		l.circle.Deallocate()
		l.circle = nil
	}
}

func (l *PointLight) Center() Point {
	return Point{l.X + l.radius, l.Y + l.radius}
}

func (l *PointLight) SetCenter(p Point) {
	l.X = p.X - l.radius
	l.Y = p.Y - l.radius
}

func (l *PointLight) Draw(_ *Context, cam *Camera) {
	if !cam.HasRenderPass(PassLighting) || l.Intensity <= 0 {
		return
	}
	if l.circle == nil {
		l.circle = ebiten.NewImage(l.Width, l.Height)
		l.circle.WritePixels(circlePixels(float64(l.radius)))
	}
	p := cam.WorldToRender(l.Position())
	k := float32(clamp01(l.Intensity) * l.Color.A)

	cam.WithPass(PassLighting, func(dst *ebiten.Image) {
		var op ebiten.DrawImageOptions
		op.GeoM.Translate(float64(p.X), float64(p.Y))
		op.ColorScale.Scale(float32(l.Color.R)*k, float32(l.Color.G)*k, float32(l.Color.B)*k, k)
		op.Blend = BlendAdd.EbitenBlend()
		dst.DrawImage(l.circle, &op)
	})
}

func (l *PointLight) End(*Context) {
	if l.circle != nil {
		l.circle.Deallocate()
		l.circle = nil
	}
}

// AmbientLight adds its color over the whole Lighting pass. Black leaves
// the unlit parts of the scene black; white disables lighting.
type AmbientLight struct {
	BaseEntity

	Color Color
}

func NewAmbientLight(c Color) *AmbientLight {
	l := &AmbientLight{Color: c}
	l.AddTag("light")
	return l
}

func (l *AmbientLight) Draw(_ *Context, cam *Camera) {
	if !cam.HasRenderPass(PassLighting) {
		return
	}
	cam.WithPass(PassLighting, func(dst *ebiten.Image) {
		b := dst.Bounds()
		a := float32(clamp01(l.Color.A))
		var op ebiten.DrawImageOptions
		op.GeoM.Scale(float64(b.Dx()), float64(b.Dy()))
		op.ColorScale.Scale(float32(l.Color.R)*a, float32(l.Color.G)*a, float32(l.Color.B)*a, a)
		op.Blend = BlendAdd.EbitenBlend()
		dst.DrawImage(white(), &op)
	})
}

// circlePixels returns premultiplied white RGBA pixels for a circle of the
// given radius, with smoothstep falloff from 1 at the center to 0 at the
// edge.
func circlePixels(radius float64) []byte {
	size := max(int(math.Ceil(radius*2)), 1)
	pix := make([]byte, size*size*4)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - radius
			dy := float64(y) + 0.5 - radius
			dist := math.Sqrt(dx*dx+dy*dy) / radius

			var alpha float64
			if dist < 1 {
				t := 1 - dist
				alpha = t * t * (3 - 2*t)
			}

			a := uint8(alpha * 255)
			off := (y*size + x) * 4
			pix[off+0] = a
			pix[off+1] = a
			pix[off+2] = a
			pix[off+3] = a
		}
	}
	return pix
}
