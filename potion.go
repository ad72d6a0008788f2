package potion

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Point is an integer position in world or render space.
type Point struct {
	X, Y int
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Vec2 is a 2D vector used for camera positions and other fractional values.
type Vec2 struct {
	X, Y float64
}

// Point floors both components.
func (v Vec2) Point() Point {
	return Point{int(math.Floor(v.X)), int(math.Floor(v.Y))}
}

// Rect is an axis-aligned integer rectangle. The coordinate system has its
// origin at the top-left, with Y increasing downward.
//
// Edges are inclusive: Right is X+Width-1 and Bottom is Y+Height-1, so two
// rectangles that only share a border do not intersect.
type Rect struct {
	X, Y, Width, Height int
}

func (r Rect) Left() int   { return r.X }
func (r Rect) Top() int    { return r.Y }
func (r Rect) Right() int  { return r.X + r.Width - 1 }
func (r Rect) Bottom() int { return r.Y + r.Height - 1 }

func (r Rect) Position() Point    { return Point{r.X, r.Y} }
func (r Rect) Size() Point        { return Point{r.Width, r.Height} }
func (r Rect) TopLeft() Point     { return Point{r.Left(), r.Top()} }
func (r Rect) TopRight() Point    { return Point{r.Right(), r.Top()} }
func (r Rect) BottomLeft() Point  { return Point{r.Left(), r.Bottom()} }
func (r Rect) BottomRight() Point { return Point{r.Right(), r.Bottom()} }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// ContainsPoint reports whether p lies inside the rectangle, edges included.
func (r Rect) ContainsPoint(p Point) bool {
	return r.Left() <= p.X && p.X <= r.Right() &&
		r.Top() <= p.Y && p.Y <= r.Bottom()
}

// Intersects reports whether r and other overlap by at least one pixel.
func (r Rect) Intersects(other Rect) bool {
	return other.Left() <= r.Right() && r.Left() <= other.Right() &&
		other.Top() <= r.Bottom() && r.Top() <= other.Bottom()
}

// Intersection returns the overlapping region of r and other, or the zero
// Rect if they do not overlap.
func (r Rect) Intersection(other Rect) Rect {
	if r.Empty() || other.Empty() || !r.Intersects(other) {
		return Rect{}
	}
	x := max(r.X, other.X)
	y := max(r.Y, other.Y)
	return Rect{
		X:      x,
		Y:      y,
		Width:  min(r.Right(), other.Right()) - x + 1,
		Height: min(r.Bottom(), other.Bottom()) - y + 1,
	}
}

// Color is a straight-alpha RGBA color with components in [0, 1].
// RGBA premultiplies it for ebiten.
type Color struct {
	R, G, B, A float64
}

var (
	ColorTransparent = Color{0, 0, 0, 0}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorWhite       = Color{1, 1, 1, 1}
)

// RGBA converts the color to a premultiplied color.Color for image fills.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// BlendMode selects the compositing operation used when one texture is copied
// onto another.
type BlendMode uint8

const (
	BlendNone           BlendMode = iota // opaque copy
	BlendBlend                           // alpha blending
	BlendAdd                             // additive
	BlendMod                             // color modulate (src * dst)
	BlendMul                             // color multiply, respecting source alpha
	BlendAlphaComposite                  // premultiplied source-over
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendNone:
		return ebiten.BlendCopy
	case BlendBlend, BlendAlphaComposite:
		return ebiten.BlendSourceOver
	case BlendAdd:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendMod:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorZero,
			BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
			BlendFactorDestinationRGB:   ebiten.BlendFactorSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendMul:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	default:
		return ebiten.BlendSourceOver
	}
}

func (b BlendMode) String() string {
	switch b {
	case BlendNone:
		return "none"
	case BlendBlend:
		return "blend"
	case BlendAdd:
		return "add"
	case BlendMod:
		return "mod"
	case BlendMul:
		return "mul"
	case BlendAlphaComposite:
		return "alpha_composite"
	default:
		return "unknown"
	}
}

// ScaleMode selects the filter used when a texture is drawn scaled.
type ScaleMode uint8

const (
	ScaleNearest ScaleMode = iota
	ScaleLinear
	ScaleBest
)

// EbitenFilter returns the ebiten.Filter for this ScaleMode.
func (s ScaleMode) EbitenFilter() ebiten.Filter {
	if s == ScaleNearest {
		return ebiten.FilterNearest
	}
	return ebiten.FilterLinear
}

// ResizeMode controls how a camera's render texture is scaled to the viewport.
type ResizeMode uint8

const (
	ResizeNone    ResizeMode = iota // never scaled
	ResizeWidth                     // width matches the viewport, aspect preserved
	ResizeHeight                    // height matches the viewport, aspect preserved
	ResizeFit                       // whole texture fits inside the viewport
	ResizeFill                      // texture covers the viewport, overflow cropped
	ResizeDistort                   // each axis scaled independently
)

// Sign returns -1 for negative values and 1 otherwise. Zero is positive.
func Sign[T int | float64](n T) T {
	if n < 0 {
		return -1
	}
	return 1
}

// Clamp returns v limited to the inclusive range [lo, hi].
func Clamp[T int | float64](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

// Remap maps v from the range [oldMin, oldMax] onto [newMin, newMax].
func Remap(v, oldMin, oldMax, newMin, newMax float64) float64 {
	if oldMin == oldMax {
		return newMin
	}
	return (v-oldMin)*(newMax-newMin)/(oldMax-oldMin) + newMin
}

// Lerp interpolates between a and b by t, clamped to the range between them.
func Lerp(a, b, t float64) float64 {
	return Clamp(a*(1-t)+b*t, min(a, b), max(a, b))
}

// floorDivMod splits v into an integer quotient and a remainder in [0, 1),
// rounding toward negative infinity.
func floorDivMod(v float64) (int, float64) {
	q := math.Floor(v)
	return int(q), v - q
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
