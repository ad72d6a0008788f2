package potion

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// FPSDisplay is a UI entity that shows the engine's FPS and frame times in
// a corner of the screen. The text is refreshed every half second.
type FPSDisplay struct {
	BaseEntity

	img     *ebiten.Image
	elapsed float64
	text    string
}

// NewFPSDisplay creates the widget at (x, y) in UI camera coordinates.
func NewFPSDisplay(x, y int) *FPSDisplay {
	f := &FPSDisplay{}
	f.X, f.Y = x, y
	f.Width, f.Height = 100, 32
	f.AddTag("UI")
	f.SetPausable(false)
	return f
}

// Text returns the text shown by the last refresh.
func (f *FPSDisplay) Text() string { return f.text }

func (f *FPSDisplay) Update(ctx *Context) {
	f.elapsed += ctx.Time.Delta()
	if f.text != "" && f.elapsed < 0.5 {
		return
	}
	f.elapsed = 0

	e := ctx.Engine()
	if e == nil {
		return
	}
	f.text = fmt.Sprintf("FPS: %d\nU: %v D: %v", e.FPS(), e.UpdateTime().Milliseconds(), e.DrawTime().Milliseconds())
	if f.img == nil {
		return
	}
	f.redraw()
}

func (f *FPSDisplay) redraw() {
	f.img.Clear()
	f.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(f.img, f.text)
}

func (f *FPSDisplay) Draw(_ *Context, cam *Camera) {
	if f.img == nil {
		f.img = ebiten.NewImage(f.Width, f.Height)
		f.redraw()
	}
	p := cam.WorldToRender(f.Position())
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(p.X), float64(p.Y))
	cam.Target().DrawImage(f.img, &op)
}

func (f *FPSDisplay) End(*Context) {
	if f.img != nil {
		f.img.Deallocate()
		f.img = nil
	}
}
