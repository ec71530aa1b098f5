package island

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// overlayRefresh is how often, in seconds, the HUD text is rebuilt.
const overlayRefresh = 0.5

// Overlay is a debug HUD showing FPS, TPS, the active view, the held item
// and the lighting state. The text is rebuilt every half second.
type Overlay struct {
	img   *ebiten.Image
	since float64
	text  string
	dirty bool
}

// NewOverlay creates an overlay that fills in on its first Update.
func NewOverlay() *Overlay {
	return &Overlay{since: overlayRefresh}
}

// Update advances the refresh timer and rebuilds the text when due.
func (o *Overlay) Update(dt float64, s *Session) {
	o.since += dt
	if o.since < overlayRefresh {
		return
	}
	o.since = 0
	o.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f\n%s", ebiten.ActualFPS(), ebiten.ActualTPS(), s)
	o.dirty = true
}

// Text returns the current HUD text.
func (o *Overlay) Text() string { return o.text }

// Draw paints the HUD in the top-left corner of screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.text == "" {
		return
	}
	if o.img == nil {
		// 160x96 fits the FPS and TPS lines plus the session summary.
		o.img = ebiten.NewImage(160, 96)
		o.dirty = true
	}
	if o.dirty {
		o.img.Clear()
		// Semi-transparent background for readability
		o.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(o.img, o.text)
		o.dirty = false
	}
	screen.DrawImage(o.img, nil)
}
