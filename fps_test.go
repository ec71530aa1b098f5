package island

import (
	"strings"
	"testing"
)

func TestOverlayRefresh(t *testing.T) {
	s := newTestSession(t)
	o := NewOverlay()
	o.Update(0.016, s)
	if !strings.Contains(o.Text(), "view: spawn") {
		t.Fatalf("Text = %q, want the session summary", o.Text())
	}

	s.CycleView()
	o.Update(0.1, s)
	if strings.Contains(o.Text(), "static-1") {
		t.Error("text refreshed before the interval")
	}
	o.Update(0.45, s)
	if !strings.Contains(o.Text(), "view: static-1") {
		t.Errorf("Text = %q after the interval", o.Text())
	}
}

func TestGameSetOverlay(t *testing.T) {
	g := newTestGame(t)
	g.SetOverlay(true)
	first := g.overlay
	g.SetOverlay(true)
	if g.overlay == nil || g.overlay != first {
		t.Error("SetOverlay(true) should keep the existing overlay")
	}
	g.SetOverlay(false)
	if g.overlay != nil {
		t.Error("SetOverlay(false) should drop the overlay")
	}
}

func TestGameLayoutResizesSession(t *testing.T) {
	g := newTestGame(t)
	w, h := g.Layout(800, 600)
	if w != 800 || h != 600 {
		t.Errorf("Layout = %dx%d", w, h)
	}
	if sw, sh := g.Session().Size(); sw != 800 || sh != 600 {
		t.Errorf("session size = %dx%d", sw, sh)
	}
}
