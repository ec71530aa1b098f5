package island

import (
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// RunConfig configures the window opened by Run. Zero fields fall back to
// the session's WindowConfig.
type RunConfig struct {
	Title         string
	Width, Height int
	TPS           int
	ShowFPS       bool
	ScreenshotDir string

	// Renderer and Input default to new instances. Pass the ones given to
	// NewSession through WithPicker and WithCursor so clicks and free-look
	// reach the same objects.
	Renderer *Renderer
	Input    *Input

	// Script, when set, is played by a TestRunner from the first frame.
	Script *TestRunner
}

// Game adapts a Session to ebiten.Game: Update polls input and ticks the
// session, Draw renders it and Layout tracks the window size.
type Game struct {
	session  *Session
	renderer *Renderer
	input    *Input
	overlay  *Overlay
	runner   *TestRunner
	log      *zap.Logger

	// ScreenshotDir receives screenshots queued with Screenshot.
	ScreenshotDir string

	injectQueue     []syntheticEvent
	screenshotQueue []string
	shots           int
}

// NewGame wires a session to a renderer and an input poller. A nil input
// leaves the session to injected events only.
func NewGame(s *Session, r *Renderer, in *Input) *Game {
	if r == nil {
		r = NewRenderer(s.Logger())
	}
	return &Game{
		session:       s,
		renderer:      r,
		input:         in,
		log:           s.Logger(),
		ScreenshotDir: s.Config().Window.ScreenshotDir,
	}
}

// Session returns the driven session.
func (g *Game) Session() *Session { return g.session }

// SetOverlay shows or hides the debug HUD.
func (g *Game) SetOverlay(show bool) {
	switch {
	case show && g.overlay == nil:
		g.overlay = NewOverlay()
	case !show:
		g.overlay = nil
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.runner != nil {
		g.runner.step(g)
	}
	if !g.processInjectedInput() && g.input != nil {
		g.input.Poll(g.session)
	}

	g.session.Tick(1.0 / float64(ebiten.TPS()))

	if g.overlay != nil {
		g.overlay.Update(g.session.Delta(), g.session)
	}
	if g.session.Quit() {
		g.log.Info("leaving main loop", zap.Float64("elapsed", g.session.Elapsed()))
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.session)
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
	g.flushScreenshots(screen)
}

// Layout implements ebiten.Game. The scene renders at window resolution.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.session.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Run opens a window and drives s until a quit action or the window closes.
func Run(s *Session, cfg RunConfig) error {
	win := s.Config().Window
	if cfg.Title == "" {
		cfg.Title = win.Title
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = win.Width, win.Height
	}
	if cfg.TPS <= 0 {
		cfg.TPS = win.TPS
	}
	cfg.ShowFPS = cfg.ShowFPS || win.Overlay

	in := cfg.Input
	if in == nil {
		in = NewInput(&s.Config().Keys)
	}
	g := NewGame(s, cfg.Renderer, in)
	if cfg.ScreenshotDir != "" {
		g.ScreenshotDir = cfg.ScreenshotDir
	}
	g.SetOverlay(cfg.ShowFPS)
	if cfg.Script != nil {
		g.SetTestRunner(cfg.Script)
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}

	s.Logger().Info("window opening",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width), zap.Int("height", cfg.Height),
		zap.Int("tps", cfg.TPS))
	return ebiten.RunGame(g)
}
