package potion

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// ErrNoScene is returned by Run when it is given no first scene.
var ErrNoScene = errors.New("no scene to run")

// Engine runs the game loop. It implements ebiten.Game: each tick it
// updates the clock, input and current scene, steps coroutines, draws the
// scene through its cameras, and switches scenes when one was requested.
type Engine struct {
	ctx *Context
	log *zap.Logger

	scene        *Scene
	sceneFactory SceneFactory
	nextFactory  SceneFactory

	frameOpen      bool
	frame          int
	fps            int
	fpsTicks       int64
	framesRendered int

	metricsEnabled bool
	logMetrics     bool
	metrics        *Metrics
	updateTime     time.Duration
	drawTime       time.Duration

	script          *Script
	screenshotDir   string
	screenshotQueue []string

	crashDir string
	crashed  error

	running       bool
	stopRequested bool

	// OnQuitRequested fires when the window's close button is pressed. By
	// default it stops the engine.
	OnQuitRequested *CallbackList
	// OnStop fires once, right before the game loop exits.
	OnStop *CallbackList
}

// NewEngine creates an engine and its Context from cfg. A nil log
// discards output.
func NewEngine(cfg *Config, log *zap.Logger) *Engine {
	ctx := NewContext(cfg, log)
	cfg = ctx.Config
	e := &Engine{
		ctx:             ctx,
		log:             ctx.Log,
		metricsEnabled:  cfg.Engine.Metrics,
		logMetrics:      cfg.Engine.LogMetrics,
		metrics:         newMetrics(cfg.Engine.MetricsInterval),
		screenshotDir:   cfg.Engine.ScreenshotDir,
		OnQuitRequested: NewCallbackList("EngineQuitRequested"),
		OnStop:          NewCallbackList("EngineStop"),
	}
	if e.screenshotDir == "" {
		e.screenshotDir = "screenshots"
	}
	e.crashDir = ctx.Paths.CrashLogs()
	ctx.engine = e
	e.OnQuitRequested.Subscribe(e.Stop)
	return e
}

// Context returns the engine services.
func (e *Engine) Context() *Context { return e.ctx }

// Scene returns the running scene, or nil before the first frame.
func (e *Engine) Scene() *Scene { return e.scene }

// Frame is the number of frames the engine has run.
func (e *Engine) Frame() int { return e.frame }

// FPS is the number of frames rendered during the last second.
func (e *Engine) FPS() int { return e.fps }

// UpdateTime and DrawTime are how long the last update and draw took.
func (e *Engine) UpdateTime() time.Duration { return e.updateTime }
func (e *Engine) DrawTime() time.Duration   { return e.drawTime }

// Metrics returns the frame time summaries.
func (e *Engine) Metrics() *Metrics { return e.metrics }

func (e *Engine) SetMetricsEnabled(enabled bool) { e.metricsEnabled = enabled }
func (e *Engine) SetLogMetrics(enabled bool)     { e.logMetrics = enabled }

// LoadScene switches to a scene built by factory at the end of the current
// frame.
func (e *Engine) LoadScene(factory SceneFactory) {
	e.nextFactory = factory
}

// ReloadScene rebuilds the current scene from its factory. The old scene
// ends normally first.
func (e *Engine) ReloadScene() {
	if e.sceneFactory != nil {
		e.LoadScene(e.sceneFactory)
	}
}

// SetScript runs a script, one step per frame.
func (e *Engine) SetScript(s *Script) { e.script = s }

// Stop ends the game loop after the current frame.
func (e *Engine) Stop() {
	if e.stopRequested {
		return
	}
	e.stopRequested = true
	e.OnStop.Execute()
}

// Run opens the window and runs the game loop until Stop is called or the
// window closes. If a frame panicked, the error wraps ErrPanicked.
func (e *Engine) Run(first SceneFactory) error {
	if first == nil {
		return ErrNoScene
	}
	e.ctx.Window.apply()
	e.ctx.Input.live = true
	e.running = true
	ebiten.SetTPS(e.ctx.Config.Engine.Framerate)
	ebiten.SetWindowClosingHandled(true)
	e.LoadScene(first)

	err := ebiten.RunGame(e)
	e.running = false
	e.shutdown()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}

// Update runs one frame of game logic. Scene transitions and frame
// counters for the previous frame are applied first, so the previous frame
// has already been drawn. A panic during the frame is written to a crash
// log and ends the game with an ErrPanicked error.
func (e *Engine) Update() (err error) {
	if e.crashed != nil {
		return e.crashed
	}
	defer e.recoverFrame(&err)

	e.endFrame()

	if e.running && ebiten.IsWindowBeingClosed() {
		e.OnQuitRequested.Execute()
	}
	if e.stopRequested {
		return ebiten.Termination
	}

	e.ctx.Window.Update()
	e.ctx.Time.Update()
	e.ctx.Input.Update()
	if e.ctx.Input.KeyJustPressed(ebiten.KeyBackquote) {
		e.ctx.SetDebug(!e.ctx.debug)
	}

	start := time.Now()
	if e.scene != nil {
		e.scene.Update()
	}
	e.ctx.Coroutines.Step()
	if e.script != nil {
		e.script.step(e)
	}
	e.updateTime = time.Since(start)
	if e.metricsEnabled {
		e.metrics.addUpdate(e.updateTime)
	}

	e.frameOpen = true
	return nil
}

// Draw renders the scene into the window's viewport and the viewport onto
// the screen.
func (e *Engine) Draw(screen *ebiten.Image) {
	if e.crashed != nil {
		return
	}
	defer e.recoverFrame(&e.crashed)
	start := time.Now()

	screen.Fill(ColorBlack.RGBA())
	e.ctx.Window.ViewportTexture().Fill(ColorBlack)
	if e.scene != nil {
		e.scene.Draw()
	}
	e.ctx.Window.Present(screen)
	e.flushScreenshots(screen)

	e.drawTime = time.Since(start)
	if e.metricsEnabled {
		e.metrics.addDraw(e.drawTime)
	}
	e.framesRendered++
}

// Layout reports the window size as the screen size, so the viewport is
// computed in window pixels.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	e.ctx.Window.resize(outsideWidth, outsideHeight)
	return e.ctx.Window.Width(), e.ctx.Window.Height()
}

// endFrame finishes the previous frame: pending scene switch, then frame
// and FPS counters and metrics. The counters tick for the scene that is
// current after the switch.
func (e *Engine) endFrame() {
	if e.nextFactory != nil {
		e.transitionScene()
	}
	if e.frameOpen {
		e.closeFrame()
	}
}

func (e *Engine) closeFrame() {
	e.frameOpen = false

	e.frame++
	if e.scene != nil {
		e.scene.frame++
	}

	e.fpsTicks += e.ctx.Time.DeltaMs()
	if e.fpsTicks > 1000 {
		e.fpsTicks -= 1000
		e.fps = e.framesRendered
		e.framesRendered = 0
	}

	if e.metricsEnabled {
		e.metrics.advance(time.Duration(e.ctx.Time.DeltaMs()) * time.Millisecond)
		if e.logMetrics && e.metrics.Updated() {
			colored := e.ctx.Config.Logging.Format != "json"
			e.log.Debug(e.metrics.line(e.fps, colored))
		}
	}
}

func (e *Engine) transitionScene() {
	factory := e.nextFactory
	e.nextFactory = nil

	if e.scene != nil {
		e.log.Debug("unloading scene", zap.Stringer("scene", e.scene))
		e.scene.end()
	}

	value := factory(e.ctx)
	e.sceneFactory = factory
	e.scene = value.Base()
	e.scene.bind(value)

	e.log.Debug("loading scene", zap.Stringer("scene", e.scene))
	e.scene.load()
	e.scene.start()
}

// recoverFrame turns a panic in Update or Draw into a crash log and an
// error. ebiten runs the game loop on its own goroutine, where a deferred
// HandleCrash in main cannot reach. In debug mode the panic is re-raised
// so the trace reaches the terminal.
func (e *Engine) recoverFrame(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if e.ctx.Config.Engine.Debug {
		e.log.Error("panic", zap.Any("value", r))
		_ = e.log.Sync()
		panic(r)
	}
	e.crashed = recordCrash(e.crashDir, r, e.log)
	*err = e.crashed
}

func (e *Engine) shutdown() {
	// A scene that panicked is left as is; ending it could panic again.
	if e.scene != nil && e.crashed == nil {
		e.scene.end()
	}
	e.scene = nil
	e.ctx.Coroutines.StopAll()
	e.ctx.Window.Dispose()
	_ = e.log.Sync()
}
