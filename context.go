package potion

import "go.uber.org/zap"

// Context carries the engine services. Scenes, entities and cameras receive
// it instead of reaching for globals.
type Context struct {
	Config     *Config
	Log        *zap.Logger
	Time       *Time
	Input      *Input
	Renderer   *Renderer
	Window     *Window
	Coroutines *Coroutines
	Paths      Paths
	Saves      *SaveData

	engine *Engine
	debug  bool
}

// NewContext builds the services described by cfg. It does not open a
// window; NewEngine does that when it runs. A nil cfg uses DefaultConfig
// and a nil log discards output.
func NewContext(cfg *Config, log *zap.Logger) *Context {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	renderer := NewRenderer(cfg.Renderer.Width, cfg.Renderer.Height, log)
	paths := NewPaths(cfg.CleanName())
	ctx := &Context{
		Config:     cfg,
		Log:        log,
		Time:       NewTime(cfg.Engine.Framerate),
		Input:      NewInput(),
		Renderer:   renderer,
		Window:     NewWindow(cfg.WindowTitle(), cfg.Window.Width, cfg.Window.Height, renderer, log),
		Coroutines: NewCoroutines(log),
		Paths:      paths,
		Saves:      NewSaveData(paths.Saves(), log),
		debug:      cfg.Engine.Debug,
	}
	ctx.Window.SetResizable(cfg.Window.Resizable)
	return ctx
}

// Debug reports whether debug drawing is on.
func (c *Context) Debug() bool { return c.debug }

func (c *Context) SetDebug(debug bool) { c.debug = debug }

// Engine returns the engine running this context, or nil.
func (c *Context) Engine() *Engine { return c.engine }

// Scene returns the running scene, or nil.
func (c *Context) Scene() *Scene {
	if c.engine == nil || c.engine.scene == nil {
		return nil
	}
	return c.engine.scene
}

// Instantiate adds e to the running scene. It reports false when no scene
// is running.
func (c *Context) Instantiate(e Entity) bool {
	s := c.Scene()
	if s == nil {
		return false
	}
	s.Entities().Add(e)
	return true
}
