package potion

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// recordingScene logs its hooks into a shared slice, prefixed with its id.
type recordingScene struct {
	*Scene
	id    string
	calls *[]string
	load  func(ctx *Context)
}

func (s *recordingScene) record(hook string) { *s.calls = append(*s.calls, s.id+":"+hook) }

func (s *recordingScene) SetupCameras(*Context) { s.record("cameras") }

func (s *recordingScene) LoadEntities(ctx *Context) {
	s.record("entities")
	if s.load != nil {
		s.load(ctx)
	}
}

func (s *recordingScene) Start(*Context) { s.record("start") }
func (s *recordingScene) End(*Context)   { s.record("end") }

func recordingFactory(id string, calls *[]string) SceneFactory {
	return func(ctx *Context) Scener {
		return &recordingScene{Scene: NewScene(ctx), id: id, calls: calls}
	}
}

func TestEngineSceneTransition(t *testing.T) {
	e := NewEngine(nil, nil)
	var calls []string
	e.LoadScene(recordingFactory("a", &calls))
	if e.Scene() != nil {
		t.Fatal("LoadScene switched scenes before the next frame")
	}

	if err := e.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := []string{"a:cameras", "a:entities", "a:start"}
	if !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
	if e.Scene() == nil || e.Context().Scene() != e.Scene() {
		t.Fatal("scene not running after the first Update")
	}

	calls = nil
	e.LoadScene(recordingFactory("b", &calls))
	e.Update()
	want = []string{"a:end", "b:cameras", "b:entities", "b:start"}
	if !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestEngineSceneName(t *testing.T) {
	e := NewEngine(nil, nil)
	var calls []string
	e.LoadScene(recordingFactory("a", &calls))
	e.Update()
	name := e.Scene().Name()
	if len(name) <= len("recordingScene-") || name[:len("recordingScene-")] != "recordingScene-" {
		t.Errorf("Name = %q, want recordingScene-<uuid>", name)
	}
}

func TestEngineReloadScene(t *testing.T) {
	e := NewEngine(nil, nil)
	e.ReloadScene()
	e.Update()
	if e.Scene() != nil {
		t.Fatal("ReloadScene with no scene should do nothing")
	}

	var calls []string
	e.LoadScene(recordingFactory("a", &calls))
	e.Update()
	first := e.Scene()

	calls = nil
	e.ReloadScene()
	e.Update()
	want := []string{"a:end", "a:cameras", "a:entities", "a:start"}
	if !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
	if e.Scene() == first {
		t.Error("reload kept the old scene")
	}
}

func TestEngineFrameCounters(t *testing.T) {
	e := NewEngine(nil, nil)
	var calls []string
	e.LoadScene(recordingFactory("a", &calls))

	e.Update()
	if e.Frame() != 0 || e.Scene().Frame() != 0 {
		t.Errorf("frame = %d/%d during the first frame, want 0/0", e.Frame(), e.Scene().Frame())
	}
	e.Update()
	e.Update()
	if e.Frame() != 2 || e.Scene().Frame() != 2 {
		t.Errorf("frame = %d/%d, want 2/2", e.Frame(), e.Scene().Frame())
	}

	e.LoadScene(recordingFactory("b", &calls))
	e.Update()
	if e.Frame() != 3 || e.Scene().Frame() != 1 {
		t.Errorf("after switch frame = %d/%d, want 3/1", e.Frame(), e.Scene().Frame())
	}
}

func TestEngineUpdatesEntitiesAndCoroutines(t *testing.T) {
	e := NewEngine(nil, nil)
	var calls []string
	p := newTracker("loaded", 0, 0, 4, 4)
	e.LoadScene(func(ctx *Context) Scener {
		return &recordingScene{
			Scene: NewScene(ctx),
			id:    "a",
			calls: &calls,
			load:  func(ctx *Context) { ctx.Scene().Add(p) },
		}
	})

	ctx := e.Context()
	if ctx.Instantiate(newTracker("early", 0, 0, 1, 1)) {
		t.Error("Instantiate succeeded with no scene running")
	}

	steps := 0
	ctx.Coroutines.Start(func(yield func() bool) {
		for {
			steps++
			if !yield() {
				return
			}
		}
	})

	e.Update()
	if p.updates != 1 {
		t.Errorf("loaded entity updated %d times on the first frame, want 1", p.updates)
	}

	late := newTracker("late", 0, 0, 1, 1)
	if !ctx.Instantiate(late) {
		t.Fatal("Instantiate failed with a running scene")
	}
	e.Update()
	if late.updates != 1 || p.updates != 2 {
		t.Errorf("updates = %d/%d, want 1/2", late.updates, p.updates)
	}
	if steps != 2 {
		t.Errorf("coroutine stepped %d times, want 2", steps)
	}
}

func TestEngineStop(t *testing.T) {
	e := NewEngine(nil, nil)
	stops := 0
	e.OnStop.Subscribe(func() { stops++ })

	if err := e.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	e.Stop()
	e.Stop()
	if stops != 1 {
		t.Errorf("OnStop fired %d times, want 1", stops)
	}
	if err := e.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Update after Stop = %v, want ebiten.Termination", err)
	}
}

func TestEngineQuitRequestedStops(t *testing.T) {
	e := NewEngine(nil, nil)
	e.OnQuitRequested.Execute()
	if err := e.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Update = %v, want ebiten.Termination", err)
	}
}

func TestEngineRunWithoutScene(t *testing.T) {
	e := NewEngine(nil, nil)
	if err := e.Run(nil); !errors.Is(err, ErrNoScene) {
		t.Errorf("Run(nil) = %v, want ErrNoScene", err)
	}
}

func TestEngineDebugToggle(t *testing.T) {
	e := NewEngine(nil, nil)
	ctx := e.Context()
	ctx.Input.InjectKey(ebiten.KeyBackquote)
	e.Update()
	if !ctx.Debug() {
		t.Fatal("backquote did not turn debug on")
	}
	e.Update()
	if !ctx.Debug() {
		t.Error("debug toggled again without a key press")
	}
	ctx.Input.InjectKey(ebiten.KeyBackquote)
	e.Update()
	if ctx.Debug() {
		t.Error("second backquote did not turn debug off")
	}
}

func TestEngineDefaults(t *testing.T) {
	e := NewEngine(nil, nil)
	if e.Context().Engine() != e {
		t.Error("context does not point back at its engine")
	}
	if e.screenshotDir != "screenshots" {
		t.Errorf("screenshot dir = %q, want screenshots", e.screenshotDir)
	}
	if w, h := e.Layout(1000, 700); w != 1000 || h != 700 {
		t.Errorf("Layout = %dx%d, want 1000x700", w, h)
	}
	if e.Context().Window.ViewportScale() != 3 {
		t.Errorf("viewport scale after Layout = %d, want 3", e.Context().Window.ViewportScale())
	}
}

func TestEngineDraw(t *testing.T) {
	e := NewEngine(nil, nil)
	var calls []string
	e.LoadScene(recordingFactory("a", &calls))
	e.Update()

	screen := ebiten.NewImage(1280, 720)
	defer screen.Deallocate()
	e.Draw(screen)
	if e.framesRendered != 1 {
		t.Errorf("framesRendered = %d, want 1", e.framesRendered)
	}
}

type hoverTracker struct {
	BaseEntity
	enters, overs, exits int
}

func (h *hoverTracker) OnMouseEnter() { h.enters++ }
func (h *hoverTracker) OnMouseOver()  { h.overs++ }
func (h *hoverTracker) OnMouseExit()  { h.exits++ }

func TestEngineMouseHover(t *testing.T) {
	e := NewEngine(nil, nil)
	h := &hoverTracker{}
	h.X, h.Y = 150, 80
	h.Width, h.Height = 20, 20
	h.MouseCollisionsEnabled = true
	var calls []string
	e.LoadScene(func(ctx *Context) Scener {
		return &recordingScene{
			Scene: NewScene(ctx),
			id:    "a",
			calls: &calls,
			load:  func(ctx *Context) { ctx.Scene().Add(h) },
		}
	})
	in := e.Context().Input

	in.InjectCursor(640, 360)
	e.Update()
	e.Update()
	in.InjectCursor(0, 0)
	e.Update()
	e.Update()

	if h.enters != 1 || h.overs != 1 || h.exits != 1 {
		t.Errorf("enter/over/exit = %d/%d/%d, want 1/1/1", h.enters, h.overs, h.exits)
	}
	if h.MouseOver() {
		t.Error("MouseOver after the cursor left")
	}
}

func TestFPSDisplay(t *testing.T) {
	e := NewEngine(nil, nil)
	f := NewFPSDisplay(2, 2)
	if !f.HasTag("UI") || f.Pausable() {
		t.Error("FPS display should be an unpausable UI entity")
	}
	f.Update(e.Context())
	if f.Text() != "FPS: 0\nU: 0 D: 0" {
		t.Errorf("Text = %q", f.Text())
	}
}

// sceneWith returns a factory whose scene adds entities when it loads.
func sceneWith(entities ...Entity) SceneFactory {
	var calls []string
	return func(ctx *Context) Scener {
		return &recordingScene{
			Scene: NewScene(ctx),
			id:    "a",
			calls: &calls,
			load: func(ctx *Context) {
				for _, en := range entities {
					ctx.Scene().Add(en)
				}
			},
		}
	}
}

func readCrashLogs(t *testing.T, dir string) []string {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join(dir, "crash.*.log"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	var bodies []string
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		bodies = append(bodies, string(data))
	}
	return bodies
}

func TestEngineRecoversUpdatePanic(t *testing.T) {
	e := NewEngine(nil, nil)
	e.crashDir = t.TempDir()
	p := newTracker("boom", 0, 0, 4, 4)
	p.onUpdate = func(p *tracker) {
		if p.updates == 2 {
			panic("boom")
		}
	}
	e.LoadScene(sceneWith(p))

	if err := e.Update(); err != nil {
		t.Fatalf("first Update: %v", err)
	}
	err := e.Update()
	if !errors.Is(err, ErrPanicked) {
		t.Fatalf("Update = %v, want ErrPanicked", err)
	}
	logs := readCrashLogs(t, e.crashDir)
	if len(logs) != 1 || !strings.HasPrefix(logs[0], "panic: boom\n\n") {
		t.Fatalf("crash logs = %q, want one starting with the panic value", logs)
	}
	if !strings.Contains(logs[0], "engine_test.go") {
		t.Error("crash log stack does not reach the panicking entity")
	}

	if again := e.Update(); again != err {
		t.Errorf("Update after crash = %v, want the same error", again)
	}
	if p.updates != 2 {
		t.Errorf("entity updated %d times, want 2", p.updates)
	}
}

type drawBomb struct{ BaseEntity }

func (d *drawBomb) Draw(*Context, *Camera) { panic("draw failed") }

func TestEngineRecoversDrawPanic(t *testing.T) {
	e := NewEngine(nil, nil)
	e.crashDir = t.TempDir()
	d := &drawBomb{}
	d.X, d.Y = 10, 10
	d.Width, d.Height = 4, 4
	e.LoadScene(sceneWith(d))
	e.Update()

	screen := ebiten.NewImage(1280, 720)
	defer screen.Deallocate()
	e.Draw(screen)
	if e.framesRendered != 0 {
		t.Error("frame counted as rendered after a panic")
	}
	if err := e.Update(); !errors.Is(err, ErrPanicked) {
		t.Fatalf("Update after a draw panic = %v, want ErrPanicked", err)
	}
	if logs := readCrashLogs(t, e.crashDir); len(logs) != 1 || !strings.Contains(logs[0], "draw failed") {
		t.Errorf("crash logs = %q", logs)
	}
}

func TestEngineRecoversCoroutinePanic(t *testing.T) {
	e := NewEngine(nil, nil)
	e.crashDir = t.TempDir()
	e.Context().Coroutines.Start(func(yield func() bool) {
		panic("routine failed")
	})
	if err := e.Update(); !errors.Is(err, ErrPanicked) || !strings.Contains(err.Error(), "routine failed") {
		t.Errorf("Update = %v, want ErrPanicked mentioning the value", err)
	}
}

func TestEngineDebugRepanics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.Debug = true
	e := NewEngine(cfg, nil)
	e.crashDir = t.TempDir()
	p := newTracker("boom", 0, 0, 4, 4)
	p.onUpdate = func(*tracker) { panic("boom") }
	e.LoadScene(sceneWith(p))

	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("recovered %v, want boom", r)
		}
		if logs := readCrashLogs(t, e.crashDir); len(logs) != 0 {
			t.Errorf("debug mode wrote %d crash logs", len(logs))
		}
	}()
	e.Update()
	t.Error("Update returned instead of panicking")
}
