package potion

import (
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Scener is implemented by game scenes. Embed *Scene in a struct to get it,
// then add any of the optional hooks below.
//
//	type Title struct{ *potion.Scene }
//
//	func NewTitle(ctx *potion.Context) potion.Scener {
//		return &Title{Scene: potion.NewScene(ctx)}
//	}
type Scener interface {
	Base() *Scene
}

// CameraSetup adds or configures cameras. It runs first when the scene
// loads.
type CameraSetup interface {
	SetupCameras(ctx *Context)
}

// EntityLoader adds the scene's initial entities. It runs after
// SetupCameras.
type EntityLoader interface {
	LoadEntities(ctx *Context)
}

// SceneStarter runs right after the scene has loaded.
type SceneStarter interface {
	Start(ctx *Context)
}

// SceneEnder runs before the engine switches to the next scene.
type SceneEnder interface {
	End(ctx *Context)
}

// SceneFactory builds a fresh scene. The engine keeps the factory of the
// current scene so it can be reloaded.
type SceneFactory func(ctx *Context) Scener

// Scene owns the entities, cameras and levels that the engine is currently
// running. Every scene starts with two cameras: "Main", which draws
// everything not tagged "UI", and "UI", which draws only "UI" entities in
// front of it.
type Scene struct {
	ctx  *Context
	log  *zap.Logger
	self Scener

	name   string
	frame  int
	paused bool

	cameras  *CameraList
	entities *EntityList

	levels     map[string]*Level
	levelOrder []*Level

	mainCamera *Camera
	uiCamera   *Camera

	events EventSink
}

// NewScene creates a scene with the default cameras.
func NewScene(ctx *Context) *Scene {
	s := &Scene{
		ctx:    ctx,
		log:    ctx.Log,
		levels: make(map[string]*Level),
	}
	s.cameras = newCameraList(s)
	s.entities = newEntityList(s, ctx)

	s.mainCamera = NewCamera(ctx, "Main", 0)
	s.mainCamera.ExcludeTag("UI")
	s.cameras.Add(s.mainCamera)

	s.uiCamera = NewCamera(ctx, "UI", -1000)
	s.uiCamera.IncludeTag("UI")
	s.cameras.Add(s.uiCamera)
	return s
}

// Base returns s. It lets any struct embedding *Scene satisfy Scener.
func (s *Scene) Base() *Scene { return s }

func (s *Scene) String() string { return "Scene(" + s.name + ")" }

// Name returns the scene name, "TypeName-<uuid>" unless set.
func (s *Scene) Name() string { return s.name }

func (s *Scene) SetName(name string) { s.name = name }

// Frame is the number of frames the scene has run.
func (s *Scene) Frame() int { return s.frame }

// Paused scenes skip the Update hook of pausable entities.
func (s *Scene) Paused() bool { return s.paused }

func (s *Scene) SetPaused(paused bool) { s.paused = paused }

func (s *Scene) MainCamera() *Camera      { return s.mainCamera }
func (s *Scene) UICamera() *Camera        { return s.uiCamera }
func (s *Scene) Cameras() *CameraList     { return s.cameras }
func (s *Scene) Entities() *EntityList    { return s.entities }
func (s *Scene) Context() *Context        { return s.ctx }
func (s *Scene) SetEventSink(e EventSink) { s.events = e }

// Add queues an entity for the scene. Shorthand for Entities().Add.
func (s *Scene) Add(e Entity) { s.entities.Add(e) }

// Levels returns the scene's levels in the order they were added.
func (s *Scene) Levels() []*Level { return s.levelOrder }

// Level returns the named level, or nil.
func (s *Scene) Level(name string) *Level { return s.levels[name] }

// AddLevel adds a level, replacing any level with the same name.
func (s *Scene) AddLevel(l *Level) {
	if old, ok := s.levels[l.name]; ok && old != l {
		s.RemoveLevel(old)
	}
	l.scene = s
	if !slices.Contains(s.levelOrder, l) {
		s.levelOrder = append(s.levelOrder, l)
	}
	s.levels[l.name] = l
}

// RemoveLevel removes a level and unregisters its entities from it. The
// entities stay in the scene.
func (s *Scene) RemoveLevel(l *Level) {
	if s.levels[l.name] != l {
		s.log.Error("level is not in scene", zap.Stringer("level", l), zap.Stringer("scene", s))
		return
	}
	for _, e := range slices.Clone(l.entities) {
		l.RemoveEntity(e)
	}
	l.scene = nil
	delete(s.levels, l.name)
	if i := slices.Index(s.levelOrder, l); i >= 0 {
		s.levelOrder = slices.Delete(s.levelOrder, i, i+1)
	}
}

// bind attaches the user scene value so its optional hooks can be found.
func (s *Scene) bind(self Scener) {
	s.self = self
	if s.name == "" {
		s.name = typeName(self) + "-" + uuid.NewString()
	}
}

// load sets up cameras, then loads entities, syncing each list so the
// first frame starts with everything in place.
func (s *Scene) load() {
	if h, ok := s.self.(CameraSetup); ok {
		h.SetupCameras(s.ctx)
	}
	s.cameras.flagSort()
	s.cameras.UpdateList()

	if h, ok := s.self.(EntityLoader); ok {
		h.LoadEntities(s.ctx)
	}
	s.entities.flagDrawListSort()
	s.entities.UpdateList()
}

func (s *Scene) start() {
	if h, ok := s.self.(SceneStarter); ok {
		h.Start(s.ctx)
	}
}

// Update syncs the camera and entity lists, then runs one frame of entity
// and camera logic.
func (s *Scene) Update() {
	s.cameras.UpdateList()
	s.entities.UpdateList()
	s.entities.Update()
	dt := s.ctx.Time.Delta()
	for cam := range s.cameras.All() {
		cam.Update(dt)
	}
}

// Draw renders the scene through every active camera, background first.
func (s *Scene) Draw() {
	for cam := range s.cameras.Active() {
		cam.Draw(s.entities)
	}
}

// end ends every entity, runs the End hook and releases the cameras.
func (s *Scene) end() {
	s.entities.End()
	if h, ok := s.self.(SceneEnder); ok {
		h.End(s.ctx)
	}
	s.cameras.dispose()
}
