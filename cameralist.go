package potion

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"slices"
)

// ErrDuplicateCamera is returned (or panicked with) when a camera's name or
// draw order is already used in the scene.
var ErrDuplicateCamera = errors.New("duplicate camera")

// CameraList holds a scene's cameras. Like EntityList, additions and
// removals are queued and applied by UpdateList.
type CameraList struct {
	scene *Scene

	cameras []*Camera
	byName  map[string]*Camera
	sorted  bool

	toAdd    []*Camera
	toRemove []*Camera
}

func newCameraList(scene *Scene) *CameraList {
	return &CameraList{
		scene:  scene,
		byName: make(map[string]*Camera),
		sorted: true,
	}
}

func (l *CameraList) String() string {
	return fmt.Sprintf("CameraList(%d items)", len(l.cameras))
}

func (l *CameraList) Len() int { return len(l.cameras) }

// All iterates over cameras in draw order.
func (l *CameraList) All() iter.Seq[*Camera] {
	return func(yield func(*Camera) bool) {
		for _, c := range l.cameras {
			if !yield(c) {
				return
			}
		}
	}
}

// Active iterates over active cameras in draw order.
func (l *CameraList) Active() iter.Seq[*Camera] {
	return func(yield func(*Camera) bool) {
		for _, c := range l.cameras {
			if c.active && !yield(c) {
				return
			}
		}
	}
}

// Get returns the live camera with the given name, or nil.
func (l *CameraList) Get(name string) *Camera {
	return l.byName[name]
}

// Add queues a camera. A camera whose name or draw order clashes with a
// live or queued camera is a programming error and panics.
func (l *CameraList) Add(c *Camera) {
	if err := l.TryAdd(c); err != nil {
		panic(err)
	}
}

// TryAdd is Add, returning an error wrapping ErrDuplicateCamera instead of
// panicking.
func (l *CameraList) TryAdd(c *Camera) error {
	for _, other := range slices.Concat(l.cameras, l.toAdd) {
		if other == c {
			return nil
		}
		if other.name == c.name {
			return fmt.Errorf("camera %q already added to the scene: %w", c.name, ErrDuplicateCamera)
		}
		if other.drawOrder == c.drawOrder {
			return fmt.Errorf("%s has the same draw order as %s: %w", c, other, ErrDuplicateCamera)
		}
	}
	l.toAdd = append(l.toAdd, c)
	l.flagSort()
	return nil
}

// Remove queues a live camera for removal. It is disposed once removed.
func (l *CameraList) Remove(c *Camera) {
	if !slices.Contains(l.cameras, c) || slices.Contains(l.toRemove, c) {
		return
	}
	l.toRemove = append(l.toRemove, c)
}

func (l *CameraList) flagSort() {
	l.sorted = false
}

// UpdateList applies queued additions and removals, starts new cameras and
// re-sorts the list when needed.
func (l *CameraList) UpdateList() {
	for _, c := range l.toAdd {
		l.cameras = append(l.cameras, c)
		l.byName[c.name] = c
		c.scene = l.scene
	}

	for _, c := range l.toRemove {
		if i := slices.Index(l.cameras, c); i >= 0 {
			l.cameras = slices.Delete(l.cameras, i, i+1)
		}
		delete(l.byName, c.name)
		c.scene = nil
		c.Dispose()
	}

	for _, c := range l.toAdd {
		c.Start()
	}

	if !l.sorted {
		l.Sort()
	}

	l.toAdd = l.toAdd[:0]
	l.toRemove = l.toRemove[:0]
}

// Sort orders cameras by draw order, highest first. Cameras drawn first end
// up in the background.
func (l *CameraList) Sort() {
	slices.SortStableFunc(l.cameras, func(a, b *Camera) int {
		return cmp.Compare(b.drawOrder, a.drawOrder)
	})
	l.sorted = true
}

// dispose releases every camera, live or queued.
func (l *CameraList) dispose() {
	for _, c := range slices.Concat(l.cameras, l.toAdd) {
		c.Dispose()
	}
	l.cameras = nil
	l.toAdd = nil
	l.toRemove = nil
	clear(l.byName)
}
