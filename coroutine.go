package potion

import (
	"iter"
	"slices"

	"go.uber.org/zap"
)

// Routine is a frame-sliced function. Each call to yield ends the routine's
// work for the current frame; the routine resumes from there next frame.
// When yield returns false the routine has been stopped and must return.
//
//	ctx.Coroutines.Start(func(yield func() bool) {
//		for i := 0; i < 10; i++ {
//			door.Y--
//			if !yield() {
//				return
//			}
//		}
//	})
type Routine func(yield func() bool)

// Coroutine is a running Routine.
type Coroutine struct {
	next    func() (struct{}, bool)
	stop    func()
	stopped bool
	done    bool
}

// Done reports whether the routine finished or was stopped.
func (co *Coroutine) Done() bool { return co.done }

// Coroutines advances every running routine once per frame.
type Coroutines struct {
	running []*Coroutine
	log     *zap.Logger
}

func NewCoroutines(log *zap.Logger) *Coroutines {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coroutines{log: log}
}

// Len returns the number of running routines.
func (c *Coroutines) Len() int { return len(c.running) }

// Start schedules r. It first runs at the next Step, or later in the
// current Step when called from a routine or hook that Step is running.
func (c *Coroutines) Start(r Routine) *Coroutine {
	if r == nil {
		c.log.Error("cannot start coroutine: routine is nil")
		return nil
	}
	seq := iter.Seq[struct{}](func(y func(struct{}) bool) {
		r(func() bool { return y(struct{}{}) })
	})
	next, stop := iter.Pull(seq)
	co := &Coroutine{next: next, stop: stop}
	c.running = append(c.running, co)
	return co
}

// Stop stops co before its next resume.
func (c *Coroutines) Stop(co *Coroutine) {
	if co == nil || co.done || !slices.Contains(c.running, co) {
		c.log.Error("cannot stop coroutine: it is not running")
		return
	}
	co.stopped = true
}

// Step removes stopped routines, then resumes every other routine once.
// Routines that return are dropped.
func (c *Coroutines) Step() {
	if len(c.running) == 0 {
		return
	}

	c.running = slices.DeleteFunc(c.running, func(co *Coroutine) bool {
		if co.stopped {
			co.stop()
			co.done = true
		}
		return co.done
	})

	// Routines started during the loop run in the same step.
	for i := 0; i < len(c.running); i++ {
		co := c.running[i]
		if co.stopped {
			continue
		}
		if _, ok := co.next(); !ok {
			co.done = true
		}
	}

	c.running = slices.DeleteFunc(c.running, func(co *Coroutine) bool {
		return co.done
	})
}

// StopAll stops and drops every routine.
func (c *Coroutines) StopAll() {
	for _, co := range c.running {
		co.stop()
		co.done = true
	}
	c.running = nil
}

// WaitFrames yields n times. It returns false if the routine was stopped
// while waiting.
//
//	if !potion.WaitFrames(yield, 30) {
//		return
//	}
func WaitFrames(yield func() bool, n int) bool {
	for i := 0; i < n; i++ {
		if !yield() {
			return false
		}
	}
	return true
}

// WaitSeconds yields until at least s seconds of frame time have passed.
// It returns false if the routine was stopped while waiting.
func WaitSeconds(yield func() bool, t *Time, s float64) bool {
	for elapsed := 0.0; elapsed < s; {
		elapsed += t.Delta()
		if !yield() {
			return false
		}
	}
	return true
}
