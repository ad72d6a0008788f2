package potion

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestCoroutineRunsOneSlicePerStep(t *testing.T) {
	c := NewCoroutines(zap.NewNop())
	count := 0
	co := c.Start(func(yield func() bool) {
		for i := 0; i < 3; i++ {
			count++
			if !yield() {
				return
			}
		}
	})
	if count != 0 {
		t.Fatalf("routine ran before the first Step")
	}

	for want := 1; want <= 3; want++ {
		c.Step()
		if count != want {
			t.Errorf("after step %d count = %d", want, count)
		}
	}
	if co.Done() {
		t.Error("routine done before its final resume")
	}
	c.Step()
	if !co.Done() || c.Len() != 0 {
		t.Errorf("Done = %v, Len = %d after return", co.Done(), c.Len())
	}
}

func TestCoroutineStop(t *testing.T) {
	c := NewCoroutines(zap.NewNop())
	cleaned := false
	co := c.Start(func(yield func() bool) {
		for yield() {
		}
		cleaned = true
	})
	c.Step()
	c.Step()
	c.Stop(co)
	c.Step()
	if !cleaned {
		t.Error("stopped routine did not see yield return false")
	}
	if !co.Done() || c.Len() != 0 {
		t.Errorf("Done = %v, Len = %d", co.Done(), c.Len())
	}
}

func TestCoroutineStopNotRunning(t *testing.T) {
	ctx, logs := newTestContext()
	c := ctx.Coroutines
	co := c.Start(func(yield func() bool) {})
	c.Step()

	c.Stop(co)
	c.Stop(nil)
	if n := logs.FilterMessage("cannot stop coroutine: it is not running").Len(); n != 2 {
		t.Errorf("logged %d errors, want 2", n)
	}
	if c.Start(nil) != nil {
		t.Error("Start(nil) should return nil")
	}
}

func TestCoroutineStartedDuringStep(t *testing.T) {
	c := NewCoroutines(zap.NewNop())
	inner := false
	c.Start(func(yield func() bool) {
		c.Start(func(yield func() bool) { inner = true })
	})
	c.Step()
	if !inner {
		t.Error("routine started during Step should run in the same Step")
	}
}

func TestCoroutineStopAll(t *testing.T) {
	c := NewCoroutines(zap.NewNop())
	forever := func(yield func() bool) {
		for yield() {
		}
	}
	a := c.Start(forever)
	b := c.Start(forever)
	c.Step()
	c.StopAll()
	if c.Len() != 0 || !a.Done() || !b.Done() {
		t.Errorf("StopAll: Len %d, done %v/%v", c.Len(), a.Done(), b.Done())
	}
}

func TestWaitFrames(t *testing.T) {
	c := NewCoroutines(zap.NewNop())
	done := false
	c.Start(func(yield func() bool) {
		if WaitFrames(yield, 3) {
			done = true
		}
	})
	for i := 0; i < 3; i++ {
		c.Step()
		if done {
			t.Fatalf("finished after %d steps, want 4", i+1)
		}
	}
	c.Step()
	if !done {
		t.Error("WaitFrames(3) did not finish on the fourth step")
	}
}

func TestWaitSeconds(t *testing.T) {
	clock := NewTime(10)
	now := time.Unix(0, 0)
	clock.now = func() time.Time { return now }

	c := NewCoroutines(zap.NewNop())
	done := false
	c.Start(func(yield func() bool) {
		if WaitSeconds(yield, clock, 0.25) {
			done = true
		}
	})

	steps := 0
	for !done && steps < 10 {
		clock.Update()
		now = now.Add(100 * time.Millisecond)
		c.Step()
		steps++
	}
	if !done || steps != 4 {
		t.Errorf("WaitSeconds(0.25) at 100ms frames finished=%v after %d steps, want 4", done, steps)
	}
}

func TestWaitStopped(t *testing.T) {
	c := NewCoroutines(zap.NewNop())
	result := true
	co := c.Start(func(yield func() bool) {
		result = WaitFrames(yield, 100)
	})
	c.Step()
	c.Stop(co)
	c.Step()
	if result {
		t.Error("WaitFrames should return false when stopped")
	}
}
