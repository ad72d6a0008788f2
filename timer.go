package potion

import "go.uber.org/zap"

// Timer counts up from zero to its duration, in seconds. It advances by a
// fixed step of one frame at the engine framerate on every Update, so it
// stays in lockstep with the game regardless of real frame times.
type Timer struct {
	value    float64
	duration float64
	step     float64
	running  bool
	finished bool
	loop     bool
	log      *zap.Logger
}

// NewTimer creates a stopped, looping timer.
func NewTimer(ctx *Context, duration float64) *Timer {
	t := &Timer{
		duration: 1,
		step:     ctx.Time.FramesToSeconds(1),
		loop:     true,
		log:      ctx.Log,
	}
	t.SetDuration(duration)
	return t
}

func (t *Timer) Value() float64    { return t.value }
func (t *Timer) Duration() float64 { return t.duration }
func (t *Timer) Running() bool     { return t.running }

// Finished reports whether the timer reached its duration during the last
// Update.
func (t *Timer) Finished() bool { return t.finished }

// Loop reports whether the timer wraps around when it finishes.
func (t *Timer) Loop() bool { return t.loop }

func (t *Timer) SetLoop(loop bool) { t.loop = loop }

// SetDuration sets the duration in seconds. It must be greater than zero.
func (t *Timer) SetDuration(d float64) {
	if d <= 0 {
		t.log.Error("timer duration must be greater than 0", zap.Float64("duration", d))
		return
	}
	t.duration = d
}

func (t *Timer) Start() { t.running = true }

// Update advances a running timer by one frame.
func (t *Timer) Update() {
	t.finished = false
	if !t.running {
		return
	}
	t.value += t.step
	if t.value >= t.duration {
		t.finished = true
		if t.loop {
			t.value -= t.duration
		} else {
			t.value = t.duration
		}
	}
}

// Pause stops the timer without resetting it.
func (t *Timer) Pause() { t.running = false }

// Stop stops the timer and resets it to zero.
func (t *Timer) Stop() {
	t.value = 0
	t.running = false
	t.finished = false
}

// Reset sets the timer back to zero. A running timer keeps running.
func (t *Timer) Reset() {
	t.value = 0
	t.finished = false
}

// Progress returns how far the timer is through its duration, in [0, 1].
func (t *Timer) Progress() float64 {
	if t.finished {
		return 1
	}
	return t.value / t.duration
}
