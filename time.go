package potion

import "time"

// Time measures the time between frames and converts between seconds and
// frames at the engine framerate.
type Time struct {
	framerate int
	now       func() time.Time
	prev      time.Time

	deltaMs int64
	delta   float64
}

// NewTime creates a clock for the given framerate.
func NewTime(framerate int) *Time {
	return &Time{framerate: max(framerate, 1), now: time.Now}
}

// Update measures the time since the previous call. The first call reports
// one frame at the engine framerate.
func (t *Time) Update() {
	now := t.now()
	if t.prev.IsZero() {
		t.delta = t.FramesToSeconds(1)
		t.deltaMs = int64(t.FramesToMs(1))
	} else {
		d := now.Sub(t.prev)
		t.deltaMs = d.Milliseconds()
		t.delta = d.Seconds()
	}
	t.prev = now
}

// Framerate is the fixed framerate the engine runs at.
func (t *Time) Framerate() int { return t.framerate }

// Delta is the time since the previous frame, in seconds.
func (t *Time) Delta() float64 { return t.delta }

// DeltaMs is the time since the previous frame, in whole milliseconds.
func (t *Time) DeltaMs() int64 { return t.deltaMs }

func (t *Time) SecondsToFrames(s float64) float64 { return s * float64(t.framerate) }
func (t *Time) MsToFrames(ms float64) float64     { return ms / 1000 * float64(t.framerate) }
func (t *Time) FramesToSeconds(f float64) float64 { return f / float64(t.framerate) }
func (t *Time) FramesToMs(f float64) float64      { return f * 1000 / float64(t.framerate) }
