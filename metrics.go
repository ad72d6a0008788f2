package potion

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gookit/color"
)

// Summary is the minimum, median and maximum of a set of frame times, in
// milliseconds.
type Summary struct {
	Min, Median, Max int64
}

func summarize(samples []int64) Summary {
	if len(samples) == 0 {
		return Summary{}
	}
	s := slices.Clone(samples)
	slices.Sort(s)
	n := len(s)
	median := s[n/2]
	if n%2 == 0 {
		median = (s[n/2-1] + s[n/2]) / 2
	}
	return Summary{Min: s[0], Median: median, Max: s[n-1]}
}

var (
	barUpdate = color.Style{color.FgGreen}
	barDraw   = color.Style{color.FgCyan}
	barBlank  = color.Style{color.FgGray}
)

const barWidth = 16

// Metrics collects update and draw times and summarizes them every
// interval.
type Metrics struct {
	interval time.Duration
	elapsed  time.Duration
	updated  bool

	updateTimes []int64
	drawTimes   []int64
	update      Summary
	draw        Summary
}

func newMetrics(interval time.Duration) *Metrics {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Metrics{interval: interval}
}

func (m *Metrics) addUpdate(d time.Duration) { m.updateTimes = append(m.updateTimes, d.Milliseconds()) }
func (m *Metrics) addDraw(d time.Duration)   { m.drawTimes = append(m.drawTimes, d.Milliseconds()) }

// advance adds one frame's delta. When the interval has passed it replaces
// the summaries and clears the samples.
func (m *Metrics) advance(delta time.Duration) {
	m.updated = false
	m.elapsed += delta
	if m.elapsed < m.interval {
		return
	}
	m.updated = true
	m.elapsed = 0
	m.update = summarize(m.updateTimes)
	m.draw = summarize(m.drawTimes)
	m.updateTimes = m.updateTimes[:0]
	m.drawTimes = m.drawTimes[:0]
}

// Updated reports whether the summaries changed this frame.
func (m *Metrics) Updated() bool { return m.updated }

func (m *Metrics) UpdateSummary() Summary { return m.update }
func (m *Metrics) DrawSummary() Summary   { return m.draw }

// line formats the metrics log line: FPS, a bar with one cell per
// millisecond of median update time and draw time, then the total:
//
//	60 FPS ███▓▓░░░░░░░░░░░  5 ms
func (m *Metrics) line(fps int, colored bool) string {
	u, d := int(m.update.Median), int(m.draw.Median)
	blank := max(barWidth-u-d, 0)

	paint := func(s color.Style, text string) string {
		if colored {
			return s.Sprint(text)
		}
		return text
	}
	bar := paint(barUpdate, strings.Repeat("█", u)) +
		paint(barDraw, strings.Repeat("▓", d)) +
		paint(barBlank, strings.Repeat("░", blank))

	return fmt.Sprintf("%2d FPS %s %2d ms", fps, bar, u+d)
}
