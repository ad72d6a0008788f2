package potion

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// scriptStep is a single action in a script.
type scriptStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
	Key    string `json:"key,omitempty"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	FromX  int    `json:"fromX,omitempty"`
	FromY  int    `json:"fromY,omitempty"`
	ToX    int    `json:"toX,omitempty"`
	ToY    int    `json:"toY,omitempty"`
	Frames int    `json:"frames,omitempty"`

	key ebiten.Key
}

type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// ErrEmptyScript is returned by LoadScript for a script with no steps.
var ErrEmptyScript = errors.New("script has no steps")

// Script sequences injected input, scene control and screenshots across
// frames for automated play-throughs. Attach it with Engine.SetScript.
//
//	{"steps": [
//	  {"action": "wait", "frames": 30},
//	  {"action": "click", "x": 100, "y": 80},
//	  {"action": "screenshot", "label": "after-click"},
//	  {"action": "quit"}
//	]}
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON script. Unknown actions and unknown key names
// are rejected here rather than while the game runs.
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: %w", ErrEmptyScript)
	}
	for i := range f.Steps {
		st := &f.Steps[i]
		switch st.Action {
		case "wait", "screenshot", "cursor", "click", "drag",
			"pause", "resume", "debug", "reload", "quit":
		case "key":
			if err := st.key.UnmarshalText([]byte(st.Key)); err != nil {
				return nil, fmt.Errorf("parse script: step %d: key %q: %w", i, st.Key, err)
			}
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// Done reports whether every step has run.
func (s *Script) Done() bool { return s.done }

// Len returns the number of steps.
func (s *Script) Len() int { return len(s.steps) }

// step advances the script by one frame.
func (s *Script) step(e *Engine) {
	if s.done {
		return
	}
	in := e.ctx.Input
	if in.Pending() > 0 {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++

	switch st.Action {
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "screenshot":
		e.Screenshot(st.Label)
	case "cursor":
		in.InjectCursor(st.X, st.Y)
	case "click":
		in.InjectClick(st.X, st.Y)
	case "drag":
		in.InjectDrag(Point{st.FromX, st.FromY}, Point{st.ToX, st.ToY}, st.Frames)
	case "key":
		in.InjectKey(st.key)
	case "pause", "resume":
		if e.scene != nil {
			e.scene.SetPaused(st.Action == "pause")
		}
	case "debug":
		e.ctx.SetDebug(!e.ctx.Debug())
	case "reload":
		e.ReloadScene()
	case "quit":
		e.log.Info("script finished", zap.Int("steps", len(s.steps)))
		s.done = true
		e.Stop()
		return
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 && in.Pending() == 0 {
		s.done = true
	}
}
