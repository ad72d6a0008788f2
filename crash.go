package potion

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
)

// ErrPanicked is wrapped by the error Engine.Run returns when a scene,
// entity or coroutine panicked during a frame.
var ErrPanicked = errors.New("game panicked")

// HandleCrash recovers a panic, writes a crash log to the crash-logs folder
// and exits with status 1. Defer it first thing in main:
//
//	defer potion.HandleCrash(cfg, log)
//
// Panics raised inside the game loop are caught by the engine itself, which
// writes the same crash log and returns an ErrPanicked error from Run.
// HandleCrash covers everything around the loop.
//
// With cfg.Engine.Debug set, the panic is logged and re-raised instead so
// the full trace reaches the terminal.
func HandleCrash(cfg *Config, log *zap.Logger) {
	r := recover()
	if r == nil {
		return
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}

	if cfg.Engine.Debug {
		log.Error("panic", zap.Any("value", r))
		_ = log.Sync()
		panic(r)
	}

	recordCrash(NewPaths(cfg.CleanName()).CrashLogs(), r, log)
	_ = log.Sync()
	os.Exit(1)
}

// recordCrash writes a crash log for a recovered panic value and returns
// the error the game should end with. It must run inside the deferred
// function that recovered, so the stack still shows the panic site.
func recordCrash(dir string, value any, log *zap.Logger) error {
	path, err := writeCrashLog(dir, value, debug.Stack(), time.Now())
	if err != nil {
		log.Error("write crash log", zap.Error(err), zap.Any("panic", value))
		return fmt.Errorf("%w: %v", ErrPanicked, value)
	}
	log.Error("crashed", zap.Any("panic", value), zap.String("log", path))
	return fmt.Errorf("%w: %v (crash log %s)", ErrPanicked, value, path)
}

// writeCrashLog writes the panic value and stack to
// dir/crash.YYYYMMDD_HHMMSS.log and returns the file path.
func writeCrashLog(dir string, value any, stack []byte, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create crash log folder: %w", err)
	}
	path := filepath.Join(dir, "crash."+now.Format("20060102_150405")+".log")
	body := fmt.Sprintf("panic: %v\n\n%s", value, stack)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write crash log: %w", err)
	}
	return path, nil
}
