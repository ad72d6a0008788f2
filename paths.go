package potion

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths locates the folders the game writes to. Root is
// %LOCALAPPDATA%\<name> on Windows and ~/.<name> elsewhere, where name is
// the config's clean game name.
type Paths struct {
	Root string
}

// NewPaths returns the default paths for the given clean game name. If the
// user's home cannot be found the current directory is used.
func NewPaths(cleanName string) Paths {
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return Paths{Root: filepath.Join(dir, cleanName)}
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Paths{Root: filepath.Join(home, "."+cleanName)}
}

func (p Paths) Saves() string     { return filepath.Join(p.Root, "Saves") }
func (p Paths) Logs() string      { return filepath.Join(p.Root, "Logs") }
func (p Paths) CrashLogs() string { return filepath.Join(p.Root, "CrashLogs") }
