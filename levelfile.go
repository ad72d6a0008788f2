package potion

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LevelDef is one level in a YAML level manifest.
type LevelDef struct {
	Name      string              `yaml:"name"`
	X         int                 `yaml:"x"`
	Y         int                 `yaml:"y"`
	Width     int                 `yaml:"width"`
	Height    int                 `yaml:"height"`
	Depth     int                 `yaml:"depth"`
	Neighbors map[string][]string `yaml:"neighbors"` // direction → level names
	Metadata  map[string]any      `yaml:"metadata"`
}

type levelFile struct {
	Levels []LevelDef `yaml:"levels"`
}

// LoadLevels builds levels from a YAML manifest:
//
//	levels:
//	  - name: cave
//	    x: 0
//	    y: 0
//	    width: 320
//	    height: 180
//	    neighbors:
//	      east: [lake]
//
// Neighbor links are one-way, exactly as written. A link to an unknown
// level name or direction is an error.
func LoadLevels(data []byte) ([]*Level, error) {
	var f levelFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("level: parse manifest: %w", err)
	}

	levels := make([]*Level, 0, len(f.Levels))
	byName := make(map[string]*Level, len(f.Levels))
	for _, def := range f.Levels {
		if def.Name == "" {
			return nil, fmt.Errorf("level: manifest entry %d has no name", len(levels))
		}
		if _, dup := byName[def.Name]; dup {
			return nil, fmt.Errorf("level: duplicate level %q", def.Name)
		}
		if def.Width <= 0 || def.Height <= 0 {
			return nil, fmt.Errorf("level: %q has non-positive size %dx%d", def.Name, def.Width, def.Height)
		}
		l := NewLevel(def.Name, def.X, def.Y, def.Width, def.Height)
		l.depth = def.Depth
		for k, v := range def.Metadata {
			l.Metadata[k] = v
		}
		levels = append(levels, l)
		byName[def.Name] = l
	}

	for i, def := range f.Levels {
		for dirName, names := range def.Neighbors {
			dir, err := ParseDirection(dirName)
			if err != nil {
				return nil, fmt.Errorf("level: %q links unknown direction %q", def.Name, dirName)
			}
			for _, name := range names {
				n, ok := byName[name]
				if !ok {
					return nil, fmt.Errorf("level: %q links unknown neighbor %q", def.Name, name)
				}
				levels[i].AddNeighbor(n, dir)
			}
		}
	}
	return levels, nil
}

// LoadLevelsFile reads a level manifest from disk.
func LoadLevelsFile(path string) ([]*Level, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: read %s: %w", path, err)
	}
	levels, err := LoadLevels(raw)
	if err != nil {
		return nil, fmt.Errorf("level: %s: %w", path, err)
	}
	return levels, nil
}
