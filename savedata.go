package potion

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrSaveNotFound is returned when a named save does not exist.
	ErrSaveNotFound = errors.New("save not found")
	// ErrInvalidSaveName is returned for names that are empty or could
	// reach outside the save folder.
	ErrInvalidSaveName = errors.New("invalid save name")
)

const saveExt = ".psav"

// SaveData stores game saves as base64-encoded JSON files in a folder.
// Writes go to a temporary file that is then renamed over the save, so a
// crash mid-write never leaves a truncated save behind.
type SaveData struct {
	dir string
	log *zap.Logger
}

// NewSaveData stores saves in dir, which is created on the first Save.
func NewSaveData(dir string, log *zap.Logger) *SaveData {
	if log == nil {
		log = zap.NewNop()
	}
	return &SaveData{dir: dir, log: log}
}

// Dir returns the save folder.
func (s *SaveData) Dir() string { return s.dir }

// path returns the file for a save. Names are single path elements.
func (s *SaveData) path(name string) (string, error) {
	if name == "" || name == "." || strings.Contains(name, "..") ||
		strings.ContainsAny(name, `/\`+string(filepath.Separator)) {
		s.log.Error("invalid save name", zap.String("save", name))
		return "", fmt.Errorf("%w: %q", ErrInvalidSaveName, name)
	}
	return filepath.Join(s.dir, name+saveExt), nil
}

// List returns the names of every save, sorted.
func (s *SaveData) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == saveExt {
			names = append(names, strings.TrimSuffix(e.Name(), saveExt))
		}
	}
	slices.Sort(names)
	return names, nil
}

// Exists reports whether a save with the given name exists. Invalid names
// never exist.
func (s *SaveData) Exists(name string) bool {
	file, err := s.path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(file)
	return err == nil
}

// Save writes v as the named save, replacing any existing one.
func (s *SaveData) Save(name string, v any) error {
	file, err := s.path(name)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error("could not encode save data", zap.String("save", name), zap.Error(err))
		return fmt.Errorf("save %s: encode: %w", name, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}

	tmp := filepath.Join(s.dir, name+"."+uuid.NewString()+".temp")
	encoded := base64.StdEncoding.EncodeToString(data)
	if err := os.WriteFile(tmp, []byte(encoded), 0o644); err != nil {
		return fmt.Errorf("save %s: write: %w", name, err)
	}
	if err := os.Rename(tmp, file); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("save %s: replace: %w", name, err)
	}
	return nil
}

// Load decodes the named save into v.
func (s *SaveData) Load(name string, v any) error {
	file, err := s.path(name)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	raw, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Error("save file does not exist", zap.String("path", file))
		return fmt.Errorf("load %s: %w", name, ErrSaveNotFound)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return fmt.Errorf("load %s: decode: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("load %s: unmarshal: %w", name, err)
	}
	return nil
}

// Delete removes the named save.
func (s *SaveData) Delete(name string) error {
	file, err := s.path(name)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if !s.Exists(name) {
		s.log.Error("save file does not exist", zap.String("path", file))
		return fmt.Errorf("delete %s: %w", name, ErrSaveNotFound)
	}
	s.log.Debug("deleting save file", zap.String("path", file))
	if err := os.Remove(file); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}
