package plan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"cleave/internal/services"
)

const (
	planFileName     = "cutplan.toml"
	progressFileName = "progress.toml"
)

// Store persists plans and progress checkpoints as TOML files under a
// single output directory. Writes go through a temp file and rename so a
// crash never leaves a half-written artifact behind.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory must already exist.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// PlanPath returns the location of the plan artifact.
func (s *Store) PlanPath() string {
	return filepath.Join(s.dir, planFileName)
}

// ProgressPath returns the location of the progress checkpoint.
func (s *Store) ProgressPath() string {
	return filepath.Join(s.dir, progressFileName)
}

// SavePlan writes the finished plan atomically.
func (s *Store) SavePlan(cutPlan *CutPlan) error {
	if err := EncodeFileAtomic(s.PlanPath(), cutPlan); err != nil {
		return services.Wrap(services.ErrStorage, "plan", "save plan", "", err)
	}
	return nil
}

// LoadPlan reads the plan artifact. A missing file maps to ErrNotFound so
// callers can distinguish "never planned" from a broken artifact.
func (s *Store) LoadPlan() (*CutPlan, error) {
	return ReadPlanFile(s.PlanPath())
}

// ReadPlanFile reads a plan from an explicit location, for callers that are
// handed a plan file rather than an output directory.
func ReadPlanFile(path string) (*CutPlan, error) {
	var cutPlan CutPlan
	if err := readTOMLFile(path, &cutPlan); err != nil {
		return nil, err
	}
	return &cutPlan, nil
}

// SaveProgress checkpoints the completed cut points atomically.
func (s *Store) SaveProgress(state *ProgressState) error {
	if err := EncodeFileAtomic(s.ProgressPath(), state); err != nil {
		return services.Wrap(services.ErrStorage, "plan", "save progress", "", err)
	}
	return nil
}

// LoadProgress reads the progress checkpoint, mapping a missing file to
// ErrNotFound.
func (s *Store) LoadProgress() (*ProgressState, error) {
	var state ProgressState
	if err := readTOMLFile(s.ProgressPath(), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// ClearProgress removes the checkpoint once the plan has been finalized.
// A checkpoint that is already gone is not an error.
func (s *Store) ClearProgress() error {
	if err := os.Remove(s.ProgressPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return services.Wrap(services.ErrStorage, "plan", "clear progress", "", err)
	}
	return nil
}

func readTOMLFile(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return services.Wrap(services.ErrNotFound, "plan", "load", filepath.Base(path), nil)
		}
		return services.Wrap(services.ErrStorage, "plan", "load", filepath.Base(path), err)
	}
	if err := toml.Unmarshal(data, target); err != nil {
		return services.Wrap(services.ErrInvalidState, "plan", "decode", filepath.Base(path), err)
	}
	return nil
}

// EncodeFileAtomic marshals value as TOML and replaces path through a temp
// file and rename, so readers never observe a partial write.
func EncodeFileAtomic(path string, value any) error {
	data, err := toml.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
