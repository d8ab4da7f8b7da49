// Package highscore persists the best score as a single decimal integer in a text file.
package highscore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Store reads and writes the high score.
type Store interface {
	Load() (int, error)
	Save(score int) error
}

// FileStore keeps the score in a plain text file.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load returns 0 when the file does not exist. Any other read failure, or
// content that is not a single non-negative integer, is an error.
func (s *FileStore) Load() (int, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read high score: %w", err)
	}

	text := strings.TrimSpace(string(data))
	score, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("high score file %s: %w", s.Path, err)
	}
	if score < 0 {
		return 0, fmt.Errorf("high score file %s: negative score %d", s.Path, score)
	}
	return score, nil
}

// fileMode is used for a score file that does not exist yet.
const fileMode fs.FileMode = 0o644

// Save overwrites the file with score. The write goes through a temporary file
// in the same directory so a crash never leaves a truncated score behind. An
// existing file keeps its permissions.
func (s *FileStore) Save(score int) error {
	mode := fileMode
	if info, err := os.Stat(s.Path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".highscore-*")
	if err != nil {
		return fmt.Errorf("save high score: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("save high score: %w", err)
	}

	if _, err := tmp.WriteString(strconv.Itoa(score)); err != nil {
		tmp.Close()
		return fmt.Errorf("save high score: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save high score: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("save high score: %w", err)
	}
	return nil
}

// Memory is an in-process Store, used by headless runs and tests.
type Memory struct {
	Score   int
	Saves   int
	SaveErr error
}

func (m *Memory) Load() (int, error) {
	return m.Score, nil
}

func (m *Memory) Save(score int) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Score = score
	m.Saves++
	return nil
}
