package storage

import (
	"os"
	"path/filepath"
)

// LocalStorage writes artifacts to the local filesystem. Relative paths are
// resolved against the current working directory.
type LocalStorage struct{}

func NewLocal() *LocalStorage {
	return &LocalStorage{}
}

func (ls *LocalStorage) abs(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, path), nil
}

func (ls *LocalStorage) Exists(path string) bool {
	p, err := ls.abs(path)
	if err != nil {
		return false
	}
	if _, err := os.Stat(p); err != nil {
		return false
	}
	return true
}

func (ls *LocalStorage) ReadFile(path string) ([]byte, error) {
	p, err := ls.abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

// WriteFile creates the parent directory tree if absent and overwrites any
// existing file of the same name.
func (ls *LocalStorage) WriteFile(path string, data []byte) error {
	p, err := ls.abs(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}
