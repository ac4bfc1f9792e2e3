package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// AudioStore guarda los bytes de audio en disco, en <dir>/sounds/<filename>.
// Colisiones de nombre no se deduplican: el último archivo pisa al anterior.
type AudioStore struct{ dir string }

func NewAudioStore(dataDir string) (*AudioStore, error) {
	dir := filepath.Join(dataDir, "sounds")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("audio dir: %w", err)
	}
	return &AudioStore{dir: dir}, nil
}

func (a *AudioStore) path(filename string) (string, error) {
	name := filepath.Base(filepath.Clean("/" + filename))
	if name == "/" || name == "." || strings.HasPrefix(name, "..") {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	return filepath.Join(a.dir, name), nil
}

// Save escribe primero a un temporal y después renombra, así nunca queda un
// archivo a medias con el nombre final.
func (a *AudioStore) Save(filename string, r io.Reader) (int64, error) {
	dst, err := a.path(filename)
	if err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(a.dir, ".upload-*")
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return 0, fmt.Errorf("save %s: %w", filename, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, err
	}
	return n, nil
}

func (a *AudioStore) Open(filename string) (io.ReadCloser, error) {
	p, err := a.path(filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", filename, ErrNotFound)
	}
	return f, err
}

// StoredFile es un audio en disco.
type StoredFile struct {
	Name string
	Size int64
}

// List devuelve los archivos guardados (sin temporales).
func (a *AudioStore) List() ([]StoredFile, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, err
	}
	out := make([]StoredFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".upload-") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// borrado entre ReadDir y Info
			continue
		}
		out = append(out, StoredFile{Name: e.Name(), Size: info.Size()})
	}
	return out, nil
}

func (a *AudioStore) Remove(filename string) error {
	p, err := a.path(filename)
	if err != nil {
		return err
	}
	return os.Remove(p)
}
