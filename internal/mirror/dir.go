package mirror

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// DirDestination keeps snapshots as files in a local directory.
type DirDestination struct {
	dir string
}

func NewDirDestination(dir string) *DirDestination {
	return &DirDestination{dir: dir}
}

// Write stores a snapshot via a temp file rename, so a crash mid-write never
// leaves a truncated snapshot behind.
func (d *DirDestination) Write(ctx context.Context, name string, data []byte) error {
	if err := os.MkdirAll(d.dir, 0o700); err != nil {
		return err
	}

	target := filepath.Join(d.dir, name)
	tmp, err := os.CreateTemp(d.dir, name+".tmp*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), target)
}

func (d *DirDestination) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(d.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
