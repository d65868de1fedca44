package objstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FS serves objects from a directory tree. Object ids are slash-separated
// paths relative to the root.
type FS struct {
	root string
	fsys fs.FS
}

func NewFS(root string) *FS {
	return &FS{root: root, fsys: os.DirFS(root)}
}

func (s *FS) List(ctx context.Context) ([]ObjectID, error) {
	var ids []ObjectID
	err := fs.WalkDir(s.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.Type().IsRegular() {
			ids = append(ids, ObjectID(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.root, err)
	}
	sortIDs(ids)
	return ids, nil
}

func (s *FS) Fetch(ctx context.Context, id ObjectID) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := fs.ReadFile(s.fsys, filepath.ToSlash(string(id)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return b, err
}
