package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/blockdock/pkg/block"
	"github.com/matzehuels/blockdock/pkg/codec"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
)

// DirStore keeps one definition file per template in a directory.
type DirStore struct {
	mu  sync.RWMutex
	dir string
}

// DefaultDir returns ~/.local/share/blockdock/definitions, or the
// equivalent under $XDG_DATA_HOME.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "blockdock", "definitions"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "blockdock", "definitions"), nil
}

// NewDirStore creates a directory store. An empty dir means [DefaultDir].
func NewDirStore(dir string) (*DirStore, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create definition dir: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

// Path returns the store directory.
func (s *DirStore) Path() string { return s.dir }

func (s *DirStore) file(id string) string {
	return filepath.Join(s.dir, id+codec.Ext)
}

func (s *DirStore) Get(ctx context.Context, id string) (*block.Template, error) {
	if err := bderrors.ValidateIdentifier(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, _, err := codec.ReadFile(s.file(id))
	if bderrors.Is(err, bderrors.ErrCodeFileNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read definition %s: %w", id, err)
	}
	return t, nil
}

func (s *DirStore) Put(ctx context.Context, t *block.Template) error {
	if t == nil {
		return bderrors.New(bderrors.ErrCodeInvalidInput, "nil template")
	}
	if err := bderrors.ValidateIdentifier(t.ID); err != nil {
		return err
	}
	data, err := codec.Encode(t)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.file(t.ID), data, 0o644); err != nil {
		return bderrors.Wrap(bderrors.ErrCodeStorage, err, "write definition %s", t.ID)
	}
	return nil
}

func (s *DirStore) Delete(ctx context.Context, id string) error {
	if err := bderrors.ValidateIdentifier(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.file(id)); err != nil && !os.IsNotExist(err) {
		return bderrors.Wrap(bderrors.ErrCodeStorage, err, "remove definition %s", id)
	}
	return nil
}

func (s *DirStore) List(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, bderrors.Wrap(bderrors.ErrCodeStorage, err, "read definition dir")
	}
	var out []Entry
	for _, f := range files {
		id, ok := strings.CutSuffix(f.Name(), codec.Ext)
		if f.IsDir() || !ok {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{ID: id, Size: int(info.Size()), UpdatedAt: info.ModTime()})
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *DirStore) Close() error { return nil }

var _ Store = (*DirStore)(nil)
