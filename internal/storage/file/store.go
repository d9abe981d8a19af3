// Package file stores save slots as XML documents in a directory.
package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/save"
)

var slotFile = regexp.MustCompile(`^save_(\d+)\.xml$`)

// Store keeps one save_<slot>.xml file per slot under a directory.
type Store struct {
	dir    string
	logger *zap.Logger
	mu     sync.RWMutex
}

// NewStore creates a Store rooted at dir, creating the directory if needed.
//
// Precondition: dir must be non-empty; logger must be non-nil.
// Postcondition: Returns a usable Store or a non-nil error.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if dir == "" {
		panic("file.NewStore: dir must not be empty")
	}
	if logger == nil {
		panic("file.NewStore: logger must not be nil")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating save dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Path returns the document path of slot.
func (s *Store) Path(slot int) string {
	return filepath.Join(s.dir, fmt.Sprintf("save_%d.xml", slot))
}

// Put writes data to the slot file through a temporary file so a crash never
// leaves a truncated save. The file's modification time is set to meta.SavedAt.
func (s *Store) Put(ctx context.Context, meta save.Meta, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".save-*")
	if err != nil {
		return fmt.Errorf("creating temp save: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing save: %w", err)
	}
	path := s.Path(meta.Slot)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing save: %w", err)
	}
	if !meta.SavedAt.IsZero() {
		if err := os.Chtimes(path, meta.SavedAt, meta.SavedAt); err != nil {
			return fmt.Errorf("stamping save: %w", err)
		}
	}
	s.logger.Debug("slot written", zap.Int("slot", meta.Slot), zap.String("path", path))
	return nil
}

// Get reads the slot file.
func (s *Store) Get(ctx context.Context, slot int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, save.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %d: %w", slot, err)
	}
	return data, nil
}

// List decodes every slot file. Files that fail to decode are logged and
// skipped.
func (s *Store) List(ctx context.Context) ([]save.Meta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	var metas []save.Meta
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m := slotFile.FindStringSubmatch(e.Name())
		if m == nil || e.IsDir() {
			continue
		}
		slot, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading slot %d: %w", slot, err)
		}
		doc, err := save.Decode(bytes.NewReader(data))
		if err != nil {
			s.logger.Warn("skipping unreadable save", zap.String("path", path), zap.Error(err))
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat slot %d: %w", slot, err)
		}
		metas = append(metas, save.MetaOf(slot, doc, info.ModTime()))
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Slot < metas[j].Slot })
	return metas, nil
}

// Delete removes the slot file.
func (s *Store) Delete(ctx context.Context, slot int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.Path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return save.ErrSlotNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting slot %d: %w", slot, err)
	}
	return nil
}
