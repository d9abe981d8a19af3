package save

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/level"
	"go.uber.org/zap"
)

// ErrSlotNotFound is returned when a slot holds no snapshot.
var ErrSlotNotFound = errors.New("save: slot not found")

// Meta describes a stored snapshot without decoding its entities.
type Meta struct {
	Slot       int
	LevelIndex int
	LevelName  string
	Phase      string
	Turn       int
	SavedAt    time.Time
}

// Store persists encoded snapshots by slot. Implementations must be safe for
// concurrent use.
type Store interface {
	// Put stores data in meta.Slot, replacing any previous snapshot.
	Put(ctx context.Context, meta Meta, data []byte) error
	// Get returns the snapshot in slot or ErrSlotNotFound.
	Get(ctx context.Context, slot int) ([]byte, error)
	// List returns the metadata of every occupied slot ordered by slot.
	List(ctx context.Context) ([]Meta, error)
	// Delete empties slot. Deleting an empty slot returns ErrSlotNotFound.
	Delete(ctx context.Context, slot int) error
}

// MetaOf summarizes doc for listing.
func MetaOf(slot int, doc *Document, savedAt time.Time) Meta {
	m := Meta{
		Slot:       slot,
		LevelIndex: doc.Level.Index,
		LevelName:  doc.Level.Name,
		Phase:      doc.Level.Phase,
		SavedAt:    savedAt.UTC(),
	}
	if doc.Level.Turn != nil {
		m.Turn = *doc.Level.Turn
	}
	return m
}

// SaveSlot encodes l and stores it in slot.
//
// Precondition: slot >= 0.
func SaveSlot(ctx context.Context, st Store, slot int, l *level.Level, now time.Time) error {
	if slot < 0 {
		panic("save: SaveSlot called with negative slot")
	}
	var buf bytes.Buffer
	if err := Write(&buf, l); err != nil {
		return err
	}
	if err := st.Put(ctx, MetaOf(slot, FromLevel(l), now), buf.Bytes()); err != nil {
		return fmt.Errorf("storing slot %d: %w", slot, err)
	}
	l.Logger().Info("level saved", zap.Int("slot", slot))
	return nil
}

// LoadSlot fetches slot and rebuilds its level.
func LoadSlot(ctx context.Context, st Store, slot int, cfg level.Config, deps level.Deps) (*level.Level, error) {
	data, err := st.Get(ctx, slot)
	if err != nil {
		return nil, err
	}
	l, err := Read(bytes.NewReader(data), cfg, deps)
	if err != nil {
		return nil, fmt.Errorf("loading slot %d: %w", slot, err)
	}
	l.Logger().Info("level loaded", zap.Int("slot", slot))
	return l, nil
}
