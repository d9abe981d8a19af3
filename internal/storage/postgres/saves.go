package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/save"
)

// SaveRepository stores save slots in the saves table.
type SaveRepository struct {
	db *Pool
}

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: pool must be non-nil and connected.
func NewSaveRepository(pool *Pool) *SaveRepository {
	if pool == nil {
		panic("postgres.NewSaveRepository: pool must not be nil")
	}
	return &SaveRepository{db: pool}
}

// Put upserts the snapshot of meta.Slot.
//
// Precondition: meta.Slot >= 0.
// Postcondition: The slot row holds data and meta.
func (r *SaveRepository) Put(ctx context.Context, meta save.Meta, data []byte) error {
	_, err := r.db.DB().Exec(ctx, `
		INSERT INTO saves (slot, level_index, level_name, phase, turn, saved_at, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (slot) DO UPDATE SET
			level_index = EXCLUDED.level_index,
			level_name  = EXCLUDED.level_name,
			phase       = EXCLUDED.phase,
			turn        = EXCLUDED.turn,
			saved_at    = EXCLUDED.saved_at,
			data        = EXCLUDED.data`,
		meta.Slot, meta.LevelIndex, meta.LevelName, meta.Phase, meta.Turn, meta.SavedAt, data,
	)
	if err != nil {
		return fmt.Errorf("upserting slot %d: %w", meta.Slot, err)
	}
	return nil
}

// Get returns the snapshot of slot.
//
// Postcondition: Returns save.ErrSlotNotFound if the slot is empty.
func (r *SaveRepository) Get(ctx context.Context, slot int) ([]byte, error) {
	var data []byte
	err := r.db.DB().QueryRow(ctx, `SELECT data FROM saves WHERE slot = $1`, slot).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, save.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying slot %d: %w", slot, err)
	}
	return data, nil
}

// List returns the metadata of every occupied slot ordered by slot.
func (r *SaveRepository) List(ctx context.Context) ([]save.Meta, error) {
	rows, err := r.db.DB().Query(ctx, `
		SELECT slot, level_index, level_name, phase, turn, saved_at
		FROM saves ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	var metas []save.Meta
	for rows.Next() {
		var m save.Meta
		if err := rows.Scan(&m.Slot, &m.LevelIndex, &m.LevelName, &m.Phase, &m.Turn, &m.SavedAt); err != nil {
			return nil, fmt.Errorf("scanning save: %w", err)
		}
		m.SavedAt = m.SavedAt.UTC()
		metas = append(metas, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating saves: %w", err)
	}
	return metas, nil
}

// Delete removes the slot row.
//
// Postcondition: Returns save.ErrSlotNotFound if no row existed.
func (r *SaveRepository) Delete(ctx context.Context, slot int) error {
	tag, err := r.db.DB().Exec(ctx, `DELETE FROM saves WHERE slot = $1`, slot)
	if err != nil {
		return fmt.Errorf("deleting slot %d: %w", slot, err)
	}
	if tag.RowsAffected() == 0 {
		return save.ErrSlotNotFound
	}
	return nil
}
