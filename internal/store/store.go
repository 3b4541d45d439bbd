// Package store persists board snapshots.
package store

import (
	"context"
	"errors"

	"github.com/inamate/sketchboard/internal/document"
)

var (
	ErrNotFound = errors.New("board not found")
	// ErrConflict means the board was saved by someone else since the
	// snapshot's Version was loaded.
	ErrConflict = errors.New("board changed since it was loaded")
)

// Summary is a board listing entry.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Version   int    `json:"version"`
	Shapes    int    `json:"shapes"`
	UpdatedAt string `json:"updatedAt"`
}

// Store saves and loads boards. Save treats b.Version as the version the
// snapshot was loaded at: it returns ErrConflict if a different version is
// stored, and otherwise stamps the next Version and UpdatedAt into b. The
// first save of a board is version 1.
type Store interface {
	Save(ctx context.Context, b *document.Board) error
	Load(ctx context.Context, id string) (*document.Board, error)
	List(ctx context.Context) ([]Summary, error)
}

func summarize(b *document.Board) Summary {
	return Summary{
		ID:        b.ID,
		Name:      b.Name,
		Version:   b.Version,
		Shapes:    len(b.Shapes),
		UpdatedAt: b.UpdatedAt,
	}
}
