package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/inamate/sketchboard/internal/document"
)

// MemoryStore keeps encoded snapshots in a map. It is used when no
// database is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	boards map[string][]byte
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{boards: make(map[string][]byte), now: time.Now}
}

func (m *MemoryStore) Save(_ context.Context, b *document.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	version := 1
	if prev, ok := m.boards[b.ID]; ok {
		var old document.Board
		if err := json.Unmarshal(prev, &old); err != nil {
			return fmt.Errorf("decode board: %w", err)
		}
		if old.Version != b.Version {
			return fmt.Errorf("%w: stored version %d, snapshot version %d", ErrConflict, old.Version, b.Version)
		}
		version = old.Version + 1
	}
	b.Version = version
	b.UpdatedAt = m.now().UTC().Format(time.RFC3339)
	if b.CreatedAt == "" {
		b.CreatedAt = b.UpdatedAt
	}

	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	m.boards[b.ID] = data
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (*document.Board, error) {
	m.mu.RLock()
	data, ok := m.boards[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return document.Parse(data)
}

func (m *MemoryStore) List(_ context.Context) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Summary, 0, len(m.boards))
	for _, data := range m.boards {
		var b document.Board
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("decode board: %w", err)
		}
		out = append(out, summarize(&b))
	}
	slices.SortFunc(out, func(a, b Summary) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}
