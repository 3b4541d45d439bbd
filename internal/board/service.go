// Package board exposes boards over HTTP and opens live sessions on them.
package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/inamate/sketchboard/internal/auth"
	"github.com/inamate/sketchboard/internal/document"
	"github.com/inamate/sketchboard/internal/engine"
	"github.com/inamate/sketchboard/internal/store"
	"github.com/inamate/sketchboard/internal/typeid"
)

var ErrInvalidRequest = errors.New("invalid request")

// Created is returned when a board is created: the board and a token
// granting access to it.
type Created struct {
	Board *document.Board `json:"board"`
	Token string          `json:"token"`
}

type Service struct {
	store  store.Store
	tokens *auth.Tokens
	engine engine.Config
	width  int
	height int
}

// NewService creates boards of the given canvas size.
func NewService(st store.Store, tokens *auth.Tokens, cfg engine.Config, width, height int) *Service {
	return &Service{store: st, tokens: tokens, engine: cfg, width: width, height: height}
}

// Create stores a new empty board, or a generated one when sample > 0.
func (s *Service) Create(ctx context.Context, name string, sample int, seed uint64) (*Created, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	if sample < 0 || sample > 10000 {
		return nil, fmt.Errorf("%w: sample count %d out of range", ErrInvalidRequest, sample)
	}

	id := typeid.NewBoardID()
	var b *document.Board
	if sample > 0 {
		b = document.NewSampleBoard(id, sample, seed)
		b.Name = name
	} else {
		b = document.NewEmptyBoard(id, name)
		b.Width = s.width
		b.Height = s.height
	}
	if err := s.store.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}

	token, err := s.tokens.Issue(id)
	if err != nil {
		return nil, err
	}
	return &Created{Board: b, Token: token}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*document.Board, error) {
	if err := typeid.Validate(id, typeid.PrefixBoard); err != nil {
		return nil, store.ErrNotFound
	}
	return s.store.Load(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]store.Summary, error) {
	return s.store.List(ctx)
}

// Open loads a board into a fresh engine.
func (s *Service) Open(ctx context.Context, id string) (*engine.Engine, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	eng := engine.NewEngine(s.engine)
	if err := eng.LoadBoard(b); err != nil {
		return nil, fmt.Errorf("load board %s: %w", id, err)
	}
	return eng, nil
}
