// Package session runs one live editing session per websocket connection.
//
// A Session owns an Engine. Its Run loop is the only goroutine that touches
// the engine: it interleaves inbound messages and frame ticks, and each
// message is handled completely before the next message or frame.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/inamate/sketchboard/internal/document"
	"github.com/inamate/sketchboard/internal/engine"
	"github.com/inamate/sketchboard/internal/paint"
)

var ErrUnknownType = errors.New("unknown message type")

const (
	DefaultFrameInterval = 16 * time.Millisecond
	sendBuffer           = 256
	saveTimeout          = 5 * time.Second
)

// Saver persists a board snapshot. store.Store implements it.
type Saver interface {
	Save(ctx context.Context, b *document.Board) error
}

type Option func(*Session)

func WithFrameInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

type Session struct {
	ID      string
	BoardID string

	engine   *engine.Engine
	saver    Saver
	hub      *Hub
	interval time.Duration

	inbox chan Message
	send  chan []byte
	rec   *paint.Recorder

	seq       int64
	selection string
}

// New creates a session around eng, which should already hold the board.
// saver may be nil, in which case board.save is rejected.
func New(eng *engine.Engine, saver Saver, opts ...Option) *Session {
	s := &Session{
		ID:       uuid.New().String(),
		BoardID:  eng.Board().ID,
		engine:   eng,
		saver:    saver,
		interval: DefaultFrameInterval,
		inbox:    make(chan Message),
		send:     make(chan []byte, sendBuffer),
		rec:      paint.NewRecorder(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Deliver hands msg to the Run loop. It blocks until Run accepts it or ctx
// is done.
func (s *Session) Deliver(ctx context.Context, msg Message) error {
	select {
	case s.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Outbox yields encoded outbound messages.
func (s *Session) Outbox() <-chan []byte {
	return s.send
}

// Run processes messages and paints frames until ctx is cancelled. A board
// with unsaved changes is saved on the way out.
func (s *Session) Run(ctx context.Context) error {
	defer s.autosave(ctx)

	s.Send(TypeWelcome, WelcomePayload{
		SessionID: s.ID,
		Board:     s.engine.Board(),
		Mode:      s.engine.Mode(),
	})

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-s.inbox:
			if err := s.Handle(ctx, msg); err != nil {
				slog.Debug("message rejected", "type", msg.Type, "error", err, "session", s.ID)
				s.Send(TypeError, ErrorPayload{Message: err.Error()})
			}
		case <-ticker.C:
			s.Frame()
		}
	}
}

// Handle applies one message to the engine.
func (s *Session) Handle(ctx context.Context, msg Message) error {
	if err := s.apply(ctx, msg); err != nil {
		return err
	}
	if sel := s.engine.Selection(); sel != s.selection {
		s.selection = sel
		s.Send(TypeSelection, SelectionPayload{ShapeID: sel})
	}
	return nil
}

func (s *Session) apply(ctx context.Context, msg Message) error {
	e := s.engine
	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp:
		var p PointerPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		switch msg.Type {
		case TypePointerDown:
			e.PointerDown(p.X, p.Y)
		case TypePointerMove:
			e.PointerMove(p.X, p.Y)
		default:
			e.PointerUp(p.X, p.Y)
		}
	case TypeWheel:
		var p WheelPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		e.Wheel(p.X, p.Y, p.DeltaY)
	case TypePan:
		var p PanPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		e.Pan(p.DX, p.DY)
	case TypeKeyDown:
		var p KeyPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		e.KeyDown(p.Key)
	case TypeModeSet:
		var p ModePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return e.SetMode(p.Mode)
	case TypeStyleSet:
		var p StylePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		e.SetStyle(p)
	case TypeViewportResize:
		var p ResizePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if p.Width <= 0 || p.Height <= 0 {
			return fmt.Errorf("viewport size %gx%g must be positive", p.Width, p.Height)
		}
		e.Resize(p.Width, p.Height, p.PixelRatio)
	case TypeShapeDelete:
		var p ShapeDeletePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		e.RemoveShape(p.ID)
	case TypeSelectionClear:
		e.ClearSelection()
	case TypeBoardSave:
		return s.save(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
	}
	return nil
}

// Frame paints outstanding changes and sends them. It reports whether a
// frame was sent.
func (s *Session) Frame() bool {
	s.rec.Reset()
	f := s.engine.Tick(s.rec)
	if !f.Painted {
		return false
	}
	cmds, err := s.rec.JSON()
	if err != nil {
		slog.Error("encode frame", "error", err, "session", s.ID)
		return false
	}
	s.Send(TypeFrame, FramePayload{Full: f.Full, Regions: f.Regions, Commands: json.RawMessage(cmds)})
	return true
}

func (s *Session) save(ctx context.Context) error {
	if s.saver == nil {
		return errors.New("saving is not enabled")
	}
	b := s.engine.Board()
	if err := s.saver.Save(ctx, b); err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	s.engine.MarkSaved(b)

	msg := s.message(TypeSaved, SavedPayload{Version: b.Version, UpdatedAt: b.UpdatedAt, SessionID: s.ID})
	s.sendMessage(msg)
	if s.hub != nil {
		s.hub.Broadcast(s.BoardID, msg, s.ID)
	}
	slog.Info("board saved", "board", b.ID, "version", b.Version, "session", s.ID)
	return nil
}

func (s *Session) autosave(ctx context.Context) {
	if s.saver == nil || !s.engine.Modified() {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()
	if err := s.save(ctx); err != nil {
		slog.Error("autosave failed", "error", err, "board", s.BoardID, "session", s.ID)
	}
}

// Send encodes and queues an outbound message, dropping it if the client
// is not keeping up.
func (s *Session) Send(typ string, payload any) {
	s.sendMessage(s.message(typ, payload))
}

func (s *Session) message(typ string, payload any) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal payload", "error", err, "type", typ)
		return nil
	}
	s.seq++
	return &Message{Type: typ, BoardID: s.BoardID, SessionID: s.ID, Seq: s.seq, Payload: data}
}

func (s *Session) sendMessage(msg *Message) {
	if msg == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}
	select {
	case s.send <- data:
	default:
		slog.Warn("session send buffer full, dropping message", "type", msg.Type, "session", s.ID)
	}
}

func decode(msg Message, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%s: invalid payload: %w", msg.Type, err)
	}
	return nil
}
