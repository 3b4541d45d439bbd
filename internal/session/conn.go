package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"golang.org/x/sync/errgroup"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
)

// Serve pumps messages between conn and s and runs s until the connection
// closes or ctx is cancelled.
func Serve(ctx context.Context, conn *websocket.Conn, s *Session) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer conn.Close(websocket.StatusNormalClosure, "")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return readPump(gctx, conn, s)
	})
	g.Go(func() error {
		return writePump(gctx, conn, s)
	})
	g.Go(func() error {
		return s.Run(gctx)
	})
	return g.Wait()
}

func readPump(ctx context.Context, conn *websocket.Conn, s *Session) error {
	conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || ctx.Err() != nil {
				return nil
			}
			slog.Debug("read error", "error", err, "session", s.ID)
			return nil
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "session", s.ID)
			continue
		}
		if err := s.Deliver(ctx, msg); err != nil {
			return nil
		}
	}
}

func writePump(ctx context.Context, conn *websocket.Conn, s *Session) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data := <-s.Outbox():
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				slog.Debug("write error", "error", err, "session", s.ID)
				return err
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return nil
			}
		case <-ctx.Done():
			return nil
		}
	}
}
