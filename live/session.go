// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package live runs drawing boards over websockets.
//
// The browser sends pointer and toolbar messages; the server drives an
// ink.Board whose surface streams every drawing call back as a Frame.
// Replays therefore run on the server clock and the browser only paints.
package live

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gogpu/ink"
)

// DefaultSize is the board size used when Config.Size is zero.
var DefaultSize = ink.Size{Width: 800, Height: 1000}

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// Config describes one session.
type Config struct {
	// Tooling selects a composition session; otherwise the session only
	// replays Recordings.
	Tooling bool

	// Recordings is the initial content. Nil starts empty.
	Recordings *ink.Recordings

	// Size of the board. Zero selects DefaultSize.
	Size ink.Size

	// Clock times replays. Nil selects ink.SystemClock.
	Clock ink.Clock

	// Save receives the encoded recordings when the browser sends "save".
	// It is required for tooling sessions.
	Save func(ctx context.Context, recordings string) error

	// CheckOrigin overrides the websocket origin check.
	CheckOrigin func(r *http.Request) bool
}

// Serve upgrades the request to a websocket and runs a session until the
// browser disconnects or ctx of the request ends.
func Serve(w http.ResponseWriter, r *http.Request, cfg Config) error {
	if cfg.Tooling && cfg.Save == nil {
		return errors.New("live: tooling session without Save")
	}
	up := upgrader
	up.CheckOrigin = cfg.CheckOrigin

	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("live: upgrade: %w", err)
	}
	defer conn.Close()

	s := newSession(&wsSender{conn: conn}, cfg)
	return s.run(r.Context(), conn)
}

// wsSender serializes writes; gorilla connections allow one writer.
type wsSender struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsSender) Send(f Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteJSON(f)
}

// session binds a Board to one browser.
type session struct {
	out   Sender
	board *ink.Board
	cfg   Config
}

func newSession(out Sender, cfg Config) *session {
	s := &session{out: out, cfg: cfg}
	opts := []ink.BoardOption{
		ink.WithTooling(cfg.Tooling),
		ink.WithReplayDone(func(int, error) { s.sendControls() }),
	}
	if cfg.Clock != nil {
		opts = append(opts, ink.WithClock(cfg.Clock))
	}
	s.board = ink.NewBoard(NewSurface(out), cfg.Recordings, opts...)
	return s
}

func (s *session) run(ctx context.Context, conn *websocket.Conn) error {
	defer func() { _ = s.board.Close() }()

	size := s.cfg.Size
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultSize
	}
	if err := s.board.Mount(size); err != nil {
		return err
	}
	s.sendControls()
	ink.Logger().Info("live: session started", "tooling", s.cfg.Tooling, "remote", conn.RemoteAddr().String())

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ink.Logger().Warn("live: read failed", "error", err)
				return err
			}
			ink.Logger().Info("live: session ended")
			return nil
		}
		if err := s.handle(ctx, msg); err != nil {
			s.sendError(err)
		}
	}
}

func (s *session) handle(ctx context.Context, msg Message) error {
	b := s.board
	switch msg.Type {
	case MsgDown, MsgMove:
		if msg.Point == nil {
			return fmt.Errorf("live: %s without point", msg.Type)
		}
		if msg.Type == MsgDown {
			return b.PointerDown(*msg.Point, msg.Time)
		}
		return b.PointerMove(*msg.Point, msg.Time)
	case MsgUp:
		return b.PointerUp()
	case MsgPen:
		if err := b.SetPenWeight(msg.Weight); err != nil {
			return err
		}
	case MsgErase:
		if _, err := b.ToggleErase(); err != nil {
			return err
		}
	case MsgClear:
		if err := b.ClearPage(); err != nil {
			return err
		}
	case MsgReplay:
		b.Replay()
	case MsgPrev:
		if err := b.PreviousPage(); err != nil {
			return err
		}
	case MsgNext:
		if err := b.NextPage(); err != nil {
			return err
		}
	case MsgAdd:
		if _, err := b.AddPage(); err != nil {
			return err
		}
	case MsgSave:
		return s.save(ctx)
	default:
		return fmt.Errorf("live: unknown message %q", msg.Type)
	}
	s.sendControls()
	return nil
}

func (s *session) save(ctx context.Context) error {
	if s.cfg.Save == nil {
		return ink.ErrReadOnly
	}
	// Keep the strokes until the save succeeds.
	keep := s.board.Recordings().Clone()
	encoded, err := s.board.Submit()
	if err != nil {
		return err
	}
	if err := s.cfg.Save(ctx, encoded); err != nil {
		if rerr := s.board.SetRecordings(keep); rerr != nil {
			ink.Logger().Warn("live: strokes not restored after failed save", "error", rerr)
		}
		return err
	}
	s.send(Frame{Type: FrameSaved, Recordings: encoded})
	s.sendControls()
	return nil
}

func (s *session) sendControls() {
	c := s.board.Controls()
	s.send(Frame{Type: FrameControls, Controls: &c})
}

func (s *session) sendError(err error) {
	ink.Logger().Debug("live: message refused", "error", err)
	s.send(Frame{Type: FrameError, Error: err.Error()})
}

func (s *session) send(f Frame) {
	if err := s.out.Send(f); err != nil {
		ink.Logger().Debug("live: frame not sent", "type", f.Type, "error", err)
	}
}
