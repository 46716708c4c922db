// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import (
	"context"
	"fmt"
	"sync"
)

// Board binds a Surface, a Recordings store, a Capturer and a Player into
// the drawing widget of one handwritten entry.
//
// A Board is either in tooling (composition) mode, where pointer input is
// captured and pen tools are available, or in viewer mode, where the page
// is only replayed. Replays run on their own goroutine and are cancelled
// when the board switches page, changes mode, loads new recordings or
// closes, so a stale replay never keeps drawing on the surface.
//
// Board is safe for concurrent use.
type Board struct {
	mu sync.Mutex

	surface  Surface
	rec      *Recordings
	player   *Player
	capture  *Capturer
	state    ReplayState
	onReplay func(page int, err error)

	tooling bool
	mounted bool
	closed  bool
	size    Size
	weight  float64
	erase   bool
	page    int

	active  *replayRun
	lastErr error
	replays int
}

// replayRun tracks the in-flight replay goroutine.
type replayRun struct {
	page   int
	cancel context.CancelFunc
	done   chan struct{}
}

// NewBoard creates a board drawing onto surface. A nil recordings starts
// an empty composition with page 0.
//
// The board does nothing visible until Mount.
func NewBoard(surface Surface, recordings *Recordings, opts ...BoardOption) *Board {
	o := defaultBoardOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if recordings == nil {
		recordings = NewRecordings()
	}

	b := &Board{
		surface:  surface,
		rec:      recordings,
		player:   NewPlayer(o.clock),
		onReplay: o.onReplayDone,
		tooling:  o.tooling,
		weight:   o.penWeight,
	}
	b.capture = NewCapturer(surface, &b.state, b.strokeRecorded)
	return b
}

// Mount sizes the surface, applies the default pen and replays the
// current page. Viewer boards always replay on mount; tooling boards
// replay only when the page already holds strokes.
//
// The size is fixed for the lifetime of the board.
func (b *Board) Mount(size Size) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	if b.mounted {
		return fmt.Errorf("ink: board already mounted at %dx%d", b.size.Width, b.size.Height)
	}
	if err := b.surface.Resize(size); err != nil {
		return fmt.Errorf("ink: mount: %w", err)
	}
	if err := b.surface.SetStyle(b.toolStyleLocked()); err != nil {
		return fmt.Errorf("ink: mount: %w", err)
	}
	b.mounted = true
	b.size = size

	page, err := b.rec.Page(b.page)
	if err != nil {
		return err
	}
	if !b.tooling || len(page) > 0 {
		b.startReplayLocked()
	}
	Logger().Info("ink: board mounted",
		"width", size.Width,
		"height", size.Height,
		"tooling", b.tooling,
		"pages", b.rec.Len())
	return nil
}

// toolStyleLocked returns the pen the user currently holds.
func (b *Board) toolStyleLocked() Style {
	s := DefaultStyle(b.weight)
	if b.erase {
		s.Mode = ModeErase
	}
	return s
}

// strokeRecorded is the capture listener. It runs inside PointerUp with
// b.mu held.
func (b *Board) strokeRecorded(s Stroke) {
	if !b.tooling || b.state.Load() == StateReplaying {
		return
	}
	if err := b.rec.Append(b.page, s); err != nil {
		Logger().Warn("ink: stroke not stored", "page", b.page, "error", err)
	}
}

// startReplayLocked launches a replay of the current page unless one is
// already running. It reports whether a replay started.
func (b *Board) startReplayLocked() bool {
	if b.closed || !b.mounted || b.active != nil {
		return false
	}
	if !b.state.TryBegin() {
		return false
	}
	page, err := b.rec.Page(b.page)
	if err != nil {
		b.state.Finish()
		Logger().Warn("ink: replay not started", "page", b.page, "error", err)
		return false
	}

	b.capture.Cancel()
	b.surface.SetInputEnabled(false)

	ctx, cancel := context.WithCancel(context.Background())
	run := &replayRun{page: b.page, cancel: cancel, done: make(chan struct{})}
	b.active = run
	b.replays++

	Logger().Debug("ink: replay started", "page", b.page, "strokes", len(page))
	go b.runReplay(ctx, run, page, b.toolStyleLocked())
	return true
}

func (b *Board) runReplay(ctx context.Context, run *replayRun, page Page, tool Style) {
	err := b.player.Draw(ctx, b.surface, page)
	logReplayError(err)

	b.mu.Lock()
	if serr := b.surface.SetStyle(tool); serr != nil {
		Logger().Warn("ink: pen not restored after replay", "error", serr)
	}
	b.surface.SetInputEnabled(true)
	b.state.Finish()
	b.active = nil
	b.lastErr = err
	done := b.onReplay
	b.mu.Unlock()

	run.cancel()
	close(run.done)
	if done != nil {
		done(run.page, err)
	}
}

// stopReplay cancels the in-flight replay and waits for it to release the
// surface. It must be called without b.mu held.
func (b *Board) stopReplay() {
	b.mu.Lock()
	run := b.active
	b.mu.Unlock()
	if run == nil {
		return
	}
	run.cancel()
	<-run.done
}

// transition cancels any replay, applies fn under the lock and, when fn
// asks for it, replays the resulting page.
func (b *Board) transition(fn func() (replay bool, err error)) error {
	for {
		b.stopReplay()

		b.mu.Lock()
		if b.active != nil {
			b.mu.Unlock()
			continue
		}
		if b.closed {
			b.mu.Unlock()
			return ErrClosed
		}
		replay, err := fn()
		if err == nil && replay {
			b.startReplayLocked()
		}
		b.mu.Unlock()
		return err
	}
}

// checkToolLocked reports why a pen tool is unavailable, if it is.
func (b *Board) checkToolLocked() error {
	switch {
	case b.closed:
		return ErrClosed
	case !b.tooling:
		return ErrReadOnly
	case b.active != nil:
		return ErrReplaying
	case !b.mounted:
		return ErrNotMounted
	}
	return nil
}

// Replay redraws the current page. It returns false without effect when a
// replay is already running or the board is not mounted.
func (b *Board) Replay() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.startReplayLocked()
}

// NextPage moves to the following page and replays it. On the last page
// it does nothing. Navigation is refused while replaying.
func (b *Board) NextPage() error {
	return b.navigate(+1)
}

// PreviousPage moves to the preceding page and replays it. On page 0 it
// does nothing. Navigation is refused while replaying.
func (b *Board) PreviousPage() error {
	return b.navigate(-1)
}

func (b *Board) navigate(delta int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	if b.active != nil {
		return ErrReplaying
	}
	target := min(max(b.page+delta, 0), b.rec.Len()-1)
	if target == b.page {
		return nil
	}
	b.page = target
	b.capture.Cancel()
	b.startReplayLocked()
	return nil
}

// AddPage appends an empty page, makes it current and replays it, which
// leaves the surface blank. A running replay is cancelled first.
func (b *Board) AddPage() (int, error) {
	var page int
	err := b.transition(func() (bool, error) {
		if !b.tooling {
			return false, ErrReadOnly
		}
		b.capture.Cancel()
		page = b.rec.AddPage()
		b.page = page
		Logger().Info("ink: page added", "page", page)
		return true, nil
	})
	return page, err
}

// SetTooling switches between composition and viewer mode. Leaving
// tooling mode replays the current page so the viewer shows the authored
// strokes instead of a blank surface. Any other call leaves a running
// replay alone.
func (b *Board) SetTooling(tooling bool) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	if tooling || !b.tooling {
		b.tooling = tooling
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	return b.transition(func() (bool, error) {
		if !b.tooling {
			return false, nil
		}
		b.tooling = false
		b.capture.Cancel()
		return true, nil
	})
}

// SetRecordings replaces the strokes shown by the board and replays the
// current page. The page index is clamped to the new page count.
func (b *Board) SetRecordings(r *Recordings) error {
	if r == nil {
		r = NewRecordings()
	}
	return b.transition(func() (bool, error) {
		b.capture.Cancel()
		b.rec = r
		b.page = min(b.page, r.Len()-1)
		return true, nil
	})
}

// SetPenWeight sets the pen size for the next strokes.
func (b *Board) SetPenWeight(w float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkToolLocked(); err != nil {
		return err
	}
	if w < MinPenWeight || w > MaxPenWeight {
		return fmt.Errorf("%w: %g not in [%g, %g]", ErrPenWeight, w, MinPenWeight, MaxPenWeight)
	}
	b.weight = w
	return b.surface.SetStyle(b.toolStyleLocked())
}

// ToggleErase flips between draw and erase mode and reports whether
// erase mode is now active.
func (b *Board) ToggleErase() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkToolLocked(); err != nil {
		return b.erase, err
	}
	b.erase = !b.erase
	return b.erase, b.surface.SetStyle(b.toolStyleLocked())
}

// ClearPage wipes the surface and discards every stroke of the current
// page. There is no undo.
func (b *Board) ClearPage() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkToolLocked(); err != nil {
		return err
	}
	b.capture.Cancel()
	if err := b.surface.Clear(); err != nil {
		return err
	}
	return b.rec.ClearPage(b.page)
}

// Submit encodes the recordings for saving and resets the board to an
// empty composition on page 0.
func (b *Board) Submit() (string, error) {
	var encoded string
	err := b.transition(func() (bool, error) {
		if !b.tooling {
			return false, ErrReadOnly
		}
		s, err := b.rec.Encode()
		if err != nil {
			return false, err
		}
		encoded = s
		b.capture.Cancel()
		b.rec = NewRecordings()
		b.page = 0
		if b.mounted {
			if err := b.surface.Clear(); err != nil {
				return false, err
			}
		}
		return false, nil
	})
	return encoded, err
}

// pointerLocked reports whether pointer input reaches the capturer.
func (b *Board) pointerLocked() bool {
	return !b.closed && b.mounted && b.tooling && b.active == nil
}

// PointerDown starts a stroke at p sampled at t milliseconds.
// Input is ignored in viewer mode and during replays.
func (b *Board) PointerDown(p Point, t float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.pointerLocked() {
		return nil
	}
	return b.capture.Begin(p, t, b.toolStyleLocked())
}

// PointerMove extends the current stroke.
func (b *Board) PointerMove(p Point, t float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.pointerLocked() {
		return nil
	}
	return b.capture.Move(p, t)
}

// PointerUp finishes the current stroke and stores it on the current page.
func (b *Board) PointerUp() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.pointerLocked() {
		b.capture.Cancel()
		return nil
	}
	return b.capture.End()
}

// Wait blocks until no replay is running and returns the error of the
// most recent replay.
func (b *Board) Wait() error {
	for {
		b.mu.Lock()
		run := b.active
		if run == nil {
			err := b.lastErr
			b.mu.Unlock()
			return err
		}
		b.mu.Unlock()
		<-run.done
	}
}

// Close cancels any running replay, waits for it to release the surface
// and closes the surface. Close is idempotent.
func (b *Board) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.capture.Cancel()
	run := b.active
	b.mu.Unlock()

	if run != nil {
		run.cancel()
		<-run.done
	}
	return b.surface.Close()
}

// State returns the replay state.
func (b *Board) State() State {
	return b.state.Load()
}

// Page returns the current page index.
func (b *Board) Page() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page
}

// Recordings returns the store the board currently edits or shows.
func (b *Board) Recordings() *Recordings {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rec
}

// Replays returns how many replays the board has started.
func (b *Board) Replays() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.replays
}

// Controls describes the toolbar and pagination the host should render.
type Controls struct {
	Tooling     bool    `json:"tooling"`
	Replaying   bool    `json:"replaying"`
	PenWeight   float64 `json:"penWeight"`
	EraseMode   bool    `json:"eraseMode"`
	Page        int     `json:"page"`
	PageCount   int     `json:"pageCount"`
	EraseLabel  string  `json:"eraseLabel"`
	ReplayLabel string  `json:"replayLabel"`

	PenDisabled     bool `json:"penDisabled"`
	EraseDisabled   bool `json:"eraseDisabled"`
	ClearDisabled   bool `json:"clearDisabled"`
	ReplayDisabled  bool `json:"replayDisabled"`
	PrevDisabled    bool `json:"prevDisabled"`
	NextDisabled    bool `json:"nextDisabled"`
	AddPageDisabled bool `json:"addPageDisabled"`
}

// Controls returns the current control state.
func (b *Board) Controls() Controls {
	b.mu.Lock()
	defer b.mu.Unlock()

	replaying := b.active != nil
	locked := replaying || !b.tooling
	c := Controls{
		Tooling:     b.tooling,
		Replaying:   replaying,
		PenWeight:   b.weight,
		EraseMode:   b.erase,
		Page:        b.page,
		PageCount:   b.rec.Len(),
		EraseLabel:  "Erase",
		ReplayLabel: "Replay",

		PenDisabled:     locked,
		EraseDisabled:   locked,
		ClearDisabled:   locked,
		ReplayDisabled:  replaying,
		PrevDisabled:    b.page == 0 || replaying,
		NextDisabled:    b.page >= b.rec.Len()-1 || replaying,
		AddPageDisabled: !b.tooling,
	}
	if b.erase {
		c.EraseLabel = "Draw"
	}
	if replaying {
		c.ReplayLabel = "Replaying..."
	}
	return c
}
