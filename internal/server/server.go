// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package server serves the diary over HTTP.
//
// Authentication happens in front of the server: the owner of every
// request is read from Config.OwnerHeader, or from the "owner" query
// parameter on websocket routes, where browsers cannot set headers.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/entry"
	"github.com/gogpu/ink/export"
	"github.com/gogpu/ink/live"
	"github.com/gogpu/ink/store"
)

type ctxKey struct{}

// Server routes diary requests to a Store.
type Server struct {
	cfg    *Config
	store  *store.Store
	router chi.Router

	// clock times websocket replays; nil selects the system clock.
	clock ink.Clock
}

// New returns a Server backed by st. A nil cfg selects DefaultConfig.
func New(cfg *Config, st *store.Store) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Server{cfg: cfg, store: st}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logRequests)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireOwner)

		r.Route("/api/entries", func(r chi.Router) {
			r.Get("/", s.listEntries)
			r.Post("/", s.createEntry)
			r.Post("/delete_multiple", s.deleteEntries)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getEntry)
				r.Put("/", s.updateEntry)
				r.Delete("/", s.deleteEntry)
				r.Get("/pages/{page}.png", s.pagePNG)
				r.Get("/export/{format}", s.exportEntry)
				r.Get("/replay", s.replay)
			})
		})
		r.Get("/api/compose", s.compose)
	})
	return r
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		ink.Logger().Debug("server: request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func (s *Server) requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := r.Header.Get(s.cfg.OwnerHeader)
		if owner == "" && websocketRequest(r) {
			owner = r.URL.Query().Get("owner")
		}
		if owner == "" {
			writeError(w, r, errNoOwner)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, owner)))
	})
}

func websocketRequest(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

func ownerOf(r *http.Request) string {
	owner, _ := r.Context().Value(ctxKey{}).(string)
	return owner
}

// entryView is the JSON shape of an entry in responses.
type entryView struct {
	entry.Entry
	Kind    entry.Kind `json:"kind"`
	Heading string     `json:"heading"`
}

func view(e entry.Entry) entryView {
	return entryView{Entry: e, Kind: e.Kind(), Heading: e.Heading(nil)}
}

// entryRequest is the body of create and update requests. A request
// whose recordings hold strokes makes a handwritten entry.
type entryRequest struct {
	Content    string `json:"content"`
	Recordings string `json:"recordings_map"`
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest{fmt.Errorf("server: request body: %w", err)}
	}
	return nil
}

func (s *Server) entryID(r *http.Request) (string, error) {
	return entry.ParseID(chi.URLParam(r, "id"))
}

func (s *Server) loadEntry(r *http.Request) (entry.Entry, error) {
	id, err := s.entryID(r)
	if err != nil {
		return entry.Entry{}, err
	}
	return s.store.Get(r.Context(), ownerOf(r), id)
}

// listEntries answers 204 when nothing matches.
func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := entry.ParseFilter(q.Get("date_from"), q.Get("date_to"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := s.store.List(r.Context(), ownerOf(r), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(list) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	views := make([]entryView, len(list))
	for i, e := range list {
		views[i] = view(e)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := newEntry(ownerOf(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.Add(r.Context(), e); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view(e))
}

func newEntry(owner string, req entryRequest) (entry.Entry, error) {
	if req.Recordings == "" || req.Recordings == entry.EmptyRecordings {
		return entry.NewTyped(owner, req.Content)
	}
	rec, err := ink.Decode(req.Recordings)
	if err != nil {
		return entry.Entry{}, badRequest{err}
	}
	e, err := entry.NewHandwritten(owner, rec)
	if err != nil {
		return entry.Entry{}, err
	}
	e.Content = req.Content
	return e, nil
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.loadEntry(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view(e))
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.loadEntry(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e.Content = req.Content
	e.Recordings = req.Recordings
	if e.Recordings != "" && e.Recordings != entry.EmptyRecordings {
		if _, err := ink.Decode(e.Recordings); err != nil {
			writeError(w, r, badRequest{err})
			return
		}
	}
	if err := s.store.Update(r.Context(), e); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view(e))
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := s.entryID(r)
	if err == nil {
		err = s.store.Delete(r.Context(), ownerOf(r), id)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteEntries(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ids := make([]string, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := entry.ParseID(raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		ids = append(ids, id)
	}
	n, err := s.store.DeleteMany(r.Context(), ownerOf(r), ids)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

func (s *Server) pagePNG(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page < 0 {
		writeError(w, r, badRequest{fmt.Errorf("server: invalid page %q", chi.URLParam(r, "page"))})
		return
	}
	s.render(w, r, "png", export.Options{Page: page, Size: s.cfg.Board.Size()}, false)
}

func (s *Server) exportEntry(w http.ResponseWriter, r *http.Request) {
	opts := export.Options{Size: s.cfg.Board.Size()}
	if p := r.URL.Query().Get("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil || page < 0 {
			writeError(w, r, badRequest{fmt.Errorf("server: invalid page %q", p)})
			return
		}
		opts.Page = page
	}
	s.render(w, r, chi.URLParam(r, "format"), opts, true)
}

// render exports the entry into memory first so failures still get a
// proper status.
func (s *Server) render(w http.ResponseWriter, r *http.Request, format string, opts export.Options, attach bool) {
	ex, err := export.New(format)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.loadEntry(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := e.Decode()
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := ex.Export(r.Context(), &buf, rec, opts); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", ex.ContentType())
	if attach {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", e.ID+"."+format))
	}
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) checkOrigin() func(*http.Request) bool {
	allowed := s.cfg.AllowedOrigins
	if len(allowed) == 0 {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return slices.Contains(allowed, "*") || origin == "" || slices.Contains(allowed, origin)
	}
}

// replay opens a viewer session on a stored entry.
func (s *Server) replay(w http.ResponseWriter, r *http.Request) {
	e, err := s.loadEntry(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := e.Decode()
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.serveLive(w, r, live.Config{Recordings: rec})
}

// compose opens a tooling session whose saves become handwritten entries.
func (s *Server) compose(w http.ResponseWriter, r *http.Request) {
	owner := ownerOf(r)
	s.serveLive(w, r, live.Config{
		Tooling: true,
		Save: func(ctx context.Context, encoded string) error {
			rec, err := ink.Decode(encoded)
			if err != nil {
				return err
			}
			e, err := entry.NewHandwritten(owner, rec)
			if err != nil {
				return err
			}
			return s.store.Add(ctx, e)
		},
	})
}

func (s *Server) serveLive(w http.ResponseWriter, r *http.Request, cfg live.Config) {
	cfg.Size = s.cfg.Board.Size()
	cfg.Clock = s.clock
	cfg.CheckOrigin = s.checkOrigin()
	if err := live.Serve(w, r, cfg); err != nil {
		ink.Logger().Warn("server: live session failed", "path", r.URL.Path, "error", err)
	}
}
